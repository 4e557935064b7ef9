package catalog

import (
	"github.com/brianvoe/gofakeit/v7"
)

const (
	minRawPrice = 500
	maxRawPrice = 1500
)

// gofakeit has no spice generator.
var spices = []string{
	"Black Pepper", "Cinnamon", "Cumin", "Turmeric", "Paprika", "Nutmeg",
	"Cardamom", "Clove", "Coriander", "Ginger", "Saffron", "Star Anise",
	"Fennel Seed", "Mustard Seed", "Sansho", "Shichimi", "Wasabi", "Sumac",
	"Allspice", "Chili Flakes",
}

// fakeNamer implements Namer with gofakeit.
type fakeNamer struct {
	faker *gofakeit.Faker
}

// NewFakeNamer creates a Namer seeded for reproducible output.
func NewFakeNamer(seed uint64) Namer {
	return &fakeNamer{faker: gofakeit.New(seed)}
}

func (n *fakeNamer) ProductName(kind Kind) string {
	switch kind {
	case KindDish:
		if n.faker.Bool() {
			return n.faker.Lunch()
		}
		return n.faker.Dinner()
	case KindDrink:
		return n.faker.Drink()
	case KindFruit:
		return n.faker.Fruit()
	case KindVegetable:
		return n.faker.Vegetable()
	default:
		return spices[n.faker.Number(0, len(spices)-1)]
	}
}

func (n *fakeNamer) RawPrice() int {
	return int(n.faker.Price(minRawPrice, maxRawPrice))
}
