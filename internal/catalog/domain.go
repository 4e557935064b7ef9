// internal/catalog/domain.go
package catalog

import (
	"time"
)

// Kind identifies one of the fixed product categories.
type Kind int

const (
	KindDish Kind = iota
	KindDrink
	KindFruit
	KindVegetable
	KindSpice
)

// Kinds lists every category in insertion order.
var Kinds = []Kind{KindDish, KindDrink, KindFruit, KindVegetable, KindSpice}

func (k Kind) String() string {
	switch k {
	case KindDish:
		return "Dish"
	case KindDrink:
		return "Drink"
	case KindFruit:
		return "Fruit"
	case KindVegetable:
		return "Vegetable"
	case KindSpice:
		return "Spice"
	default:
		return "Unknown"
	}
}

// Category is one row of the fixed taxonomy.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Product is a purchasable catalog entry. Prices are whole currency units.
type Product struct {
	ID         int64     `json:"id"`
	CategoryID int64     `json:"category_id"`
	Name       string    `json:"name"`
	Price      int       `json:"price"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
