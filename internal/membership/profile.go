package membership

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
)

// fakeProfiles implements ProfileSource with gofakeit.
type fakeProfiles struct {
	faker *gofakeit.Faker
}

// NewFakeProfiles creates a ProfileSource seeded for reproducible output.
func NewFakeProfiles(seed uint64) ProfileSource {
	return &fakeProfiles{faker: gofakeit.New(seed)}
}

func (p *fakeProfiles) LastName() string  { return p.faker.LastName() }
func (p *fakeProfiles) FirstName() string { return p.faker.FirstName() }

func (p *fakeProfiles) Address() string {
	return fmt.Sprintf("%s, %s, %s %s", p.faker.Street(), p.faker.City(), p.faker.State(), p.faker.Zip())
}
