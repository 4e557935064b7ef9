// internal/catalog/implementation.go
package catalog

import (
	"context"
	"fmt"
	"time"

	"shopsim/internal/distribution"
	"shopsim/internal/random"
)

// seeder implements the Seeder interface.
type seeder struct {
	src   random.Source
	namer Namer
}

// NewSeeder creates a new catalog seeder instance.
func NewSeeder(src random.Source, namer Namer) Seeder {
	return &seeder{
		src:   src,
		namer: namer,
	}
}

// Seed inserts the fixed categories followed by count randomized products,
// all stamped with day, and returns the stored products.
func (s *seeder) Seed(ctx context.Context, repo Repository, day time.Time, count int) ([]Product, error) {
	categories := make([]*Category, 0, len(Kinds))
	for _, kind := range Kinds {
		categories = append(categories, &Category{
			Name:      kind.String(),
			CreatedAt: day,
			UpdatedAt: day,
		})
	}

	if err := repo.InsertCategories(ctx, categories); err != nil {
		return nil, fmt.Errorf("failed to insert categories: %w", err)
	}

	products := s.buildProducts(categories, day, count)
	if err := repo.InsertProducts(ctx, products); err != nil {
		return nil, fmt.Errorf("failed to insert products: %w", err)
	}

	out := make([]Product, 0, len(products))
	for _, p := range products {
		out = append(out, *p)
	}
	return out, nil
}

// buildProducts expects categories in Kinds order. Repeated names get a
// numeric suffix so product names stay unique.
func (s *seeder) buildProducts(categories []*Category, day time.Time, count int) []*Product {
	seen := make(map[string]int)
	products := make([]*Product, 0, count)

	for i := 0; i < count; i++ {
		idx := s.src.IntRange(0, len(Kinds)-1)
		base := s.namer.ProductName(Kinds[idx])

		seen[base]++
		name := base
		if n := seen[base]; n > 1 {
			name = fmt.Sprintf("%s %d", base, n)
		}

		products = append(products, &Product{
			CategoryID: categories[idx].ID,
			Name:       name,
			Price:      distribution.RoundPrice(s.namer.RawPrice()),
			CreatedAt:  day,
			UpdatedAt:  day,
		})
	}

	return products
}
