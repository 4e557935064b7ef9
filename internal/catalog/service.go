// internal/catalog/service.go
package catalog

import (
	"context"
	"time"
)

// Repository is the catalog write and bulk read interface of the backing store.
type Repository interface {
	// InsertCategories stores the categories and assigns their IDs in place.
	InsertCategories(ctx context.Context, categories []*Category) error
	// InsertProducts stores the products and assigns their IDs in place.
	InsertProducts(ctx context.Context, products []*Product) error
	// Products returns the full catalog ordered by ID.
	Products(ctx context.Context) ([]Product, error)
}

// Seeder defines the interface for populating the catalog.
type Seeder interface {
	Seed(ctx context.Context, repo Repository, day time.Time, count int) ([]Product, error)
}

// Namer supplies product names and raw prices.
type Namer interface {
	ProductName(kind Kind) string
	RawPrice() int
}
