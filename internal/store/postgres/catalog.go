package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"shopsim/internal/catalog"
)

func (t *tx) InsertCategories(ctx context.Context, categories []*catalog.Category) error {
	ctx, span := t.tracer.Start(ctx, "store.insert_categories",
		trace.WithAttributes(attribute.Int("category.count", len(categories))),
	)
	defer span.End()

	if len(categories) == 0 {
		return nil
	}

	args := make([]any, 0, len(categories)*3)
	for _, c := range categories {
		args = append(args, c.Name, c.CreatedAt, c.UpdatedAt)
	}

	rows, err := t.tx.QueryContext(ctx, `
		INSERT INTO category (name, created_at, updated_at)
		VALUES `+placeholders(len(categories), 3)+`
		RETURNING id
	`, args...)
	if err != nil {
		return fail(span, fmt.Errorf("insert categories: %w", classify(err)))
	}
	defer rows.Close()

	if err := scanIDs(rows, len(categories), func(i int, id int64) { categories[i].ID = id }); err != nil {
		return fail(span, fmt.Errorf("insert categories: %w", err))
	}
	return nil
}

func (t *tx) InsertProducts(ctx context.Context, products []*catalog.Product) error {
	ctx, span := t.tracer.Start(ctx, "store.insert_products",
		trace.WithAttributes(attribute.Int("product.count", len(products))),
	)
	defer span.End()

	err := chunks(len(products), func(lo, hi int) error {
		batch := products[lo:hi]
		args := make([]any, 0, len(batch)*5)
		for _, p := range batch {
			args = append(args, p.Name, p.CategoryID, p.Price, p.CreatedAt, p.UpdatedAt)
		}

		rows, err := t.tx.QueryContext(ctx, `
			INSERT INTO food (name, category_id, price, created_at, updated_at)
			VALUES `+placeholders(len(batch), 5)+`
			RETURNING id
		`, args...)
		if err != nil {
			return classify(err)
		}
		defer rows.Close()

		return scanIDs(rows, len(batch), func(i int, id int64) { batch[i].ID = id })
	})
	if err != nil {
		return fail(span, fmt.Errorf("insert products: %w", err))
	}
	return nil
}

func (t *tx) Products(ctx context.Context) ([]catalog.Product, error) {
	ctx, span := t.tracer.Start(ctx, "store.products")
	defer span.End()

	rows, err := t.tx.QueryContext(ctx, `
		SELECT id, category_id, name, price, created_at, updated_at
		FROM food
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fail(span, fmt.Errorf("query products: %w", classify(err)))
	}
	defer rows.Close()

	var products []catalog.Product
	for rows.Next() {
		var p catalog.Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Price, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fail(span, fmt.Errorf("scan product: %w", err))
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fail(span, fmt.Errorf("iterate products: %w", classify(err)))
	}

	span.SetAttributes(attribute.Int("products.loaded", len(products)))
	return products, nil
}

// scanIDs reads exactly want RETURNING id rows in insertion order.
func scanIDs(rows *sql.Rows, want int, assign func(i int, id int64)) error {
	i := 0
	for rows.Next() {
		if i >= want {
			return fmt.Errorf("got more than %d ids", want)
		}
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan id: %w", err)
		}
		assign(i, id)
		i++
	}
	if err := rows.Err(); err != nil {
		return classify(err)
	}
	if i != want {
		return fmt.Errorf("got %d ids, want %d", i, want)
	}
	return nil
}
