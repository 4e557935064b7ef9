package purchasing

import (
	"errors"

	"shopsim/internal/catalog"
	"shopsim/internal/random"
)

var (
	ErrEmptyCatalog  = errors.New("purchasing: empty product catalog")
	ErrInvalidBounds = errors.New("purchasing: min amount exceeds max amount")
)

const (
	maxPicks        = 50
	maxLineQuantity = 10
)

// BuildBasket picks random catalog lines until the total reaches a target
// drawn from [minAmount, maxAmount].
//
// Once the basket holds a line, a pick that would push the total over
// maxAmount is discarded, so a basket with more than one line never exceeds
// it. The first line may overshoot; if no line is accepted within the pick
// limit the basket falls back to one unit of the first product. The result
// is never empty.
func BuildBasket(src random.Source, products []catalog.Product, minAmount, maxAmount int) (Basket, error) {
	if len(products) == 0 {
		return Basket{}, ErrEmptyCatalog
	}
	if minAmount > maxAmount {
		return Basket{}, ErrInvalidBounds
	}

	target := src.IntRange(minAmount, maxAmount)
	var basket Basket

	for i := 0; i < maxPicks; i++ {
		if basket.Total >= target {
			break
		}

		p := products[src.IntRange(0, len(products)-1)]
		if p.Price <= 0 {
			continue
		}

		remaining := target - basket.Total
		bound := min(maxLineQuantity, (remaining+p.Price-1)/p.Price)
		quantity := src.IntRange(1, max(1, bound))
		subtotal := p.Price * quantity

		if len(basket.Lines) > 0 && basket.Total+subtotal > maxAmount {
			continue
		}

		basket.Total += subtotal
		basket.Lines = append(basket.Lines, Line{
			ProductID:   p.ID,
			ProductName: p.Name,
			UnitPrice:   p.Price,
			Quantity:    quantity,
			Subtotal:    subtotal,
		})
	}

	if len(basket.Lines) == 0 {
		p := products[0]
		basket = Basket{
			Lines: []Line{{
				ProductID:   p.ID,
				ProductName: p.Name,
				UnitPrice:   p.Price,
				Quantity:    1,
				Subtotal:    p.Price,
			}},
			Total: p.Price,
		}
	}

	return basket, nil
}
