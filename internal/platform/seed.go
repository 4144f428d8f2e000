package platform

import (
	"context"

	"MiniMart/internal/catalog"
)

// Seed upserts every product src lists and returns how many were loaded.
func (p *Platform) Seed(ctx context.Context, src catalog.Source) (int, error) {
	products, err := src.ListSortedByID(ctx)
	if err != nil {
		return 0, err
	}
	for _, pr := range products {
		p.AddProduct(pr)
	}
	return len(products), nil
}
