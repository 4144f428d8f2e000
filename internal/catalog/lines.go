package catalog

import (
	"maps"
	"slices"
)

// Lines maps a product, by identity, to a quantity. Quantities never go below zero
// through Set or Remove; Add is unchecked.
type Lines map[*Product]int

// Line is a copied (product, quantity) pair.
type Line struct {
	Product Product `json:"product"`
	Qty     int     `json:"qty"`
}

func (l Lines) Add(p *Product, qty int) {
	l[p] += qty
}

func (l Lines) Remove(p *Product, qty int) {
	l[p] = max(l[p]-qty, 0)
}

func (l Lines) Set(p *Product, qty int) {
	l[p] = max(qty, 0)
}

func (l Lines) Qty(p *Product) int { return l[p] }

func (l Lines) Has(p *Product) bool {
	_, ok := l[p]
	return ok
}

func (l Lines) Products() []*Product {
	out := make([]*Product, 0, len(l))
	for p := range l {
		out = append(out, p)
	}
	slices.SortFunc(out, byIdentity)
	return out
}

// Items returns a snapshot ordered by product id. Distinct products sharing an
// id are ordered by name, price, then stock.
func (l Lines) Items() []Line {
	out := make([]Line, 0, len(l))
	for _, p := range l.Products() {
		out = append(out, Line{Product: *p, Qty: l[p]})
	}
	return out
}

func (l Lines) Clone() Lines {
	if l == nil {
		return Lines{}
	}
	return maps.Clone(l)
}
