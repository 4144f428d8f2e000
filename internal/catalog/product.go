package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID    int             `json:"id" db:"id"`
	Name  string          `json:"name" db:"name"`
	Price decimal.Decimal `json:"price" db:"price"`
	Stock int             `json:"stock" db:"stock"`
}

func NewProduct(id int, name string, price decimal.Decimal, stock int) *Product {
	return &Product{ID: id, Name: name, Price: price, Stock: stock}
}

// Comparator is a three-way comparison: negative when a sorts before b.
type Comparator func(a, b *Product) int

// ByPrice is the natural product order.
func ByPrice(a, b *Product) int { return a.Price.Cmp(b.Price) }

func ByName(a, b *Product) int { return strings.Compare(a.Name, b.Name) }

func ByStock(a, b *Product) int { return cmp.Compare(a.Stock, b.Stock) }

func byID(a, b *Product) int { return cmp.Compare(a.ID, b.ID) }

// byIdentity orders by id and breaks ties on the remaining fields, so two
// entities registered under one id still sort deterministically.
func byIdentity(a, b *Product) int {
	return cmp.Or(byID(a, b), ByName(a, b), ByPrice(a, b), ByStock(a, b))
}

var comparators = map[string]Comparator{
	"price": ByPrice,
	"name":  ByName,
	"stock": ByStock,
}

// ComparatorFor resolves a sort key. An empty key selects the natural order.
func ComparatorFor(key string) (Comparator, bool) {
	if key == "" {
		return ByPrice, true
	}
	c, ok := comparators[strings.ToLower(strings.TrimSpace(key))]
	return c, ok
}

// Sort returns a stably sorted copy of products. The input is left untouched.
func Sort(products []*Product, c Comparator) []*Product {
	out := slices.Clone(products)
	slices.SortStableFunc(out, c)
	return out
}

// Values copies products out of their pointers.
func Values(products []*Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		out = append(out, *p)
	}
	return out
}

func InStock(products []*Product) []*Product {
	out := make([]*Product, 0, len(products))
	for _, p := range products {
		if p.Stock > 0 {
			out = append(out, p)
		}
	}
	return out
}
