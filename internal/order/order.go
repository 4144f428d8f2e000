package order

import (
	"github.com/shopspring/decimal"

	"MiniMart/internal/catalog"
)

// Order holds line items for a user. UserID is not checked against any registry.
//
// The total is computed from each product's current price, so it follows later
// price changes once CalculateTotalPrice runs again. Until then TotalPrice is stale.
type Order struct {
	ID     int
	UserID int

	items catalog.Lines
	total decimal.Decimal
}

func New(id, userID int) *Order {
	return &Order{ID: id, UserID: userID, items: catalog.Lines{}}
}

func (o *Order) AddToOrder(p *catalog.Product, qty int) {
	if o.items == nil {
		o.items = catalog.Lines{}
	}
	o.items.Add(p, qty)
}

func (o *Order) CalculateTotalPrice() decimal.Decimal {
	total := decimal.Zero
	for p, qty := range o.items {
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(qty))))
	}
	o.total = total
	return total
}

func (o *Order) TotalPrice() decimal.Decimal { return o.total }

func (o *Order) Items() []catalog.Line { return o.items.Items() }

func (o *Order) Products() []*catalog.Product { return o.items.Products() }

func (o *Order) Qty(p *catalog.Product) int { return o.items.Qty(p) }
