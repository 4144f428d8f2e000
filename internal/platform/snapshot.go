package platform

import (
	"github.com/shopspring/decimal"

	"MiniMart/internal/account"
	"MiniMart/internal/catalog"
	"MiniMart/internal/order"
)

// Value-returning reads for callers that must not share entity pointers across
// goroutines. Every copy is taken under the read lock.

type UserView struct {
	ID       int            `json:"id"`
	Username string         `json:"username"`
	Cart     []catalog.Line `json:"cart"`
}

type OrderView struct {
	ID     int             `json:"id"`
	UserID int             `json:"user_id"`
	Items  []catalog.Line  `json:"items"`
	Total  decimal.Decimal `json:"total"`
}

func (p *Platform) ProductValue(id int) (catalog.Product, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	pr, ok := p.products[id]
	if !ok {
		return catalog.Product{}, false
	}
	return *pr, true
}

func (p *Platform) SortedProductValues(c catalog.Comparator) []catalog.Product {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return catalog.Values(p.sortedLocked(c))
}

func (p *Platform) AvailableProductValues() []catalog.Product {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return catalog.Values(catalog.InStock(p.productsLocked()))
}

func (p *Platform) UserValue(id int) (UserView, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	u, ok := p.users[id]
	if !ok {
		return UserView{}, false
	}
	return userView(u), true
}

// Recommendations is RecommendProducts by user id.
func (p *Platform) Recommendations(userID int) ([]catalog.Product, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	u, ok := p.users[userID]
	if !ok {
		return nil, false
	}
	return catalog.Values(p.recommendLocked(u)), true
}

// OrderOwner returns the user id an order belongs to without touching its total.
func (p *Platform) OrderOwner(id int) (int, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	o, ok := p.orders[id]
	if !ok {
		return 0, false
	}
	return o.UserID, true
}

// OrderValue recalculates the order total from current prices and copies the order.
func (p *Platform) OrderValue(id int) (OrderView, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	o, ok := p.orders[id]
	if !ok {
		return OrderView{}, false
	}
	o.CalculateTotalPrice()
	return orderView(o), true
}

// PlaceOrder builds an order from (product id, qty) pairs, totals it and stores it.
// It fails, storing nothing, when a product id is unknown; the bad id is returned.
func (p *Platform) PlaceOrder(id, userID int, items []ItemRef) (OrderView, int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	o := order.New(id, userID)
	for _, it := range items {
		pr, ok := p.products[it.ProductID]
		if !ok {
			return OrderView{}, it.ProductID, false
		}
		o.AddToOrder(pr, it.Qty)
	}
	o.CalculateTotalPrice()
	p.orders[o.ID] = o
	return orderView(o), 0, true
}

type ItemRef struct {
	ProductID int `json:"product_id"`
	Qty       int `json:"qty"`
}

func userView(u *account.User) UserView {
	return UserView{ID: u.ID, Username: u.Username, Cart: u.Cart()}
}

func orderView(o *order.Order) OrderView {
	return OrderView{ID: o.ID, UserID: o.UserID, Items: o.Items(), Total: o.TotalPrice()}
}
