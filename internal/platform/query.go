package platform

import (
	"MiniMart/internal/account"
	"MiniMart/internal/catalog"
	"MiniMart/internal/order"
)

// SortedProducts orders every product by c, ascending. Ties keep id order.
func (p *Platform) SortedProducts(c catalog.Comparator) []*catalog.Product {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sortedLocked(c)
}

// AvailableProducts lists products with stock left, in id order.
func (p *Platform) AvailableProducts() []*catalog.Product {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return catalog.InStock(p.productsLocked())
}

func (p *Platform) OrdersFor(userID int) []*order.Order {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ordersForLocked(userID)
}

// RecommendProducts returns the products the user ordered before that are not
// in their cart right now. A cart entry at quantity zero still counts as in the cart.
func (p *Platform) RecommendProducts(u *account.User) []*catalog.Product {
	if u == nil {
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.recommendLocked(u)
}

func (p *Platform) sortedLocked(c catalog.Comparator) []*catalog.Product {
	if c == nil {
		c = catalog.ByPrice
	}
	return catalog.Sort(p.productsLocked(), c)
}

func (p *Platform) ordersForLocked(userID int) []*order.Order {
	var out []*order.Order
	for _, o := range sortedValues(p.orders) {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out
}

func (p *Platform) recommendLocked(u *account.User) []*catalog.Product {
	history := catalog.Lines{}
	for _, o := range p.ordersForLocked(u.ID) {
		for _, pr := range o.Products() {
			history[pr] = 1
		}
	}

	var out []*catalog.Product
	for _, pr := range history.Products() {
		if !u.InCart(pr) {
			out = append(out, pr)
		}
	}
	return out
}
