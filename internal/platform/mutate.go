package platform

import (
	"MiniMart/internal/account"
	"MiniMart/internal/catalog"
)

// The helpers below look entities up by id and mutate them under the registry
// lock. They return false when an id is unknown and change nothing.

func (p *Platform) AddToCart(userID, productID, qty int) bool {
	return p.withCart(userID, productID, func(u *account.User, pr *catalog.Product) {
		u.AddToCart(pr, qty)
	})
}

func (p *Platform) RemoveFromCart(userID, productID, qty int) bool {
	return p.withCart(userID, productID, func(u *account.User, pr *catalog.Product) {
		u.RemoveFromCart(pr, qty)
	})
}

func (p *Platform) ModifyCart(userID, productID, qty int) bool {
	return p.withCart(userID, productID, func(u *account.User, pr *catalog.Product) {
		u.ModifyCart(pr, qty)
	})
}

// Cart returns a snapshot of the user's cart.
func (p *Platform) Cart(userID int) ([]catalog.Line, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	u, ok := p.users[userID]
	if !ok {
		return nil, false
	}
	return u.Cart(), true
}

// UpdateProduct applies fn to a registered product.
func (p *Platform) UpdateProduct(id int, fn func(*catalog.Product)) (catalog.Product, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pr, ok := p.products[id]
	if !ok {
		return catalog.Product{}, false
	}
	fn(pr)
	return *pr, true
}

// SetStock is UpdateProductStock by id.
func (p *Platform) SetStock(id, stock int) (catalog.Product, bool) {
	return p.UpdateProduct(id, func(pr *catalog.Product) { pr.Stock = stock })
}

func (p *Platform) withCart(userID, productID int, fn func(*account.User, *catalog.Product)) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	u, ok := p.users[userID]
	if !ok {
		return false
	}
	pr, ok := p.products[productID]
	if !ok {
		return false
	}
	fn(u, pr)
	return true
}
