package account

import "MiniMart/internal/catalog"

// User is a shopper with a cart. Cart entries are kept once added, even at zero.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`

	cart catalog.Lines
}

func NewUser(id int, username string) *User {
	return &User{ID: id, Username: username, cart: catalog.Lines{}}
}

func (u *User) lines() catalog.Lines {
	if u.cart == nil {
		u.cart = catalog.Lines{}
	}
	return u.cart
}

// AddToCart adds qty on top of what is already in the cart. Stock is not checked.
func (u *User) AddToCart(p *catalog.Product, qty int) {
	u.lines().Add(p, qty)
}

// RemoveFromCart lowers the quantity, clamping at zero.
func (u *User) RemoveFromCart(p *catalog.Product, qty int) {
	u.lines().Remove(p, qty)
}

// ModifyCart overwrites the quantity; negative values become zero.
func (u *User) ModifyCart(p *catalog.Product, qty int) {
	u.lines().Set(p, qty)
}

func (u *User) CartQty(p *catalog.Product) int { return u.cart.Qty(p) }

// InCart reports whether p has an entry, whatever its quantity.
func (u *User) InCart(p *catalog.Product) bool { return u.cart.Has(p) }

func (u *User) Cart() []catalog.Line { return u.cart.Items() }

func (u *User) CartProducts() []*catalog.Product { return u.cart.Products() }
