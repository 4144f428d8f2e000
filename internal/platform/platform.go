package platform

import (
	"maps"
	"slices"
	"sync"

	"MiniMart/internal/account"
	"MiniMart/internal/catalog"
	"MiniMart/internal/order"
)

// Platform is the registry of products, users and orders keyed by id.
// Inserts are upserts: a repeated id replaces the previous entry.
type Platform struct {
	mu       sync.RWMutex
	products map[int]*catalog.Product
	users    map[int]*account.User
	orders   map[int]*order.Order
}

func New() *Platform {
	return &Platform{
		products: map[int]*catalog.Product{},
		users:    map[int]*account.User{},
		orders:   map[int]*order.Order{},
	}
}

func (p *Platform) AddUser(u *account.User) {
	if u == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users[u.ID] = u
}

func (p *Platform) AddProduct(pr *catalog.Product) {
	if pr == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.products[pr.ID] = pr
}

func (p *Platform) CreateOrder(o *order.Order) {
	if o == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.orders[o.ID] = o
}

func (p *Platform) Product(id int) (*catalog.Product, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	pr, ok := p.products[id]
	return pr, ok
}

func (p *Platform) User(id int) (*account.User, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	u, ok := p.users[id]
	return u, ok
}

func (p *Platform) Order(id int) (*order.Order, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	o, ok := p.orders[id]
	return o, ok
}

// Products returns a snapshot ordered by id.
func (p *Platform) Products() []*catalog.Product {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.productsLocked()
}

func (p *Platform) Users() []*account.User {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return sortedValues(p.users)
}

func (p *Platform) Orders() []*order.Order {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return sortedValues(p.orders)
}

// Counts reports table sizes.
func (p *Platform) Counts() (products, users, orders int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.products), len(p.users), len(p.orders)
}

// UpdateProductStock sets the stock of pr only when its id is registered.
// The entity passed in is the one mutated.
func (p *Platform) UpdateProductStock(pr *catalog.Product, stock int) {
	if pr == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.products[pr.ID]; ok {
		pr.Stock = stock
	}
}

func (p *Platform) productsLocked() []*catalog.Product {
	return sortedValues(p.products)
}

func sortedValues[V any](m map[int]V) []V {
	keys := slices.Sorted(maps.Keys(m))
	out := make([]V, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}
