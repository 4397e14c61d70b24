// Package cart holds the storefront cart and renders it as a WhatsApp order.
package cart

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Thetiptop007/The-Tip-Top/internal/scope/search"
	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyCart is returned when checking out with no lines
	ErrEmptyCart = errors.New("cart is empty")
	// ErrMissingContact is returned when name or address is blank
	ErrMissingContact = errors.New("name and address are required")
	// ErrUnknownLine is returned when updating an id not in the cart
	ErrUnknownLine = errors.New("item not in cart")
)

// Line is one catalog item and its quantity
type Line struct {
	search.Item
	Quantity int `json:"quantity"`
}

// Subtotal is price times quantity
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered, thread-safe set of lines keyed by item id
type Cart struct {
	mu    sync.RWMutex
	lines []Line
}

// New returns an empty cart
func New() *Cart {
	return &Cart{}
}

// Add puts qty of item in the cart, merging with an existing line.
// Non-positive quantities count as one.
func (c *Cart) Add(item search.Item, qty int) {
	if qty < 1 {
		qty = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(item.ID); i >= 0 {
		c.lines[i].Quantity += qty
		return
	}
	c.lines = append(c.lines, Line{Item: item, Quantity: qty})
}

// Remove takes one unit of id away, dropping the line at quantity one
func (c *Cart) Remove(id search.ItemID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(id)
	if i < 0 {
		return
	}
	if c.lines[i].Quantity > 1 {
		c.lines[i].Quantity--
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// Delete drops the line for id
func (c *Cart) Delete(id search.ItemID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(id); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// Update replaces the line with the same id
func (c *Cart) Update(line Line) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(line.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownLine, line.ID)
	}
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	c.lines[i] = line
	return nil
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Lines returns a copy of the cart lines in insertion order
func (c *Cart) Lines() []Line {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// TotalAmount sums every line subtotal
func (c *Cart) TotalAmount() decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// TotalItems sums every line quantity
func (c *Cart) TotalItems() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) index(id search.ItemID) int {
	for i, l := range c.lines {
		if l.ID == id {
			return i
		}
	}
	return -1
}
