// Package cart keeps the per-session shopping cart and wishlist.
package cart

import (
	"errors"
	"slices"
	"sync"

	"github.com/drstein77/storefront/internal/models"
)

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

type Cart struct {
	mx    sync.Mutex
	items []models.CartItem
}

// Add puts qty units of p in the cart, merging with an existing line.
func (c *Cart) Add(p models.Product, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}

	c.mx.Lock()
	defer c.mx.Unlock()

	if i := c.index(p.ID); i >= 0 {
		c.items[i].Quantity += qty
		return nil
	}
	c.items = append(c.items, models.CartItem{Product: p.Clone(), Quantity: qty})
	return nil
}

func (c *Cart) Remove(productID string) {
	c.mx.Lock()
	defer c.mx.Unlock()

	if i := c.index(productID); i >= 0 {
		c.items = slices.Delete(c.items, i, i+1)
	}
}

// UpdateQuantity sets the quantity of a line; zero or less removes it.
// It reports whether the product was in the cart.
func (c *Cart) UpdateQuantity(productID string, qty int) bool {
	c.mx.Lock()
	defer c.mx.Unlock()

	i := c.index(productID)
	if i < 0 {
		return false
	}
	if qty <= 0 {
		c.items = slices.Delete(c.items, i, i+1)
		return true
	}
	c.items[i].Quantity = qty
	return true
}

func (c *Cart) Items() []models.CartItem {
	c.mx.Lock()
	defer c.mx.Unlock()
	return slices.Clone(c.items)
}

// Total is the sum of price times quantity over all lines.
func (c *Cart) Total() float64 {
	c.mx.Lock()
	defer c.mx.Unlock()

	var total float64
	for _, it := range c.items {
		total += it.LineTotal()
	}
	return total
}

// Count is the number of units in the cart.
func (c *Cart) Count() int {
	c.mx.Lock()
	defer c.mx.Unlock()

	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Clear() {
	c.mx.Lock()
	defer c.mx.Unlock()
	c.items = nil
}

// Drain hands a snapshot of the lines to fn and empties the cart when fn
// succeeds. The cart stays locked for the whole call, so no Add can land
// between the snapshot and the clear.
func (c *Cart) Drain(fn func([]models.CartItem) error) error {
	c.mx.Lock()
	defer c.mx.Unlock()

	if err := fn(slices.Clone(c.items)); err != nil {
		return err
	}
	c.items = nil
	return nil
}

func (c *Cart) index(productID string) int {
	return slices.IndexFunc(c.items, func(it models.CartItem) bool { return it.ID == productID })
}
