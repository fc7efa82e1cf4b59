// Package checkout validates checkout forms and turns a cart into an order.
package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/drstein77/storefront/internal/models"
)

// FlatShipping is charged on every non-empty order.
const FlatShipping = 10.00

var ErrEmptyCart = errors.New("cart is empty")

type Summary struct {
	Items    []models.CartItem `json:"items"`
	Subtotal float64           `json:"subtotal"`
	Shipping float64           `json:"shipping"`
	Total    float64           `json:"total"`
}

func Shipping(subtotal float64) float64 {
	if subtotal > 0 {
		return FlatShipping
	}
	return 0
}

func Summarize(items []models.CartItem) Summary {
	s := Summary{Items: items}
	for _, it := range items {
		s.Subtotal += it.LineTotal()
	}
	s.Shipping = Shipping(s.Subtotal)
	s.Total = s.Subtotal + s.Shipping
	return s
}

// Cart is the part of a shopping cart checkout consumes.
type Cart interface {
	Drain(fn func([]models.CartItem) error) error
}

type OrderRecorder interface {
	AddOrder(ctx context.Context, items []models.OrderItem, total float64) (models.Order, error)
}

type Confirmation struct {
	Name    string       `json:"name"`
	Address string       `json:"address"`
	Order   models.Order `json:"order"`
	Summary Summary      `json:"summary"`
}

// PlaceOrder validates the guest form, records the order and empties the cart.
// The cart is held for the whole placement, so lines added meanwhile wait for
// the next order. Validation failures are returned as validation.FieldErrors.
func PlaceOrder(ctx context.Context, orders OrderRecorder, c Cart, form GuestForm) (*Confirmation, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	conf := &Confirmation{Name: form.FullName, Address: form.ShippingAddress()}
	err := c.Drain(func(items []models.CartItem) error {
		if len(items) == 0 {
			return ErrEmptyCart
		}

		conf.Summary = Summarize(items)
		lines := make([]models.OrderItem, 0, len(items))
		for _, it := range items {
			lines = append(lines, models.OrderItem{
				ProductID:   it.ID,
				ProductName: it.Name,
				Quantity:    it.Quantity,
				Price:       it.Price,
			})
		}

		order, err := orders.AddOrder(ctx, lines, conf.Summary.Total)
		if err != nil {
			return fmt.Errorf("record order: %w", err)
		}
		conf.Order = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conf, nil
}
