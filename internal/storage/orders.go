package storage

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/drstein77/storefront/internal/models"
)

func (s *MemoryStorage) Orders(_ context.Context) ([]models.Order, error) {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return slices.Clone(s.orders), nil
}

// AddOrder records a placed order, newest first.
func (s *MemoryStorage) AddOrder(_ context.Context, items []models.OrderItem, total float64) (models.Order, error) {
	s.mx.Lock()
	defer s.mx.Unlock()

	o := models.Order{
		ID:    s.newID("ORD"),
		Date:  time.Now().UTC(),
		Items: slices.Clone(items),
		Total: total,
	}
	s.orders = append([]models.Order{o}, s.orders...)
	s.log.Info("order placed", zap.String("id", o.ID), zap.Float64("total", total))
	return o, nil
}
