package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"github.com/drstein77/storefront/internal/fixtures"
	"github.com/drstein77/storefront/internal/models"
)

// ErrConflict indicates a data conflict in the store.
var (
	ErrConflict = errors.New("data conflict")
	ErrNotFound = errors.New("not found")
)

type Log interface {
	Info(string, ...zap.Field)
}

// MemoryStorage holds the catalog, staff and order state of the shop.
// Every accessor returns copies so callers can never mutate stored records.
type MemoryStorage struct {
	ctx context.Context
	mx  sync.RWMutex

	products   []models.Product
	employees  []models.Employee
	attendance []models.AttendanceRecord
	orders     []models.Order

	node *snowflake.Node
	log  Log
}

// NewMemoryStorage creates a new MemoryStorage instance seeded from seed.
// A nil seed yields empty stores.
func NewMemoryStorage(ctx context.Context, seed *fixtures.Seed, log Log) (*MemoryStorage, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, fmt.Errorf("create id node: %w", err)
	}

	s := &MemoryStorage{
		ctx:  ctx,
		node: node,
		log:  log,
	}

	if seed != nil {
		for _, p := range seed.Products {
			s.products = append(s.products, p.Clone())
		}
		s.employees = append(s.employees, seed.Employees...)
		s.attendance = append(s.attendance, seed.Attendance...)
		s.orders = append(s.orders, seed.Orders...)
		log.Info("storage seeded",
			zap.Int("products", len(s.products)),
			zap.Int("employees", len(s.employees)),
			zap.Int("attendance", len(s.attendance)),
			zap.Int("orders", len(s.orders)),
		)
	}

	return s, nil
}

// newID returns a unique identifier carrying the entity prefix, e.g. P1789…
func (s *MemoryStorage) newID(prefix string) string {
	return prefix + s.node.Generate().String()
}
