package storage

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/drstein77/storefront/internal/models"
)

func (s *MemoryStorage) GetAllProducts(_ context.Context) ([]models.Product, error) {
	s.mx.RLock()
	defer s.mx.RUnlock()

	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (s *MemoryStorage) ProductByID(_ context.Context, id string) (models.Product, error) {
	s.mx.RLock()
	defer s.mx.RUnlock()

	i := s.productIndex(id)
	if i < 0 {
		return models.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return s.products[i].Clone(), nil
}

// AddProduct stores a new product in front of the catalog. Any id or
// reviews on p are discarded.
func (s *MemoryStorage) AddProduct(_ context.Context, p models.Product) (models.Product, error) {
	s.mx.Lock()
	defer s.mx.Unlock()

	p = p.Clone()
	p.ID = s.newID("P")
	p.Reviews = []models.Review{}
	s.products = append([]models.Product{p}, s.products...)

	s.log.Info("product added", zap.String("id", p.ID), zap.String("name", p.Name))
	return p.Clone(), nil
}

func (s *MemoryStorage) UpdateProduct(_ context.Context, p models.Product) (models.Product, error) {
	s.mx.Lock()
	defer s.mx.Unlock()

	i := s.productIndex(p.ID)
	if i < 0 {
		return models.Product{}, fmt.Errorf("product %s: %w", p.ID, ErrNotFound)
	}
	s.products[i] = p.Clone()
	return p.Clone(), nil
}

func (s *MemoryStorage) UpdateStock(_ context.Context, id string, stock int) (models.Product, error) {
	if stock < 0 {
		return models.Product{}, fmt.Errorf("stock %d: %w", stock, ErrConflict)
	}

	s.mx.Lock()
	defer s.mx.Unlock()

	i := s.productIndex(id)
	if i < 0 {
		return models.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	s.products[i].Stock = stock
	return s.products[i].Clone(), nil
}

func (s *MemoryStorage) DeleteProduct(_ context.Context, id string) error {
	s.mx.Lock()
	defer s.mx.Unlock()

	i := s.productIndex(id)
	if i < 0 {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	s.products = slices.Delete(s.products, i, i+1)
	return nil
}

// AddReview prepends a review to the product, stamping id and date.
func (s *MemoryStorage) AddReview(_ context.Context, productID string, r models.Review) (models.Review, error) {
	s.mx.Lock()
	defer s.mx.Unlock()

	i := s.productIndex(productID)
	if i < 0 {
		return models.Review{}, fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}

	r.ID = s.newID("R")
	r.Date = time.Now().UTC()
	s.products[i].Reviews = append([]models.Review{r}, s.products[i].Reviews...)
	return r, nil
}

// ImportProducts upserts the given products by id (rows without an id get a
// fresh one) and returns the catalog totals after the import.
func (s *MemoryStorage) ImportProducts(_ context.Context, products []models.Product) (*models.ProcessResponse, error) {
	s.mx.Lock()
	defer s.mx.Unlock()

	var added, updated int
	for _, p := range products {
		if p.ID != "" {
			if i := s.productIndex(p.ID); i >= 0 {
				cur := &s.products[i]
				cur.Name = p.Name
				cur.Category = p.Category
				cur.Price = p.Price
				cur.Stock = p.Stock
				updated++
				continue
			}
		} else {
			p.ID = s.newID("P")
		}
		p = p.Clone()
		if p.Reviews == nil {
			p.Reviews = []models.Review{}
		}
		s.products = append(s.products, p)
		added++
	}

	resp := s.statsLocked()
	s.log.Info("products imported",
		zap.Int("added", added),
		zap.Int("updated", updated),
		zap.Int("total", resp.TotalItems),
	)
	return resp, nil
}

func (s *MemoryStorage) statsLocked() *models.ProcessResponse {
	categories := make(map[models.Category]struct{})
	resp := &models.ProcessResponse{TotalItems: len(s.products)}
	for _, p := range s.products {
		categories[p.Category] = struct{}{}
		resp.TotalPrice += p.Price
	}
	resp.TotalCategories = len(categories)
	return resp
}

func (s *MemoryStorage) productIndex(id string) int {
	return slices.IndexFunc(s.products, func(p models.Product) bool { return p.ID == id })
}
