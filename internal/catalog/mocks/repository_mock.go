package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/shopmart/internal/catalog"
)

// MockRepository is an in-memory catalog.Repository for tests.
type MockRepository struct {
	mu       sync.RWMutex
	products map[string]catalog.Product

	UpsertErr error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{products: make(map[string]catalog.Product)}
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*catalog.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return &p, nil
}

func (m *MockRepository) List(ctx context.Context, category string) ([]catalog.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []catalog.Product
	for _, p := range m.products {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockRepository) Upsert(ctx context.Context, p *catalog.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.UpdatedAt = time.Now()
	m.products[p.ID] = *p
	return nil
}
