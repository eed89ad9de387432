package catalog

import "context"

// Repository is the catalog read/write port.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, category string) ([]Product, error)
	Upsert(ctx context.Context, p *Product) error
}
