package catalog

import (
	"context"
	"errors"
)

var ErrProductNotFound = errors.New("product not found")

// Repository defines the interface for product data storage.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, f ListFilter) ([]*Product, error)
	Update(ctx context.Context, p *Product) error
	SetActive(ctx context.Context, id string, active bool) error
	Count(ctx context.Context) (int, error)
}
