package order

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

var ErrOrderNotFound = errors.New("order not found")

// Repository defines data access for orders. Methods taking a tx run inside
// the caller's transaction.
type Repository interface {
	// Create persists a new order and its items.
	Create(ctx context.Context, tx *sql.Tx, o *Order) error

	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetByCode(ctx context.Context, code string) (*Order, error)

	// GetForUpdate loads an order and locks its row until tx ends.
	GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*Order, error)

	// Update writes status, payment status and verification time.
	Update(ctx context.Context, tx *sql.Tx, o *Order) error

	List(ctx context.Context, f ListFilter) ([]*Order, error)
	Summary(ctx context.Context) (*Summary, error)
}
