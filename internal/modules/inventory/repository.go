package inventory

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrProductNotFound   = errors.New("product not found")
)

// Ledger is the stock counter over products.quantity. Decrement and Increment
// run inside the caller's transaction.
type Ledger interface {
	// Decrement removes qty units only if at least qty are on hand.
	Decrement(ctx context.Context, tx *sql.Tx, productID uuid.UUID, qty int) error
	Increment(ctx context.Context, tx *sql.Tx, productID uuid.UUID, qty int) error

	Set(ctx context.Context, productID string, qty int) (*StockLevel, error)
	LowStock(ctx context.Context, threshold int) ([]*StockLevel, error)
	CountLowStock(ctx context.Context, threshold int) (int, error)
}
