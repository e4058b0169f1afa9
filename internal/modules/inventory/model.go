package inventory

import (
	"time"

	"github.com/google/uuid"
)

// StockLevel is the on-hand quantity of one product.
type StockLevel struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Quantity  int       `json:"quantity"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SetStockRequest is the admin payload for a stock correction.
type SetStockRequest struct {
	Quantity int `json:"quantity"`
}
