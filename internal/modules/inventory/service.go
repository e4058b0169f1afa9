package inventory

import (
	"context"

	"github.com/mkj2903/finalshowmo/internal/platform/validation"
	"go.uber.org/zap"
)

// Evictor drops cached copies of products whose stock changed.
type Evictor interface {
	Evict(ctx context.Context, ids ...string)
}

// Service defines admin stock management.
type Service interface {
	SetStock(ctx context.Context, productID string, qty int) (*StockLevel, error)
	LowStock(ctx context.Context) ([]*StockLevel, error)
	CountLowStock(ctx context.Context) (int, error)
}

type service struct {
	ledger    Ledger
	evictor   Evictor
	threshold int
	logger    *zap.Logger
}

// NewService creates a new inventory service. evictor may be nil.
func NewService(ledger Ledger, evictor Evictor, threshold int, logger *zap.Logger) Service {
	return &service{ledger: ledger, evictor: evictor, threshold: threshold, logger: logger}
}

func (s *service) SetStock(ctx context.Context, productID string, qty int) (*StockLevel, error) {
	if qty < 0 {
		return nil, validation.New("quantity", "Quantity must not be negative")
	}
	level, err := s.ledger.Set(ctx, productID, qty)
	if err != nil {
		return nil, err
	}
	if s.evictor != nil {
		s.evictor.Evict(ctx, productID)
	}
	s.logger.Info("stock set", zap.String("productId", productID), zap.Int("quantity", qty))
	return level, nil
}

func (s *service) LowStock(ctx context.Context) ([]*StockLevel, error) {
	return s.ledger.LowStock(ctx, s.threshold)
}

func (s *service) CountLowStock(ctx context.Context) (int, error) {
	return s.ledger.CountLowStock(ctx, s.threshold)
}
