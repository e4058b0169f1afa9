package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/mkj2903/finalshowmo/internal/platform/validation"
)

// Service defines UPI payment helpers and review history.
type Service interface {
	Intent(amount int64, orderRef string) (*Intent, error)
	QR(amount int64, orderRef string, size int) ([]byte, error)
	ListReviews(ctx context.Context, orderID string) ([]*Review, error)
}

type service struct {
	repo      Repository
	vpa       string
	payeeName string
}

func NewService(repo Repository, vpa, payeeName string) Service {
	return &service{repo: repo, vpa: vpa, payeeName: payeeName}
}

func (s *service) Intent(amount int64, orderRef string) (*Intent, error) {
	if amount <= 0 {
		return nil, validation.New("amount", "Amount must be greater than 0")
	}
	note := ""
	if orderRef != "" {
		note = "Order " + orderRef
	}
	return NewIntent(s.vpa, s.payeeName, amount, note), nil
}

func (s *service) QR(amount int64, orderRef string, size int) ([]byte, error) {
	in, err := s.Intent(amount, orderRef)
	if err != nil {
		return nil, err
	}
	if size < 128 || size > 1024 {
		size = 256
	}
	return QRCode(in, size)
}

func (s *service) ListReviews(ctx context.Context, orderID string) ([]*Review, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, validation.New("id", "Invalid order id")
	}
	return s.repo.ListByOrder(ctx, id)
}
