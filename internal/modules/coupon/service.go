package coupon

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mkj2903/finalshowmo/internal/platform/events"
	"github.com/mkj2903/finalshowmo/internal/platform/validation"
	"go.uber.org/zap"
)

// Service defines coupon validation, redemption and administration.
type Service interface {
	// Validate checks a code against an order amount. It never changes usage.
	Validate(ctx context.Context, req Request) (Result, error)

	// IncrementUsage records one redemption of code for orderID.
	IncrementUsage(ctx context.Context, code, userID, orderID string) (*Coupon, error)

	// ReleaseUsage undoes the redemption made for orderID, if any.
	ReleaseUsage(ctx context.Context, code, orderID string) error

	CreateCoupon(ctx context.Context, req CreateCouponRequest) (*Coupon, error)
	GetCoupon(ctx context.Context, code string) (*Coupon, error)
	ListCoupons(ctx context.Context) ([]*Coupon, error)
	SetActive(ctx context.Context, code string, active bool) (*Coupon, error)
}

type service struct {
	repo      Repository
	policy    Policy
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a new coupon service.
func NewService(repo Repository, policy Policy, publisher events.Publisher, logger *zap.Logger) Service {
	return &service{
		repo:      repo,
		policy:    policy,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *service) Validate(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.Code) == "" {
		return Result{}, validation.New("code", "Coupon code is required")
	}
	if req.OrderAmount < 0 {
		return Result{}, validation.New("orderAmount", "Order amount must not be negative")
	}
	req.Code = NormalizeCode(req.Code)

	c, err := s.repo.GetByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, ErrCouponNotFound) {
		return Result{}, err
	}

	if c != nil && s.policy.EnforcePerUserLimit && req.UserID != "" {
		n, err := s.repo.CountRedemptions(ctx, c.Code, req.UserID)
		if err != nil {
			return Result{}, err
		}
		req.UserRedemptions = n
	}

	res := Evaluate(c, req, s.policy, s.now())
	if !res.Valid {
		s.logger.Debug("coupon rejected",
			zap.String("code", req.Code),
			zap.String("reason", string(res.Reason)))
	}
	return res, nil
}

func (s *service) IncrementUsage(ctx context.Context, code, userID, orderID string) (*Coupon, error) {
	code = NormalizeCode(code)

	err := s.repo.InsertRedemption(ctx, &Redemption{
		CouponCode: code,
		UserID:     userID,
		OrderID:    orderID,
		RedeemedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	c, err := s.repo.IncrementUsage(ctx, code)
	if err != nil {
		if _, derr := s.repo.DeleteRedemption(ctx, orderID); derr != nil {
			s.logger.Error("failed to remove redemption after increment failure",
				zap.String("code", code),
				zap.String("orderId", orderID),
				zap.Error(derr))
		}
		return nil, err
	}

	s.publish(ctx, events.TopicCouponRedeemed, code, map[string]any{
		"code":          code,
		"userId":        userID,
		"orderId":       orderID,
		"usedCount":     c.UsedCount,
		"totalQuantity": c.TotalQuantity,
	})
	return c, nil
}

func (s *service) ReleaseUsage(ctx context.Context, code, orderID string) error {
	code = NormalizeCode(code)

	deleted, err := s.repo.DeleteRedemption(ctx, orderID)
	if err != nil {
		return err
	}
	if !deleted {
		return nil
	}
	return s.repo.DecrementUsage(ctx, code)
}

func (s *service) CreateCoupon(ctx context.Context, req CreateCouponRequest) (*Coupon, error) {
	if err := validateCreate(&req); err != nil {
		return nil, err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	categories := req.ApplicableCategories
	if categories == nil {
		categories = []string{}
	}

	now := s.now().UTC()
	c := &Coupon{
		Code:                 NormalizeCode(req.Code),
		Name:                 strings.TrimSpace(req.Name),
		Description:          req.Description,
		DiscountType:         req.DiscountType,
		DiscountValue:        req.DiscountValue,
		MinOrderAmount:       req.MinOrderAmount,
		MaxDiscount:          req.MaxDiscount,
		StartDate:            req.StartDate.UTC(),
		EndDate:              req.EndDate.UTC(),
		TotalQuantity:        req.TotalQuantity,
		PerUserLimit:         req.PerUserLimit,
		IsActive:             active,
		ApplicableCategories: categories,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("coupon created", zap.String("code", c.Code))
	return c, nil
}

func (s *service) GetCoupon(ctx context.Context, code string) (*Coupon, error) {
	return s.repo.GetByCode(ctx, NormalizeCode(code))
}

func (s *service) ListCoupons(ctx context.Context) ([]*Coupon, error) {
	return s.repo.List(ctx)
}

func (s *service) SetActive(ctx context.Context, code string, active bool) (*Coupon, error) {
	return s.repo.SetActive(ctx, NormalizeCode(code), active)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func validateCreate(req *CreateCouponRequest) error {
	switch {
	case NormalizeCode(req.Code) == "":
		return validation.New("code", "Coupon code is required")
	case strings.TrimSpace(req.Name) == "":
		return validation.New("name", "Coupon name is required")
	case req.DiscountType != DiscountPercentage && req.DiscountType != DiscountFixed:
		return validation.New("discountType", "Discount type must be percentage or fixed")
	case req.DiscountValue < 0:
		return validation.New("discountValue", "Discount value must not be negative")
	case req.DiscountType == DiscountPercentage && req.DiscountValue > 100:
		return validation.New("discountValue", "Percentage discount cannot exceed 100")
	case req.MinOrderAmount < 0:
		return validation.New("minOrderAmount", "Minimum order amount must not be negative")
	case req.MaxDiscount != nil && *req.MaxDiscount < 0:
		return validation.New("maxDiscount", "Maximum discount must not be negative")
	case req.StartDate.IsZero() || req.EndDate.IsZero():
		return validation.New("endDate", "Start and end dates are required")
	case !req.EndDate.After(req.StartDate):
		return validation.New("endDate", "End date must be after start date")
	case req.TotalQuantity < 1:
		return validation.New("totalQuantity", "Total quantity must be at least 1")
	}

	if req.PerUserLimit == 0 {
		req.PerUserLimit = 1
	}
	if req.PerUserLimit < 1 {
		return validation.New("perUserLimit", "Per-user limit must be at least 1")
	}
	return nil
}

func (s *service) publish(ctx context.Context, topic, key string, payload any) {
	if err := s.publisher.Publish(ctx, topic, key, payload); err != nil {
		s.logger.Warn("failed to publish event",
			zap.String("topic", topic),
			zap.String("key", key),
			zap.Error(err))
	}
}
