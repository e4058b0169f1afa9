package coupon

import (
	"context"
	"errors"
)

var (
	ErrCouponNotFound  = errors.New("coupon not found")
	ErrCouponExists    = errors.New("coupon already exists")
	ErrCouponExhausted = errors.New("coupon usage limit reached")
	ErrAlreadyRedeemed = errors.New("coupon already redeemed for this order")
)

// Repository defines storage for coupons and their redemptions.
type Repository interface {
	Create(ctx context.Context, c *Coupon) error
	GetByCode(ctx context.Context, code string) (*Coupon, error)
	List(ctx context.Context) ([]*Coupon, error)
	SetActive(ctx context.Context, code string, active bool) (*Coupon, error)

	// IncrementUsage adds one use only while usedCount < totalQuantity.
	// It returns ErrCouponExhausted when the ceiling is already reached.
	IncrementUsage(ctx context.Context, code string) (*Coupon, error)

	// DecrementUsage removes one use, never going below zero.
	DecrementUsage(ctx context.Context, code string) error

	// InsertRedemption returns ErrAlreadyRedeemed if the order already has one.
	InsertRedemption(ctx context.Context, r *Redemption) error
	DeleteRedemption(ctx context.Context, orderID string) (bool, error)
	CountRedemptions(ctx context.Context, code, userID string) (int, error)
}
