package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mkj2903/finalshowmo/internal/modules/catalog"
	"github.com/mkj2903/finalshowmo/internal/modules/coupon"
	"github.com/mkj2903/finalshowmo/internal/modules/inventory"
	"github.com/mkj2903/finalshowmo/internal/modules/payment"
	"github.com/mkj2903/finalshowmo/internal/modules/pricing"
	"github.com/mkj2903/finalshowmo/internal/platform/events"
	"github.com/mkj2903/finalshowmo/internal/platform/validation"
	"go.uber.org/zap"
)

// Service defines the order management business logic.
type Service interface {
	// PlaceOrder validates the cart, prices it and persists it awaiting payment review.
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error)

	// GetOrder looks an order up by UUID or order code.
	GetOrder(ctx context.Context, idOrCode string) (*Order, error)

	// TrackOrder returns the order only when email matches the one it was placed with.
	TrackOrder(ctx context.Context, code, email string) (*Order, error)

	ListOrdersByEmail(ctx context.Context, email string) ([]*Order, error)
	ListOrders(ctx context.Context, f ListFilter) ([]*Order, error)

	// VerifyPayment applies an admin decision on the order's UTR exactly once.
	VerifyPayment(ctx context.Context, id string, decision payment.Decision, note, reviewer string) (*Order, error)

	// UpdateStatus moves the order through its lifecycle.
	UpdateStatus(ctx context.Context, id string, status Status) (*Order, error)

	Summary(ctx context.Context) (*Summary, error)
}

// CouponRejectedError carries the reason a coupon could not be applied at checkout.
type CouponRejectedError struct {
	Reason  coupon.Reason
	Message string
}

func (e *CouponRejectedError) Error() string { return "coupon rejected: " + e.Message }

// Transactor runs fn inside a database transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// ProductReader resolves live products for price and name snapshots.
type ProductReader interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
}

// CouponRedeemer validates codes at checkout and counts redemptions at verification.
type CouponRedeemer interface {
	Validate(ctx context.Context, req coupon.Request) (coupon.Result, error)
	IncrementUsage(ctx context.Context, code, userID, orderID string) (*coupon.Coupon, error)
	ReleaseUsage(ctx context.Context, code, orderID string) error
}

// Deps wires the order service to its collaborators. Evictor may be nil.
type Deps struct {
	Repo      Repository
	Tx        Transactor
	Products  ProductReader
	Coupons   CouponRedeemer
	Stock     inventory.Ledger
	Reviews   payment.Repository
	Evictor   inventory.Evictor
	Publisher events.Publisher
	Shipping  pricing.Policy
	Logger    *zap.Logger
}

type service struct {
	Deps
	now func() time.Time
}

// NewService creates a new order service.
func NewService(d Deps) Service {
	return &service{Deps: d, now: time.Now}
}

func (s *service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	if err := validatePlaceOrder(&req); err != nil {
		return nil, err
	}

	// ── Snapshot products ─────────────────────────────────────────────────────
	items := make([]*OrderItem, 0, len(req.Items))
	lines := make([]pricing.Line, 0, len(req.Items))
	var categories []string
	for i, ci := range req.Items {
		field := fmt.Sprintf("items[%d]", i)
		p, err := s.Products.GetProduct(ctx, ci.ProductID)
		if errors.Is(err, catalog.ErrProductNotFound) || (err == nil && !p.IsActive) {
			return nil, validation.New(field+".productId", "Product is no longer available")
		}
		if err != nil {
			return nil, err
		}
		if !p.InStock(ci.Quantity) {
			return nil, validation.New(field+".quantity",
				fmt.Sprintf("Only %d left in stock for %s", p.Quantity, p.Name))
		}
		size := strings.TrimSpace(ci.Size)
		if size != "" && len(p.Sizes) > 0 && !containsFold(p.Sizes, size) {
			return nil, validation.New(field+".size", fmt.Sprintf("Size %s is not available for %s", size, p.Name))
		}

		item := &OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  ci.Quantity,
			Size:      size,
			Price:     p.Price,
		}
		if len(p.Images) > 0 {
			item.Image = p.Images[0]
		}
		items = append(items, item)
		lines = append(lines, pricing.Line{UnitPrice: p.Price, Quantity: ci.Quantity})
		categories = append(categories, p.Category)
	}

	// ── Price, with optional coupon ───────────────────────────────────────────
	subtotal := pricing.Subtotal(lines)
	var (
		discount   int64
		couponCode string
	)
	if strings.TrimSpace(req.CouponCode) != "" {
		res, err := s.Coupons.Validate(ctx, coupon.Request{
			Code:        req.CouponCode,
			UserID:      strings.ToLower(req.UserEmail),
			OrderAmount: subtotal,
			Categories:  categories,
		})
		if err != nil {
			return nil, err
		}
		if !res.Valid {
			return nil, &CouponRejectedError{Reason: res.Reason, Message: res.Message}
		}
		discount = res.Discount
		couponCode = res.Coupon.Code
	}
	quote := pricing.Quote(lines, discount, s.Shipping)

	if req.TotalAmount != 0 && req.TotalAmount != quote.Total {
		s.Logger.Warn("client total differs from server total",
			zap.String("userEmail", req.UserEmail),
			zap.Int64("clientTotal", req.TotalAmount),
			zap.Int64("serverTotal", quote.Total))
	}

	now := s.now().UTC()
	o := &Order{
		ID:              uuid.New(),
		OrderCode:       generateOrderCode(now),
		UserEmail:       req.UserEmail,
		UserName:        req.UserName,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		Subtotal:        quote.Subtotal,
		Discount:        quote.Discount,
		ShippingFee:     quote.ShippingFee,
		TotalAmount:     quote.Total,
		CouponCode:      couponCode,
		PaymentMethod:   req.PaymentMethod,
		UTRNumber:       req.UTRNumber,
		Status:          StatusPaymentPending,
		PaymentStatus:   PaymentPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.Tx.WithinTx(ctx, func(tx *sql.Tx) error {
		return s.Repo.Create(ctx, tx, o)
	}); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	s.Logger.Info("order placed",
		zap.String("orderId", o.OrderCode),
		zap.Int64("total", o.TotalAmount),
		zap.String("coupon", o.CouponCode))
	s.publish(ctx, events.TopicOrderPlaced, o)
	return o, nil
}

func (s *service) GetOrder(ctx context.Context, idOrCode string) (*Order, error) {
	if id, err := uuid.Parse(idOrCode); err == nil {
		return s.Repo.GetByID(ctx, id)
	}
	return s.Repo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(idOrCode)))
}

func (s *service) TrackOrder(ctx context.Context, code, email string) (*Order, error) {
	if strings.TrimSpace(email) == "" {
		return nil, validation.New("email", "Email is required to track an order")
	}
	o, err := s.GetOrder(ctx, code)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(o.UserEmail, strings.TrimSpace(email)) {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *service) ListOrdersByEmail(ctx context.Context, email string) ([]*Order, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, validation.New("email", "Email is required")
	}
	return s.Repo.List(ctx, ListFilter{Email: email})
}

func (s *service) ListOrders(ctx context.Context, f ListFilter) ([]*Order, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, validation.New("status", "Unknown order status")
	}
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 500
	}
	return s.Repo.List(ctx, f)
}

func (s *service) VerifyPayment(ctx context.Context, id string, decision payment.Decision, note, reviewer string) (*Order, error) {
	if !decision.Valid() {
		return nil, validation.New("decision", "Decision must be accept or reject")
	}
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	var (
		o        *Order
		redeemed bool
	)
	err = s.Tx.WithinTx(ctx, func(tx *sql.Tx) error {
		var err error
		o, err = s.Repo.GetForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if err := o.ApplyPaymentDecision(decision, s.now().UTC()); err != nil {
			return err
		}

		if decision == payment.DecisionAccept {
			for _, it := range sortedByProduct(o.Items) {
				if err := s.Stock.Decrement(ctx, tx, it.ProductID, it.Quantity); err != nil {
					return err
				}
			}
			if o.CouponCode != "" {
				_, err := s.Coupons.IncrementUsage(ctx, o.CouponCode, strings.ToLower(o.UserEmail), o.ID.String())
				if err != nil && !errors.Is(err, coupon.ErrAlreadyRedeemed) {
					return err
				}
				redeemed = true
			}
		}

		if err := s.Repo.Update(ctx, tx, o); err != nil {
			return err
		}
		return s.Reviews.Create(ctx, tx, &payment.Review{
			OrderID:    o.ID,
			UTRNumber:  o.UTRNumber,
			Decision:   decision,
			Note:       strings.TrimSpace(note),
			ReviewedBy: reviewer,
		})
	})
	if err != nil {
		if redeemed {
			if rerr := s.Coupons.ReleaseUsage(ctx, o.CouponCode, o.ID.String()); rerr != nil {
				s.Logger.Error("failed to release coupon usage after rollback",
					zap.String("orderId", id),
					zap.String("coupon", o.CouponCode),
					zap.Error(rerr))
			}
		}
		return nil, err
	}

	s.Logger.Info("payment reviewed",
		zap.String("orderId", o.OrderCode),
		zap.String("decision", string(decision)),
		zap.String("reviewer", reviewer))

	topic := events.TopicOrderPaymentRejected
	if decision == payment.DecisionAccept {
		topic = events.TopicOrderPaymentVerified
		s.evict(ctx, o.Items)
	}
	s.publish(ctx, topic, o)
	return o, nil
}

func (s *service) UpdateStatus(ctx context.Context, id string, status Status) (*Order, error) {
	if !status.Valid() {
		return nil, validation.New("status", "Unknown order status")
	}
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	var (
		o         *Order
		restocked bool
	)
	err = s.Tx.WithinTx(ctx, func(tx *sql.Tx) error {
		var err error
		o, err = s.Repo.GetForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if err := o.AdvanceTo(status, s.now().UTC()); err != nil {
			return err
		}

		// Stock is only held once payment was verified.
		if (status == StatusCancelled || status == StatusFailed) && o.PaymentStatus == PaymentVerified {
			for _, it := range sortedByProduct(o.Items) {
				if err := s.Stock.Increment(ctx, tx, it.ProductID, it.Quantity); err != nil {
					return err
				}
			}
			restocked = true
		}
		return s.Repo.Update(ctx, tx, o)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("order status updated",
		zap.String("orderId", o.OrderCode),
		zap.String("status", string(o.Status)),
		zap.Bool("restocked", restocked))
	if restocked {
		s.evict(ctx, o.Items)
		if o.CouponCode != "" {
			if err := s.Coupons.ReleaseUsage(ctx, o.CouponCode, o.ID.String()); err != nil {
				s.Logger.Error("failed to release coupon usage for reversed order",
					zap.String("orderId", o.OrderCode),
					zap.String("coupon", o.CouponCode),
					zap.Error(err))
			}
		}
	}
	s.publish(ctx, events.TopicOrderStatusChanged, o)
	return o, nil
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	return s.Repo.Summary(ctx)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// generateOrderCode creates a human-readable order code: ORD-YYYYMMDD-XXXXXX
func generateOrderCode(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

// sortedByProduct returns items ordered by product id so concurrent
// transactions lock product rows in the same order.
func sortedByProduct(items []*OrderItem) []*OrderItem {
	out := append([]*OrderItem(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ProductID.String() < out[j].ProductID.String()
	})
	return out
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func (s *service) evict(ctx context.Context, items []*OrderItem) {
	if s.Evictor == nil {
		return
	}
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ProductID.String()
	}
	s.Evictor.Evict(ctx, ids...)
}

func (s *service) publish(ctx context.Context, topic string, o *Order) {
	payload := map[string]any{
		"id":            o.ID,
		"orderId":       o.OrderCode,
		"userEmail":     o.UserEmail,
		"status":        o.Status,
		"paymentStatus": o.PaymentStatus,
		"totalAmount":   o.TotalAmount,
		"couponCode":    o.CouponCode,
	}
	if err := s.Publisher.Publish(ctx, topic, o.ID.String(), payload); err != nil {
		s.Logger.Warn("failed to publish order event", zap.String("topic", topic), zap.Error(err))
	}
}
