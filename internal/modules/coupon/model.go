package coupon

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DiscountType selects how DiscountValue is read.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon is a redeemable discount code. Codes are stored uppercase.
type Coupon struct {
	ID                   primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Code                 string             `json:"code" bson:"code"`
	Name                 string             `json:"name" bson:"name"`
	Description          string             `json:"description" bson:"description"`
	DiscountType         DiscountType       `json:"discountType" bson:"discountType"`
	DiscountValue        float64            `json:"discountValue" bson:"discountValue"`
	MinOrderAmount       int64              `json:"minOrderAmount" bson:"minOrderAmount"`
	MaxDiscount          *int64             `json:"maxDiscount,omitempty" bson:"maxDiscount,omitempty"`
	StartDate            time.Time          `json:"startDate" bson:"startDate"`
	EndDate              time.Time          `json:"endDate" bson:"endDate"`
	TotalQuantity        int                `json:"totalQuantity" bson:"totalQuantity"`
	UsedCount            int                `json:"usedCount" bson:"usedCount"`
	PerUserLimit         int                `json:"perUserLimit" bson:"perUserLimit"`
	IsActive             bool               `json:"isActive" bson:"isActive"`
	ApplicableCategories []string           `json:"applicableCategories" bson:"applicableCategories"`
	CreatedAt            time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Summary is the customer-facing view of a coupon. Usage counters are left out.
type Summary struct {
	Code           string       `json:"code"`
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	DiscountType   DiscountType `json:"discountType"`
	DiscountValue  float64      `json:"discountValue"`
	MinOrderAmount int64        `json:"minOrderAmount"`
	MaxDiscount    *int64       `json:"maxDiscount,omitempty"`
	EndDate        time.Time    `json:"endDate"`
}

func (c *Coupon) Summary() *Summary {
	return &Summary{
		Code:           c.Code,
		Name:           c.Name,
		Description:    c.Description,
		DiscountType:   c.DiscountType,
		DiscountValue:  c.DiscountValue,
		MinOrderAmount: c.MinOrderAmount,
		MaxDiscount:    c.MaxDiscount,
		EndDate:        c.EndDate,
	}
}

// Redemption records one confirmed use of a coupon by an order.
type Redemption struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CouponCode string             `json:"couponCode" bson:"couponCode"`
	UserID     string             `json:"userId" bson:"userId"`
	OrderID    string             `json:"orderId" bson:"orderId"`
	RedeemedAt time.Time          `json:"redeemedAt" bson:"redeemedAt"`
}

// Reason identifies why a coupon was rejected.
type Reason string

const (
	ReasonInvalidCode         Reason = "invalid_code"
	ReasonNotYetActive        Reason = "not_yet_active"
	ReasonExpired             Reason = "expired"
	ReasonUsageLimitReached   Reason = "usage_limit_reached"
	ReasonMinOrderNotMet      Reason = "min_order_not_met"
	ReasonPerUserLimitReached Reason = "per_user_limit_reached"
	ReasonNotApplicable       Reason = "not_applicable"
)

// Request is one validation call.
type Request struct {
	Code        string   `json:"code"`
	UserID      string   `json:"userId"`
	OrderAmount int64    `json:"orderAmount"`
	Categories  []string `json:"categories,omitempty"`

	// UserRedemptions is how many times UserID already redeemed the coupon.
	// Only read when per-user limits are enforced.
	UserRedemptions int `json:"-"`
}

// Policy switches on the optional coupon rules.
type Policy struct {
	EnforcePerUserLimit bool
	EnforceCategories   bool
}

// Result is the outcome of a validation. Discount is in whole rupees.
type Result struct {
	Valid    bool     `json:"valid"`
	Reason   Reason   `json:"reason,omitempty"`
	Message  string   `json:"message,omitempty"`
	Coupon   *Summary `json:"coupon,omitempty"`
	Discount int64    `json:"discount"`
}

// CreateCouponRequest is the admin payload for a new coupon.
type CreateCouponRequest struct {
	Code                 string       `json:"code"`
	Name                 string       `json:"name"`
	Description          string       `json:"description"`
	DiscountType         DiscountType `json:"discountType"`
	DiscountValue        float64      `json:"discountValue"`
	MinOrderAmount       int64        `json:"minOrderAmount"`
	MaxDiscount          *int64       `json:"maxDiscount"`
	StartDate            time.Time    `json:"startDate"`
	EndDate              time.Time    `json:"endDate"`
	TotalQuantity        int          `json:"totalQuantity"`
	PerUserLimit         int          `json:"perUserLimit"`
	IsActive             *bool        `json:"isActive"`
	ApplicableCategories []string     `json:"applicableCategories"`
}
