package coupon

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Evaluate checks a coupon against one order. A nil or inactive coupon is an
// invalid code. The first failing rule decides the result. Evaluate never
// mutates c.
func Evaluate(c *Coupon, req Request, policy Policy, now time.Time) Result {
	if c == nil || !c.IsActive {
		return reject(ReasonInvalidCode, "Invalid coupon code")
	}
	if now.Before(c.StartDate) {
		return reject(ReasonNotYetActive, "Coupon is not yet active")
	}
	if now.After(c.EndDate) {
		return reject(ReasonExpired, "Coupon has expired")
	}
	if c.UsedCount >= c.TotalQuantity {
		return reject(ReasonUsageLimitReached, "Coupon usage limit reached")
	}
	if req.OrderAmount < c.MinOrderAmount {
		return reject(ReasonMinOrderNotMet,
			fmt.Sprintf("Minimum order amount ₹%s required", humanize.Comma(c.MinOrderAmount)))
	}
	if policy.EnforcePerUserLimit && c.PerUserLimit > 0 && req.UserRedemptions >= c.PerUserLimit {
		return reject(ReasonPerUserLimitReached, "You have already used this coupon")
	}
	if policy.EnforceCategories && !appliesTo(c.ApplicableCategories, req.Categories) {
		return reject(ReasonNotApplicable, "Coupon is not applicable to the items in your cart")
	}

	return Result{
		Valid:    true,
		Coupon:   c.Summary(),
		Discount: Discount(c, req.OrderAmount),
	}
}

// Discount computes the rounded discount of c on amount, capped by
// maxDiscount for percentage coupons and by amount itself. A maxDiscount
// of zero means uncapped.
func Discount(c *Coupon, amount int64) int64 {
	if amount <= 0 {
		return 0
	}
	total := decimal.NewFromInt(amount)

	var d decimal.Decimal
	switch c.DiscountType {
	case DiscountPercentage:
		d = total.Mul(decimal.NewFromFloat(c.DiscountValue)).Div(hundred)
		if c.MaxDiscount != nil && *c.MaxDiscount > 0 {
			if ceiling := decimal.NewFromInt(*c.MaxDiscount); d.GreaterThan(ceiling) {
				d = ceiling
			}
		}
	case DiscountFixed:
		d = decimal.NewFromFloat(c.DiscountValue)
	default:
		return 0
	}

	if d.GreaterThan(total) {
		d = total
	}
	if d.IsNegative() {
		return 0
	}
	return d.Round(0).IntPart()
}

// appliesTo is true when the coupon lists no categories, lists "All", or
// shares a category with the cart.
func appliesTo(allowed, cart []string) bool {
	if len(allowed) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		if strings.EqualFold(a, "all") {
			return true
		}
		set[strings.ToLower(a)] = struct{}{}
	}
	for _, c := range cart {
		if _, ok := set[strings.ToLower(c)]; ok {
			return true
		}
	}
	return false
}

func reject(reason Reason, message string) Result {
	return Result{Valid: false, Reason: reason, Message: message}
}

// NormalizeCode trims and uppercases a coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
