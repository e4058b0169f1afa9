package coupon

import (
	"testing"
	"time"
)

var (
	day     = 24 * time.Hour
	testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
)

func int64p(v int64) *int64 { return &v }

func save10() *Coupon {
	return &Coupon{
		Code:           "SAVE10",
		Name:           "Save 10",
		DiscountType:   DiscountPercentage,
		DiscountValue:  10,
		MaxDiscount:    int64p(50),
		MinOrderAmount: 100,
		StartDate:      testNow.Add(-day),
		EndDate:        testNow.Add(day),
		TotalQuantity:  100,
		PerUserLimit:   1,
		IsActive:       true,
	}
}

func TestEvaluateScenarios(t *testing.T) {
	flat500 := save10()
	flat500.Code = "FLAT500"
	flat500.DiscountType = DiscountFixed
	flat500.DiscountValue = 500
	flat500.MaxDiscount = nil
	flat500.MinOrderAmount = 0

	tests := []struct {
		name       string
		coupon     *Coupon
		amount     int64
		wantValid  bool
		wantReason Reason
		wantAmount int64
	}{
		{"percentage capped by max discount", save10(), 1000, true, "", 50},
		{"percentage under cap", save10(), 300, true, "", 30},
		{"below minimum order", save10(), 80, false, ReasonMinOrderNotMet, 0},
		{"fixed clamped to order amount", flat500, 300, true, "", 300},
		{"fixed below order amount", flat500, 800, true, "", 500},
		{"missing coupon", nil, 1000, false, ReasonInvalidCode, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.coupon, Request{Code: "X", OrderAmount: tt.amount}, Policy{}, testNow)
			if got.Valid != tt.wantValid {
				t.Fatalf("Valid = %v, want %v (%+v)", got.Valid, tt.wantValid, got)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.wantReason)
			}
			if got.Discount != tt.wantAmount {
				t.Errorf("Discount = %d, want %d", got.Discount, tt.wantAmount)
			}
		})
	}
}

func TestEvaluateMinimumOrderMessage(t *testing.T) {
	c := save10()
	c.MinOrderAmount = 1500

	got := Evaluate(c, Request{OrderAmount: 80}, Policy{}, testNow)
	if got.Message != "Minimum order amount ₹1,500 required" {
		t.Errorf("Message = %q", got.Message)
	}
}

func TestEvaluateRuleOrder(t *testing.T) {
	inactive := save10()
	inactive.IsActive = false

	early := save10()
	early.StartDate = testNow.Add(day)
	early.EndDate = testNow.Add(2 * day)
	early.UsedCount = early.TotalQuantity

	late := save10()
	late.StartDate = testNow.Add(-2 * day)
	late.EndDate = testNow.Add(-day)

	exhausted := save10()
	exhausted.UsedCount = exhausted.TotalQuantity

	tests := []struct {
		name   string
		coupon *Coupon
		amount int64
		want   Reason
	}{
		{"inactive coupon is an invalid code", inactive, 1000, ReasonInvalidCode},
		{"not yet active wins over exhausted", early, 10, ReasonNotYetActive},
		{"expired", late, 1000, ReasonExpired},
		{"exhausted wins over minimum", exhausted, 10, ReasonUsageLimitReached},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.coupon, Request{OrderAmount: tt.amount}, Policy{}, testNow)
			if got.Valid || got.Reason != tt.want {
				t.Errorf("got %+v, want reason %q", got, tt.want)
			}
		})
	}
}

func TestEvaluateDateWindowInclusive(t *testing.T) {
	c := save10()
	c.StartDate = testNow
	c.EndDate = testNow.Add(day)

	if got := Evaluate(c, Request{OrderAmount: 1000}, Policy{}, c.StartDate); !got.Valid {
		t.Errorf("at start date: %+v", got)
	}
	if got := Evaluate(c, Request{OrderAmount: 1000}, Policy{}, c.EndDate); !got.Valid {
		t.Errorf("at end date: %+v", got)
	}
	if got := Evaluate(c, Request{OrderAmount: 1000}, Policy{}, c.StartDate.Add(-time.Second)); got.Reason != ReasonNotYetActive {
		t.Errorf("before start: %+v", got)
	}
	if got := Evaluate(c, Request{OrderAmount: 1000}, Policy{}, c.EndDate.Add(time.Second)); got.Reason != ReasonExpired {
		t.Errorf("after end: %+v", got)
	}
}

func TestEvaluateDiscountBounds(t *testing.T) {
	values := []float64{0, 1, 5, 10, 33.3, 50, 99, 100}
	caps := []*int64{nil, int64p(0), int64p(25), int64p(1000)}
	amounts := []int64{0, 1, 7, 99, 100, 101, 999, 1000, 123457}

	for _, v := range values {
		for _, ceil := range caps {
			for _, amount := range amounts {
				for _, typ := range []DiscountType{DiscountPercentage, DiscountFixed} {
					c := save10()
					c.MinOrderAmount = 0
					c.DiscountType = typ
					c.DiscountValue = v * 10
					if typ == DiscountPercentage {
						c.DiscountValue = v
					}
					c.MaxDiscount = ceil

					got := Evaluate(c, Request{OrderAmount: amount}, Policy{}, testNow)
					if !got.Valid {
						t.Fatalf("unexpected rejection: %+v", got)
					}
					if got.Discount > amount {
						t.Errorf("%s %.1f on %d: discount %d exceeds amount", typ, c.DiscountValue, amount, got.Discount)
					}
					if got.Discount < 0 {
						t.Errorf("negative discount %d", got.Discount)
					}
					if typ == DiscountPercentage && ceil != nil && *ceil > 0 && got.Discount > *ceil {
						t.Errorf("%.1f%% on %d: discount %d exceeds cap %d", v, amount, got.Discount, *ceil)
					}
				}
			}
		}
	}
}

func TestEvaluateZeroMaxDiscountIsUncapped(t *testing.T) {
	c := save10()
	c.MaxDiscount = int64p(0)

	got := Evaluate(c, Request{OrderAmount: 1000}, Policy{}, testNow)
	if !got.Valid || got.Discount != 100 {
		t.Errorf("got valid=%v discount=%d, want valid discount 100", got.Valid, got.Discount)
	}
}

func TestEvaluateMaxDiscountIgnoredForFixed(t *testing.T) {
	c := save10()
	c.DiscountType = DiscountFixed
	c.DiscountValue = 200
	c.MaxDiscount = int64p(50)

	if got := Evaluate(c, Request{OrderAmount: 1000}, Policy{}, testNow); got.Discount != 200 {
		t.Errorf("Discount = %d, want 200", got.Discount)
	}
}

func TestEvaluateRounding(t *testing.T) {
	c := save10()
	c.MaxDiscount = nil
	c.MinOrderAmount = 0
	c.DiscountValue = 12.5

	// 12.5% of 100 = 12.5 rounds away from zero.
	if got := Evaluate(c, Request{OrderAmount: 100}, Policy{}, testNow); got.Discount != 13 {
		t.Errorf("Discount = %d, want 13", got.Discount)
	}
	// 12.5% of 99 = 12.375
	if got := Evaluate(c, Request{OrderAmount: 99}, Policy{}, testNow); got.Discount != 12 {
		t.Errorf("Discount = %d, want 12", got.Discount)
	}
}

func TestEvaluateIsPure(t *testing.T) {
	c := save10()
	before := *c
	req := Request{Code: "SAVE10", UserID: "u1", OrderAmount: 1000}

	first := Evaluate(c, req, Policy{}, testNow)
	second := Evaluate(c, req, Policy{}, testNow)

	if first.Valid != second.Valid || first.Discount != second.Discount || first.Reason != second.Reason {
		t.Errorf("results differ: %+v vs %+v", first, second)
	}
	if c.UsedCount != before.UsedCount {
		t.Errorf("UsedCount changed from %d to %d", before.UsedCount, c.UsedCount)
	}
}

func TestEvaluateSummaryRedactsCounters(t *testing.T) {
	got := Evaluate(save10(), Request{OrderAmount: 1000}, Policy{}, testNow)
	if got.Coupon == nil || got.Coupon.Code != "SAVE10" {
		t.Fatalf("Coupon = %+v", got.Coupon)
	}
}

func TestEvaluatePerUserLimit(t *testing.T) {
	c := save10()
	req := Request{UserID: "u1", OrderAmount: 1000, UserRedemptions: 1}

	if got := Evaluate(c, req, Policy{}, testNow); !got.Valid {
		t.Errorf("limit not enforced by default, got %+v", got)
	}
	got := Evaluate(c, req, Policy{EnforcePerUserLimit: true}, testNow)
	if got.Valid || got.Reason != ReasonPerUserLimitReached {
		t.Errorf("got %+v, want per_user_limit_reached", got)
	}
}

func TestEvaluateCategories(t *testing.T) {
	c := save10()
	c.ApplicableCategories = []string{"Hoodies"}
	policy := Policy{EnforceCategories: true}

	if got := Evaluate(c, Request{OrderAmount: 1000, Categories: []string{"T-Shirts"}}, Policy{}, testNow); !got.Valid {
		t.Errorf("categories not enforced by default, got %+v", got)
	}
	if got := Evaluate(c, Request{OrderAmount: 1000, Categories: []string{"T-Shirts"}}, policy, testNow); got.Reason != ReasonNotApplicable {
		t.Errorf("got %+v, want not_applicable", got)
	}
	if got := Evaluate(c, Request{OrderAmount: 1000, Categories: []string{"hoodies"}}, policy, testNow); !got.Valid {
		t.Errorf("matching category rejected: %+v", got)
	}

	c.ApplicableCategories = []string{"All"}
	if got := Evaluate(c, Request{OrderAmount: 1000, Categories: []string{"Mugs"}}, policy, testNow); !got.Valid {
		t.Errorf("All category rejected: %+v", got)
	}
}

func TestNormalizeCode(t *testing.T) {
	if got := NormalizeCode("  save10 "); got != "SAVE10" {
		t.Errorf("NormalizeCode = %q", got)
	}
}
