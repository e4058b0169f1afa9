package order

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/mkj2903/finalshowmo/internal/modules/payment"
	"github.com/mkj2903/finalshowmo/internal/platform/validation"
)

// validatePlaceOrder checks the request shape before any lookup or write.
func validatePlaceOrder(req *PlaceOrderRequest) error {
	req.UserEmail = strings.TrimSpace(req.UserEmail)
	req.UserName = strings.TrimSpace(req.UserName)
	req.UTRNumber = strings.TrimSpace(req.UTRNumber)

	if !validEmail(req.UserEmail) {
		return validation.New("userEmail", "A valid email is required")
	}
	if req.UserName == "" {
		return validation.New("userName", "Name is required")
	}
	if len(req.Items) == 0 {
		return validation.New("items", "Order must contain at least one item")
	}
	for i, it := range req.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			return validation.New(fmt.Sprintf("items[%d].productId", i), "Product is required")
		}
		if it.Quantity < 1 {
			return validation.New(fmt.Sprintf("items[%d].quantity", i), "Quantity must be at least 1")
		}
	}
	if err := validateAddress(&req.ShippingAddress); err != nil {
		return err
	}

	switch strings.ToUpper(strings.TrimSpace(req.PaymentMethod)) {
	case "", payment.MethodUPI:
		req.PaymentMethod = payment.MethodUPI
	default:
		return validation.New("paymentMethod", "Only UPI payments are accepted")
	}
	return payment.ValidateUTR(req.UTRNumber)
}

func validateAddress(a *ShippingAddress) error {
	required := []struct {
		field string
		value *string
		label string
	}{
		{"shippingAddress.fullName", &a.FullName, "Full name"},
		{"shippingAddress.houseFlat", &a.HouseFlat, "House/flat"},
		{"shippingAddress.street", &a.Street, "Street"},
		{"shippingAddress.city", &a.City, "City"},
		{"shippingAddress.state", &a.State, "State"},
	}
	for _, r := range required {
		*r.value = strings.TrimSpace(*r.value)
		if *r.value == "" {
			return validation.New(r.field, r.label+" is required")
		}
	}

	a.Email = strings.TrimSpace(a.Email)
	if !validEmail(a.Email) {
		return validation.New("shippingAddress.email", "A valid email is required")
	}
	if countDigits(a.Phone) < 10 {
		return validation.New("shippingAddress.phone", "Phone number must have at least 10 digits")
	}
	a.Pincode = strings.TrimSpace(a.Pincode)
	if len(a.Pincode) != 6 || countDigits(a.Pincode) != 6 {
		return validation.New("shippingAddress.pincode", "Pincode must be exactly 6 digits")
	}
	if strings.TrimSpace(a.Country) == "" {
		a.Country = "India"
	}
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func validEmail(s string) bool {
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func countDigits(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			n++
		}
	}
	return n
}
