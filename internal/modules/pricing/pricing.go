package pricing

// Policy is the one free-shipping rule applied at checkout.
type Policy struct {
	FreeShippingThreshold int64
	ShippingFee           int64
}

// Line is a priced cart line. UnitPrice is in whole rupees.
type Line struct {
	UnitPrice int64
	Quantity  int
}

// Breakdown is the price of an order.
type Breakdown struct {
	Subtotal    int64 `json:"subtotal"`
	Discount    int64 `json:"discount"`
	ShippingFee int64 `json:"shippingFee"`
	Total       int64 `json:"total"`
}

// Subtotal is the undiscounted sum of lines.
func Subtotal(lines []Line) int64 {
	var sum int64
	for _, l := range lines {
		sum += l.UnitPrice * int64(l.Quantity)
	}
	return sum
}

// Quote prices lines with an already validated coupon discount (0 for none).
// Shipping is free once the subtotal reaches the threshold, before any discount.
func Quote(lines []Line, discount int64, policy Policy) Breakdown {
	subtotal := Subtotal(lines)

	if discount < 0 {
		discount = 0
	}
	if discount > subtotal {
		discount = subtotal
	}

	var shipping int64
	if subtotal < policy.FreeShippingThreshold {
		shipping = policy.ShippingFee
	}

	payable := subtotal - discount
	if payable < 0 {
		payable = 0
	}

	return Breakdown{
		Subtotal:    subtotal,
		Discount:    discount,
		ShippingFee: shipping,
		Total:       payable + shipping,
	}
}
