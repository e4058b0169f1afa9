package order

import (
	"time"

	"github.com/google/uuid"
)

// Order is a customer checkout awaiting or past manual UPI verification.
// Amounts are whole rupees.
type Order struct {
	ID                uuid.UUID       `json:"id"`
	OrderCode         string          `json:"orderId"`
	UserEmail         string          `json:"userEmail"`
	UserName          string          `json:"userName"`
	Items             []*OrderItem    `json:"items"`
	ShippingAddress   ShippingAddress `json:"shippingAddress"`
	Subtotal          int64           `json:"subtotal"`
	Discount          int64           `json:"discount"`
	ShippingFee       int64           `json:"shippingFee"`
	TotalAmount       int64           `json:"totalAmount"`
	CouponCode        string          `json:"couponCode,omitempty"`
	PaymentMethod     string          `json:"paymentMethod"`
	UTRNumber         string          `json:"utrNumber"`
	Status            Status          `json:"status"`
	PaymentStatus     PaymentStatus   `json:"paymentStatus"`
	PaymentVerifiedAt *time.Time      `json:"paymentVerifiedAt,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// OrderItem snapshots the product as it was when the order was placed.
type OrderItem struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Size      string    `json:"size,omitempty"`
	Price     int64     `json:"price"`
	Image     string    `json:"image,omitempty"`
}

type ShippingAddress struct {
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	HouseFlat string `json:"houseFlat"`
	Street    string `json:"street"`
	Landmark  string `json:"landmark,omitempty"`
	City      string `json:"city"`
	State     string `json:"state"`
	Pincode   string `json:"pincode"`
	Country   string `json:"country"`
}

// CartItem is one requested line at checkout.
type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
}

// PlaceOrderRequest is the checkout payload. TotalAmount is what the client
// displayed and is only compared against the server total.
type PlaceOrderRequest struct {
	UserEmail       string          `json:"userEmail"`
	UserName        string          `json:"userName"`
	Items           []CartItem      `json:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	TotalAmount     int64           `json:"totalAmount,omitempty"`
	PaymentMethod   string          `json:"paymentMethod"`
	UTRNumber       string          `json:"utrNumber"`
	CouponCode      string          `json:"couponCode,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type VerifyPaymentRequest struct {
	Decision string `json:"decision"`
	Note     string `json:"note,omitempty"`
}

// ListFilter narrows admin order listings. Zero values match everything.
type ListFilter struct {
	Status        Status
	PaymentStatus PaymentStatus
	Email         string
	Limit         int
}

// Summary aggregates order figures for the admin dashboard.
type Summary struct {
	TotalOrders         int            `json:"totalOrders"`
	PendingVerification int            `json:"pendingVerification"`
	Revenue             int64          `json:"revenue"`
	ByStatus            map[Status]int `json:"byStatus"`
}
