package payment

import (
	"time"

	"github.com/google/uuid"
)

// Decision is the admin's verdict on a submitted UTR.
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

func (d Decision) Valid() bool {
	return d == DecisionAccept || d == DecisionReject
}

// MethodUPI is the only accepted payment method.
const MethodUPI = "UPI"

// Review records one verification decision against an order's UTR.
type Review struct {
	ID         uuid.UUID `json:"id"`
	OrderID    uuid.UUID `json:"orderId"`
	UTRNumber  string    `json:"utrNumber"`
	Decision   Decision  `json:"decision"`
	Note       string    `json:"note,omitempty"`
	ReviewedBy string    `json:"reviewedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Intent describes a UPI collect request rendered as a deep link or QR code.
type Intent struct {
	VPA       string `json:"vpa"`
	PayeeName string `json:"payeeName"`
	Amount    int64  `json:"amount"`
	Note      string `json:"note,omitempty"`
	URI       string `json:"uri"`
}
