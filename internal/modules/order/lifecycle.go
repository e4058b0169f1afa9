package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/mkj2903/finalshowmo/internal/modules/payment"
)

var (
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrPaymentAlreadyReviewed = errors.New("payment already reviewed")
)

// Status is the fulfilment stage of an order.
type Status string

const (
	StatusPaymentPending Status = "payment_pending"
	StatusProcessing     Status = "processing"
	StatusShipped        Status = "shipped"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
	StatusFailed         Status = "failed"
)

// PaymentStatus is orthogonal to Status but gates fulfilment.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentVerified PaymentStatus = "verified"
	PaymentFailed   PaymentStatus = "failed"
)

// validTransitions defines the allowed status state machine.
var validTransitions = map[Status][]Status{
	StatusPaymentPending: {StatusProcessing, StatusCancelled, StatusFailed},
	StatusProcessing:     {StatusShipped, StatusDelivered, StatusCancelled, StatusFailed},
	StatusShipped:        {StatusDelivered, StatusCancelled, StatusFailed},
	StatusDelivered:      {},
	StatusCancelled:      {},
	StatusFailed:         {},
}

func (s Status) Valid() bool {
	_, ok := validTransitions[s]
	return ok
}

func (s Status) Terminal() bool {
	return s.Valid() && len(validTransitions[s]) == 0
}

// requiresVerifiedPayment reports whether reaching s needs a verified payment.
func (s Status) requiresVerifiedPayment() bool {
	return s == StatusProcessing || s == StatusShipped || s == StatusDelivered
}

// Transition checks a move from one status to another given the payment
// status the order will hold afterwards.
func Transition(from, to Status, pay PaymentStatus) error {
	allowed := false
	for _, s := range validTransitions[from] {
		if s == to {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, to)
	}
	if to.requiresVerifiedPayment() && pay != PaymentVerified {
		return fmt.Errorf("%w: %s requires a verified payment", ErrInvalidTransition, to)
	}
	return nil
}

// AdvanceTo moves the order to status to.
func (o *Order) AdvanceTo(to Status, now time.Time) error {
	if err := Transition(o.Status, to, o.PaymentStatus); err != nil {
		return err
	}
	o.Status = to
	o.UpdatedAt = now
	return nil
}

// ApplyPaymentDecision settles a pending payment. Accepting moves the order
// to processing, rejecting cancels it.
func (o *Order) ApplyPaymentDecision(d payment.Decision, now time.Time) error {
	if o.PaymentStatus != PaymentPending {
		return fmt.Errorf("%w: payment is %s", ErrPaymentAlreadyReviewed, o.PaymentStatus)
	}

	var (
		to  Status
		pay PaymentStatus
	)
	switch d {
	case payment.DecisionAccept:
		to, pay = StatusProcessing, PaymentVerified
	case payment.DecisionReject:
		to, pay = StatusCancelled, PaymentFailed
	default:
		return fmt.Errorf("unknown payment decision %q", d)
	}
	if err := Transition(o.Status, to, pay); err != nil {
		return err
	}

	o.Status = to
	o.PaymentStatus = pay
	if pay == PaymentVerified {
		t := now
		o.PaymentVerifiedAt = &t
	}
	o.UpdatedAt = now
	return nil
}
