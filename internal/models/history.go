package models

import (
	"time"
)

// CancelHistory is an append-only audit record of a cancellation settlement.
// Rows are written exactly once and never mutated.
type CancelHistory struct {
	ID               string    `json:"id" db:"id"`
	BookingID        string    `json:"booking_id" db:"booking_id"`
	BookingReference string    `json:"booking_reference" db:"booking_reference"`
	FeeAmount        float64   `json:"fee_amount" db:"fee_amount"`
	RefundAmount     float64   `json:"refund_amount" db:"refund_amount"`
	Reason           string    `json:"reason" db:"reason"`
	Actor            string    `json:"actor" db:"actor"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// RefundHistory is an append-only audit record of a refund credited back
// at cancellation time. The refund's processing state lives on the booking
// (payment_status), never on these rows.
type RefundHistory struct {
	ID               string    `json:"id" db:"id"`
	BookingID        string    `json:"booking_id" db:"booking_id"`
	BookingReference string    `json:"booking_reference" db:"booking_reference"`
	RefundAmount     float64   `json:"refund_amount" db:"refund_amount"`
	Reason           string    `json:"reason" db:"reason"`
	Actor            string    `json:"actor" db:"actor"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// BookingHistory bundles both audit trails for one booking
type BookingHistory struct {
	Cancellations []CancelHistory `json:"cancellations"`
	Refunds       []RefundHistory `json:"refunds"`
}
