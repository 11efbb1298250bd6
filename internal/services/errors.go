package services

import (
	"errors"
	"fmt"
)

// Settlement error taxonomy. Every error raised inside a settlement
// transaction aborts it entirely; the caller receives the kind plus a
// message suitable for direct display.
var (
	// ErrNotFound indicates a booking, flight, seat or flight-seat
	// instance does not exist
	ErrNotFound = errors.New("not found")

	// ErrSoldOut indicates the requested class has no remaining
	// capacity on the flight counter
	ErrSoldOut = errors.New("travel class is sold out")

	// ErrSeatTaken indicates the requested seat was already allocated,
	// or was raced away between selection and locking
	ErrSeatTaken = errors.New("seat is already taken")

	// ErrNoSeatsLeft indicates no open seat-on-flight row matches the
	// requested flight and class
	ErrNoSeatsLeft = errors.New("no seats left")
)

// NotCancellableError carries the human-readable reason an eligibility
// gate rejected a cancellation
type NotCancellableError struct {
	Reason string
}

func (e *NotCancellableError) Error() string {
	return fmt.Sprintf("booking cannot be cancelled: %s", e.Reason)
}

// IsNotCancellable reports whether err is a cancellation eligibility failure
func IsNotCancellable(err error) (*NotCancellableError, bool) {
	var nce *NotCancellableError
	if errors.As(err, &nce) {
		return nce, true
	}
	return nil, false
}
