package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/skyreserve/airline-reservation-backend/pkg/seatcode"
)

// PaymentStatus represents the payment status of a booking
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	BookingStatusReserved  BookingStatus = "reserved"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// Booking is a reservation header. TotalAmount is a running sum of the
// fares of its non-cancelled flight legs while payment is pending; once
// the booking is settled the amount is fixed.
type Booking struct {
	ID                 string        `json:"id" db:"id"`
	BookingReference   string        `json:"booking_reference" db:"booking_reference"`
	UserID             string        `json:"user_id" db:"user_id"`
	TotalAmount        float64       `json:"total_amount" db:"total_amount"`
	PaymentStatus      PaymentStatus `json:"payment_status" db:"payment_status"`
	BookingStatus      BookingStatus `json:"booking_status" db:"booking_status"`
	CancelledAt        *time.Time    `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CancellationReason *string       `json:"cancellation_reason,omitempty" db:"cancellation_reason"`
	RefundAmount       *float64      `json:"refund_amount,omitempty" db:"refund_amount"`
	RefundedAt         *time.Time    `json:"refunded_at,omitempty" db:"refunded_at"`
	CreatedAt          time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at" db:"updated_at"`
}

// IsPaid checks if the booking is paid
func (b *Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentStatusPaid
}

// IsCancelled checks if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.BookingStatus == BookingStatusCancelled
}

// IsSettled reports whether the total amount has stopped accumulating.
// Only pending bookings track new fares in the running total.
func (b *Booking) IsSettled() bool {
	return b.PaymentStatus != PaymentStatusPending
}

// BookingFlight is one flight leg within a booking. The fare is fixed at
// creation time from the quote; seat_number is a denormalized copy of the
// allocated seat, nil when no passenger seat was assigned.
type BookingFlight struct {
	ID                 string      `json:"id" db:"id"`
	BookingID          string      `json:"booking_id" db:"booking_id"`
	FlightID           string      `json:"flight_id" db:"flight_id"`
	TravelClass        TravelClass `json:"travel_class" db:"travel_class"`
	Fare               float64     `json:"fare" db:"fare"`
	SeatNumber         *string     `json:"seat_number,omitempty" db:"seat_number"`
	BaggageAllowanceKg int         `json:"baggage_allowance_kg" db:"baggage_allowance_kg"`
	CreatedAt          time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at" db:"updated_at"`
}

// BookingFlightDetail joins a booking flight with its flight and booking
// for settlement and cancellation decisions
type BookingFlightDetail struct {
	BookingFlight
	FlightStatus  FlightStatus  `json:"flight_status" db:"flight_status"`
	DepartureTime time.Time     `json:"departure_time" db:"departure_time"`
	AircraftID    string        `json:"aircraft_id" db:"aircraft_id"`
	BookingRef    string        `json:"booking_ref" db:"booking_ref"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`
	BookingStatus BookingStatus `json:"booking_status" db:"booking_status"`
	BookingTotal  float64       `json:"booking_total" db:"booking_total"`
}

// SeatAllocation binds one passenger to one flight seat for one booking leg.
// At most one allocation may exist per (booking_flight, flight_seat) and per
// (booking_flight, passenger); both are enforced by unique constraints.
type SeatAllocation struct {
	ID              string    `json:"id" db:"id"`
	BookingFlightID string    `json:"booking_flight_id" db:"booking_flight_id"`
	FlightSeatID    string    `json:"flight_seat_id" db:"flight_seat_id"`
	PassengerID     string    `json:"passenger_id" db:"passenger_id"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// AddFlightLegRequest is the request to attach a flight leg to a booking
type AddFlightLegRequest struct {
	FlightID           string  `json:"flight_id" binding:"required"`
	TravelClass        string  `json:"travel_class" binding:"required"`
	PassengerID        *string `json:"passenger_id,omitempty"`
	SeatNumber         *string `json:"seat_number,omitempty"`
	BaggageAllowanceKg *int    `json:"baggage_allowance_kg,omitempty"`
}

// ErrInvalidRequest indicates a request that fails validation before any
// settlement work starts
var ErrInvalidRequest = errors.New("invalid request")

// Validate validates the add flight leg request
func (r *AddFlightLegRequest) Validate() error {
	if r.SeatNumber != nil && r.PassengerID == nil {
		return fmt.Errorf("%w: seat_number requires a passenger_id", ErrInvalidRequest)
	}
	if r.SeatNumber != nil {
		if _, err := seatcode.Parse(*r.SeatNumber); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
	}
	if r.BaggageAllowanceKg != nil && *r.BaggageAllowanceKg < 0 {
		return fmt.Errorf("%w: baggage_allowance_kg cannot be negative", ErrInvalidRequest)
	}
	return nil
}

// CancelBookingRequest is the request to cancel a whole booking
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
	Actor  string  `json:"actor" binding:"required"`
}

// AddFlightLegResponse is returned after a successful settlement
type AddFlightLegResponse struct {
	BookingFlight *BookingFlight  `json:"booking_flight"`
	Allocation    *SeatAllocation `json:"seat_allocation,omitempty"`
	TotalAmount   float64         `json:"total_amount"`
}
