package database

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/skyreserve/airline-reservation-backend/internal/models"
)

const bookingColumns = `id, booking_reference, user_id, total_amount,
	   payment_status, booking_status,
	   cancelled_at, cancellation_reason, refund_amount, refunded_at,
	   created_at, updated_at`

const bookingFlightColumns = `id, booking_id, flight_id, travel_class, fare,
	   seat_number, baggage_allowance_kg, created_at, updated_at`

// BookingRepository handles bookings, booking_flights and seat_allocations
// database operations
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// GenerateBookingReference generates a unique booking reference
// Format: AR-YYYYMMDD-XXXXXX (6 char alphanumeric)
// Example: AR-20260829-A1B2C3
func (r *BookingRepository) GenerateBookingReference() (string, error) {
	todayStr := time.Now().Format("20060102")

	for attempts := 0; attempts < 10; attempts++ {
		randomBytes := make([]byte, 3)
		if _, err := rand.Read(randomBytes); err != nil {
			return "", fmt.Errorf("failed to generate random bytes: %w", err)
		}
		randomStr := strings.ToUpper(hex.EncodeToString(randomBytes))

		newRef := fmt.Sprintf("AR-%s-%s", todayStr, randomStr)

		var count int
		err := r.db.Get(&count, `SELECT COUNT(*) FROM bookings WHERE booking_reference = $1`, newRef)
		if err != nil {
			return "", fmt.Errorf("failed to check reference uniqueness: %w", err)
		}

		if count == 0 {
			return newRef, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique booking reference after 10 attempts")
}

// CreateBooking creates a new booking header with a fresh reference
func (r *BookingRepository) CreateBooking(userID string) (*models.Booking, error) {
	ref, err := r.GenerateBookingReference()
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		BookingReference: ref,
		UserID:           userID,
		PaymentStatus:    models.PaymentStatusPending,
		BookingStatus:    models.BookingStatusReserved,
	}

	query := `
		INSERT INTO bookings (booking_reference, user_id, total_amount, payment_status, booking_status)
		VALUES ($1, $2, 0, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err = r.db.QueryRowx(query, booking.BookingReference, booking.UserID,
		booking.PaymentStatus, booking.BookingStatus,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	return booking, nil
}

// GetByID returns a booking by ID, or nil when it does not exist
func (r *BookingRepository) GetByID(id string) (*models.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE id = $1`, bookingColumns)

	var booking models.Booking
	err := r.db.Get(&booking, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return &booking, nil
}

// GetForUpdate loads a booking inside a transaction with an exclusive row lock
func (r *BookingRepository) GetForUpdate(tx *sqlx.Tx, id string) (*models.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE id = $1 FOR UPDATE`, bookingColumns)

	var booking models.Booking
	err := tx.Get(&booking, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock booking: %w", err)
	}

	return &booking, nil
}

// UpdateTotalAmount persists the booking's running total. Must be called
// with the booking row locked in the same transaction.
func (r *BookingRepository) UpdateTotalAmount(tx *sqlx.Tx, bookingID string, amount float64) error {
	query := `UPDATE bookings SET total_amount = $1, updated_at = $2 WHERE id = $3`

	result, err := tx.Exec(query, amount, time.Now(), bookingID)
	if err != nil {
		return fmt.Errorf("failed to update booking total: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("booking %s not found for total update", bookingID)
	}

	return nil
}

// MarkCancelled sets the booking's cancellation outcome. When a refund is
// due the payment status flips to refunded and the refunded amount is
// recorded on the header.
func (r *BookingRepository) MarkCancelled(tx *sqlx.Tx, bookingID string, reason *string, refundAmount float64, refunded bool) error {
	var query string
	var err error

	if refunded {
		query = `
			UPDATE bookings
			SET booking_status = 'cancelled',
			    payment_status = 'refunded',
			    cancelled_at = NOW(),
			    cancellation_reason = $1,
			    refund_amount = $2,
			    refunded_at = NOW(),
			    updated_at = NOW()
			WHERE id = $3
		`
		_, err = tx.Exec(query, reason, refundAmount, bookingID)
	} else {
		query = `
			UPDATE bookings
			SET booking_status = 'cancelled',
			    cancelled_at = NOW(),
			    cancellation_reason = $1,
			    updated_at = NOW()
			WHERE id = $2
		`
		_, err = tx.Exec(query, reason, bookingID)
	}

	if err != nil {
		return fmt.Errorf("failed to mark booking cancelled: %w", err)
	}

	return nil
}

// ============================================================================
// BOOKING FLIGHT OPERATIONS
// ============================================================================

// InsertBookingFlight creates a flight-leg row inside the settlement
// transaction
func (r *BookingRepository) InsertBookingFlight(tx *sqlx.Tx, bf *models.BookingFlight) error {
	query := `
		INSERT INTO booking_flights (booking_id, flight_id, travel_class, fare, seat_number, baggage_allowance_kg)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRowx(query,
		bf.BookingID, bf.FlightID, bf.TravelClass, bf.Fare, bf.SeatNumber, bf.BaggageAllowanceKg,
	).Scan(&bf.ID, &bf.CreatedAt, &bf.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create booking flight: %w", err)
	}

	return nil
}

// SetBookingFlightSeat records the denormalized seat number on the leg
func (r *BookingRepository) SetBookingFlightSeat(tx *sqlx.Tx, bookingFlightID, seatNumber string) error {
	query := `UPDATE booking_flights SET seat_number = $1, updated_at = $2 WHERE id = $3`

	_, err := tx.Exec(query, seatNumber, time.Now(), bookingFlightID)
	if err != nil {
		return fmt.Errorf("failed to set booking flight seat: %w", err)
	}

	return nil
}

// GetBookingFlightDetail loads a flight leg joined with its flight and
// booking, or nil when the leg does not exist
func (r *BookingRepository) GetBookingFlightDetail(id string) (*models.BookingFlightDetail, error) {
	query := `
		SELECT bf.id, bf.booking_id, bf.flight_id, bf.travel_class, bf.fare,
		       bf.seat_number, bf.baggage_allowance_kg, bf.created_at, bf.updated_at,
		       f.status AS flight_status, f.departure_time, f.aircraft_id,
		       b.booking_reference AS booking_ref, b.payment_status, b.booking_status,
		       b.total_amount AS booking_total
		FROM booking_flights bf
		JOIN flights f ON f.id = bf.flight_id
		JOIN bookings b ON b.id = bf.booking_id
		WHERE bf.id = $1
	`

	var detail models.BookingFlightDetail
	err := r.db.Get(&detail, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get booking flight: %w", err)
	}

	return &detail, nil
}

// GetBookingFlights returns all flight legs of a booking with flight details,
// ordered by departure
func (r *BookingRepository) GetBookingFlights(bookingID string) ([]models.BookingFlightDetail, error) {
	query := `
		SELECT bf.id, bf.booking_id, bf.flight_id, bf.travel_class, bf.fare,
		       bf.seat_number, bf.baggage_allowance_kg, bf.created_at, bf.updated_at,
		       f.status AS flight_status, f.departure_time, f.aircraft_id,
		       b.booking_reference AS booking_ref, b.payment_status, b.booking_status,
		       b.total_amount AS booking_total
		FROM booking_flights bf
		JOIN flights f ON f.id = bf.flight_id
		JOIN bookings b ON b.id = bf.booking_id
		WHERE bf.booking_id = $1
		ORDER BY f.departure_time
	`

	var legs []models.BookingFlightDetail
	err := r.db.Select(&legs, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking flights: %w", err)
	}

	return legs, nil
}

// DeleteBookingFlight removes a flight leg; seat_allocations go with it by
// cascade. Returns false when the leg was already gone.
func (r *BookingRepository) DeleteBookingFlight(tx *sqlx.Tx, id string) (bool, error) {
	result, err := tx.Exec(`DELETE FROM booking_flights WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete booking flight: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

// ============================================================================
// SEAT ALLOCATION OPERATIONS
// ============================================================================

// InsertSeatAllocation binds a passenger to a flight seat for one leg.
// The unique constraints on (booking_flight_id, flight_seat_id) and
// (booking_flight_id, passenger_id) back the one-allocation invariants.
func (r *BookingRepository) InsertSeatAllocation(tx *sqlx.Tx, sa *models.SeatAllocation) error {
	query := `
		INSERT INTO seat_allocations (booking_flight_id, flight_seat_id, passenger_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := tx.QueryRowx(query, sa.BookingFlightID, sa.FlightSeatID, sa.PassengerID).
		Scan(&sa.ID, &sa.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create seat allocation: %w", err)
	}

	return nil
}
