package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/skyreserve/airline-reservation-backend/internal/models"
	"github.com/skyreserve/airline-reservation-backend/pkg/seatcode"
)

// SeatRepository handles seats and flight_seats database operations.
// The flight_seats table is the seat inventory ledger: one row per
// physical seat per flight, and the unit of locking for allocation.
type SeatRepository struct {
	db *sqlx.DB
}

// NewSeatRepository creates a new SeatRepository
func NewSeatRepository(db *sqlx.DB) *SeatRepository {
	return &SeatRepository{db: db}
}

// GetSeatByNumber resolves a physical seat by its number within one aircraft.
// Returns nil when the aircraft has no such seat.
func (r *SeatRepository) GetSeatByNumber(aircraftID, seatNumber string) (*models.Seat, error) {
	query := `
		SELECT id, aircraft_id, seat_number, travel_class, row_number, seat_column, created_at
		FROM seats
		WHERE aircraft_id = $1 AND seat_number = $2
	`

	var seat models.Seat
	err := r.db.Get(&seat, query, aircraftID, seatcode.Sanitize(seatNumber))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get seat: %w", err)
	}

	return &seat, nil
}

// GetFlightSeatForUpdate loads the flight-seat instance for (flight, seat)
// under an exclusive row lock. Returns nil when the flight carries no
// instance of that seat.
func (r *SeatRepository) GetFlightSeatForUpdate(tx *sqlx.Tx, flightID, seatID string) (*models.FlightSeat, error) {
	query := `
		SELECT id, flight_id, seat_id, is_available, created_at, updated_at
		FROM flight_seats
		WHERE flight_id = $1 AND seat_id = $2
		FOR UPDATE
	`

	var fs models.FlightSeat
	err := tx.Get(&fs, query, flightID, seatID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock flight seat: %w", err)
	}

	return &fs, nil
}

// FirstAvailableForUpdate selects the lowest available seat for a flight and
// travel class and locks it. Ordering by row and column keeps selection
// deterministic (1A before 1B before 2A), so concurrent allocators contend
// on the same row instead of scattering. Returns nil when the class has no
// open seat left on the flight.
func (r *SeatRepository) FirstAvailableForUpdate(tx *sqlx.Tx, flightID string, class models.TravelClass, aircraftID string) (*models.FlightSeatDetail, error) {
	query := `
		SELECT fs.id, fs.flight_id, fs.seat_id, fs.is_available, fs.created_at, fs.updated_at,
		       s.seat_number, s.travel_class, s.row_number, s.seat_column
		FROM flight_seats fs
		JOIN seats s ON s.id = fs.seat_id
		WHERE fs.flight_id = $1
		  AND s.travel_class = $2
		  AND s.aircraft_id = $3
		  AND fs.is_available = true
		ORDER BY s.row_number, s.seat_column
		LIMIT 1
		FOR UPDATE OF fs
	`

	var detail models.FlightSeatDetail
	err := tx.Get(&detail, query, flightID, class, aircraftID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to select available seat: %w", err)
	}

	return &detail, nil
}

// SetAvailability flips the occupancy flag on a flight seat. Must run in the
// same transaction that holds the row lock.
func (r *SeatRepository) SetAvailability(tx *sqlx.Tx, flightSeatID string, available bool) error {
	query := `
		UPDATE flight_seats
		SET is_available = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := tx.Exec(query, available, time.Now(), flightSeatID)
	if err != nil {
		return fmt.Errorf("failed to update flight seat availability: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("flight seat %s not found", flightSeatID)
	}

	return nil
}

// GetFlightSeatBySeatNumber resolves the flight-seat instance for a flight by
// the seat's printed number, used when releasing a previously assigned seat
func (r *SeatRepository) GetFlightSeatBySeatNumber(tx *sqlx.Tx, flightID, aircraftID, seatNumber string) (*models.FlightSeat, error) {
	query := `
		SELECT fs.id, fs.flight_id, fs.seat_id, fs.is_available, fs.created_at, fs.updated_at
		FROM flight_seats fs
		JOIN seats s ON s.id = fs.seat_id
		WHERE fs.flight_id = $1 AND s.aircraft_id = $2 AND s.seat_number = $3
		FOR UPDATE OF fs
	`

	var fs models.FlightSeat
	err := tx.Get(&fs, query, flightID, aircraftID, seatcode.Sanitize(seatNumber))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock flight seat by number: %w", err)
	}

	return &fs, nil
}

// InitializeFlightSeats creates one flight_seats row per seat of the flight's
// aircraft and synchronizes the flight's per-class capacity counters, all in
// one transaction. Existing inventory for the flight is replaced.
func (r *SeatRepository) InitializeFlightSeats(flightID, aircraftID string) (int, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM flight_seats WHERE flight_id = $1`, flightID); err != nil {
		return 0, fmt.Errorf("failed to clear existing flight seats: %w", err)
	}

	insertQuery := `
		INSERT INTO flight_seats (flight_id, seat_id, is_available)
		SELECT $1, id, true
		FROM seats
		WHERE aircraft_id = $2
	`

	result, err := tx.Exec(insertQuery, flightID, aircraftID)
	if err != nil {
		return 0, fmt.Errorf("failed to create flight seats: %w", err)
	}

	created, _ := result.RowsAffected()
	if created == 0 {
		return 0, fmt.Errorf("aircraft %s has no seats defined", aircraftID)
	}

	// Per-class counts feed the flight's capacity counters
	countQuery := `
		SELECT
			COUNT(*) FILTER (WHERE travel_class = 'economy') AS economy,
			COUNT(*) FILTER (WHERE travel_class = 'business') AS business,
			COUNT(*) FILTER (WHERE travel_class = 'first') AS first
		FROM seats
		WHERE aircraft_id = $1
	`

	var counts struct {
		Economy  int `db:"economy"`
		Business int `db:"business"`
		First    int `db:"first"`
	}
	if err := tx.Get(&counts, countQuery, aircraftID); err != nil {
		return 0, fmt.Errorf("failed to count aircraft seats: %w", err)
	}

	capacityQuery := `
		UPDATE flights
		SET total_economy_seats = $1,
		    available_economy_seats = $1,
		    total_business_seats = $2,
		    available_business_seats = $2,
		    total_first_seats = $3,
		    available_first_seats = $3,
		    updated_at = $4
		WHERE id = $5
	`
	if _, err := tx.Exec(capacityQuery, counts.Economy, counts.Business, counts.First, time.Now(), flightID); err != nil {
		return 0, fmt.Errorf("failed to set flight capacity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return int(created), nil
}

// GetSeatMap returns all flight-seat instances for a flight with their
// physical seat details, ordered by row and column
func (r *SeatRepository) GetSeatMap(flightID string) ([]models.FlightSeatDetail, error) {
	query := `
		SELECT fs.id, fs.flight_id, fs.seat_id, fs.is_available, fs.created_at, fs.updated_at,
		       s.seat_number, s.travel_class, s.row_number, s.seat_column
		FROM flight_seats fs
		JOIN seats s ON s.id = fs.seat_id
		WHERE fs.flight_id = $1
		ORDER BY s.row_number, s.seat_column
	`

	var seats []models.FlightSeatDetail
	err := r.db.Select(&seats, query, flightID)
	if err != nil {
		return nil, fmt.Errorf("failed to get seat map: %w", err)
	}

	return seats, nil
}

// GetSummary returns seat availability counts for a flight
func (r *SeatRepository) GetSummary(flightID string) (*models.FlightSeatSummary, error) {
	query := `
		SELECT
			fs.flight_id,
			COUNT(*) AS total_seats,
			COUNT(*) FILTER (WHERE fs.is_available) AS available_seats,
			COUNT(*) FILTER (WHERE NOT fs.is_available) AS occupied_seats,
			COUNT(*) FILTER (WHERE fs.is_available AND s.travel_class = 'economy') AS available_economy,
			COUNT(*) FILTER (WHERE fs.is_available AND s.travel_class = 'business') AS available_business,
			COUNT(*) FILTER (WHERE fs.is_available AND s.travel_class = 'first') AS available_first
		FROM flight_seats fs
		JOIN seats s ON s.id = fs.seat_id
		WHERE fs.flight_id = $1
		GROUP BY fs.flight_id
	`

	var summary models.FlightSeatSummary
	err := r.db.Get(&summary, query, flightID)
	if err != nil {
		if err == sql.ErrNoRows {
			// No inventory yet
			return &models.FlightSeatSummary{FlightID: flightID}, nil
		}
		return nil, fmt.Errorf("failed to get seat summary: %w", err)
	}

	return &summary, nil
}

