package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/skyreserve/airline-reservation-backend/internal/models"
)

const flightColumns = `id, flight_number, origin, destination, departure_time, arrival_time,
	   aircraft_id, status,
	   economy_price, business_price, first_class_price,
	   total_economy_seats, total_business_seats, total_first_seats,
	   available_economy_seats, available_business_seats, available_first_seats,
	   created_at, updated_at`

// FlightRepository handles flights database operations
type FlightRepository struct {
	db *sqlx.DB
}

// NewFlightRepository creates a new FlightRepository
func NewFlightRepository(db *sqlx.DB) *FlightRepository {
	return &FlightRepository{db: db}
}

// GetByID returns a flight by ID, or nil when it does not exist
func (r *FlightRepository) GetByID(id string) (*models.Flight, error) {
	query := fmt.Sprintf(`SELECT %s FROM flights WHERE id = $1`, flightColumns)

	var flight models.Flight
	err := r.db.Get(&flight, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get flight: %w", err)
	}

	return &flight, nil
}

// GetForUpdate loads a flight inside a transaction with an exclusive row
// lock, serializing concurrent counter reads for the same flight
func (r *FlightRepository) GetForUpdate(tx *sqlx.Tx, id string) (*models.Flight, error) {
	query := fmt.Sprintf(`SELECT %s FROM flights WHERE id = $1 FOR UPDATE`, flightColumns)

	var flight models.Flight
	err := tx.Get(&flight, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock flight: %w", err)
	}

	return &flight, nil
}

// UpdateSeatAvailability persists the per-class availability counters.
// Must be called with the flight row already locked in the same transaction.
func (r *FlightRepository) UpdateSeatAvailability(tx *sqlx.Tx, flight *models.Flight) error {
	query := `
		UPDATE flights
		SET available_economy_seats = $1,
		    available_business_seats = $2,
		    available_first_seats = $3,
		    updated_at = $4
		WHERE id = $5
	`

	result, err := tx.Exec(query,
		flight.AvailableEconomySeats,
		flight.AvailableBusinessSeats,
		flight.AvailableFirstSeats,
		time.Now(),
		flight.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update flight availability: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("flight %s not found for availability update", flight.ID)
	}

	return nil
}

