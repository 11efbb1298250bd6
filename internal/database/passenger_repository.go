package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/skyreserve/airline-reservation-backend/internal/models"
)

// PassengerRepository handles passengers database operations
type PassengerRepository struct {
	db *sqlx.DB
}

// NewPassengerRepository creates a new PassengerRepository
func NewPassengerRepository(db *sqlx.DB) *PassengerRepository {
	return &PassengerRepository{db: db}
}

// Create inserts a new passenger record
func (r *PassengerRepository) Create(passenger *models.Passenger) error {
	if passenger.ID == "" {
		passenger.ID = uuid.New().String()
	}

	query := `
		INSERT INTO passengers (id, first_name, last_name, passport_number)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.db.QueryRowx(query,
		passenger.ID, passenger.FirstName, passenger.LastName, passenger.PassportNumber,
	).Scan(&passenger.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create passenger: %w", err)
	}

	return nil
}

// GetByID returns a passenger by ID, or nil when it does not exist
func (r *PassengerRepository) GetByID(id string) (*models.Passenger, error) {
	query := `
		SELECT id, first_name, last_name, passport_number, created_at
		FROM passengers
		WHERE id = $1
	`

	var passenger models.Passenger
	err := r.db.Get(&passenger, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get passenger: %w", err)
	}

	return &passenger, nil
}
