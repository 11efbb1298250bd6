package models

import (
	"time"
)

// Aircraft represents a physical aircraft whose seat layout is fixed
type Aircraft struct {
	ID           string    `json:"id" db:"id"`
	Model        string    `json:"model" db:"model"`
	Registration string    `json:"registration" db:"registration"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Seat represents one physical seat in an aircraft layout.
// Seats are immutable once the layout is defined; occupancy is
// tracked per flight on FlightSeat, never on the seat itself.
type Seat struct {
	ID          string      `json:"id" db:"id"`
	AircraftID  string      `json:"aircraft_id" db:"aircraft_id"`
	SeatNumber  string      `json:"seat_number" db:"seat_number"` // e.g. "12A"
	TravelClass TravelClass `json:"travel_class" db:"travel_class"`
	RowNumber   int         `json:"row_number" db:"row_number"`
	SeatColumn  string      `json:"seat_column" db:"seat_column"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}

// FlightSeat is the join of one flight and one seat. Its is_available
// flag is the authoritative per-flight occupancy bit and the row that
// allocation locks with SELECT ... FOR UPDATE.
type FlightSeat struct {
	ID          string    `json:"id" db:"id"`
	FlightID    string    `json:"flight_id" db:"flight_id"`
	SeatID      string    `json:"seat_id" db:"seat_id"`
	IsAvailable bool      `json:"is_available" db:"is_available"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// FlightSeatDetail joins a flight seat with its underlying physical seat
// for seat-map display and allocation
type FlightSeatDetail struct {
	FlightSeat
	SeatNumber  string      `json:"seat_number" db:"seat_number"`
	TravelClass TravelClass `json:"travel_class" db:"travel_class"`
	RowNumber   int         `json:"row_number" db:"row_number"`
	SeatColumn  string      `json:"seat_column" db:"seat_column"`
}

// FlightSeatSummary provides a per-class availability overview for a flight
type FlightSeatSummary struct {
	FlightID          string `json:"flight_id" db:"flight_id"`
	TotalSeats        int    `json:"total_seats" db:"total_seats"`
	AvailableSeats    int    `json:"available_seats" db:"available_seats"`
	OccupiedSeats     int    `json:"occupied_seats" db:"occupied_seats"`
	AvailableEconomy  int    `json:"available_economy" db:"available_economy"`
	AvailableBusiness int    `json:"available_business" db:"available_business"`
	AvailableFirst    int    `json:"available_first" db:"available_first"`
}

// Passenger represents a traveller a seat can be allocated to
type Passenger struct {
	ID             string    `json:"id" db:"id"`
	FirstName      string    `json:"first_name" db:"first_name"`
	LastName       string    `json:"last_name" db:"last_name"`
	PassportNumber *string   `json:"passport_number,omitempty" db:"passport_number"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
