package models

import (
	"time"
)

// FlightStatus represents the airline-side status of a flight
type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "scheduled"
	FlightStatusDelayed   FlightStatus = "delayed"
	FlightStatusDeparted  FlightStatus = "departed"
	FlightStatusArrived   FlightStatus = "arrived"
	FlightStatusCancelled FlightStatus = "cancelled"
)

// Flight represents a scheduled service between two airports.
//
// The per-class available_* counters are a denormalized cache of the
// flight_seats rows. They are maintained transactionally alongside the
// seat rows and are only read for fare quoting; the flight_seats table
// remains the source of truth for which physical seat is free.
type Flight struct {
	ID                     string       `json:"id" db:"id"`
	FlightNumber           string       `json:"flight_number" db:"flight_number"`
	Origin                 string       `json:"origin" db:"origin"`
	Destination            string       `json:"destination" db:"destination"`
	DepartureTime          time.Time    `json:"departure_time" db:"departure_time"`
	ArrivalTime            time.Time    `json:"arrival_time" db:"arrival_time"`
	AircraftID             string       `json:"aircraft_id" db:"aircraft_id"`
	Status                 FlightStatus `json:"status" db:"status"`
	EconomyPrice           float64      `json:"economy_price" db:"economy_price"`
	BusinessPrice          float64      `json:"business_price" db:"business_price"`
	FirstClassPrice        float64      `json:"first_class_price" db:"first_class_price"`
	TotalEconomySeats      int          `json:"total_economy_seats" db:"total_economy_seats"`
	TotalBusinessSeats     int          `json:"total_business_seats" db:"total_business_seats"`
	TotalFirstSeats        int          `json:"total_first_seats" db:"total_first_seats"`
	AvailableEconomySeats  int          `json:"available_economy_seats" db:"available_economy_seats"`
	AvailableBusinessSeats int          `json:"available_business_seats" db:"available_business_seats"`
	AvailableFirstSeats    int          `json:"available_first_seats" db:"available_first_seats"`
	CreatedAt              time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time    `json:"updated_at" db:"updated_at"`
}

// UnitPrice returns the per-seat price for a travel class
func (f *Flight) UnitPrice(class TravelClass) float64 {
	switch class {
	case TravelClassFirst:
		return f.FirstClassPrice
	case TravelClassBusiness:
		return f.BusinessPrice
	default:
		return f.EconomyPrice
	}
}

// AvailableSeats returns the remaining-seat counter for a travel class
func (f *Flight) AvailableSeats(class TravelClass) int {
	switch class {
	case TravelClassFirst:
		return f.AvailableFirstSeats
	case TravelClassBusiness:
		return f.AvailableBusinessSeats
	default:
		return f.AvailableEconomySeats
	}
}

// TotalSeats returns the class capacity for a travel class
func (f *Flight) TotalSeats(class TravelClass) int {
	switch class {
	case TravelClassFirst:
		return f.TotalFirstSeats
	case TravelClassBusiness:
		return f.TotalBusinessSeats
	default:
		return f.TotalEconomySeats
	}
}

// DecrementAvailable reduces the class counter by one, never below zero
func (f *Flight) DecrementAvailable(class TravelClass) {
	f.setAvailable(class, f.AvailableSeats(class)-1)
}

// IncrementAvailable raises the class counter by one, never above capacity
func (f *Flight) IncrementAvailable(class TravelClass) {
	f.setAvailable(class, f.AvailableSeats(class)+1)
}

func (f *Flight) setAvailable(class TravelClass, n int) {
	if n < 0 {
		n = 0
	}
	if cap := f.TotalSeats(class); n > cap {
		n = cap
	}

	switch class {
	case TravelClassFirst:
		f.AvailableFirstSeats = n
	case TravelClassBusiness:
		f.AvailableBusinessSeats = n
	default:
		f.AvailableEconomySeats = n
	}
}

// HoursUntilDeparture returns the (possibly negative) number of hours
// between now and the scheduled departure
func (f *Flight) HoursUntilDeparture(now time.Time) float64 {
	return f.DepartureTime.Sub(now).Hours()
}

// IsDisrupted reports whether the flight was cancelled or delayed by the airline
func (f *Flight) IsDisrupted() bool {
	return f.Status == FlightStatusCancelled || f.Status == FlightStatusDelayed
}
