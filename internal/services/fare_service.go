package services

import (
	"fmt"

	"github.com/skyreserve/airline-reservation-backend/internal/models"
)

// FareService quotes per-seat fares from a flight's class prices and
// remaining-seat counters. Quote is pure and safe to call outside a
// transaction for display, but the settlement core re-evaluates it on the
// locked flight row before committing a sale: the counter can change
// between quote and commit.
type FareService struct{}

// NewFareService creates a new FareService
func NewFareService() *FareService {
	return &FareService{}
}

// Quote returns the unit fare for a travel class on a flight.
// Fails with ErrSoldOut when the class counter is exhausted; no
// allocation is attempted past this check.
func (s *FareService) Quote(flight *models.Flight, class models.TravelClass) (float64, error) {
	if flight.AvailableSeats(class) <= 0 {
		return 0, fmt.Errorf("%w: no seats left in %s on flight %s", ErrSoldOut, class, flight.FlightNumber)
	}

	return flight.UnitPrice(class), nil
}
