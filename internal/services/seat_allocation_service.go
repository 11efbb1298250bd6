package services

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/skyreserve/airline-reservation-backend/internal/database"
	"github.com/skyreserve/airline-reservation-backend/internal/models"
)

// SeatAllocationService selects and binds a physical seat to a passenger
// for one flight. Selection and the availability flip happen under an
// exclusive row lock on the chosen flight_seats row, inside the caller's
// transaction, so two concurrent allocations can never claim the same seat.
type SeatAllocationService struct {
	seatRepo   *database.SeatRepository
	maxRetries int
	logger     *logrus.Logger
}

// NewSeatAllocationService creates a new SeatAllocationService.
// maxRetries bounds re-selection after a lost race on the automatic path.
func NewSeatAllocationService(seatRepo *database.SeatRepository, maxRetries int, logger *logrus.Logger) *SeatAllocationService {
	return &SeatAllocationService{
		seatRepo:   seatRepo,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// AllocationParams identifies the seat to allocate
type AllocationParams struct {
	FlightID    string
	AircraftID  string
	TravelClass models.TravelClass

	// SeatNumber requests one explicit seat; when nil the lowest
	// available seat of the class is chosen
	SeatNumber *string
}

// AllocatedSeat is the outcome of a successful allocation
type AllocatedSeat struct {
	FlightSeatID string
	SeatID       string
	SeatNumber   string
}

// Allocate picks a seat, locks its flight-seat row, re-checks availability
// and flips it to occupied. Runs entirely inside tx; nothing is committed
// here. Fails with ErrNotFound, ErrSeatTaken or ErrNoSeatsLeft.
func (s *SeatAllocationService) Allocate(tx *sqlx.Tx, params AllocationParams) (*AllocatedSeat, error) {
	if params.SeatNumber != nil {
		return s.allocateExplicit(tx, params)
	}
	return s.allocateAutomatic(tx, params)
}

// allocateExplicit resolves one named seat and fails fast when it is gone
func (s *SeatAllocationService) allocateExplicit(tx *sqlx.Tx, params AllocationParams) (*AllocatedSeat, error) {
	seat, err := s.seatRepo.GetSeatByNumber(params.AircraftID, *params.SeatNumber)
	if err != nil {
		return nil, err
	}
	if seat == nil {
		return nil, fmt.Errorf("%w: seat %s does not exist on this aircraft", ErrNotFound, *params.SeatNumber)
	}

	// The fare and the counter decrement are keyed by the requested class,
	// so a seat from another class must not slip through here.
	if seat.TravelClass != params.TravelClass {
		return nil, fmt.Errorf("%w: seat %s is %s, not %s",
			models.ErrInvalidTravelClass, seat.SeatNumber, seat.TravelClass, params.TravelClass)
	}

	flightSeat, err := s.seatRepo.GetFlightSeatForUpdate(tx, params.FlightID, seat.ID)
	if err != nil {
		return nil, err
	}
	if flightSeat == nil {
		return nil, fmt.Errorf("%w: flight has no instance of seat %s", ErrNotFound, seat.SeatNumber)
	}

	// Re-check under the lock
	if !flightSeat.IsAvailable {
		return nil, fmt.Errorf("%w: seat %s already taken", ErrSeatTaken, seat.SeatNumber)
	}

	if err := s.seatRepo.SetAvailability(tx, flightSeat.ID, false); err != nil {
		return nil, err
	}

	return &AllocatedSeat{
		FlightSeatID: flightSeat.ID,
		SeatID:       seat.ID,
		SeatNumber:   seat.SeatNumber,
	}, nil
}

// allocateAutomatic selects the lowest open seat of the class, retrying a
// bounded number of times when the lock reveals a lost race
func (s *SeatAllocationService) allocateAutomatic(tx *sqlx.Tx, params AllocationParams) (*AllocatedSeat, error) {
	attempts := s.maxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		candidate, err := s.seatRepo.FirstAvailableForUpdate(tx, params.FlightID, params.TravelClass, params.AircraftID)
		if err != nil {
			return nil, err
		}
		if candidate == nil {
			// At read committed a lost race also surfaces as an empty
			// result: the locked row no longer passes the availability
			// filter and LIMIT 1 picks no replacement. Re-run the
			// selection on a fresh snapshot; genuine exhaustion keeps
			// coming back empty and ends below.
			if attempt+1 < attempts {
				s.logger.WithFields(logrus.Fields{
					"flight_id":    params.FlightID,
					"travel_class": params.TravelClass,
					"attempt":      attempt + 1,
				}).Warn("Seat selection returned no row, reselecting")
				continue
			}
			return nil, fmt.Errorf("%w: no seats left in %s", ErrNoSeatsLeft, params.TravelClass)
		}

		// The lock is acquired after the index scan picked the row, so a
		// concurrent allocator may have flipped it first. Re-check and
		// re-select on a lost race.
		if !candidate.IsAvailable {
			s.logger.WithFields(logrus.Fields{
				"flight_id":   params.FlightID,
				"seat_number": candidate.SeatNumber,
				"attempt":     attempt + 1,
			}).Warn("Lost seat allocation race, reselecting")
			continue
		}

		if err := s.seatRepo.SetAvailability(tx, candidate.ID, false); err != nil {
			return nil, err
		}

		return &AllocatedSeat{
			FlightSeatID: candidate.ID,
			SeatID:       candidate.SeatID,
			SeatNumber:   candidate.SeatNumber,
		}, nil
	}

	return nil, fmt.Errorf("%w: seat contention persisted after %d attempts", ErrSeatTaken, attempts)
}
