package services

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/skyreserve/airline-reservation-backend/internal/database"
	"github.com/skyreserve/airline-reservation-backend/internal/models"
)

// SettlementService orchestrates the two settlement operations: attaching a
// flight leg to a booking (create path) and releasing one (delete path).
// Each operation runs in a single database transaction; any failure rolls
// back every write. Lock order is booking, then flight, then flight seat.
type SettlementService struct {
	db             *sqlx.DB
	bookingRepo    *database.BookingRepository
	flightRepo     *database.FlightRepository
	seatRepo       *database.SeatRepository
	passengerRepo  *database.PassengerRepository
	fareService    *FareService
	seatAllocation *SeatAllocationService
	txTimeout      time.Duration
	logger         *logrus.Logger
}

// NewSettlementService creates a new SettlementService
func NewSettlementService(
	db *sqlx.DB,
	bookingRepo *database.BookingRepository,
	flightRepo *database.FlightRepository,
	seatRepo *database.SeatRepository,
	passengerRepo *database.PassengerRepository,
	fareService *FareService,
	seatAllocation *SeatAllocationService,
	txTimeout time.Duration,
	logger *logrus.Logger,
) *SettlementService {
	return &SettlementService{
		db:             db,
		bookingRepo:    bookingRepo,
		flightRepo:     flightRepo,
		seatRepo:       seatRepo,
		passengerRepo:  passengerRepo,
		fareService:    fareService,
		seatAllocation: seatAllocation,
		txTimeout:      txTimeout,
		logger:         logger,
	}
}

// DefaultBaggageAllowanceKg returns the checked-baggage allowance granted
// with a leg when the caller does not specify one
func DefaultBaggageAllowanceKg(class models.TravelClass) int {
	switch class {
	case models.TravelClassFirst:
		return 40
	case models.TravelClassBusiness:
		return 30
	default:
		return 20
	}
}

// AddFlightLeg attaches one flight leg (optionally with a passenger seat)
// to a booking. The quoted fare, the booking-flight row, the optional seat
// allocation, the flight counter decrement and the booking total increment
// commit together or not at all.
func (s *SettlementService) AddFlightLeg(bookingID string, req *models.AddFlightLegRequest) (*models.AddFlightLegResponse, error) {
	class, err := models.ParseTravelClass(req.TravelClass)
	if err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Passenger existence is checked before opening the transaction;
	// passengers are not mutated by settlement.
	if req.PassengerID != nil {
		passenger, err := s.passengerRepo.GetByID(*req.PassengerID)
		if err != nil {
			return nil, err
		}
		if passenger == nil {
			return nil, fmt.Errorf("%w: passenger %s", ErrNotFound, *req.PassengerID)
		}
	}

	tx, err := s.beginTx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	booking, err := s.bookingRepo.GetForUpdate(tx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: booking %s", ErrNotFound, bookingID)
	}

	flight, err := s.flightRepo.GetForUpdate(tx, req.FlightID)
	if err != nil {
		return nil, err
	}
	if flight == nil {
		return nil, fmt.Errorf("%w: flight %s", ErrNotFound, req.FlightID)
	}

	// Re-quote on the locked row; a cached quote may be stale
	fare, err := s.fareService.Quote(flight, class)
	if err != nil {
		return nil, err
	}

	baggage := DefaultBaggageAllowanceKg(class)
	if req.BaggageAllowanceKg != nil {
		baggage = *req.BaggageAllowanceKg
	}

	bookingFlight := &models.BookingFlight{
		BookingID:          booking.ID,
		FlightID:           flight.ID,
		TravelClass:        class,
		Fare:               fare,
		BaggageAllowanceKg: baggage,
	}
	if err := s.bookingRepo.InsertBookingFlight(tx, bookingFlight); err != nil {
		return nil, err
	}

	response := &models.AddFlightLegResponse{BookingFlight: bookingFlight}

	if req.PassengerID != nil {
		allocated, err := s.seatAllocation.Allocate(tx, AllocationParams{
			FlightID:    flight.ID,
			AircraftID:  flight.AircraftID,
			TravelClass: class,
			SeatNumber:  req.SeatNumber,
		})
		if err != nil {
			return nil, err
		}

		allocation := &models.SeatAllocation{
			BookingFlightID: bookingFlight.ID,
			FlightSeatID:    allocated.FlightSeatID,
			PassengerID:     *req.PassengerID,
		}
		if err := s.bookingRepo.InsertSeatAllocation(tx, allocation); err != nil {
			return nil, err
		}

		if err := s.bookingRepo.SetBookingFlightSeat(tx, bookingFlight.ID, allocated.SeatNumber); err != nil {
			return nil, err
		}
		bookingFlight.SeatNumber = &allocated.SeatNumber

		flight.DecrementAvailable(class)
		if err := s.flightRepo.UpdateSeatAvailability(tx, flight); err != nil {
			return nil, err
		}

		response.Allocation = allocation
	}

	// Only a pending booking accumulates new fares in its total
	if !booking.IsSettled() {
		booking.TotalAmount += fare
		if err := s.bookingRepo.UpdateTotalAmount(tx, booking.ID, booking.TotalAmount); err != nil {
			return nil, err
		}
	}
	response.TotalAmount = booking.TotalAmount

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit settlement: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":        booking.ID,
		"booking_reference": booking.BookingReference,
		"flight_id":         flight.ID,
		"travel_class":      class,
		"fare":              fare,
		"seat_number":       bookingFlight.SeatNumber,
		"total_amount":      response.TotalAmount,
	}).Info("Flight leg settled")

	return response, nil
}

// ReleaseResult summarizes the inverse settlement outcome
type ReleaseResult struct {
	BookingID   string  `json:"booking_id"`
	FreedSeat   *string `json:"freed_seat,omitempty"`
	Fare        float64 `json:"fare"`
	TotalAmount float64 `json:"total_amount"`
}

// RemoveFlightLeg deletes one flight leg and rolls back its side effects:
// the seat is freed, the flight counter restored and the fare credited back
// from the booking total. Deleting an already-removed leg fails with
// ErrNotFound before any side effect, so a double delete never
// double-credits.
func (s *SettlementService) RemoveFlightLeg(bookingFlightID string) (*ReleaseResult, error) {
	detail, err := s.bookingRepo.GetBookingFlightDetail(bookingFlightID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, fmt.Errorf("%w: booking flight %s", ErrNotFound, bookingFlightID)
	}

	tx, err := s.beginTx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	booking, err := s.bookingRepo.GetForUpdate(tx, detail.BookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: booking %s", ErrNotFound, detail.BookingID)
	}

	result, err := s.ReleaseLegInTx(tx, detail, booking)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit release: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":        booking.ID,
		"booking_flight_id": bookingFlightID,
		"freed_seat":        result.FreedSeat,
		"fare":              detail.Fare,
		"total_amount":      result.TotalAmount,
	}).Info("Flight leg released")

	return result, nil
}

// ReleaseLegInTx rolls back one leg's side effects inside an open
// transaction with the booking row already locked. The booking's
// TotalAmount is mutated in place so callers releasing several legs see
// the running total. Cancellation drives this per leg in its own
// transaction.
func (s *SettlementService) ReleaseLegInTx(tx *sqlx.Tx, detail *models.BookingFlightDetail, booking *models.Booking) (*ReleaseResult, error) {
	// The delete claims the leg; a concurrent release of the same leg
	// sees zero rows and stops before touching counters.
	deleted, err := s.bookingRepo.DeleteBookingFlight(tx, detail.ID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, fmt.Errorf("%w: booking flight %s", ErrNotFound, detail.ID)
	}

	result := &ReleaseResult{BookingID: booking.ID, Fare: detail.Fare}

	if detail.SeatNumber != nil {
		flight, err := s.flightRepo.GetForUpdate(tx, detail.FlightID)
		if err != nil {
			return nil, err
		}
		if flight == nil {
			return nil, fmt.Errorf("%w: flight %s", ErrNotFound, detail.FlightID)
		}

		flightSeat, err := s.seatRepo.GetFlightSeatBySeatNumber(tx, detail.FlightID, detail.AircraftID, *detail.SeatNumber)
		if err != nil {
			return nil, err
		}
		if flightSeat == nil {
			return nil, fmt.Errorf("%w: flight has no instance of seat %s", ErrNotFound, *detail.SeatNumber)
		}

		if err := s.seatRepo.SetAvailability(tx, flightSeat.ID, true); err != nil {
			return nil, err
		}

		flight.IncrementAvailable(detail.TravelClass)
		if err := s.flightRepo.UpdateSeatAvailability(tx, flight); err != nil {
			return nil, err
		}

		result.FreedSeat = detail.SeatNumber
	}

	newTotal := booking.TotalAmount - detail.Fare
	if newTotal < 0 {
		newTotal = 0
	}
	if err := s.bookingRepo.UpdateTotalAmount(tx, booking.ID, newTotal); err != nil {
		return nil, err
	}
	booking.TotalAmount = newTotal
	result.TotalAmount = newTotal

	return result, nil
}

// BeginTx opens a settlement transaction for callers composing several
// settlement steps into one atomic unit
func (s *SettlementService) BeginTx() (*sqlx.Tx, error) {
	return s.beginTx()
}

// beginTx opens a settlement transaction with a bounded statement timeout;
// on expiry Postgres aborts the transaction and every write rolls back
func (s *SettlementService) beginTx() (*sqlx.Tx, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	if s.txTimeout > 0 {
		if _, err := tx.Exec(fmt.Sprintf("SET LOCAL statement_timeout = %d", s.txTimeout.Milliseconds())); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to set transaction timeout: %w", err)
		}
	}

	return tx, nil
}
