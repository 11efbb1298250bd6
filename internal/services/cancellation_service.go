package services

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/skyreserve/airline-reservation-backend/internal/database"
	"github.com/skyreserve/airline-reservation-backend/internal/models"
)

// CancellationService applies the cancellation policy to whole bookings:
// fee preview, the cancellation settlement itself, and the separate
// refund-request eligibility gate. All pricing goes through
// CalculateCancellationFee so the tier table exists exactly once.
type CancellationService struct {
	bookingRepo *database.BookingRepository
	historyRepo *database.HistoryRepository
	settlement  *SettlementService
	cutoffHours float64
	logger      *logrus.Logger
}

// NewCancellationService creates a new CancellationService
func NewCancellationService(
	bookingRepo *database.BookingRepository,
	historyRepo *database.HistoryRepository,
	settlement *SettlementService,
	cutoffHours float64,
	logger *logrus.Logger,
) *CancellationService {
	return &CancellationService{
		bookingRepo: bookingRepo,
		historyRepo: historyRepo,
		settlement:  settlement,
		cutoffHours: cutoffHours,
		logger:      logger,
	}
}

// decide runs the fee calculation for a booking against its legs.
// The clock reference is the earliest leg departure; the class is the
// earliest leg's, matching how a one-way itinerary is priced.
func (s *CancellationService) decide(booking *models.Booking, legs []models.BookingFlightDetail, now time.Time) CancellationDecision {
	if len(legs) == 0 {
		// Nothing to release and nothing was fare-priced
		if booking.IsCancelled() {
			return CancellationDecision{Eligible: false, Reason: ReasonAlreadyCancelled}
		}
		return CancellationDecision{Eligible: true, Reason: ReasonFreeCancellation}
	}

	earliest := legs[0]
	for _, leg := range legs[1:] {
		if leg.DepartureTime.Before(earliest.DepartureTime) {
			earliest = leg
		}
	}

	hours := earliest.DepartureTime.Sub(now).Hours()

	return CalculateCancellationFeeWithCutoff(
		string(earliest.TravelClass),
		hours,
		booking.BookingStatus,
		booking.PaymentStatus,
		booking.TotalAmount,
		s.cutoffHours,
	)
}

// QuoteCancellation previews the fee and refund for cancelling a booking
// without performing it
func (s *CancellationService) QuoteCancellation(bookingID string) (*CancellationDecision, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: booking %s", ErrNotFound, bookingID)
	}

	legs, err := s.bookingRepo.GetBookingFlights(bookingID)
	if err != nil {
		return nil, err
	}

	decision := s.decide(booking, legs, time.Now())
	return &decision, nil
}

// CancelResult is the outcome of a booking cancellation
type CancelResult struct {
	BookingID        string               `json:"booking_id"`
	BookingReference string               `json:"booking_reference"`
	Decision         CancellationDecision `json:"decision"`
	ReleasedLegs     int                  `json:"released_legs"`
	FreedSeats       []string             `json:"freed_seats,omitempty"`
}

// CancelBooking cancels a whole booking in one transaction: the fee
// decision, the release of every flight leg (seat, counter and total
// restoration), the status change and the audit records commit together.
// An eligibility failure surfaces as NotCancellableError and writes
// nothing.
func (s *CancellationService) CancelBooking(bookingID string, req *models.CancelBookingRequest) (*CancelResult, error) {
	tx, err := s.settlement.BeginTx()
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

	legs, err := s.bookingRepo.GetBookingFlights(bookingID)
	if err != nil {
		return nil, err
	}

	decision := s.decide(booking, legs, time.Now())
	if !decision.Eligible {
		return nil, &NotCancellableError{Reason: decision.Reason}
	}

	result := &CancelResult{
		BookingID:        booking.ID,
		BookingReference: booking.BookingReference,
		Decision:         decision,
	}

	for i := range legs {
		released, err := s.settlement.ReleaseLegInTx(tx, &legs[i], booking)
		if err != nil {
			return nil, err
		}
		result.ReleasedLegs++
		if released.FreedSeat != nil {
			result.FreedSeats = append(result.FreedSeats, *released.FreedSeat)
		}
	}

	wasPaid := booking.IsPaid()
	if err := s.bookingRepo.MarkCancelled(tx, booking.ID, req.Reason, decision.RefundAmount, wasPaid); err != nil {
		return nil, err
	}

	reason := decision.Reason
	if req.Reason != nil && *req.Reason != "" {
		reason = *req.Reason
	}

	cancelRecord := &models.CancelHistory{
		BookingID:        booking.ID,
		BookingReference: booking.BookingReference,
		FeeAmount:        decision.FeeAmount,
		RefundAmount:     decision.RefundAmount,
		Reason:           reason,
		Actor:            req.Actor,
	}
	if err := s.historyRepo.InsertCancelHistory(tx, cancelRecord); err != nil {
		return nil, err
	}

	if wasPaid && decision.RefundAmount > 0 {
		refundRecord := &models.RefundHistory{
			BookingID:        booking.ID,
			BookingReference: booking.BookingReference,
			RefundAmount:     decision.RefundAmount,
			Reason:           reason,
			Actor:            req.Actor,
		}
		if err := s.historyRepo.InsertRefundHistory(tx, refundRecord); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cancellation: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":        booking.ID,
		"booking_reference": booking.BookingReference,
		"fee_amount":        decision.FeeAmount,
		"refund_amount":     decision.RefundAmount,
		"released_legs":     result.ReleasedLegs,
		"actor":             req.Actor,
	}).Info("Booking cancelled")

	return result, nil
}

// RefundEligibilityResult is the outcome of the refund-request gate
type RefundEligibilityResult struct {
	Eligible     bool     `json:"eligible"`
	Reason       string   `json:"reason"`
	RefundAmount *float64 `json:"refund_amount,omitempty"`
}

// RefundEligibility decides whether a refund request can be raised for a
// booking. This gate is distinct from the cancellation fee: the refund
// amount was computed once at cancellation time and is carried forward
// on the booking header.
func (s *CancellationService) RefundEligibility(bookingID string) (*RefundEligibilityResult, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: booking %s", ErrNotFound, bookingID)
	}

	if booking.IsCancelled() {
		return &RefundEligibilityResult{
			Eligible:     true,
			Reason:       "booking is cancelled",
			RefundAmount: booking.RefundAmount,
		}, nil
	}

	legs, err := s.bookingRepo.GetBookingFlights(bookingID)
	if err != nil {
		return nil, err
	}

	for _, leg := range legs {
		if leg.FlightStatus == models.FlightStatusCancelled || leg.FlightStatus == models.FlightStatusDelayed {
			return &RefundEligibilityResult{
				Eligible:     true,
				Reason:       fmt.Sprintf("flight leg is %s", leg.FlightStatus),
				RefundAmount: booking.RefundAmount,
			}, nil
		}
	}

	return &RefundEligibilityResult{
		Eligible: false,
		Reason:   "booking is not cancelled and no flight leg is cancelled or delayed",
	}, nil
}
