package services

import (
	"fmt"
	"math"

	"github.com/skyreserve/airline-reservation-backend/internal/models"
)

// CancellationDecision is the outcome of the fee calculation
type CancellationDecision struct {
	Eligible      bool    `json:"eligible"`
	FeePercentage float64 `json:"fee_percentage"`
	FeeAmount     float64 `json:"fee_amount"`
	RefundAmount  float64 `json:"refund_amount"`
	Reason        string  `json:"reason"`
}

// DefaultCancellationCutoffHours is the window before departure inside
// which cancellation is refused
const DefaultCancellationCutoffHours = 2.0

// Cancellation reasons surfaced to the caller verbatim
const (
	ReasonAlreadyDeparted  = "flight has already departed"
	ReasonAlreadyCancelled = "booking is already cancelled"
	ReasonAlreadyRefunded  = "booking is already refunded"
	ReasonInsideCutoff     = "inside the 2-hour cancellation cutoff"
	ReasonFreeCancellation = "unpaid booking, free cancellation"
	ReasonFeeApplied       = "cancellation fee applied per fare rules"
)

// feeTier holds the fee percentage per class for one time band
type feeTier struct {
	minHours float64
	first    float64
	business float64
	economy  float64
}

// Fee percentages tier by class and by proximity to departure; cheaper
// classes carry steeper fees. Bands are inclusive at their lower bound,
// so exactly 168 hours lands in the 7-day band.
var feeTiers = []feeTier{
	{minHours: 168, first: 0.00, business: 0.10, economy: 0.30},
	{minHours: 48, first: 0.10, business: 0.20, economy: 0.40},
	{minHours: 24, first: 0.15, business: 0.25, economy: 0.50},
	{minHours: 0, first: 0.20, business: 0.30, economy: 0.60},
}

// FeePercentage returns the cancellation fee fraction for a class at a
// given distance from departure
func FeePercentage(class models.TravelClass, hoursUntilDeparture float64) float64 {
	for _, tier := range feeTiers {
		if hoursUntilDeparture >= tier.minHours {
			switch class {
			case models.TravelClassFirst:
				return tier.first
			case models.TravelClassBusiness:
				return tier.business
			default:
				return tier.economy
			}
		}
	}
	// Below every band; the <24h tier applies
	last := feeTiers[len(feeTiers)-1]
	switch class {
	case models.TravelClassFirst:
		return last.first
	case models.TravelClassBusiness:
		return last.business
	default:
		return last.economy
	}
}

// CalculateCancellationFee decides whether a booking can be cancelled and
// what it costs. Pure function; this is the single definition of the
// pricing rules, shared by the preview endpoint and the actual settlement.
//
// travelClass may be a legacy free-text label; it is resolved by
// ClassifyTravelClass. Gates are checked in order, first match wins.
func CalculateCancellationFee(
	travelClass string,
	hoursUntilDeparture float64,
	bookingStatus models.BookingStatus,
	paymentStatus models.PaymentStatus,
	totalAmount float64,
) CancellationDecision {
	return CalculateCancellationFeeWithCutoff(travelClass, hoursUntilDeparture,
		bookingStatus, paymentStatus, totalAmount, DefaultCancellationCutoffHours)
}

// CalculateCancellationFeeWithCutoff is CalculateCancellationFee with a
// configurable cutoff window
func CalculateCancellationFeeWithCutoff(
	travelClass string,
	hoursUntilDeparture float64,
	bookingStatus models.BookingStatus,
	paymentStatus models.PaymentStatus,
	totalAmount float64,
	cutoffHours float64,
) CancellationDecision {
	if hoursUntilDeparture < 0 {
		return CancellationDecision{Eligible: false, Reason: ReasonAlreadyDeparted}
	}

	if bookingStatus == models.BookingStatusCancelled {
		return CancellationDecision{Eligible: false, Reason: ReasonAlreadyCancelled}
	}

	if paymentStatus == models.PaymentStatusRefunded {
		return CancellationDecision{Eligible: false, Reason: ReasonAlreadyRefunded}
	}

	if hoursUntilDeparture < cutoffHours {
		reason := ReasonInsideCutoff
		if cutoffHours != DefaultCancellationCutoffHours {
			reason = fmt.Sprintf("inside the %g-hour cancellation cutoff", cutoffHours)
		}
		return CancellationDecision{Eligible: false, Reason: reason}
	}

	// Nothing was paid, nothing to charge or refund
	if paymentStatus != models.PaymentStatusPaid {
		return CancellationDecision{Eligible: true, Reason: ReasonFreeCancellation}
	}

	class := models.ClassifyTravelClass(travelClass)
	pct := FeePercentage(class, hoursUntilDeparture)
	fee := math.Round(totalAmount * pct)
	refund := totalAmount - fee
	if refund < 0 {
		refund = 0
	}

	return CancellationDecision{
		Eligible:      true,
		FeePercentage: pct,
		FeeAmount:     fee,
		RefundAmount:  refund,
		Reason:        ReasonFeeApplied,
	}
}
