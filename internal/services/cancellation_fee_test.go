package services

import (
	"testing"

	"github.com/skyreserve/airline-reservation-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestFeePercentage(t *testing.T) {
	tests := []struct {
		name  string
		class models.TravelClass
		hours float64
		want  float64
	}{
		{"First 7+ days out", models.TravelClassFirst, 200, 0.00},
		{"First exactly 168h", models.TravelClassFirst, 168, 0.00},
		{"First 2-7 days", models.TravelClassFirst, 72, 0.10},
		{"First 24-48h", models.TravelClassFirst, 30, 0.15},
		{"First under 24h", models.TravelClassFirst, 5, 0.20},
		{"Business 7+ days out", models.TravelClassBusiness, 168, 0.10},
		{"Business 2-7 days", models.TravelClassBusiness, 48, 0.20},
		{"Business 24-48h", models.TravelClassBusiness, 24, 0.25},
		{"Business under 24h", models.TravelClassBusiness, 10, 0.30},
		{"Economy 7+ days out", models.TravelClassEconomy, 168, 0.30},
		{"Economy just under 168h", models.TravelClassEconomy, 167.9, 0.40},
		{"Economy exactly 48h", models.TravelClassEconomy, 48, 0.40},
		{"Economy just under 48h", models.TravelClassEconomy, 47.9, 0.50},
		{"Economy exactly 24h", models.TravelClassEconomy, 24, 0.50},
		{"Economy just under 24h", models.TravelClassEconomy, 23.9, 0.60},
		{"Economy at cutoff boundary", models.TravelClassEconomy, 2, 0.60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FeePercentage(tt.class, tt.hours))
		})
	}
}

func TestCalculateCancellationFee(t *testing.T) {
	t.Run("Economy Paid 200h Out", func(t *testing.T) {
		d := CalculateCancellationFee("economy", 200,
			models.BookingStatusConfirmed, models.PaymentStatusPaid, 1000000)

		assert.True(t, d.Eligible)
		assert.Equal(t, 0.30, d.FeePercentage)
		assert.Equal(t, float64(300000), d.FeeAmount)
		assert.Equal(t, float64(700000), d.RefundAmount)
		assert.Equal(t, ReasonFeeApplied, d.Reason)
	})

	t.Run("Business Paid 10h Out", func(t *testing.T) {
		d := CalculateCancellationFee("business", 10,
			models.BookingStatusConfirmed, models.PaymentStatusPaid, 2000000)

		assert.True(t, d.Eligible)
		assert.Equal(t, 0.30, d.FeePercentage)
		assert.Equal(t, float64(600000), d.FeeAmount)
		assert.Equal(t, float64(1400000), d.RefundAmount)
	})

	t.Run("First Class Free Window", func(t *testing.T) {
		d := CalculateCancellationFee("first", 300,
			models.BookingStatusConfirmed, models.PaymentStatusPaid, 5000000)

		assert.True(t, d.Eligible)
		assert.Equal(t, 0.00, d.FeePercentage)
		assert.Equal(t, float64(0), d.FeeAmount)
		assert.Equal(t, float64(5000000), d.RefundAmount)
	})

	t.Run("Fee Rounds To Nearest Unit", func(t *testing.T) {
		// 999 * 0.60 = 599.4, rounds down
		d := CalculateCancellationFee("economy", 5,
			models.BookingStatusConfirmed, models.PaymentStatusPaid, 999)

		assert.Equal(t, float64(599), d.FeeAmount)
		assert.Equal(t, float64(400), d.RefundAmount)
	})

	t.Run("Unpaid Booking Cancels Free", func(t *testing.T) {
		d := CalculateCancellationFee("economy", 150,
			models.BookingStatusReserved, models.PaymentStatusPending, 750000)

		assert.True(t, d.Eligible)
		assert.Equal(t, float64(0), d.FeeAmount)
		assert.Equal(t, float64(0), d.RefundAmount)
		assert.Equal(t, ReasonFreeCancellation, d.Reason)
	})

	t.Run("Failed Payment Cancels Free", func(t *testing.T) {
		d := CalculateCancellationFee("business", 150,
			models.BookingStatusReserved, models.PaymentStatusFailed, 750000)

		assert.True(t, d.Eligible)
		assert.Equal(t, ReasonFreeCancellation, d.Reason)
	})

	t.Run("Already Departed", func(t *testing.T) {
		d := CalculateCancellationFee("economy", -1,
			models.BookingStatusConfirmed, models.PaymentStatusPaid, 1000000)

		assert.False(t, d.Eligible)
		assert.Equal(t, ReasonAlreadyDeparted, d.Reason)
	})

	t.Run("Departed Gate Beats Cancelled Gate", func(t *testing.T) {
		d := CalculateCancellationFee("economy", -5,
			models.BookingStatusCancelled, models.PaymentStatusRefunded, 1000000)

		assert.False(t, d.Eligible)
		assert.Equal(t, ReasonAlreadyDeparted, d.Reason)
	})

	t.Run("Already Cancelled", func(t *testing.T) {
		d := CalculateCancellationFee("economy", 100,
			models.BookingStatusCancelled, models.PaymentStatusPaid, 1000000)

		assert.False(t, d.Eligible)
		assert.Equal(t, ReasonAlreadyCancelled, d.Reason)
	})

	t.Run("Already Refunded", func(t *testing.T) {
		d := CalculateCancellationFee("economy", 100,
			models.BookingStatusConfirmed, models.PaymentStatusRefunded, 1000000)

		assert.False(t, d.Eligible)
		assert.Equal(t, ReasonAlreadyRefunded, d.Reason)
	})

	t.Run("Inside Cutoff Window", func(t *testing.T) {
		d := CalculateCancellationFee("economy", 1.5,
			models.BookingStatusConfirmed, models.PaymentStatusPaid, 1000000)

		assert.False(t, d.Eligible)
		assert.Equal(t, ReasonInsideCutoff, d.Reason)
	})

	t.Run("Legacy Class Label Resolves By Substring", func(t *testing.T) {
		d := CalculateCancellationFee("First Class (suite)", 300,
			models.BookingStatusConfirmed, models.PaymentStatusPaid, 1000000)

		assert.Equal(t, 0.00, d.FeePercentage)
		assert.Equal(t, float64(1000000), d.RefundAmount)
	})
}

func TestCalculateCancellationFeeWithCutoff(t *testing.T) {
	t.Run("Custom Cutoff Refuses Inside Window", func(t *testing.T) {
		d := CalculateCancellationFeeWithCutoff("economy", 3,
			models.BookingStatusConfirmed, models.PaymentStatusPaid, 1000000, 4)

		assert.False(t, d.Eligible)
		assert.Equal(t, "inside the 4-hour cancellation cutoff", d.Reason)
	})

	t.Run("Custom Cutoff Allows Outside Window", func(t *testing.T) {
		d := CalculateCancellationFeeWithCutoff("economy", 5,
			models.BookingStatusConfirmed, models.PaymentStatusPaid, 1000000, 4)

		assert.True(t, d.Eligible)
		assert.Equal(t, 0.60, d.FeePercentage)
	})
}
