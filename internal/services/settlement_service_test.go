package services

import (
	"database/sql"
	"database/sql/driver"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/skyreserve/airline-reservation-backend/internal/database"
	"github.com/skyreserve/airline-reservation-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newSettlementService(t *testing.T) (*SettlementService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock := newTestDB(t)
	logger := newTestLogger()
	seatRepo := database.NewSeatRepository(db)

	svc := NewSettlementService(
		db,
		database.NewBookingRepository(db),
		database.NewFlightRepository(db),
		seatRepo,
		database.NewPassengerRepository(db),
		NewFareService(),
		NewSeatAllocationService(seatRepo, 3, logger),
		0,
		logger,
	)
	return svc, mock
}

var bookingRows = []string{
	"id", "booking_reference", "user_id", "total_amount",
	"payment_status", "booking_status",
	"cancelled_at", "cancellation_reason", "refund_amount", "refunded_at",
	"created_at", "updated_at",
}

var flightRows = []string{
	"id", "flight_number", "origin", "destination", "departure_time", "arrival_time",
	"aircraft_id", "status",
	"economy_price", "business_price", "first_class_price",
	"total_economy_seats", "total_business_seats", "total_first_seats",
	"available_economy_seats", "available_business_seats", "available_first_seats",
	"created_at", "updated_at",
}

var bookingFlightDetailRows = []string{
	"id", "booking_id", "flight_id", "travel_class", "fare",
	"seat_number", "baggage_allowance_kg", "created_at", "updated_at",
	"flight_status", "departure_time", "aircraft_id",
	"booking_ref", "payment_status", "booking_status", "booking_total",
}

var flightSeatDetailRows = []string{
	"id", "flight_id", "seat_id", "is_available", "created_at", "updated_at",
	"seat_number", "travel_class", "row_number", "seat_column",
}

func pendingBookingRow(now time.Time, total float64) []driver.Value {
	return []driver.Value{
		"booking-1", "AR-20260829-A1B2C3", "user-1", total,
		"pending", "reserved",
		nil, nil, nil, nil,
		now, now,
	}
}

func scheduledFlightRow(now time.Time, availEconomy int) []driver.Value {
	return []driver.Value{
		"flight-1", "UL504", "CMB", "LHR", now.Add(72 * time.Hour), now.Add(83 * time.Hour),
		"aircraft-1", "scheduled",
		50000.0, 150000.0, 400000.0,
		100, 16, 4,
		availEconomy, 10, 2,
		now, now,
	}
}

func TestAddFlightLeg(t *testing.T) {
	t.Run("Settles Leg With Automatic Seat", func(t *testing.T) {
		svc, mock := newSettlementService(t)
		now := time.Now()
		passengerID := "passenger-1"

		mock.ExpectQuery(`SELECT (.+) FROM passengers WHERE id`).
			WithArgs(passengerID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "passport_number", "created_at"}).
				AddRow(passengerID, "Amara", "Silva", nil, now))

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id (.+) FOR UPDATE`).
			WithArgs("booking-1").
			WillReturnRows(sqlmock.NewRows(bookingRows).AddRow(pendingBookingRow(now, 0)...))
		mock.ExpectQuery(`SELECT (.+) FROM flights WHERE id (.+) FOR UPDATE`).
			WithArgs("flight-1").
			WillReturnRows(sqlmock.NewRows(flightRows).AddRow(scheduledFlightRow(now, 5)...))
		mock.ExpectQuery(`INSERT INTO booking_flights`).
			WithArgs("booking-1", "flight-1", models.TravelClassEconomy, 50000.0, nil, 20).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow("leg-1", now, now))
		mock.ExpectQuery(`SELECT (.+) FROM flight_seats fs (.+) FOR UPDATE OF fs`).
			WithArgs("flight-1", models.TravelClassEconomy, "aircraft-1").
			WillReturnRows(sqlmock.NewRows(flightSeatDetailRows).
				AddRow("fs-1", "flight-1", "seat-1", true, now, now, "1A", "economy", 1, "A"))
		mock.ExpectExec(`UPDATE flight_seats`).
			WithArgs(false, sqlmock.AnyArg(), "fs-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO seat_allocations`).
			WithArgs("leg-1", "fs-1", passengerID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("alloc-1", now))
		mock.ExpectExec(`UPDATE booking_flights SET seat_number`).
			WithArgs("1A", sqlmock.AnyArg(), "leg-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE flights`).
			WithArgs(4, 10, 2, sqlmock.AnyArg(), "flight-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE bookings SET total_amount`).
			WithArgs(50000.0, sqlmock.AnyArg(), "booking-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		resp, err := svc.AddFlightLeg("booking-1", &models.AddFlightLegRequest{
			FlightID:    "flight-1",
			TravelClass: "economy",
			PassengerID: &passengerID,
		})
		require.NoError(t, err)
		assert.Equal(t, float64(50000), resp.BookingFlight.Fare)
		assert.Equal(t, "1A", *resp.BookingFlight.SeatNumber)
		assert.Equal(t, 20, resp.BookingFlight.BaggageAllowanceKg)
		assert.Equal(t, float64(50000), resp.TotalAmount)
		require.NotNil(t, resp.Allocation)
		assert.Equal(t, "fs-1", resp.Allocation.FlightSeatID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Sold Out Rolls Back", func(t *testing.T) {
		svc, mock := newSettlementService(t)
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id (.+) FOR UPDATE`).
			WithArgs("booking-1").
			WillReturnRows(sqlmock.NewRows(bookingRows).AddRow(pendingBookingRow(now, 0)...))
		mock.ExpectQuery(`SELECT (.+) FROM flights WHERE id (.+) FOR UPDATE`).
			WithArgs("flight-1").
			WillReturnRows(sqlmock.NewRows(flightRows).AddRow(scheduledFlightRow(now, 0)...))
		mock.ExpectRollback()

		resp, err := svc.AddFlightLeg("booking-1", &models.AddFlightLegRequest{
			FlightID:    "flight-1",
			TravelClass: "economy",
		})
		assert.ErrorIs(t, err, ErrSoldOut)
		assert.Nil(t, resp)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Explicit Seat Already Taken", func(t *testing.T) {
		svc, mock := newSettlementService(t)
		now := time.Now()
		passengerID := "passenger-1"
		seatNumber := "12A"

		mock.ExpectQuery(`SELECT (.+) FROM passengers WHERE id`).
			WithArgs(passengerID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "passport_number", "created_at"}).
				AddRow(passengerID, "Amara", "Silva", nil, now))

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id (.+) FOR UPDATE`).
			WithArgs("booking-1").
			WillReturnRows(sqlmock.NewRows(bookingRows).AddRow(pendingBookingRow(now, 0)...))
		mock.ExpectQuery(`SELECT (.+) FROM flights WHERE id (.+) FOR UPDATE`).
			WithArgs("flight-1").
			WillReturnRows(sqlmock.NewRows(flightRows).AddRow(scheduledFlightRow(now, 5)...))
		mock.ExpectQuery(`INSERT INTO booking_flights`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow("leg-1", now, now))
		mock.ExpectQuery(`SELECT (.+) FROM seats`).
			WithArgs("aircraft-1", "12A").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "aircraft_id", "seat_number", "travel_class", "row_number", "seat_column", "created_at",
			}).AddRow("seat-12", "aircraft-1", "12A", "economy", 12, "A", now))
		mock.ExpectQuery(`SELECT (.+) FROM flight_seats (.+) FOR UPDATE`).
			WithArgs("flight-1", "seat-12").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "flight_id", "seat_id", "is_available", "created_at", "updated_at",
			}).AddRow("fs-12", "flight-1", "seat-12", false, now, now))
		mock.ExpectRollback()

		resp, err := svc.AddFlightLeg("booking-1", &models.AddFlightLegRequest{
			FlightID:    "flight-1",
			TravelClass: "economy",
			PassengerID: &passengerID,
			SeatNumber:  &seatNumber,
		})
		assert.ErrorIs(t, err, ErrSeatTaken)
		assert.Nil(t, resp)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Explicit Seat From Another Class Rolls Back", func(t *testing.T) {
		svc, mock := newSettlementService(t)
		now := time.Now()
		passengerID := "passenger-1"
		seatNumber := "1A"

		mock.ExpectQuery(`SELECT (.+) FROM passengers WHERE id`).
			WithArgs(passengerID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "passport_number", "created_at"}).
				AddRow(passengerID, "Amara", "Silva", nil, now))

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id (.+) FOR UPDATE`).
			WithArgs("booking-1").
			WillReturnRows(sqlmock.NewRows(bookingRows).AddRow(pendingBookingRow(now, 0)...))
		mock.ExpectQuery(`SELECT (.+) FROM flights WHERE id (.+) FOR UPDATE`).
			WithArgs("flight-1").
			WillReturnRows(sqlmock.NewRows(flightRows).AddRow(scheduledFlightRow(now, 5)...))
		mock.ExpectQuery(`INSERT INTO booking_flights`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow("leg-1", now, now))
		// Seat 1A is a first-class seat; booking it on an economy leg
		// would charge the economy fare and decrement the economy counter
		// while flipping a first-class flight_seat
		mock.ExpectQuery(`SELECT (.+) FROM seats`).
			WithArgs("aircraft-1", "1A").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "aircraft_id", "seat_number", "travel_class", "row_number", "seat_column", "created_at",
			}).AddRow("seat-1", "aircraft-1", "1A", "first", 1, "A", now))
		mock.ExpectRollback()

		resp, err := svc.AddFlightLeg("booking-1", &models.AddFlightLegRequest{
			FlightID:    "flight-1",
			TravelClass: "economy",
			PassengerID: &passengerID,
			SeatNumber:  &seatNumber,
		})
		assert.ErrorIs(t, err, models.ErrInvalidTravelClass)
		assert.Nil(t, resp)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Travel Class", func(t *testing.T) {
		svc, mock := newSettlementService(t)

		resp, err := svc.AddFlightLeg("booking-1", &models.AddFlightLegRequest{
			FlightID:    "flight-1",
			TravelClass: "premium",
		})
		assert.ErrorIs(t, err, models.ErrInvalidTravelClass)
		assert.Nil(t, resp)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Booking Not Found", func(t *testing.T) {
		svc, mock := newSettlementService(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id (.+) FOR UPDATE`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		resp, err := svc.AddFlightLeg("missing", &models.AddFlightLegRequest{
			FlightID:    "flight-1",
			TravelClass: "economy",
		})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, resp)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRemoveFlightLeg(t *testing.T) {
	t.Run("Releases Seat And Credits Fare", func(t *testing.T) {
		svc, mock := newSettlementService(t)
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM booking_flights bf`).
			WithArgs("leg-1").
			WillReturnRows(sqlmock.NewRows(bookingFlightDetailRows).
				AddRow("leg-1", "booking-1", "flight-1", "economy", 50000.0,
					"12A", 20, now, now,
					"scheduled", now.Add(72*time.Hour), "aircraft-1",
					"AR-20260829-A1B2C3", "pending", "reserved", 120000.0))

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id (.+) FOR UPDATE`).
			WithArgs("booking-1").
			WillReturnRows(sqlmock.NewRows(bookingRows).AddRow(pendingBookingRow(now, 120000)...))
		mock.ExpectExec(`DELETE FROM booking_flights WHERE id`).
			WithArgs("leg-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT (.+) FROM flights WHERE id (.+) FOR UPDATE`).
			WithArgs("flight-1").
			WillReturnRows(sqlmock.NewRows(flightRows).AddRow(scheduledFlightRow(now, 4)...))
		mock.ExpectQuery(`SELECT fs.id(.+)FOR UPDATE OF fs`).
			WithArgs("flight-1", "aircraft-1", "12A").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "flight_id", "seat_id", "is_available", "created_at", "updated_at",
			}).AddRow("fs-12", "flight-1", "seat-12", false, now, now))
		mock.ExpectExec(`UPDATE flight_seats`).
			WithArgs(true, sqlmock.AnyArg(), "fs-12").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE flights`).
			WithArgs(5, 10, 2, sqlmock.AnyArg(), "flight-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE bookings SET total_amount`).
			WithArgs(70000.0, sqlmock.AnyArg(), "booking-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		result, err := svc.RemoveFlightLeg("leg-1")
		require.NoError(t, err)
		assert.Equal(t, "12A", *result.FreedSeat)
		assert.Equal(t, float64(50000), result.Fare)
		assert.Equal(t, float64(70000), result.TotalAmount)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Total Never Goes Negative", func(t *testing.T) {
		svc, mock := newSettlementService(t)
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM booking_flights bf`).
			WithArgs("leg-1").
			WillReturnRows(sqlmock.NewRows(bookingFlightDetailRows).
				AddRow("leg-1", "booking-1", "flight-1", "economy", 50000.0,
					nil, 20, now, now,
					"scheduled", now.Add(72*time.Hour), "aircraft-1",
					"AR-20260829-A1B2C3", "pending", "reserved", 30000.0))

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id (.+) FOR UPDATE`).
			WithArgs("booking-1").
			WillReturnRows(sqlmock.NewRows(bookingRows).AddRow(pendingBookingRow(now, 30000)...))
		mock.ExpectExec(`DELETE FROM booking_flights WHERE id`).
			WithArgs("leg-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE bookings SET total_amount`).
			WithArgs(0.0, sqlmock.AnyArg(), "booking-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		result, err := svc.RemoveFlightLeg("leg-1")
		require.NoError(t, err)
		assert.Nil(t, result.FreedSeat)
		assert.Equal(t, float64(0), result.TotalAmount)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Leg Already Removed", func(t *testing.T) {
		svc, mock := newSettlementService(t)

		mock.ExpectQuery(`SELECT (.+) FROM booking_flights bf`).
			WithArgs("gone").
			WillReturnError(sql.ErrNoRows)

		result, err := svc.RemoveFlightLeg("gone")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, result)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Leg Claimed By Concurrent Release", func(t *testing.T) {
		svc, mock := newSettlementService(t)
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM booking_flights bf`).
			WithArgs("leg-1").
			WillReturnRows(sqlmock.NewRows(bookingFlightDetailRows).
				AddRow("leg-1", "booking-1", "flight-1", "economy", 50000.0,
					nil, 20, now, now,
					"scheduled", now.Add(72*time.Hour), "aircraft-1",
					"AR-20260829-A1B2C3", "pending", "reserved", 50000.0))

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id (.+) FOR UPDATE`).
			WithArgs("booking-1").
			WillReturnRows(sqlmock.NewRows(bookingRows).AddRow(pendingBookingRow(now, 50000)...))
		mock.ExpectExec(`DELETE FROM booking_flights WHERE id`).
			WithArgs("leg-1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		result, err := svc.RemoveFlightLeg("leg-1")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, result)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDefaultBaggageAllowanceKg(t *testing.T) {
	assert.Equal(t, 20, DefaultBaggageAllowanceKg(models.TravelClassEconomy))
	assert.Equal(t, 30, DefaultBaggageAllowanceKg(models.TravelClassBusiness))
	assert.Equal(t, 40, DefaultBaggageAllowanceKg(models.TravelClassFirst))
}
