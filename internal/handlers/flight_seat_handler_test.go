package handlers

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/skyreserve/airline-reservation-backend/internal/database"
	"github.com/skyreserve/airline-reservation-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a mock database for testing
func setupTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	return sqlxDB, mock
}

// setupFlightSeatHandler creates a test handler
func setupFlightSeatHandler(db *sqlx.DB) *FlightSeatHandler {
	return NewFlightSeatHandler(
		database.NewFlightRepository(db),
		database.NewSeatRepository(db),
		services.NewFareService(),
	)
}

func setupFlightContext(flightID, path string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "flightId", Value: flightID}}
	c.Request, _ = http.NewRequest(http.MethodGet, path, nil)
	return c, w
}

var testFlightRows = []string{
	"id", "flight_number", "origin", "destination", "departure_time", "arrival_time",
	"aircraft_id", "status",
	"economy_price", "business_price", "first_class_price",
	"total_economy_seats", "total_business_seats", "total_first_seats",
	"available_economy_seats", "available_business_seats", "available_first_seats",
	"created_at", "updated_at",
}

func testFlightRow(now time.Time, availEconomy int) []driver.Value {
	return []driver.Value{
		"flight-1", "UL504", "CMB", "LHR", now.Add(72 * time.Hour), now.Add(83 * time.Hour),
		"aircraft-1", "scheduled",
		50000.0, 150000.0, 400000.0,
		100, 16, 4,
		availEconomy, 10, 2,
		now, now,
	}
}

func TestGetFareQuote_Success(t *testing.T) {
	db, mock := setupTestDB(t)

	mock.ExpectQuery(`SELECT (.+) FROM flights WHERE id`).
		WithArgs("flight-1").
		WillReturnRows(sqlmock.NewRows(testFlightRows).AddRow(testFlightRow(time.Now(), 80)...))

	handler := setupFlightSeatHandler(db)
	c, w := setupFlightContext("flight-1", "/api/v1/flights/flight-1/fare?class=business")

	handler.GetFareQuote(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "UL504", response["flight_number"])
	assert.Equal(t, "business", response["travel_class"])
	assert.Equal(t, float64(150000), response["fare"])
	assert.Equal(t, float64(10), response["available_seats"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetFareQuote_InvalidClass(t *testing.T) {
	db, _ := setupTestDB(t)

	handler := setupFlightSeatHandler(db)
	c, w := setupFlightContext("flight-1", "/api/v1/flights/flight-1/fare?class=luxury")

	handler.GetFareQuote(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetFareQuote_FlightNotFound(t *testing.T) {
	db, mock := setupTestDB(t)

	mock.ExpectQuery(`SELECT (.+) FROM flights WHERE id`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	handler := setupFlightSeatHandler(db)
	c, w := setupFlightContext("missing", "/api/v1/flights/missing/fare?class=economy")

	handler.GetFareQuote(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetFareQuote_SoldOut(t *testing.T) {
	db, mock := setupTestDB(t)

	mock.ExpectQuery(`SELECT (.+) FROM flights WHERE id`).
		WithArgs("flight-1").
		WillReturnRows(sqlmock.NewRows(testFlightRows).AddRow(testFlightRow(time.Now(), 0)...))

	handler := setupFlightSeatHandler(db)
	c, w := setupFlightContext("flight-1", "/api/v1/flights/flight-1/fare?class=economy")

	handler.GetFareQuote(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInitializeSeats_FlightNotFound(t *testing.T) {
	db, mock := setupTestDB(t)

	mock.ExpectQuery(`SELECT (.+) FROM flights WHERE id`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	handler := setupFlightSeatHandler(db)
	c, w := setupFlightContext("missing", "/api/v1/flights/missing/seats")
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/flights/missing/seats", nil)

	handler.InitializeSeats(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSeatSummary_Success(t *testing.T) {
	db, mock := setupTestDB(t)

	mock.ExpectQuery(`SELECT (.+) FROM flight_seats fs`).
		WithArgs("flight-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"flight_id", "total_seats", "available_seats", "occupied_seats",
			"available_economy", "available_business", "available_first",
		}).AddRow("flight-1", 120, 100, 20, 85, 12, 3))

	handler := setupFlightSeatHandler(db)
	c, w := setupFlightContext("flight-1", "/api/v1/flights/flight-1/seats/summary")

	handler.GetSeatSummary(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, float64(120), response["total_seats"])
	assert.Equal(t, float64(100), response["available_seats"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
