package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/skyreserve/airline-reservation-backend/internal/models"
	"github.com/skyreserve/airline-reservation-backend/internal/services"
	"github.com/skyreserve/airline-reservation-backend/pkg/seatcode"
	"github.com/stretchr/testify/assert"
)

func TestRespondServiceError(t *testing.T) {
	badSeat := "ZZ9"
	_, seatErr := seatcode.Parse(badSeat)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"Not Found", fmt.Errorf("%w: booking b1", services.ErrNotFound), http.StatusNotFound},
		{"Invalid Travel Class", fmt.Errorf("%w: %q", models.ErrInvalidTravelClass, "luxury"), http.StatusBadRequest},
		{"Invalid Request", fmt.Errorf("%w: baggage_allowance_kg cannot be negative", models.ErrInvalidRequest), http.StatusBadRequest},
		{"Malformed Seat Number", seatErr, http.StatusBadRequest},
		{"Sold Out", fmt.Errorf("%w: economy", services.ErrSoldOut), http.StatusConflict},
		{"Seat Taken", fmt.Errorf("%w: 12A", services.ErrSeatTaken), http.StatusConflict},
		{"No Seats Left", fmt.Errorf("%w: first", services.ErrNoSeatsLeft), http.StatusConflict},
		{"Not Cancellable", &services.NotCancellableError{Reason: "booking is already cancelled"}, http.StatusUnprocessableEntity},
		{"Unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondServiceError(c, tt.err, "internal error")

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRespondServiceError_ValidationFromRequest(t *testing.T) {
	passenger := "passenger-1"
	badSeat := "A12"
	req := &models.AddFlightLegRequest{
		FlightID:    "f1",
		TravelClass: "economy",
		PassengerID: &passenger,
		SeatNumber:  &badSeat,
	}
	err := req.Validate()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondServiceError(c, err, "internal error")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
