package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skyreserve/airline-reservation-backend/internal/models"
	"github.com/skyreserve/airline-reservation-backend/internal/services"
	"github.com/skyreserve/airline-reservation-backend/pkg/seatcode"
)

// respondServiceError maps service-layer errors onto HTTP responses so
// every handler reports the same status for the same failure.
func respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidTravelClass),
		errors.Is(err, models.ErrInvalidRequest),
		errors.Is(err, seatcode.ErrEmptySeatNumber),
		errors.Is(err, seatcode.ErrInvalidFormat),
		errors.Is(err, seatcode.ErrInvalidRow):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrSoldOut),
		errors.Is(err, services.ErrSeatTaken),
		errors.Is(err, services.ErrNoSeatsLeft):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		if notCancellable, ok := services.IsNotCancellable(err); ok {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":  "Booking cannot be cancelled",
				"reason": notCancellable.Reason,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
