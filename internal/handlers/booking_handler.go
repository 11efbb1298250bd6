package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skyreserve/airline-reservation-backend/internal/database"
	"github.com/skyreserve/airline-reservation-backend/internal/models"
	"github.com/skyreserve/airline-reservation-backend/internal/services"
)

// BookingHandler handles booking and flight leg settlement API endpoints
type BookingHandler struct {
	bookingRepo *database.BookingRepository
	settlement  *services.SettlementService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(
	bookingRepo *database.BookingRepository,
	settlement *services.SettlementService,
) *BookingHandler {
	return &BookingHandler{
		bookingRepo: bookingRepo,
		settlement:  settlement,
	}
}

// CreateBooking creates an empty booking shell with a fresh reference
// POST /api/v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookingRepo.CreateBooking(req.UserID)
	if err != nil {
		fmt.Printf("Error creating booking: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// GetBooking returns a booking with its flight legs
// GET /api/v1/bookings/:bookingId
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID := c.Param("bookingId")
	if bookingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Booking ID is required"})
		return
	}

	booking, err := h.bookingRepo.GetByID(bookingID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get booking"})
		return
	}
	if booking == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	flights, err := h.bookingRepo.GetBookingFlights(bookingID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get booking flights"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking": booking,
		"flights": flights,
	})
}

// AddFlightLeg adds a flight leg to a booking, allocating a seat when a
// passenger is supplied
// POST /api/v1/bookings/:bookingId/flights
func (h *BookingHandler) AddFlightLeg(c *gin.Context) {
	bookingID := c.Param("bookingId")
	if bookingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Booking ID is required"})
		return
	}

	var req models.AddFlightLegRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.settlement.AddFlightLeg(bookingID, &req)
	if err != nil {
		respondServiceError(c, err, "Failed to add flight leg")
		return
	}

	c.JSON(http.StatusCreated, result)
}

// RemoveFlightLeg deletes a flight leg and releases its seat and fare
// DELETE /api/v1/booking-flights/:id
func (h *BookingHandler) RemoveFlightLeg(c *gin.Context) {
	bookingFlightID := c.Param("id")
	if bookingFlightID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Booking flight ID is required"})
		return
	}

	result, err := h.settlement.RemoveFlightLeg(bookingFlightID)
	if err != nil {
		respondServiceError(c, err, "Failed to remove flight leg")
		return
	}

	c.JSON(http.StatusOK, result)
}
