package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skyreserve/airline-reservation-backend/internal/database"
	"github.com/skyreserve/airline-reservation-backend/internal/models"
	"github.com/skyreserve/airline-reservation-backend/internal/services"
)

// CancellationHandler handles cancellation, refund and history API endpoints
type CancellationHandler struct {
	cancellation *services.CancellationService
	historyRepo  *database.HistoryRepository
}

// NewCancellationHandler creates a new CancellationHandler
func NewCancellationHandler(
	cancellation *services.CancellationService,
	historyRepo *database.HistoryRepository,
) *CancellationHandler {
	return &CancellationHandler{
		cancellation: cancellation,
		historyRepo:  historyRepo,
	}
}

// GetCancellationQuote previews the cancellation fee and refund without
// cancelling anything
// GET /api/v1/bookings/:bookingId/cancellation-quote
func (h *CancellationHandler) GetCancellationQuote(c *gin.Context) {
	bookingID := c.Param("bookingId")
	if bookingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Booking ID is required"})
		return
	}

	quote, err := h.cancellation.QuoteCancellation(bookingID)
	if err != nil {
		respondServiceError(c, err, "Failed to quote cancellation")
		return
	}

	c.JSON(http.StatusOK, quote)
}

// CancelBooking cancels a booking, releasing every leg and recording the
// fee and refund
// POST /api/v1/bookings/:bookingId/cancel
func (h *CancellationHandler) CancelBooking(c *gin.Context) {
	bookingID := c.Param("bookingId")
	if bookingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Booking ID is required"})
		return
	}

	var req models.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.cancellation.CancelBooking(bookingID, &req)
	if err != nil {
		respondServiceError(c, err, "Failed to cancel booking")
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRefundEligibility reports whether a refund request can be raised
// GET /api/v1/bookings/:bookingId/refund-eligibility
func (h *CancellationHandler) GetRefundEligibility(c *gin.Context) {
	bookingID := c.Param("bookingId")
	if bookingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Booking ID is required"})
		return
	}

	result, err := h.cancellation.RefundEligibility(bookingID)
	if err != nil {
		respondServiceError(c, err, "Failed to check refund eligibility")
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBookingHistory returns the cancellation and refund audit trail
// GET /api/v1/bookings/:bookingId/history
func (h *CancellationHandler) GetBookingHistory(c *gin.Context) {
	bookingID := c.Param("bookingId")
	if bookingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Booking ID is required"})
		return
	}

	history, err := h.historyRepo.GetByBookingID(bookingID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get booking history"})
		return
	}

	c.JSON(http.StatusOK, history)
}
