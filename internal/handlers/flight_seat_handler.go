package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skyreserve/airline-reservation-backend/internal/database"
	"github.com/skyreserve/airline-reservation-backend/internal/models"
	"github.com/skyreserve/airline-reservation-backend/internal/services"
)

// FlightSeatHandler handles fare quotes and flight seat map API endpoints
type FlightSeatHandler struct {
	flightRepo  *database.FlightRepository
	seatRepo    *database.SeatRepository
	fareService *services.FareService
}

// NewFlightSeatHandler creates a new FlightSeatHandler
func NewFlightSeatHandler(
	flightRepo *database.FlightRepository,
	seatRepo *database.SeatRepository,
	fareService *services.FareService,
) *FlightSeatHandler {
	return &FlightSeatHandler{
		flightRepo:  flightRepo,
		seatRepo:    seatRepo,
		fareService: fareService,
	}
}

// GetFareQuote returns the current fare for a flight and travel class
// GET /api/v1/flights/:flightId/fare?class=economy
func (h *FlightSeatHandler) GetFareQuote(c *gin.Context) {
	flightID := c.Param("flightId")
	if flightID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Flight ID is required"})
		return
	}

	class, err := models.ParseTravelClass(c.Query("class"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flight, err := h.flightRepo.GetByID(flightID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get flight"})
		return
	}
	if flight == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Flight not found"})
		return
	}

	fare, err := h.fareService.Quote(flight, class)
	if err != nil {
		respondServiceError(c, err, "Failed to quote fare")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"flight_id":       flight.ID,
		"flight_number":   flight.FlightNumber,
		"travel_class":    class,
		"fare":            fare,
		"available_seats": flight.AvailableSeats(class),
	})
}

// InitializeSeats creates the per-flight seat ledger from the aircraft
// seat template and resets the availability counters
// POST /api/v1/flights/:flightId/seats
func (h *FlightSeatHandler) InitializeSeats(c *gin.Context) {
	flightID := c.Param("flightId")
	if flightID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Flight ID is required"})
		return
	}

	flight, err := h.flightRepo.GetByID(flightID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get flight"})
		return
	}
	if flight == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Flight not found"})
		return
	}

	count, err := h.seatRepo.InitializeFlightSeats(flightID, flight.AircraftID)
	if err != nil {
		fmt.Printf("Error initializing flight seats: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initialize flight seats"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Flight seats initialized successfully",
		"seats_count": count,
	})
}

// GetSeatMap returns all seats for a flight with their availability
// GET /api/v1/flights/:flightId/seats
func (h *FlightSeatHandler) GetSeatMap(c *gin.Context) {
	flightID := c.Param("flightId")
	if flightID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Flight ID is required"})
		return
	}

	seats, err := h.seatRepo.GetSeatMap(flightID)
	if err != nil {
		fmt.Printf("Error getting seat map: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get seat map"})
		return
	}

	summary, err := h.seatRepo.GetSummary(flightID)
	if err != nil {
		fmt.Printf("Error getting seat summary: %v\n", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"seats":   seats,
		"summary": summary,
	})
}

// GetSeatSummary returns seat availability counts per travel class
// GET /api/v1/flights/:flightId/seats/summary
func (h *FlightSeatHandler) GetSeatSummary(c *gin.Context) {
	flightID := c.Param("flightId")
	if flightID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Flight ID is required"})
		return
	}

	summary, err := h.seatRepo.GetSummary(flightID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get seat summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
