package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skyreserve/airline-reservation-backend/internal/database"
	"github.com/skyreserve/airline-reservation-backend/internal/models"
)

// PassengerHandler handles passenger API endpoints
type PassengerHandler struct {
	passengerRepo *database.PassengerRepository
}

// NewPassengerHandler creates a new PassengerHandler
func NewPassengerHandler(passengerRepo *database.PassengerRepository) *PassengerHandler {
	return &PassengerHandler{passengerRepo: passengerRepo}
}

// CreatePassenger registers a passenger a seat can later be allocated to
// POST /api/v1/passengers
func (h *PassengerHandler) CreatePassenger(c *gin.Context) {
	var req struct {
		FirstName      string  `json:"first_name" binding:"required"`
		LastName       string  `json:"last_name" binding:"required"`
		PassportNumber *string `json:"passport_number"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	passenger := &models.Passenger{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		PassportNumber: req.PassportNumber,
	}
	if err := h.passengerRepo.Create(passenger); err != nil {
		fmt.Printf("Error creating passenger: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create passenger"})
		return
	}

	c.JSON(http.StatusCreated, passenger)
}

// GetPassenger returns a passenger by ID
// GET /api/v1/passengers/:passengerId
func (h *PassengerHandler) GetPassenger(c *gin.Context) {
	passengerID := c.Param("passengerId")
	if passengerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passenger ID is required"})
		return
	}

	passenger, err := h.passengerRepo.GetByID(passengerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get passenger"})
		return
	}
	if passenger == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Passenger not found"})
		return
	}

	c.JSON(http.StatusOK, passenger)
}
