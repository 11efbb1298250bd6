package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/skyreserve/airline-reservation-backend/internal/config"
	"github.com/skyreserve/airline-reservation-backend/internal/database"
	"github.com/skyreserve/airline-reservation-backend/internal/handlers"
	"github.com/skyreserve/airline-reservation-backend/internal/services"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting SkyReserve Airline Reservation Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize repositories
	flightRepo := database.NewFlightRepository(db)
	seatRepo := database.NewSeatRepository(db)
	bookingRepo := database.NewBookingRepository(db)
	passengerRepo := database.NewPassengerRepository(db)
	historyRepo := database.NewHistoryRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	fareService := services.NewFareService()
	seatAllocationService := services.NewSeatAllocationService(
		seatRepo,
		cfg.Settlement.AllocationRetries,
		logger,
	)
	settlementService := services.NewSettlementService(
		db,
		bookingRepo,
		flightRepo,
		seatRepo,
		passengerRepo,
		fareService,
		seatAllocationService,
		cfg.Settlement.TxTimeout,
		logger,
	)
	cancellationService := services.NewCancellationService(
		bookingRepo,
		historyRepo,
		settlementService,
		cfg.Cancellation.CutoffHours,
		logger,
	)
	logger.Info("Services initialized")

	// Initialize handlers
	bookingHandler := handlers.NewBookingHandler(bookingRepo, settlementService)
	cancellationHandler := handlers.NewCancellationHandler(cancellationService, historyRepo)
	flightSeatHandler := handlers.NewFlightSeatHandler(flightRepo, seatRepo, fareService)
	passengerHandler := handlers.NewPassengerHandler(passengerRepo)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Booking and flight leg settlement
		bookings := v1.Group("/bookings")
		{
			bookings.POST("", bookingHandler.CreateBooking)
			bookings.GET("/:bookingId", bookingHandler.GetBooking)
			bookings.POST("/:bookingId/flights", bookingHandler.AddFlightLeg)

			// Cancellation, refunds and history
			bookings.GET("/:bookingId/cancellation-quote", cancellationHandler.GetCancellationQuote)
			bookings.POST("/:bookingId/cancel", cancellationHandler.CancelBooking)
			bookings.GET("/:bookingId/refund-eligibility", cancellationHandler.GetRefundEligibility)
			bookings.GET("/:bookingId/history", cancellationHandler.GetBookingHistory)
		}

		v1.DELETE("/booking-flights/:id", bookingHandler.RemoveFlightLeg)

		// Passengers
		passengers := v1.Group("/passengers")
		{
			passengers.POST("", passengerHandler.CreatePassenger)
			passengers.GET("/:passengerId", passengerHandler.GetPassenger)
		}

		// Fares and seat maps
		flights := v1.Group("/flights")
		{
			flights.GET("/:flightId/fare", flightSeatHandler.GetFareQuote)
			flights.POST("/:flightId/seats", flightSeatHandler.InitializeSeats)
			flights.GET("/:flightId/seats", flightSeatHandler.GetSeatMap)
			flights.GET("/:flightId/seats/summary", flightSeatHandler.GetSeatSummary)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
		} else {
			status := c.Writer.Status()
			if status >= 500 {
				entry.Error("Request completed with server error")
			} else if status >= 400 {
				entry.Warn("Request completed with client error")
			} else {
				entry.Info("Request completed successfully")
			}
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
