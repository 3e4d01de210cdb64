package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/opulencedeveloper/hotelsuite/internal/api/middleware"
)

// Server represents the API server
type Server struct {
	echo *echo.Echo
	port int
}

// NewServer creates a new API server with the payment routes registered.
func NewServer(port int, payments *PaymentHandler) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	server := &Server{
		echo: e,
		port: port,
	}

	server.setupRoutes(payments)

	return server
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes(payments *PaymentHandler) {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	payment := s.echo.Group("/payment", middleware.RateLimit(rate.Limit(5), 10))
	payment.POST("/initiate", payments.InitiatePayment)
	payment.GET("/plans", payments.ListPlans)
}

// Start begins the API server and blocks until an interrupt, then shuts
// down gracefully.
func (s *Server) Start() error {
	go func() {
		if err := s.echo.Start(fmt.Sprintf(":%d", s.port)); err != nil && err != http.ErrServerClosed {
			s.echo.Logger.Fatal("shutting down the server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.echo.Shutdown(ctx)
}
