package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MarkoPoloResearchLab/innkeeper/internal/oplog"
	"github.com/MarkoPoloResearchLab/innkeeper/pkg/hotel"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Config wires the HTTP facade to the hotel service.
type Config struct {
	Service        *hotel.Service
	Logger         *zap.Logger
	AllowedOrigins []string
	// Metrics and Gatherer are optional; /metrics is served only when Gatherer is set.
	Metrics  *oplog.Metrics
	Gatherer prometheus.Gatherer
}

// NewRouter builds the gin engine serving the hotel API.
func NewRouter(cfg Config) (*gin.Engine, error) {
	if cfg.Service == nil {
		return nil, fmt.Errorf("httpapi: service is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	handler := &httpHandler{service: cfg.Service, logger: logger}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestObserver(logger, cfg.Metrics))
	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "Origin", "Accept"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")

	api.GET("/rooms", handler.handleListRooms)
	api.POST("/rooms", handler.handleCreateRoom)
	api.GET("/rooms/available", handler.handleAvailableRooms)
	api.GET("/rooms/:id", handler.handleGetRoom)
	api.PUT("/rooms/:id", handler.handleUpdateRoom)
	api.DELETE("/rooms/:id", handler.handleDeleteRoom)

	api.GET("/guests", handler.handleListGuests)
	api.POST("/guests", handler.handleCreateGuest)
	api.GET("/guests/:id", handler.handleGetGuest)
	api.PUT("/guests/:id", handler.handleUpdateGuest)
	api.DELETE("/guests/:id", handler.handleDeleteGuest)
	api.GET("/guests/:id/history", handler.handleGuestHistory)

	api.POST("/availability", handler.handleCheckAvailability)
	api.POST("/pricing/quote", handler.handleQuote)

	api.GET("/bookings", handler.handleListBookings)
	api.POST("/bookings", handler.handleCreateBooking)
	api.GET("/bookings/:id", handler.handleGetBooking)
	api.PUT("/bookings/:id", handler.handleUpdateBooking)
	api.DELETE("/bookings/:id", handler.handleDeleteBooking)
	api.POST("/bookings/:id/check-in", handler.handleTransition(cfg.Service.CheckIn))
	api.POST("/bookings/:id/check-out", handler.handleTransition(cfg.Service.CheckOut))
	api.POST("/bookings/:id/cancel", handler.handleTransition(cfg.Service.CancelBooking))
	api.GET("/bookings/:id/payments", handler.handleListPayments)

	api.POST("/payments", handler.handleApplyPayment)

	api.GET("/dashboard", handler.handleDashboard)

	return router, nil
}

// Run serves handler on listenAddr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, listenAddr string, shutdownTimeout time.Duration, handler http.Handler, logger *zap.Logger) error {
	server := &http.Server{
		Addr:              listenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("hoteld listening", zap.String("addr", listenAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Warn("server shutdown error", zap.Error(shutdownErr))
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func requestObserver(logger *zap.Logger, metrics *oplog.Metrics) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		started := time.Now()
		ctx.Next()
		elapsed := time.Since(started)
		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := ctx.Writer.Status()
		if metrics != nil {
			metrics.ObserveHTTPRequest(ctx.Request.Method, route, status, elapsed)
		}
		logger.Debug("http request",
			zap.String("method", ctx.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
		)
	}
}

type httpHandler struct {
	service *hotel.Service
	logger  *zap.Logger
}
