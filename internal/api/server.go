package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wildwatch/wildwatch-go/internal/alertservice"
	"github.com/wildwatch/wildwatch-go/internal/conf"
	"github.com/wildwatch/wildwatch-go/internal/notifier"
)

// Server owns the echo instance serving the dashboard API plus the
// operational endpoints (health, metrics).
type Server struct {
	Echo       *echo.Echo
	Controller *Controller

	settings *conf.Settings
}

// NewServer builds a fully routed HTTP server. The registry may be nil
// when metrics exposure is not wanted.
func NewServer(settings *conf.Settings, svc *alertservice.Service, queue *notifier.Queue, registry *prometheus.Registry) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	if settings.WebServer.Debug {
		e.Use(middleware.Logger())
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"status":        "ok",
			"use_mock_data": settings.UseMockData,
		})
	})

	if registry != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	return &Server{
		Echo:       e,
		Controller: New(e, svc, queue, settings.WebServer.Debug),
		settings:   settings,
	}
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	addr := ":" + s.settings.WebServer.Port
	apiLogger.Info("http server starting", "addr", addr)

	err := s.Echo.Start(addr)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.Echo.Shutdown(ctx)
}
