// Package api exposes the alert lifecycle over HTTP for the dashboard.
// Routes live under /api/v1 and return camelCase JSON produced by the
// normalization layer, so every response shape is total regardless of
// which provider served it.
package api

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/wildwatch/wildwatch-go/internal/alertservice"
	"github.com/wildwatch/wildwatch-go/internal/errors"
	"github.com/wildwatch/wildwatch-go/internal/logging"
	"github.com/wildwatch/wildwatch-go/internal/notifier"
)

// Package-level logger for API requests
var (
	apiLogger   *slog.Logger
	apiLevelVar = new(slog.LevelVar)
)

func init() {
	var err error
	apiLevelVar.Set(slog.LevelInfo)

	apiLogger, _, err = logging.NewFileLogger("logs/api.log", "api", apiLevelVar)
	if err != nil {
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: apiLevelVar})
		apiLogger = slog.New(fbHandler).With("service", "api")
	}
}

// Controller registers and serves the dashboard API routes.
type Controller struct {
	Echo  *echo.Echo
	Group *echo.Group

	svc   *alertservice.Service
	queue *notifier.Queue
}

// New creates the API controller and mounts all routes on e.
func New(e *echo.Echo, svc *alertservice.Service, queue *notifier.Queue, debug bool) *Controller {
	if debug {
		apiLevelVar.Set(slog.LevelDebug)
	}

	c := &Controller{
		Echo:  e,
		Group: e.Group("/api/v1"),
		svc:   svc,
		queue: queue,
	}

	c.Group.Use(middleware.Recover())
	c.initRoutes()
	return c
}

func (c *Controller) initRoutes() {
	// Detections
	c.Group.GET("/detections", c.GetDetections)
	c.Group.POST("/upload", c.UploadImage)

	// Alert lifecycle
	c.Group.GET("/alerts", c.GetAlerts)
	c.Group.GET("/alerts/:id", c.GetAlert)
	c.Group.POST("/alerts/trigger", c.TriggerAlert)
	c.Group.PATCH("/alerts/:id/status", c.UpdateAlertStatus)

	// Ranger overlay
	c.Group.GET("/rangers/positions", c.GetRangerPositions)

	// Transient notifications
	c.Group.GET("/notifications", c.GetNotifications)
	c.Group.DELETE("/notifications/:id", c.DismissNotification)

	// Runtime feature flags
	c.Group.GET("/features", c.GetFeatures)
	c.Group.PUT("/features/:name", c.SetFeature)
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Code          int    `json:"code"`
	CorrelationID string `json:"correlationId"`
}

// HandleError translates domain errors into HTTP responses using the
// error category, falling back to the provided default status.
func (c *Controller) HandleError(ctx echo.Context, err error, message string, defaultCode int) error {
	code := defaultCode
	component := errors.ComponentUnknown
	priority := ""

	var ee *errors.EnhancedError
	if errors.As(err, &ee) {
		component = ee.GetComponent()
		priority = ee.GetPriority()
		switch errors.ErrorCategory(ee.GetCategory()) {
		case errors.CategoryValidation:
			code = http.StatusBadRequest
		case errors.CategoryFeatureDisabled:
			code = http.StatusForbidden
		case errors.CategoryNotFound:
			code = http.StatusNotFound
		case errors.CategoryTransportUnreachable, errors.CategoryTransportServer,
			errors.CategoryTransportNotImplemented:
			code = http.StatusBadGateway
		}
	}

	correlationID := generateCorrelationID()
	attrs := []any{
		"error", err,
		"component", component,
		"code", code,
		"path", ctx.Request().URL.Path,
		"correlation_id", correlationID,
	}
	if priority != "" {
		attrs = append(attrs, "priority", priority)
	}
	apiLogger.Error(message, attrs...)

	return ctx.JSON(code, ErrorResponse{
		Error:         err.Error(),
		Message:       message,
		Code:          code,
		CorrelationID: correlationID,
	})
}

// generateCorrelationID creates a short random ID for correlating error
// responses with log entries.
func generateCorrelationID() string {
	return uuid.NewString()[:8]
}
