package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/wildwatch/wildwatch-go/internal/alert"
	"github.com/wildwatch/wildwatch-go/internal/datasource"
)

// triggerRequest is the body for POST /alerts/trigger. The detection is
// required; every other field overrides a derived value.
type triggerRequest struct {
	Detection *alert.Detection `json:"detection"`
	Type      alert.Type       `json:"type,omitempty"`
	Severity  alert.Severity   `json:"severity,omitempty"`
	Source    alert.Source     `json:"source,omitempty"`
	Notes     string           `json:"notes,omitempty"`
	ZoneLabel *string          `json:"zoneLabel,omitempty"`
	CreatedBy string           `json:"createdBy,omitempty"`
}

// GetAlerts handles GET /api/v1/alerts.
func (c *Controller) GetAlerts(ctx echo.Context) error {
	q := datasource.AlertQuery{
		Status: alert.Status(ctx.QueryParam("status")),
	}
	if raw := ctx.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return c.HandleError(ctx, echo.NewHTTPError(http.StatusBadRequest),
				"invalid limit parameter", http.StatusBadRequest)
		}
		q.Limit = limit
	}

	alerts, err := c.svc.FetchAlerts(ctx.Request().Context(), q)
	if err != nil {
		return c.HandleError(ctx, err, "failed to fetch alerts", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, alerts)
}

// GetAlert handles GET /api/v1/alerts/:id.
func (c *Controller) GetAlert(ctx echo.Context) error {
	a, err := c.svc.FetchAlertByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return c.HandleError(ctx, err, "failed to fetch alert", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, a)
}

// TriggerAlert handles POST /api/v1/alerts/trigger.
func (c *Controller) TriggerAlert(ctx echo.Context) error {
	var req triggerRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "invalid trigger request body", http.StatusBadRequest)
	}

	ov := &alert.Overrides{
		Type:      req.Type,
		Severity:  req.Severity,
		Source:    req.Source,
		Notes:     req.Notes,
		ZoneLabel: req.ZoneLabel,
		CreatedBy: req.CreatedBy,
	}

	a, err := c.svc.TriggerAlert(ctx.Request().Context(), req.Detection, ov)
	if err != nil {
		return c.HandleError(ctx, err, "failed to trigger alert", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusCreated, a)
}

// UpdateAlertStatus handles PATCH /api/v1/alerts/:id/status.
func (c *Controller) UpdateAlertStatus(ctx echo.Context) error {
	var update alert.StatusUpdate
	if err := ctx.Bind(&update); err != nil {
		return c.HandleError(ctx, err, "invalid status update body", http.StatusBadRequest)
	}

	a, err := c.svc.UpdateAlertStatus(ctx.Request().Context(), ctx.Param("id"), &update)
	if err != nil {
		return c.HandleError(ctx, err, "failed to update alert status", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, a)
}
