package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wildwatch/wildwatch-go/internal/alertservice"
	"github.com/wildwatch/wildwatch-go/internal/errors"
)

type featureUpdateRequest struct {
	Enabled bool `json:"enabled"`
}

// GetFeatures handles GET /api/v1/features.
func (c *Controller) GetFeatures(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.svc.Flags().Snapshot())
}

// SetFeature handles PUT /api/v1/features/:name, switching a feature at
// runtime. Unknown feature names are rejected.
func (c *Controller) SetFeature(ctx echo.Context) error {
	var req featureUpdateRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "invalid feature update body", http.StatusBadRequest)
	}

	name := alertservice.Feature(ctx.Param("name"))
	if !c.svc.Flags().Set(name, req.Enabled) {
		return c.HandleError(ctx,
			errors.ValidationError("unknown feature "+string(name)),
			"unknown feature", http.StatusBadRequest)
	}
	return ctx.JSON(http.StatusOK, c.svc.Flags().Snapshot())
}
