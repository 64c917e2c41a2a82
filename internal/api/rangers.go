package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetRangerPositions handles GET /api/v1/rangers/positions. When the
// ranger positions feature is disabled an empty list is returned; the
// map overlay simply stays empty.
func (c *Controller) GetRangerPositions(ctx echo.Context) error {
	positions, err := c.svc.FetchRangerPositions(ctx.Request().Context())
	if err != nil {
		return c.HandleError(ctx, err, "failed to fetch ranger positions", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, positions)
}
