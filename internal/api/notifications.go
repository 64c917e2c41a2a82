package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetNotifications handles GET /api/v1/notifications, returning the
// currently queued transient notifications, oldest first.
func (c *Controller) GetNotifications(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.queue.List())
}

// DismissNotification handles DELETE /api/v1/notifications/:id. Removal
// is idempotent; dismissing an already-expired notification succeeds.
func (c *Controller) DismissNotification(ctx echo.Context) error {
	c.queue.RemoveAlert(ctx.Param("id"))
	return ctx.NoContent(http.StatusNoContent)
}
