package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/wildwatch/wildwatch-go/internal/datasource"
)

// GetDetections handles GET /api/v1/detections.
func (c *Controller) GetDetections(ctx echo.Context) error {
	q := datasource.DetectionQuery{}
	if raw := ctx.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return c.HandleError(ctx, echo.NewHTTPError(http.StatusBadRequest),
				"invalid limit parameter", http.StatusBadRequest)
		}
		q.Limit = limit
	}

	dets, err := c.svc.FetchDetections(ctx.Request().Context(), q)
	if err != nil {
		return c.HandleError(ctx, err, "failed to fetch detections", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, dets)
}

// UploadImage handles POST /api/v1/upload. Accepts a multipart image with
// optional gps_lat and gps_lng form fields and returns the detections the
// backend derived from it.
func (c *Controller) UploadImage(ctx echo.Context) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return c.HandleError(ctx, err, "image file is required", http.StatusBadRequest)
	}

	gpsLat, _ := strconv.ParseFloat(ctx.FormValue("gps_lat"), 64)
	gpsLng, _ := strconv.ParseFloat(ctx.FormValue("gps_lng"), 64)

	file, err := fileHeader.Open()
	if err != nil {
		return c.HandleError(ctx, err, "failed to read uploaded image", http.StatusBadRequest)
	}
	defer func() { _ = file.Close() }()

	dets, err := c.svc.UploadImage(ctx.Request().Context(), fileHeader.Filename, file, gpsLat, gpsLng)
	if err != nil {
		return c.HandleError(ctx, err, "failed to process uploaded image", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusCreated, dets)
}
