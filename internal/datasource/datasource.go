// Package datasource provides the two interchangeable providers behind the
// alert service: a live HTTP backend and an in-memory mock snapshot. Both
// implement the same Source contract and serve the same raw shapes; the
// normalization layer above makes them indistinguishable to callers.
package datasource

import (
	"context"
	"io"
	"log/slog"

	"github.com/wildwatch/wildwatch-go/internal/alert"
	"github.com/wildwatch/wildwatch-go/internal/logging"
)

// Package-level logger for data source operations
var (
	dsLogger   *slog.Logger
	dsLevelVar = new(slog.LevelVar)
)

func init() {
	var err error
	dsLevelVar.Set(slog.LevelInfo)

	dsLogger, _, err = logging.NewFileLogger("logs/datasource.log", "datasource", dsLevelVar)
	if err != nil {
		// Fallback to a disabled logger that still respects the level var
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: dsLevelVar})
		dsLogger = slog.New(fbHandler).With("service", "datasource")
	}
}

// DetectionQuery filters a detection fetch.
type DetectionQuery struct {
	Limit int
}

// AlertQuery filters an alert list fetch.
type AlertQuery struct {
	Status alert.Status
	Limit  int
}

// DefaultAlertLimit caps alert list responses when the caller does not
// specify a limit.
const DefaultAlertLimit = 50

// Source is the contract implemented identically by the live and mock
// providers. All calls are context-aware; an in-flight call cannot be
// aborted once the transport has committed, only its result ignored.
type Source interface {
	// FetchDetections returns recent detections, newest first.
	FetchDetections(ctx context.Context, q DetectionQuery) ([]alert.Detection, error)

	// FetchAlerts returns raw alerts matching the query, newest first.
	FetchAlerts(ctx context.Context, q AlertQuery) (alert.RawAlertList, error)

	// FetchAlertByID returns the raw alert with the given ID, or a
	// not-found error.
	FetchAlertByID(ctx context.Context, id string) (*alert.RawAlert, error)

	// CreateAlert stores a new alert built from the payload and returns
	// the stored raw record.
	CreateAlert(ctx context.Context, payload *alert.TriggerPayload) (*alert.RawAlert, error)

	// UpdateAlert applies a status update to an existing alert and
	// returns the updated raw record, or a not-found error.
	UpdateAlert(ctx context.Context, id string, update *alert.StatusUpdate) (*alert.RawAlert, error)

	// FetchRangerPositions returns the current ranger position snapshot.
	FetchRangerPositions(ctx context.Context) ([]alert.RangerPosition, error)
}
