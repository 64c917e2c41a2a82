package datasource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wildwatch/wildwatch-go/internal/alert"
	"github.com/wildwatch/wildwatch-go/internal/errors"
	"github.com/wildwatch/wildwatch-go/internal/httpclient"
)

// LiveSource talks to the live detection backend over HTTP. Transport
// failures surface as typed categories so the alert service can apply
// its fallback policy without ever inspecting message text.
type LiveSource struct {
	baseURL string
	client  *httpclient.Client
}

// NewLiveSource creates a live source for the given base URL. The client
// may be nil, in which case a default one is constructed.
func NewLiveSource(baseURL string, client *httpclient.Client) *LiveSource {
	if client == nil {
		client = httpclient.New(nil)
	}
	return &LiveSource{baseURL: baseURL, client: client}
}

// FetchDetections fetches recent detections from GET /detections/.
func (l *LiveSource) FetchDetections(ctx context.Context, q DetectionQuery) ([]alert.Detection, error) {
	endpoint := l.baseURL + "/detections/"
	if q.Limit > 0 {
		endpoint += "?limit=" + strconv.Itoa(q.Limit)
	}

	var list alert.DetectionList
	if err := l.getJSON(ctx, endpoint, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// FetchAlerts fetches alerts from GET /alerts with limit and status
// query parameters.
func (l *LiveSource) FetchAlerts(ctx context.Context, q AlertQuery) (alert.RawAlertList, error) {
	params := url.Values{}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultAlertLimit
	}
	params.Set("limit", strconv.Itoa(limit))
	if q.Status != "" {
		params.Set("status", string(q.Status))
	}

	var list alert.RawAlertList
	if err := l.getJSON(ctx, l.baseURL+"/alerts?"+params.Encode(), &list); err != nil {
		return nil, err
	}
	return list, nil
}

// FetchAlertByID fetches a single alert from GET /alerts/{id}. A 404
// here means the record does not exist, not an unimplemented endpoint,
// so it classifies as not-found and is never substituted with mock data.
func (l *LiveSource) FetchAlertByID(ctx context.Context, id string) (*alert.RawAlert, error) {
	endpoint := l.baseURL + "/alerts/" + url.PathEscape(id)

	resp, err := l.client.Get(ctx, endpoint)
	if err != nil {
		return nil, l.unreachable("fetch alert", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.NotFoundError("alert", id)
	}
	if resp.StatusCode >= 400 {
		return nil, l.statusError("fetch alert", resp.StatusCode)
	}

	var raw alert.RawAlert
	if err := decodeBody(resp.Body, &raw); err != nil {
		return nil, l.decodeError("fetch alert", err)
	}
	return &raw, nil
}

// CreateAlert posts a trigger payload to POST /alerts/trigger and
// returns the stored raw alert.
func (l *LiveSource) CreateAlert(ctx context.Context, payload *alert.TriggerPayload) (*alert.RawAlert, error) {
	resp, err := l.client.Post(ctx, l.baseURL+"/alerts/trigger", "application/json", payload)
	if err != nil {
		return nil, l.unreachable("create alert", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, l.statusError("create alert", resp.StatusCode)
	}

	var raw alert.RawAlert
	if err := decodeBody(resp.Body, &raw); err != nil {
		return nil, l.decodeError("create alert", err)
	}
	return &raw, nil
}

// UpdateAlert patches an alert's status via PATCH /alerts/{id}/status.
func (l *LiveSource) UpdateAlert(ctx context.Context, id string, update *alert.StatusUpdate) (*alert.RawAlert, error) {
	endpoint := l.baseURL + "/alerts/" + url.PathEscape(id) + "/status"

	body, err := json.Marshal(update)
	if err != nil {
		return nil, errors.New(fmt.Errorf("failed to marshal status update: %w", err)).
			Component("datasource").
			Category(errors.CategoryDataSource).
			Build()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.New(fmt.Errorf("failed to create PATCH request: %w", err)).
			Component("datasource").
			Category(errors.CategoryDataSource).
			Build()
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(ctx, req)
	if err != nil {
		return nil, l.unreachable("update alert", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.NotFoundError("alert", id)
	}
	if resp.StatusCode >= 400 {
		return nil, l.statusError("update alert", resp.StatusCode)
	}

	var raw alert.RawAlert
	if err := decodeBody(resp.Body, &raw); err != nil {
		return nil, l.decodeError("update alert", err)
	}
	return &raw, nil
}

// FetchRangerPositions fetches GET /rangers/positions.
func (l *LiveSource) FetchRangerPositions(ctx context.Context) ([]alert.RangerPosition, error) {
	var list alert.RangerPositionList
	if err := l.getJSON(ctx, l.baseURL+"/rangers/positions", &list); err != nil {
		return nil, err
	}

	positions := make([]alert.RangerPosition, 0, len(list))
	for i := range list {
		positions = append(positions, list[i].Position())
	}
	return positions, nil
}

// UploadImage posts a camera-trap image to POST /upload/ (multipart) and
// returns the detections the backend derived from it. This is the
// detection-creation side channel, not part of the alert contract.
func (l *LiveSource) UploadImage(ctx context.Context, fileName string, file io.Reader, gpsLat, gpsLng float64) ([]alert.Detection, error) {
	fields := map[string]string{
		"gps_lat": strconv.FormatFloat(gpsLat, 'f', -1, 64),
		"gps_lng": strconv.FormatFloat(gpsLng, 'f', -1, 64),
	}

	resp, err := l.client.PostMultipart(ctx, l.baseURL+"/upload/", "file", fileName, file, fields)
	if err != nil {
		return nil, l.unreachable("upload image", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, l.statusError("upload image", resp.StatusCode)
	}

	var list alert.DetectionList
	if err := decodeBody(resp.Body, &list); err != nil {
		return nil, l.decodeError("upload image", err)
	}
	return list, nil
}

// getJSON performs a GET and decodes the response into out, classifying
// failures into transport categories.
func (l *LiveSource) getJSON(ctx context.Context, endpoint string, out any) error {
	resp, err := l.client.Get(ctx, endpoint)
	if err != nil {
		return l.unreachable("get", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return l.statusError("get", resp.StatusCode)
	}

	if err := decodeBody(resp.Body, out); err != nil {
		return l.decodeError("get", err)
	}
	return nil
}

// unreachable wraps a no-response transport failure.
func (l *LiveSource) unreachable(op string, err error) error {
	dsLogger.Warn("backend unreachable", "operation", op, "error", err)
	return errors.New(fmt.Errorf("backend unreachable during %s: %w", op, err)).
		Component("datasource").
		Category(errors.CategoryTransportUnreachable).
		Priority(errors.PriorityHigh).
		Context("operation", op).
		Build()
}

// statusError wraps a backend failure status into its transport category.
func (l *LiveSource) statusError(op string, status int) error {
	category := errors.ClassifyHTTPStatus(status)
	dsLogger.Warn("backend returned error status",
		"operation", op, "status", status, "category", category)
	return errors.Newf("backend returned status %d during %s", status, op).
		Component("datasource").
		Category(category).
		Context("operation", op).
		Context("status", status).
		Build()
}

// decodeError wraps a malformed-body failure. Decode failures are not
// fallback-eligible: the backend responded, it just responded garbage.
func (l *LiveSource) decodeError(op string, err error) error {
	return errors.New(fmt.Errorf("failed to decode backend response during %s: %w", op, err)).
		Component("datasource").
		Category(errors.CategoryDataSource).
		Context("operation", op).
		Build()
}

func decodeBody(body io.Reader, out any) error {
	return json.NewDecoder(body).Decode(out)
}
