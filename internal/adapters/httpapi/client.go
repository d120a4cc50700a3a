// Package httpapi implements ports.MapService over the dashboard backend's
// HTTP API. Request and response shapes follow the server contract
// field-for-field; this adapter does no reconciliation of its own.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/bluefin-labs/vesselsync/internal/domain"
	"github.com/bluefin-labs/vesselsync/internal/ports"
)

const (
	mapDataEndpoint   = "/api/mapdata/"
	zoneEndpoint      = "/api/zone-definition"
	vesselsEndpoint   = "/api/boats"
	toggleEndpoint    = "/api/valve/toggle/"
	openEndpoint      = "/api/valve/open"
	randomiseEndpoint = "/api/boats/randomise/"
	historyEndpoint   = "/api/history"
)

// StatusError reports a non-2xx response with the server's error message.
type StatusError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to the dashboard backend.
type Client struct {
	client ports.HTTPClient
	logger ports.Logger

	mu   sync.RWMutex
	base string
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, client ports.HTTPClient, logger ports.Logger) *Client {
	return &Client{
		base:   strings.TrimRight(baseURL, "/"),
		client: client,
		logger: logger,
	}
}

// BaseURL returns the current backend base URL.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.base
}

// SetBaseURL repoints the client at a different backend. Safe to call while
// requests are in flight; they complete against the old URL.
func (c *Client) SetBaseURL(baseURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.base = strings.TrimRight(baseURL, "/")
}

// mapDataPayload mirrors GET /api/mapdata/{datasetKey}.
type mapDataPayload struct {
	Land   *string         `json:"land"`
	Buffer *string         `json:"buffer"`
	Boats  []domain.Vessel `json:"boats"`
	Center []float64       `json:"center"`
	Zoom   *int            `json:"zoom"`
	Errors []string        `json:"errors"`
}

// FetchSnapshot retrieves the full map payload for a dataset.
func (c *Client) FetchSnapshot(ctx context.Context, datasetKey string) (domain.Snapshot, error) {
	var payload mapDataPayload
	if err := c.get(ctx, mapDataEndpoint+datasetKey, &payload); err != nil {
		return domain.Snapshot{}, fmt.Errorf("fetch map data: %w", err)
	}

	snap := domain.Snapshot{
		Vessels:  payload.Boats,
		Warnings: payload.Errors,
	}
	if payload.Land != nil {
		snap.Land = *payload.Land
	}
	if payload.Buffer != nil {
		snap.Zone = *payload.Buffer
	}
	if len(payload.Center) == 2 {
		snap.Center = &domain.LatLng{Lat: payload.Center[0], Lng: payload.Center[1]}
	}
	if payload.Zoom != nil {
		snap.Zoom = *payload.Zoom
	}
	return snap, nil
}

// zonePayload mirrors GET /api/zone-definition.
type zonePayload struct {
	Type    string `json:"type"`
	Data    string `json:"data"`
	Message string `json:"message"`
}

// FetchZone retrieves the standalone zone definition. The server reports
// calculation failures as an error-typed payload, which is returned as a
// ZoneGeometry value rather than a Go error.
func (c *Client) FetchZone(ctx context.Context) (domain.ZoneGeometry, error) {
	resp, err := c.do(ctx, http.MethodGet, zoneEndpoint, nil)
	if err != nil {
		return domain.ZoneGeometry{}, fmt.Errorf("fetch zone definition: %w", err)
	}
	defer resp.Body.Close()

	// The error descriptor arrives with a non-2xx status but is still the
	// documented payload shape; decode before deciding.
	var payload zonePayload
	if derr := json.NewDecoder(resp.Body).Decode(&payload); derr == nil && payload.Type != "" {
		return domain.ZoneGeometry(payload), nil
	}
	if resp.StatusCode/100 != 2 {
		return domain.ZoneGeometry{}, &StatusError{StatusCode: resp.StatusCode}
	}
	return domain.ZoneGeometry{}, fmt.Errorf("fetch zone definition: unrecognized payload")
}

// FetchVessels retrieves the current vessel list.
func (c *Client) FetchVessels(ctx context.Context) ([]domain.Vessel, error) {
	var vessels []domain.Vessel
	if err := c.get(ctx, vesselsEndpoint, &vessels); err != nil {
		return nil, fmt.Errorf("fetch vessels: %w", err)
	}
	return vessels, nil
}

// toggleResponse mirrors POST /api/valve/toggle/{id}.
type toggleResponse struct {
	BoatID    int64  `json:"boatId"`
	ValveOpen bool   `json:"valveOpen"`
	Message   string `json:"message"`
}

// ToggleValve flips one vessel's valve and returns the server-confirmed state.
func (c *Client) ToggleValve(ctx context.Context, vesselID int64) (domain.ToggleResult, error) {
	var payload toggleResponse
	path := toggleEndpoint + strconv.FormatInt(vesselID, 10)
	if err := c.post(ctx, path, nil, &payload); err != nil {
		return domain.ToggleResult{}, fmt.Errorf("toggle valve: %w", err)
	}
	return domain.ToggleResult{VesselID: vesselID, ValveOpen: payload.ValveOpen}, nil
}

// openRequest mirrors the POST /api/valve/open body.
type openRequest struct {
	BoatID int64   `json:"boatId"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
}

// openResponse mirrors POST /api/valve/open.
type openResponse struct {
	Message string               `json:"message"`
	Log     *domain.HistoryEntry `json:"log"`
}

// ReportValveOpen reports an explicit valve-open event at a position.
func (c *Client) ReportValveOpen(ctx context.Context, vesselID int64, pos domain.LatLng) (domain.OpenReport, error) {
	req := openRequest{BoatID: vesselID, Lat: pos.Lat, Lng: pos.Lng}
	var payload openResponse
	if err := c.post(ctx, openEndpoint, req, &payload); err != nil {
		return domain.OpenReport{}, fmt.Errorf("report valve open: %w", err)
	}
	return domain.OpenReport{Message: payload.Message, Log: payload.Log}, nil
}

// RandomiseVessels regenerates the vessel set for a dataset server-side.
// The success payload is opaque and discarded.
func (c *Client) RandomiseVessels(ctx context.Context, datasetKey string) error {
	if err := c.post(ctx, randomiseEndpoint+datasetKey, nil, nil); err != nil {
		return fmt.Errorf("randomise vessels: %w", err)
	}
	return nil
}

// FetchHistory retrieves the complete audit log in server order.
func (c *Client) FetchHistory(ctx context.Context) ([]domain.HistoryEntry, error) {
	var entries []domain.HistoryEntry
	if err := c.get(ctx, historyEndpoint, &entries); err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	return entries, nil
}

// get issues a GET and decodes a 2xx JSON body into out.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.decode(resp, out)
}

// post issues a POST with an optional JSON body and decodes a 2xx JSON
// response into out when out is non-nil.
func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}
	resp, err := c.do(ctx, http.MethodPost, path, reader)
	if err != nil {
		return err
	}
	return c.decode(resp, out)
}

// do builds and executes one request, tagging it with a correlation id.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	url := c.BaseURL() + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("api request",
		ports.String("method", method),
		ports.String("path", path),
		ports.String("request_id", requestID),
	)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	return resp, nil
}

// decode consumes the response body: a non-2xx status becomes a StatusError
// carrying the server-reported message, a 2xx body is decoded into out.
func (c *Client) decode(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return &StatusError{
			StatusCode: resp.StatusCode,
			Message:    serverMessage(resp.Body),
		}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// serverMessage extracts the error message from a non-2xx body. The backend
// uses a different key per endpoint (description, message, error); take the
// first non-empty one.
func serverMessage(body io.Reader) string {
	var payload struct {
		Description string `json:"description"`
		Message     string `json:"message"`
		Error       string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return ""
	}
	for _, m := range []string{payload.Description, payload.Message, payload.Error} {
		if m != "" {
			return m
		}
	}
	return ""
}
