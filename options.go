package vesselsync

import (
	"github.com/bluefin-labs/vesselsync/internal/app"
	"github.com/bluefin-labs/vesselsync/internal/domain"
	"github.com/bluefin-labs/vesselsync/internal/ports"
)

// Re-exported types for convenient access without importing internals.
type (
	// Vessel is a tracked vessel's last-known display state.
	Vessel = domain.Vessel

	// LatLng is a WGS84 coordinate pair.
	LatLng = domain.LatLng

	// ZoneGeometry is the zone payload or a server error descriptor.
	ZoneGeometry = domain.ZoneGeometry

	// HistoryEntry is one valve-open audit record.
	HistoryEntry = domain.HistoryEntry

	// ToggleResult is the server's acknowledgement of a valve toggle.
	ToggleResult = domain.ToggleResult

	// OpenReport is the server's acknowledgement of a valve-open report.
	OpenReport = domain.OpenReport

	// Popup is the structured popup view-model for a vessel marker.
	Popup = domain.Popup

	// Logger is the structured logging interface.
	Logger = ports.Logger

	// Field is a structured log field.
	Field = ports.Field

	// HTTPClient abstracts HTTP request execution. *http.Client satisfies it.
	HTTPClient = ports.HTTPClient

	// MarkerRenderer draws vessel markers.
	MarkerRenderer = ports.MarkerRenderer

	// MarkerHandle is an opaque marker reference owned by the registry.
	MarkerHandle = ports.MarkerHandle

	// ZoneSurface draws the polygon layers.
	ZoneSurface = ports.ZoneSurface

	// Viewport repositions the visible map area.
	Viewport = ports.Viewport

	// StatusSink displays the loading/error banners.
	StatusSink = ports.StatusSink

	// HistoryView displays the audit log.
	HistoryView = ports.HistoryView

	// Surfaces bundles the rendering ports one map view exposes.
	Surfaces = app.Surfaces
)

// Option configures optional behavior of a Session.
type Option func(*options)

// options holds the optional configuration for a Session.
type options struct {
	httpClient   ports.HTTPClient
	logger       ports.Logger
	surfaces     *app.Surfaces
	eventHandler EventHandler
}

// WithHTTPClient sets a custom HTTP client for API communication.
// If not provided, a default client with the configured timeout is used.
func WithHTTPClient(client HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSurfaces sets the rendering surfaces the session draws on.
// If not provided, a logger-backed console surface is used.
func WithSurfaces(surfaces Surfaces) Option {
	return func(o *options) {
		o.surfaces = &surfaces
	}
}

// WithEventHandler sets a handler for session events.
// If not provided, no events are emitted.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}
