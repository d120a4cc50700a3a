// Package vesselsync reconciles authoritative vessel/valve/zone state from a
// dashboard backend with an interactive, mutable map view, across overlapping
// asynchronous requests. Rendering, persistence, and geofence computation
// stay behind ports; this package owns the synchronization invariants:
// marker/registry consistency, at-most-one-in-flight toggle per vessel, and
// deterministic last-request-wins snapshot replacement.
//
// Example usage:
//
//	cfg := vesselsync.DefaultConfig()
//	cfg.BaseURL = "http://localhost:5000"
//	s, err := vesselsync.New(cfg, vesselsync.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := s.Load(ctx, "uk"); err != nil {
//	    log.Fatal(err)
//	}
//	result, err := s.Toggle(ctx, 301)
package vesselsync

import (
	"context"
	"net/http"
	"sync"

	"github.com/bluefin-labs/vesselsync/internal/adapters/console"
	"github.com/bluefin-labs/vesselsync/internal/adapters/httpapi"
	logAdapter "github.com/bluefin-labs/vesselsync/internal/adapters/log"
	"github.com/bluefin-labs/vesselsync/internal/app"
	"github.com/bluefin-labs/vesselsync/internal/domain"
	"github.com/bluefin-labs/vesselsync/internal/ports"
)

// Domain errors, re-exported for errors.Is checks.
var (
	ErrToggleInFlight  = domain.ErrToggleInFlight
	ErrUnknownVessel   = domain.ErrUnknownVessel
	ErrEmptyDatasetKey = domain.ErrEmptyDatasetKey
	ErrAlreadyRunning  = domain.ErrAlreadyRunning
	ErrNotRunning      = domain.ErrNotRunning
	ErrShutdownTimeout = domain.ErrShutdownTimeout
	ErrInvalidConfig   = domain.ErrInvalidConfig
)

// State represents the lifecycle state of a Session.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopping
	StateCrashed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateStarting:
		return "Starting"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateCrashed:
		return "Crashed"
	default:
		return "Unknown"
	}
}

// Session is a sync session over one map view. Use New() to create an
// instance; one-shot operations (Load, Toggle, RefreshHistory, ...) work
// immediately, and Start() begins the background pull loop.
type Session struct {
	config    Config
	opts      options
	lifecycle *app.Lifecycle
	inner     *app.Session
	client    *httpapi.Client
	logger    ports.Logger

	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new Session with the given configuration.
// The session is created in StateStopped; one-shot operations are available
// immediately, and Start() begins the background pull loop.
func New(cfg Config, opts ...Option) (*Session, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	o := options{httpClient: httpClient}
	for _, opt := range opts {
		opt(&o)
	}

	var logger ports.Logger
	if o.logger != nil {
		logger = o.logger
	} else {
		logger = logAdapter.NewNoopLogger()
	}

	var emitter eventEmitterWrapper
	if o.eventHandler != nil {
		emitter = eventEmitterWrapper{handler: o.eventHandler}
	}

	surfaces := defaultSurfaces(logger)
	if o.surfaces != nil {
		surfaces = *o.surfaces
	}

	client := httpapi.NewClient(cfg.BaseURL, o.httpClient, logger)
	inner := app.NewSession(app.SessionConfig{
		PollInterval:    cfg.PollInterval,
		HistoryInterval: cfg.HistoryInterval,
	}, client, surfaces, logger, &emitter)

	return &Session{
		config:    cfg,
		opts:      o,
		lifecycle: app.NewLifecycle(logger, &emitter),
		inner:     inner,
		client:    client,
		logger:    logger,
	}, nil
}

// defaultSurfaces builds the logger-backed console surfaces.
func defaultSurfaces(logger ports.Logger) app.Surfaces {
	s := console.NewSurface(logger, nil)
	return app.Surfaces{
		Markers:  s,
		Zone:     s,
		Viewport: s,
		Status:   s,
		History:  s,
	}
}

// Load fetches and applies the full snapshot for a dataset.
func (s *Session) Load(ctx context.Context, datasetKey string) error {
	return s.inner.LoadDataset(ctx, datasetKey)
}

// Toggle flips one vessel's valve. At most one toggle per vessel id is in
// flight at any time; an overlapping call returns ErrToggleInFlight.
func (s *Session) Toggle(ctx context.Context, vesselID int64) (ToggleResult, error) {
	return s.inner.Toggle(ctx, vesselID)
}

// ReportOpen reports an explicit valve-open event for one vessel.
func (s *Session) ReportOpen(ctx context.Context, vesselID int64) (OpenReport, error) {
	return s.inner.ReportOpen(ctx, vesselID)
}

// RefreshHistory replaces the audit log view with the server's current log.
func (s *Session) RefreshHistory(ctx context.Context) error {
	return s.inner.RefreshHistory(ctx)
}

// RefreshVessels replaces the registry from the standalone vessel list.
func (s *Session) RefreshVessels(ctx context.Context) error {
	return s.inner.RefreshVessels(ctx)
}

// RefreshZone replaces the zone from the standalone zone definition.
func (s *Session) RefreshZone(ctx context.Context) error {
	return s.inner.RefreshZone(ctx)
}

// Randomise regenerates a dataset's vessels server-side and reloads it.
func (s *Session) Randomise(ctx context.Context, datasetKey string) error {
	return s.inner.Randomise(ctx, datasetKey)
}

// Reset destroys all display state: markers, zone, banners.
func (s *Session) Reset() {
	s.inner.Reset()
}

// Vessels returns every tracked vessel, ordered by id.
func (s *Session) Vessels() []Vessel {
	return s.inner.Registry().All()
}

// FindVessels returns tracked vessels matching the predicate, ordered by id.
func (s *Session) FindVessels(pred func(Vessel) bool) []Vessel {
	return s.inner.Registry().Find(pred)
}

// History returns the last fetched audit log, in server order.
func (s *Session) History() []HistoryEntry {
	return s.inner.History().Entries()
}

// ApplyConfig applies settings that are safe to change at runtime: the
// backend base URL and the refresh intervals. In-flight requests complete
// against the old URL.
func (s *Session) ApplyConfig(cfg Config) {
	cfg.SetDefaults()
	s.client.SetBaseURL(cfg.BaseURL)
	s.inner.SetIntervals(cfg.PollInterval, cfg.HistoryInterval)
	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
}

// Start begins the background pull loop.
// Returns immediately after starting the loop goroutine.
// Returns an error if already running.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}
	if err := s.lifecycle.TransitionTo(app.StateStarting, "Start() called"); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.ctx = runCtx
	s.cancel = cancel
	s.lifecycle.SetCancel(cancel)

	s.lifecycle.AddWorker()
	go func() {
		defer s.lifecycle.WorkerDone()

		if err := s.lifecycle.TransitionTo(app.StateRunning, "pull loop starting"); err != nil {
			s.logger.Error("failed to transition to running", ports.Err(err))
			return
		}

		err := s.inner.Run(runCtx)
		if err != nil && err != context.Canceled {
			s.logger.Error("pull loop error", ports.Err(err))
			_ = s.lifecycle.TransitionTo(app.StateCrashed, err.Error())
		}
	}()

	return nil
}

// Stop gracefully shuts down the pull loop.
// Waits up to 30 seconds before forcing shutdown.
// Returns nil on graceful shutdown, ErrShutdownTimeout if forced.
func (s *Session) Stop() error {
	s.mu.Lock()

	if !s.lifecycle.CanStop() {
		s.mu.Unlock()
		return domain.ErrNotRunning
	}
	if err := s.lifecycle.TransitionTo(app.StateStopping, "Stop() called"); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	err := s.lifecycle.WaitWithTimeout(app.ShutdownTimeout)
	if err != nil {
		_ = s.lifecycle.TransitionTo(app.StateCrashed, "shutdown timeout")
	} else {
		_ = s.lifecycle.TransitionTo(app.StateStopped, "graceful shutdown")
	}
	return err
}

// Status returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (s *Session) Status() State {
	return convertState(s.lifecycle.State())
}

// eventEmitterWrapper adapts EventHandler to the internal emitter interfaces.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e *eventEmitterWrapper) OnStateChange(previous, current app.State, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnStateChange(StateChangeEvent{
		Previous: convertState(previous),
		Current:  convertState(current),
		Reason:   reason,
	})
}

func (e *eventEmitterWrapper) OnLoadApplied(datasetKey string, vesselCount int, warnings []string) {
	if e.handler == nil {
		return
	}
	e.handler.OnLoad(LoadEvent{
		Dataset:     datasetKey,
		VesselCount: vesselCount,
		Warnings:    warnings,
	})
}

func (e *eventEmitterWrapper) OnLoadDiscarded(datasetKey string) {
	if e.handler == nil {
		return
	}
	e.handler.OnLoad(LoadEvent{Dataset: datasetKey, Discarded: true})
}

func (e *eventEmitterWrapper) OnToggleResult(vesselID int64, valveOpen bool, err error) {
	if e.handler == nil {
		return
	}
	e.handler.OnToggle(ToggleEvent{VesselID: vesselID, ValveOpen: valveOpen, Err: err})
}

func (e *eventEmitterWrapper) OnHistoryRefreshed(entryCount int) {
	if e.handler == nil {
		return
	}
	e.handler.OnHistory(HistoryEvent{EntryCount: entryCount})
}

func convertState(s app.State) State {
	switch s {
	case app.StateStopped:
		return StateStopped
	case app.StateStarting:
		return StateStarting
	case app.StateRunning:
		return StateRunning
	case app.StateStopping:
		return StateStopping
	case app.StateCrashed:
		return StateCrashed
	default:
		return StateStopped
	}
}
