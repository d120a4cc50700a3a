package app

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/bluefin-labs/vesselsync/internal/domain"
	"github.com/bluefin-labs/vesselsync/internal/ports"
)

// SessionConfig contains configuration for a sync session.
type SessionConfig struct {
	// PollInterval is the vessel refresh cadence in Run.
	PollInterval time.Duration

	// HistoryInterval is the audit log refresh cadence in Run.
	HistoryInterval time.Duration
}

// Surfaces bundles the rendering ports one map view exposes.
type Surfaces struct {
	Markers  ports.MarkerRenderer
	Zone     ports.ZoneSurface
	Viewport ports.Viewport
	Status   ports.StatusSink
	History  ports.HistoryView
}

// SessionEvents receives component event notifications. Any may be ignored;
// a nil handler disables events entirely.
type SessionEvents interface {
	LoadEventEmitter
	ToggleEventEmitter
	HistoryEventEmitter
}

// Session owns one map view's synchronization state: the registry, the zone
// renderer, the loader, the valve controller, and the history feed, with an
// explicit create/reset lifecycle instead of ambient globals. All state
// mutation flows through these components; rendering surfaces only observe.
type Session struct {
	service ports.MapService
	logger  ports.Logger

	status   *UiStatus
	registry *VesselRegistry
	zone     *ZoneRenderer
	loader   *MapDataLoader
	valves   *ValveController
	history  *HistoryFeed

	pollInterval    atomic.Int64
	historyInterval atomic.Int64
}

// NewSession wires the synchronization components over the given service and
// surfaces. events may be nil.
func NewSession(cfg SessionConfig, service ports.MapService, surfaces Surfaces, logger ports.Logger, events SessionEvents) *Session {
	s := &Session{
		service: service,
		logger:  logger,
	}
	s.status = NewUiStatus(surfaces.Status)
	s.registry = NewVesselRegistry(surfaces.Markers, logger)
	s.zone = NewZoneRenderer(surfaces.Zone, s.status, logger)

	var loadEvents LoadEventEmitter
	var toggleEvents ToggleEventEmitter
	var historyEvents HistoryEventEmitter
	if events != nil {
		loadEvents = events
		toggleEvents = events
		historyEvents = events
	}

	s.history = NewHistoryFeed(service, surfaces.History, logger, historyEvents)
	s.loader = NewMapDataLoader(service, s.registry, s.zone, surfaces.Zone, surfaces.Viewport, s.status, logger, loadEvents)
	s.valves = NewValveController(service, s.registry, s.status, s.history, logger, toggleEvents)

	s.SetIntervals(cfg.PollInterval, cfg.HistoryInterval)
	return s
}

// LoadDataset loads and applies the full snapshot for a dataset.
func (s *Session) LoadDataset(ctx context.Context, datasetKey string) error {
	return s.loader.Load(ctx, datasetKey)
}

// RefreshVessels replaces the registry from the standalone vessel list.
func (s *Session) RefreshVessels(ctx context.Context) error {
	vessels, err := s.service.FetchVessels(ctx)
	if err != nil {
		s.status.ShowError("Failed to refresh vessels: " + err.Error())
		return err
	}
	s.registry.ReplaceAll(vessels)
	return nil
}

// RefreshZone replaces the zone from the standalone zone definition.
func (s *Session) RefreshZone(ctx context.Context) error {
	zone, err := s.service.FetchZone(ctx)
	if err != nil {
		s.status.ShowError("Failed to fetch zone definition: " + err.Error())
		return err
	}
	s.zone.SetZone(zone)
	return nil
}

// RefreshHistory replaces the audit log view.
func (s *Session) RefreshHistory(ctx context.Context) error {
	return s.history.Refresh(ctx)
}

// Toggle flips one vessel's valve through the single-flight controller.
func (s *Session) Toggle(ctx context.Context, id int64) (domain.ToggleResult, error) {
	return s.valves.Toggle(ctx, id)
}

// ReportOpen reports an explicit valve-open event for one vessel.
func (s *Session) ReportOpen(ctx context.Context, id int64) (domain.OpenReport, error) {
	return s.valves.ReportOpen(ctx, id)
}

// Randomise regenerates the dataset's vessels server-side, then re-runs the
// full load so the display matches the new authoritative set.
func (s *Session) Randomise(ctx context.Context, datasetKey string) error {
	if datasetKey == "" {
		return domain.ErrEmptyDatasetKey
	}
	if err := s.service.RandomiseVessels(ctx, datasetKey); err != nil {
		s.status.ShowError("Failed to randomise vessels: " + err.Error())
		return err
	}
	return s.loader.Load(ctx, datasetKey)
}

// Reset destroys all display state: markers, zone, banners.
func (s *Session) Reset() {
	s.registry.Reset()
	s.zone.Clear()
	s.status.HideLoading()
	s.status.ClearError()
}

// Registry exposes the vessel registry for observation.
func (s *Session) Registry() *VesselRegistry { return s.registry }

// History exposes the history feed for observation.
func (s *Session) History() *HistoryFeed { return s.history }

// Status exposes the status owner for observation.
func (s *Session) Status() *UiStatus { return s.status }

// Loader exposes the map data loader.
func (s *Session) Loader() *MapDataLoader { return s.loader }

// Valves exposes the valve controller.
func (s *Session) Valves() *ValveController { return s.valves }

// SetIntervals updates the poll cadences. Safe to call while Run is active;
// the next iteration picks up the new values.
func (s *Session) SetIntervals(poll, history time.Duration) {
	if poll <= 0 {
		poll = 5 * time.Second
	}
	if history <= 0 {
		history = poll
	}
	s.pollInterval.Store(int64(poll))
	s.historyInterval.Store(int64(history))
}

// Run executes the pull loop: vessels every poll interval, history every
// history interval, with exponential backoff on refresh failures. Returns
// when the context is canceled.
func (s *Session) Run(ctx context.Context) error {
	back := newBackoff(DefaultBackoffInitial, DefaultBackoffMax)
	var lastHistory time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := s.RefreshVessels(ctx); err != nil {
			wait := back.Next()
			s.logger.Warn("vessel refresh failed, backing off",
				ports.Err(err),
				ports.Duration("wait", wait),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			continue
		}
		back.Reset()

		if time.Since(lastHistory) >= time.Duration(s.historyInterval.Load()) {
			if err := s.RefreshHistory(ctx); err == nil {
				lastHistory = time.Now()
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(s.pollInterval.Load())):
		}
	}
}
