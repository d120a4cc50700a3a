package app

import (
	"context"
	"sync"

	"github.com/bluefin-labs/vesselsync/internal/domain"
	"github.com/bluefin-labs/vesselsync/internal/ports"
)

// LoadEventEmitter is notified after a snapshot load attempt completes.
type LoadEventEmitter interface {
	OnLoadApplied(datasetKey string, vesselCount int, warnings []string)
	OnLoadDiscarded(datasetKey string)
}

// MapDataLoader fetches the full snapshot for a dataset and drives the
// zone/registry/viewport replacement.
//
// Overlapping loads are neither queued nor cancelled: both run to completion.
// Each load is stamped with a monotonically increasing sequence number when
// it starts, and a response is applied only if its sequence is the highest
// applied so far. That turns the raw last-to-resolve-wins race into
// deterministic last-request-wins, with stale responses discarded whole —
// never half-applied.
type MapDataLoader struct {
	service  ports.MapService
	registry *VesselRegistry
	zone     *ZoneRenderer
	surface  ports.ZoneSurface
	viewport ports.Viewport
	status   *UiStatus
	logger   ports.Logger
	emitter  LoadEventEmitter

	mu         sync.Mutex
	nextSeq    uint64
	appliedSeq uint64
}

// NewMapDataLoader creates a loader replacing state through the given
// components. viewport may be nil when the surface has no movable view.
func NewMapDataLoader(
	service ports.MapService,
	registry *VesselRegistry,
	zone *ZoneRenderer,
	surface ports.ZoneSurface,
	viewport ports.Viewport,
	status *UiStatus,
	logger ports.Logger,
	emitter LoadEventEmitter,
) *MapDataLoader {
	return &MapDataLoader{
		service:  service,
		registry: registry,
		zone:     zone,
		surface:  surface,
		viewport: viewport,
		status:   status,
		logger:   logger,
		emitter:  emitter,
	}
}

// Load fetches and applies the full snapshot for datasetKey.
//
// A fatal transport or status error aborts the whole load and leaves prior
// state untouched; non-fatal server warnings are surfaced without aborting
// the replacement. A response that lost the sequence race is discarded and
// Load returns nil, since a newer snapshot already owns the display.
func (l *MapDataLoader) Load(ctx context.Context, datasetKey string) error {
	if datasetKey == "" {
		return domain.ErrEmptyDatasetKey
	}

	seq := l.begin()
	l.status.ClearError()
	l.status.ShowLoading("Loading map data for " + datasetKey + "...")
	l.logger.Info("map data load started",
		ports.String("dataset", datasetKey),
		ports.Uint64("seq", seq),
	)

	snap, err := l.service.FetchSnapshot(ctx, datasetKey)
	if err != nil {
		l.status.HideLoading()
		l.status.ShowError("Failed to load map data: " + err.Error())
		l.logger.Error("map data load failed",
			ports.String("dataset", datasetKey),
			ports.Uint64("seq", seq),
			ports.Err(err),
		)
		return err
	}

	if !l.apply(seq, snap) {
		l.logger.Info("stale snapshot discarded",
			ports.String("dataset", datasetKey),
			ports.Uint64("seq", seq),
		)
		if l.emitter != nil {
			l.emitter.OnLoadDiscarded(datasetKey)
		}
		return nil
	}

	for _, w := range snap.Warnings {
		l.logger.Warn("map data warning",
			ports.String("dataset", datasetKey),
			ports.String("warning", w),
		)
	}

	l.status.HideLoading()
	l.logger.Info("map data load applied",
		ports.String("dataset", datasetKey),
		ports.Uint64("seq", seq),
		ports.Int("vessels", len(snap.Vessels)),
	)
	if l.emitter != nil {
		l.emitter.OnLoadApplied(datasetKey, len(snap.Vessels), snap.Warnings)
	}
	return nil
}

// AppliedSeq returns the sequence number of the last applied snapshot.
func (l *MapDataLoader) AppliedSeq() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.appliedSeq
}

// begin stamps a new load with the next sequence number.
func (l *MapDataLoader) begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextSeq++
	return l.nextSeq
}

// apply replaces zone, land, registry, and viewport under the sequence lock.
// Returns false when a higher sequence already applied, in which case nothing
// is touched.
func (l *MapDataLoader) apply(seq uint64, snap domain.Snapshot) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if seq <= l.appliedSeq {
		return false
	}
	l.appliedSeq = seq

	if snap.Land != "" {
		l.surface.SetLand(snap.Land)
	} else {
		l.surface.ClearLand()
	}
	l.zone.SetZone(domain.GeoJSON(snap.Zone))
	l.registry.ReplaceAll(snap.Vessels)
	if snap.Center != nil && l.viewport != nil {
		l.viewport.SetView(*snap.Center, snap.Zoom)
	}
	return true
}
