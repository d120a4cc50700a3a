package app

import (
	"context"
	"sync"

	"github.com/bluefin-labs/vesselsync/internal/domain"
	"github.com/bluefin-labs/vesselsync/internal/ports"
)

// ToggleEventEmitter is notified after a toggle attempt completes.
type ToggleEventEmitter interface {
	OnToggleResult(vesselID int64, valveOpen bool, err error)
}

// ValveController executes the toggle-valve protocol for single vessels.
//
// It enforces the one true exclusivity invariant of the system: at most one
// toggle in flight per vessel id. Toggles on different vessels run
// concurrently. Display state is mutated only after the server confirms the
// transition, with the server-supplied boolean; on failure the vessel's
// displayed state is left exactly as it was.
type ValveController struct {
	service  ports.MapService
	registry *VesselRegistry
	status   *UiStatus
	history  *HistoryFeed
	logger   ports.Logger
	emitter  ToggleEventEmitter

	mu       sync.Mutex
	inflight map[int64]struct{}
}

// NewValveController creates a controller operating on registry and
// refreshing history after confirmed opens.
func NewValveController(service ports.MapService, registry *VesselRegistry, status *UiStatus, history *HistoryFeed, logger ports.Logger, emitter ToggleEventEmitter) *ValveController {
	return &ValveController{
		service:  service,
		registry: registry,
		status:   status,
		history:  history,
		logger:   logger,
		emitter:  emitter,
		inflight: make(map[int64]struct{}),
	}
}

// Toggle flips the valve of one tracked vessel.
//
// Precondition failures (unknown id, toggle already in flight) return
// synchronously without touching the error banner: they are caller-avoidable.
// A transport or server failure raises the banner, clears the in-flight flag,
// and leaves the registry untouched.
func (c *ValveController) Toggle(ctx context.Context, id int64) (domain.ToggleResult, error) {
	if _, ok := c.registry.Get(id); !ok {
		return domain.ToggleResult{}, domain.ErrUnknownVessel
	}
	if err := c.acquire(id); err != nil {
		return domain.ToggleResult{}, err
	}
	defer c.release(id)

	res, err := c.service.ToggleValve(ctx, id)
	if err != nil {
		c.logger.Error("valve toggle failed", ports.Int64("vessel_id", id), ports.Err(err))
		c.status.ShowError("Failed to toggle valve: " + err.Error())
		c.emit(id, false, err)
		return domain.ToggleResult{}, err
	}

	// Apply the server-confirmed state, never the client's guessed next
	// state. A false return means a concurrent reload removed the vessel;
	// the toggle itself still succeeded server-side.
	if !c.registry.UpdateValve(id, res.ValveOpen) {
		c.logger.Warn("toggled vessel no longer tracked", ports.Int64("vessel_id", id))
	}

	c.logger.Info("valve toggled",
		ports.Int64("vessel_id", id),
		ports.Bool("valve_open", res.ValveOpen),
	)

	if res.ValveOpen {
		c.refreshHistoryAsync(ctx)
	}

	c.emit(id, res.ValveOpen, nil)
	return res, nil
}

// ReportOpen reports an explicit valve-open event for a tracked vessel at its
// current position. It shares the per-vessel single-flight guard with Toggle.
func (c *ValveController) ReportOpen(ctx context.Context, id int64) (domain.OpenReport, error) {
	v, ok := c.registry.Get(id)
	if !ok {
		return domain.OpenReport{}, domain.ErrUnknownVessel
	}
	if err := c.acquire(id); err != nil {
		return domain.OpenReport{}, err
	}
	defer c.release(id)

	report, err := c.service.ReportValveOpen(ctx, id, domain.LatLng{Lat: v.Lat, Lng: v.Lng})
	if err != nil {
		c.logger.Error("valve open report failed", ports.Int64("vessel_id", id), ports.Err(err))
		c.status.ShowError("Failed to report valve open: " + err.Error())
		c.emit(id, false, err)
		return domain.OpenReport{}, err
	}

	if !c.registry.UpdateValve(id, true) {
		c.logger.Warn("reported vessel no longer tracked", ports.Int64("vessel_id", id))
	}

	c.logger.Info("valve open reported", ports.Int64("vessel_id", id))
	c.refreshHistoryAsync(ctx)
	c.emit(id, true, nil)
	return report, nil
}

// InFlight reports whether a toggle for the id is currently in flight.
func (c *ValveController) InFlight(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.inflight[id]
	return ok
}

// acquire claims the per-vessel in-flight flag. The check and the set happen
// under one lock so two overlapping calls for the same id cannot both pass.
func (c *ValveController) acquire(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.inflight[id]; ok {
		return domain.ErrToggleInFlight
	}
	c.inflight[id] = struct{}{}
	return nil
}

func (c *ValveController) release(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, id)
}

// refreshHistoryAsync refreshes the audit feed as a fire-and-forget side
// effect; its failure does not fail the toggle. The refresh is detached from
// the caller's context so an early caller exit cannot cancel it.
func (c *ValveController) refreshHistoryAsync(ctx context.Context) {
	if c.history == nil {
		return
	}
	go func() {
		if err := c.history.Refresh(context.WithoutCancel(ctx)); err != nil {
			c.logger.Warn("post-toggle history refresh failed", ports.Err(err))
		}
	}()
}

func (c *ValveController) emit(id int64, open bool, err error) {
	if c.emitter != nil {
		c.emitter.OnToggleResult(id, open, err)
	}
}
