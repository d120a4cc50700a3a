package app

import (
	"sync"

	"github.com/bluefin-labs/vesselsync/internal/domain"
	"github.com/bluefin-labs/vesselsync/internal/ports"
)

// ZoneRenderer draws the restricted zone polygon set. It keeps no state
// beyond the current geometry: every SetZone clears the prior rendering
// before drawing the new one, so stale polygons never survive a replace.
type ZoneRenderer struct {
	mu      sync.Mutex
	surface ports.ZoneSurface
	status  *UiStatus
	logger  ports.Logger
	current domain.ZoneGeometry
}

// NewZoneRenderer creates a renderer drawing on surface and reporting
// error-typed payloads through status.
func NewZoneRenderer(surface ports.ZoneSurface, status *UiStatus, logger ports.Logger) *ZoneRenderer {
	return &ZoneRenderer{surface: surface, status: status, logger: logger}
}

// SetZone replaces the rendered zone with the given geometry. An error-typed
// payload renders nothing and raises the shared error channel instead.
func (z *ZoneRenderer) SetZone(g domain.ZoneGeometry) {
	z.mu.Lock()
	defer z.mu.Unlock()

	z.surface.ClearZone()
	z.current = g

	if g.IsError() {
		z.logger.Warn("zone payload is an error descriptor", ports.String("message", g.Message))
		z.status.ShowError(g.Message)
		return
	}
	if g.Empty() {
		return
	}
	z.surface.SetZone(g.Data)
}

// Clear removes any rendered zone.
func (z *ZoneRenderer) Clear() {
	z.SetZone(domain.ZoneGeometry{})
}

// Current returns the last geometry handed to SetZone.
func (z *ZoneRenderer) Current() domain.ZoneGeometry {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.current
}
