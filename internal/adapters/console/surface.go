// Package console provides logger-backed implementations of the rendering
// ports for headless runs: marker, zone, status, and history output become
// structured log lines instead of map-library calls.
package console

import (
	"fmt"
	"io"

	"github.com/bluefin-labs/vesselsync/internal/domain"
	"github.com/bluefin-labs/vesselsync/internal/ports"
)

// Surface implements the rendering ports against a logger and an optional
// writer for the history table.
type Surface struct {
	logger ports.Logger
	out    io.Writer
}

// NewSurface creates a console surface. out receives the rendered history
// table; pass nil to log entries instead.
func NewSurface(logger ports.Logger, out io.Writer) *Surface {
	return &Surface{logger: logger, out: out}
}

// consoleMarker is the marker handle for a console surface.
type consoleMarker struct {
	id int64
}

// AddMarker logs the marker creation and returns its handle.
func (s *Surface) AddMarker(v domain.Vessel) ports.MarkerHandle {
	p := domain.PopupFor(v)
	s.logger.Debug("marker added",
		ports.Int64("vessel_id", p.ID),
		ports.String("name", p.Name),
		ports.String("position", p.Position()),
		ports.String("valve", p.ValveLabel()),
	)
	return &consoleMarker{id: v.ID}
}

// UpdateMarker logs the marker update.
func (s *Surface) UpdateMarker(h ports.MarkerHandle, v domain.Vessel) {
	p := domain.PopupFor(v)
	s.logger.Debug("marker updated",
		ports.Int64("vessel_id", p.ID),
		ports.String("valve", p.ValveLabel()),
	)
}

// RemoveMarker logs the marker removal.
func (s *Surface) RemoveMarker(h ports.MarkerHandle) {
	if m, ok := h.(*consoleMarker); ok {
		s.logger.Debug("marker removed", ports.Int64("vessel_id", m.id))
	}
}

// SetZone logs the zone replacement.
func (s *Surface) SetZone(geojson string) {
	s.logger.Debug("zone layer set", ports.Int("bytes", len(geojson)))
}

// ClearZone logs the zone removal.
func (s *Surface) ClearZone() {
	s.logger.Debug("zone layer cleared")
}

// SetLand logs the land replacement.
func (s *Surface) SetLand(geojson string) {
	s.logger.Debug("land layer set", ports.Int("bytes", len(geojson)))
}

// ClearLand logs the land removal.
func (s *Surface) ClearLand() {
	s.logger.Debug("land layer cleared")
}

// SetView logs the viewport change.
func (s *Surface) SetView(center domain.LatLng, zoom int) {
	s.logger.Debug("viewport set",
		ports.Float64("lat", center.Lat),
		ports.Float64("lng", center.Lng),
		ports.Int("zoom", zoom),
	)
}

// ShowLoading logs the loading banner.
func (s *Surface) ShowLoading(message string) {
	s.logger.Info("loading", ports.String("message", message))
}

// HideLoading logs the banner removal.
func (s *Surface) HideLoading() {
	s.logger.Debug("loading cleared")
}

// ShowError logs the error banner.
func (s *Surface) ShowError(message string) {
	s.logger.Error("status error", ports.String("message", message))
}

// ClearError logs the banner removal.
func (s *Surface) ClearError() {
	s.logger.Debug("error cleared")
}

// RenderEntries writes the history table to the output writer.
func (s *Surface) RenderEntries(entries []domain.HistoryEntry) {
	if s.out == nil {
		s.logger.Info("history rendered", ports.Int("entries", len(entries)))
		return
	}
	fmt.Fprintf(s.out, "%-24s  %-8s  %-22s  %-7s  %s\n", "TIMESTAMP", "VESSEL", "POSITION", "IN ZONE", "STATUS")
	for _, e := range entries {
		fmt.Fprintf(s.out, "%-24s  %-8d  %11.6f,%10.6f  %-7t  %s\n",
			e.Timestamp, e.VesselID, e.Lat, e.Lng, e.InZone, e.Status)
	}
}

// RenderEmpty writes the explicit no-entries state.
func (s *Surface) RenderEmpty() {
	if s.out == nil {
		s.logger.Info("history rendered", ports.Int("entries", 0))
		return
	}
	fmt.Fprintln(s.out, "No valve opening events recorded yet.")
}

// RenderError writes a fetch failure inline.
func (s *Surface) RenderError(message string) {
	if s.out == nil {
		s.logger.Error("history error", ports.String("message", message))
		return
	}
	fmt.Fprintf(s.out, "Error loading history: %s\n", message)
}
