package app

import (
	"sort"
	"sync"

	"github.com/bluefin-labs/vesselsync/internal/domain"
	"github.com/bluefin-labs/vesselsync/internal/ports"
)

// VesselRegistry is the single source of truth for what is currently drawn:
// an in-memory mapping from vessel id to its last-known display state and
// marker handle. Every tracked vessel has exactly one live marker and vice
// versa; no other component stores a second handle reference.
type VesselRegistry struct {
	mu      sync.RWMutex
	markers ports.MarkerRenderer
	logger  ports.Logger
	entries map[int64]*vesselEntry
}

type vesselEntry struct {
	vessel domain.Vessel
	handle ports.MarkerHandle
}

// NewVesselRegistry creates an empty registry drawing through markers.
func NewVesselRegistry(markers ports.MarkerRenderer, logger ports.Logger) *VesselRegistry {
	return &VesselRegistry{
		markers: markers,
		logger:  logger,
		entries: make(map[int64]*vesselEntry),
	}
}

// ReplaceAll clears every existing entry/marker pair and creates fresh ones.
// Entries are destroyed wholesale, never incrementally diffed against the
// new list. Duplicate ids in the input keep the last occurrence.
func (r *VesselRegistry) ReplaceAll(vessels []domain.Vessel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		r.markers.RemoveMarker(e.handle)
	}
	r.entries = make(map[int64]*vesselEntry, len(vessels))

	for _, v := range vessels {
		if prev, ok := r.entries[v.ID]; ok {
			r.logger.Warn("duplicate vessel id in payload", ports.Int64("vessel_id", v.ID))
			r.markers.RemoveMarker(prev.handle)
		}
		r.entries[v.ID] = &vesselEntry{vessel: v, handle: r.markers.AddMarker(v)}
	}

	r.logger.Info("vessel registry replaced", ports.Int("count", len(r.entries)))
}

// Reset destroys every entry/marker pair, leaving the registry empty.
func (r *VesselRegistry) Reset() {
	r.ReplaceAll(nil)
}

// UpdateValve mutates a single entry's valve state and its marker's visual
// state. Returns false as a no-op when the id is unknown, which happens when
// a concurrent reload removed the vessel.
func (r *VesselRegistry) UpdateValve(id int64, open bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return false
	}
	e.vessel.ValveOpen = open
	r.markers.UpdateMarker(e.handle, e.vessel)
	return true
}

// Get returns the vessel for an id.
func (r *VesselRegistry) Get(id int64) (domain.Vessel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return domain.Vessel{}, false
	}
	return e.vessel, true
}

// Find returns all vessels matching the predicate, ordered by id.
func (r *VesselRegistry) Find(pred func(domain.Vessel) bool) []domain.Vessel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Vessel
	for _, e := range r.entries {
		if pred(e.vessel) {
			out = append(out, e.vessel)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// All returns every tracked vessel, ordered by id.
func (r *VesselRegistry) All() []domain.Vessel {
	return r.Find(func(domain.Vessel) bool { return true })
}

// Len returns the number of tracked vessels.
func (r *VesselRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
