// Package ports defines the interfaces that connect the synchronization core
// to its external collaborators.
//
// The backend (geofence computation, persistence, tile serving) and the map
// rendering library are out of scope for this module; both are reached only
// through these ports. The application layer (internal/app) depends on the
// interfaces alone, and adapters (internal/adapters) supply the concrete
// implementations.
//
// # Port Interfaces
//
//   - [MapService]: the backend HTTP contract (snapshot, zone, vessels, valve, history)
//   - [MarkerRenderer], [ZoneSurface], [Viewport]: the map rendering surface
//   - [StatusSink]: loading/error banner display
//   - [HistoryView]: audit log display
//   - [Logger]: structured logging abstraction
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//
// Rendering ports only observe state; they never mutate the registry or the
// zone geometry themselves.
package ports
