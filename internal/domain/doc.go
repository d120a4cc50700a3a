// Package domain contains the core entities and value objects for vesselsync.
//
// This is the innermost layer: it has no dependencies on HTTP, rendering, or
// logging concerns and carries only the data shapes and invariants the rest
// of the module reconciles against.
//
// # Entities
//
//   - [Vessel]: a tracked vessel with position and valve state
//   - [Snapshot]: the full map payload for one dataset (land, zone, vessels, viewport)
//   - [ZoneGeometry]: an atomic replace-only zone payload, or a server error descriptor
//   - [HistoryEntry]: one immutable valve-open audit record
//
// Entities are plain values. They are replaced wholesale, never patched in
// place, except for the single valveOpen field updated after a confirmed
// toggle.
package domain
