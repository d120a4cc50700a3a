package ports

import "github.com/bluefin-labs/vesselsync/internal/domain"

// MarkerHandle is an opaque rendering-library object associated 1:1 with a
// vessel id. The registry is the only component that stores one; holding a
// second reference elsewhere is what produces duplicate markers after a
// reload.
type MarkerHandle interface{}

// MarkerRenderer draws vessel markers on the map surface.
type MarkerRenderer interface {
	// AddMarker draws a marker for the vessel and returns its handle.
	AddMarker(v domain.Vessel) MarkerHandle

	// UpdateMarker re-renders an existing marker from the vessel's current
	// state (position, popup body, valve colouring).
	UpdateMarker(h MarkerHandle, v domain.Vessel)

	// RemoveMarker removes a marker from the surface and releases its handle.
	RemoveMarker(h MarkerHandle)
}

// ZoneSurface draws the immutable polygon layers. Set calls replace the
// prior layer wholesale; there is no incremental patching.
type ZoneSurface interface {
	SetZone(geojson string)
	ClearZone()
	SetLand(geojson string)
	ClearLand()
}

// Viewport repositions the visible map area.
type Viewport interface {
	SetView(center domain.LatLng, zoom int)
}
