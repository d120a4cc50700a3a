package domain

// Vessel is the last-known display state of one tracked vessel.
// IDs are unique and stable across refreshes; the registry is the only owner.
type Vessel struct {
	// ID is the server-assigned vessel identifier.
	ID int64 `json:"id"`

	// Name is the display name (e.g., "Sea Eagle 42").
	Name string `json:"name"`

	// Lat and Lng are the WGS84 position.
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`

	// ValveOpen reflects the last server-acknowledged valve state.
	// It is never set from a client-side guess.
	ValveOpen bool `json:"valveOpen"`

	// Country is the dataset key the vessel belongs to, when the server
	// includes it.
	Country string `json:"country,omitempty"`
}

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64
	Lng float64
}
