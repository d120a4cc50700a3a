package domain

// Snapshot is the full map payload for one dataset, as returned by the
// mapdata endpoint. It is applied atomically: either every part replaces the
// prior state or none of it does.
type Snapshot struct {
	// Land is the land polygon set as a GeoJSON document. Empty when the
	// server could not produce one (reported in Warnings instead).
	Land string

	// Zone is the restricted buffer polygon set as a GeoJSON document.
	// Empty when missing; replace-only, never patched.
	Zone string

	// Vessels is the complete vessel list for the dataset.
	Vessels []Vessel

	// Center and Zoom describe the viewport the server suggests for the
	// dataset. Center is nil when the server supplied none.
	Center *LatLng
	Zoom   int

	// Warnings are non-fatal server-side problems (e.g., a malformed buffer
	// polygon). They never abort the load.
	Warnings []string
}

// ToggleResult is the server's acknowledgement of a valve toggle.
type ToggleResult struct {
	VesselID  int64
	ValveOpen bool
}

// OpenReport is the server's acknowledgement of an explicit valve-open
// report. Log is the audit entry the server recorded, when it returns one.
type OpenReport struct {
	Message string
	Log     *HistoryEntry
}
