package domain

// HistoryEntry is one valve-open audit record. Entries are immutable once
// received and ordered by the server; the client renders them as-is and
// never re-sorts.
type HistoryEntry struct {
	VesselID   int64   `json:"boatId"`
	VesselName string  `json:"boatName,omitempty"`
	Country    string  `json:"country,omitempty"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`

	// Status is the server's classification of the event (e.g.,
	// "Illegal Disposal (Opened in Zone)").
	Status string `json:"status,omitempty"`

	// InZone is the server-side containment verdict. The client only
	// displays it; it never recomputes containment.
	InZone bool `json:"inZone"`

	// Timestamp is the server-assigned event time in ISO-8601 form.
	Timestamp string `json:"timestamp"`
}
