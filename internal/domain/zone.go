package domain

// Zone geometry payload types, matching the zone-definition endpoint.
const (
	ZoneTypeGeoJSON = "geojson"
	ZoneTypeError   = "error"
)

// ZoneGeometry is either a GeoJSON geometry payload or a server error
// descriptor. It is an atomic replace-only value: a new geometry always
// replaces the prior one wholesale.
type ZoneGeometry struct {
	// Type is ZoneTypeGeoJSON or ZoneTypeError.
	Type string

	// Data holds the GeoJSON document when Type is ZoneTypeGeoJSON.
	Data string

	// Message holds the server-reported failure when Type is ZoneTypeError.
	Message string
}

// GeoJSON wraps a raw GeoJSON document as a ZoneGeometry.
func GeoJSON(data string) ZoneGeometry {
	return ZoneGeometry{Type: ZoneTypeGeoJSON, Data: data}
}

// ZoneError wraps a server-reported failure as a ZoneGeometry.
func ZoneError(message string) ZoneGeometry {
	return ZoneGeometry{Type: ZoneTypeError, Message: message}
}

// IsError reports whether the payload is an error descriptor rather than
// drawable geometry.
func (g ZoneGeometry) IsError() bool {
	return g.Type == ZoneTypeError
}

// Empty reports whether there is nothing to draw.
func (g ZoneGeometry) Empty() bool {
	return !g.IsError() && g.Data == ""
}
