package ports

import (
	"context"

	"github.com/bluefin-labs/vesselsync/internal/domain"
)

// MapService is the backend boundary. Implementations translate these calls
// into the dashboard API's HTTP contract; request and response shapes are
// authoritative and preserved field-for-field.
type MapService interface {
	// FetchSnapshot retrieves the full map payload for a dataset.
	// A non-2xx status or transport failure returns an error and no snapshot.
	FetchSnapshot(ctx context.Context, datasetKey string) (domain.Snapshot, error)

	// FetchZone retrieves the standalone zone definition. A server-side
	// calculation failure arrives as an error-typed ZoneGeometry, not as a
	// Go error.
	FetchZone(ctx context.Context) (domain.ZoneGeometry, error)

	// FetchVessels retrieves the current vessel list without geometry.
	FetchVessels(ctx context.Context) ([]domain.Vessel, error)

	// ToggleValve flips one vessel's valve and returns the server-confirmed
	// state. The caller must apply the returned boolean, never its own guess.
	ToggleValve(ctx context.Context, vesselID int64) (domain.ToggleResult, error)

	// ReportValveOpen reports an explicit valve-open event at a position.
	ReportValveOpen(ctx context.Context, vesselID int64, pos domain.LatLng) (domain.OpenReport, error)

	// RandomiseVessels regenerates the vessel set for a dataset server-side.
	// The caller is expected to follow up with a full snapshot reload.
	RandomiseVessels(ctx context.Context, datasetKey string) error

	// FetchHistory retrieves the complete audit log in server order.
	FetchHistory(ctx context.Context) ([]domain.HistoryEntry, error)
}
