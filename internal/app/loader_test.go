package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/bluefin-labs/vesselsync/internal/domain"
)

type loaderFixture struct {
	loader   *MapDataLoader
	registry *VesselRegistry
	markers  *mockMarkers
	surface  *mockZoneSurface
	viewport *mockViewport
	status   *UiStatus
	sink     *mockStatusSink
}

func newLoaderFixture(service *mockService, emitter LoadEventEmitter) *loaderFixture {
	markers := newMockMarkers()
	surface := &mockZoneSurface{}
	viewport := &mockViewport{}
	sink := &mockStatusSink{}
	status := NewUiStatus(sink)
	registry := NewVesselRegistry(markers, mockLogger{})
	zone := NewZoneRenderer(surface, status, mockLogger{})
	loader := NewMapDataLoader(service, registry, zone, surface, viewport, status, mockLogger{}, emitter)
	return &loaderFixture{
		loader:   loader,
		registry: registry,
		markers:  markers,
		surface:  surface,
		viewport: viewport,
		status:   status,
		sink:     sink,
	}
}

func snapshotFor(key string, ids ...int64) domain.Snapshot {
	return domain.Snapshot{
		Land:    `{"land":"` + key + `"}`,
		Zone:    `{"zone":"` + key + `"}`,
		Vessels: vessels(ids...),
		Center:  &domain.LatLng{Lat: 50, Lng: -1},
		Zoom:    8,
	}
}

func TestMapDataLoader_Load(t *testing.T) {
	service := &mockService{
		fetchSnapshot: func(ctx context.Context, key string) (domain.Snapshot, error) {
			return snapshotFor(key, 1, 2, 3), nil
		},
	}
	f := newLoaderFixture(service, nil)

	if err := f.loader.Load(context.Background(), "uk"); err != nil {
		t.Fatalf("Load() = %v", err)
	}

	if f.registry.Len() != 3 {
		t.Errorf("registry size = %d, want 3", f.registry.Len())
	}
	if f.markers.liveCount() != 3 {
		t.Errorf("live markers = %d, want 3", f.markers.liveCount())
	}
	if !f.surface.landSet {
		t.Error("land layer not set")
	}
	if !f.surface.zoneSet {
		t.Error("zone layer not set")
	}
	if f.viewport.calls != 1 {
		t.Errorf("viewport calls = %d, want 1", f.viewport.calls)
	}
	if _, visible := f.status.Loading(); visible {
		t.Error("loading banner still visible after load")
	}
}

func TestMapDataLoader_Load_EmptyKey(t *testing.T) {
	f := newLoaderFixture(&mockService{}, nil)

	err := f.loader.Load(context.Background(), "")
	if !errors.Is(err, domain.ErrEmptyDatasetKey) {
		t.Fatalf("Load(\"\") = %v, want ErrEmptyDatasetKey", err)
	}
	if _, visible := f.status.Loading(); visible {
		t.Error("loading banner raised for rejected load")
	}
}

func TestMapDataLoader_Load_FatalErrorLeavesPriorState(t *testing.T) {
	var fail bool
	service := &mockService{
		fetchSnapshot: func(ctx context.Context, key string) (domain.Snapshot, error) {
			if fail {
				return domain.Snapshot{}, errors.New("502 bad gateway")
			}
			return snapshotFor(key, 1, 2), nil
		},
	}
	f := newLoaderFixture(service, nil)

	if err := f.loader.Load(context.Background(), "uk"); err != nil {
		t.Fatalf("first Load() = %v", err)
	}
	fail = true
	if err := f.loader.Load(context.Background(), "croatia"); err == nil {
		t.Fatal("second Load() = nil, want error")
	}

	// The failed load aborts whole: prior display state survives.
	if f.registry.Len() != 2 {
		t.Errorf("registry size = %d after failed load, want 2", f.registry.Len())
	}
	if !f.surface.zoneSet {
		t.Error("zone cleared by failed load")
	}
	if _, visible := f.status.Loading(); visible {
		t.Error("loading banner still visible after failed load")
	}
	if msg, visible := f.status.Error(); !visible || msg == "" {
		t.Error("error banner not raised for failed load")
	}
}

func TestMapDataLoader_Load_ClearsErrorBannerOnStart(t *testing.T) {
	service := &mockService{
		fetchSnapshot: func(ctx context.Context, key string) (domain.Snapshot, error) {
			return snapshotFor(key, 1), nil
		},
	}
	f := newLoaderFixture(service, nil)
	f.status.ShowError("stale failure")

	if err := f.loader.Load(context.Background(), "uk"); err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if _, visible := f.status.Error(); visible {
		t.Error("stale error banner survived a new load")
	}
}

func TestMapDataLoader_Load_NoCenterLeavesViewport(t *testing.T) {
	service := &mockService{
		fetchSnapshot: func(ctx context.Context, key string) (domain.Snapshot, error) {
			return domain.Snapshot{Vessels: vessels(1)}, nil
		},
	}
	f := newLoaderFixture(service, nil)

	if err := f.loader.Load(context.Background(), "uk"); err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if f.viewport.calls != 0 {
		t.Errorf("viewport calls = %d, want 0 when snapshot has no center", f.viewport.calls)
	}
}

type loadEmitterRecorder struct {
	mu        sync.Mutex
	applied   []string
	discarded []string
}

func (r *loadEmitterRecorder) OnLoadApplied(key string, count int, warnings []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applied = append(r.applied, key)
}

func (r *loadEmitterRecorder) OnLoadDiscarded(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.discarded = append(r.discarded, key)
}

func TestMapDataLoader_Load_StaleResponseDiscarded(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	service := &mockService{}
	service.fetchSnapshot = func(ctx context.Context, key string) (domain.Snapshot, error) {
		if key == "slow" {
			close(firstStarted)
			<-releaseFirst
		}
		return snapshotFor(key, 100), nil
	}

	emitter := &loadEmitterRecorder{}
	f := newLoaderFixture(service, emitter)

	var wg sync.WaitGroup
	wg.Add(1)
	var slowErr error
	go func() {
		defer wg.Done()
		slowErr = f.loader.Load(context.Background(), "slow")
	}()

	<-firstStarted
	// A newer request resolves while the older one is still pending.
	if err := f.loader.Load(context.Background(), "fast"); err != nil {
		t.Fatalf("Load(fast) = %v", err)
	}
	close(releaseFirst)
	wg.Wait()

	// The stale response is dropped whole; Load reports nil since a newer
	// snapshot already owns the display.
	if slowErr != nil {
		t.Errorf("Load(slow) = %v, want nil", slowErr)
	}
	if f.surface.zone != `{"zone":"fast"}` {
		t.Errorf("zone = %q, want the newer request's zone", f.surface.zone)
	}
	if f.surface.land != `{"land":"fast"}` {
		t.Errorf("land = %q, want the newer request's land", f.surface.land)
	}

	emitter.mu.Lock()
	defer emitter.mu.Unlock()
	if len(emitter.applied) != 1 || emitter.applied[0] != "fast" {
		t.Errorf("applied = %v, want [fast]", emitter.applied)
	}
	if len(emitter.discarded) != 1 || emitter.discarded[0] != "slow" {
		t.Errorf("discarded = %v, want [slow]", emitter.discarded)
	}
}

func TestMapDataLoader_Load_ReplacesWholesale(t *testing.T) {
	service := &mockService{
		fetchSnapshot: func(ctx context.Context, key string) (domain.Snapshot, error) {
			if key == "uk" {
				return snapshotFor(key, 1, 2, 3, 4), nil
			}
			return snapshotFor(key, 9), nil
		},
	}
	f := newLoaderFixture(service, nil)

	_ = f.loader.Load(context.Background(), "uk")
	_ = f.loader.Load(context.Background(), "svg")

	if f.registry.Len() != 1 {
		t.Errorf("registry size = %d, want 1", f.registry.Len())
	}
	if f.markers.liveCount() != 1 {
		t.Errorf("live markers = %d, want 1", f.markers.liveCount())
	}
	if _, ok := f.registry.Get(9); !ok {
		t.Error("vessel 9 missing after replacement")
	}
}

func TestMapDataLoader_AppliedSeq(t *testing.T) {
	service := &mockService{
		fetchSnapshot: func(ctx context.Context, key string) (domain.Snapshot, error) {
			return domain.Snapshot{}, nil
		},
	}
	f := newLoaderFixture(service, nil)

	if f.loader.AppliedSeq() != 0 {
		t.Errorf("initial AppliedSeq = %d, want 0", f.loader.AppliedSeq())
	}
	_ = f.loader.Load(context.Background(), "uk")
	_ = f.loader.Load(context.Background(), "uk")
	if f.loader.AppliedSeq() != 2 {
		t.Errorf("AppliedSeq = %d after two loads, want 2", f.loader.AppliedSeq())
	}
}
