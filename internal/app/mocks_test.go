package app

import (
	"context"
	"sync"

	"github.com/bluefin-labs/vesselsync/internal/domain"
	"github.com/bluefin-labs/vesselsync/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct{}

func (mockLogger) Debug(msg string, fields ...ports.Field) {}
func (mockLogger) Info(msg string, fields ...ports.Field)  {}
func (mockLogger) Warn(msg string, fields ...ports.Field)  {}
func (mockLogger) Error(msg string, fields ...ports.Field) {}

// mockMarkers records marker operations and tracks live handles.
type mockMarkers struct {
	mu      sync.Mutex
	nextID  int
	live    map[int]domain.Vessel
	adds    int
	updates int
	removes int
}

type mockHandle struct{ id int }

func newMockMarkers() *mockMarkers {
	return &mockMarkers{live: make(map[int]domain.Vessel)}
}

func (m *mockMarkers) AddMarker(v domain.Vessel) ports.MarkerHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.adds++
	m.live[m.nextID] = v
	return &mockHandle{id: m.nextID}
}

func (m *mockMarkers) UpdateMarker(h ports.MarkerHandle, v domain.Vessel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	if mh, ok := h.(*mockHandle); ok {
		m.live[mh.id] = v
	}
}

func (m *mockMarkers) RemoveMarker(h ports.MarkerHandle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removes++
	if mh, ok := h.(*mockHandle); ok {
		delete(m.live, mh.id)
	}
}

func (m *mockMarkers) liveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

func (m *mockMarkers) counts() (adds, updates, removes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.adds, m.updates, m.removes
}

// mockZoneSurface records zone/land layer operations.
type mockZoneSurface struct {
	mu         sync.Mutex
	zone       string
	zoneSet    bool
	land       string
	landSet    bool
	zoneClears int
	zoneSets   int
}

func (m *mockZoneSurface) SetZone(geojson string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zone = geojson
	m.zoneSet = true
	m.zoneSets++
}

func (m *mockZoneSurface) ClearZone() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zone = ""
	m.zoneSet = false
	m.zoneClears++
}

func (m *mockZoneSurface) SetLand(geojson string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.land = geojson
	m.landSet = true
}

func (m *mockZoneSurface) ClearLand() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.land = ""
	m.landSet = false
}

// mockViewport records the last SetView call.
type mockViewport struct {
	mu     sync.Mutex
	center domain.LatLng
	zoom   int
	calls  int
}

func (m *mockViewport) SetView(center domain.LatLng, zoom int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.center = center
	m.zoom = zoom
	m.calls++
}

// mockStatusSink records banner operations.
type mockStatusSink struct {
	mu             sync.Mutex
	loading        string
	loadingVisible bool
	errMsg         string
	errVisible     bool
	errorsShown    []string
}

func (m *mockStatusSink) ShowLoading(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = message
	m.loadingVisible = true
}

func (m *mockStatusSink) HideLoading() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = ""
	m.loadingVisible = false
}

func (m *mockStatusSink) ShowError(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errMsg = message
	m.errVisible = true
	m.errorsShown = append(m.errorsShown, message)
}

func (m *mockStatusSink) ClearError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errMsg = ""
	m.errVisible = false
}

func (m *mockStatusSink) shownErrors() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.errorsShown...)
}

// mockHistoryView records history render calls.
type mockHistoryView struct {
	mu           sync.Mutex
	entries      []domain.HistoryEntry
	renderCalls  int
	emptyCalls   int
	errorCalls   int
	lastErrorMsg string
}

func (m *mockHistoryView) RenderEntries(entries []domain.HistoryEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = entries
	m.renderCalls++
}

func (m *mockHistoryView) RenderEmpty() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	m.emptyCalls++
}

func (m *mockHistoryView) RenderError(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCalls++
	m.lastErrorMsg = message
}

func (m *mockHistoryView) stats() (renders, empties, errors int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.renderCalls, m.emptyCalls, m.errorCalls
}

// mockService implements ports.MapService with pluggable behavior.
type mockService struct {
	mu sync.Mutex

	fetchSnapshot   func(ctx context.Context, key string) (domain.Snapshot, error)
	fetchZone       func(ctx context.Context) (domain.ZoneGeometry, error)
	fetchVessels    func(ctx context.Context) ([]domain.Vessel, error)
	toggleValve     func(ctx context.Context, id int64) (domain.ToggleResult, error)
	reportValveOpen func(ctx context.Context, id int64, pos domain.LatLng) (domain.OpenReport, error)
	randomise       func(ctx context.Context, key string) error
	fetchHistory    func(ctx context.Context) ([]domain.HistoryEntry, error)

	toggleCalls  int
	historyCalls int
}

func (m *mockService) FetchSnapshot(ctx context.Context, key string) (domain.Snapshot, error) {
	if m.fetchSnapshot == nil {
		return domain.Snapshot{}, nil
	}
	return m.fetchSnapshot(ctx, key)
}

func (m *mockService) FetchZone(ctx context.Context) (domain.ZoneGeometry, error) {
	if m.fetchZone == nil {
		return domain.ZoneGeometry{}, nil
	}
	return m.fetchZone(ctx)
}

func (m *mockService) FetchVessels(ctx context.Context) ([]domain.Vessel, error) {
	if m.fetchVessels == nil {
		return nil, nil
	}
	return m.fetchVessels(ctx)
}

func (m *mockService) ToggleValve(ctx context.Context, id int64) (domain.ToggleResult, error) {
	m.mu.Lock()
	m.toggleCalls++
	m.mu.Unlock()
	if m.toggleValve == nil {
		return domain.ToggleResult{VesselID: id}, nil
	}
	return m.toggleValve(ctx, id)
}

func (m *mockService) ReportValveOpen(ctx context.Context, id int64, pos domain.LatLng) (domain.OpenReport, error) {
	if m.reportValveOpen == nil {
		return domain.OpenReport{}, nil
	}
	return m.reportValveOpen(ctx, id, pos)
}

func (m *mockService) RandomiseVessels(ctx context.Context, key string) error {
	if m.randomise == nil {
		return nil
	}
	return m.randomise(ctx, key)
}

func (m *mockService) FetchHistory(ctx context.Context) ([]domain.HistoryEntry, error) {
	m.mu.Lock()
	m.historyCalls++
	m.mu.Unlock()
	if m.fetchHistory == nil {
		return nil, nil
	}
	return m.fetchHistory(ctx)
}

func (m *mockService) toggleCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.toggleCalls
}
