package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bluefin-labs/vesselsync/internal/domain"
)

func newTestSession(service *mockService) (*Session, *mockMarkers, *mockStatusSink, *mockHistoryView) {
	markers := newMockMarkers()
	sink := &mockStatusSink{}
	view := &mockHistoryView{}
	s := NewSession(SessionConfig{
		PollInterval:    10 * time.Millisecond,
		HistoryInterval: 10 * time.Millisecond,
	}, service, Surfaces{
		Markers:  markers,
		Zone:     &mockZoneSurface{},
		Viewport: &mockViewport{},
		Status:   sink,
		History:  view,
	}, mockLogger{}, nil)
	return s, markers, sink, view
}

func TestSession_LoadDataset(t *testing.T) {
	service := &mockService{
		fetchSnapshot: func(ctx context.Context, key string) (domain.Snapshot, error) {
			return domain.Snapshot{Vessels: vessels(1, 2)}, nil
		},
	}
	s, markers, _, _ := newTestSession(service)

	if err := s.LoadDataset(context.Background(), "uk"); err != nil {
		t.Fatalf("LoadDataset() = %v", err)
	}
	if s.Registry().Len() != 2 {
		t.Errorf("registry size = %d, want 2", s.Registry().Len())
	}
	if markers.liveCount() != 2 {
		t.Errorf("live markers = %d, want 2", markers.liveCount())
	}
}

func TestSession_RefreshVessels(t *testing.T) {
	service := &mockService{
		fetchVessels: func(ctx context.Context) ([]domain.Vessel, error) {
			return vessels(5, 6, 7), nil
		},
	}
	s, _, _, _ := newTestSession(service)

	if err := s.RefreshVessels(context.Background()); err != nil {
		t.Fatalf("RefreshVessels() = %v", err)
	}
	if s.Registry().Len() != 3 {
		t.Errorf("registry size = %d, want 3", s.Registry().Len())
	}
}

func TestSession_RefreshVessels_Error(t *testing.T) {
	service := &mockService{
		fetchVessels: func(ctx context.Context) ([]domain.Vessel, error) {
			return nil, errors.New("timeout")
		},
	}
	s, _, sink, _ := newTestSession(service)

	if err := s.RefreshVessels(context.Background()); err == nil {
		t.Fatal("RefreshVessels() = nil, want error")
	}
	if !sink.errVisible {
		t.Error("error banner not raised")
	}
}

func TestSession_RefreshZone_ErrorDescriptor(t *testing.T) {
	service := &mockService{
		fetchZone: func(ctx context.Context) (domain.ZoneGeometry, error) {
			return domain.ZoneError("calculation failed"), nil
		},
	}
	s, _, sink, _ := newTestSession(service)

	// Server-side failure arrives as an error-typed payload, not a Go error.
	if err := s.RefreshZone(context.Background()); err != nil {
		t.Fatalf("RefreshZone() = %v, want nil", err)
	}
	if sink.errMsg != "calculation failed" {
		t.Errorf("error banner = %q", sink.errMsg)
	}
}

func TestSession_Randomise_ReloadsAfter(t *testing.T) {
	var order []string
	service := &mockService{
		randomise: func(ctx context.Context, key string) error {
			order = append(order, "randomise")
			return nil
		},
		fetchSnapshot: func(ctx context.Context, key string) (domain.Snapshot, error) {
			order = append(order, "snapshot")
			return domain.Snapshot{Vessels: vessels(1)}, nil
		},
	}
	s, _, _, _ := newTestSession(service)

	if err := s.Randomise(context.Background(), "uk"); err != nil {
		t.Fatalf("Randomise() = %v", err)
	}
	if len(order) != 2 || order[0] != "randomise" || order[1] != "snapshot" {
		t.Errorf("call order = %v, want [randomise snapshot]", order)
	}
}

func TestSession_Randomise_EmptyKey(t *testing.T) {
	s, _, _, _ := newTestSession(&mockService{})

	err := s.Randomise(context.Background(), "")
	if !errors.Is(err, domain.ErrEmptyDatasetKey) {
		t.Fatalf("Randomise(\"\") = %v, want ErrEmptyDatasetKey", err)
	}
}

func TestSession_Randomise_FailureSkipsReload(t *testing.T) {
	snapshots := 0
	service := &mockService{
		randomise: func(ctx context.Context, key string) error {
			return errors.New("500")
		},
		fetchSnapshot: func(ctx context.Context, key string) (domain.Snapshot, error) {
			snapshots++
			return domain.Snapshot{}, nil
		},
	}
	s, _, sink, _ := newTestSession(service)

	if err := s.Randomise(context.Background(), "uk"); err == nil {
		t.Fatal("Randomise() = nil, want error")
	}
	if snapshots != 0 {
		t.Errorf("snapshot fetched %d times after failed randomise, want 0", snapshots)
	}
	if !sink.errVisible {
		t.Error("error banner not raised")
	}
}

func TestSession_Reset(t *testing.T) {
	service := &mockService{
		fetchSnapshot: func(ctx context.Context, key string) (domain.Snapshot, error) {
			return domain.Snapshot{Zone: `{"z":1}`, Vessels: vessels(1, 2)}, nil
		},
	}
	s, markers, sink, _ := newTestSession(service)
	_ = s.LoadDataset(context.Background(), "uk")
	s.Status().ShowError("leftover")

	s.Reset()

	if s.Registry().Len() != 0 {
		t.Errorf("registry size = %d after Reset, want 0", s.Registry().Len())
	}
	if markers.liveCount() != 0 {
		t.Errorf("live markers = %d after Reset, want 0", markers.liveCount())
	}
	if sink.errVisible {
		t.Error("error banner survived Reset")
	}
	if sink.loadingVisible {
		t.Error("loading banner survived Reset")
	}
}

func TestSession_Run_PollsUntilCanceled(t *testing.T) {
	refreshes := make(chan struct{}, 16)
	service := &mockService{
		fetchVessels: func(ctx context.Context) ([]domain.Vessel, error) {
			select {
			case refreshes <- struct{}{}:
			default:
			}
			return vessels(1), nil
		},
	}
	s, _, _, _ := newTestSession(service)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// Wait for at least two poll iterations.
	for i := 0; i < 2; i++ {
		select {
		case <-refreshes:
		case <-time.After(time.Second):
			t.Fatal("poll loop did not refresh vessels in time")
		}
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSession_Run_BacksOffOnFailure(t *testing.T) {
	calls := make(chan struct{}, 16)
	service := &mockService{
		fetchVessels: func(ctx context.Context) ([]domain.Vessel, error) {
			select {
			case calls <- struct{}{}:
			default:
			}
			return nil, errors.New("unreachable")
		},
	}
	s, _, _, _ := newTestSession(service)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// The loop keeps retrying rather than exiting on refresh failure.
	for i := 0; i < 2; i++ {
		select {
		case <-calls:
		case <-time.After(2 * time.Second):
			t.Fatal("poll loop stopped retrying")
		}
	}

	cancel()
	<-done
}

func TestSession_SetIntervals_Defaults(t *testing.T) {
	s, _, _, _ := newTestSession(&mockService{})

	s.SetIntervals(0, 0)
	if got := time.Duration(s.pollInterval.Load()); got != 5*time.Second {
		t.Errorf("poll interval = %v, want default 5s", got)
	}
	if got := time.Duration(s.historyInterval.Load()); got != 5*time.Second {
		t.Errorf("history interval = %v, want poll interval", got)
	}
}
