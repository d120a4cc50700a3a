package app

import (
	"context"
	"sync"

	"github.com/bluefin-labs/vesselsync/internal/domain"
	"github.com/bluefin-labs/vesselsync/internal/ports"
)

// HistoryEventEmitter is notified after a successful history refresh.
type HistoryEventEmitter interface {
	OnHistoryRefreshed(entryCount int)
}

// HistoryFeed fetches and renders the valve-open audit log. Its lifecycle is
// independent from the map: a refresh replaces the full visible list with
// whatever the server returns, in server order. Fetch failures render inline
// in the feed area rather than on the shared error banner.
type HistoryFeed struct {
	service ports.MapService
	view    ports.HistoryView
	logger  ports.Logger
	emitter HistoryEventEmitter

	mu      sync.Mutex
	entries []domain.HistoryEntry
}

// NewHistoryFeed creates a feed fetching through service and rendering into view.
func NewHistoryFeed(service ports.MapService, view ports.HistoryView, logger ports.Logger, emitter HistoryEventEmitter) *HistoryFeed {
	return &HistoryFeed{service: service, view: view, logger: logger, emitter: emitter}
}

// Refresh replaces the visible list with the server's current full history.
// An empty log renders the explicit "no entries" state. The returned error
// reports the fetch outcome to the caller; the failure has already been
// rendered inline by the time it returns.
func (f *HistoryFeed) Refresh(ctx context.Context) error {
	entries, err := f.service.FetchHistory(ctx)
	if err != nil {
		f.logger.Error("history fetch failed", ports.Err(err))
		f.view.RenderError(err.Error())
		return err
	}

	f.mu.Lock()
	f.entries = entries
	f.mu.Unlock()

	if len(entries) == 0 {
		f.view.RenderEmpty()
	} else {
		f.view.RenderEntries(entries)
	}

	f.logger.Info("history refreshed", ports.Int("entries", len(entries)))
	if f.emitter != nil {
		f.emitter.OnHistoryRefreshed(len(entries))
	}
	return nil
}

// Entries returns the last successfully fetched log, in server order.
func (f *HistoryFeed) Entries() []domain.HistoryEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.HistoryEntry(nil), f.entries...)
}
