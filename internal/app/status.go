package app

import (
	"sync"

	"github.com/bluefin-labs/vesselsync/internal/ports"
)

// UiStatus centralizes the loading and error indicators so exactly one
// subsystem owns their visibility. At most one loading message and one error
// message are visible at a time; a later Show call overwrites the current
// message rather than stacking a queue of notifications.
type UiStatus struct {
	mu   sync.Mutex
	sink ports.StatusSink

	loading        string
	loadingVisible bool
	errMsg         string
	errVisible     bool
}

// NewUiStatus creates a status owner delegating display to sink.
func NewUiStatus(sink ports.StatusSink) *UiStatus {
	return &UiStatus{sink: sink}
}

// ShowLoading displays a loading message, replacing any visible one.
func (s *UiStatus) ShowLoading(message string) {
	s.mu.Lock()
	s.loading = message
	s.loadingVisible = true
	s.mu.Unlock()
	s.sink.ShowLoading(message)
}

// HideLoading hides the loading indicator.
func (s *UiStatus) HideLoading() {
	s.mu.Lock()
	s.loading = ""
	s.loadingVisible = false
	s.mu.Unlock()
	s.sink.HideLoading()
}

// ShowError displays an error message, replacing any visible one.
func (s *UiStatus) ShowError(message string) {
	s.mu.Lock()
	s.errMsg = message
	s.errVisible = true
	s.mu.Unlock()
	s.sink.ShowError(message)
}

// ClearError clears the error indicator.
func (s *UiStatus) ClearError() {
	s.mu.Lock()
	s.errMsg = ""
	s.errVisible = false
	s.mu.Unlock()
	s.sink.ClearError()
}

// Loading returns the visible loading message, if any.
func (s *UiStatus) Loading() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading, s.loadingVisible
}

// Error returns the visible error message, if any.
func (s *UiStatus) Error() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg, s.errVisible
}
