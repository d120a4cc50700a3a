package domain

import "errors"

// Domain errors returned by the public API. All are synchronous,
// caller-avoidable conditions and can be checked with errors.Is.
var (
	// ErrToggleInFlight is returned when a valve toggle is requested for a
	// vessel that already has one in flight.
	ErrToggleInFlight = errors.New("vesselsync: toggle already in progress")

	// ErrUnknownVessel is returned when an operation names a vessel id that
	// is not currently tracked.
	ErrUnknownVessel = errors.New("vesselsync: unknown vessel")

	// ErrEmptyDatasetKey is returned when a load is requested with an empty
	// dataset key.
	ErrEmptyDatasetKey = errors.New("vesselsync: dataset key is empty")

	// ErrAlreadyRunning is returned when Start() is called on a running session.
	ErrAlreadyRunning = errors.New("vesselsync: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped session.
	ErrNotRunning = errors.New("vesselsync: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("vesselsync: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("vesselsync: invalid configuration")
)
