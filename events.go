package vesselsync

// StateChangeEvent is emitted on lifecycle state transitions.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// LoadEvent is emitted when a snapshot load resolves. Discarded is true when
// the response lost the sequence race and was dropped without touching state.
type LoadEvent struct {
	Dataset     string
	VesselCount int
	Warnings    []string
	Discarded   bool
}

// ToggleEvent is emitted when a valve toggle attempt completes.
type ToggleEvent struct {
	VesselID  int64
	ValveOpen bool
	Err       error
}

// HistoryEvent is emitted after a successful history refresh.
type HistoryEvent struct {
	EntryCount int
}

// EventHandler receives session events. All callbacks are invoked
// synchronously from the goroutine that produced the event; implementations
// should return quickly.
type EventHandler interface {
	OnStateChange(StateChangeEvent)
	OnLoad(LoadEvent)
	OnToggle(ToggleEvent)
	OnHistory(HistoryEvent)
}
