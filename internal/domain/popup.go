package domain

import "fmt"

// Popup is the structured view-model for a vessel's marker popup. Rendering
// code derives the popup body from this value alone, so a valve update
// re-renders the popup instead of splicing strings into prior markup.
type Popup struct {
	Name      string
	ID        int64
	Lat       float64
	Lng       float64
	ValveOpen bool
}

// PopupFor builds the popup view-model for a vessel.
func PopupFor(v Vessel) Popup {
	return Popup{
		Name:      v.Name,
		ID:        v.ID,
		Lat:       v.Lat,
		Lng:       v.Lng,
		ValveOpen: v.ValveOpen,
	}
}

// ValveLabel returns the display label for the valve state.
func (p Popup) ValveLabel() string {
	if p.ValveOpen {
		return "OPEN"
	}
	return "CLOSED"
}

// ToggleLabel returns the action label for the toggle control.
func (p Popup) ToggleLabel() string {
	if p.ValveOpen {
		return "Close Valve"
	}
	return "Open Valve"
}

// Position renders the coordinates with the precision the backend uses.
func (p Popup) Position() string {
	return fmt.Sprintf("%.6f, %.6f", p.Lat, p.Lng)
}
