// Package web renders the current session state into a self-contained
// Leaflet HTML page: land and zone polygon layers, vessel markers with
// popups, the valve-open history table, and the status banners.
//
// The page is a write-only rendering surface. It implements the rendering
// ports so the registry owns real marker handles, but it never mutates
// synchronization state itself.
package web

import (
	"bytes"
	"html/template"
	"io"
	"os"
	"sync"

	"github.com/bluefin-labs/vesselsync/internal/domain"
	"github.com/bluefin-labs/vesselsync/internal/ports"
)

var pageTemplate = template.Must(template.New("page").Parse(pageTmpl))

// Page accumulates display state and writes it out as a Leaflet map page.
type Page struct {
	mu sync.Mutex

	title   string
	hasView bool
	center  domain.LatLng
	zoom    int

	land string
	zone string

	markers []*pageMarker

	loading    string
	hasLoading bool
	errMsg     string
	hasError   bool

	entries      []domain.HistoryEntry
	historyEmpty bool
	historyErr   string
	hasHistory   bool
}

// pageMarker is the marker handle for a web page surface.
type pageMarker struct {
	vessel domain.Vessel
}

// NewPage creates an empty page with the given title.
func NewPage(title string) *Page {
	if title == "" {
		title = "Vessel Valve Monitor"
	}
	return &Page{title: title, zoom: 6}
}

// AddMarker records a marker for the vessel and returns its handle.
func (p *Page) AddMarker(v domain.Vessel) ports.MarkerHandle {
	m := &pageMarker{vessel: v}
	p.mu.Lock()
	p.markers = append(p.markers, m)
	p.mu.Unlock()
	return m
}

// UpdateMarker re-renders a marker from the vessel's current state.
func (p *Page) UpdateMarker(h ports.MarkerHandle, v domain.Vessel) {
	m, ok := h.(*pageMarker)
	if !ok {
		return
	}
	p.mu.Lock()
	m.vessel = v
	p.mu.Unlock()
}

// RemoveMarker drops a marker from the page.
func (p *Page) RemoveMarker(h ports.MarkerHandle) {
	m, ok := h.(*pageMarker)
	if !ok {
		return
	}
	p.mu.Lock()
	for i, cur := range p.markers {
		if cur == m {
			p.markers = append(p.markers[:i], p.markers[i+1:]...)
			break
		}
	}
	p.mu.Unlock()
}

// SetZone replaces the zone layer.
func (p *Page) SetZone(geojson string) {
	p.mu.Lock()
	p.zone = geojson
	p.mu.Unlock()
}

// ClearZone removes the zone layer.
func (p *Page) ClearZone() {
	p.SetZone("")
}

// SetLand replaces the land layer.
func (p *Page) SetLand(geojson string) {
	p.mu.Lock()
	p.land = geojson
	p.mu.Unlock()
}

// ClearLand removes the land layer.
func (p *Page) ClearLand() {
	p.SetLand("")
}

// SetView repositions the initial viewport.
func (p *Page) SetView(center domain.LatLng, zoom int) {
	p.mu.Lock()
	p.center = center
	p.zoom = zoom
	p.hasView = true
	p.mu.Unlock()
}

// ShowLoading sets the loading banner, replacing any prior one.
func (p *Page) ShowLoading(message string) {
	p.mu.Lock()
	p.loading = message
	p.hasLoading = true
	p.mu.Unlock()
}

// HideLoading removes the loading banner.
func (p *Page) HideLoading() {
	p.mu.Lock()
	p.loading = ""
	p.hasLoading = false
	p.mu.Unlock()
}

// ShowError sets the error banner, replacing any prior one.
func (p *Page) ShowError(message string) {
	p.mu.Lock()
	p.errMsg = message
	p.hasError = true
	p.mu.Unlock()
}

// ClearError removes the error banner.
func (p *Page) ClearError() {
	p.mu.Lock()
	p.errMsg = ""
	p.hasError = false
	p.mu.Unlock()
}

// RenderEntries replaces the history table contents.
func (p *Page) RenderEntries(entries []domain.HistoryEntry) {
	p.mu.Lock()
	p.entries = append([]domain.HistoryEntry(nil), entries...)
	p.historyEmpty = false
	p.historyErr = ""
	p.hasHistory = true
	p.mu.Unlock()
}

// RenderEmpty shows the explicit no-entries state.
func (p *Page) RenderEmpty() {
	p.mu.Lock()
	p.entries = nil
	p.historyEmpty = true
	p.historyErr = ""
	p.hasHistory = true
	p.mu.Unlock()
}

// RenderError shows a history fetch failure inline.
func (p *Page) RenderError(message string) {
	p.mu.Lock()
	p.entries = nil
	p.historyEmpty = false
	p.historyErr = message
	p.hasHistory = true
	p.mu.Unlock()
}

// vesselView is the per-marker payload embedded in the page script.
type vesselView struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	ValveOpen bool    `json:"valveOpen"`
	Valve     string  `json:"valve"`
	Position  string  `json:"position"`
}

type pageData struct {
	Title   string
	HasView bool
	Lat     float64
	Lng     float64
	Zoom    int

	Land string
	Zone string

	Vessels []vesselView

	Loading    string
	HasLoading bool
	ErrMsg     string
	HasError   bool

	Entries      []domain.HistoryEntry
	HistoryEmpty bool
	HistoryErr   string
	HasHistory   bool
}

// snapshot copies the page state into template data under the lock.
func (p *Page) snapshot() pageData {
	p.mu.Lock()
	defer p.mu.Unlock()

	data := pageData{
		Title:        p.title,
		HasView:      p.hasView,
		Lat:          p.center.Lat,
		Lng:          p.center.Lng,
		Zoom:         p.zoom,
		Land:         p.land,
		Zone:         p.zone,
		Loading:      p.loading,
		HasLoading:   p.hasLoading,
		ErrMsg:       p.errMsg,
		HasError:     p.hasError,
		Entries:      append([]domain.HistoryEntry(nil), p.entries...),
		HistoryEmpty: p.historyEmpty,
		HistoryErr:   p.historyErr,
		HasHistory:   p.hasHistory,
	}
	for _, m := range p.markers {
		popup := domain.PopupFor(m.vessel)
		data.Vessels = append(data.Vessels, vesselView{
			ID:        m.vessel.ID,
			Name:      m.vessel.Name,
			Lat:       m.vessel.Lat,
			Lng:       m.vessel.Lng,
			ValveOpen: m.vessel.ValveOpen,
			Valve:     popup.ValveLabel(),
			Position:  popup.Position(),
		})
	}
	return data
}

// WriteTo renders the page as HTML.
func (p *Page) WriteTo(w io.Writer) error {
	return pageTemplate.Execute(w, p.snapshot())
}

// WriteFile renders the page into a file.
func (p *Page) WriteFile(path string) error {
	var buf bytes.Buffer
	if err := p.WriteTo(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// MarkerCount returns the number of markers currently on the page.
func (p *Page) MarkerCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.markers)
}
