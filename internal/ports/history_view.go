package ports

import "github.com/bluefin-labs/vesselsync/internal/domain"

// HistoryView displays the audit log. Every render call replaces the whole
// visible list; entries arrive in server order and must not be re-sorted.
type HistoryView interface {
	// RenderEntries replaces the visible list with the given entries.
	RenderEntries(entries []domain.HistoryEntry)

	// RenderEmpty shows the explicit "no entries" state.
	RenderEmpty()

	// RenderError shows a fetch failure inline in the feed area.
	RenderError(message string)
}
