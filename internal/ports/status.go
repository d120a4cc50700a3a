package ports

// StatusSink displays the loading and error indicators. At most one of each
// is visible at a time; a Show call replaces whatever was showing before.
type StatusSink interface {
	ShowLoading(message string)
	HideLoading()
	ShowError(message string)
	ClearError()
}
