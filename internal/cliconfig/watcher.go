package cliconfig

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher monitors the config file via fsnotify and delivers re-validated
// configurations to a callback. Editors typically replace files on save, so
// the containing directory is watched rather than the file itself.
type Watcher struct {
	path          string
	base          Config
	onChange      func(Config)
	logger        zerolog.Logger
	debounceDelay time.Duration

	mu       sync.Mutex
	debounce *time.Timer
}

// NewWatcher creates a watcher for the config file at path. base is the
// configuration the file is layered onto; onChange receives each valid
// reload.
func NewWatcher(path string, base Config, onChange func(Config), logger zerolog.Logger) *Watcher {
	return &Watcher{
		path:          path,
		base:          base,
		onChange:      onChange,
		logger:        logger,
		debounceDelay: 100 * time.Millisecond,
	}
}

// Run watches until the context is canceled. A missing config file is not an
// error; the watcher waits for it to appear.
func (w *Watcher) Run(ctx context.Context) {
	if w.path == "" {
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Error().Err(err).Msg("config watcher: failed to create watcher")
		return
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		w.logger.Error().Err(err).Str("dir", dir).Msg("config watcher: failed to watch")
		return
	}

	w.logger.Info().Str("path", w.path).Msg("config watcher started")

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()
		case werr, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(werr).Msg("config watcher error")
		}
	}
}

// scheduleReload debounces bursts of file events into one reload.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(w.debounceDelay, w.reload)
}

func (w *Watcher) reload() {
	fc, err := LoadFileConfig(w.path)
	if err != nil {
		w.logger.Warn().Err(err).Msg("config reload failed")
		return
	}

	cfg := w.base
	if err := ApplyFileConfig(&cfg, fc, nil); err != nil {
		w.logger.Warn().Err(err).Msg("config reload rejected")
		return
	}
	if err := cfg.Validate(); err != nil {
		w.logger.Warn().Err(err).Msg("config reload invalid")
		return
	}

	w.logger.Info().Msg("configuration reloaded")
	w.onChange(cfg)
}
