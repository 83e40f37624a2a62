package provider

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/okian/scout/pkg/logger"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher fires a callback when the dataset file changes on disk. It
// watches the parent directory, not the file itself, so atomic replaces
// (write to temp, rename over) keep triggering.
type Watcher struct {
	path     string
	onChange func()
	debounce time.Duration
	log      logger.Logger
}

// WatchOption applies a configuration option to the Watcher.
type WatchOption func(*Watcher)

// WithDebounce collapses change bursts within d into one callback.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// NewWatcher constructs a watcher for the dataset file at path. onChange
// runs on the watcher goroutine; keep it non-blocking.
func NewWatcher(path string, onChange func(), opts ...WatchOption) *Watcher {
	w := &Watcher{
		path:     path,
		onChange: onChange,
		debounce: defaultDebounce,
		log:      logger.Named("provider.watch"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run blocks watching for changes until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create file watcher")
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return errors.Wrapf(err, "watch %s", dir)
	}
	base := filepath.Base(w.path)
	w.log.Info(ctx, "watching dataset file", logger.String("path", w.path))

	var last time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			// Editors and downloaders fire bursts of writes.
			if time.Since(last) < w.debounce {
				continue
			}
			last = time.Now()
			w.log.Info(ctx, "dataset file changed",
				logger.String("op", event.Op.String()))
			w.onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn(ctx, "file watcher error", logger.Error(err))
		}
	}
}
