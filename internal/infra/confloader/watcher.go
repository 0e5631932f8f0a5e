package confloader

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher invokes callbacks when watched configuration files change.
// The containing directory is watched rather than the file itself so
// rename-style saves (vim, kubernetes configmap updates) are seen.
type Watcher struct {
	fsw *fsnotify.Watcher
	log *slog.Logger

	mu       sync.RWMutex
	files    map[string]bool
	onChange []func(string)

	done chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the watcher's logger.
func WithWatcherLogger(log *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.log = log
	}
}

// NewWatcher creates a configuration file watcher.
func NewWatcher(opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:   fsw,
		log:   slog.Default(),
		files: make(map[string]bool),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch registers a file to watch. The file itself need not exist yet;
// its directory must.
func (w *Watcher) Watch(path string) error {
	dir := filepath.Dir(path)
	if err := w.fsw.Add(dir); err != nil {
		w.log.Error("failed to watch directory", "path", dir, "error", err)
		return err
	}

	w.mu.Lock()
	w.files[filepath.Base(path)] = true
	w.mu.Unlock()

	w.log.Debug("watching for changes", "dir", dir, "file", filepath.Base(path))
	return nil
}

// OnChange registers a callback invoked with the changed file's path.
func (w *Watcher) OnChange(cb func(string)) {
	w.mu.Lock()
	w.onChange = append(w.onChange, cb)
	w.mu.Unlock()
}

// Start blocks, dispatching change events, until Stop is called.
func (w *Watcher) Start() {
	w.log.Info("configuration watcher started")

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if !w.watched(ev.Name) {
				continue
			}
			w.log.Debug("configuration file changed", "file", ev.Name, "op", ev.Op.String())
			w.notify(ev.Name)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Error("configuration watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

// StartAsync starts watching in a goroutine.
func (w *Watcher) StartAsync() {
	go w.Start()
}

// Stop stops the watcher and releases the fsnotify handle.
func (w *Watcher) Stop() error {
	close(w.done)
	if err := w.fsw.Close(); err != nil {
		w.log.Error("failed to close watcher", "error", err)
		return err
	}
	w.log.Info("configuration watcher stopped")
	return nil
}

// watched reports whether the event path names a registered file.
// Other files in a watched directory are ignored.
func (w *Watcher) watched(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[filepath.Base(path)]
}

// notify calls every registered callback.
func (w *Watcher) notify(path string) {
	w.mu.RLock()
	cbs := w.onChange
	w.mu.RUnlock()
	for _, cb := range cbs {
		cb(path)
	}
}
