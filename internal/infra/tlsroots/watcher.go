package tlsroots

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher serves a key pair that is re-read from disk whenever the
// files change, so rotated certificates are picked up without a
// restart.
type Watcher struct {
	certFile string
	keyFile  string
	log      *slog.Logger
	debounce time.Duration

	mu      sync.RWMutex
	current *tls.Certificate

	loadMu   sync.Mutex
	lastLoad time.Time

	done chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithLogger sets the watcher's logger.
func WithLogger(log *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.log = log
	}
}

// WithDebounce sets the minimum interval between reloads.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// NewWatcher creates a Watcher and loads the initial key pair.
func NewWatcher(certFile, keyFile string, opts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{
		certFile: certFile,
		keyFile:  keyFile,
		log:      slog.Default(),
		debounce: 500 * time.Millisecond,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.load(); err != nil {
		return nil, fmt.Errorf("tlsroots: initial load: %w", err)
	}
	return w, nil
}

// Start watches for changes and blocks until Stop is called. The
// directories holding the pair are watched rather than the files
// themselves, so rename-style replacement is seen.
func (w *Watcher) Start() error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("tlsroots: create watcher: %w", err)
	}
	defer fw.Close()

	seen := make(map[string]bool)
	for _, f := range []string{w.certFile, w.keyFile} {
		dir := filepath.Dir(f)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("tlsroots: watch %s: %w", dir, err)
		}
	}

	w.log.Info("certificate watcher started",
		"cert_file", w.certFile,
		"key_file", w.keyFile)

	for {
		select {
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			if err := w.reload(); err != nil {
				w.log.Error("certificate reload failed",
					"error", err,
					"file", ev.Name)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("certificate watcher error", "error", err)

		case <-w.done:
			return nil
		}
	}
}

// StartAsync starts watching in a goroutine.
func (w *Watcher) StartAsync() {
	go func() {
		if err := w.Start(); err != nil {
			w.log.Error("certificate watcher stopped with error", "error", err)
		}
	}()
}

// Stop stops watching.
func (w *Watcher) Stop() {
	close(w.done)
}

// GetCertificate implements tls.Config.GetCertificate.
func (w *Watcher) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current, nil
}

// GetClientCertificate implements tls.Config.GetClientCertificate.
func (w *Watcher) GetClientCertificate(*tls.CertificateRequestInfo) (*tls.Certificate, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current, nil
}

// relevant reports whether an fsnotify event concerns the watched pair.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	base := filepath.Base(ev.Name)
	return base == filepath.Base(w.certFile) || base == filepath.Base(w.keyFile)
}

// reload loads the pair unless a reload ran within the debounce
// window. Cert and key are usually rewritten back to back; one reload
// covers both.
func (w *Watcher) reload() error {
	w.loadMu.Lock()
	defer w.loadMu.Unlock()

	if time.Since(w.lastLoad) < w.debounce {
		return nil
	}
	w.lastLoad = time.Now()

	// Let the writer finish the second file of the pair.
	time.Sleep(100 * time.Millisecond)

	return w.load()
}

func (w *Watcher) load() error {
	pair, err := tls.LoadX509KeyPair(w.certFile, w.keyFile)
	if err != nil {
		return fmt.Errorf("load key pair: %w", err)
	}

	w.mu.Lock()
	w.current = &pair
	w.mu.Unlock()

	w.log.Info("certificate loaded", "cert_file", w.certFile)
	return nil
}
