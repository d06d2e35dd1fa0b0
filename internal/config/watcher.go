package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Handler receives reloaded settings. On error the settings are the zero
// value and the previous settings should stay in effect.
type Handler func(s Settings, err error)

// Watcher reloads the settings file whenever it changes.
//
// The file's directory is watched rather than the file, so editors that
// save by renaming a temporary file are followed. Bursts of events are
// coalesced into a single reload once no event arrived for the debounce
// delay.
type Watcher struct {
	loader  *Loader
	handler Handler
	path    string
	delay   time.Duration
	logger  zerolog.Logger

	fsw *fsnotify.Watcher

	mu       sync.Mutex
	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithWatchLogger sets the logger for reload events.
func WithWatchLogger(l zerolog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = l
	}
}

// NewWatcher starts watching the loader's settings file.
func NewWatcher(loader *Loader, handler Handler, opts ...WatcherOption) (*Watcher, error) {
	if loader.Path() == "" {
		return nil, ErrNoConfigFile
	}
	path, err := filepath.Abs(loader.Path())
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		loader:  loader,
		handler: handler,
		path:    path,
		delay:   100 * time.Millisecond,
		logger:  zerolog.Nop(),
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	w.fsw = fsw

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// processLoop debounces file events and reloads.
func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || ev.Op&relevant == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.delay)
			} else {
				timer.Reset(w.delay)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			s, err := w.loader.Load()
			if err != nil {
				w.logger.Warn().Err(err).Str("path", w.path).Msg("config reload failed")
			} else {
				w.logger.Debug().Str("path", w.path).Msg("config reloaded")
			}
			w.handler(s, err)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.handler(Settings{}, err)
		}
	}
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.closedWg.Wait()
	return w.fsw.Close()
}
