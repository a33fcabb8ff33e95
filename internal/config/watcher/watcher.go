// Package watcher reloads a configuration file when it changes on disk.
//
// The watcher observes the file's directory through fsnotify, so editors
// that save by writing a temporary file and renaming it over the original
// are seen as well. Bursts of events are debounced into a single reload.
package watcher

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/textcore/internal/config"
	"github.com/dshills/textcore/internal/diag"
)

// ErrWatcherClosed is returned by operations on a closed watcher.
var ErrWatcherClosed = errors.New("watcher is closed")

// DefaultDebounce is the quiet period before a reload.
const DefaultDebounce = 100 * time.Millisecond

// ReloadFunc receives every successfully loaded configuration.
type ReloadFunc func(cfg config.Config)

// ErrorFunc receives load failures and fsnotify errors.
type ErrorFunc func(err error)

// LoadFunc loads the configuration at path.
type LoadFunc func(path string) (config.Config, error)

// Stats reports watcher activity.
type Stats struct {
	Reloads  int64
	Failures int64
	Errors   int64
}

// Watcher watches one configuration file.
type Watcher struct {
	mu sync.Mutex

	fsw  *fsnotify.Watcher
	path string

	load     LoadFunc
	onReload ReloadFunc
	onError  ErrorFunc
	debounce time.Duration
	logger   *diag.Logger

	reloads   atomic.Int64
	failures  atomic.Int64
	watchErrs atomic.Int64

	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce duration for rapid changes. Zero reloads
// on every event.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLoader replaces config.LoadFile.
func WithLoader(load LoadFunc) Option {
	return func(w *Watcher) {
		if load != nil {
			w.load = load
		}
	}
}

// WithErrorHandler receives load failures and watch errors.
func WithErrorHandler(fn ErrorFunc) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// WithLogger sets the diagnostics sink.
func WithLogger(l *diag.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New starts watching path and calls onReload with the loaded
// configuration after every change. The file need not exist yet, but its
// directory must.
func New(path string, onReload ReloadFunc, opts ...Option) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     absPath,
		load:     config.LoadFile,
		onReload: onReload,
		debounce: DefaultDebounce,
		logger:   diag.Nop(),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.WithComponent("config-watcher")

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(absPath), err)
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.processLoop()

	w.logger.Debug("watching %s", absPath)
	return w, nil
}

// Path returns the absolute path of the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Reload loads the file immediately, outside the event loop.
func (w *Watcher) Reload() error {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return ErrWatcherClosed
	}
	return w.reload()
}

// Stats returns reload and error counters.
func (w *Watcher) Stats() Stats {
	return Stats{
		Reloads:  w.reloads.Load(),
		Failures: w.failures.Load(),
		Errors:   w.watchErrs.Load(),
	}
}

// Close stops the watcher and waits for the event loop to exit.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.wg.Wait()
	return w.fsw.Close()
}

// processLoop handles incoming fsnotify events.
func (w *Watcher) processLoop() {
	defer w.wg.Done()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if w.debounce == 0 {
				_ = w.reload()
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			_ = w.reload()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.watchErrs.Add(1)
			w.logger.Warn("watch error: %v", err)
			w.notifyError(err)
		}
	}
}

// relevant reports whether ev changed the watched file's contents.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}

func (w *Watcher) reload() error {
	cfg, err := w.load(w.path)
	if err != nil {
		w.failures.Add(1)
		w.logger.Warn("reload of %s failed: %v", w.path, err)
		w.notifyError(err)
		return err
	}

	w.reloads.Add(1)
	w.logger.Info("reloaded %s", w.path)
	if w.onReload != nil {
		w.safeCall(func() { w.onReload(cfg) })
	}
	return nil
}

func (w *Watcher) notifyError(err error) {
	if w.onError != nil {
		w.safeCall(func() { w.onError(err) })
	}
}

// safeCall runs a callback with panic recovery so a panicking handler does
// not stop the watcher goroutine.
func (w *Watcher) safeCall(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("handler panic: %v", r)
		}
	}()
	fn()
}
