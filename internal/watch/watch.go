// Package watch detects external modification of a buffer's backing file.
//
// The watcher monitors the file's directory rather than the file itself, so
// replace-by-rename saves (including the engine's own commits) are seen as
// changes to the watched path. Rapid sequences of events are debounced into
// a single notification.
package watch

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Errors returned by watcher operations.
var (
	// ErrWatcherClosed indicates the watcher has been closed.
	ErrWatcherClosed = errors.New("watcher is closed")

	// ErrPathNotExist indicates the watched file's directory does not exist.
	ErrPathNotExist = errors.New("path does not exist")
)

// Event reports a change to the watched file.
type Event struct {
	// Path is the watched file path.
	Path string

	// Removed is true when the file was removed or renamed away rather
	// than rewritten.
	Removed bool
}

// Watcher watches a single file for external changes.
type Watcher struct {
	fsw   *fsnotify.Watcher
	path  string
	delay time.Duration

	events chan Event
	errors chan error

	mu        sync.Mutex
	suspended bool
	closed    bool
	closeCh   chan struct{}
	closedWg  sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the coalescing window for rapid event sequences.
// The default is 100ms.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// New creates a watcher for the file at path. The file's directory must
// exist; the file itself may be created later.
func New(path string, opts ...Option) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(absPath)
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPathNotExist
		}
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		path:    absPath,
		delay:   100 * time.Millisecond,
		events:  make(chan Event, 16),
		errors:  make(chan error, 16),
		closeCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Events returns the debounced event channel.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Suspend discards events until Resume is called. Callers committing
// through the engine use this to skip their own replace-by-rename.
func (w *Watcher) Suspend() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.suspended = true
}

// Resume re-enables event delivery.
func (w *Watcher) Resume() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.suspended = false
}

func (w *Watcher) isSuspended() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.suspended
}

// Close stops the watcher and closes its channels.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.closedWg.Wait()
	close(w.events)
	close(w.errors)
	return err
}

// processLoop filters raw events for the watched path and coalesces them.
func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending Event
	)

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if w.isSuspended() {
				continue
			}
			pending.Path = w.path
			switch {
			case ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename):
				pending.Removed = true
			case ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write):
				pending.Removed = false
			}
			if timer == nil {
				timer = time.NewTimer(w.delay)
				timerC = timer.C
			} else {
				timer.Reset(w.delay)
			}

		case <-timerC:
			select {
			case w.events <- pending:
			default:
				// Receiver is not keeping up; drop rather than block.
			}
			timer = nil
			timerC = nil
			pending = Event{}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}

		case <-w.closeCh:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}
