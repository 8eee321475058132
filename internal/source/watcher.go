package source

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"

	"github.com/dshills/storysource/internal/event"
	"github.com/dshills/storysource/internal/panel"
	"github.com/dshills/storysource/internal/region"
)

// DefaultDebounce is the delay between the last file change and the reload.
const DefaultDebounce = 100 * time.Millisecond

// ErrWatcherClosed is returned by Run after Close.
var ErrWatcherClosed = errors.New("watcher is closed")

// Watcher reloads a Document when its files change and publishes it on a
// bus under panel.TopicSourceReplaced.
//
// The parent directories are watched rather than the files, so editors
// that save by renaming a temporary file are seen too.
type Watcher struct {
	doc    Document
	bus    event.Bus
	delay  time.Duration
	source string
	log    commonlog.Logger

	fsw   *fsnotify.Watcher
	files map[string]bool

	mu     sync.Mutex
	closed bool
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the reload delay. Non-positive values use DefaultDebounce.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithEventSource sets the source name stamped on published events.
func WithEventSource(source string) WatcherOption {
	return func(w *Watcher) {
		if source != "" {
			w.source = source
		}
	}
}

// NewWatcher starts watching the files of doc. Changes are only acted on
// while Run is executing.
func NewWatcher(doc Document, bus event.Bus, opts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{
		doc:    doc,
		bus:    bus,
		delay:  DefaultDebounce,
		source: "source",
		log:    commonlog.GetLogger("storysource.source"),
		files:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	dirs := make(map[string]bool)
	for _, p := range doc.Paths() {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fsw.Close()
			return nil, err
		}
		w.files[abs] = true

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	w.fsw = fsw
	return w, nil
}

// Document returns the watched document.
func (w *Watcher) Document() Document {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.doc
}

// SetActiveKey changes the region made active by later reloads.
func (w *Watcher) SetActiveKey(key region.Key) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.doc.ActiveKey = key
}

// Reload loads the document and publishes it. Handler errors from the bus,
// such as a panel rejecting the document, are returned.
func (w *Watcher) Reload(ctx context.Context) error {
	msg, err := w.Document().Load()
	if err != nil {
		return err
	}
	return w.bus.Publish(ctx, event.NewEvent(panel.TopicSourceReplaced, msg, w.source))
}

// Run processes file changes until ctx is done or the watcher is closed.
// Bursts of changes within the debounce delay cause a single reload.
// Reload failures are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	w.mu.Unlock()

	timer := time.NewTimer(w.delay)
	timer.Stop()
	defer timer.Stop()

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debugf("%s %s", ev.Op, ev.Name)
			timer.Reset(w.delay)
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Errorf("watch error: %s", err)

		case <-fire:
			fire = nil
			if err := w.Reload(ctx); err != nil {
				w.log.Warningf("reload failed: %s", err)
				continue
			}
			w.log.Infof("reloaded %s", w.Document().TextPath)
		}
	}
}

// relevant reports whether ev changes one of the document files.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return w.files[abs]
}

// Close stops watching. Run returns once its channels are closed.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.fsw.Close()
}
