package descriptor

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/grovetools/hookplan/logging"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is how long the watcher waits after the last write before reloading.
const DefaultDebounce = 200 * time.Millisecond

// WatchEvent is the result of reloading the watched descriptor.
type WatchEvent struct {
	Path       string
	Descriptor *Descriptor
	Err        error
}

// Watcher reloads a descriptor file whenever it changes on disk.
type Watcher struct {
	path     string
	loader   *Loader
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onReload func(WatchEvent)
	logger   *logrus.Entry

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher creates a watcher for path. The parent directory is watched, not
// the file, because editors commonly replace files by renaming over them.
func NewWatcher(path string, loader *Loader, debounce time.Duration, onReload func(WatchEvent)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if loader == nil {
		loader = NewLoader()
	}

	return &Watcher{
		path:     abs,
		loader:   loader,
		watcher:  fw,
		debounce: debounce,
		onReload: onReload,
		logger:   logging.NewLogger("descriptor-watcher"),
	}, nil
}

// Run delivers reload events until ctx is cancelled. It blocks.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stopTimer()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			w.logger.Debugf("fsnotify event: %s op=%v", event.Name, event.Op)
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.schedule()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Errorf("Watcher error: %v", err)
		case <-ctx.Done():
			w.watcher.Close()
			return ctx.Err()
		}
	}
}

// schedule (re)starts the debounce timer so a burst of writes causes one reload.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) reload() {
	d, err := w.loader.LoadFile(w.path)
	if err != nil {
		w.logger.WithError(err).Debug("Descriptor reload failed validation")
	} else {
		w.logger.Infof("Descriptor reloaded: %s", filepath.Base(w.path))
	}
	if w.onReload != nil {
		w.onReload(WatchEvent{Path: w.path, Descriptor: d, Err: err})
	}
}

// SetLogger replaces the logger reload and error lines are written to.
func (w *Watcher) SetLogger(logger *logrus.Entry) {
	w.logger = logger
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	w.stopTimer()
	return w.watcher.Close()
}
