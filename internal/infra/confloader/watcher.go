package confloader

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yndnr/pollrelay-go/internal/telemetry/logger"
)

// debounceInterval collapses editor write bursts into one reload.
const debounceInterval = 250 * time.Millisecond

// ReloadFunc is called when the watched configuration file changes.
type ReloadFunc func(path string)

// Watcher watches a configuration file for changes and triggers
// a reload callback.
type Watcher struct {
	path     string
	onReload ReloadFunc
	log      logger.Logger

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// NewWatcher creates a watcher for the given configuration file.
func NewWatcher(path string, onReload ReloadFunc, log logger.Logger) *Watcher {
	if log == nil {
		log = logger.Default()
	}
	return &Watcher{
		path:     path,
		onReload: onReload,
		log:      log,
	}
}

// Start begins watching the configuration file. The parent directory
// is watched rather than the file itself so that atomic rename
// replaces (the common editor and configmap update pattern) are seen.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return fmt.Errorf("watcher already started")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w.fsw = fsw
	w.cancel = cancel
	w.done = make(chan struct{})
	w.started = true

	go w.run(ctx)

	w.log.Info("config watcher started", "path", w.path)
	return nil
}

// Stop stops the watcher and waits for the watch loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}
	w.cancel()
	w.fsw.Close()
	<-w.done
	w.started = false
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	target := filepath.Clean(w.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceInterval, func() {
				w.log.Info("config file changed, reloading", "path", w.path)
				w.onReload(w.path)
			})

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watcher error", "error", err)
		}
	}
}
