// Package watch re-runs extraction when an input file changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Config contains configuration for the watcher.
type Config struct {
	// Path is the input file or a directory of inputs.
	Path string

	// Debounce is the quiet period after the last change before the
	// callback runs (default: 200ms).
	Debounce time.Duration

	// Extensions filters files when Path is a directory.
	Extensions []string
}

// Watcher watches input files and calls back after changes settle.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	config   Config
	debounce *Debouncer

	// target is the single watched file, empty in directory mode
	target string

	mu      sync.Mutex
	running bool
}

// New creates a watcher.
func New(cfg Config, logger *slog.Logger) (*Watcher, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 200 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher:  w,
		logger:   logger,
		config:   cfg,
		debounce: NewDebouncer(cfg.Debounce),
	}, nil
}

// Watch blocks until ctx is done, calling onChange with the changed path
// once events have been quiet for the debounce interval. Callback errors are
// logged and watching continues.
func (w *Watcher) Watch(ctx context.Context, onChange func(path string) error) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.debounce.Stop()
		w.watcher.Close()
	}()

	if err := w.addPath(w.config.Path); err != nil {
		return fmt.Errorf("failed to watch path: %w", err)
	}

	w.logger.Info("File watcher started",
		"path", w.config.Path,
		"debounce_ms", w.config.Debounce.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("File watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if w.isNewDir(event) {
				w.watchNewDir(event.Name, onChange)
				continue
			}
			if !w.shouldProcessEvent(event) {
				continue
			}

			w.logger.Debug("File event detected", "path", event.Name, "op", event.Op.String())

			path := event.Name
			w.debounce.Trigger(func() {
				w.logger.Info("Re-running extraction", "path", path)
				if err := onChange(path); err != nil {
					w.logger.Error("Extraction failed", "path", path, "error", err)
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("File watcher error", "error", err)
		}
	}
}

// addPath watches a directory tree, or the directory holding a single file
// so that editors that replace the file on save are still seen.
func (w *Watcher) addPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		w.target = filepath.Clean(path)
		return w.watcher.Add(filepath.Dir(w.target))
	}

	_, err = w.addTree(path)
	return err
}

// addTree watches root and every non-hidden directory below it. It returns
// the matching input files already present.
func (w *Watcher) addTree(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		hidden := strings.HasPrefix(filepath.Base(p), ".") && p != root
		if info.IsDir() {
			if hidden {
				return filepath.SkipDir
			}
			if err := w.watcher.Add(p); err != nil {
				return fmt.Errorf("failed to watch directory %q: %w", p, err)
			}
			return nil
		}
		if !hidden && w.hasValidExtension(strings.ToLower(filepath.Ext(p))) {
			files = append(files, p)
		}
		return nil
	})
	return files, err
}

// isNewDir reports a directory created under a watched tree.
func (w *Watcher) isNewDir(event fsnotify.Event) bool {
	if w.target != "" || !event.Op.Has(fsnotify.Create) {
		return false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	info, err := os.Stat(event.Name)
	return err == nil && info.IsDir()
}

// watchNewDir starts watching a directory created after Watch began. Inputs
// that landed in it before the watch was registered are run as changes.
func (w *Watcher) watchNewDir(dir string, onChange func(path string) error) {
	files, err := w.addTree(dir)
	if err != nil {
		w.logger.Error("Failed to watch new directory", "path", dir, "error", err)
		return
	}
	w.logger.Debug("Watching new directory", "path", dir)

	for _, path := range files {
		w.debounce.Trigger(func() {
			w.logger.Info("Re-running extraction", "path", path)
			if err := onChange(path); err != nil {
				w.logger.Error("Extraction failed", "path", path, "error", err)
			}
		})
	}
}

// shouldProcessEvent determines if an event should trigger a run.
func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	if w.target != "" {
		return filepath.Clean(event.Name) == w.target
	}
	return w.hasValidExtension(strings.ToLower(filepath.Ext(event.Name)))
}

func (w *Watcher) hasValidExtension(ext string) bool {
	if len(w.config.Extensions) == 0 {
		return true
	}
	for _, valid := range w.config.Extensions {
		if ext == strings.ToLower(valid) {
			return true
		}
	}
	return false
}

// Debouncer collects rapid events and runs the latest callback only after
// a quiet period.
type Debouncer struct {
	interval time.Duration
	timer    *time.Timer
	mu       sync.Mutex
	callback func()
	stopped  bool
}

// NewDebouncer creates a new debouncer.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Trigger schedules callback, replacing any pending one.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.callback = callback
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		cb := d.callback
		d.callback = nil
		stopped := d.stopped
		d.mu.Unlock()

		if cb != nil && !stopped {
			cb()
		}
	})
}

// Stop cancels any pending callback. Later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
