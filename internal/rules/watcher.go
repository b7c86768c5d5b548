package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/errors"
)

// Watcher reloads a rules file when it changes and hands the new Set to a callback.
// A file that fails to parse is logged and the previous Set stays in use.
type Watcher struct {
	mu sync.Mutex

	path          string
	lastModTime   time.Time
	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}

	onReload func(*Set)
	logger   *errors.Logger

	running bool
}

// NewWatcher creates a watcher for path. debounceDelay defaults to one second.
func NewWatcher(path string, debounceDelay time.Duration, onReload func(*Set), logger *errors.Logger) *Watcher {
	if debounceDelay == 0 {
		debounceDelay = time.Second
	}
	return &Watcher{
		path:          path,
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1),
		onReload:      onReload,
		logger:        logger,
	}
}

// Start begins watching the file and its directory.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("rules watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	w.fsWatcher = watcher

	if stat, err := os.Stat(w.path); err == nil {
		w.lastModTime = stat.ModTime()
	}

	// Editors and config management usually replace the file by rename,
	// which only shows up on the directory.
	dir := filepath.Dir(w.path)
	if err := w.fsWatcher.Add(dir); err != nil {
		_ = w.fsWatcher.Close()
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	w.running = true
	go w.watchLoop()

	if w.logger != nil {
		w.logger.Info("Rules file watcher started", "file", w.path, "debounce_delay", w.debounceDelay)
	}
	return nil
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	close(w.stopChan)
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.running = false

	if err := w.fsWatcher.Close(); err != nil {
		return fmt.Errorf("failed to close file watcher: %w", err)
	}
	if w.logger != nil {
		w.logger.Info("Rules file watcher stopped")
	}
	return nil
}

// IsRunning returns whether the watcher is currently running
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if w.shouldProcessEvent(event) {
				w.scheduleReload()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.LogError(err, "Rules watcher error")
			}

		case <-w.reloadChan:
			if w.hasChanged() {
				w.reload()
			}

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != filepath.Base(w.path) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (w *Watcher) hasChanged() bool {
	stat, err := os.Stat(w.path)
	if err != nil {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if stat.ModTime().After(w.lastModTime) {
		w.lastModTime = stat.ModTime()
		return true
	}
	return false
}

func (w *Watcher) reload() {
	set, err := LoadFile(w.path)
	if err != nil {
		if w.logger != nil {
			w.logger.LogError(err, "Rules reload failed, keeping previous rules", "file", w.path)
		}
		return
	}
	if w.logger != nil {
		w.logger.Info("Rules file changed, reloaded", "file", w.path, "entries", set.Size())
	}
	w.onReload(set)
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, func() {
		select {
		case w.reloadChan <- struct{}{}:
		default:
		}
	})
}
