package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDebounce = 500 * time.Millisecond

// Watcher re-reads the YAML overlay when it changes and hands the result to
// the registered callbacks. Only file-sourced keys change on reload.
type Watcher struct {
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
	logger    *zap.Logger
	watcher   *fsnotify.Watcher
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// NewWatcher starts watching cfg.ConfigFile. With no file configured it
// returns a watcher that never fires.
func NewWatcher(cfg *Config, logger *zap.Logger) (*Watcher, error) {
	w := &Watcher{
		config: cfg,
		logger: logger,
		stopCh: make(chan struct{}),
	}
	if cfg.ConfigFile == "" {
		return w, nil
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	// Editors replace files on save, so watch the directory.
	if err := fsWatcher.Add(filepath.Dir(cfg.ConfigFile)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch config file: %w", err)
	}
	w.watcher = fsWatcher

	go w.watchLoop()
	logger.Info("Configuration hot reloading enabled", zap.String("file", cfg.ConfigFile))
	return w, nil
}

// OnChange registers a callback to be called when configuration changes
func (w *Watcher) OnChange(callback func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Current returns the latest configuration
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

// Stop stops watching
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

func (w *Watcher) watchLoop() {
	defer w.watcher.Close()

	var debounceTimer *time.Timer
	target := filepath.Clean(w.config.ConfigFile)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(reloadDebounce, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", zap.Error(err))

		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return
		}
	}
}

func (w *Watcher) reload() {
	w.mu.RLock()
	next := *w.config
	w.mu.RUnlock()

	if err := next.LoadFile(next.ConfigFile); err != nil {
		w.logger.Error("Failed to reload configuration", zap.Error(err))
		return
	}
	if err := next.Validate(); err != nil {
		w.logger.Error("Invalid configuration after reload", zap.Error(err))
		return
	}

	w.mu.Lock()
	previous := w.config
	w.config = &next
	callbacks := append([]func(*Config){}, w.callbacks...)
	w.mu.Unlock()

	if previous.LogLevel != next.LogLevel {
		w.logger.Info("Log level changed",
			zap.String("from", previous.LogLevel),
			zap.String("to", next.LogLevel),
		)
	}
	for _, cb := range callbacks {
		cb(&next)
	}
}
