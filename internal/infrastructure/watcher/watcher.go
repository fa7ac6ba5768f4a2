// Package watcher reloads the meal plan when its files are edited outside
// the application
package watcher

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alchemorsel/dietplanner/internal/ports/inbound"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce collapses bursts of events into one reload
const DefaultDebounce = 250 * time.Millisecond

// Reloader reads the plan again from storage
type Reloader interface {
	Reload(ctx context.Context) (*inbound.LoadReport, error)
}

// Filter reports whether a changed path should trigger a reload
type Filter func(path string) bool

// FileWatcher triggers a debounced Reload on relevant file changes
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	reloader Reloader
	filter   Filter
	logger   *zap.Logger

	mutex         sync.Mutex
	timer         *time.Timer
	debounceDelay time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewFileWatcher watches paths (directories, not recursive). A nil filter
// accepts every path.
func NewFileWatcher(paths []string, filter Filter, reloader Reloader, debounce time.Duration, logger *zap.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	for _, path := range paths {
		if err := watcher.Add(path); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", path, err)
		}
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if filter == nil {
		filter = func(string) bool { return true }
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &FileWatcher{
		watcher:       watcher,
		reloader:      reloader,
		filter:        filter,
		logger:        logger.Named("watcher"),
		debounceDelay: debounce,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

// Start begins file watching
func (fw *FileWatcher) Start() {
	fw.wg.Add(1)
	go fw.watchLoop()
	fw.logger.Info("File watcher started",
		zap.Strings("paths", fw.watcher.WatchList()),
		zap.Duration("debounce", fw.debounceDelay),
	)
}

// Stop gracefully shuts down the file watcher; a pending reload is dropped
func (fw *FileWatcher) Stop() error {
	fw.cancel()
	err := fw.watcher.Close()
	fw.wg.Wait()

	fw.mutex.Lock()
	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.mutex.Unlock()
	return err
}

// watchLoop is the main event loop for file watching
func (fw *FileWatcher) watchLoop() {
	defer fw.wg.Done()
	for {
		select {
		case <-fw.ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("File watcher error", zap.Error(err))
		}
	}
}

// handleEvent schedules a reload for a relevant change
func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return
	}
	// Skip temporary and backup files
	if strings.HasSuffix(event.Name, "~") || strings.HasSuffix(event.Name, ".tmp") {
		return
	}
	if !fw.filter(event.Name) {
		return
	}

	fw.logger.Debug("File changed",
		zap.String("path", event.Name),
		zap.String("op", event.Op.String()),
	)

	fw.mutex.Lock()
	defer fw.mutex.Unlock()

	// Debounce rapid events
	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.timer = time.AfterFunc(fw.debounceDelay, fw.reload)
}

func (fw *FileWatcher) reload() {
	if fw.ctx.Err() != nil {
		return
	}
	report, err := fw.reloader.Reload(fw.ctx)
	if err != nil {
		fw.logger.Error("Reload after file change failed", zap.Error(err))
		return
	}
	fw.logger.Info("Meal plan reloaded after file change",
		zap.Int("recipes", report.Recipes),
		zap.Int("meals", report.Meals),
	)
}
