package am

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/typeinfer/errors"
	"github.com/teranos/typeinfer/logger"
)

// ChangeCallback is called after a watched file changed
// Receives the path that triggered the change
type ChangeCallback func(path string) error

// FileWatcher watches a set of files (input tables, am.toml) and runs
// callbacks after they change. Rapid events are debounced and callback runs
// are rate limited.
type FileWatcher struct {
	files          map[string]struct{}
	watcher        *fsnotify.Watcher
	callbacks      []ChangeCallback
	mu             sync.Mutex
	runMu          sync.Mutex // held while callbacks run
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	limiter        *rate.Limiter
	pending        string
	logger         *zap.SugaredLogger
}

// WatcherOption configures a FileWatcher
type WatcherOption func(*FileWatcher)

// WithDebounce sets how long the watcher waits for events to settle
func WithDebounce(d time.Duration) WatcherOption {
	return func(fw *FileWatcher) {
		fw.debouncePeriod = d
	}
}

// WithMaxRunsPerMinute caps callback runs. 0 removes the cap.
func WithMaxRunsPerMinute(n int) WatcherOption {
	return func(fw *FileWatcher) {
		if n <= 0 {
			fw.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		fw.limiter = rate.NewLimiter(rate.Limit(float64(n)/60.0), 1)
	}
}

// WithLogger sets the watcher logger
func WithLogger(log *zap.SugaredLogger) WatcherOption {
	return func(fw *FileWatcher) {
		fw.logger = logger.OrNop(log)
	}
}

// NewFileWatcher creates a watcher for paths. Parent directories are watched
// so editors that replace files on save are still seen.
func NewFileWatcher(paths []string, opts ...WatcherOption) (*FileWatcher, error) {
	if len(paths) == 0 {
		return nil, errors.NewInvalidInputError("no files to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	fw := &FileWatcher{
		files:          make(map[string]struct{}, len(paths)),
		watcher:        watcher,
		debouncePeriod: 500 * time.Millisecond,
		limiter:        rate.NewLimiter(rate.Limit(30.0/60.0), 1),
		logger:         logger.ComponentLogger("watch"),
	}
	for _, opt := range opts {
		opt(fw)
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			watcher.Close()
			return nil, errors.Wrapf(err, "failed to resolve %s", p)
		}
		fw.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, errors.Wrapf(err, "failed to watch directory %s", dir)
		}
	}

	return fw, nil
}

// OnChange registers a callback to be called after a watched file changes
func (fw *FileWatcher) OnChange(callback ChangeCallback) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.callbacks = append(fw.callbacks, callback)
}

// Run watches until ctx is done or the watcher is closed
func (fw *FileWatcher) Run(ctx context.Context) error {
	defer fw.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if !fw.relevant(event) {
				continue
			}
			fw.logger.Debugw("Watcher detected change",
				logger.FieldFile, event.Name,
				"op", event.Op.String())
			fw.scheduleRun(ctx, event.Name)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			fw.logger.Warnw("Watcher error",
				logger.FieldError, err)
		}
	}
}

// relevant keeps write/create/rename events on watched, non-backup files
func (fw *FileWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	if isBackupFile(event.Name) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	_, ok := fw.files[abs]
	return ok
}

// scheduleRun debounces rapid file changes and triggers the callbacks
func (fw *FileWatcher) scheduleRun(ctx context.Context, path string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	fw.pending = path
	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}
	fw.debounceTimer = time.AfterFunc(fw.debouncePeriod, func() {
		fw.fire(ctx)
	})
}

// fire runs the callbacks for the latest pending path. Runs never overlap;
// a burst arriving mid-run waits and then sees the newest path.
func (fw *FileWatcher) fire(ctx context.Context) {
	fw.runMu.Lock()
	defer fw.runMu.Unlock()

	if err := fw.limiter.Wait(ctx); err != nil {
		return
	}

	fw.mu.Lock()
	path := fw.pending
	callbacks := make([]ChangeCallback, len(fw.callbacks))
	copy(callbacks, fw.callbacks)
	fw.mu.Unlock()

	for _, callback := range callbacks {
		if err := callback(path); err != nil {
			// Continue calling other callbacks even if one fails
			fw.logger.Warnw("Watch callback error",
				logger.FieldFile, path,
				logger.FieldError, err)
		}
	}
}

func (fw *FileWatcher) stopTimer() {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}
}

// Close stops watching
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
