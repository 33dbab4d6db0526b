package watch

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultExtensions are the ui files whose changes trigger a reload.
var DefaultExtensions = []string{".tmpl", ".yaml", ".json", ".css", ".js"}

// Watcher watches a directory tree and calls onChange for matching writes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	rootDir  string
	exts     map[string]struct{}
	onChange func(relPath string) error
	debounce time.Duration
	logger   *zap.Logger
}

// Option customises a Watcher.
type Option func(*Watcher)

// WithExtensions restricts notifications to the given extensions.
func WithExtensions(exts ...string) Option {
	return func(w *Watcher) {
		w.exts = make(map[string]struct{}, len(exts))
		for _, e := range exts {
			w.exts[strings.ToLower(e)] = struct{}{}
		}
	}
}

// WithDebounce coalesces bursts of events (editors often write twice).
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a watcher over rootDir and all its non-hidden subdirectories.
func New(rootDir string, onChange func(string) error, opts ...Option) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		watcher:  fsWatcher,
		rootDir:  rootDir,
		onChange: onChange,
		debounce: 100 * time.Millisecond,
		logger:   zap.NewNop(),
	}
	WithExtensions(DefaultExtensions...)(w)
	for _, opt := range opts {
		opt(w)
	}
	if err := w.addRecursive(rootDir); err != nil {
		fsWatcher.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		w.logger.Debug("watching directory", zap.String("dir", path))
		return w.watcher.Add(path)
	})
}

// Run delivers change notifications until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	pending := map[string]struct{}{}
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if _, ok := w.exts[strings.ToLower(filepath.Ext(event.Name))]; !ok {
				continue
			}
			rel, err := filepath.Rel(w.rootDir, event.Name)
			if err != nil {
				rel = event.Name
			}
			pending[filepath.ToSlash(rel)] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			for rel := range pending {
				w.logger.Info("ui file changed", zap.String("path", rel))
				if err := w.onChange(rel); err != nil {
					w.logger.Warn("reload failed", zap.String("path", rel), zap.Error(err))
				}
			}
			pending = map[string]struct{}{}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}
