package dev

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Paths are the directories to watch, recursively.
	Paths []string

	// Ignore patterns to skip. Bare names match any path segment,
	// patterns with glob characters match the base name.
	Ignore []string

	// Debounce is the quiet period before a burst of events is reported
	// as one change set.
	Debounce time.Duration
}

// DefaultIgnore contains default patterns to ignore.
var DefaultIgnore = []string{
	".git",
	"node_modules",
	"dist",
	"tmp",
	".sift",
	"*.tmp",
	"*.swp",
	"*~",
}

// Watcher reports file changes under the configured paths. It wraps
// fsnotify, adding recursive directory registration, ignore filtering, and
// debouncing so one save does not trigger several rebuilds.
type Watcher struct {
	config   WatcherConfig
	notifier *fsnotify.Watcher
	onChange func(paths []string)
}

// NewWatcher creates a new file watcher.
func NewWatcher(config WatcherConfig) (*Watcher, error) {
	if config.Debounce == 0 {
		config.Debounce = 100 * time.Millisecond
	}
	if len(config.Ignore) == 0 {
		config.Ignore = DefaultIgnore
	}

	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{config: config, notifier: notifier}
	for _, root := range config.Paths {
		if err := w.addRecursive(root); err != nil {
			notifier.Close()
			return nil, err
		}
	}
	return w, nil
}

// OnChange sets the callback for file changes. Call before Start.
func (w *Watcher) OnChange(fn func(paths []string)) {
	w.onChange = fn
}

// Start blocks processing events until the context is canceled or the
// underlying watcher closes.
func (w *Watcher) Start(ctx context.Context) error {
	var (
		pending = make(map[string]struct{})
		timer   *time.Timer
		timerC  <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.notifier.Events:
			if !ok {
				return nil
			}
			if w.shouldIgnore(ev.Name) {
				continue
			}

			// New directories need registering before their contents
			// produce events.
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(ev.Name)
				}
			}

			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			pending[ev.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.config.Debounce)
			} else {
				timer.Reset(w.config.Debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			if w.onChange != nil && len(pending) > 0 {
				paths := make([]string, 0, len(pending))
				for p := range pending {
					paths = append(paths, p)
				}
				w.onChange(paths)
			}
			pending = make(map[string]struct{})

		case err, ok := <-w.notifier.Errors:
			if !ok {
				return nil
			}
			_ = err // transient watch errors are not fatal
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.notifier.Close()
}

// addRecursive registers a directory and everything under it.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.shouldIgnore(p) {
			return filepath.SkipDir
		}
		return w.notifier.Add(p)
	})
}

// shouldIgnore checks a path against the ignore patterns. Bare patterns
// are compared segment by segment against the path relative to its watched
// root, so the directories an app happens to live under never match.
func (w *Watcher) shouldIgnore(fullPath string) bool {
	name := filepath.Base(fullPath)
	rel := w.relative(fullPath)

	for _, pattern := range w.config.Ignore {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}

		if strings.ContainsAny(pattern, "*?[") {
			if matched, _ := filepath.Match(pattern, name); matched {
				return true
			}
			continue
		}

		for _, segment := range strings.Split(rel, "/") {
			if segment == pattern {
				return true
			}
		}
	}
	return false
}

// relative rewrites fullPath against the watched root that contains it.
// The root itself comes back as ".", which matches no pattern. Paths
// outside every root reduce to their base name.
func (w *Watcher) relative(fullPath string) string {
	for _, root := range w.config.Paths {
		rel, err := filepath.Rel(root, fullPath)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return filepath.ToSlash(rel)
	}
	return filepath.Base(fullPath)
}
