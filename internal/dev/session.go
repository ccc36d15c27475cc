package dev

import (
	"context"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sift-dev/sift/internal/config"
	"github.com/sift-dev/sift/internal/errors"
	"github.com/sift-dev/sift/pkg/compiler"
	"github.com/sift-dev/sift/pkg/middleware"
)

// SourceExt is the Sift source file extension.
const SourceExt = ".sft"

// Session owns one development run: the snapshot publisher, the reload hub,
// and the rebuild loop feeding them.
type Session struct {
	cfg       *config.Config
	logger    *slog.Logger
	publisher *compiler.Publisher
	reload    *ReloadServer
}

// NewSession creates a development session for the given project config.
func NewSession(cfg *config.Config, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		cfg:       cfg,
		logger:    logger,
		publisher: compiler.NewPublisher(nil),
		reload:    NewReloadServer(),
	}
}

// Publisher returns the snapshot publisher the HTTP server reads from.
func (s *Session) Publisher() *compiler.Publisher {
	return s.publisher
}

// Reload returns the live-reload hub for mounting at /_sift/reload.
func (s *Session) Reload() *ReloadServer {
	return s.reload
}

// Build compiles the routes directory and publishes the snapshot on
// success. On failure the previous snapshot stays live and the error is
// pushed to connected browsers.
func (s *Session) Build() error {
	start := time.Now()

	sources, err := LoadSources(s.cfg.Routes)
	if err != nil {
		middleware.RecordBuild(time.Since(start), err)
		return err
	}

	snap, err := compiler.BuildSnapshot(sources)
	middleware.RecordBuild(time.Since(start), err)
	if err != nil {
		s.logger.Error("build failed", "error", err)
		s.reload.NotifyError(formatBuildError(err))
		return err
	}

	s.publisher.Publish(snap)
	middleware.RecordSnapshot(len(snap.Descriptors), len(snap.Routes.Routes()))
	s.logger.Info("build succeeded",
		"buildId", snap.BuildID,
		"files", len(sources),
		"duration", time.Since(start))

	s.reload.ClearError()
	s.reload.NotifyReload(snap.BuildID)
	return nil
}

// Run performs the initial build and then rebuilds on every change until
// the context is canceled. A failing build never stops the loop.
func (s *Session) Run(ctx context.Context) error {
	if err := s.Build(); err != nil {
		s.logger.Warn("initial build failed, watching for fixes")
	}

	watcher, err := NewWatcher(WatcherConfig{
		Paths:  s.watchPaths(),
		Ignore: s.cfg.Dev.Ignore,
	})
	if err != nil {
		return err
	}
	defer watcher.Close()

	watcher.OnChange(func(paths []string) {
		s.logger.Debug("change detected", "files", len(paths))
		_ = s.Build()
	})

	err = watcher.Start(ctx)
	if err == context.Canceled {
		return nil
	}
	return err
}

// watchPaths returns the configured watch roots, always including the
// routes directory.
func (s *Session) watchPaths() []string {
	paths := append([]string(nil), s.cfg.Dev.Watch...)
	for _, p := range paths {
		if p == s.cfg.Routes {
			return paths
		}
	}
	return append(paths, s.cfg.Routes)
}

// LoadSources reads every Sift source file under the routes directory.
// Keys are slash-separated paths relative to the root, which is the form
// the route tree builder expects.
func LoadSources(root string) (map[string]string, error) {
	sources := make(map[string]string)

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), SourceExt) {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		sources[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sources, nil
}

// formatBuildError flattens a build error into overlay text, one compact
// line per diagnostic.
func formatBuildError(err error) string {
	var lines []string

	var fail *compiler.BuildFailure
	if stderrors.As(err, &fail) {
		files := make([]string, 0, len(fail.Errors))
		for file := range fail.Errors {
			files = append(files, file)
		}
		sort.Strings(files)
		for _, file := range files {
			for _, se := range errors.Convert(fail.Errors[file]) {
				lines = append(lines, se.FormatCompact())
			}
		}
		return strings.Join(lines, "\n")
	}

	for _, se := range errors.Convert(err) {
		lines = append(lines, se.FormatCompact())
	}
	return strings.Join(lines, "\n")
}
