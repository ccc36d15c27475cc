// Package compiler stages the Sift pipeline: lexing, parsing, validation,
// and lowering of individual source files, plus whole-app builds that pair
// the compiled descriptors with a route tree in one immutable snapshot.
package compiler

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sift-dev/sift/pkg/component"
	"github.com/sift-dev/sift/pkg/lexer"
	"github.com/sift-dev/sift/pkg/parser"
	"github.com/sift-dev/sift/pkg/router"
	"github.com/sift-dev/sift/pkg/semantic"
)

// Compile runs one source file through the full pipeline. The returned
// error is a *lexer.LexError, *parser.ParseError, or semantic.ErrorList.
func Compile(file, src string) (*component.Descriptor, error) {
	toks, err := lexer.Tokenize(file, src)
	if err != nil {
		return nil, err
	}
	unit, err := parser.Parse(file, toks)
	if err != nil {
		return nil, err
	}
	if errs := semantic.Validate(unit); len(errs) > 0 {
		return nil, semantic.ErrorList(errs)
	}
	return component.Lower(unit), nil
}

// CompileAll compiles a set of source files keyed by path. Units are
// independent, so files compile in parallel. Descriptors and per-file
// errors are returned separately; both maps are keyed by file path.
func CompileAll(files map[string]string) (map[string]*component.Descriptor, map[string]error) {
	descriptors := make(map[string]*component.Descriptor, len(files))
	failures := make(map[string]error)

	var mu sync.Mutex
	var wg sync.WaitGroup

	for file, src := range files {
		wg.Add(1)
		go func(file, src string) {
			defer wg.Done()
			d, err := Compile(file, src)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures[file] = err
				return
			}
			descriptors[file] = d
		}(file, src)
	}
	wg.Wait()

	if len(failures) == 0 {
		return descriptors, nil
	}
	return descriptors, failures
}

// BuildFailure aggregates the per-file errors of a failed app build.
type BuildFailure struct {
	Errors map[string]error
}

// Error implements the error interface.
func (f *BuildFailure) Error() string {
	files := make([]string, 0, len(f.Errors))
	for file := range f.Errors {
		files = append(files, file)
	}
	sort.Strings(files)

	if len(files) == 1 {
		return f.Errors[files[0]].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d files failed to compile:\n", len(files))
	for _, file := range files {
		fmt.Fprintf(&sb, "  %s\n", f.Errors[file])
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Snapshot is one immutable generation of a compiled app: every descriptor
// plus the route tree with descriptors attached. Rebuilds produce a new
// snapshot; nothing in an existing snapshot is ever mutated.
type Snapshot struct {
	// BuildID uniquely identifies this generation.
	BuildID string

	// CreatedAt is the build timestamp.
	CreatedAt time.Time

	// Descriptors maps source file paths to their compiled descriptors.
	Descriptors map[string]*component.Descriptor

	// Routes is the route tree for the app, descriptors attached.
	Routes *router.RouteNode
}

// BuildSnapshot compiles every source file and assembles the route tree.
// Route-bearing paths are the map keys. All compile errors are reported
// together via *BuildFailure; route-tree violations fail on their own.
func BuildSnapshot(files map[string]string) (*Snapshot, error) {
	descriptors, failures := CompileAll(files)
	if failures != nil {
		return nil, &BuildFailure{Errors: failures}
	}

	paths := make([]string, 0, len(files))
	for file := range files {
		paths = append(paths, file)
	}
	root, err := router.BuildRouteTree(paths)
	if err != nil {
		return nil, err
	}
	root.AttachDescriptors(descriptors)

	return &Snapshot{
		BuildID:     uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		Descriptors: descriptors,
		Routes:      root,
	}, nil
}

// Resolve matches a request path against the snapshot's route tree.
func (s *Snapshot) Resolve(path string) (*router.Match, bool) {
	return s.Routes.Resolve(path)
}
