package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"backtrace/internal/compile"
	"backtrace/internal/trace"
)

// Space says which text a frame's line numbers refer to.
type Space uint8

const (
	// SpaceSource means the numbers point into the original source file.
	SpaceSource Space = iota
	// SpaceCompiled means the numbers point into the transpiler's output for that file.
	SpaceCompiled
)

// String returns the string representation of Space.
func (s Space) String() string {
	switch s {
	case SpaceSource:
		return "source"
	case SpaceCompiled:
		return "compiled"
	default:
		return "unknown"
	}
}

// ParseSpace converts a string to Space.
func ParseSpace(s string) (Space, error) {
	switch s {
	case "source", "":
		return SpaceSource, nil
	case "compiled":
		return SpaceCompiled, nil
	default:
		return SpaceSource, fmt.Errorf("invalid coordinate space: %q (expected: source|compiled)", s)
	}
}

var (
	// ErrSkip wraps every failure that should silently drop context for one frame.
	ErrSkip = errors.New("source unavailable")
	// ErrNoCompiler is returned for SpaceCompiled when no compiler is configured.
	ErrNoCompiler = errors.New("no compiler configured")
)

// StaleError reports a source file modified after the reference time.
type StaleError struct {
	Path    string
	ModTime time.Time
	Start   time.Time
}

func (e *StaleError) Error() string {
	return fmt.Sprintf("Source of %s updated; cannot find line", filepath.Base(e.Path))
}

// Entry is one cached resolution.
type Entry struct {
	Path  string
	Space Space
	File  *File

	stale *StaleError
}

// Compiled reports whether the text is transpiler output.
func (e *Entry) Compiled() bool {
	return e.File.Flags&FileCompiled != 0
}

type cacheKey struct {
	path  string
	space Space
}

func (k cacheKey) String() string {
	return k.space.String() + ":" + k.path
}

// Resolver maps file paths to source text. Each (path, space) pair is resolved at
// most once per Resolver; the staleness verdict of that first resolution sticks.
type Resolver struct {
	start    time.Time
	compiler compile.Compiler

	mu      sync.Mutex
	files   *FileSet
	entries map[cacheKey]*Entry
	group   singleflight.Group
}

// NewResolver creates a resolver that treats files modified after start as stale.
// compiler may be nil when frames never carry compiled coordinates.
func NewResolver(start time.Time, compiler compile.Compiler) *Resolver {
	return &Resolver{
		start:    start,
		compiler: compiler,
		files:    NewFileSet(),
		entries:  make(map[cacheKey]*Entry),
	}
}

// Start returns the reference time used for staleness.
func (r *Resolver) Start() time.Time {
	return r.start
}

// Len returns the number of cached resolutions, stale verdicts included.
func (r *Resolver) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Resolve returns the text for path in the given space.
//
// Errors: *StaleError when the file changed after the start time; anything wrapping
// ErrSkip when the file cannot be read or compiled. Neither is meant to surface as a
// failure of the whole trace.
func (r *Resolver) Resolve(ctx context.Context, path string, space Space) (*Entry, error) {
	key := cacheKey{path: normalizePath(path), space: space}

	if e, ok := r.lookup(key); ok {
		return e.result()
	}

	v, err, _ := r.group.Do(key.String(), func() (any, error) {
		// повторная проверка: другой вызов мог уже загрузить
		if e, ok := r.lookup(key); ok {
			return e, nil
		}
		return r.load(ctx, path, key)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Entry).result()
}

func (r *Resolver) lookup(key cacheKey) (*Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[key]
	return e, ok
}

func (e *Entry) result() (*Entry, error) {
	if e.stale != nil {
		return nil, e.stale
	}
	return e, nil
}

func (r *Resolver) load(ctx context.Context, path string, key cacheKey) (*Entry, error) {
	t := trace.FromContext(ctx)
	span := trace.Begin(t, trace.ScopeSource, "resolve", 0).WithExtra("path", key.path).WithExtra("space", key.space.String())

	info, err := os.Stat(path)
	if err != nil {
		span.End("stat failed")
		return nil, fmt.Errorf("%w: %w", ErrSkip, err)
	}
	if info.ModTime().After(r.start) {
		entry := &Entry{Path: key.path, Space: key.space, stale: &StaleError{
			Path:    path,
			ModTime: info.ModTime(),
			Start:   r.start,
		}}
		r.store(key, entry)
		span.End("stale")
		return entry, nil
	}

	content, flags, err := ReadNormalized(path)
	if err != nil {
		span.End("read failed")
		return nil, fmt.Errorf("%w: %w", ErrSkip, err)
	}

	if key.space == SpaceCompiled {
		if r.compiler == nil {
			span.End("no compiler")
			return nil, fmt.Errorf("%w: %w", ErrSkip, ErrNoCompiler)
		}
		out, err := r.compiler.Compile(ctx, content)
		if err != nil {
			span.End("compile failed")
			return nil, fmt.Errorf("%w: compile %s: %w", ErrSkip, path, err)
		}
		content, flags = Normalize(out)
		flags |= FileCompiled
	}

	r.mu.Lock()
	id := r.files.Add(path, content, flags)
	entry := &Entry{Path: key.path, Space: key.space, File: r.files.Get(id)}
	r.entries[key] = entry
	r.mu.Unlock()

	span.End("ok")
	return entry, nil
}

func (r *Resolver) store(key cacheKey, e *Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = e
}
