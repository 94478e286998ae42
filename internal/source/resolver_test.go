package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"backtrace/internal/compile"
)

func writeAged(t *testing.T, path, content string, mtime time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

func TestResolveSource(t *testing.T) {
	start := time.Now()
	path := filepath.Join(t.TempDir(), "app.coffee")
	writeAged(t, path, "a = 1\r\nb = 2\r\n", start.Add(-time.Hour))

	r := NewResolver(start, nil)
	e, err := r.Resolve(context.Background(), path, SpaceSource)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if e.File.Text() != "a = 1\nb = 2\n" {
		t.Errorf("text = %q", e.File.Text())
	}
	if e.Compiled() {
		t.Errorf("source entry must not be marked compiled")
	}
	if !r.Start().Equal(start) {
		t.Errorf("Start = %v, want %v", r.Start(), start)
	}
}

func TestResolveCachesContent(t *testing.T) {
	start := time.Now()
	path := filepath.Join(t.TempDir(), "app.coffee")
	writeAged(t, path, "first", start.Add(-time.Hour))

	r := NewResolver(start, nil)
	if _, err := r.Resolve(context.Background(), path, SpaceSource); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	// файл переписан с тем же mtime: кеш не должен перечитывать его
	writeAged(t, path, "second", start.Add(-time.Hour))
	e, err := r.Resolve(context.Background(), path, SpaceSource)
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if e.File.Text() != "first" {
		t.Errorf("cached text = %q, want %q", e.File.Text(), "first")
	}

	// и даже удаление файла ничего не меняет
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Resolve(context.Background(), path, SpaceSource); err != nil {
		t.Errorf("cached entry should survive removal: %v", err)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestResolveStale(t *testing.T) {
	start := time.Now()
	path := filepath.Join(t.TempDir(), "b.coffee")
	writeAged(t, path, "x = 1\n", start.Add(time.Hour))

	r := NewResolver(start, nil)
	_, err := r.Resolve(context.Background(), path, SpaceSource)

	var stale *StaleError
	if !errors.As(err, &stale) {
		t.Fatalf("expected *StaleError, got %v", err)
	}
	if got, want := stale.Error(), "Source of b.coffee updated; cannot find line"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
	if errors.Is(err, ErrSkip) {
		t.Errorf("stale must not be reported as ErrSkip")
	}

	// вердикт закеширован: откат mtime ничего не меняет
	writeAged(t, path, "x = 1\n", start.Add(-time.Hour))
	if _, err := r.Resolve(context.Background(), path, SpaceSource); !errors.As(err, &stale) {
		t.Errorf("stale verdict should be cached, got %v", err)
	}
}

func TestResolveMissingIsSkipAndNotCached(t *testing.T) {
	start := time.Now()
	path := filepath.Join(t.TempDir(), "late.coffee")

	r := NewResolver(start, nil)
	_, err := r.Resolve(context.Background(), path, SpaceSource)
	if !errors.Is(err, ErrSkip) {
		t.Fatalf("expected ErrSkip, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("underlying error should be kept: %v", err)
	}
	if r.Len() != 0 {
		t.Errorf("failures must not be cached")
	}

	writeAged(t, path, "ok", start.Add(-time.Minute))
	if _, err := r.Resolve(context.Background(), path, SpaceSource); err != nil {
		t.Errorf("file created later should resolve: %v", err)
	}
}

func TestResolveCompiled(t *testing.T) {
	start := time.Now()
	path := filepath.Join(t.TempDir(), "c.coffee")
	writeAged(t, path, "square = (x) -> x * x\n", start.Add(-time.Hour))

	var calls atomic.Int32
	c := compile.Func(func(_ context.Context, src []byte) ([]byte, error) {
		calls.Add(1)
		return []byte("// compiled\r\n" + strings.ToUpper(string(src))), nil
	})

	r := NewResolver(start, c)
	e, err := r.Resolve(context.Background(), path, SpaceCompiled)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !e.Compiled() {
		t.Errorf("entry should be marked compiled")
	}
	if e.File.Text() != "// compiled\nSQUARE = (X) -> X * X\n" {
		t.Errorf("compiled text = %q", e.File.Text())
	}

	src, err := r.Resolve(context.Background(), path, SpaceSource)
	if err != nil {
		t.Fatalf("Resolve source: %v", err)
	}
	if src.Compiled() || src.File.Text() != "square = (x) -> x * x\n" {
		t.Errorf("source and compiled spaces must be cached separately")
	}

	if _, err := r.Resolve(context.Background(), path, SpaceCompiled); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 1 {
		t.Errorf("compiler called %d times, want 1", calls.Load())
	}
}

func TestResolveCompiledFailures(t *testing.T) {
	start := time.Now()
	path := filepath.Join(t.TempDir(), "d.coffee")
	writeAged(t, path, "x", start.Add(-time.Hour))

	r := NewResolver(start, nil)
	if _, err := r.Resolve(context.Background(), path, SpaceCompiled); !errors.Is(err, ErrNoCompiler) || !errors.Is(err, ErrSkip) {
		t.Errorf("expected ErrSkip wrapping ErrNoCompiler, got %v", err)
	}

	boom := errors.New("syntax error")
	r = NewResolver(start, compile.Func(func(context.Context, []byte) ([]byte, error) {
		return nil, boom
	}))
	_, err := r.Resolve(context.Background(), path, SpaceCompiled)
	if !errors.Is(err, ErrSkip) || !errors.Is(err, boom) {
		t.Errorf("expected ErrSkip wrapping compile error, got %v", err)
	}
}

func TestResolveConcurrent(t *testing.T) {
	start := time.Now()
	path := filepath.Join(t.TempDir(), "e.coffee")
	writeAged(t, path, "x = 1\n", start.Add(-time.Hour))

	var calls atomic.Int32
	r := NewResolver(start, compile.Func(func(_ context.Context, src []byte) ([]byte, error) {
		calls.Add(1)
		time.Sleep(10 * time.Millisecond)
		return src, nil
	}))

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Resolve(context.Background(), path, SpaceCompiled); err != nil {
				t.Errorf("Resolve: %v", err)
			}
		}()
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("compiler called %d times, want 1", calls.Load())
	}
}

func TestParseSpace(t *testing.T) {
	for in, want := range map[string]Space{"": SpaceSource, "source": SpaceSource, "compiled": SpaceCompiled} {
		got, err := ParseSpace(in)
		if err != nil || got != want {
			t.Errorf("ParseSpace(%q) = %v,%v", in, got, err)
		}
	}
	if _, err := ParseSpace("js"); err == nil {
		t.Errorf("expected error for unknown space")
	}
}
