// Package sourcemap maps compiled positions back to original sources through
// sidecar source maps written next to the compiled output.
package sourcemap

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"

	gosourcemap "github.com/go-sourcemap/sourcemap"
)

// Position is a location in an original source, 1-based.
type Position struct {
	Source string
	Line   int
	Column int
	Name   string
}

// Registry loads source maps lazily, once per compiled file.
type Registry struct {
	mu        sync.Mutex
	consumers map[string]*consumer
}

type consumer struct {
	c   *gosourcemap.Consumer
	dir string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{consumers: make(map[string]*consumer)}
}

// Lookup maps (line, col) of the compiled file at path to the original position.
// Missing or broken maps are remembered as absent.
func (r *Registry) Lookup(path string, line, col int) (Position, bool) {
	if line <= 0 {
		return Position{}, false
	}
	c := r.consumerFor(path)
	if c == nil {
		return Position{}, false
	}

	// go-sourcemap: строки с 1, колонки с 0
	genCol := max(col-1, 0)
	file, name, srcLine, srcCol, ok := c.c.Source(line, genCol)
	if !ok || file == "" || srcLine <= 0 {
		return Position{}, false
	}
	if !filepath.IsAbs(file) && !strings.Contains(file, "://") {
		file = filepath.Join(c.dir, filepath.FromSlash(file))
	}
	return Position{Source: file, Line: srcLine, Column: srcCol + 1, Name: name}, true
}

// Len returns the number of paths looked at so far, including ones without a map.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.consumers)
}

func (r *Registry) consumerFor(path string) *consumer {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.consumers[path]; ok {
		return c
	}
	c := load(path)
	r.consumers[path] = c
	return c
}

func load(path string) *consumer {
	mapPath := locate(path)
	if mapPath == "" {
		return nil
	}
	// #nosec G304 -- map path derived from a stack frame of the crashing program
	data, err := os.ReadFile(mapPath)
	if err != nil {
		return nil
	}
	c, err := gosourcemap.Parse("", data)
	if err != nil {
		return nil
	}
	return &consumer{c: c, dir: filepath.Dir(mapPath)}
}

// locate prefers a sourceMappingURL comment in the compiled file and falls back to <path>.map.
func locate(path string) string {
	if url := mappingURL(path); url != "" && !strings.HasPrefix(url, "data:") {
		if !filepath.IsAbs(url) {
			url = filepath.Join(filepath.Dir(path), filepath.FromSlash(url))
		}
		return url
	}
	sidecar := path + ".map"
	if _, err := os.Stat(sidecar); err != nil {
		return ""
	}
	return sidecar
}

var mappingPrefixes = [][]byte{
	[]byte("//# sourceMappingURL="),
	[]byte("//@ sourceMappingURL="),
}

func mappingURL(path string) string {
	// #nosec G304
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	url := ""
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		for _, p := range mappingPrefixes {
			if rest, ok := bytes.CutPrefix(line, p); ok {
				// последний комментарий побеждает
				url = string(bytes.TrimSpace(rest))
			}
		}
	}
	return url
}
