// Package lang recognises files written in the source language, as opposed to the
// compiled output that actually runs.
package lang

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultPatterns are the base-name patterns of CoffeeScript sources.
var DefaultPatterns = []string{"*.coffee", "*.litcoffee", "*.coffee.md"}

// Language describes which files count as original source.
type Language struct {
	Name     string
	patterns []string
	globs    []glob.Glob
}

// New compiles the base-name patterns of a language.
func New(name string, patterns []string) (*Language, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("language %q: no source patterns", name)
	}
	l := &Language{Name: name, patterns: append([]string(nil), patterns...)}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("language %q: bad pattern %q: %w", name, p, err)
		}
		l.globs = append(l.globs, g)
	}
	return l, nil
}

// Default returns the CoffeeScript language.
func Default() *Language {
	l, err := New("coffee", DefaultPatterns)
	if err != nil {
		panic(fmt.Errorf("default language: %w", err))
	}
	return l
}

// Patterns returns a copy of the configured patterns.
func (l *Language) Patterns() []string {
	return append([]string(nil), l.patterns...)
}

// Recognizes reports whether path names a source file of this language.
func (l *Language) Recognizes(path string) bool {
	if l == nil || path == "" {
		return false
	}
	base := filepath.Base(filepath.FromSlash(path))
	for _, g := range l.globs {
		if g.Match(base) {
			return true
		}
	}
	return false
}
