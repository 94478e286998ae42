// Package observ measures the stages of one CLI invocation for --timings.
package observ

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Stage is one measured step: loading config, building the renderer, filtering input.
type Stage struct {
	Name string
	Dur  time.Duration
	Note string
}

// Timer collects stages in the order they finish.
type Timer struct {
	mu     sync.Mutex
	stages []Stage
}

// NewTimer creates an empty Timer.
func NewTimer() *Timer { return &Timer{stages: make([]Stage, 0, 4)} }

// Start begins a stage; the returned func ends it with an optional note.
// A nil Timer measures nothing.
func (t *Timer) Start(name string) func(note string) {
	if t == nil {
		return func(string) {}
	}
	begin := time.Now()
	return func(note string) {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.stages = append(t.stages, Stage{Name: name, Dur: time.Since(begin), Note: note})
	}
}

// Stages returns a copy of the finished stages.
func (t *Timer) Stages() []Stage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Stage(nil), t.stages...)
}

// WriteSummary prints one line per stage and the total, in milliseconds.
func (t *Timer) WriteSummary(w io.Writer) error {
	var total time.Duration
	if _, err := fmt.Fprintln(w, "timings:"); err != nil {
		return err
	}
	for _, s := range t.Stages() {
		total += s.Dur
		line := fmt.Sprintf("  %-12s %8.2f ms", s.Name, millis(s.Dur))
		if s.Note != "" {
			line += "  // " + s.Note
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "  %-12s %8.2f ms\n", "total", millis(total))
	return err
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
