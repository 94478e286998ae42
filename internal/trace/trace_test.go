package trace

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		kind  Kind
		scope Scope
		want  bool
	}{
		{LevelOff, KindFailure, ScopeFrame, false},
		{LevelError, KindFailure, ScopeSource, true},
		{LevelError, KindSpanBegin, ScopeTrace, false},
		{LevelFrame, KindSpanBegin, ScopeFrame, true},
		{LevelFrame, KindPoint, ScopeSource, false},
		{LevelDetail, KindPoint, ScopeSource, true},
		{LevelDetail, KindPoint, ScopeLine, false},
		{LevelDebug, KindPoint, ScopeLine, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.kind, tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%d, %s) = %v, want %v", tt.level, tt.kind, tt.scope, got, tt.want)
		}
	}
}

func TestParseLevelAndMode(t *testing.T) {
	if l, err := ParseLevel("detail"); err != nil || l != LevelDetail {
		t.Errorf("ParseLevel(detail) = %v, %v", l, err)
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
	if m, err := ParseMode("Ring"); err != nil || m != ModeRing {
		t.Errorf("ParseMode(Ring) = %v, %v", m, err)
	}
	for _, s := range []string{"file", "both"} {
		if _, err := ParseMode(s); err == nil {
			t.Errorf("expected error for mode %q", s)
		}
	}
}

func TestFormatEvent(t *testing.T) {
	ev := &Event{
		Seq:      7,
		Kind:     KindSpanEnd,
		Scope:    ScopeSource,
		ParentID: 1,
		Name:     "resolve",
		Detail:   "ok",
		Extra:    map[string]string{"space": "source", "path": "a.coffee"},
	}
	got := string(FormatEvent(ev))
	want := "[     7]   ← source:resolve (ok) {path=a.coffee, space=source}\n"
	if got != want {
		t.Errorf("FormatEvent = %q, want %q", got, want)
	}
}

func TestStreamTracerSpans(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelFrame)

	span := Begin(tr, ScopeFrame, "frame", 0).WithExtra("raw", "at f")
	Point(tr, ScopeSource, "hidden", "")
	Failure(tr, ScopeSource, "skip", errors.New("boom"))
	span.End("2 lines")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "→ frame:frame") {
		t.Errorf("begin line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "! source:skip (boom)") {
		t.Errorf("failure line = %q", lines[1])
	}
	if !strings.Contains(lines[2], "(2 lines) {raw=at f}") {
		t.Errorf("end line = %q", lines[2])
	}
}

func TestRingTracerWraps(t *testing.T) {
	ring := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(ring, ScopeTrace, name, "")
	}
	snap := ring.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("snapshot = %+v", snap)
	}

	var buf bytes.Buffer
	if err := ring.Dump(&buf); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 2 {
		t.Errorf("dump = %q", buf.String())
	}
}

func TestNewModes(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr != Nop {
		t.Errorf("LevelOff should give Nop, got %v, %v", tr, err)
	}

	path := filepath.Join(t.TempDir(), "trace.log")
	tr, err = New(Config{Level: LevelError, Mode: ModeStream, OutputPath: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if ring, err := New(Config{Level: LevelError, Mode: ModeRing}); err != nil {
		t.Fatalf("New ring: %v", err)
	} else if _, ok := ring.(*RingTracer); !ok {
		t.Fatalf("ModeRing should give a RingTracer, got %T", ring)
	}
	if _, ok := tr.(*StreamTracer); !ok {
		t.Fatalf("ModeStream should give a StreamTracer, got %T", tr)
	}
	Failure(tr, ScopeFrame, "skip", errors.New("missing"))
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "frame:skip (missing)") {
		t.Errorf("trace file = %q", data)
	}
}

func TestContext(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Error("empty context should carry Nop")
	}
	ring := NewRingTracer(4, LevelError)
	ctx := WithTracer(context.Background(), ring)
	if FromContext(ctx) != Tracer(ring) {
		t.Error("tracer not found in context")
	}
	if FromContext(WithTracer(ctx, nil)) != Nop {
		t.Error("nil tracer should be stored as Nop")
	}
}
