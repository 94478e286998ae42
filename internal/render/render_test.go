package render

import (
	"strings"
	"testing"

	"backtrace/internal/excerpt"
)

func window() excerpt.Window {
	return excerpt.Window{
		Highlight: 1,
		Lines: []excerpt.Line{
			{},
			{Text: "        x = 1", Present: true, Highlight: true},
			{Text: "        y = 2", Present: true},
		},
	}
}

func TestRenderPlain(t *testing.T) {
	got := NewPainter(false, 0).Render(window())

	want := []string{">        x = 1", "         y = 2"}
	if len(got) != len(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
		if strings.Contains(got[i], "\x1b") {
			t.Errorf("line %d contains an escape sequence", i)
		}
	}
}

func TestRenderColor(t *testing.T) {
	got := NewPainter(true, 0).Render(window())
	if len(got) != 2 {
		t.Fatalf("got %q", got)
	}

	if !strings.HasPrefix(got[0], "\x1b[1;31m>") {
		t.Errorf("highlighted line = %q, want bold red prefix", got[0])
	}
	if !strings.HasPrefix(got[1], "\x1b[31m ") {
		t.Errorf("context line = %q, want red prefix", got[1])
	}
	for i, s := range got {
		if !strings.HasSuffix(s, "m") || strings.Count(s, "\x1b[") < 2 {
			t.Errorf("line %d should be closed by a reset sequence: %q", i, s)
		}
	}
}

func TestZeroPainterIsPlain(t *testing.T) {
	var p Painter
	got := p.Render(window())
	if len(got) != 2 || got[0] != ">        x = 1" || got[1] != "         y = 2" {
		t.Errorf("zero Painter = %q", got)
	}
	if got := p.Notice("n"); got != " n" {
		t.Errorf("zero Painter Notice = %q", got)
	}
}

func TestRenderAllAbsent(t *testing.T) {
	w := excerpt.Window{Lines: make([]excerpt.Line, 3), Highlight: 1}
	if got := NewPainter(true, 0).Render(w); len(got) != 0 {
		t.Errorf("absent slots must be dropped, got %q", got)
	}
}

func TestNotice(t *testing.T) {
	const msg = "Source of a.coffee updated; cannot find line"
	if got := NewPainter(false, 0).Notice(msg); got != " "+msg {
		t.Errorf("Notice = %q", got)
	}
	if got := NewPainter(true, 0).Notice(msg); !strings.HasPrefix(got, "\x1b[31m "+msg) {
		t.Errorf("colored Notice = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"abcdef", 0, "abcdef"},
		{"abcdef", 6, "abcdef"},
		{"abcdefgh", 6, "abc..."},
		{"abcdef", 2, "ab"},
		{"日本語テキスト", 7, "日本..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestRenderWidth(t *testing.T) {
	got := NewPainter(false, 8).Render(window())
	if got[0] != ">    ..." {
		t.Errorf("truncated = %q", got[0])
	}
}
