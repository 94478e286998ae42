package lang

import "testing"

func TestDefaultRecognizes(t *testing.T) {
	l := Default()

	tests := []struct {
		path string
		want bool
	}{
		{"/srv/app/main.coffee", true},
		{"main.litcoffee", true},
		{"docs/readme.coffee.md", true},
		{"/srv/app/main.js", false},
		{"node:internal/modules/cjs/loader", false},
		{"", false},
		{"coffee", false},
	}

	for _, tt := range tests {
		if got := l.Recognizes(tt.path); got != tt.want {
			t.Errorf("Recognizes(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestNewRejectsEmptyPatterns(t *testing.T) {
	if _, err := New("x", nil); err == nil {
		t.Error("expected error for empty pattern list")
	}
}

func TestCustomPatterns(t *testing.T) {
	l, err := New("iced", []string{"*.iced"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !l.Recognizes("a/b/c.iced") {
		t.Error("expected c.iced to be recognised")
	}
	if l.Recognizes("a/b/c.coffee") {
		t.Error("coffee file must not match iced patterns")
	}
	if got := l.Patterns(); len(got) != 1 || got[0] != "*.iced" {
		t.Errorf("Patterns() = %v", got)
	}
}
