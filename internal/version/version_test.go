package version

import (
	"strings"
	"testing"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestColored(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	tests := []struct {
		version string
		suffix  string
	}{
		{"1.2.3", "3\x1b"},
		{"0.1.0-dev", "-dev"},
		{"1.2.3-rc.1+build.123", "-rc.1+build.123"},
	}

	for _, tt := range tests {
		Version = tt.version
		if got := Colored(false); got != tt.version {
			t.Errorf("Colored(false) = %q, want %q", got, tt.version)
		}
		got := Colored(true)
		if !strings.HasPrefix(got, "\x1b[33;1m") {
			t.Errorf("Colored(true) = %q, want yellow major", got)
		}
		if !strings.Contains(got, tt.suffix) {
			t.Errorf("Colored(true) = %q, want it to contain %q", got, tt.suffix)
		}
	}
}

func TestColoredEmpty(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "  "
	if got := Colored(true); got != "" {
		t.Errorf("Colored(true) = %q, want empty", got)
	}
}
