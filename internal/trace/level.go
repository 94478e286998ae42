package trace

import "fmt"

// Level controls tracing verbosity.
type Level uint8

const (
	// LevelOff disables tracing.
	LevelOff    Level = iota // no tracing
	LevelError               // only swallowed failures
	LevelFrame               // trace + frame boundaries
	LevelDetail              // source resolution
	LevelDebug               // everything
)

// String returns the string representation of Level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelError:
		return "error"
	case LevelFrame:
		return "frame"
	case LevelDetail:
		return "detail"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "off", "OFF":
		return LevelOff, nil
	case "error", "ERROR":
		return LevelError, nil
	case "frame", "FRAME":
		return LevelFrame, nil
	case "detail", "DETAIL":
		return LevelDetail, nil
	case "debug", "DEBUG":
		return LevelDebug, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|frame|detail|debug)", s)
	}
}

// ShouldEmit reports whether an event of the given kind and scope passes this level.
// Failure events pass every level except LevelOff.
func (l Level) ShouldEmit(kind Kind, scope Scope) bool {
	if l == LevelOff {
		return false
	}
	if kind == KindFailure {
		return true
	}
	switch l {
	case LevelError:
		return false
	case LevelFrame:
		return scope <= ScopeFrame
	case LevelDetail:
		return scope <= ScopeSource
	case LevelDebug:
		return true
	}
	return false
}
