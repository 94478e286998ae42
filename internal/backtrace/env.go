package backtrace

import (
	"os"
	"strconv"
	"strings"
)

const (
	// DefaultContext is the context radius used when nothing else is configured.
	DefaultContext = 3

	// EnvContext overrides the context radius.
	EnvContext = "BACKTRACE_CONTEXT"
	// EnvContextLegacy is honoured when EnvContext is unset.
	EnvContextLegacy = "COFFEE_BACKTRACE_CONTEXT"
)

// ContextFromEnv interprets the value of the context variable. Absent, negative or
// non-numeric values give DefaultContext; an explicit "0" is kept.
func ContextFromEnv(value string, ok bool) int {
	if !ok {
		return DefaultContext
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return DefaultContext
	}
	return n
}

// LookupContext reads EnvContext, then EnvContextLegacy.
func LookupContext() int {
	if v, ok := os.LookupEnv(EnvContext); ok {
		return ContextFromEnv(v, true)
	}
	return ContextFromEnv(os.LookupEnv(EnvContextLegacy))
}
