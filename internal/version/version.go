package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version information for the backtrace CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var partColors = []color.Attribute{color.FgYellow, color.FgGreen, color.FgBlue}

// Colored returns Version with major, minor and patch painted in distinct colors.
// Pre-release and build suffixes stay plain.
func Colored(enable bool) string {
	v := strings.TrimSpace(Version)
	if !enable || v == "" {
		return v
	}

	core, suffix := v, ""
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		core, suffix = v[:i], v[i:]
	}
	parts := strings.Split(core, ".")
	for i, p := range parts {
		if i >= len(partColors) {
			break
		}
		c := color.New(partColors[i], color.Bold)
		c.EnableColor()
		parts[i] = c.Sprint(p)
	}
	return strings.Join(parts, ".") + suffix
}
