package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"backtrace/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "backtrace",
	Short: "Show original source lines under every frame of a stack trace",
	Long: `backtrace expands stack traces of programs written in a compiled-to-JavaScript
language: every frame that points into an original source file is followed by the
surrounding source lines, with the failing line highlighted.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		runTraceCleanup()
	},
}

var traceCleanup func()

func runTraceCleanup() {
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	flags := rootCmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Int("context", 3, "source lines shown on each side of a frame line")
	flags.Int("width", 0, "truncate context lines to this many cells (0 = unlimited)")
	flags.String("space", "source", "coordinate space of frame line numbers (source|compiled)")
	flags.Bool("source-maps", false, "follow <file>.map for frames in compiled files")
	flags.String("config", "", "path to backtrace.toml (default: search upwards from the working directory)")
	flags.Bool("timings", false, "print stage timings to stderr when done")

	flags.String("trace", "", "write internal trace events to a file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|frame|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring)")
	flags.Int("trace-ring-size", 1024, "events kept in ring mode")
}

// main executes the root command. A child process exit status is passed through;
// any other error exits with 1.
func main() {
	err := rootCmd.Execute()
	runTraceCleanup()
	if err == nil {
		return
	}

	var exit *exitError
	if errors.As(err, &exit) {
		os.Exit(exit.code)
	}
	fmt.Fprintf(os.Stderr, "backtrace: %v\n", err)
	os.Exit(1)
}

// exitError carries the status of a program started by "backtrace run".
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
