package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"backtrace/internal/trace"
)

var runCmd = &cobra.Command{
	Use:   "run -- <program> [args...]",
	Short: "Run a program and expand the stack traces it prints",
	Long: `Run a program with its stderr piped through the renderer. Output is forwarded line
by line as it arrives; frames pointing into source files are followed by context.
The exit status of the program is passed through.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProgram,
}

func runProgram(cmd *cobra.Command, args []string) error {
	timer, err := newTimer(cmd)
	if err != nil {
		return err
	}
	defer printTimings(cmd, timer)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// всё, что изменено после запуска программы, считается устаревшим
	start := time.Now()
	r, err := newRenderer(cmd, cfg, os.Stderr, start)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	// #nosec G204 -- running the user's program is the point of this command
	child := exec.CommandContext(ctx, args[0], args[1:]...)
	child.Stdin = cmd.InOrStdin()
	var errOut io.Writer
	child.Stdout, errOut = programOutputs(cmd.OutOrStdout(), cmd.ErrOrStderr())
	stderr, err := child.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to pipe stderr: %w", err)
	}
	if err := child.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", args[0], err)
	}

	done := timer.Start("program")
	filterErr := r.Filter(ctx, stderr, errOut)
	if filterErr != nil {
		trace.Failure(trace.FromContext(ctx), trace.ScopeTrace, "filter", filterErr)
		// не даём программе зависнуть на полном пайпе
		_, _ = io.Copy(io.Discard, stderr)
	}
	waitErr := child.Wait()
	done(fmt.Sprintf("%d sources", r.Cached()))

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			code = 1
		}
		return &exitError{code: code}
	}
	if waitErr != nil {
		return fmt.Errorf("%s: %w", args[0], waitErr)
	}
	return filterErr
}

// programOutputs returns the writers for the child's stdout and the filtered stderr.
// For anything but an *os.File, exec copies stdout from its own goroutine while
// Filter writes stderr from this one, so both go through one lock.
func programOutputs(stdout, stderr io.Writer) (io.Writer, io.Writer) {
	if _, ok := stdout.(*os.File); ok {
		return stdout, stderr
	}
	mu := &sync.Mutex{}
	return &lockedWriter{mu: mu, w: stdout}, &lockedWriter{mu: mu, w: stderr}
}

type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}
