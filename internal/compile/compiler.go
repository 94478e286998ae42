// Package compile wraps the transpiler that turns original source into the code the
// runtime actually executes. Frames that carry compiled-output coordinates are
// remapped by compiling the original again and reading lines from the output.
package compile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultCommand compiles CoffeeScript from stdin to stdout.
var DefaultCommand = []string{"coffee", "--print", "--stdio"}

// Compiler turns source text into compiled output text.
type Compiler interface {
	Compile(ctx context.Context, src []byte) ([]byte, error)
}

// Func adapts an ordinary function to Compiler.
type Func func(ctx context.Context, src []byte) ([]byte, error)

// Compile calls f.
func (f Func) Compile(ctx context.Context, src []byte) ([]byte, error) {
	return f(ctx, src)
}

// Command runs an external transpiler, feeding source on stdin and reading output from stdout.
type Command struct {
	Argv []string
}

// NewCommand resolves argv[0] on PATH.
func NewCommand(argv []string) (*Command, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty compiler command")
	}
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return nil, fmt.Errorf("compiler %q not found: %w", argv[0], err)
	}
	resolved := append([]string{path}, argv[1:]...)
	return &Command{Argv: resolved}, nil
}

// Compile runs the command once per call.
func (c *Command) Compile(ctx context.Context, src []byte) ([]byte, error) {
	if len(c.Argv) == 0 {
		return nil, errors.New("empty compiler command")
	}

	// #nosec G204 -- command comes from the user's own configuration
	cmd := exec.CommandContext(ctx, c.Argv[0], c.Argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(src)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s failed: %w\nStderr: %s", c.String(), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// String returns the command line, used as the compiler identity in cache keys.
func (c *Command) String() string {
	return strings.Join(c.Argv, " ")
}
