package backtrace

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"backtrace/internal/frame"
	"backtrace/internal/trace"
)

// ErrNoStack is returned when a failure carries no stack to render.
var ErrNoStack = errors.New("error has no stack trace")

// Failure is an uncaught error as seen by the host: either a preformatted stack
// (first line is the summary) or a message with structured frames.
type Failure struct {
	Message string
	Stack   string
	Frames  []frame.Handle
}

// HasStack reports whether there is anything to render.
func (f Failure) HasStack() bool {
	return strings.TrimSpace(f.Stack) != "" || len(f.Frames) > 0
}

// head returns the summary line and the frame inputs. The preformatted stack wins
// over structured frames when both are present.
func (f Failure) head() (string, []frame.Input) {
	if strings.TrimSpace(f.Stack) != "" {
		lines := strings.Split(strings.TrimRight(f.Stack, "\n"), "\n")
		inputs := make([]frame.Input, 0, len(lines)-1)
		for _, l := range lines[1:] {
			inputs = append(inputs, frame.FromLine(strings.TrimSuffix(l, "\r")))
		}
		return strings.TrimSuffix(lines[0], "\r"), inputs
	}
	inputs := make([]frame.Input, 0, len(f.Frames))
	for _, h := range f.Frames {
		if h != nil {
			inputs = append(inputs, frame.FromHandle(h))
		}
	}
	return f.Message, inputs
}

// Write prints the trace to w one line at a time: the summary line, then every frame
// line followed by its expansion.
func (r *Renderer) Write(w io.Writer, f Failure) error {
	if !f.HasStack() {
		return ErrNoStack
	}
	ctx := r.withTracer(context.Background())
	span := trace.Begin(r.tracer, trace.ScopeTrace, "trace", 0)

	summary, inputs := f.head()
	if err := writeLine(w, summary); err != nil {
		span.End("write failed")
		return err
	}
	for _, in := range inputs {
		desc := frame.Parse(in)
		if err := writeLine(w, desc.Raw); err != nil {
			span.End("write failed")
			return err
		}
		for _, l := range r.expandSafe(ctx, desc) {
			if err := writeLine(w, l); err != nil {
				span.End("write failed")
				return err
			}
		}
	}
	span.End(fmt.Sprintf("%d frames", len(inputs)))
	return nil
}

// Assemble returns the whole trace as a string, each line newline-terminated.
func (r *Renderer) Assemble(f Failure) (string, error) {
	var sb strings.Builder
	if err := r.Write(&sb, f); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Handle writes the trace to the configured output and then exits with status 1.
// Without a stack it returns ErrNoStack and does not exit; the caller should
// report the original error itself.
func (r *Renderer) Handle(f Failure) error {
	if !f.HasStack() {
		return ErrNoStack
	}
	if err := r.Write(r.out, f); err != nil {
		trace.Failure(r.tracer, trace.ScopeTrace, "write", err)
	}
	_ = r.tracer.Flush()
	r.exit(1)
	return nil
}

// Filter copies every line of in to w and appends the expansion after each frame
// line it recognises. It stops at EOF, on a write error or when ctx is done.
func (r *Renderer) Filter(ctx context.Context, in io.Reader, w io.Writer) error {
	ctx = r.withTracer(ctx)
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSuffix(sc.Text(), "\r")
		if err := writeLine(w, line); err != nil {
			return err
		}
		desc := frame.ParseLine(line)
		if !desc.HasLocation() {
			continue
		}
		trace.Point(r.tracer, trace.ScopeLine, "frame-line", line)
		for _, l := range r.expandSafe(ctx, desc) {
			if err := writeLine(w, l); err != nil {
				return err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read trace: %w", err)
	}
	return nil
}

func writeLine(w io.Writer, s string) error {
	_, err := io.WriteString(w, s+"\n")
	return err
}
