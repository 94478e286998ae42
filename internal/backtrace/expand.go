package backtrace

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"backtrace/internal/excerpt"
	"backtrace/internal/frame"
	"backtrace/internal/source"
	"backtrace/internal/trace"
)

// Expand returns the rendered context lines for one frame. A nil slice with a nil
// error means the frame has nothing to show. A stale source yields the single
// notice line. Any other error only explains why the frame was skipped.
func (r *Renderer) Expand(desc frame.Descriptor) ([]string, error) {
	return r.expand(r.withTracer(context.Background()), desc)
}

func (r *Renderer) expand(ctx context.Context, desc frame.Descriptor) ([]string, error) {
	space := r.space
	if r.maps != nil && desc.HasLocation() && !r.lang.Recognizes(desc.Path) {
		if pos, ok := r.maps.Lookup(desc.Path, desc.Line, desc.Column); ok {
			trace.Point(r.tracer, trace.ScopeSource, "sourcemap",
				fmt.Sprintf("%s:%d -> %s:%d", desc.Path, desc.Line, pos.Source, pos.Line))
			desc.Path, desc.Line, desc.Column = pos.Source, pos.Line, pos.Column
			// карта указывает прямо в исходник
			space = source.SpaceSource
		}
	}

	if !desc.Remappable(r.lang) {
		return nil, nil
	}

	entry, err := r.resolver.Resolve(ctx, desc.Path, space)
	if err != nil {
		var stale *source.StaleError
		if errors.As(err, &stale) {
			return []string{r.painter.Notice(stale.Error())}, nil
		}
		return nil, err
	}

	w := excerpt.Extract(entry.File, desc.Line, r.Context())
	if w.Empty() {
		return nil, nil
	}
	return r.painter.Render(w), nil
}

// expandSafe never fails: errors and panics of one frame end up in the tracer.
func (r *Renderer) expandSafe(ctx context.Context, desc frame.Descriptor) (lines []string) {
	span := trace.Begin(r.tracer, trace.ScopeFrame, "frame", 0).WithExtra("raw", desc.Raw)
	defer func() {
		if p := recover(); p != nil {
			trace.Failure(r.tracer, trace.ScopeFrame, "panic", fmt.Errorf("%s: %v", desc.Raw, p))
			lines = nil
			span.End("panic")
		}
	}()

	lines, err := r.expand(ctx, desc)
	if err != nil {
		trace.Failure(r.tracer, trace.ScopeFrame, "skip", fmt.Errorf("%s: %w", desc.Raw, err))
		span.End("skip")
		return nil
	}
	span.End(strconv.Itoa(len(lines)) + " lines")
	return lines
}
