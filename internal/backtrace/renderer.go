// Package backtrace prints the stack trace of a fatal error with the original source
// lines of every remappable frame shown beneath it.
//
// A Renderer is built once per process and owns everything that outlives a single
// trace: the source cache, the context radius and the staleness reference time.
package backtrace

import (
	"context"
	"io"
	"os"
	"sync/atomic"
	"time"

	"backtrace/internal/compile"
	"backtrace/internal/lang"
	"backtrace/internal/render"
	"backtrace/internal/source"
	"backtrace/internal/sourcemap"
	"backtrace/internal/trace"
)

// Options configures a Renderer.
type Options struct {
	// Context is the number of lines shown on each side of the frame line.
	// Zero means DefaultContext; a negative value shows the frame line alone.
	Context int
	// Language recognises original source files; nil means CoffeeScript.
	Language *lang.Language
	// Space tells whether frame line numbers refer to the original source or to the
	// compiled output. SpaceCompiled requires Compiler.
	Space    source.Space
	Compiler compile.Compiler
	// Start is the staleness reference time; zero means the moment New is called.
	Start time.Time
	Color bool
	Width int
	// SourceMaps enables <file>.map lookups for frames in compiled files.
	SourceMaps bool

	Output io.Writer      // nil means os.Stderr
	Exit   func(code int) // nil means os.Exit
	Tracer trace.Tracer
}

// Renderer expands stack traces. It is safe for concurrent use.
type Renderer struct {
	context atomic.Int64

	lang     *lang.Language
	space    source.Space
	resolver *source.Resolver
	maps     *sourcemap.Registry
	painter  *render.Painter
	out      io.Writer
	exit     func(int)
	tracer   trace.Tracer
}

// New creates a Renderer. The reference time for staleness is fixed here.
func New(opts Options) *Renderer {
	if opts.Context == 0 {
		opts.Context = DefaultContext
	}
	if opts.Language == nil {
		opts.Language = lang.Default()
	}
	if opts.Start.IsZero() {
		opts.Start = time.Now()
	}
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.Exit == nil {
		opts.Exit = os.Exit
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}

	r := &Renderer{
		lang:     opts.Language,
		space:    opts.Space,
		resolver: source.NewResolver(opts.Start, opts.Compiler),
		painter:  render.NewPainter(opts.Color, opts.Width),
		out:      opts.Output,
		exit:     opts.Exit,
		tracer:   opts.Tracer,
	}
	if opts.SourceMaps {
		r.maps = sourcemap.NewRegistry()
	}
	r.SetContext(opts.Context)
	return r
}

// SetContext changes the context radius for traces rendered afterwards.
// Negative values are treated as zero.
func (r *Renderer) SetContext(n int) *Renderer {
	r.context.Store(int64(max(n, 0)))
	return r
}

// Context returns the current context radius.
func (r *Renderer) Context() int {
	return int(r.context.Load())
}

// Start returns the staleness reference time.
func (r *Renderer) Start() time.Time {
	return r.resolver.Start()
}

// Cached returns the number of source resolutions held by the renderer.
func (r *Renderer) Cached() int {
	return r.resolver.Len()
}

func (r *Renderer) withTracer(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return trace.WithTracer(ctx, r.tracer)
}
