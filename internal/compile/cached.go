package compile

import (
	"context"
	"crypto/sha256"
	"time"

	"backtrace/internal/trace"
)

// Cached puts a DiskCache in front of another Compiler. Cache failures are
// reported to the tracer and otherwise ignored.
type Cached struct {
	Inner Compiler
	Cache *DiskCache
	// Identity distinguishes compilers (and their flags) sharing one cache directory.
	Identity string
}

// Compile returns cached output when present, otherwise compiles and stores the result.
func (c *Cached) Compile(ctx context.Context, src []byte) ([]byte, error) {
	t := trace.FromContext(ctx)
	key := Key(c.Identity, src)

	var hit Payload
	ok, err := c.Cache.Get(key, &hit)
	if err != nil {
		trace.Failure(t, trace.ScopeSource, "compile-cache-get", err)
	}
	if ok {
		trace.Point(t, trace.ScopeSource, "compile-cache", "hit")
		return hit.Output, nil
	}

	out, err := c.Inner.Compile(ctx, src)
	if err != nil {
		return nil, err
	}

	payload := &Payload{
		Compiler:   c.Identity,
		SourceHash: sha256.Sum256(src),
		Output:     out,
		Created:    time.Now(),
	}
	if err := c.Cache.Put(key, payload); err != nil {
		trace.Failure(t, trace.ScopeSource, "compile-cache-put", err)
	}
	return out, nil
}
