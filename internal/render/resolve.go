package render

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Registry is the per-render correlation table between placeholder
// markers and pending asynchronous lookups. Rendering never blocks on
// an individual lookup: the renderer emits a marker and registers the
// computation, and a single fulfillment pass after rendering awaits
// only the markers that actually appear. Registered computations run
// immediately, so total latency is bounded by the slowest lookup, not
// the sum.
//
// A Registry is scoped to one render pass and is not safe for use from
// multiple goroutines; the registered computations are.
type Registry struct {
	prefix  string
	seq     int
	pending map[string]*pending
}

type pending struct {
	done chan struct{}
	text string
	err  error
}

// NewRegistry creates a registry with a fresh random marker prefix.
// The prefix plus a monotonic counter makes identifiers unique within
// the render pass by construction.
func NewRegistry() *Registry {
	id := uuid.New()
	return &Registry{
		prefix:  hex.EncodeToString(id[:4]),
		pending: make(map[string]*pending),
	}
}

// Marker is the wire format substituted into rendered text. The id is
// a short opaque alphanumeric token; fulfillment replaces the exact
// substring, so this shape must never occur in user content.
func Marker(id string) string {
	return "{%" + id + "%}"
}

// Register starts fn immediately and returns the marker to embed in
// the rendered output.
func (r *Registry) Register(ctx context.Context, fn func(context.Context) (string, error)) string {
	var id string
	for {
		id = fmt.Sprintf("%s%x", r.prefix, r.seq)
		r.seq++
		if _, exists := r.pending[id]; !exists {
			break
		}
	}
	p := &pending{done: make(chan struct{})}
	r.pending[id] = p
	go func() {
		p.text, p.err = fn(ctx)
		close(p.done)
	}()
	return Marker(id)
}

// Fulfill substitutes every registered marker that appears in texts,
// awaiting its computation first. Markers that appear nowhere are
// discarded without being awaited. Substitution is exact-match string
// replacement.
func (r *Registry) Fulfill(ctx context.Context, texts []string) ([]string, error) {
	out := append([]string(nil), texts...)
	for id, p := range r.pending {
		marker := Marker(id)
		present := false
		for _, text := range out {
			if strings.Contains(text, marker) {
				present = true
				break
			}
		}
		if !present {
			continue
		}
		select {
		case <-p.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if p.err != nil {
			return nil, p.err
		}
		for i := range out {
			out[i] = strings.ReplaceAll(out[i], marker, p.text)
		}
	}
	return out, nil
}
