// Package telemetry provides build-progress recording implementations.
package telemetry

import (
	"context"
	"io"

	"go.trai.ch/cuv/internal/core/ports"
)

// Noop is a ports.Telemetry implementation that records nothing. It is used
// when no progress display is wanted, e.g. for plan-only invocations.
type Noop struct{}

// NewNoop creates a no-op telemetry recorder.
func NewNoop() *Noop {
	return &Noop{}
}

// Record returns a vertex that discards everything.
func (t *Noop) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	return ctx, &noopVertex{}
}

// Close does nothing.
func (t *Noop) Close() error {
	return nil
}

type noopVertex struct{}

func (v *noopVertex) Stdout() io.Writer { return io.Discard }
func (v *noopVertex) Stderr() io.Writer { return io.Discard }
func (v *noopVertex) Complete(error)    {}
func (v *noopVertex) Cached()           {}
