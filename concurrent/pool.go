// Package concurrent is evokernel's concurrency core: a bounded
// worker pool and a deterministic parallel-for used to parallelize
// fitness evaluation, per-child mutation/repair/evaluation, and
// top-level hypervolume dispatch, while preserving seed-reproducible,
// block-ordered results.
//
// Go's runtime scheduler already work-steals goroutines across
// threads, so Pool is a thin bound over golang.org/x/sync/errgroup
// rather than a hand-rolled per-worker queue/steal implementation:
// SetLimit caps concurrency at max(1, NumCPU-1) workers plus the
// caller.
package concurrent

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pool bounds the number of goroutines concurrently running
// submitted work to max(1, NumCPU-1), reserving one logical core for
// the caller.
type Pool struct {
	limit int
}

// NewPool constructs a Pool. A limit <= 0 selects
// max(1, runtime.NumCPU()-1).
func NewPool(limit int) *Pool {
	if limit <= 0 {
		limit = runtime.NumCPU() - 1
		if limit < 1 {
			limit = 1
		}
	}
	return &Pool{limit: limit}
}

// Limit returns the pool's configured worker ceiling.
func (p *Pool) Limit() int { return p.limit }

// Group returns a new errgroup scoped to ctx with the pool's
// concurrency limit applied, so the caller can submit work and Wait.
// The first non-nil error cancels the group context and is returned
// from Wait on the calling goroutine; workers never terminate the
// process.
func (p *Pool) Group(ctx context.Context) (*errgroup.Group, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.limit)
	return g, gctx
}
