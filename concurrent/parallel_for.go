package concurrent

import "context"

// defaultBlockSize is used when ParallelFor callers do not have an
// opinion on granularity.
const defaultBlockSize = 1

// ParallelFor partitions [0, n) into contiguous blocks of at least
// blockSize elements (at most one block per worker plus the caller)
// and runs fn over every index, waiting for all blocks to finish
// before returning. Blocks are submitted to the pool in increasing
// index order; within a block, indices are visited in increasing
// order. Combined with a seeded, per-goroutine RNG (package rng),
// this keeps the traversal order deterministic.
//
// If fn returns an error for any index, ParallelFor cancels ctx for
// the remaining blocks and returns the first error observed (errgroup
// semantics). A block that is already running checks the cancelled
// context before each of its indices and stops there, so indices after
// the failure may never be visited.
func (p *Pool) ParallelFor(ctx context.Context, n int, blockSize int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}
	if blockSize <= 0 {
		blockSize = defaultBlockSize
	}

	numBlocks := (n + blockSize - 1) / blockSize
	// Never split into more blocks than there are workers plus the
	// caller, so each goroutine does meaningfully more than
	// scheduling overhead.
	maxBlocks := p.limit + 1
	if numBlocks > maxBlocks {
		numBlocks = maxBlocks
		blockSize = (n + numBlocks - 1) / numBlocks
	}

	g, gctx := p.Group(ctx)
	for b := 0; b < numBlocks; b++ {
		start := b * blockSize
		end := start + blockSize
		if end > n {
			end = n
		}
		if start >= end {
			break
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				if err := fn(i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// ParallelMap runs fn over every index in [0, n) exactly like
// ParallelFor, collecting fn's return value into a result slice
// indexed the same way as the input range. Used for computations
// such as per-point exclusive hypervolume contributions, where each
// task produces a value rather than a side effect.
func ParallelMap[T any](ctx context.Context, p *Pool, n int, blockSize int, fn func(i int) (T, error)) ([]T, error) {
	results := make([]T, n)
	err := p.ParallelFor(ctx, n, blockSize, func(i int) error {
		v, err := fn(i)
		if err != nil {
			return err
		}
		results[i] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
