// Package batch reduces many dividends against one context in parallel.
package batch

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"barrettgo/internal/core"
	"barrettgo/internal/metrics"
	"barrettgo/internal/util"
)

// Reducer reduces a single 128-bit dividend. Implementations must be safe
// for concurrent use; an immutable reduction context is.
type Reducer interface {
	ReduceUint128(a core.U128) uint64
}

// Runner fans batches out over worker goroutines.
type Runner struct {
	metrics *metrics.Metrics
}

// NewRunner creates a Runner recording into m. A nil m records nothing.
func NewRunner(m *metrics.Metrics) *Runner {
	if m == nil {
		m = metrics.New(nil)
	}
	return &Runner{metrics: m}
}

// Reduce writes r.ReduceUint128(in[i]) to out[i] for every i.
//
// The input is cut into chunks of config.ChunkSize; ctx is checked before
// each chunk so a cancelled batch stops within one chunk per worker. On
// error the contents of out are unspecified.
func (rn *Runner) Reduce(ctx context.Context, r Reducer, in []core.U128, out []uint64, config core.BatchConfig) error {
	if err := config.Validate(); err != nil {
		return errors.Wrap(err, "batch config")
	}
	if len(out) < len(in) {
		return errors.Errorf("output length %d shorter than input length %d", len(out), len(in))
	}
	if len(in) == 0 {
		return nil
	}

	rn.metrics.Batches.Inc()
	start := time.Now()

	numChunks := core.ComputeNumChunks(len(in), config.ChunkSize)
	threads := core.EffectiveThreads(numChunks, config)
	util.Log(config.Verbose, "batch reduce: n=%d chunks=%d threads=%d", len(in), numChunks, threads)

	progress := util.NewProgressLogger(uint64(len(in)), "reduce", config.Verbose)

	var err error
	if threads == 1 {
		err = rn.reduceSequential(ctx, r, in, out, config.ChunkSize, progress)
	} else {
		err = rn.reduceParallel(ctx, r, in, out, config.ChunkSize, threads, progress)
	}
	if err != nil {
		rn.metrics.BatchErrors.Inc()
		return err
	}

	progress.Finalize()
	rn.metrics.BatchDuration.Observe(time.Since(start).Seconds())
	return nil
}

func (rn *Runner) reduceSequential(ctx context.Context, r Reducer, in []core.U128, out []uint64, chunkSize int, progress *util.ProgressLogger) error {
	for lo := 0; lo < len(in); lo += chunkSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		hi := min(lo+chunkSize, len(in))
		rn.reduceChunk(r, in[lo:hi], out[lo:hi], progress)
	}
	return nil
}

func (rn *Runner) reduceParallel(ctx context.Context, r Reducer, in []core.U128, out []uint64, chunkSize, threads int, progress *util.ProgressLogger) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)

	var stopped error
	for lo := 0; lo < len(in); lo += chunkSize {
		if err := gctx.Err(); err != nil {
			stopped = err
			break
		}
		lo, hi := lo, min(lo+chunkSize, len(in))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rn.reduceChunk(r, in[lo:hi], out[lo:hi], progress)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return stopped
}

func (rn *Runner) reduceChunk(r Reducer, in []core.U128, out []uint64, progress *util.ProgressLogger) {
	for i, a := range in {
		out[i] = r.ReduceUint128(a)
	}
	rn.metrics.Reductions.Add(float64(len(in)))
	progress.Add(uint64(len(in)))
}
