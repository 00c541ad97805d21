package barrett

import (
	"context"

	"barrettgo/internal/batch"
	"barrettgo/internal/core"
	"barrettgo/internal/metrics"
)

// BatchConfig controls ReduceBatch parallelism.
type BatchConfig = core.BatchConfig

// DefaultBatchConfig returns a configuration using every CPU.
func DefaultBatchConfig() BatchConfig {
	return core.DefaultBatchConfig()
}

// Metrics holds the Prometheus collectors a batch reports into.
type Metrics = metrics.Metrics

// NewMetrics creates batch collectors registered on reg (nil: unregistered).
var NewMetrics = metrics.New

// ReduceBatch reduces every value of in against c and returns the
// remainders in input order. Cancelling ctx stops the batch early with
// ctx.Err().
func ReduceBatch(ctx context.Context, c Context, in []Uint128, config BatchConfig) ([]uint64, error) {
	return ReduceBatchWithMetrics(ctx, c, in, config, nil)
}

// ReduceBatchWithMetrics is ReduceBatch recording into m.
func ReduceBatchWithMetrics(ctx context.Context, c Context, in []Uint128, config BatchConfig, m *Metrics) ([]uint64, error) {
	out := make([]uint64, len(in))
	if err := batch.NewRunner(m).Reduce(ctx, c, in, out, config); err != nil {
		return nil, err
	}
	return out, nil
}
