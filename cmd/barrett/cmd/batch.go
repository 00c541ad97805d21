package cmd

import (
	"context"
	"fmt"
	"math/big"
	"math/bits"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"barrettgo/internal/util"
	"barrettgo/pkg/barrett"
)

func newBatchCmd(v *viper.Viper) *cobra.Command {
	var (
		count       int
		seed        int64
		timeout     time.Duration
		metricsFile string
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Reduce random products of residues in parallel and verify them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := contextFromConfig(v)
			if err != nil {
				return err
			}
			if count < 0 {
				return errors.Errorf("count %d is negative", count)
			}

			config := barrett.DefaultBatchConfig()
			if v.IsSet(flagThreads) {
				config.NumThreads = v.GetInt(flagThreads)
			}
			if v.IsSet(flagChunkSize) {
				config.ChunkSize = v.GetInt(flagChunkSize)
			}
			config.Verbose = v.GetBool(flagVerbose)

			in := randomProducts(c.Modulus(), count, seed)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			reg := prometheus.NewRegistry()
			met := barrett.NewMetrics(reg)
			start := time.Now()
			out, err := barrett.ReduceBatchWithMetrics(ctx, c, in, config, met)
			if err != nil {
				return errors.Wrap(err, "batch reduce")
			}
			elapsed := time.Since(start)

			mismatches := verify(c.Modulus(), in, out)
			util.Logger().Info().
				Int("count", count).
				Int("threads", config.NumThreads).
				Dur("elapsed", elapsed).
				Msg("batch complete")
			fmt.Fprintf(cmd.OutOrStdout(), "reduced %d values modulo %d, %d mismatches\n", len(out), c.Modulus(), mismatches)

			if metricsFile != "" {
				if err := prometheus.WriteToTextfile(metricsFile, reg); err != nil {
					return errors.Wrap(err, "write metrics")
				}
			}
			if mismatches > 0 {
				return errors.Errorf("%d results disagree with the reference", mismatches)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&count, "count", 100000, "number of products to reduce")
	f.Int64Var(&seed, "seed", 1, "random seed")
	f.DurationVar(&timeout, "timeout", 0, "abort the batch after this long (0 = none)")
	f.StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics in text format to this file")
	f.Int(flagThreads, 0, "worker goroutines (default: number of CPUs)")
	f.Int(flagChunkSize, 0, "values per work unit (default 4096)")
	_ = v.BindPFlag(flagThreads, f.Lookup(flagThreads))
	_ = v.BindPFlag(flagChunkSize, f.Lookup(flagChunkSize))
	return cmd
}

func randomProducts(m uint64, n int, seed int64) []barrett.Uint128 {
	rng := rand.New(rand.NewSource(seed))
	in := make([]barrett.Uint128, n)
	for i := range in {
		hi, lo := bits.Mul64(rng.Uint64()%m, rng.Uint64()%m)
		in[i] = barrett.Uint128{Hi: hi, Lo: lo}
	}
	return in
}

// verify checks every result against arbitrary-precision division.
func verify(m uint64, in []barrett.Uint128, out []uint64) int {
	bm := new(big.Int).SetUint64(m)
	a, lo := new(big.Int), new(big.Int)
	mismatches := 0
	for i, x := range in {
		a.SetUint64(x.Hi)
		a.Lsh(a, 64)
		a.Or(a, lo.SetUint64(x.Lo))
		if a.Mod(a, bm).Uint64() != out[i] {
			mismatches++
		}
	}
	return mismatches
}
