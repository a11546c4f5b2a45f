// run.go: the run command and its sharded workload
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/agilira/hood"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// workload describes one benchmark run. Each shard owns a private cache,
// so shards never contend on a lock.
type workload struct {
	Capacity    int
	Shards      int
	Ops         int
	Keys        int
	ReadRatio   float64
	DeleteRatio float64
	Skew        float64 // Zipf s parameter; <= 1 means uniform keys
	Seed        int64
}

func (w workload) validate() error {
	switch {
	case w.Shards <= 0:
		return fmt.Errorf("shards must be positive, got %d", w.Shards)
	case w.Ops < 0:
		return fmt.Errorf("ops must not be negative, got %d", w.Ops)
	case w.Keys <= 0:
		return fmt.Errorf("keys must be positive, got %d", w.Keys)
	case w.ReadRatio < 0 || w.DeleteRatio < 0 || w.ReadRatio+w.DeleteRatio > 1:
		return fmt.Errorf("read (%v) and delete (%v) ratios must be non-negative and sum to at most 1",
			w.ReadRatio, w.DeleteRatio)
	}
	return nil
}

type shardResult struct {
	Cache   hood.CacheStats
	Table   hood.TableStats
	Elapsed time.Duration
}

func newRunCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a workload and print statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := workload{
				Capacity:    v.GetInt("capacity"),
				Shards:      v.GetInt("shards"),
				Ops:         v.GetInt("ops"),
				Keys:        v.GetInt("keys"),
				ReadRatio:   v.GetFloat64("read-ratio"),
				DeleteRatio: v.GetFloat64("delete-ratio"),
				Skew:        v.GetFloat64("skew"),
				Seed:        v.GetInt64("seed"),
			}
			if err := w.validate(); err != nil {
				return err
			}

			var logger hood.Logger = hood.NoOpLogger{}
			if v.GetBool("verbose") {
				logger = newStdLogger(os.Stderr, true)
			}
			collector := newVMCollector()

			results, err := runWorkload(cmd.Context(), w, collector, logger)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), w, results)

			if path := v.GetString("prom-out"); path != "" {
				if err := collector.writeFile(path); err != nil {
					return err
				}
				cmd.Printf("metrics written to %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().Int("capacity", 4096, "Slots per shard cache")
	cmd.Flags().Int("shards", 4, "Number of shards, one goroutine and cache each")
	cmd.Flags().Int("ops", 1_000_000, "Operations per shard")
	cmd.Flags().Int("keys", 16384, "Size of each shard's key space")
	cmd.Flags().Float64("read-ratio", 0.8, "Fraction of operations that are Find (misses load and insert)")
	cmd.Flags().Float64("delete-ratio", 0.02, "Fraction of operations that are Delete")
	cmd.Flags().Float64("skew", 1.1, "Zipf skew of the key distribution; <= 1 for uniform")
	cmd.Flags().Int64("seed", 1, "Random seed for the key stream")
	cmd.Flags().String("prom-out", "", "Write Prometheus text metrics to this file when done")
	return cmd
}

// runWorkload runs every shard to completion (or until ctx is done) and
// returns per-shard results keyed by shard number.
func runWorkload(ctx context.Context, w workload, collector hood.MetricsCollector, logger hood.Logger) (*xsync.MapOf[int, shardResult], error) {
	if ctx == nil {
		ctx = context.Background()
	}
	results := xsync.NewMapOf[int, shardResult]()

	var wg sync.WaitGroup
	errs := make(chan error, w.Shards)
	for shard := 0; shard < w.Shards; shard++ {
		wg.Add(1)
		go func(shard int) {
			defer wg.Done()
			res, err := runShard(ctx, w, shard, collector, logger)
			if err != nil {
				errs <- fmt.Errorf("shard %d: %w", shard, err)
				return
			}
			results.Store(shard, res)
		}(shard)
	}
	wg.Wait()
	close(errs)

	if err := <-errs; err != nil {
		return nil, err
	}
	return results, ctx.Err()
}

func runShard(ctx context.Context, w workload, shard int, collector hood.MetricsCollector, logger hood.Logger) (shardResult, error) {
	cache, err := hood.NewCache[int, int](hood.Config{
		Capacity:         w.Capacity,
		Seed:             uint64(w.Seed) + uint64(shard) + 1, // #nosec G115 - seed derivation
		Logger:           logger,
		MetricsCollector: collector,
	}, nil)
	if err != nil {
		return shardResult{}, err
	}

	rng := rand.New(rand.NewSource(w.Seed + int64(shard))) // #nosec G404 - workload generation
	next := keyStream(rng, w.Keys, w.Skew)

	start := time.Now()
	for op := 0; op < w.Ops; op++ {
		if op&1023 == 0 && ctx.Err() != nil {
			break
		}
		k := next()
		switch r := rng.Float64(); {
		case r < w.ReadRatio:
			if _, err := cache.GetOrLoad(k, func() (int, error) { return k * 2, nil }); err != nil {
				return shardResult{}, err
			}
		case r < w.ReadRatio+w.DeleteRatio:
			cache.Delete(k)
		default:
			cache.Insert(k, op)
		}
	}

	res := shardResult{
		Cache:   cache.Stats(),
		Table:   cache.TableStats(),
		Elapsed: time.Since(start),
	}
	return res, cache.Close()
}

// keyStream returns a generator of keys in [0, keys).
func keyStream(rng *rand.Rand, keys int, skew float64) func() int {
	if skew <= 1 || keys == 1 {
		return func() int { return rng.Intn(keys) }
	}
	z := rand.NewZipf(rng, skew, 1, uint64(keys-1))
	return func() int { return int(z.Uint64()) } // #nosec G115 - bounded by keys
}

func printReport(out io.Writer, w workload, results *xsync.MapOf[int, shardResult]) {
	var total hood.CacheStats
	var maxProbe int
	var meanProbe float64
	var elapsed time.Duration
	shards := 0

	fmt.Fprintf(out, "%-6s %10s %10s %10s %8s %9s %9s\n",
		"shard", "hits", "misses", "evictions", "hit%", "maxProbe", "meanProbe")
	for shard := 0; shard < w.Shards; shard++ {
		res, ok := results.Load(shard)
		if !ok {
			continue
		}
		shards++
		fmt.Fprintf(out, "%-6d %10d %10d %10d %8.2f %9d %9.2f\n",
			shard, res.Cache.Hits, res.Cache.Misses, res.Cache.Evictions,
			res.Cache.HitRatio(), res.Table.MaxProbe, res.Table.MeanProbe)

		total.Hits += res.Cache.Hits
		total.Misses += res.Cache.Misses
		total.Inserts += res.Cache.Inserts
		total.Deletes += res.Cache.Deletes
		total.Evictions += res.Cache.Evictions
		total.Size += res.Cache.Size
		total.Capacity += res.Cache.Capacity
		if res.Table.MaxProbe > maxProbe {
			maxProbe = res.Table.MaxProbe
		}
		meanProbe += res.Table.MeanProbe
		if res.Elapsed > elapsed {
			elapsed = res.Elapsed
		}
	}
	if shards == 0 {
		return
	}

	ops := w.Ops * shards
	fmt.Fprintf(out, "\n%d ops over %d shards in %v (%.0f ops/s)\n",
		ops, shards, elapsed.Round(time.Millisecond), float64(ops)/elapsed.Seconds())
	fmt.Fprintf(out, "hit ratio %.2f%%, %d inserts, %d deletes, %d evictions\n",
		total.HitRatio(), total.Inserts, total.Deletes, total.Evictions)
	fmt.Fprintf(out, "max probe %d, mean probe %.2f\n", maxProbe, meanProbe/float64(shards))
}
