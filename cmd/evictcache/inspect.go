package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/discochess/evictcache"
	"github.com/discochess/evictcache/benchmark/trace"
)

var (
	inspectPolicy   string
	inspectCapacity int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect TRACE",
	Short: "Replay a trace file and print the remaining entries",
	Long: `Replay an access trace against one policy under a simulated clock and
print the operation counts followed by the final cache contents, next
eviction victim first. Trace files ending in .zst or .gz are decompressed.

Trace lines:
  get KEY
  put KEY [TTL]
  del KEY
  advance DURATION`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		policy, err := evictcache.ParsePolicy(inspectPolicy)
		if err != nil {
			return err
		}
		ops, err := trace.ReadFile(args[0])
		if err != nil {
			return err
		}
		logger, err := newLogger()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer logger.Sync()

		clock := evictcache.NewManualClock(time.Unix(0, 0).UTC())
		c, err := evictcache.New(policy, inspectCapacity,
			evictcache.WithClock(clock),
			evictcache.WithLogger(logger),
		)
		if err != nil {
			return err
		}

		counts := replay(c, clock, ops)
		return printInspection(cmd.OutOrStdout(), policy, counts, c.Dump())
	},
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectPolicy, "policy", "p", "lru", "policy: fifo or lru")
	inspectCmd.Flags().IntVarP(&inspectCapacity, "capacity", "c", 100, "cache capacity")

	rootCmd.AddCommand(inspectCmd)
}

// replayCounts tallies a replay.
type replayCounts struct {
	Ops     int
	Hits    int
	Misses  int
	Puts    int
	Removes int
	Elapsed time.Duration
}

// replay applies ops to c. Puts store the key as the value.
func replay(c evictcache.Cache, clock *evictcache.ManualClock, ops []trace.Op) replayCounts {
	counts := replayCounts{Ops: len(ops)}
	for _, op := range ops {
		switch op.Kind {
		case trace.Get:
			if _, ok := c.Get(op.Key); ok {
				counts.Hits++
			} else {
				counts.Misses++
			}
		case trace.Put:
			c.PutWithTTL(op.Key, op.Key, op.Duration)
			counts.Puts++
		case trace.Del:
			if c.Remove(op.Key) {
				counts.Removes++
			}
		case trace.Advance:
			clock.Advance(op.Duration)
			counts.Elapsed += op.Duration
		}
	}
	return counts
}

func printInspection(w io.Writer, policy evictcache.Policy, counts replayCounts, entries []evictcache.Entry) error {
	fmt.Fprintf(w, "Policy:    %s\n", policy)
	fmt.Fprintf(w, "Ops:       %d\n", counts.Ops)
	fmt.Fprintf(w, "Gets:      %d hits, %d misses\n", counts.Hits, counts.Misses)
	fmt.Fprintf(w, "Puts:      %d\n", counts.Puts)
	fmt.Fprintf(w, "Removes:   %d\n", counts.Removes)
	fmt.Fprintf(w, "Clock:     +%s\n", counts.Elapsed)
	fmt.Fprintf(w, "Entries:   %d\n\n", len(entries))

	enc := json.NewEncoder(w)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("encoding entry %q: %w", e.Key, err)
		}
	}
	return nil
}
