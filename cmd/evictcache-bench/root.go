package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "evictcache-bench",
	Short: "Benchmark FIFO and LRU eviction on access traces",
	Long: `evictcache-bench replays access traces against each eviction policy and
compares their hit rates.

Examples:
  # Generate a skewed trace
  evictcache-bench generate --ops 200000 --keys 20000 --output trace.txt.zst

  # Compare policies on it
  evictcache-bench run --trace trace.txt.zst --capacity 2000

  # Compare on a generated trace, as markdown, and print Prometheus metrics
  evictcache-bench run --capacity 500 --format markdown --metrics`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func newLogger() (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}
