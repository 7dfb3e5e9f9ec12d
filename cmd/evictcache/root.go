package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/discochess/evictcache"
)

var (
	// Global flags.
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "evictcache",
	Short: "Bounded FIFO and LRU caches with per-entry TTL",
	Long: `evictcache drives the FIFO and LRU caches from the command line.

Examples:
  # Run the two-entry demonstration against both policies
  evictcache demo

  # Run it against LRU only, with a 10 second TTL
  evictcache demo --policy lru --ttl 10s

  # Replay an access trace and print what is left in the cache
  evictcache inspect trace.txt.zst --policy fifo --capacity 100`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log cache activity to stderr")
}

// newLogger returns a development logger when --verbose is set.
func newLogger() (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

// policiesFor expands "all" to every policy.
func policiesFor(name string) ([]evictcache.Policy, error) {
	if name == "all" {
		return evictcache.Policies(), nil
	}
	p, err := evictcache.ParsePolicy(name)
	if err != nil {
		return nil, err
	}
	return []evictcache.Policy{p}, nil
}
