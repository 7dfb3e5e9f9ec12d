package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/discochess/evictcache"
)

var (
	demoPolicy   string
	demoCapacity int
	demoTTL      time.Duration
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Show FIFO and LRU eviction on a two-entry cache",
	Long: `Run a short fixed sequence against each policy and print the cache
contents, as JSON, after every insert:

  put moon1, put moon2, get moon1, put moon3

The third insert overflows the cache. FIFO evicts moon1 because it was
inserted first; LRU evicts moon2 because moon1 was read more recently.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		policies, err := policiesFor(demoPolicy)
		if err != nil {
			return err
		}
		logger, err := newLogger()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer logger.Sync()

		return runDemo(cmd.OutOrStdout(), demoConfig{
			policies: policies,
			capacity: demoCapacity,
			ttl:      demoTTL,
			clock:    evictcache.SystemClock,
			logger:   logger,
		})
	},
}

func init() {
	demoCmd.Flags().StringVarP(&demoPolicy, "policy", "p", "all", "policy to run: fifo, lru or all")
	demoCmd.Flags().IntVarP(&demoCapacity, "capacity", "c", 2, "cache capacity")
	demoCmd.Flags().DurationVar(&demoTTL, "ttl", 300*time.Second, "TTL of every insert (0 for none)")

	rootCmd.AddCommand(demoCmd)
}

type demoConfig struct {
	policies []evictcache.Policy
	capacity int
	ttl      time.Duration
	clock    evictcache.Clock
	logger   *zap.Logger
}

// demoStep is one operation of the demonstration sequence. Steps with
// dump set print the cache afterwards.
type demoStep struct {
	get   string
	put   string
	value string
	dump  bool
}

var demoSteps = []demoStep{
	{put: "moon1", value: "zhou1", dump: true},
	{put: "moon2", value: "zhou2", dump: true},
	{get: "moon1"},
	{put: "moon3", value: "zhou3", dump: true},
}

func runDemo(w io.Writer, cfg demoConfig) error {
	for _, policy := range cfg.policies {
		c, err := evictcache.New(policy, cfg.capacity,
			evictcache.WithClock(cfg.clock),
			evictcache.WithLogger(cfg.logger),
		)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "== %s (capacity %d) ==\n", policy, cfg.capacity)
		for _, step := range demoSteps {
			if step.get != "" {
				v, ok := c.Get(step.get)
				fmt.Fprintf(w, "get %s -> %v (found: %t)\n", step.get, v, ok)
				continue
			}

			c.PutWithTTL(step.put, step.value, cfg.ttl)
			if !step.dump {
				continue
			}
			data, err := json.Marshal(c.Dump())
			if err != nil {
				return fmt.Errorf("encoding dump: %w", err)
			}
			fmt.Fprintf(w, "put %s -> %s\n", step.put, data)
		}
		fmt.Fprintln(w)
	}
	return nil
}
