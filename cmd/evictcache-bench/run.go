package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/discochess/evictcache"
	"github.com/discochess/evictcache/benchmark/analysis"
	"github.com/discochess/evictcache/benchmark/reporting"
	"github.com/discochess/evictcache/benchmark/simulation"
	"github.com/discochess/evictcache/benchmark/trace"
	"github.com/discochess/evictcache/internal/shard"
	"github.com/discochess/evictcache/internal/shard/fnvshard"
	"github.com/discochess/evictcache/internal/shard/xxshard"
	"github.com/discochess/evictcache/internal/stats"
	statslogger "github.com/discochess/evictcache/internal/stats/logger"
	statsprom "github.com/discochess/evictcache/internal/stats/prometheus"
)

var (
	traceFile    string
	policyNames  []string
	simCfg       = simulation.DefaultConfig()
	outputFormat string
	outputFile   string
	showMetrics  bool
	shardHash    string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the policy simulation",
	Long: `Replay a trace against each policy and report hit rates. Without --trace
a trace is generated from the generator flags.`,
	Args: cobra.NoArgs,
	RunE: runBenchmark,
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&traceFile, "trace", "t", "", "trace file (supports .zst and .gz)")
	f.StringSliceVarP(&policyNames, "policies", "p", []string{"fifo", "lru"}, "policies to compare; the first is the baseline")
	f.IntVarP(&simCfg.Capacity, "capacity", "c", simCfg.Capacity, "cache capacity")
	f.IntVar(&simCfg.Shards, "shards", simCfg.Shards, "split each cache into this many lock stripes")
	f.StringVar(&shardHash, "shard-hash", "fnv", "key hash for sharding: fnv, xxhash")
	f.DurationVar(&simCfg.LoadTTL, "load-ttl", simCfg.LoadTTL, "TTL of values loaded after a miss (0 for none)")
	f.IntVar(&simCfg.Window, "window", simCfg.Window, "gets per hit-rate sample")
	f.StringVarP(&outputFormat, "format", "f", "text", "output format: text, markdown")
	f.StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	f.BoolVar(&showMetrics, "metrics", false, "print collected Prometheus metrics after the report")
	addGenerateFlags(runCmd)

	rootCmd.AddCommand(runCmd)
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	policies := make([]evictcache.Policy, 0, len(policyNames))
	for _, name := range policyNames {
		p, err := evictcache.ParsePolicy(name)
		if err != nil {
			return err
		}
		policies = append(policies, p)
	}

	strategy, err := shardStrategy(shardHash)
	if err != nil {
		return err
	}
	simCfg.ShardStrategy = strategy

	ops, err := loadTrace()
	if err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Replaying %d operations against %v...\n", len(ops), policies)
	}

	registry := prometheus.NewRegistry()
	var collector stats.Collector = stats.NewNoop()
	switch {
	case showMetrics:
		collector = statsprom.New(registry)
	case verbose:
		collector = statslogger.New(logger)
	}

	cfg := simCfg
	cfg.Stats = collector
	cfg.Logger = logger

	sim, err := simulation.NewSimulator(cfg, policies...)
	if err != nil {
		return err
	}
	results, err := sim.Run(cmd.Context(), ops)
	if err != nil {
		return err
	}

	var comparison *analysis.MultiPolicyComparison
	if len(policies) >= 2 {
		comparison = analysis.CompareAll(results, policies[0], 10000, 0.95)
	}

	var output io.Writer = cmd.OutOrStdout()
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	switch outputFormat {
	case "markdown":
		writeMarkdownReport(output, len(ops), cfg, results, comparison)
	case "text":
		if err := writeTextReport(output, len(ops), results, comparison); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown output format %q", outputFormat)
	}

	if showMetrics {
		return writeMetrics(output, registry)
	}
	return nil
}

func loadTrace() ([]trace.Op, error) {
	if traceFile == "" {
		return trace.Generate(genCfg)
	}
	ops, err := trace.ReadFile(traceFile)
	if err != nil {
		return nil, err
	}
	if len(ops) == 0 {
		return nil, fmt.Errorf("no operations in %s", traceFile)
	}
	return ops, nil
}

func writeTextReport(w io.Writer, ops int, results map[evictcache.Policy]*simulation.Result, multi *analysis.MultiPolicyComparison) error {
	fmt.Fprintf(w, "Eviction Policy Benchmark\n")
	fmt.Fprintf(w, "=========================\n\n")
	fmt.Fprintf(w, "Operations: %d\n", ops)
	fmt.Fprintf(w, "Capacity:   %d\n\n", simCfg.Capacity)

	if err := reporting.WriteText(w, results); err != nil {
		return err
	}

	if multi != nil {
		for _, comp := range multi.Comparisons {
			fmt.Fprintf(w, "\n%s\n", comp.Summary())
		}
	}
	return nil
}

func writeMarkdownReport(w io.Writer, ops int, cfg simulation.Config, results map[evictcache.Policy]*simulation.Result, multi *analysis.MultiPolicyComparison) {
	r := reporting.NewMarkdownReport(w)
	r.WriteHeader("Eviction Policy Benchmark Report", time.Now())
	r.WriteMethodology(ops, cfg)
	r.WriteSummaryTable(results)

	if multi != nil {
		for _, comp := range multi.Comparisons {
			r.WriteComparison(comp)
		}
	}

	fmt.Fprintln(w, "## Distributions")
	fmt.Fprintln(w)
	for _, policy := range analysis.SortedPolicies(results) {
		r.WriteDistributionChart(string(policy), results[policy].WindowHitRates)
	}

	r.WriteFooter()
}

// writeMetrics prints every gathered metric family in the Prometheus text
// exposition format.
func writeMetrics(w io.Writer, gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	fmt.Fprintln(w)
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func shardStrategy(name string) (shard.Strategy, error) {
	switch name {
	case "fnv":
		return fnvshard.New(), nil
	case "xxhash":
		return xxshard.New(), nil
	default:
		return nil, fmt.Errorf("unknown shard hash %q (want fnv or xxhash)", name)
	}
}
