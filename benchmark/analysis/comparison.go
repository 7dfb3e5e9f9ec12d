package analysis

import (
	"fmt"
	"slices"

	"github.com/discochess/evictcache"
	"github.com/discochess/evictcache/benchmark/simulation"
)

// Tie is reported as the winner when mean hit rates are equal.
const Tie = "tie"

// PolicyComparison is a statistical comparison of the windowed hit rates of
// two policies.
type PolicyComparison struct {
	Policy1         evictcache.Policy
	Policy2         evictcache.Policy
	Stats1          *DescriptiveStats
	Stats2          *DescriptiveStats
	MannWhitney     *MannWhitneyResult
	EffectSize      *EffectSize
	BootstrapCI     *BootstrapResult
	Winner          string // Policy with the higher mean hit rate, or Tie.
	WinnerConfident bool   // True if the difference is significant.
}

// ComparePolicies compares two simulation results on their window hit rates.
func ComparePolicies(
	result1, result2 *simulation.Result,
	bootstrapIterations int,
	confidence float64,
) *PolicyComparison {
	sample1 := result1.WindowHitRates
	sample2 := result2.WindowHitRates

	mw := MannWhitneyU(sample1, sample2)
	stats1 := Describe(sample1)
	stats2 := Describe(sample2)

	winner, confident := Tie, false
	switch {
	case stats1.Mean > stats2.Mean:
		winner, confident = string(result1.Policy), mw.Significant
	case stats2.Mean > stats1.Mean:
		winner, confident = string(result2.Policy), mw.Significant
	}

	return &PolicyComparison{
		Policy1:         result1.Policy,
		Policy2:         result2.Policy,
		Stats1:          stats1,
		Stats2:          stats2,
		MannWhitney:     mw,
		EffectSize:      ComputeEffectSize(sample1, sample2),
		BootstrapCI:     BootstrapConfidenceInterval(sample1, sample2, bootstrapIterations, confidence, 1),
		Winner:          winner,
		WinnerConfident: confident,
	}
}

// Summary returns a human-readable summary of the comparison.
func (c *PolicyComparison) Summary() string {
	sig := "not statistically significant"
	if c.MannWhitney.Significant {
		sig = fmt.Sprintf("statistically significant (p=%.4f)", c.MannWhitney.PValue)
	}

	return fmt.Sprintf(
		"%s vs %s:\n"+
			"  %s: mean=%.2f%%, median=%.2f%%, std=%.2f\n"+
			"  %s: mean=%.2f%%, median=%.2f%%, std=%.2f\n"+
			"  Difference: %.2f points\n"+
			"  Effect size: %.2f (%s)\n"+
			"  Result: %s, %s",
		c.Policy1, c.Policy2,
		c.Policy1, c.Stats1.Mean, c.Stats1.Median, c.Stats1.StdDev,
		c.Policy2, c.Stats2.Mean, c.Stats2.Median, c.Stats2.StdDev,
		c.Stats1.Mean-c.Stats2.Mean,
		c.EffectSize.CohensD, c.EffectSize.Interpretation,
		c.Winner, sig,
	)
}

// MultiPolicyComparison compares every policy against a baseline.
type MultiPolicyComparison struct {
	Baseline    evictcache.Policy
	Comparisons []*PolicyComparison
}

// CompareAll compares every result against the baseline, in policy name
// order. It returns nil when the baseline is missing.
func CompareAll(
	results map[evictcache.Policy]*simulation.Result,
	baseline evictcache.Policy,
	bootstrapIterations int,
	confidence float64,
) *MultiPolicyComparison {
	base, ok := results[baseline]
	if !ok {
		return nil
	}

	multi := &MultiPolicyComparison{Baseline: baseline}
	for _, policy := range SortedPolicies(results) {
		if policy == baseline {
			continue
		}
		multi.Comparisons = append(multi.Comparisons,
			ComparePolicies(base, results[policy], bootstrapIterations, confidence))
	}
	return multi
}

// SortedPolicies returns the policies in results in name order.
func SortedPolicies(results map[evictcache.Policy]*simulation.Result) []evictcache.Policy {
	policies := make([]evictcache.Policy, 0, len(results))
	for p := range results {
		policies = append(policies, p)
	}
	slices.Sort(policies)
	return policies
}
