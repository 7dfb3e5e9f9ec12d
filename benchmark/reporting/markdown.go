// Package reporting renders simulation results.
package reporting

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/discochess/evictcache"
	"github.com/discochess/evictcache/benchmark/analysis"
	"github.com/discochess/evictcache/benchmark/simulation"
)

// MarkdownReport generates benchmark reports in Markdown format.
type MarkdownReport struct {
	w io.Writer
}

// NewMarkdownReport creates a new Markdown report writer.
func NewMarkdownReport(w io.Writer) *MarkdownReport {
	return &MarkdownReport{w: w}
}

// WriteHeader writes the report header.
func (r *MarkdownReport) WriteHeader(title string, generated time.Time) {
	fmt.Fprintf(r.w, "# %s\n\n", title)
	fmt.Fprintf(r.w, "Generated: %s\n\n", generated.Format(time.RFC3339))
}

// WriteMethodology writes the methodology section.
func (r *MarkdownReport) WriteMethodology(ops int, cfg simulation.Config) {
	fmt.Fprintln(r.w, "## Methodology")
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "- **Trace operations:** %d\n", ops)
	fmt.Fprintf(r.w, "- **Capacity:** %d", cfg.Capacity)
	if cfg.Shards > 1 {
		fmt.Fprintf(r.w, " over %d shards", cfg.Shards)
	}
	fmt.Fprintln(r.w)
	if cfg.LoadTTL > 0 {
		fmt.Fprintf(r.w, "- **TTL of loaded values:** %s\n", cfg.LoadTTL)
	} else {
		fmt.Fprintln(r.w, "- **TTL of loaded values:** none")
	}
	fmt.Fprintf(r.w, "- **Metric:** hit rate per window of %d gets (higher is better)\n", cfg.Window)
	fmt.Fprintln(r.w, "- **Statistical tests:** Mann-Whitney U (non-parametric), Cohen's d effect size")
	fmt.Fprintln(r.w)
}

// WriteSummaryTable writes the summary table, one row per policy.
func (r *MarkdownReport) WriteSummaryTable(results map[evictcache.Policy]*simulation.Result) {
	fmt.Fprintln(r.w, "## Summary")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "| Policy | Hit Rate | Median Window | P10 Window | Evictions | Expirations | Final Size |")
	fmt.Fprintln(r.w, "|--------|----------|---------------|------------|-----------|-------------|------------|")

	for _, policy := range analysis.SortedPolicies(results) {
		res := results[policy]
		m := simulation.ComputeMetrics(res)
		fmt.Fprintf(r.w, "| %s | %.1f%% | %.1f%% | %.1f%% | %d | %d | %d |\n",
			policy, m.HitRate, m.MedianWindowHitRate, m.P10WindowHitRate,
			res.Evictions, res.Expirations, res.FinalSize)
	}
	fmt.Fprintln(r.w)
}

// WriteComparison writes a detailed comparison section.
func (r *MarkdownReport) WriteComparison(comp *analysis.PolicyComparison) {
	p1, p2 := string(comp.Policy1), string(comp.Policy2)
	fmt.Fprintf(r.w, "## %s vs %s\n\n", p1, p2)

	fmt.Fprintln(r.w, "### Descriptive Statistics")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "| Metric | "+p1+" | "+p2+" |")
	fmt.Fprintln(r.w, "|--------|"+strings.Repeat("-", len(p1)+2)+"|"+strings.Repeat("-", len(p2)+2)+"|")
	fmt.Fprintf(r.w, "| Mean | %.2f | %.2f |\n", comp.Stats1.Mean, comp.Stats2.Mean)
	fmt.Fprintf(r.w, "| Median | %.2f | %.2f |\n", comp.Stats1.Median, comp.Stats2.Median)
	fmt.Fprintf(r.w, "| Std Dev | %.2f | %.2f |\n", comp.Stats1.StdDev, comp.Stats2.StdDev)
	fmt.Fprintf(r.w, "| Min | %.1f | %.1f |\n", comp.Stats1.Min, comp.Stats2.Min)
	fmt.Fprintf(r.w, "| Max | %.1f | %.1f |\n", comp.Stats1.Max, comp.Stats2.Max)
	fmt.Fprintln(r.w)

	fmt.Fprintln(r.w, "### Statistical Analysis")
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "- **Mann-Whitney U:** %.2f (z=%.2f, p=%.4f)\n",
		comp.MannWhitney.U, comp.MannWhitney.Z, comp.MannWhitney.PValue)
	fmt.Fprintf(r.w, "- **Effect size (Cohen's d):** %.2f (%s)\n",
		comp.EffectSize.CohensD, comp.EffectSize.Interpretation)
	fmt.Fprintf(r.w, "- **%.0f%% CI for mean difference:** [%.2f, %.2f]\n",
		comp.BootstrapCI.Confidence*100, comp.BootstrapCI.LowerBound, comp.BootstrapCI.UpperBound)
	fmt.Fprintln(r.w)

	fmt.Fprintln(r.w, "### Conclusion")
	fmt.Fprintln(r.w)
	if comp.WinnerConfident {
		fmt.Fprintf(r.w, "**%s** shows a statistically significant hit rate improvement over %s ",
			comp.Winner, otherPolicy(comp.Winner, p1, p2))
		fmt.Fprintf(r.w, "(p < %.2f, effect size: %s).\n", analysis.Significance, comp.EffectSize.Interpretation)
	} else {
		fmt.Fprintf(r.w, "No statistically significant difference detected between policies (p >= %.2f).\n", analysis.Significance)
	}
	fmt.Fprintln(r.w)
}

func otherPolicy(winner, p1, p2 string) string {
	if winner == p1 {
		return p2
	}
	return p1
}

// WriteDistributionChart writes an ASCII chart of window hit rates in
// 10-point buckets.
func (r *MarkdownReport) WriteDistributionChart(name string, rates []float64) {
	fmt.Fprintf(r.w, "### %s Window Hit Rates\n\n", name)
	fmt.Fprintln(r.w, "```")

	hist := makeHistogram(rates)
	maxCount := 0
	for _, count := range hist {
		maxCount = max(maxCount, count)
	}

	const width = 40
	for i, count := range hist {
		barLen := 0
		if maxCount > 0 {
			barLen = count * width / maxCount
		}
		fmt.Fprintf(r.w, "%3d-%3d%% │ %s %d\n", i*10, (i+1)*10, strings.Repeat("█", barLen), count)
	}

	fmt.Fprintln(r.w, "```")
	fmt.Fprintln(r.w)
}

// makeHistogram buckets percentages into ten 10-point buckets; 100 falls in
// the last one.
func makeHistogram(rates []float64) []int {
	hist := make([]int, 10)
	for _, v := range rates {
		bucket := int(v / 10)
		bucket = min(max(bucket, 0), len(hist)-1)
		hist[bucket]++
	}
	return hist
}

// WriteFooter writes the report footer.
func (r *MarkdownReport) WriteFooter() {
	fmt.Fprintln(r.w, "---")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "*Report generated by evictcache-bench*")
}
