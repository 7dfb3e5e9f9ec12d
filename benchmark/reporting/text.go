package reporting

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/discochess/evictcache"
	"github.com/discochess/evictcache/benchmark/analysis"
	"github.com/discochess/evictcache/benchmark/simulation"
)

// WriteText writes a plain-text table of results, one row per policy.
func WriteText(w io.Writer, results map[evictcache.Policy]*simulation.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "POLICY\tGETS\tHITS\tHIT RATE\tEVICTIONS\tEXPIRATIONS\tSIZE\tELAPSED")
	for _, policy := range analysis.SortedPolicies(results) {
		res := results[policy]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f%%\t%d\t%d\t%d\t%s\n",
			policy, res.Gets, res.Hits, res.HitRate(),
			res.Evictions, res.Expirations, res.FinalSize, res.Elapsed.Round(time.Millisecond))
	}
	return tw.Flush()
}
