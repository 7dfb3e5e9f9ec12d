package simulation

import (
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Metrics contains derived metrics for one policy.
type Metrics struct {
	// Core metrics.
	HitRate   float64
	Gets      int
	FinalSize int

	// Reclamation metrics.
	EvictionsPerPut float64 // Capacity evictions per explicit or loaded insert.
	ExpiredShare    float64 // Percentage of reclaimed entries that had expired.

	// Window distribution.
	MinWindowHitRate    float64
	MedianWindowHitRate float64
	P10WindowHitRate    float64
	MaxWindowHitRate    float64
}

// ComputeMetrics computes derived metrics from a result.
func ComputeMetrics(r *Result) *Metrics {
	m := &Metrics{
		HitRate:   r.HitRate(),
		Gets:      r.Gets,
		FinalSize: r.FinalSize,
	}

	if inserts := r.Puts + r.Misses; inserts > 0 {
		m.EvictionsPerPut = float64(r.Evictions) / float64(inserts)
	}
	if reclaimed := r.Evictions + r.Expirations; reclaimed > 0 {
		m.ExpiredShare = float64(r.Expirations) / float64(reclaimed) * 100
	}

	if len(r.WindowHitRates) > 0 {
		sorted := slices.Clone(r.WindowHitRates)
		slices.Sort(sorted)

		m.MinWindowHitRate = sorted[0]
		m.MaxWindowHitRate = sorted[len(sorted)-1]
		m.MedianWindowHitRate = stat.Quantile(0.5, stat.Empirical, sorted, nil)
		m.P10WindowHitRate = stat.Quantile(0.1, stat.Empirical, sorted, nil)
	}

	return m
}
