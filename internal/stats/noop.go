package stats

// Noop is a no-op collector that discards all metrics.
type Noop struct{}

// Compile-time check that Noop implements Collector.
var _ Collector = (*Noop)(nil)

// NewNoop creates a new no-op collector.
func NewNoop() *Noop {
	return &Noop{}
}

func (n *Noop) IncCounter(name, cache string, delta int64)         {}
func (n *Noop) SetGauge(name, cache string, value int64)           {}
func (n *Noop) ObserveHistogram(name, cache string, value float64) {}
