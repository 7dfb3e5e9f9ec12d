// Package logger provides a zap-based stats collector that logs metrics.
package logger

import (
	"go.uber.org/zap"

	"github.com/discochess/evictcache/internal/stats"
)

// Collector implements stats.Collector by logging metrics via zap.
type Collector struct {
	logger *zap.Logger
}

// Compile-time check that Collector implements stats.Collector.
var _ stats.Collector = (*Collector)(nil)

// New creates a new logger-based collector that logs at debug level.
// If logger is nil, a no-op logger is used.
func New(logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{logger: logger}
}

// IncCounter logs a counter increment.
func (c *Collector) IncCounter(name, cache string, delta int64) {
	if ce := c.logger.Check(zap.DebugLevel, "counter"); ce != nil {
		ce.Write(
			zap.String("metric", name),
			zap.String(stats.LabelCache, cache),
			zap.Int64("delta", delta),
		)
	}
}

// SetGauge logs a gauge value.
func (c *Collector) SetGauge(name, cache string, value int64) {
	if ce := c.logger.Check(zap.DebugLevel, "gauge"); ce != nil {
		ce.Write(
			zap.String("metric", name),
			zap.String(stats.LabelCache, cache),
			zap.Int64("value", value),
		)
	}
}

// ObserveHistogram logs a histogram observation.
func (c *Collector) ObserveHistogram(name, cache string, value float64) {
	if ce := c.logger.Check(zap.DebugLevel, "histogram"); ce != nil {
		ce.Write(
			zap.String("metric", name),
			zap.String(stats.LabelCache, cache),
			zap.Float64("value", value),
		)
	}
}
