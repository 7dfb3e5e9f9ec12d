package trace

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// ErrInvalidConfig is returned by Generate for unusable settings.
var ErrInvalidConfig = errors.New("trace: invalid generate config")

// GenerateConfig controls synthetic trace generation.
type GenerateConfig struct {
	Ops  int // Number of operations.
	Keys int // Size of the key universe.

	// Skew is the Zipf exponent; it must be greater than 1. Larger values
	// concentrate accesses on fewer keys.
	Skew float64

	PutRatio     float64 // Fraction of explicit puts.
	DelRatio     float64 // Fraction of deletes.
	AdvanceRatio float64 // Fraction of clock advances.

	TTL  time.Duration // TTL of generated puts; zero means none.
	Step time.Duration // Clock step of generated advances.

	Seed uint64
}

// DefaultGenerateConfig returns a read-heavy workload over 10,000 keys.
func DefaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		Ops:          100_000,
		Keys:         10_000,
		Skew:         1.1,
		PutRatio:     0.1,
		DelRatio:     0.01,
		AdvanceRatio: 0.05,
		TTL:          5 * time.Minute,
		Step:         time.Second,
		Seed:         1,
	}
}

func (c GenerateConfig) validate() error {
	switch {
	case c.Ops < 0:
		return fmt.Errorf("%w: ops %d", ErrInvalidConfig, c.Ops)
	case c.Keys < 1:
		return fmt.Errorf("%w: keys %d", ErrInvalidConfig, c.Keys)
	case c.Skew <= 1:
		return fmt.Errorf("%w: skew %g must be > 1", ErrInvalidConfig, c.Skew)
	case c.PutRatio < 0, c.DelRatio < 0, c.AdvanceRatio < 0:
		return fmt.Errorf("%w: negative ratio", ErrInvalidConfig)
	case c.PutRatio+c.DelRatio+c.AdvanceRatio > 1:
		return fmt.Errorf("%w: ratios sum above 1", ErrInvalidConfig)
	case c.AdvanceRatio > 0 && c.Step <= 0:
		return fmt.Errorf("%w: advances need a positive step", ErrInvalidConfig)
	case c.TTL < 0:
		return fmt.Errorf("%w: negative ttl", ErrInvalidConfig)
	}
	return nil
}

// Generate returns a synthetic trace. Keys follow a Zipf distribution and
// operations not drawn as put, del or advance are gets. The same config
// always yields the same trace.
func Generate(cfg GenerateConfig) ([]Op, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	zipf := rand.NewZipf(rng, cfg.Skew, 1, uint64(cfg.Keys-1))

	ops := make([]Op, 0, cfg.Ops)
	for len(ops) < cfg.Ops {
		key := fmt.Sprintf("key-%d", zipf.Uint64())
		switch p := rng.Float64(); {
		case p < cfg.PutRatio:
			ops = append(ops, Op{Kind: Put, Key: key, Duration: cfg.TTL})
		case p < cfg.PutRatio+cfg.DelRatio:
			ops = append(ops, Op{Kind: Del, Key: key})
		case p < cfg.PutRatio+cfg.DelRatio+cfg.AdvanceRatio:
			ops = append(ops, Op{Kind: Advance, Duration: cfg.Step})
		default:
			ops = append(ops, Op{Kind: Get, Key: key})
		}
	}
	return ops, nil
}
