package evictcache

import (
	"fmt"
	"strings"
)

// Policy names an eviction discipline.
type Policy string

// Supported policies.
const (
	// PolicyFIFO evicts the oldest insertion first, ignoring reads.
	PolicyFIFO Policy = "fifo"
	// PolicyLRU evicts the least recently read or written entry first.
	PolicyLRU Policy = "lru"
)

// Policies returns every supported policy.
func Policies() []Policy {
	return []Policy{PolicyFIFO, PolicyLRU}
}

// ParsePolicy converts a case-insensitive policy name.
func ParsePolicy(name string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(name))); p {
	case PolicyFIFO, PolicyLRU:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// New creates a cache with the given policy and capacity.
func New(policy Policy, capacity int, opts ...Option) (Cache, error) {
	switch policy {
	case PolicyFIFO:
		c, err := NewFIFO(capacity, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	case PolicyLRU:
		c, err := NewLRU(capacity, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, policy)
	}
}
