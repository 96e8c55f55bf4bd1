// Package filter provides post-aggregation pruning of mass-shift distributions
package filter

import (
	"sort"

	"github.com/ChrisMcGann/isoshift/pkg/envelope"
)

// Config holds filtering configuration
type Config struct {
	TopN   int     // Keep only the N most abundant entries (0 = no limit)
	Cutoff float64 // Keep only entries above this % of the most abundant entry (0 = no cutoff)
}

// Apply applies all configured filters to a distribution, pruning it in place
func (c *Config) Apply(dist envelope.Distribution) {
	// Apply the abundance cutoff first
	if c.Cutoff > 0 {
		c.filterByCutoff(dist)
	}

	// Apply top-N filter
	if c.TopN > 0 {
		c.filterTopN(dist)
	}
}

// filterByCutoff removes entries below the cutoff percentage of the most
// abundant entry
func (c *Config) filterByCutoff(dist envelope.Distribution) {
	if len(dist) == 0 {
		return
	}

	// Find the most abundant entry
	maxAbundance := 0.0
	for _, abundance := range dist {
		if abundance > maxAbundance {
			maxAbundance = abundance
		}
	}

	// Calculate threshold
	threshold := (c.Cutoff / 100.0) * maxAbundance

	for key, abundance := range dist {
		if abundance < threshold {
			delete(dist, key)
		}
	}
}

// filterTopN keeps only the N most abundant entries. Ties at the boundary
// break by (mass, shift) order so the result is deterministic.
func (c *Config) filterTopN(dist envelope.Distribution) {
	if len(dist) <= c.TopN {
		return
	}

	keys := dist.Keys()
	sort.SliceStable(keys, func(i, j int) bool {
		return dist[keys[i]] > dist[keys[j]]
	})

	for _, key := range keys[c.TopN:] {
		delete(dist, key)
	}
}
