// Package envelope provides the isotopomer evaluator and the parallel
// aggregator that folds evaluations into a distribution.
package envelope

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/ChrisMcGann/isoshift/pkg/core"
)

// DefaultBatchSize is the number of isotopomers handed to a worker per task.
const DefaultBatchSize = 1024

// Key identifies one envelope entry: a total isotope mass paired with its
// total shift from the monoisotopic mass.
type Key struct {
	Mass  int
	Shift int
}

// IsotopomerResult is the evaluation of one isotopomer: summed mass, summed
// shift, and the product of per-atom abundances.
type IsotopomerResult struct {
	Mass      int
	Shift     int
	Abundance float64
}

// Key returns the distribution key this result folds into.
func (r IsotopomerResult) Key() Key {
	return Key{Mass: r.Mass, Shift: r.Shift}
}

// Evaluate reduces one isotopomer to its envelope contribution: masses and
// shifts add, abundances multiply. It is pure and safe to call from any
// number of goroutines.
func Evaluate(choices []IsotopeChoice) IsotopomerResult {
	res := IsotopomerResult{Abundance: 1.0}
	for _, choice := range choices {
		res.Mass += choice.Mass
		res.Shift += choice.Shift
		res.Abundance *= choice.Abundance
	}
	return res
}

// Distribution accumulates abundance by (mass, shift). Folding is
// commutative, so the worker count and evaluation order never change the
// result beyond floating-point rounding.
type Distribution map[Key]float64

// Add folds one isotopomer result into the distribution.
func (d Distribution) Add(res IsotopomerResult) {
	d[res.Key()] += res.Abundance
}

// Merge folds every entry of another distribution into this one.
func (d Distribution) Merge(other Distribution) {
	for key, abundance := range other {
		d[key] += abundance
	}
}

// Total returns the summed abundance over all entries. For a normalized
// abundance table this is 1.0 up to floating-point error.
func (d Distribution) Total() float64 {
	total := 0.0
	for _, abundance := range d {
		total += abundance
	}
	return total
}

// Keys returns the distribution's keys ordered by mass, then shift.
func (d Distribution) Keys() []Key {
	keys := make([]Key, 0, len(d))
	for key := range d {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Mass != keys[j].Mass {
			return keys[i].Mass < keys[j].Mass
		}
		return keys[i].Shift < keys[j].Shift
	})
	return keys
}

// Options control how Compute walks the isotopomer space.
type Options struct {
	// Workers is the number of evaluation goroutines. Zero or negative
	// means one; a single worker evaluates inline without spawning.
	Workers int

	// BatchSize is the number of isotopomers per work unit. Zero or
	// negative means DefaultBatchSize.
	BatchSize int
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return 1
	}
	return o.Workers
}

func (o Options) batchSize() int {
	if o.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return o.BatchSize
}

// Compute enumerates every isotopomer of the formula and folds it into a
// distribution. The formula must be congruent with the abundance table.
// Cancelling the context stops the walk, tears the pool down cleanly and
// returns the context's error with no partial result.
func Compute(ctx context.Context, formula core.AtomCount, table core.AbundanceTable, opts Options) (Distribution, error) {
	space, err := NewSpace(formula, table)
	if err != nil {
		return nil, err
	}

	// A zero-slot space holds a single empty isotopomer; nothing to fan out.
	if opts.workers() == 1 || space.Slots() == 0 {
		return computeSequential(ctx, space, opts)
	}
	return computeParallel(ctx, space, opts)
}

func computeSequential(ctx context.Context, space *Space, opts Options) (Distribution, error) {
	dist := make(Distribution)
	buf := make([]IsotopeChoice, space.Slots())
	batchSize := opts.batchSize()

	cur := space.Iter()
	for n := 0; cur.Next(buf); n++ {
		if n%batchSize == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		dist.Add(Evaluate(buf))
	}
	return dist, nil
}

func computeParallel(ctx context.Context, space *Space, opts Options) (Distribution, error) {
	workers := opts.workers()
	batchSize := opts.batchSize()
	slots := space.Slots()

	group, ctx := errgroup.WithContext(ctx)
	batches := make(chan []IsotopeChoice, workers)

	// Producer: walk the space and cut it into flat batches of whole
	// isotopomers. The bounded channel provides backpressure, so at most
	// the buffered batches plus one per worker are alive at a time.
	group.Go(func() error {
		defer close(batches)

		buf := make([]IsotopeChoice, slots)
		batch := make([]IsotopeChoice, 0, batchSize*slots)

		cur := space.Iter()
		for cur.Next(buf) {
			batch = append(batch, buf...)
			if len(batch) < batchSize*slots {
				continue
			}
			select {
			case batches <- batch:
			case <-ctx.Done():
				return ctx.Err()
			}
			batch = make([]IsotopeChoice, 0, batchSize*slots)
		}

		if len(batch) > 0 {
			select {
			case batches <- batch:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	// Workers fold into private partial distributions; the partials merge
	// only after Wait, so the hot path takes no locks.
	partials := make([]Distribution, workers)
	for i := 0; i < workers; i++ {
		partial := make(Distribution)
		partials[i] = partial
		group.Go(func() error {
			for batch := range batches {
				if err := ctx.Err(); err != nil {
					return err
				}
				for start := 0; start < len(batch); start += slots {
					partial.Add(Evaluate(batch[start : start+slots]))
				}
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	dist := make(Distribution)
	for _, partial := range partials {
		dist.Merge(partial)
	}
	return dist, nil
}
