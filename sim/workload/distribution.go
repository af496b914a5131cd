// Package workload provides the distribution primitives that back a demand
// stream's statistical parameters: discrete probability masses sampled by
// categorical inverse-CDF, and piecewise-linear curves sampled by
// CDF-inversion or evaluated directly.
package workload

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

// ErrInvalidDistribution is returned when a distribution's configuration
// violates its invariants (a mass that doesn't sum to 1, a non-monotone
// curve, too few points).
var ErrInvalidDistribution = errors.New("invalid distribution configuration")

// massTolerance is the allowed slack when checking that a ProbabilityMass
// sums to 1.0.
const massTolerance = 1e-9

// ProbabilityMass is a discrete mapping from category K to probability,
// summing to 1.0. Sampling draws a uniform and returns the first category
// (in canonical, sorted order) whose cumulative probability is at least
// that uniform — the categorical inverse-CDF method.
type ProbabilityMass[K comparable] struct {
	keys []K
	cum  []float64
}

// NewProbabilityMass validates and builds a ProbabilityMass from a
// category→probability map. Returns ErrInvalidDistribution if the map is
// empty or its probabilities don't sum to 1.0 within massTolerance.
func NewProbabilityMass[K comparable](mass map[K]float64) (ProbabilityMass[K], error) {
	if len(mass) == 0 {
		return ProbabilityMass[K]{}, fmt.Errorf("%w: probability mass has no categories", ErrInvalidDistribution)
	}

	keys := make([]K, 0, len(mass))
	for k := range mass {
		keys = append(keys, k)
	}
	// Canonical ordering: sort by the string form so sampling is
	// deterministic regardless of map iteration order or K's concrete type.
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
	})

	total := 0.0
	for _, k := range keys {
		total += mass[k]
	}
	if diff := total - 1.0; diff > massTolerance || diff < -massTolerance {
		return ProbabilityMass[K]{}, fmt.Errorf("%w: probabilities sum to %.12f, want 1.0 (tolerance %.0e)", ErrInvalidDistribution, total, massTolerance)
	}

	cum := make([]float64, len(keys))
	running := 0.0
	for i, k := range keys {
		running += mass[k]
		cum[i] = running
	}
	cum[len(cum)-1] = 1.0 // pin the last entry against float drift

	return ProbabilityMass[K]{keys: keys, cum: cum}, nil
}

// Empty reports whether this mass has no categories (the zero value).
func (p ProbabilityMass[K]) Empty() bool {
	return len(p.keys) == 0
}

// Sample draws a category via categorical inverse-CDF. Panics on the zero
// value — callers must check Empty() first (the caller-visible behavior
// for an empty stream-level mass is to fall back to a default mass, per
// spec §4.4, not to sample an empty one).
func (p ProbabilityMass[K]) Sample(rng *rand.Rand) K {
	u := rng.Float64()
	idx := sort.SearchFloat64s(p.cum, u)
	if idx >= len(p.keys) {
		idx = len(p.keys) - 1
	}
	return p.keys[idx]
}

// PiecewiseCurve is a piecewise-linear monotone-non-decreasing mapping
// y = f(x), sampled over an ordered table of points. It backs
// ArrivalPattern, ContinuousCDF, and FRAT5Pattern — each of those imposes
// its own endpoint invariants on top of this shared interpolation engine.
//
// Production code hand-rolls this interpolation rather than reaching for
// gonum/interp.PiecewiseLinear: that routine requires strictly increasing
// x, but spec curves only guarantee non-decreasing y (flat stretches — a
// run of days with zero incremental booking probability — are legal input,
// and gonum panics on exactly that shape). See DESIGN.md.
type PiecewiseCurve struct {
	x []float64
	y []float64
}

// NewPiecewiseCurve builds a curve from parallel x/y slices. x must be
// strictly increasing; y must be non-decreasing. Returns
// ErrInvalidDistribution otherwise, or if fewer than two points are given.
func NewPiecewiseCurve(x, y []float64) (PiecewiseCurve, error) {
	if len(x) != len(y) {
		return PiecewiseCurve{}, fmt.Errorf("%w: x and y have different lengths (%d vs %d)", ErrInvalidDistribution, len(x), len(y))
	}
	if len(x) < 2 {
		return PiecewiseCurve{}, fmt.Errorf("%w: curve needs at least 2 points, got %d", ErrInvalidDistribution, len(x))
	}
	for i := 1; i < len(x); i++ {
		if x[i] <= x[i-1] {
			return PiecewiseCurve{}, fmt.Errorf("%w: x values must be strictly increasing (x[%d]=%v <= x[%d]=%v)", ErrInvalidDistribution, i, x[i], i-1, x[i-1])
		}
		if y[i] < y[i-1] {
			return PiecewiseCurve{}, fmt.Errorf("%w: y values must be non-decreasing (y[%d]=%v < y[%d]=%v)", ErrInvalidDistribution, i, y[i], i-1, y[i-1])
		}
	}
	xCopy := append([]float64(nil), x...)
	yCopy := append([]float64(nil), y...)
	return PiecewiseCurve{x: xCopy, y: yCopy}, nil
}

// Anchored01 reports whether the curve's first y is 0.0 and last y is 1.0,
// the invariant ArrivalPattern and ContinuousCDF both require.
func (c PiecewiseCurve) Anchored01() bool {
	if len(c.y) == 0 {
		return false
	}
	return c.y[0] == 0.0 && c.y[len(c.y)-1] == 1.0
}

// Value evaluates y at x via linear interpolation, clamping to the
// endpoint value outside the table's domain.
func (c PiecewiseCurve) Value(x float64) float64 {
	n := len(c.x)
	if x <= c.x[0] {
		return c.y[0]
	}
	if x >= c.x[n-1] {
		return c.y[n-1]
	}
	i := sort.SearchFloat64s(c.x, x)
	if c.x[i] == x {
		return c.y[i]
	}
	// i is the first index with c.x[i] > x, so the bracketing segment is [i-1, i].
	x0, x1 := c.x[i-1], c.x[i]
	y0, y1 := c.y[i-1], c.y[i]
	frac := (x - x0) / (x1 - x0)
	return y0 + frac*(y1-y0)
}

// Invert finds x such that f(x) = y, assuming y is monotone non-decreasing
// over the table (as required by Anchored01 curves). Clamps to the
// endpoint x outside [y[0], y[n-1]]. On a flat segment (y[i] == y[i-1]),
// returns the segment's start x.
func (c PiecewiseCurve) Invert(y float64) float64 {
	n := len(c.y)
	if y <= c.y[0] {
		return c.x[0]
	}
	if y >= c.y[n-1] {
		return c.x[n-1]
	}
	i := sort.SearchFloat64s(c.y, y)
	if c.y[i] == y {
		return c.x[i]
	}
	x0, x1 := c.x[i-1], c.x[i]
	y0, y1 := c.y[i-1], c.y[i]
	if y1 == y0 {
		return x0
	}
	frac := (y - y0) / (y1 - y0)
	return x0 + frac*(x1-x0)
}

// Derivative estimates dy/dx at x via the finite difference over the
// segment containing x (the slope of that linear piece). At or beyond the
// table's ends, uses the first/last segment's slope.
func (c PiecewiseCurve) Derivative(x float64) float64 {
	n := len(c.x)
	if n < 2 {
		return 0
	}
	i := sort.SearchFloat64s(c.x, x)
	switch {
	case i <= 0:
		i = 1
	case i >= n:
		i = n - 1
	}
	dx := c.x[i] - c.x[i-1]
	if dx == 0 {
		return 0
	}
	return (c.y[i] - c.y[i-1]) / dx
}
