package workload

import "fmt"

// ArrivalPattern maps integer days-to-departure (negative, 0 = departure
// day) to cumulative booking probability. Anchored: the earliest point's
// probability is 0.0, the latest (day 0) is 1.0.
type ArrivalPattern struct {
	curve PiecewiseCurve
}

// NewArrivalPattern builds an ArrivalPattern from parallel days/cumProb
// slices, both already sorted ascending by day. Returns
// ErrInvalidDistribution if days aren't strictly increasing, cumProb isn't
// non-decreasing, or the pattern isn't anchored at [0,1].
func NewArrivalPattern(days []int, cumProb []float64) (ArrivalPattern, error) {
	x := make([]float64, len(days))
	for i, d := range days {
		x[i] = float64(d)
	}
	curve, err := NewPiecewiseCurve(x, cumProb)
	if err != nil {
		return ArrivalPattern{}, err
	}
	if !curve.Anchored01() {
		return ArrivalPattern{}, fmt.Errorf("%w: arrival pattern must start at cumulative probability 0.0 and end at 1.0", ErrInvalidDistribution)
	}
	return ArrivalPattern{curve: curve}, nil
}

// InvertToDays maps a cumulative probability back to a days-to-departure
// value via piecewise-linear inversion.
func (a ArrivalPattern) InvertToDays(cumProb float64) float64 {
	return a.curve.Invert(cumProb)
}

// DerivativeAtDays estimates the instantaneous booking rate (dF/d(days))
// at the given days-to-departure value.
func (a ArrivalPattern) DerivativeAtDays(days float64) float64 {
	return a.curve.Derivative(days)
}

// ContinuousCDF maps a real-valued domain (seconds-of-day,
// currency-denominated value-of-time) to cumulative probability, anchored
// at [0,1]. Supports inversion for sampling.
type ContinuousCDF struct {
	curve PiecewiseCurve
}

// NewContinuousCDF builds a ContinuousCDF from parallel x/cumProb slices.
// Returns ErrInvalidDistribution if the table isn't strictly increasing in
// x, non-decreasing in cumProb, or isn't anchored at [0,1].
func NewContinuousCDF(x, cumProb []float64) (ContinuousCDF, error) {
	curve, err := NewPiecewiseCurve(x, cumProb)
	if err != nil {
		return ContinuousCDF{}, err
	}
	if !curve.Anchored01() {
		return ContinuousCDF{}, fmt.Errorf("%w: continuous CDF must start at cumulative probability 0.0 and end at 1.0", ErrInvalidDistribution)
	}
	return ContinuousCDF{curve: curve}, nil
}

// Invert maps a cumulative probability back to a domain value.
func (c ContinuousCDF) Invert(cumProb float64) float64 {
	return c.curve.Invert(cumProb)
}

// FRAT5Pattern relates advance-purchase position p ∈ [0,1] (1 = booked
// at departure, 0 = booked at or beyond the maximum advance-purchase
// horizon) to a WTP elasticity coefficient. Unlike ArrivalPattern and
// ContinuousCDF it is not a probability distribution, so it carries no
// [0,1] anchoring requirement — only forward lookup is needed.
type FRAT5Pattern struct {
	curve PiecewiseCurve
}

// NewFRAT5Pattern builds a FRAT5Pattern from parallel position/value
// slices. Returns ErrInvalidDistribution if positions aren't strictly
// increasing or values decrease.
func NewFRAT5Pattern(positions, values []float64) (FRAT5Pattern, error) {
	curve, err := NewPiecewiseCurve(positions, values)
	if err != nil {
		return FRAT5Pattern{}, err
	}
	return FRAT5Pattern{curve: curve}, nil
}

// Value returns the elasticity coefficient at advance-purchase position p.
func (f FRAT5Pattern) Value(p float64) float64 {
	return f.curve.Value(p)
}
