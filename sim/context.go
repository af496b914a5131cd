package sim

import "time"

// RandomGenerationContext is the mutable per-stream state carried between
// successive GenerateNext calls: how many requests have been produced,
// how far the order-statistic method has advanced through the arrival
// pattern's cumulative probability, and the last event time (used by the
// Poisson method to compute the next inter-arrival gap).
type RandomGenerationContext struct {
	RequestsGeneratedSoFar     int
	CumulativeProbabilitySoFar float64
	LastEventTime              time.Time
	FirstRequestFlag           bool
}

// reset zeros the counters and LastEventTime (the zero time.Time) and sets
// FirstRequestFlag back to true, so the next GenerateNext call re-enters
// the first-call branch of the exponential method.
func (c *RandomGenerationContext) reset() {
	c.RequestsGeneratedSoFar = 0
	c.CumulativeProbabilitySoFar = 0
	c.LastEventTime = time.Time{}
	c.FirstRequestFlag = true
}
