package sim

import "math/rand"

// SimulationSeed identifies a reproducible generation run. Two runs built
// from the same SimulationSeed and an identical set of segment specs MUST
// produce bit-for-bit identical event sequences.
type SimulationSeed int64

// NewSimulationSeed wraps a raw seed value.
func NewSimulationSeed(seed int64) SimulationSeed {
	return SimulationSeed(seed)
}

// MasterRNG is the single top-level uniform source the user seeds. Every
// per-stream substream seed, and every stream's total-request-count draw,
// is a deterministic function of draws from this generator, consumed in a
// fixed order. Not safe for concurrent use — the engine is single-threaded
// by design (spec §5).
type MasterRNG struct {
	seed SimulationSeed
	rng  *rand.Rand
}

// NewMasterRNG creates a MasterRNG from a SimulationSeed.
func NewMasterRNG(seed SimulationSeed) *MasterRNG {
	return &MasterRNG{
		seed: seed,
		rng:  rand.New(rand.NewSource(int64(seed))),
	}
}

// Seed returns the SimulationSeed this generator was built from.
func (m *MasterRNG) Seed() SimulationSeed {
	return m.seed
}

// DrawSubstreamSeed draws one 32-bit seed for a new substream. Call order
// matters for reproducibility: stream construction draws the time-RNG
// seed before the characteristics-RNG seed, always.
func (m *MasterRNG) DrawSubstreamSeed() uint32 {
	return uint32(m.rng.Int63() & 0xffffffff)
}

// DrawNormal draws directly from the master generator (not a substream).
// Used once per stream to pick total_requests_to_generate; drawing from
// the master here means a reset's re-draw consumes fresh master entropy,
// per spec §4.5.
func (m *MasterRNG) DrawNormal(mean, stdDev float64) float64 {
	if stdDev == 0 {
		return mean
	}
	return m.rng.NormFloat64()*stdDev + mean
}

// DrawFloat64 draws a single uniform in [0,1) directly from the master.
// Cancellation generation does not use it: DemandManager draws
// cancellations from its own substream.
func (m *MasterRNG) DrawFloat64() float64 {
	return m.rng.Float64()
}

// NewSubstreamRNG creates an independent *rand.Rand from a 32-bit seed.
// Two substreams built from different seeds are statistically independent;
// the same seed always reproduces the same sequence.
func NewSubstreamRNG(seed uint32) *rand.Rand {
	return rand.New(rand.NewSource(int64(seed)))
}
