// Package sim implements the stochastic demand-generation engine: per-
// segment demand streams, the event queue that merges them into one
// chronological sequence, and the manager that orchestrates both.
//
// Read in this order: rng.go (the master generator and substream
// derivation), workload's distribution primitives, characteristics.go and
// context.go (the value objects a stream owns), stream.go (the two
// inter-arrival algorithms and attribute sampling), queue.go (the
// priority structure), and manager.go (the orchestrator consumers talk
// to).
package sim
