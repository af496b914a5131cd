// Package trace provides fire-and-forget recording of generation events for
// reporting. It has no dependency on sim or sim/workload — it stores pure
// data types so the engine never needs to import it.
package trace

import "time"

// BookingRecord captures a single generated booking request.
type BookingRecord struct {
	StreamKey        string
	RequestDateTime  time.Time
	DepartureDate    time.Time
	Cabin            string
	POS              string
	Channel          string
	PartySize        int
	WillingnessToPay float64
}

// CancellationRecord captures a single generated cancellation.
type CancellationRecord struct {
	StreamKey string
	EventTime time.Time
	PartySize int
}
