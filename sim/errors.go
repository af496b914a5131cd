package sim

import "errors"

// ErrInvalidConfig is returned when a stream's declared distributions
// violate an invariant at build time: a probability mass that doesn't sum
// to 1, a non-monotone CDF, or a duplicate DemandStreamKey.
var ErrInvalidConfig = errors.New("invalid demand stream configuration")

// ErrStreamExhausted is returned by GenerateNext when the stream has
// already produced total_requests_to_generate events. Callers must check
// StillHasRequests before calling GenerateNext; this is a programming
// error, not a statistical outcome.
var ErrStreamExhausted = errors.New("demand stream exhausted")

// ErrQueueEmpty is returned by PopNext on an empty EventQueue. Callers
// must check IsEmpty first; this is a programming error.
var ErrQueueEmpty = errors.New("event queue is empty")

// ErrNumericInvariant guards the order-statistic branch's `n-k+1 > 0`
// precondition. Should be unreachable given the exhaustion check in
// StillHasRequests; surfaced as an error rather than a panic so a caller
// that somehow trips it gets a diagnosable failure instead of a crash.
var ErrNumericInvariant = errors.New("numeric invariant violated")
