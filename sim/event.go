package sim

import (
	"fmt"
	"time"
)

// GenerationMethod selects which inter-arrival algorithm a stream uses to
// produce its next request. A tagged enum rather than two stream subtypes:
// the original source modeled this as a class hierarchy, but the
// algorithm is better expressed here as a value passed per call.
type GenerationMethod int

const (
	// MethodStatisticOrder models arrivals as sorted i.i.d. draws from the
	// arrival pattern (the order-statistic method, §4.3.1).
	MethodStatisticOrder GenerationMethod = iota
	// MethodPoisson models arrivals as a non-homogeneous Poisson process
	// thinned by the arrival pattern's derivative (§4.3.2).
	MethodPoisson
)

func (m GenerationMethod) String() string {
	switch m {
	case MethodStatisticOrder:
		return "StatisticOrder"
	case MethodPoisson:
		return "Poisson"
	default:
		return fmt.Sprintf("GenerationMethod(%d)", int(m))
	}
}

// DemandStreamKey identifies a demand stream: one (origin, destination,
// departure date, cabin) tuple. No two streams built by the same manager
// may share a key.
type DemandStreamKey struct {
	Origin        string
	Destination   string
	DepartureDate time.Time // date only; time-of-day is ignored
	Cabin         string
}

// String renders the stable, log-friendly form: "ORG-DST YYYY-MMM-DD C",
// e.g. "SIN-BKK 2010-Feb-08 Y".
func (k DemandStreamKey) String() string {
	return fmt.Sprintf("%s-%s %s %s", k.Origin, k.Destination, k.DepartureDate.Format("2006-Jan-02"), k.Cabin)
}

// departureReference is the 08:00 local-reference anchor: the nominal
// departure datetime used by every timing computation is the departure
// date at DepartureReferenceHour, not midnight.
func (k DemandStreamKey) departureReference() time.Time {
	d := k.DepartureDate
	return time.Date(d.Year(), d.Month(), d.Day(), DepartureReferenceHour, 0, 0, 0, d.Location())
}

// departureMidnight is the midnight reference used by cancellation timing
// (distinct from departureReference, which anchors request-time algorithms).
func (k DemandStreamKey) departureMidnight() time.Time {
	d := k.DepartureDate
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// BookingRequest is one generated demand event.
type BookingRequest struct {
	Origin                      string
	Destination                 string
	POS                         string
	DepartureDate               time.Time
	RequestDateTime             time.Time
	Cabin                       string
	PartySize                   int
	Channel                     string
	TripType                    string
	StayDurationDays            int
	FrequentFlyerTier           string
	PreferredDepartureTimeOfDay time.Duration
	WillingnessToPay            float64
	ValueOfTime                 float64
	SourceStreamKey             DemandStreamKey
}

// Cancellation is a cancellation event derived from an earlier booking
// request, emitted with probability CancellationProbability (§4.7).
type Cancellation struct {
	SourceStreamKey DemandStreamKey
	PartySize       int
	ClassIDs        []string
	EventTime       time.Time
}

// EventKind distinguishes the two Event payload variants.
type EventKind int

const (
	EventKindBooking EventKind = iota
	EventKindCancellation
)

// Event is a tagged union over BookingRequest and Cancellation, ordered by
// EventTime. Go has no sum types, so exactly one of Booking/Cancel is
// populated, selected by Kind.
type Event struct {
	Kind      EventKind
	EventTime time.Time
	Booking   *BookingRequest
	Cancel    *Cancellation
}

// StreamKey returns the originating stream's key, regardless of variant.
func (e Event) StreamKey() DemandStreamKey {
	if e.Kind == EventKindCancellation {
		return e.Cancel.SourceStreamKey
	}
	return e.Booking.SourceStreamKey
}

func bookingEvent(r *BookingRequest) Event {
	return Event{Kind: EventKindBooking, EventTime: r.RequestDateTime, Booking: r}
}

func cancellationEvent(c *Cancellation) Event {
	return Event{Kind: EventKindCancellation, EventTime: c.EventTime, Cancel: c}
}
