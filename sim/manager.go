package sim

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/befeleme/trademgen/sim/workload"
)

// CancellationProbability is the fixed acceptance rate for
// GenerateCancellation, inherited from the original source as a named
// constant rather than an embedded 0.5 literal (spec.md §9).
const CancellationProbability = 0.5

// StreamSpec is one fully-resolved demand stream input: a key plus the
// distributions and scalar parameters a DemandStream is built from. It is
// the manager's unit of input — the parsed-segment vector spec.md's
// external interface describes, already expanded one-per-active-date by
// the segments package.
type StreamSpec struct {
	Key             DemandStreamKey
	Characteristics DemandCharacteristics
	Distribution    DemandDistribution
}

// DemandManager orchestrates every demand stream and the single event
// queue that merges them: it builds streams from parsed input, primes the
// queue, drives the pop/regenerate loop, and implements reset. Streams
// never hold a reference back to the queue — the manager owns both and
// wires them, per spec.md §9's redesign note.
type DemandManager struct {
	streams map[DemandStreamKey]*DemandStream
	order   []DemandStreamKey
	queue   *EventQueue

	defaultPOS workload.ProbabilityMass[string]
	logger     *logrus.Logger

	cancellationSeed uint32
	cancellationRNG  randSource

	method GenerationMethod
}

// randSource is the minimal surface DemandManager needs from a PRNG,
// satisfied by *rand.Rand; named so manager.go does not need to import
// math/rand just to spell out the field type inline.
type randSource = interface {
	Float64() float64
}

// BuildStreams constructs one DemandStream per spec, in order, seeding
// each from master. Returns ErrInvalidConfig if two specs share a key.
func BuildStreams(specs []StreamSpec, master *MasterRNG, defaultPOS workload.ProbabilityMass[string], logger *logrus.Logger) (*DemandManager, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	m := &DemandManager{
		streams:    make(map[DemandStreamKey]*DemandStream, len(specs)),
		queue:      NewEventQueue(),
		defaultPOS: defaultPOS,
		logger:     logger,
	}

	for _, spec := range specs {
		if _, exists := m.streams[spec.Key]; exists {
			return nil, fmt.Errorf("%w: duplicate demand stream key %s", ErrInvalidConfig, spec.Key)
		}

		stream, err := NewDemandStream(spec.Key, spec.Characteristics, spec.Distribution, master, defaultPOS, logger)
		if err != nil {
			return nil, fmt.Errorf("building stream %s: %w", spec.Key, err)
		}

		m.streams[spec.Key] = stream
		m.order = append(m.order, spec.Key)
		m.queue.AddStatus(EventKindBooking, stream.TotalRequestsToGenerate())
	}

	m.cancellationSeed = master.DrawSubstreamSeed()
	m.cancellationRNG = NewSubstreamRNG(m.cancellationSeed)

	return m, nil
}

// ExpectedTotalRequests sums TotalRequestsToGenerate across every stream.
func (m *DemandManager) ExpectedTotalRequests() int {
	total := 0
	for _, key := range m.order {
		total += m.streams[key].TotalRequestsToGenerate()
	}
	return total
}

// StillGenerating reports whether the named stream has more requests to
// produce.
func (m *DemandManager) StillGenerating(key DemandStreamKey) bool {
	stream, ok := m.streams[key]
	if !ok {
		return false
	}
	return stream.StillHasRequests()
}

// GenerateFirstRequests asks every stream still holding requests for its
// first event, in build order, and enqueues each. Returns the expected
// total event count across all streams (the queue's booking-kind status).
func (m *DemandManager) GenerateFirstRequests(method GenerationMethod) (int, error) {
	m.method = method

	for _, key := range m.order {
		stream := m.streams[key]
		if !stream.StillHasRequests() {
			continue
		}
		req, err := stream.GenerateNext(method)
		if err != nil {
			return 0, err
		}
		m.queue.AddEvent(bookingEvent(req))
	}

	_, expected := m.queue.Progress(EventKindBooking)
	return expected, nil
}

// PopEvent removes and returns the queue's earliest event. If it is a
// booking request and its originating stream still has requests, the
// stream's next request is generated immediately and re-enqueued, keeping
// the queue primed until every stream is exhausted.
func (m *DemandManager) PopEvent() (Event, error) {
	event, err := m.queue.PopNext()
	if err != nil {
		return Event{}, err
	}
	m.queue.UpdateStatus(event.Kind, 1)

	if event.Kind == EventKindBooking {
		stream, ok := m.streams[event.Booking.SourceStreamKey]
		if ok && stream.StillHasRequests() {
			next, err := stream.GenerateNext(m.method)
			if err != nil {
				return Event{}, err
			}
			m.queue.AddEvent(bookingEvent(next))
		}
	}

	return event, nil
}

// GenerateCancellation emits, with probability CancellationProbability, a
// cancellation for req uniformly distributed between req's request time
// and its departure's midnight reference, enqueues it, and returns it.
// Returns (Event{}, false) when no cancellation is generated. The
// cancellation draws come from a dedicated substream seeded at build time,
// not from master — master is never touched again after BuildStreams so a
// later reset's reproducibility contract holds.
func (m *DemandManager) GenerateCancellation(req *BookingRequest, classIDs []string) (Event, bool) {
	if m.cancellationRNG.Float64() >= CancellationProbability {
		return Event{}, false
	}

	departureMidnight := req.SourceStreamKey.departureMidnight()
	window := departureMidnight.Sub(req.RequestDateTime)
	if window < 0 {
		window = 0
	}

	fraction := m.cancellationRNG.Float64()
	cancelTime := req.RequestDateTime.Add(time.Duration(float64(window) * fraction))

	cancellation := &Cancellation{
		SourceStreamKey: req.SourceStreamKey,
		PartySize:       req.PartySize,
		ClassIDs:        classIDs,
		EventTime:       cancelTime,
	}
	event := cancellationEvent(cancellation)
	m.queue.AddEvent(event)
	return event, true
}

// IsQueueDone reports whether every event has been popped and no stream
// has requests left to produce.
func (m *DemandManager) IsQueueDone() bool {
	return m.queue.IsEmpty()
}

// Reset clears the queue and resets every stream, reproducing each
// stream's original timing/attribute sequences while drawing a fresh
// total-request count from master (which the caller is expected to have
// reseeded for a reproducible replay).
func (m *DemandManager) Reset(master *MasterRNG) {
	m.queue.Reset()
	for _, key := range m.order {
		m.streams[key].Reset(master)
		m.queue.AddStatus(EventKindBooking, m.streams[key].TotalRequestsToGenerate())
	}
	m.cancellationRNG = NewSubstreamRNG(m.cancellationSeed)
}
