package sim

import (
	"container/heap"
	"time"
)

// eventHeap is the container/heap backing store for EventQueue, ordered by
// EventTime ascending.
type eventHeap []Event

func (h eventHeap) Len() int            { return len(h) }
func (h eventHeap) Less(i, j int) bool  { return h[i].EventTime.Before(h[j].EventTime) }
func (h eventHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x interface{}) { *h = append(*h, x.(Event)) }
func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// eventStatus tracks expected-vs-generated counts for one event kind.
type eventStatus struct {
	generatedSoFar int
	expectedTotal  int
}

// EventQueue merges every demand stream's events into one strictly
// time-ordered sequence. Timestamp collisions (two streams independently
// producing the same millisecond) are resolved by nudging the incoming
// event forward; this guarantees the total order PopNext relies on.
type EventQueue struct {
	heap   eventHeap
	taken  map[int64]bool
	status map[EventKind]*eventStatus
}

// NewEventQueue builds an empty queue.
func NewEventQueue() *EventQueue {
	q := &EventQueue{
		taken:  make(map[int64]bool),
		status: make(map[EventKind]*eventStatus),
	}
	heap.Init(&q.heap)
	return q
}

// AddEvent inserts e, nudging its EventTime forward by 1ms (and retrying)
// until the timestamp is unique, then pushes it onto the heap. Returns the
// (possibly nudged) event time actually stored.
func (q *EventQueue) AddEvent(e Event) time.Time {
	for q.taken[e.EventTime.UnixNano()] {
		e.EventTime = e.EventTime.Add(time.Millisecond)
		if e.Kind == EventKindBooking {
			e.Booking.RequestDateTime = e.EventTime
		} else {
			e.Cancel.EventTime = e.EventTime
		}
	}
	q.taken[e.EventTime.UnixNano()] = true
	heap.Push(&q.heap, e)
	return e.EventTime
}

// PopNext removes and returns the event with the smallest timestamp.
// Returns ErrQueueEmpty if the queue has nothing left.
func (q *EventQueue) PopNext() (Event, error) {
	if q.IsEmpty() {
		return Event{}, ErrQueueEmpty
	}
	e := heap.Pop(&q.heap).(Event)
	delete(q.taken, e.EventTime.UnixNano())
	return e, nil
}

// IsEmpty reports whether the queue has no pending events.
func (q *EventQueue) IsEmpty() bool {
	return q.heap.Len() == 0
}

// AddStatus increments the expected total for kind by delta.
func (q *EventQueue) AddStatus(kind EventKind, delta int) {
	q.statusFor(kind).expectedTotal += delta
}

// UpdateStatus increments the generated count for kind by delta.
func (q *EventQueue) UpdateStatus(kind EventKind, delta int) {
	q.statusFor(kind).generatedSoFar += delta
}

// Progress returns the (generated, expected) counters for kind.
func (q *EventQueue) Progress(kind EventKind) (generated, expected int) {
	s := q.statusFor(kind)
	return s.generatedSoFar, s.expectedTotal
}

func (q *EventQueue) statusFor(kind EventKind) *eventStatus {
	s, ok := q.status[kind]
	if !ok {
		s = &eventStatus{}
		q.status[kind] = s
	}
	return s
}

// Reset clears all pending events and progress counters.
func (q *EventQueue) Reset() {
	q.heap = eventHeap{}
	heap.Init(&q.heap)
	q.taken = make(map[int64]bool)
	q.status = make(map[EventKind]*eventStatus)
}
