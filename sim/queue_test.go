package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventQueue_AddEvent_CollisionNudgesByOneMillisecond(t *testing.T) {
	// GIVEN two booking events with the exact same EventTime
	q := NewEventQueue()
	tm := time.Date(2010, 2, 8, 9, 0, 0, 0, time.UTC)
	key := DemandStreamKey{Origin: "SIN", Destination: "BKK", DepartureDate: tm, Cabin: "Y"}

	first := &BookingRequest{SourceStreamKey: key, RequestDateTime: tm}
	second := &BookingRequest{SourceStreamKey: key, RequestDateTime: tm}

	// WHEN both are added in sequence
	firstStored := q.AddEvent(bookingEvent(first))
	secondStored := q.AddEvent(bookingEvent(second))

	// THEN the first keeps its original timestamp and the second is nudged
	// forward by exactly one millisecond
	assert.Equal(t, tm, firstStored)
	assert.Equal(t, tm.Add(time.Millisecond), secondStored)

	// AND the nudge is reflected on the underlying BookingRequest, not just
	// the returned Event
	assert.Equal(t, tm, first.RequestDateTime)
	assert.Equal(t, tm.Add(time.Millisecond), second.RequestDateTime)

	// AND popping returns them in the nudged order, both exactly 1ms apart
	e1, err := q.PopNext()
	require.NoError(t, err)
	e2, err := q.PopNext()
	require.NoError(t, err)
	assert.Equal(t, tm, e1.EventTime)
	assert.Equal(t, tm.Add(time.Millisecond), e2.EventTime)
}

func TestEventQueue_AddEvent_CollisionChainNudgesRepeatedly(t *testing.T) {
	// GIVEN three events all sharing the same EventTime
	q := NewEventQueue()
	tm := time.Date(2010, 2, 8, 9, 0, 0, 0, time.UTC)
	key := DemandStreamKey{Origin: "SIN", Destination: "BKK", DepartureDate: tm, Cabin: "Y"}

	// WHEN all three are added
	stored := make([]time.Time, 3)
	for i := 0; i < 3; i++ {
		req := &BookingRequest{SourceStreamKey: key, RequestDateTime: tm}
		stored[i] = q.AddEvent(bookingEvent(req))
	}

	// THEN each collides with the last and is nudged one more millisecond
	// than its predecessor
	assert.Equal(t, tm, stored[0])
	assert.Equal(t, tm.Add(time.Millisecond), stored[1])
	assert.Equal(t, tm.Add(2*time.Millisecond), stored[2])
}

func TestEventQueue_AddEvent_CancellationCollisionNudgesEventTime(t *testing.T) {
	// GIVEN a booking and a cancellation sharing the same EventTime
	q := NewEventQueue()
	tm := time.Date(2010, 2, 8, 9, 0, 0, 0, time.UTC)
	key := DemandStreamKey{Origin: "SIN", Destination: "BKK", DepartureDate: tm, Cabin: "Y"}

	booking := &BookingRequest{SourceStreamKey: key, RequestDateTime: tm}
	cancel := &Cancellation{SourceStreamKey: key, EventTime: tm}

	// WHEN the booking is added first, then a cancellation at the same time
	q.AddEvent(bookingEvent(booking))
	nudged := q.AddEvent(cancellationEvent(cancel))

	// THEN the cancellation's EventTime field is nudged in sync with the
	// Event it was wrapped in
	assert.Equal(t, tm.Add(time.Millisecond), nudged)
	assert.Equal(t, tm.Add(time.Millisecond), cancel.EventTime)
}

func TestEventQueue_AddEvent_NoCollisionKeepsOriginalTimestamp(t *testing.T) {
	// GIVEN two events with distinct timestamps
	q := NewEventQueue()
	t1 := time.Date(2010, 2, 8, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	key := DemandStreamKey{Origin: "SIN", Destination: "BKK", DepartureDate: t1, Cabin: "Y"}

	// WHEN both are added
	s1 := q.AddEvent(bookingEvent(&BookingRequest{SourceStreamKey: key, RequestDateTime: t1}))
	s2 := q.AddEvent(bookingEvent(&BookingRequest{SourceStreamKey: key, RequestDateTime: t2}))

	// THEN neither is nudged
	assert.Equal(t, t1, s1)
	assert.Equal(t, t2, s2)
}
