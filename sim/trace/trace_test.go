package trace

import (
	"testing"
	"time"
)

func TestGenerationTrace_RecordBooking_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured to record events
	gt := NewGenerationTrace(Config{Level: LevelEvents})

	// WHEN a booking record is recorded
	gt.RecordBooking(BookingRecord{
		StreamKey:        "SIN-BKK 2010-Feb-08 Y",
		RequestDateTime:  time.Date(2010, 1, 20, 9, 0, 0, 0, time.UTC),
		WillingnessToPay: 512.0,
	})

	// THEN the trace contains one booking record with correct data
	if len(gt.Bookings) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(gt.Bookings))
	}
	if gt.Bookings[0].StreamKey != "SIN-BKK 2010-Feb-08 Y" {
		t.Errorf("expected stream key SIN-BKK 2010-Feb-08 Y, got %s", gt.Bookings[0].StreamKey)
	}
}

func TestGenerationTrace_RecordCancellation_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured to record events
	gt := NewGenerationTrace(Config{Level: LevelEvents})

	// WHEN a cancellation record is recorded
	gt.RecordCancellation(CancellationRecord{
		StreamKey: "SIN-BKK 2010-Feb-08 Y",
		EventTime: time.Date(2010, 1, 25, 9, 0, 0, 0, time.UTC),
		PartySize: 1,
	})

	// THEN the trace contains one cancellation record with correct data
	if len(gt.Cancellations) != 1 {
		t.Fatalf("expected 1 cancellation, got %d", len(gt.Cancellations))
	}
	if gt.Cancellations[0].PartySize != 1 {
		t.Errorf("expected party size 1, got %d", gt.Cancellations[0].PartySize)
	}
}

func TestGenerationTrace_LevelNone_DiscardsRecords(t *testing.T) {
	// GIVEN a trace configured with tracing disabled
	gt := NewGenerationTrace(Config{Level: LevelNone})

	// WHEN records are recorded
	gt.RecordBooking(BookingRecord{StreamKey: "SIN-BKK 2010-Feb-08 Y"})
	gt.RecordCancellation(CancellationRecord{StreamKey: "SIN-BKK 2010-Feb-08 Y"})

	// THEN nothing is stored
	if len(gt.Bookings) != 0 || len(gt.Cancellations) != 0 {
		t.Error("expected no records stored at LevelNone")
	}
}

func TestGenerationTrace_MultipleRecords_PreservesOrder(t *testing.T) {
	// GIVEN a trace
	gt := NewGenerationTrace(Config{Level: LevelEvents})

	// WHEN multiple records are added
	gt.RecordBooking(BookingRecord{StreamKey: "s1"})
	gt.RecordBooking(BookingRecord{StreamKey: "s2"})
	gt.RecordCancellation(CancellationRecord{StreamKey: "s1"})

	// THEN order is preserved
	if len(gt.Bookings) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(gt.Bookings))
	}
	if gt.Bookings[0].StreamKey != "s1" || gt.Bookings[1].StreamKey != "s2" {
		t.Error("booking order not preserved")
	}
	if len(gt.Cancellations) != 1 || gt.Cancellations[0].StreamKey != "s1" {
		t.Error("cancellation record mismatch")
	}
}

func TestIsValidLevel_ValidLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"none", true},
		{"events", true},
		{"", true}, // empty defaults to none
		{"detailed", false},
		{"foobar", false},
		{"NONE", false}, // case-sensitive
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := IsValidLevel(tt.level); got != tt.valid {
				t.Errorf("IsValidLevel(%q) = %v, want %v", tt.level, got, tt.valid)
			}
		})
	}
}
