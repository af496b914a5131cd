package trace

// Level controls the verbosity of generation-event tracing.
type Level string

const (
	// LevelNone disables tracing (zero overhead).
	LevelNone Level = "none"
	// LevelEvents captures every booking and cancellation produced.
	LevelEvents Level = "events"
)

// validLevels maps accepted trace level strings.
var validLevels = map[Level]bool{
	LevelNone:   true,
	LevelEvents: true,
	"":          true, // empty defaults to none
}

// IsValidLevel returns true if the given level string is a recognized trace level.
func IsValidLevel(level string) bool {
	return validLevels[Level(level)]
}

// Config controls trace collection behavior.
type Config struct {
	Level Level
}

// GenerationTrace collects booking and cancellation records during a run.
// RecordBooking and RecordCancellation are no-ops when Config.Level is
// LevelNone, so callers can record unconditionally on a fast path.
type GenerationTrace struct {
	Config        Config
	Bookings      []BookingRecord
	Cancellations []CancellationRecord
}

// NewGenerationTrace creates a GenerationTrace ready for recording.
func NewGenerationTrace(config Config) *GenerationTrace {
	if config.Level == "" {
		config.Level = LevelNone
	}
	return &GenerationTrace{
		Config:        config,
		Bookings:      make([]BookingRecord, 0),
		Cancellations: make([]CancellationRecord, 0),
	}
}

// RecordBooking appends a booking record, unless the trace level is LevelNone.
func (gt *GenerationTrace) RecordBooking(record BookingRecord) {
	if gt.Config.Level == LevelNone {
		return
	}
	gt.Bookings = append(gt.Bookings, record)
}

// RecordCancellation appends a cancellation record, unless the trace level is LevelNone.
func (gt *GenerationTrace) RecordCancellation(record CancellationRecord) {
	if gt.Config.Level == LevelNone {
		return
	}
	gt.Cancellations = append(gt.Cancellations, record)
}
