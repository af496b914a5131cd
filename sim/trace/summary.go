package trace

// Summary aggregates statistics from a GenerationTrace.
type Summary struct {
	TotalBookings        int
	TotalCancellations   int
	MeanWillingnessToPay float64
	MaxWillingnessToPay  float64
	UniqueStreams        int
	StreamDistribution   map[string]int // stream key → count of bookings generated
}

// Summarize computes aggregate statistics from a GenerationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(gt *GenerationTrace) *Summary {
	summary := &Summary{
		StreamDistribution: make(map[string]int),
	}
	if gt == nil {
		return summary
	}

	summary.TotalCancellations = len(gt.Cancellations)

	if len(gt.Bookings) > 0 {
		totalWTP := 0.0
		for _, b := range gt.Bookings {
			summary.StreamDistribution[b.StreamKey]++
			totalWTP += b.WillingnessToPay
			if b.WillingnessToPay > summary.MaxWillingnessToPay {
				summary.MaxWillingnessToPay = b.WillingnessToPay
			}
		}
		summary.TotalBookings = len(gt.Bookings)
		summary.MeanWillingnessToPay = totalWTP / float64(len(gt.Bookings))
	}

	summary.UniqueStreams = len(summary.StreamDistribution)

	return summary
}
