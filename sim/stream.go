package sim

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/befeleme/trademgen/sim/workload"
)

// DepartureReferenceHour anchors every request-time computation to the
// departure date at this local hour (08:00), not midnight. Inherited from
// the original source as an intentional constant, not a stray literal.
const DepartureReferenceHour = 8

// MaxAdvancePurchaseDays bounds the advance-purchase position used by the
// WTP elasticity lookup (§4.4): p = clamp(1 - AP/MaxAdvancePurchaseDays, 0, 1).
const MaxAdvancePurchaseDays = 365.0

// DefaultPartySize is the constant party size attached to every generated
// request until a future revision models group bookings.
const DefaultPartySize = 1

// secondsInDay and millisInSecond name the unit conversions
// convertDaysToDuration performs, rather than embedding raw literals.
const (
	secondsInDay    = 86400
	millisInSecond  = 1000
	minInterArrival = time.Second
	minDailyRate    = 1e-9 // guards against a zero/negative derivative producing an infinite mean gap
)

// DemandStream is the per-segment stochastic process that produces
// booking requests for one (origin, destination, departure date, cabin)
// tuple. It owns two independent RNG substreams — one for request timing,
// one for attribute sampling — so that perturbing one sequence (e.g. by
// adding an attribute draw) never desynchronizes the other.
type DemandStream struct {
	Key             DemandStreamKey
	Characteristics DemandCharacteristics
	Distribution    DemandDistribution

	timeSeed uint32
	charSeed uint32
	timeRNG  *rand.Rand
	charRNG  *rand.Rand

	ctx                     RandomGenerationContext
	totalRequestsToGenerate int

	logger *logrus.Logger
}

// NewDemandStream builds a stream, drawing its two substream seeds and its
// total-request count from master in that fixed order (time seed,
// characteristics seed, total-request count) — the order reproducibility
// depends on. If the stream's POS mass is empty, it falls back to
// defaultPOS and logs a warning (spec §9 open question: preserved from the
// original, surfaced rather than silent).
func NewDemandStream(key DemandStreamKey, characteristics DemandCharacteristics, distribution DemandDistribution, master *MasterRNG, defaultPOS workload.ProbabilityMass[string], logger *logrus.Logger) (*DemandStream, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	timeSeed := master.DrawSubstreamSeed()
	charSeed := master.DrawSubstreamSeed()
	totalRequests := drawTotalRequests(master, distribution)

	if characteristics.POSMass.Empty() {
		logger.Warnf("demand stream %s: POS mass is empty, falling back to default POS mass", key)
		characteristics.POSMass = defaultPOS
	}

	s := &DemandStream{
		Key:                     key,
		Characteristics:         characteristics,
		Distribution:            distribution,
		timeSeed:                timeSeed,
		charSeed:                charSeed,
		timeRNG:                 NewSubstreamRNG(timeSeed),
		charRNG:                 NewSubstreamRNG(charSeed),
		totalRequestsToGenerate: totalRequests,
		logger:                  logger,
	}
	s.ctx.FirstRequestFlag = true
	return s, nil
}

// drawTotalRequests draws floor(normal(mean, stddev) + 0.5), clamped >= 0,
// from the master generator directly (not a substream) — per spec §4.5,
// this draw's place in the master's sequence is what reset's
// reproducibility contract hinges on.
func drawTotalRequests(master *MasterRNG, d DemandDistribution) int {
	v := master.DrawNormal(d.MeanRequests, d.StdDevRequests)
	n := int(math.Floor(v + 0.5))
	if n < 0 {
		return 0
	}
	return n
}

// TotalRequestsToGenerate returns the stream's drawn total.
func (s *DemandStream) TotalRequestsToGenerate() int {
	return s.totalRequestsToGenerate
}

// RequestsGeneratedSoFar returns how many requests this stream has emitted.
func (s *DemandStream) RequestsGeneratedSoFar() int {
	return s.ctx.RequestsGeneratedSoFar
}

// StillHasRequests reports whether the stream has not yet reached its
// drawn total.
func (s *DemandStream) StillHasRequests() bool {
	return s.ctx.RequestsGeneratedSoFar < s.totalRequestsToGenerate
}

// GenerateNext produces the stream's next BookingRequest using method,
// sampling the request time first and then every attribute in the fixed
// order the reproducibility contract requires: POS, channel, trip type,
// stay duration, frequent flyer, preferred departure time, value of time,
// WTP last. Returns ErrStreamExhausted if StillHasRequests is false.
func (s *DemandStream) GenerateNext(method GenerationMethod) (*BookingRequest, error) {
	if !s.StillHasRequests() {
		return nil, fmt.Errorf("%w: %s", ErrStreamExhausted, s.Key)
	}

	var requestTime time.Time
	var err error
	switch method {
	case MethodStatisticOrder:
		requestTime, err = s.generateTimeStatisticOrder()
	case MethodPoisson:
		requestTime = s.generateTimeExponential()
	default:
		return nil, fmt.Errorf("%w: unknown generation method %v", ErrInvalidConfig, method)
	}
	if err != nil {
		return nil, err
	}

	pos := s.generatePOS()
	channel := s.Characteristics.ChannelMass.Sample(s.charRNG)
	tripType := s.Characteristics.TripTypeMass.Sample(s.charRNG)
	stayDuration := s.Characteristics.StayDurationMass.Sample(s.charRNG)
	frequentFlyer := s.Characteristics.FrequentFlyerMass.Sample(s.charRNG)
	prefDepTime := s.generatePreferredDepartureTime()
	valueOfTime := s.Characteristics.ValueOfTimeCDF.Invert(s.charRNG.Float64())
	wtp := s.generateWTP(requestTime)

	return &BookingRequest{
		Origin:                      s.Key.Origin,
		Destination:                 s.Key.Destination,
		POS:                         pos,
		DepartureDate:               s.Key.DepartureDate,
		RequestDateTime:             requestTime,
		Cabin:                       s.Key.Cabin,
		PartySize:                   DefaultPartySize,
		Channel:                     channel,
		TripType:                    tripType,
		StayDurationDays:            stayDuration,
		FrequentFlyerTier:           frequentFlyer,
		PreferredDepartureTimeOfDay: prefDepTime,
		WillingnessToPay:            wtp,
		ValueOfTime:                 valueOfTime,
		SourceStreamKey:             s.Key,
	}, nil
}

// generateTimeStatisticOrder implements §4.3.1: the k-th order statistic
// of n i.i.d. draws from the arrival pattern, conditioned on the
// (k-1)-th's cumulative probability.
func (s *DemandStream) generateTimeStatisticOrder() (time.Time, error) {
	remaining := s.totalRequestsToGenerate - s.ctx.RequestsGeneratedSoFar
	if remaining <= 0 {
		return time.Time{}, fmt.Errorf("%w: no remaining order-statistic slots for %s", ErrNumericInvariant, s.Key)
	}

	complement := 1.0 - s.ctx.CumulativeProbabilitySoFar
	u := s.timeRNG.Float64()
	factor := math.Pow(1.0-u, 1.0/float64(remaining))
	newCum := 1.0 - complement*factor

	days := s.Characteristics.ArrivalPattern.InvertToDays(newCum)
	dur := convertDaysToDuration(days)
	requestTime := s.Key.departureReference().Add(dur)

	s.ctx.CumulativeProbabilitySoFar = newCum
	s.ctx.RequestsGeneratedSoFar++
	return requestTime, nil
}

// generateTimeExponential implements §4.3.2: a non-homogeneous Poisson
// process thinned by the arrival pattern's derivative, evaluated on the
// days axis per spec.md's canonicalization of the original's
// seconds/hours inconsistency.
func (s *DemandStream) generateTimeExponential() time.Time {
	departure := s.Key.departureReference()

	if s.ctx.FirstRequestFlag {
		days := s.Characteristics.ArrivalPattern.InvertToDays(0)
		requestTime := departure.Add(convertDaysToDuration(days))
		s.ctx.LastEventTime = requestTime
		s.ctx.FirstRequestFlag = false
		s.ctx.RequestsGeneratedSoFar++
		return requestTime
	}

	daysBeforeDeparture := departure.Sub(s.ctx.LastEventTime).Hours() / 24
	dailyRate := s.Characteristics.ArrivalPattern.DerivativeAtDays(-daysBeforeDeparture) * s.Distribution.MeanRequests
	if dailyRate < minDailyRate {
		dailyRate = minDailyRate
	}

	gap := drawInterArrivalGap(s.timeRNG, dailyRate)
	requestTime := s.ctx.LastEventTime.Add(gap)
	s.ctx.LastEventTime = requestTime
	s.ctx.RequestsGeneratedSoFar++
	return requestTime
}

// drawInterArrivalGap draws an Exponential(dailyRate) variate in days,
// converts to whole seconds (floored, minimum 1 second).
func drawInterArrivalGap(rng *rand.Rand, dailyRate float64) time.Duration {
	variateDays := rng.ExpFloat64() / dailyRate
	seconds := int(variateDays * secondsInDay)
	if seconds < 1 {
		seconds = 1
	}
	gap := time.Duration(seconds) * time.Second
	if gap < minInterArrival {
		return minInterArrival
	}
	return gap
}

// convertDaysToDuration separates days (typically negative: days before
// departure) into integer seconds plus a fractional millisecond part, then
// adds 1ms — the original source's trick to guarantee the next event is
// strictly later than whatever produced the previous draw.
func convertDaysToDuration(days float64) time.Duration {
	totalSeconds := days * secondsInDay
	intSeconds := math.Floor(totalSeconds)
	fracMillis := (totalSeconds - intSeconds) * millisInSecond
	intMillis := math.Floor(fracMillis) + 1

	return time.Duration(intSeconds)*time.Second + time.Duration(intMillis)*time.Millisecond
}

// generatePOS samples the POS mass. When both the stream's POS mass and
// the default it fell back to are empty, no draw is made and the request
// carries an empty POS.
func (s *DemandStream) generatePOS() string {
	if s.Characteristics.POSMass.Empty() {
		return ""
	}
	return s.Characteristics.POSMass.Sample(s.charRNG)
}

func (s *DemandStream) generatePreferredDepartureTime() time.Duration {
	seconds := s.Characteristics.PreferredDepartureTimeCDF.Invert(s.charRNG.Float64())
	return time.Duration(seconds) * time.Second
}

// generateWTP implements §4.4's WTP formula: advance-purchase position p
// drives a FRAT5 elasticity coefficient, which scales an exponential
// dispersion around minWTP.
func (s *DemandStream) generateWTP(requestTime time.Time) float64 {
	requestDate := time.Date(requestTime.Year(), requestTime.Month(), requestTime.Day(), 0, 0, 0, 0, requestTime.Location())
	apDays := s.Key.departureMidnight().Sub(requestDate).Hours() / 24
	p := 1.0 - apDays/MaxAdvancePurchaseDays
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}

	frat5 := s.Characteristics.FRAT5.Value(p)
	u := s.charRNG.Float64()
	return s.Characteristics.MinWTP * (1.0 + (frat5-1.0)*math.Log(u)/math.Log(0.5))
}

// Reset zeros the generation context and re-derives the stream exactly as
// construction did: same substream seeds (the stream always reproduces
// its original timing/attribute sequences), but a fresh total-request
// draw from master (which has advanced since construction, per §4.5).
func (s *DemandStream) Reset(master *MasterRNG) {
	s.ctx.reset()
	s.timeRNG = NewSubstreamRNG(s.timeSeed)
	s.charRNG = NewSubstreamRNG(s.charSeed)
	s.totalRequestsToGenerate = drawTotalRequests(master, s.Distribution)
}
