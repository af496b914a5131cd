// Package segments loads declarative demand-segment files and expands
// each into the one-or-more DemandStream inputs the engine consumes. It
// is the external-collaborator analog of trademgen's original CSV
// demand-file parser: the core engine never reads a file directly.
package segments

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/befeleme/trademgen/sim"
	"github.com/befeleme/trademgen/sim/workload"
)

// CurvePoint is one (x, y) sample of a piecewise-linear table in YAML.
type CurvePoint struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// ArrivalPoint is one (days-to-departure, cumulative probability) sample.
type ArrivalPoint struct {
	Days    int     `yaml:"days"`
	CumProb float64 `yaml:"cum_prob"`
}

// Segment is one declarative demand-segment row: an (origin, destination,
// cabin) triple active over a date range and weekday mask, with the
// distributions a DemandStream needs for every date it activates.
type Segment struct {
	Origin      string `yaml:"origin"`
	Destination string `yaml:"destination"`
	Cabin       string `yaml:"cabin"`

	DepartureDateStart string `yaml:"departure_date_start"`
	DepartureDateEnd   string `yaml:"departure_date_end"`
	ActiveWeekdays     []string `yaml:"active_weekdays,omitempty"` // empty = every day

	MeanRequests   float64 `yaml:"mean_requests"`
	StdDevRequests float64 `yaml:"stddev_requests"`

	ArrivalPattern            []ArrivalPoint     `yaml:"arrival_pattern"`
	POSMass                   map[string]float64 `yaml:"pos_mass,omitempty"`
	ChannelMass               map[string]float64 `yaml:"channel_mass"`
	TripTypeMass              map[string]float64 `yaml:"trip_type_mass"`
	StayDurationMass          map[int]float64    `yaml:"stay_duration_mass"`
	FrequentFlyerMass         map[string]float64 `yaml:"frequent_flyer_mass"`
	PreferredDepartureTimeCDF []CurvePoint       `yaml:"preferred_departure_time_cdf"`
	MinWTP                    float64            `yaml:"min_wtp"`
	ValueOfTimeCDF            []CurvePoint       `yaml:"value_of_time_cdf"`
	FRAT5                     []CurvePoint       `yaml:"frat5,omitempty"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday, "friday": time.Friday,
	"saturday": time.Saturday,
}

// LoadSegments reads and strictly parses a YAML segment file: unrecognized
// keys (typos) are rejected, matching the teacher's workload spec loader.
func LoadSegments(path string) ([]Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading segment file: %w", err)
	}

	var file struct {
		Segments []Segment `yaml:"segments"`
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing segment file: %w", err)
	}
	return file.Segments, nil
}

// ExpandToStreamSpecs turns every segment into one sim.StreamSpec per
// active calendar date in its range (spec.md §6: "the manager expands
// each into one stream per active date" — performed here, in the
// collaborator that owns the file format, rather than inside the engine).
func ExpandToStreamSpecs(segs []Segment) ([]sim.StreamSpec, error) {
	var specs []sim.StreamSpec
	for i, seg := range segs {
		expanded, err := expandOne(seg)
		if err != nil {
			return nil, fmt.Errorf("segment[%d] (%s-%s %s): %w: %v", i, seg.Origin, seg.Destination, seg.Cabin, sim.ErrInvalidConfig, err)
		}
		specs = append(specs, expanded...)
	}
	return specs, nil
}

func expandOne(seg Segment) ([]sim.StreamSpec, error) {
	start, err := time.Parse("2006-01-02", seg.DepartureDateStart)
	if err != nil {
		return nil, fmt.Errorf("invalid departure_date_start: %w", err)
	}
	end, err := time.Parse("2006-01-02", seg.DepartureDateEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid departure_date_end: %w", err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("departure_date_end %s is before departure_date_start %s", seg.DepartureDateEnd, seg.DepartureDateStart)
	}

	activeDays, err := resolveWeekdayMask(seg.ActiveWeekdays)
	if err != nil {
		return nil, err
	}

	characteristics, err := buildCharacteristics(seg)
	if err != nil {
		return nil, err
	}
	distribution := sim.DemandDistribution{MeanRequests: seg.MeanRequests, StdDevRequests: seg.StdDevRequests}

	var specs []sim.StreamSpec
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !activeDays[d.Weekday()] {
			continue
		}
		key := sim.DemandStreamKey{
			Origin:        seg.Origin,
			Destination:   seg.Destination,
			DepartureDate: d,
			Cabin:         seg.Cabin,
		}
		specs = append(specs, sim.StreamSpec{
			Key:             key,
			Characteristics: characteristics,
			Distribution:    distribution,
		})
	}
	return specs, nil
}

func resolveWeekdayMask(names []string) (map[time.Weekday]bool, error) {
	if len(names) == 0 {
		return map[time.Weekday]bool{
			time.Sunday: true, time.Monday: true, time.Tuesday: true, time.Wednesday: true,
			time.Thursday: true, time.Friday: true, time.Saturday: true,
		}, nil
	}
	mask := make(map[time.Weekday]bool, len(names))
	for _, n := range names {
		day, ok := weekdayNames[n]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", n)
		}
		mask[day] = true
	}
	return mask, nil
}

func buildCharacteristics(seg Segment) (sim.DemandCharacteristics, error) {
	days := make([]int, len(seg.ArrivalPattern))
	cumProb := make([]float64, len(seg.ArrivalPattern))
	for i, p := range seg.ArrivalPattern {
		days[i] = p.Days
		cumProb[i] = p.CumProb
	}
	arrival, err := workload.NewArrivalPattern(days, cumProb)
	if err != nil {
		return sim.DemandCharacteristics{}, fmt.Errorf("arrival_pattern: %w", err)
	}

	var posMass workload.ProbabilityMass[string]
	if len(seg.POSMass) > 0 {
		posMass, err = workload.NewProbabilityMass(seg.POSMass)
		if err != nil {
			return sim.DemandCharacteristics{}, fmt.Errorf("pos_mass: %w", err)
		}
	}

	channelMass, err := workload.NewProbabilityMass(seg.ChannelMass)
	if err != nil {
		return sim.DemandCharacteristics{}, fmt.Errorf("channel_mass: %w", err)
	}
	tripTypeMass, err := workload.NewProbabilityMass(seg.TripTypeMass)
	if err != nil {
		return sim.DemandCharacteristics{}, fmt.Errorf("trip_type_mass: %w", err)
	}
	stayDurationMass, err := workload.NewProbabilityMass(seg.StayDurationMass)
	if err != nil {
		return sim.DemandCharacteristics{}, fmt.Errorf("stay_duration_mass: %w", err)
	}
	frequentFlyerMass, err := workload.NewProbabilityMass(seg.FrequentFlyerMass)
	if err != nil {
		return sim.DemandCharacteristics{}, fmt.Errorf("frequent_flyer_mass: %w", err)
	}

	prefDep, err := buildContinuousCDF(seg.PreferredDepartureTimeCDF)
	if err != nil {
		return sim.DemandCharacteristics{}, fmt.Errorf("preferred_departure_time_cdf: %w", err)
	}
	vot, err := buildContinuousCDF(seg.ValueOfTimeCDF)
	if err != nil {
		return sim.DemandCharacteristics{}, fmt.Errorf("value_of_time_cdf: %w", err)
	}

	var frat5 workload.FRAT5Pattern
	if len(seg.FRAT5) > 0 {
		positions := make([]float64, len(seg.FRAT5))
		values := make([]float64, len(seg.FRAT5))
		for i, p := range seg.FRAT5 {
			positions[i] = p.X
			values[i] = p.Y
		}
		frat5, err = workload.NewFRAT5Pattern(positions, values)
		if err != nil {
			return sim.DemandCharacteristics{}, fmt.Errorf("frat5: %w", err)
		}
	} else {
		frat5, _ = workload.NewFRAT5Pattern([]float64{0, 1}, []float64{1, 1})
	}

	return sim.DemandCharacteristics{
		ArrivalPattern:            arrival,
		POSMass:                   posMass,
		ChannelMass:               channelMass,
		TripTypeMass:              tripTypeMass,
		StayDurationMass:          stayDurationMass,
		FrequentFlyerMass:         frequentFlyerMass,
		PreferredDepartureTimeCDF: prefDep,
		MinWTP:                    seg.MinWTP,
		ValueOfTimeCDF:            vot,
		FRAT5:                     frat5,
	}, nil
}

func buildContinuousCDF(points []CurvePoint) (workload.ContinuousCDF, error) {
	x := make([]float64, len(points))
	y := make([]float64, len(points))
	for i, p := range points {
		x[i] = p.X
		y[i] = p.Y
	}
	return workload.NewContinuousCDF(x, y)
}
