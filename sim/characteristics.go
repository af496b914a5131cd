package sim

import "github.com/befeleme/trademgen/sim/workload"

// DemandDistribution holds the scalar parameters of the normal
// distribution a stream draws its total request count from.
type DemandDistribution struct {
	MeanRequests   float64
	StdDevRequests float64
}

// DemandCharacteristics bundles every distribution a demand stream samples
// from when producing a request: the arrival-time CDF and the discrete or
// continuous distributions behind each attribute.
type DemandCharacteristics struct {
	ArrivalPattern              workload.ArrivalPattern
	POSMass                     workload.ProbabilityMass[string]
	ChannelMass                 workload.ProbabilityMass[string]
	TripTypeMass                workload.ProbabilityMass[string]
	StayDurationMass            workload.ProbabilityMass[int]
	FrequentFlyerMass           workload.ProbabilityMass[string]
	PreferredDepartureTimeCDF   workload.ContinuousCDF
	MinWTP                      float64
	ValueOfTimeCDF              workload.ContinuousCDF
	FRAT5                       workload.FRAT5Pattern
}
