package sim

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/befeleme/trademgen/sim/workload"
)

func buildSpec(t *testing.T, departure string, mean, stddev float64) StreamSpec {
	t.Helper()
	return StreamSpec{
		Key:             testKey(t, departure),
		Characteristics: testCharacteristics(t),
		Distribution:    DemandDistribution{MeanRequests: mean, StdDevRequests: stddev},
	}
}

func TestDemandManager_TwoStreamsMerge_StrictlyIncreasingInterleaved(t *testing.T) {
	// GIVEN two streams departing on consecutive days, both mean=10 stddev=0
	master := NewMasterRNG(NewSimulationSeed(11))
	specs := []StreamSpec{
		buildSpec(t, "2010-02-08", 10, 0),
		buildSpec(t, "2010-02-09", 10, 0),
	}
	manager, err := BuildStreams(specs, master, workload.ProbabilityMass[string]{}, logrus.StandardLogger())
	require.NoError(t, err)

	_, err = manager.GenerateFirstRequests(MethodStatisticOrder)
	require.NoError(t, err)

	var last time.Time
	seenKeys := map[DemandStreamKey]bool{}
	count := 0
	for !manager.IsQueueDone() {
		event, err := manager.PopEvent()
		require.NoError(t, err)
		if !last.IsZero() {
			assert.True(t, event.EventTime.After(last), "expected strictly increasing timestamps")
		}
		last = event.EventTime
		seenKeys[event.StreamKey()] = true
		count++
	}

	assert.Equal(t, 20, count)
	assert.Len(t, seenKeys, 2)
}

func TestDemandManager_ExpectedTotalRequests(t *testing.T) {
	master := NewMasterRNG(NewSimulationSeed(2))
	specs := []StreamSpec{
		buildSpec(t, "2010-02-08", 5, 0),
		buildSpec(t, "2010-02-09", 7, 0),
	}
	manager, err := BuildStreams(specs, master, workload.ProbabilityMass[string]{}, logrus.StandardLogger())
	require.NoError(t, err)

	assert.Equal(t, 12, manager.ExpectedTotalRequests())
}

func TestDemandManager_DuplicateKeyRejected(t *testing.T) {
	master := NewMasterRNG(NewSimulationSeed(2))
	spec := buildSpec(t, "2010-02-08", 5, 0)
	_, err := BuildStreams([]StreamSpec{spec, spec}, master, workload.ProbabilityMass[string]{}, logrus.StandardLogger())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestDemandManager_SameSeed_IdenticalSequences(t *testing.T) {
	// GIVEN two managers, each built from a fresh master with seed S and
	// consumed to empty
	runOnce := func(seed int64) []time.Time {
		master := NewMasterRNG(NewSimulationSeed(seed))
		specs := []StreamSpec{buildSpec(t, "2010-02-08", 8, 0)}
		manager, err := BuildStreams(specs, master, workload.ProbabilityMass[string]{}, logrus.StandardLogger())
		require.NoError(t, err)
		_, err = manager.GenerateFirstRequests(MethodStatisticOrder)
		require.NoError(t, err)

		var times []time.Time
		for !manager.IsQueueDone() {
			e, err := manager.PopEvent()
			require.NoError(t, err)
			times = append(times, e.EventTime)
		}
		return times
	}

	first := runOnce(55)
	second := runOnce(55)
	assert.Equal(t, first, second)
	assert.Equal(t, len(first), 8)
}

func TestDemandManager_ResetReproducesFirstEventDateTimes(t *testing.T) {
	master := NewMasterRNG(NewSimulationSeed(21))
	specs := []StreamSpec{buildSpec(t, "2010-02-08", 4, 0)}
	manager, err := BuildStreams(specs, master, workload.ProbabilityMass[string]{}, logrus.StandardLogger())
	require.NoError(t, err)
	_, err = manager.GenerateFirstRequests(MethodStatisticOrder)
	require.NoError(t, err)

	var firstRun []time.Time
	for !manager.IsQueueDone() {
		e, err := manager.PopEvent()
		require.NoError(t, err)
		firstRun = append(firstRun, e.EventTime)
	}

	resetMaster := NewMasterRNG(NewSimulationSeed(21))
	manager.Reset(resetMaster)
	_, err = manager.GenerateFirstRequests(MethodStatisticOrder)
	require.NoError(t, err)

	var secondRun []time.Time
	for !manager.IsQueueDone() {
		e, err := manager.PopEvent()
		require.NoError(t, err)
		secondRun = append(secondRun, e.EventTime)
	}

	require.Equal(t, len(firstRun), len(secondRun))
	assert.Equal(t, firstRun[0], secondRun[0])
}

func TestDemandManager_Exhaustion_AfterThreePops(t *testing.T) {
	master := NewMasterRNG(NewSimulationSeed(4))
	key := testKey(t, "2010-02-08")
	specs := []StreamSpec{buildSpec(t, "2010-02-08", 3, 0)}
	manager, err := BuildStreams(specs, master, workload.ProbabilityMass[string]{}, logrus.StandardLogger())
	require.NoError(t, err)
	_, err = manager.GenerateFirstRequests(MethodStatisticOrder)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := manager.PopEvent()
		require.NoError(t, err)
	}

	assert.False(t, manager.StillGenerating(key))
}

func TestDemandManager_CancellationAcceptRateNearHalf(t *testing.T) {
	master := NewMasterRNG(NewSimulationSeed(6))
	specs := []StreamSpec{buildSpec(t, "2010-02-08", 1, 0)}
	manager, err := BuildStreams(specs, master, workload.ProbabilityMass[string]{}, logrus.StandardLogger())
	require.NoError(t, err)

	req := &BookingRequest{
		SourceStreamKey: specs[0].Key,
		RequestDateTime: specs[0].Key.departureReference().AddDate(0, 0, -10),
		PartySize:       1,
	}

	accepted := 0
	trials := 10000
	for i := 0; i < trials; i++ {
		if _, ok := manager.GenerateCancellation(req, []string{"Y"}); ok {
			accepted++
		}
	}

	rate := float64(accepted) / float64(trials)
	assert.InDelta(t, 0.5, rate, 0.015)
}

func TestDemandManager_PopEvent_EmptyQueueErrors(t *testing.T) {
	master := NewMasterRNG(NewSimulationSeed(8))
	manager, err := BuildStreams(nil, master, workload.ProbabilityMass[string]{}, logrus.StandardLogger())
	require.NoError(t, err)

	_, err = manager.PopEvent()
	assert.ErrorIs(t, err, ErrQueueEmpty)
}
