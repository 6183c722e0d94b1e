package simulation

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wipObserver checks the WIP invariant every time the simulation asks for a random number.
type wipObserver struct {
	src        RandomSource
	high, low  *SimulationResult
	violations int
}

func (w *wipObserver) Intn(n int) int {
	if w.high.HasWorkRemaining() && w.low.RemainingItems != w.low.InitialRemainingItems {
		w.violations++
	}
	return w.src.Intn(n)
}

func newTeam(id string, wip int, counts ...int) *Team {
	return &Team{ID: id, Name: id, FeatureWIP: wip, Throughput: NewThroughput(counts)}
}

func TestDrain_WIPOneWorksInPriorityOrder(t *testing.T) {
	team := newTeam("t1", 1, 0, 1, 3, 2, 0, 1)
	low := newSimulationResult("t1", "low", 2, 7)
	high := newSimulationResult("t1", "high", 1, 5)

	obs := &wipObserver{src: NewSeededSource(7), high: high, low: low}

	// Lower priority first in the slice: ordering must come from Order, not position.
	err := RunTrials(context.Background(), team, []*SimulationResult{low, high}, 500, obs)
	require.NoError(t, err)

	assert.Zero(t, obs.violations, "lower priority feature received work before the higher one finished")
	for day := range low.Outcomes {
		assert.Greater(t, day, 0)
	}

	minHigh, minLow := minKey(high.Outcomes), minKey(low.Outcomes)
	assert.LessOrEqual(t, minHigh, minLow)
}

func TestDrain_Conservation(t *testing.T) {
	team := newTeam("t1", 2, 2, 0, 0, 5, 1, 3, 2, 4, 0, 0, 1)
	states := []*SimulationResult{
		newSimulationResult("t1", "a", 1, 10),
		newSimulationResult("t1", "b", 2, 3),
		newSimulationResult("t1", "c", 3, 8),
	}

	const trials = 1000
	require.NoError(t, RunTrials(context.Background(), team, states, trials, NewSeededSource(1)))

	recorded := 0
	for _, s := range states {
		for _, c := range s.Outcomes {
			recorded += c
		}
		assert.Equal(t, trials, sumOutcomes(s.Outcomes), "feature %s finishes exactly once per trial", s.FeatureID)
	}
	assert.Equal(t, trials*len(states), recorded)
}

func TestDrain_Determinism(t *testing.T) {
	run := func() []map[int]int {
		team := newTeam("t1", 2, 0, 1, 0, 2, 0, 1, 0, 0)
		states := []*SimulationResult{
			newSimulationResult("t1", "a", 1, 12),
			newSimulationResult("t1", "b", 2, 4),
		}
		require.NoError(t, RunTrials(context.Background(), team, states, 2000, NewSeededSource(42)))
		return []map[int]int{states[0].Outcomes, states[1].Outcomes}
	}

	assert.Equal(t, run(), run())
}

func TestDrain_ConstantThroughputIsSequential(t *testing.T) {
	team := newTeam("t1", 1, 1)
	first := newSimulationResult("t1", "first", 1, 35)
	second := newSimulationResult("t1", "second", 2, 20)

	require.NoError(t, RunTrials(context.Background(), team, []*SimulationResult{first, second}, 100, NewSeededSource(3)))

	assert.Equal(t, map[int]int{35: 100}, first.Outcomes)
	assert.Equal(t, map[int]int{55: 100}, second.Outcomes)
}

func TestDrain_NonPositiveWIPActsAsOne(t *testing.T) {
	for _, wip := range []int{0, -3} {
		team := newTeam("t1", wip, 1)
		first := newSimulationResult("t1", "first", 1, 3)
		second := newSimulationResult("t1", "second", 2, 2)

		require.NoError(t, RunTrials(context.Background(), team, []*SimulationResult{first, second}, 10, NewSeededSource(3)))

		assert.Equal(t, map[int]int{3: 10}, first.Outcomes, "wip %d", wip)
		assert.Equal(t, map[int]int{5: 10}, second.Outcomes, "wip %d", wip)
	}
}

func TestDrain_HugeWIPIsClampedToStates(t *testing.T) {
	team := newTeam("t1", math.MaxInt, 1)
	first := newSimulationResult("t1", "first", 1, 3)
	second := newSimulationResult("t1", "second", 2, 2)
	states := []*SimulationResult{first, second}

	d := newDrainer(team.Throughput, team.FeatureWIP, states, NewSeededSource(1))
	assert.Equal(t, 2, d.wip)
	assert.Equal(t, 2, cap(d.eligible))

	require.NoError(t, RunTrials(context.Background(), team, states, 50, NewSeededSource(1)))

	for _, s := range states {
		total := 0
		for day, n := range s.Outcomes {
			assert.LessOrEqual(t, day, 5, s.FeatureID)
			total += n
		}
		assert.Equal(t, 50, total, s.FeatureID)
	}
	// The fifth item always closes on day 5, finishing exactly one of the features.
	assert.Equal(t, 50, first.Outcomes[5]+second.Outcomes[5])
}

func TestDrain_ResetsBetweenTrials(t *testing.T) {
	team := newTeam("t1", 1, 2)
	s := newSimulationResult("t1", "a", 1, 5)

	require.NoError(t, RunTrials(context.Background(), team, []*SimulationResult{s}, 3, NewSeededSource(1)))

	assert.Equal(t, map[int]int{3: 3}, s.Outcomes)
	assert.Zero(t, s.RemainingItems)
}

func TestDrain_ZeroThroughputIsRejected(t *testing.T) {
	team := newTeam("t1", 1, 0, 0, 0)
	s := newSimulationResult("t1", "a", 1, 5)

	err := RunTrials(context.Background(), team, []*SimulationResult{s}, 10, NewSeededSource(1))
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, s.Outcomes)
}

func TestDrain_HonoursCancellationWithinTrial(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	team := newTeam("t1", 1, 1)
	s := newSimulationResult("t1", "a", 1, 1000)

	err := RunTrials(ctx, team, []*SimulationResult{s}, 10, NewSeededSource(1))
	assert.ErrorIs(t, err, context.Canceled)
}

func minKey(m map[int]int) int {
	first := true
	lowest := 0
	for k := range m {
		if first || k < lowest {
			lowest = k
			first = false
		}
	}
	return lowest
}

func sumOutcomes(m map[int]int) int {
	total := 0
	for _, c := range m {
		total += c
	}
	return total
}
