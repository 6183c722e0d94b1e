package simulation

import (
	"cmp"
	"context"
	"fmt"
	"slices"
)

// drainer simulates trials for one team. It owns the team's states for the duration of
// a run; the eligible buffer is reused between completed items to avoid allocations.
type drainer struct {
	throughput Throughput
	wip        int
	states     []*SimulationResult
	rng        RandomSource
	eligible   []*SimulationResult
}

func newDrainer(throughput Throughput, wip int, states []*SimulationResult, rng RandomSource) *drainer {
	// At most every state can be in progress at once.
	wip = max(1, min(wip, len(states)))

	ordered := slices.Clone(states)
	slices.SortStableFunc(ordered, func(a, b *SimulationResult) int {
		return cmp.Compare(a.Order, b.Order)
	})

	return &drainer{
		throughput: throughput,
		wip:        wip,
		states:     ordered,
		rng:        rng,
		eligible:   make([]*SimulationResult, 0, wip),
	}
}

// trial drains all remaining items of the team, day by day, and records the day each
// feature reaches zero. States must be reset before calling.
func (d *drainer) trial(ctx context.Context) error {
	remaining := totalRemaining(d.states)

	for day := 1; remaining > 0; day++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		today, err := SampleThroughput(d.throughput, d.rng)
		if err != nil {
			return err
		}

		for closed := 0; closed < today && remaining > 0; closed++ {
			target := d.pick()
			target.RemainingItems--
			remaining--

			if !target.HasWorkRemaining() {
				target.record(day)
			}
		}
	}

	return nil
}

// pick chooses uniformly among the first wip unfinished features in priority order.
// Lower priority features only become eligible once a higher one has finished.
func (d *drainer) pick() *SimulationResult {
	d.eligible = d.eligible[:0]
	for _, s := range d.states {
		if !s.HasWorkRemaining() {
			continue
		}
		d.eligible = append(d.eligible, s)
		if len(d.eligible) == d.wip {
			break
		}
	}
	return d.eligible[d.rng.Intn(len(d.eligible))]
}

func (d *drainer) run(ctx context.Context, trials int) error {
	if totalRemaining(d.states) > 0 && d.throughput.Total() <= 0 {
		return fmt.Errorf("%w: throughput has no completed items to sample", ErrInvalidInput)
	}

	for i := 0; i < trials; i++ {
		for _, s := range d.states {
			s.Reset()
		}
		if err := d.trial(ctx); err != nil {
			return err
		}
	}
	return nil
}

// RunTrials runs trials independent trials for one team against its states, using the
// team's configured feature WIP. Histograms accumulate in each state's Outcomes.
func RunTrials(ctx context.Context, team *Team, states []*SimulationResult, trials int, rng RandomSource) error {
	if err := team.Throughput.Validate(); err != nil {
		return err
	}
	return newDrainer(team.Throughput, team.FeatureWIP, states, rng).run(ctx, trials)
}
