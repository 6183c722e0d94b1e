package simulation

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"mcs-forecast/internal/forecast"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// DefaultTrials is the number of trials run per team and forecast.
const DefaultTrials = 10000

// Engine performs the Monte-Carlo simulation.
type Engine struct {
	trials  int
	workers int
	wip     WIPPolicy
	seed    *int64
	source  RandomSource
}

// Option configures an Engine.
type Option func(*Engine)

// WithTrials sets the number of trials per team. Values <= 0 keep the default.
func WithTrials(trials int) Option {
	return func(e *Engine) {
		if trials > 0 {
			e.trials = trials
		}
	}
}

// WithWorkers bounds the number of teams simulated concurrently.
func WithWorkers(workers int) Option {
	return func(e *Engine) {
		if workers > 0 {
			e.workers = workers
		}
	}
}

// WithWIPPolicy replaces the default StaticWIP policy.
func WithWIPPolicy(p WIPPolicy) Option {
	return func(e *Engine) {
		if p != nil {
			e.wip = p
		}
	}
}

// WithSeed makes every run reproducible. Each team worker derives its own source from the seed.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.SetSeed(seed)
	}
}

// WithRandomSource injects a source shared by all team workers. It takes precedence over a seed.
func WithRandomSource(src RandomSource) Option {
	return func(e *Engine) {
		e.source = src
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		trials:  DefaultTrials,
		workers: runtime.NumCPU(),
		wip:     StaticWIP{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetSeed fixes the seed for subsequent runs.
func (e *Engine) SetSeed(seed int64) {
	e.seed = &seed
}

// Trials is the number of trials run per team.
func (e *Engine) Trials() int {
	return e.trials
}

// sources hands out one random source per team worker.
type sources struct {
	shared RandomSource
	seed   *int64
}

func (e *Engine) newSources() sources {
	s := sources{seed: e.seed}
	if e.source != nil {
		s.shared = &lockedSource{src: e.source}
	}
	return s
}

func (s sources) forWorker(idx int) RandomSource {
	switch {
	case s.shared != nil:
		return s.shared
	case s.seed != nil:
		return NewSeededSource(*s.seed + int64(idx))
	default:
		return newTimeSeededSource(int64(idx))
	}
}

// HowMany forecasts how many items are completed within days by summing days
// independent throughput samples per trial.
func (e *Engine) HowMany(ctx context.Context, throughput Throughput, days int) (*forecast.HowManyForecast, error) {
	if err := throughput.Validate(); err != nil {
		return nil, err
	}
	if days < 0 {
		return nil, fmt.Errorf("%w: days must not be negative, got %d", ErrInvalidInput, days)
	}

	log.Info().Int("days", days).Int("trials", e.trials).Msg("Running Monte Carlo Forecast How Many")

	rng := e.newSources().forWorker(0)
	outcomes := make(map[int]int)

	for trial := 0; trial < e.trials; trial++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		completed := 0
		for day := 0; day < days; day++ {
			sample, err := SampleThroughput(throughput, rng)
			if err != nil {
				return nil, err
			}
			completed += sample
		}
		outcomes[completed]++
	}

	log.Info().Int("days", days).Msg("Finished running Monte Carlo Forecast How Many")

	return forecast.NewHowManyForecast(outcomes, days), nil
}

// When forecasts the completion day of remainingItems for a single team.
func (e *Engine) When(ctx context.Context, team *Team, remainingItems int) (*forecast.WhenForecast, error) {
	if team == nil {
		return nil, fmt.Errorf("%w: team is required", ErrInvalidInput)
	}
	if remainingItems < 0 {
		return nil, fmt.Errorf("%w: remaining items must not be negative, got %d", ErrInvalidInput, remainingItems)
	}
	if err := team.Throughput.Validate(); err != nil {
		return nil, &TeamError{TeamID: team.ID, Err: err}
	}

	log.Info().Str("team", team.Name).Int("remainingItems", remainingItems).Msg("Running Monte Carlo Forecast When")

	synthetic := &Feature{
		ID:   uuid.NewString(),
		Name: fmt.Sprintf("%d items for %s", remainingItems, team.Name),
		Work: []FeatureWork{{Team: team, RemainingItems: remainingItems, TotalItems: remainingItems}},
	}

	res, err := e.ForecastFeatures(ctx, []*Feature{synthetic})
	if err != nil {
		return nil, err
	}
	if len(res.TeamErrors) > 0 {
		return nil, res.TeamErrors[0]
	}

	log.Info().Str("team", team.Name).Int("remainingItems", remainingItems).Msg("Finished running Monte Carlo Forecast When")

	return res.Features[0].Teams[team.ID], nil
}

// teamGroup is the disjoint state set simulated by one worker.
type teamGroup struct {
	team   *Team
	states []*SimulationResult
}

type stateKey struct {
	feature int
	teamID  string
}

// ForecastFeatures simulates every team involved in features and returns one forecast
// per feature, in input order. Per-team failures are reported in the result and do not
// affect other teams; the returned error is only set when ctx ends the run.
func (e *Engine) ForecastFeatures(ctx context.Context, features []*Feature) (*Result, error) {
	res := &Result{}
	if len(features) == 0 {
		return res, nil
	}

	groups, states := e.initializeSimulationResults(features)

	log.Info().
		Int("features", len(features)).
		Int("teams", len(groups)).
		Int("trials", e.trials).
		Msg("Running Monte Carlo Forecast for features")

	started := time.Now()
	teamErrs := make([]*TeamError, len(groups))
	skipped := make([]bool, len(groups))
	src := e.newSources()

	g := new(errgroup.Group)
	g.SetLimit(e.workers)

	for i, grp := range groups {
		if err := grp.team.Throughput.Validate(); err != nil {
			teamErrs[i] = &TeamError{TeamID: grp.team.ID, Err: err}
			continue
		}
		if grp.team.Throughput.Total() <= 0 {
			skipped[i] = true
			log.Warn().Str("team", grp.team.Name).Msg("Team has no throughput, skipping simulation")
			continue
		}

		wip := e.wip.FeatureWIP(grp.team)
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					teamErrs[i] = &TeamError{TeamID: grp.team.ID, Err: fmt.Errorf("simulation panicked: %v", r)}
				}
			}()

			runErr := newDrainer(grp.team.Throughput, wip, grp.states, src.forWorker(i)).run(ctx, e.trials)
			switch {
			case runErr == nil:
				return nil
			case errors.Is(runErr, context.Canceled), errors.Is(runErr, context.DeadlineExceeded):
				return runErr
			default:
				teamErrs[i] = &TeamError{TeamID: grp.team.ID, Err: runErr}
				return nil
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("forecast features: %w", err)
	}

	for i, grp := range groups {
		if skipped[i] {
			res.Skipped = append(res.Skipped, grp.team.ID)
		}
		if teamErrs[i] != nil {
			log.Error().Err(teamErrs[i].Err).Str("team", grp.team.Name).Msg("Team simulation failed")
			res.TeamErrors = append(res.TeamErrors, teamErrs[i])
		}
	}

	res.Features = updateFeatureForecasts(features, states)

	log.Info().
		Int("features", len(features)).
		Dur("elapsed", time.Since(started)).
		Msg("Finished running Monte Carlo Forecast for features")

	return res, nil
}

// initializeSimulationResults creates one state per (team, feature) pair with work left
// and groups them by team in order of first appearance.
func (e *Engine) initializeSimulationResults(features []*Feature) ([]*teamGroup, map[stateKey]*SimulationResult) {
	var groups []*teamGroup
	byTeam := make(map[string]*teamGroup)
	states := make(map[stateKey]*SimulationResult)

	for fi, f := range features {
		if f == nil {
			continue
		}
		for _, w := range f.Work {
			if w.Team == nil || w.RemainingItems <= 0 {
				continue
			}

			key := stateKey{feature: fi, teamID: w.Team.ID}
			if s, ok := states[key]; ok {
				s.InitialRemainingItems += w.RemainingItems
				s.RemainingItems = s.InitialRemainingItems
				continue
			}

			grp, ok := byTeam[w.Team.ID]
			if !ok {
				grp = &teamGroup{team: w.Team}
				byTeam[w.Team.ID] = grp
				groups = append(groups, grp)
			}

			s := newSimulationResult(w.Team.ID, f.ID, f.Order, w.RemainingItems)
			states[key] = s
			grp.states = append(grp.states, s)
		}
	}

	return groups, states
}

func updateFeatureForecasts(features []*Feature, states map[stateKey]*SimulationResult) []FeatureForecast {
	out := make([]FeatureForecast, 0, len(features))

	for fi, f := range features {
		if f == nil {
			continue
		}

		ff := FeatureForecast{
			FeatureID:   f.ID,
			FeatureName: f.Name,
			Teams:       make(map[string]*forecast.WhenForecast),
		}

		parts := make([]*forecast.WhenForecast, 0, len(f.Work))
		for _, w := range f.Work {
			if w.Team == nil {
				continue
			}
			if _, done := ff.Teams[w.Team.ID]; done {
				continue
			}

			var wf *forecast.WhenForecast
			if s, ok := states[stateKey{feature: fi, teamID: w.Team.ID}]; ok {
				wf = forecast.NewWhenForecast(s.Outcomes, s.InitialRemainingItems)
			} else {
				wf = forecast.NewWhenForecast(nil, 0)
			}

			ff.Teams[w.Team.ID] = wf
			parts = append(parts, wf)
		}

		ff.Forecast = forecast.Aggregate(parts...)
		out = append(out, ff)
	}

	return out
}
