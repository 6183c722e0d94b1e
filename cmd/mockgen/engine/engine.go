package engine

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"mcs-forecast/internal/portfolio"

	"gopkg.in/yaml.v3"
)

type GeneratorConfig struct {
	Scenario     string // "mild", "chaos" or "drift"
	Distribution string // "uniform" or "weibull"
	Teams        int
	Count        int // items arriving per team, one per day
	Features     int
	Now          time.Time
	Seed         int64
}

var teamNames = []string{"Core Platform", "Mobile Apps", "Payments", "Data Insights", "Identity", "Search"}

// Generate builds a portfolio whose team throughput comes from simulated item lifecycles:
// one item arrives per day and finishes after a sampled cycle time. Items not finished
// by Now become the remaining work of the generated features.
func Generate(cfg GeneratorConfig) *portfolio.File {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if cfg.Teams <= 0 {
		cfg.Teams = 2
	}
	if cfg.Count <= 0 {
		cfg.Count = 120
	}
	if cfg.Features <= 0 {
		cfg.Features = 4
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	file := &portfolio.File{}
	open := make([]int, cfg.Teams)

	for t := 0; t < cfg.Teams; t++ {
		spec := portfolio.TeamSpec{
			ID:         fmt.Sprintf("team-%d", t+1),
			Name:       teamNames[t%len(teamNames)],
			FeatureWIP: 1 + t%2,
			Window: &portfolio.WindowSpec{
				Start: cfg.Now.AddDate(0, 0, -cfg.Count),
				End:   cfg.Now.AddDate(0, 0, -1),
			},
		}
		if t >= len(teamNames) {
			spec.Name = fmt.Sprintf("%s %d", spec.Name, t/len(teamNames)+1)
		}

		arrivals := cfg.Now.AddDate(0, 0, -cfg.Count)
		for i := 0; i < cfg.Count; i++ {
			arrival := arrivals.Add(time.Duration(i*24) * time.Hour)
			done := arrival.Add(time.Duration(cycleTimeDays(rng, cfg, i)*24) * time.Hour)

			if done.Before(spec.Window.End) {
				spec.CompletedOn = append(spec.CompletedOn, done.UTC().Truncate(time.Second))
			} else {
				open[t]++
			}
		}
		if len(spec.CompletedOn) == 0 {
			spec.CompletedOn = []time.Time{spec.Window.End}
		}

		file.Teams = append(file.Teams, spec)
	}

	for f := 0; f < cfg.Features; f++ {
		feature := portfolio.FeatureSpec{
			ID:    fmt.Sprintf("FEAT-%d", f+1),
			Name:  fmt.Sprintf("Feature %d", f+1),
			Order: f + 1,
		}

		first := f % cfg.Teams
		feature.Work = append(feature.Work, workFor(rng, file.Teams[first].ID, open[first]))
		if cfg.Teams > 1 && rng.Float64() < 0.4 {
			second := (first + 1) % cfg.Teams
			feature.Work = append(feature.Work, workFor(rng, file.Teams[second].ID, open[second]))
		}

		file.Features = append(file.Features, feature)
	}

	return file
}

// cycleTimeDays samples how long item i takes from arrival to done.
func cycleTimeDays(rng *rand.Rand, cfg GeneratorConfig, i int) float64 {
	k, lambda := 2.5, 9.5 // mild: ~8 days
	switch cfg.Scenario {
	case "chaos":
		k = 0.8
		if cfg.Distribution == "weibull" {
			lambda = 12.0
		}
	case "drift":
		ratio := float64(i) / float64(cfg.Count)
		k = 2.5 - (1.7 * ratio)
		lambda = 9.5 + (2.5 * ratio)
	}

	if cfg.Distribution == "weibull" {
		return weibullSample(rng, k, lambda)
	}

	duration := 6.0 + rng.Float64()*5.0
	if cfg.Scenario == "chaos" && rng.Float64() < 0.2 {
		duration += 10 + rng.Float64()*15 // black swans
	}
	if cfg.Scenario == "drift" && i > cfg.Count/2 {
		duration *= 2.0
	}
	return duration
}

func weibullSample(rng *rand.Rand, k, lambda float64) float64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.0001
	}
	// X = lambda * (-ln(1-u))^(1/k)
	return lambda * math.Pow(-math.Log(1.0-u), 1.0/k)
}

// workFor gives a feature some started work; open items in flight bias the remaining size.
func workFor(rng *rand.Rand, teamID string, open int) portfolio.WorkSpec {
	remaining := 3 + rng.Intn(10) + open/4
	return portfolio.WorkSpec{
		Team:      teamID,
		Remaining: remaining,
		Total:     remaining + rng.Intn(8),
	}
}

// Save writes the portfolio as YAML, creating parent directories as needed.
func Save(path string, file *portfolio.File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("marshal portfolio: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
