package report

import (
	"sort"
	"time"

	"mcs-forecast/internal/forecast"
	"mcs-forecast/internal/simulation"
)

const dateLayout = "2006-01-02"

// PercentileRow is one confidence level of a when-forecast, in days and as a date.
type PercentileRow struct {
	Percentile float64 `json:"percentile" jsonschema:"confidence level in percent"`
	Days       int     `json:"days" jsonschema:"days from today"`
	Date       string  `json:"date" jsonschema:"forecasted completion date (YYYY-MM-DD)"`
}

// WhenReport answers "when will these items be done?".
type WhenReport struct {
	Team           string          `json:"team"`
	RemainingItems int             `json:"remaining_items"`
	Trials         int             `json:"trials"`
	Percentiles    []PercentileRow `json:"percentiles"`
	TargetDate     string          `json:"target_date,omitempty"`
	Likelihood     *float64        `json:"likelihood,omitempty" jsonschema:"probability in percent of finishing by target_date"`
}

// HowManyReport answers "how many items will be done in this period?".
type HowManyReport struct {
	Team                string                       `json:"team"`
	Days                int                          `json:"days"`
	Trials              int                          `json:"trials"`
	Confidence          []forecast.PercentileValue   `json:"confidence" jsonschema:"items finished with at least the given confidence"`
	PredictabilityScore float64                      `json:"predictability_score" jsonschema:"p95/p50 of the confidence levels; closer to 1 is more predictable"`
	Throughput          simulation.ThroughputSummary `json:"throughput"`
}

// TeamShare is one team's part of a feature forecast.
type TeamShare struct {
	TeamID         string          `json:"team_id"`
	RemainingItems int             `json:"remaining_items"`
	Percentiles    []PercentileRow `json:"percentiles,omitempty"`
	Skipped        bool            `json:"skipped,omitempty"`
}

// FeatureReport is the combined forecast of one feature across teams.
type FeatureReport struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	RemainingItems int             `json:"remaining_items"`
	Percentiles    []PercentileRow `json:"percentiles,omitempty"`
	NoForecast     bool            `json:"no_forecast,omitempty" jsonschema:"true when no involved team could be simulated"`
	Teams          []TeamShare     `json:"teams"`
}

// FeaturesReport is the outcome of a portfolio forecast.
type FeaturesReport struct {
	Features     []FeatureReport `json:"features"`
	SkippedTeams []string        `json:"skipped_teams,omitempty"`
	Errors       []string        `json:"errors,omitempty"`
}

// TeamSummary describes a team available for forecasting.
type TeamSummary struct {
	ID                            string                       `json:"id"`
	Name                          string                       `json:"name"`
	FeatureWIP                    int                          `json:"feature_wip"`
	AutomaticallyAdjustFeatureWIP bool                         `json:"automatically_adjust_feature_wip"`
	Throughput                    simulation.ThroughputSummary `json:"throughput"`
}

func percentileRows(f forecast.Forecast, now time.Time) []PercentileRow {
	values := forecast.Percentiles(f)
	rows := make([]PercentileRow, 0, len(values))
	for _, v := range values {
		rows = append(rows, PercentileRow{
			Percentile: v.Percentile,
			Days:       v.Value,
			Date:       now.AddDate(0, 0, v.Value).Format(dateLayout),
		})
	}
	return rows
}

// NewWhenReport summarizes a when-forecast. target is optional.
func NewWhenReport(team *simulation.Team, f *forecast.WhenForecast, now time.Time, target *time.Time) WhenReport {
	r := WhenReport{
		Team:           team.Name,
		RemainingItems: f.NumberOfItems(),
		Trials:         f.Trials(),
		Percentiles:    percentileRows(f, now),
	}
	if target != nil {
		l := forecast.LikelihoodForDate(f, now, *target)
		r.TargetDate = target.Format(dateLayout)
		r.Likelihood = &l
	}
	return r
}

func NewHowManyReport(team *simulation.Team, f *forecast.HowManyForecast) HowManyReport {
	return HowManyReport{
		Team:                team.Name,
		Days:                f.Days(),
		Trials:              f.Trials(),
		Confidence:          forecast.Confidence(f),
		PredictabilityScore: f.PredictabilityScore(),
		Throughput:          team.Throughput.Summary(),
	}
}

// NewFeaturesReport converts an engine result. Team shares are ordered by team ID.
func NewFeaturesReport(features []*simulation.Feature, res *simulation.Result, now time.Time) FeaturesReport {
	out := FeaturesReport{
		Features:     make([]FeatureReport, 0, len(res.Features)),
		SkippedTeams: res.Skipped,
	}
	for _, te := range res.TeamErrors {
		out.Errors = append(out.Errors, te.Error())
	}

	remaining := make(map[string]map[string]int, len(features))
	for _, f := range features {
		perTeam := make(map[string]int)
		for _, w := range f.Work {
			if w.Team != nil {
				perTeam[w.Team.ID] += w.RemainingItems
			}
		}
		remaining[f.ID] = perTeam
	}

	for _, ff := range res.Features {
		fr := FeatureReport{
			ID:             ff.FeatureID,
			Name:           ff.FeatureName,
			RemainingItems: ff.Forecast.NumberOfItems(),
			NoForecast:     ff.Forecast.Empty(),
			Teams:          make([]TeamShare, 0, len(ff.Teams)),
		}
		if !fr.NoForecast {
			fr.Percentiles = percentileRows(ff.Forecast, now)
		}

		for teamID, wf := range ff.Teams {
			share := TeamShare{TeamID: teamID, RemainingItems: remaining[ff.FeatureID][teamID]}
			if wf.Empty() {
				share.Skipped = true
			} else {
				share.Percentiles = percentileRows(wf, now)
			}
			fr.Teams = append(fr.Teams, share)
		}
		sort.Slice(fr.Teams, func(i, j int) bool { return fr.Teams[i].TeamID < fr.Teams[j].TeamID })

		out.Features = append(out.Features, fr)
	}

	return out
}

func NewTeamSummaries(teams []*simulation.Team) []TeamSummary {
	out := make([]TeamSummary, 0, len(teams))
	for _, t := range teams {
		out = append(out, TeamSummary{
			ID:                            t.ID,
			Name:                          t.Name,
			FeatureWIP:                    t.FeatureWIP,
			AutomaticallyAdjustFeatureWIP: t.AutomaticallyAdjustFeatureWIP,
			Throughput:                    t.Throughput.Summary(),
		})
	}
	return out
}
