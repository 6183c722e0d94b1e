package simulation

import (
	"errors"

	"mcs-forecast/internal/forecast"
)

// FeatureForecast holds the per-team and combined when-forecasts of one feature.
type FeatureForecast struct {
	FeatureID   string
	FeatureName string

	// Teams is keyed by team ID.
	Teams    map[string]*forecast.WhenForecast
	Forecast *forecast.AggregatedWhenForecast
}

// Result is the outcome of ForecastFeatures.
type Result struct {
	Features   []FeatureForecast
	Skipped    []string
	TeamErrors []*TeamError
}

// Feature looks up the forecast of a feature by ID.
func (r *Result) Feature(id string) (*FeatureForecast, bool) {
	for i := range r.Features {
		if r.Features[i].FeatureID == id {
			return &r.Features[i], true
		}
	}
	return nil, false
}

// Err joins all per-team errors, or returns nil.
func (r *Result) Err() error {
	errs := make([]error, 0, len(r.TeamErrors))
	for _, te := range r.TeamErrors {
		errs = append(errs, te)
	}
	return errors.Join(errs...)
}
