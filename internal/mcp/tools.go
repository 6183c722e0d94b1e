package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mcs-forecast/internal/forecast"
	"mcs-forecast/internal/report"
	"mcs-forecast/internal/simulation"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

const dateLayout = "2006-01-02"

type ListTeamsParams struct{}

type ListTeamsResult struct {
	Teams []report.TeamSummary `json:"teams"`
}

type WhenParams struct {
	TeamName       string `json:"team_name" jsonschema:"team name or ID; a unique part of the name is enough"`
	RemainingItems int    `json:"remaining_items" jsonschema:"number of items still to be done"`
	TargetDate     string `json:"target_date,omitempty" jsonschema:"optional date (YYYY-MM-DD) to report the likelihood of finishing by"`
}

type HowManyParams struct {
	TeamName  string `json:"team_name" jsonschema:"team name or ID; a unique part of the name is enough"`
	Days      int    `json:"days,omitempty" jsonschema:"number of days to forecast"`
	UntilDate string `json:"until_date,omitempty" jsonschema:"alternative to days: forecast until this date (YYYY-MM-DD)"`
}

type FeaturesParams struct {
	FeatureIDs []string `json:"feature_ids,omitempty" jsonschema:"features to forecast; all features when empty"`
}

func (s *Server) registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_teams",
		Description: "List the teams available for forecasting together with a summary of their historical daily throughput.",
	}, s.handleListTeams)

	mcp.AddTool(server, &mcp.Tool{
		Name: "run_when_forecast",
		Description: "Run a Monte-Carlo simulation to forecast WHEN a team finishes a number of remaining items, based on its historical daily throughput. " +
			"Returns the number of days and the date per confidence level (50/70/85/95%). " +
			"Do not invent forecasts yourself if this tool fails.",
	}, s.handleRunWhenForecast)

	mcp.AddTool(server, &mcp.Tool{
		Name: "run_how_many_forecast",
		Description: "Run a Monte-Carlo simulation to forecast HOW MANY items a team finishes within a number of days (or until a date). " +
			"Confidence levels read as 'with 85% confidence at least N items are done'.",
	}, s.handleRunHowManyForecast)

	mcp.AddTool(server, &mcp.Tool{
		Name: "forecast_features",
		Description: "Forecast completion dates of portfolio features. Teams work on features in priority order, limited by their feature WIP; " +
			"features shared by several teams are done when the last team is done.",
	}, s.handleForecastFeatures)
}

func (s *Server) handleListTeams(ctx context.Context, req *mcp.CallToolRequest, _ ListTeamsParams) (*mcp.CallToolResult, ListTeamsResult, error) {
	p, err := s.load()
	if err != nil {
		return nil, ListTeamsResult{}, err
	}
	return nil, ListTeamsResult{Teams: report.NewTeamSummaries(p.Teams)}, nil
}

func (s *Server) handleRunWhenForecast(ctx context.Context, req *mcp.CallToolRequest, in WhenParams) (*mcp.CallToolResult, report.WhenReport, error) {
	if in.RemainingItems < 0 {
		return nil, report.WhenReport{}, errors.New("remaining_items must not be negative")
	}

	var target *time.Time
	if in.TargetDate != "" {
		t, err := time.Parse(dateLayout, in.TargetDate)
		if err != nil {
			return nil, report.WhenReport{}, fmt.Errorf("invalid target_date format: %w", err)
		}
		target = &t
	}

	p, err := s.load()
	if err != nil {
		return nil, report.WhenReport{}, err
	}
	team, err := p.TeamByName(in.TeamName)
	if err != nil {
		return nil, report.WhenReport{}, err
	}

	ctx, cancel, err := s.begin(ctx)
	if err != nil {
		return nil, report.WhenReport{}, err
	}
	defer cancel()

	f, err := s.newEngine(simulation.WithWIPPolicy(p.WIPPolicy())).When(ctx, team, in.RemainingItems)
	if err != nil {
		return nil, report.WhenReport{}, toolError(err)
	}
	if f.Empty() {
		return nil, report.WhenReport{}, fmt.Errorf("team %q has no completed items in its throughput history; a forecast is not possible", team.Name)
	}

	log.Debug().Str("team", team.Name).Int("remainingItems", in.RemainingItems).Msg("When forecast served")
	return nil, report.NewWhenReport(team, f, s.now(), target), nil
}

func (s *Server) handleRunHowManyForecast(ctx context.Context, req *mcp.CallToolRequest, in HowManyParams) (*mcp.CallToolResult, report.HowManyReport, error) {
	days := in.Days
	if in.UntilDate != "" {
		t, err := time.Parse(dateLayout, in.UntilDate)
		if err != nil {
			return nil, report.HowManyReport{}, fmt.Errorf("invalid until_date format: %w", err)
		}
		days = forecast.DaysBetween(s.now(), t)
	}
	if days <= 0 {
		return nil, report.HowManyReport{}, errors.New("days must be > 0 (or until_date must be in the future)")
	}

	p, err := s.load()
	if err != nil {
		return nil, report.HowManyReport{}, err
	}
	team, err := p.TeamByName(in.TeamName)
	if err != nil {
		return nil, report.HowManyReport{}, err
	}

	ctx, cancel, err := s.begin(ctx)
	if err != nil {
		return nil, report.HowManyReport{}, err
	}
	defer cancel()

	f, err := s.newEngine().HowMany(ctx, team.Throughput, days)
	if err != nil {
		return nil, report.HowManyReport{}, toolError(err)
	}

	return nil, report.NewHowManyReport(team, f), nil
}

func (s *Server) handleForecastFeatures(ctx context.Context, req *mcp.CallToolRequest, in FeaturesParams) (*mcp.CallToolResult, report.FeaturesReport, error) {
	p, err := s.load()
	if err != nil {
		return nil, report.FeaturesReport{}, err
	}
	features, err := p.FeaturesByID(in.FeatureIDs...)
	if err != nil {
		return nil, report.FeaturesReport{}, err
	}

	ctx, cancel, err := s.begin(ctx)
	if err != nil {
		return nil, report.FeaturesReport{}, err
	}
	defer cancel()

	res, err := s.newEngine(simulation.WithWIPPolicy(p.WIPPolicy())).ForecastFeatures(ctx, features)
	if err != nil {
		return nil, report.FeaturesReport{}, toolError(err)
	}

	return nil, report.NewFeaturesReport(features, res, s.now()), nil
}

// toolError turns engine errors into messages an assistant can act on.
func toolError(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("simulation timed out; try fewer items or features: %w", err)
	case errors.Is(err, simulation.ErrInvalidInput):
		return fmt.Errorf("cannot simulate: %w", err)
	default:
		return err
	}
}
