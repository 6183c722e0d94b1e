package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"mcs-forecast/internal/forecast"
	"mcs-forecast/internal/portfolio"
	"mcs-forecast/internal/report"
	"mcs-forecast/internal/simulation"

	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

type whenOptions struct {
	team       string
	items      int
	targetDate string
	json       bool
}

type howManyOptions struct {
	team       string
	days       int
	targetDate string
	json       bool
}

type featuresOptions struct {
	ids  []string
	json bool
}

// env is what a forecast command needs besides its flags.
type env struct {
	out       io.Writer
	portfolio *portfolio.Portfolio
	engine    *simulation.Engine
	now       time.Time
}

func newEnv(cmd *cobra.Command) (*env, error) {
	p, err := loadPortfolio()
	if err != nil {
		return nil, err
	}
	return &env{
		out:       cmd.OutOrStdout(),
		portfolio: p,
		engine:    cfg.Engine(simulation.WithWIPPolicy(p.WIPPolicy())),
		now:       time.Now(),
	}, nil
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if cfg == nil || cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, cfg.Timeout)
}

func newWhenCmd() *cobra.Command {
	opts := &whenOptions{}
	cmd := &cobra.Command{
		Use:   "when",
		Short: "Forecast when a team finishes a number of items",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd.Context())
			defer cancel()
			return runWhen(ctx, e, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.team, "team", "t", "", "team name or ID")
	cmd.Flags().IntVarP(&opts.items, "items", "n", 0, "remaining items")
	cmd.Flags().StringVar(&opts.targetDate, "target-date", "", "report the likelihood of finishing by this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON instead of a table")
	_ = cmd.MarkFlagRequired("team")
	_ = cmd.MarkFlagRequired("items")
	return cmd
}

func runWhen(ctx context.Context, e *env, opts *whenOptions) error {
	if opts.items < 0 {
		return errors.New("--items must not be negative")
	}

	var target *time.Time
	if opts.targetDate != "" {
		t, err := time.Parse(dateLayout, opts.targetDate)
		if err != nil {
			return fmt.Errorf("invalid --target-date: %w", err)
		}
		target = &t
	}

	team, err := e.portfolio.TeamByName(opts.team)
	if err != nil {
		return err
	}

	f, err := e.engine.When(ctx, team, opts.items)
	if err != nil {
		return err
	}
	if f.Empty() {
		return fmt.Errorf("team %q has no completed items in its throughput history", team.Name)
	}

	r := report.NewWhenReport(team, f, e.now, target)
	if opts.json {
		return writeJSON(e.out, r)
	}
	return report.NewConsole(e.out).When(r)
}

func newHowManyCmd() *cobra.Command {
	opts := &howManyOptions{}
	cmd := &cobra.Command{
		Use:   "howmany",
		Short: "Forecast how many items a team finishes in a period",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd.Context())
			defer cancel()
			return runHowMany(ctx, e, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.team, "team", "t", "", "team name or ID")
	cmd.Flags().IntVarP(&opts.days, "days", "d", 0, "number of days")
	cmd.Flags().StringVar(&opts.targetDate, "target-date", "", "forecast until this date (YYYY-MM-DD) instead of --days")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON instead of a table")
	cmd.MarkFlagsMutuallyExclusive("days", "target-date")
	cmd.MarkFlagsOneRequired("days", "target-date")
	_ = cmd.MarkFlagRequired("team")
	return cmd
}

func runHowMany(ctx context.Context, e *env, opts *howManyOptions) error {
	days := opts.days
	if opts.targetDate != "" {
		t, err := time.Parse(dateLayout, opts.targetDate)
		if err != nil {
			return fmt.Errorf("invalid --target-date: %w", err)
		}
		days = forecast.DaysBetween(e.now, t)
	}
	if days <= 0 {
		return errors.New("the forecast period must be at least one day")
	}

	team, err := e.portfolio.TeamByName(opts.team)
	if err != nil {
		return err
	}

	f, err := e.engine.HowMany(ctx, team.Throughput, days)
	if err != nil {
		return err
	}

	r := report.NewHowManyReport(team, f)
	if opts.json {
		return writeJSON(e.out, r)
	}
	return report.NewConsole(e.out).HowMany(r)
}

func newFeaturesCmd() *cobra.Command {
	opts := &featuresOptions{}
	cmd := &cobra.Command{
		Use:   "features [feature-id...]",
		Short: "Forecast completion of portfolio features",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			opts.ids = args
			ctx, cancel := withTimeout(cmd.Context())
			defer cancel()
			return runFeatures(ctx, e, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON instead of a table")
	return cmd
}

func runFeatures(ctx context.Context, e *env, opts *featuresOptions) error {
	features, err := e.portfolio.FeaturesByID(opts.ids...)
	if err != nil {
		return err
	}

	res, err := e.engine.ForecastFeatures(ctx, features)
	if err != nil {
		return err
	}

	r := report.NewFeaturesReport(features, res, e.now)
	if opts.json {
		return writeJSON(e.out, r)
	}
	return report.NewConsole(e.out).Features(r)
}

func newTeamsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "teams",
		Short: "List teams and their throughput",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPortfolio()
			if err != nil {
				return err
			}
			summaries := report.NewTeamSummaries(p.Teams)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), summaries)
			}
			return report.NewConsole(cmd.OutOrStdout()).Teams(summaries)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
