package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"mcs-forecast/internal/config"
	"mcs-forecast/internal/logging"
	"mcs-forecast/internal/mcp"
	"mcs-forecast/internal/portfolio"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose       bool
	portfolioPath string
	cfg           *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "mcs-forecast",
	Short: "Monte-Carlo forecasting for teams and features",
	Long: `Forecasts when remaining work will be done and how much work fits into a period,
using Monte-Carlo simulation over each team's historical daily throughput.

Without a subcommand it serves the forecasts as MCP tools over stdio.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if portfolioPath != "" {
			cfg.PortfolioPath = portfolioPath
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Str("portfolio", cfg.PortfolioPath).
			Msg("MCS-Forecast starting")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		server := mcp.NewServer(loadPortfolio, cfg.Engine, cfg.Timeout)
		server.SetRateLimit(cfg.RateLimit, cfg.RateBurst)
		return server.Start(ctx)
	},
}

func loadPortfolio() (*portfolio.Portfolio, error) {
	return portfolio.Load(cfg.PortfolioPath)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&portfolioPath, "portfolio", "p", "", "portfolio file (default $PORTFOLIO_PATH or <data>/portfolio.yaml)")

	rootCmd.AddCommand(newWhenCmd(), newHowManyCmd(), newFeaturesCmd(), newTeamsCmd())
}
