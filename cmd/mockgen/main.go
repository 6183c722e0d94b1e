package main

import (
	"fmt"
	"os"
	"time"

	"mcs-forecast/cmd/mockgen/engine"

	"github.com/spf13/cobra"
)

func main() {
	cfg := engine.GeneratorConfig{}
	out := "./portfolio.yaml"

	cmd := &cobra.Command{
		Use:   "mockgen",
		Short: "Generate a sample portfolio file for mcs-forecast",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Now = time.Now()
			fmt.Printf("Generating scenario '%s' (Distribution: %s, Teams: %d, Count: %d) to %s...\n",
				cfg.Scenario, cfg.Distribution, cfg.Teams, cfg.Count, out)

			if err := engine.Save(out, engine.Generate(cfg)); err != nil {
				return fmt.Errorf("failed to save portfolio: %w", err)
			}

			fmt.Println("Done.")
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.Scenario, "scenario", "mild", "Scenario to generate: mild, chaos, drift")
	cmd.Flags().StringVar(&cfg.Distribution, "distribution", "uniform", "Distribution to use: uniform, weibull")
	cmd.Flags().IntVar(&cfg.Teams, "teams", 2, "Number of teams")
	cmd.Flags().IntVar(&cfg.Count, "count", 120, "Number of days of history per team")
	cmd.Flags().IntVar(&cfg.Features, "features", 4, "Number of features")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", time.Now().UnixNano(), "Random seed")
	cmd.Flags().StringVarP(&out, "out", "o", out, "Output file")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
