package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// Console prints reports as tables.
type Console struct {
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Teams(teams []TeamSummary) error {
	if len(teams) == 0 {
		_, err := fmt.Fprintln(c.out, "No teams configured.")
		return err
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("ID", "Name", "Feature WIP", "History", "Total", "Avg/day", "Fat tail")
	for _, t := range teams {
		wip := fmt.Sprintf("%d", t.FeatureWIP)
		if t.AutomaticallyAdjustFeatureWIP {
			wip += " (auto)"
		}
		if err := table.Append(
			t.ID,
			t.Name,
			wip,
			fmt.Sprintf("%dd", t.Throughput.History),
			fmt.Sprintf("%d", t.Throughput.Total),
			fmt.Sprintf("%.2f", t.Throughput.Average),
			fmt.Sprintf("%.1f", t.Throughput.FatTail),
		); err != nil {
			return err
		}
	}
	return table.Render()
}

func (c *Console) When(r WhenReport) error {
	fmt.Fprintf(c.out, "\n%s: %d items remaining (%d trials)\n", r.Team, r.RemainingItems, r.Trials)

	if err := c.percentiles(r.Percentiles); err != nil {
		return err
	}
	if r.Likelihood != nil {
		fmt.Fprintf(c.out, "  Likelihood to finish by %s: %.1f%%\n", r.TargetDate, *r.Likelihood)
	}
	return nil
}

func (c *Console) HowMany(r HowManyReport) error {
	fmt.Fprintf(c.out, "\n%s: items done in the next %d days (%d trials)\n", r.Team, r.Days, r.Trials)

	table := tablewriter.NewWriter(c.out)
	table.Header("Confidence", "Items (at least)")
	for _, v := range r.Confidence {
		if err := table.Append(fmt.Sprintf("%.0f%%", v.Percentile), fmt.Sprintf("%d", v.Value)); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "  Predictability score: %.2f\n", r.PredictabilityScore)
	return nil
}

func (c *Console) Features(r FeaturesReport) error {
	if len(r.Features) == 0 {
		_, err := fmt.Fprintln(c.out, "No features to forecast.")
		return err
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Feature", "Remaining", "50%", "70%", "85%", "95%", "Teams")
	for _, f := range r.Features {
		row := []any{f.Name, fmt.Sprintf("%d", f.RemainingItems)}
		for _, col := range dateColumns(f.Percentiles, f.NoForecast) {
			row = append(row, col)
		}
		row = append(row, teamList(f.Teams))
		if err := table.Append(row...); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(r.SkippedTeams) > 0 {
		fmt.Fprintf(c.out, "  Skipped (no throughput): %s\n", strings.Join(r.SkippedTeams, ", "))
	}
	for _, e := range r.Errors {
		fmt.Fprintf(c.out, "  Error: %s\n", e)
	}
	return nil
}

func (c *Console) percentiles(rows []PercentileRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(c.out, "  No forecast available.")
		return err
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Confidence", "Days", "Date")
	for _, r := range rows {
		if err := table.Append(fmt.Sprintf("%.0f%%", r.Percentile), fmt.Sprintf("%d", r.Days), r.Date); err != nil {
			return err
		}
	}
	return table.Render()
}

// dateColumns lays out the default percentiles as dates, one column each.
func dateColumns(rows []PercentileRow, noForecast bool) []string {
	cols := []string{"-", "-", "-", "-"}
	if noForecast {
		return cols
	}
	for _, r := range rows {
		switch r.Percentile {
		case 50:
			cols[0] = r.Date
		case 70:
			cols[1] = r.Date
		case 85:
			cols[2] = r.Date
		case 95:
			cols[3] = r.Date
		}
	}
	return cols
}

func teamList(shares []TeamShare) string {
	ids := make([]string, 0, len(shares))
	for _, s := range shares {
		if s.Skipped {
			ids = append(ids, s.TeamID+"*")
			continue
		}
		ids = append(ids, s.TeamID)
	}
	return strings.Join(ids, ", ")
}
