package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/samplesize/pkg/io"
	"github.com/matzehuels/samplesize/pkg/pipeline"
)

// batchOpts holds the command-line flags for the batch command.
type batchOpts struct {
	json    bool   // print the report as JSON
	output  string // write the JSON report to this file
	grid    bool   // pack each result into the configured grid area
	refresh bool   // bypass the cache
}

// batchCommand creates the batch command, which runs every scenario in a
// YAML, TOML or JSON file.
func (c *CLI) batchCommand() *cobra.Command {
	var opts batchOpts

	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Run every scenario in a YAML, TOML or JSON file",
		Long: `Run every scenario in a YAML, TOML or JSON file.

A scenario names a design and its inputs; omitted inputs use the design's
defaults. A scenario that fails is reported with its error code and the rest
still run.

Example scenarios.yaml:
  scenarios:
    - name: baseline
      design: case-control
      params:
        control_exposure: 30
        odds_ratio: 2
    - name: two controls per case
      design: case-control
      params:
        control_exposure: 30
        odds_ratio: 2
        ratio: 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBatch(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print the report as JSON")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the JSON report to a file")
	cmd.Flags().BoolVar(&opts.grid, "grid", false, "include the grid layout for the configured area")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the cache")

	return cmd
}

// runBatch loads path, runs each scenario and prints or exports the report.
// Only file and cache errors are returned; scenario failures are recorded in
// the report.
func (c *CLI) runBatch(ctx context.Context, w io.Writer, path string, opts batchOpts) error {
	scenarios, err := pkgio.ImportScenarios(path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	ctx = withLogger(ctx, c.Logger)
	prog := newProgress(c.Logger)
	width, height := c.batchArea(opts)
	report := runScenarios(ctx, runner, scenarios, width, height, opts.refresh)
	c.Logger.Debug("batch", "run", report.RunID, "scenarios", len(report.Results), "failed", report.Failed())

	if opts.output != "" {
		if err := pkgio.ExportResults(report, opts.output); err != nil {
			return err
		}
	}
	if opts.json {
		return pkgio.WriteResults(w, report)
	}

	printReport(w, report)
	if opts.output != "" {
		printFile(w, opts.output)
	}
	prog.done(fmt.Sprintf("Calculated %s", pluralize(len(report.Results), "scenario")))
	return nil
}

// batchArea returns the grid area for a batch run, or zeros when --grid is off.
func (c *CLI) batchArea(opts batchOpts) (width, height float64) {
	if !opts.grid {
		return 0, 0
	}
	return c.gridArea(0, 0)
}

// runScenarios runs each scenario in order under a fresh run ID.
func runScenarios(ctx context.Context, runner *pipeline.Runner, scenarios []pkgio.Scenario, width, height float64, refresh bool) pkgio.Report {
	logger := loggerFromContext(ctx)
	report := pkgio.Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Results:     make([]pkgio.ScenarioResult, 0, len(scenarios)),
	}
	for _, sc := range scenarios {
		res := pkgio.ScenarioResult{Scenario: sc}
		out, err := runner.Run(ctx, pipeline.Request{
			Design:  sc.Design,
			Params:  sc.Params,
			Width:   width,
			Height:  height,
			Refresh: refresh,
		})
		if err != nil {
			res.Error = pkgio.NewErrorInfo(err)
			logger.Debug("scenario failed", "name", sc.Name, "code", res.Error.Code, "field", res.Error.Field)
		} else {
			res.Result = out.Result
			res.Grid = out.Grid
			res.CacheHit = out.CacheHit
		}
		report.Results = append(report.Results, res)
	}
	return report
}

// printReport prints one table row per scenario and a failure count.
func printReport(w io.Writer, report pkgio.Report) {
	rows := make([][]string, 0, len(report.Results))
	for _, res := range report.Results {
		row := []string{res.Name, string(res.Design), "", "", ""}
		switch {
		case res.Error != nil:
			row[4] = string(res.Error.Code) + ": " + res.Error.Message
		default:
			row[2] = humanize.Comma(int64(res.Result.Primary))
			if g := res.Result.Groups; g != nil {
				row[3] = fmt.Sprintf("%s %s / %s %s",
					humanize.Comma(int64(g.N1)), g.Label1, humanize.Comma(int64(g.N2)), g.Label2)
			}
			if res.CacheHit {
				row[4] = iconCached
			}
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("Scenario", "Design", "Total", "Groups", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			if row < len(report.Results) && report.Results[row].Error != nil {
				return base.Foreground(colorRed)
			}
			switch col {
			case 2:
				return base.Foreground(colorCyan).Bold(true).Align(lipgloss.Right)
			case 3, 4:
				return base.Foreground(colorGray)
			}
			return base
		})
	fmt.Fprintln(w, t.Render())

	if failed := report.Failed(); failed > 0 {
		printWarning(w, "%s failed", pluralize(failed, "scenario"))
	} else {
		printSuccess(w, "All %s calculated", pluralize(len(report.Results), "scenario"))
	}
	printDetail(w, "Run %s", report.RunID)
}

// pluralize returns "1 scenario" or "3 scenarios".
func pluralize(n int, noun string) string {
	return humanize.Comma(int64(n)) + " " + english.PluralWord(n, noun, "")
}
