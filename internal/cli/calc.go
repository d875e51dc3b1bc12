package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/samplesize/pkg/design"
	"github.com/matzehuels/samplesize/pkg/pipeline"
)

// calcOpts holds the command-line flags shared by every calc subcommand.
type calcOpts struct {
	json    bool    // print the outcome as JSON
	chart   bool    // draw the dot-matrix chart
	width   float64 // grid area width in pixels (0 uses the config)
	height  float64 // grid area height in pixels (0 uses the config)
	refresh bool    // bypass the cache
}

// calcCommand creates the calc command with one subcommand per design.
func (c *CLI) calcCommand() *cobra.Command {
	opts := calcOpts{chart: true}

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate the sample size for a study design",
		Long: `Calculate the sample size for a study design.

Every input has a flag; omitted inputs use the design's defaults, and
confidence, power and dropout default to the [defaults] section of the config.

Examples:
  samplesize calc prevalence --prevalence 20 --precision 5
  samplesize calc case-control --control-exposure 30 --odds-ratio 2 --ratio 2
  samplesize calc rct --proportion1 50 --proportion2 30 --dropout
  samplesize calc two-means --mean1 10 --mean2 12 --sd1 2 --sd2 2 --json`,
	}

	cmd.PersistentFlags().BoolVar(&opts.json, "json", false, "print the outcome as JSON")
	cmd.PersistentFlags().BoolVar(&opts.chart, "chart", opts.chart, "draw the dot-matrix chart")
	cmd.PersistentFlags().Float64Var(&opts.width, "width", 0, "grid area width in pixels for the JSON layout (default from config)")
	cmd.PersistentFlags().Float64Var(&opts.height, "height", 0, "grid area height in pixels for the JSON layout (default from config)")
	cmd.PersistentFlags().BoolVar(&opts.refresh, "refresh", false, "bypass the cache")

	for _, d := range design.All {
		cmd.AddCommand(c.designCalcCommand(d, &opts))
	}

	return cmd
}

// designCalcCommand creates "calc <design>" with one flag per input field.
func (c *CLI) designCalcCommand(d design.Design, opts *calcOpts) *cobra.Command {
	fields := design.Fields(d)
	values := make(map[string]*float64, len(fields))
	var dropout, fpc bool

	cmd := &cobra.Command{
		Use:   string(d),
		Short: fmt.Sprintf("%s sample size", d.Title()),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := design.DefaultParams(d)
			c.Config.ApplyDefaults(&params)
			for _, f := range fields {
				if cmd.Flags().Changed(flagName(f.Key)) {
					if err := params.Set(f.Key, *values[f.Key]); err != nil {
						return err
					}
				}
			}
			if cmd.Flags().Changed("dropout") {
				params.Dropout = dropout
			}
			params.FPC = fpc

			return c.runCalc(cmd.Context(), cmd.OutOrStdout(), d, params, opts)
		},
	}

	for _, f := range fields {
		values[f.Key] = cmd.Flags().Float64(flagName(f.Key), f.Default, fieldUsage(f))
	}
	cmd.Flags().BoolVar(&dropout, "dropout", false, "inflate for 10% non-response (default from config)")
	if d == design.Prevalence {
		cmd.Flags().BoolVar(&fpc, "fpc", false, "apply the finite population correction")
	}

	return cmd
}

// runCalc runs one calculation and prints it.
func (c *CLI) runCalc(ctx context.Context, w io.Writer, d design.Design, params design.Params, opts *calcOpts) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	req := pipeline.Request{Design: d, Params: params, Refresh: opts.refresh}
	if opts.json {
		req.Width, req.Height = c.gridArea(opts.width, opts.height)
	}

	out, err := runner.Run(withLogger(ctx, c.Logger), req)
	if err != nil {
		return err
	}

	if opts.json {
		return writeJSON(w, out)
	}
	printOutcome(w, out, opts.chart)
	return nil
}

// printOutcome prints the headline, summary, method table and chart.
func printOutcome(w io.Writer, out *pipeline.Outcome, chart bool) {
	r := out.Result
	fmt.Fprintln(w, StyleTitle.Render(r.Design.Title()))
	printNewline(w)
	printKeyValue(w, "Sample size", StyleNumber.Render(fmt.Sprintf("%d", r.Primary)))
	if r.Groups != nil {
		printKeyValue(w, r.Groups.Label1, fmt.Sprintf("%d", r.Groups.N1))
		printKeyValue(w, r.Groups.Label2, fmt.Sprintf("%d", r.Groups.N2))
	}
	if r.Z != nil {
		printKeyValue(w, "Z (α, β)", fmt.Sprintf("%.4f, %.4f", r.Z.Alpha, r.Z.Beta))
	}
	printStats(w, out.CacheHit, out.Stats.Total)
	printNewline(w)
	printDetail(w, "%s", r.Summary)

	if table := renderMethods(r); table != "" {
		printNewline(w)
		fmt.Fprintln(w, table)
	}

	if chart {
		n1, n2 := r.Counts()
		printNewline(w)
		fmt.Fprintln(w, renderDots(terminalLayout(n1, n2, defaultPanelCols, defaultPanelRows), seriesOf(r)))
	}

	printNewline(w)
	printNextStep(w, "Explore these inputs", appName+" interactive --design "+string(r.Design))
}

// gridArea returns width and height, filling zero values from the config.
func (c *CLI) gridArea(width, height float64) (float64, float64) {
	if width <= 0 {
		width = c.Config.Grid.Width
	}
	if height <= 0 {
		height = c.Config.Grid.Height
	}
	return width, height
}

// flagName converts a field key to its flag name (control_exposure → control-exposure).
func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// fieldUsage describes a field's label, unit and range for --help.
func fieldUsage(f design.Field) string {
	unit := ""
	if f.Unit != "" {
		unit = " (" + f.Unit + ")"
	}
	return fmt.Sprintf("%s%s, %g to %g", strings.ToLower(f.Label), unit, f.Min, f.Max)
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
