package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/samplesize/pkg/grid"
	"github.com/matzehuels/samplesize/pkg/pipeline"
)

// gridOpts holds the command-line flags for the grid command.
type gridOpts struct {
	width  float64 // area width in pixels (0 uses the config)
	height float64 // area height in pixels (0 uses the config)
	json   bool    // print the layout as JSON
	draw   bool    // draw the dot matrix in the terminal
}

// gridCommand creates the grid command, which packs two group sizes into a
// dot-matrix layout without running a calculation.
func (c *CLI) gridCommand() *cobra.Command {
	var opts gridOpts

	cmd := &cobra.Command{
		Use:   "grid <n1> <n2>",
		Short: "Choose the dot size and scale for two group sizes",
		Long: `Choose the dot size and scale for two group sizes.

The largest preset cell (20px down to 3px) whose grid holds the larger group
is used. When even 3px cells do not fit, one dot stands for several
participants.

Examples:
  samplesize grid 142 142
  samplesize grid 5000 2500 --width 300 --height 200 --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n1, err := parseCount(args[0])
			if err != nil {
				return err
			}
			n2, err := parseCount(args[1])
			if err != nil {
				return err
			}
			width, height := c.gridArea(opts.width, opts.height)

			runner := pipeline.NewRunner(nil, nil, c.Logger)
			layout := runner.Pack(cmd.Context(), n1, n2, width, height)

			w := cmd.OutOrStdout()
			if opts.json {
				return writeJSON(w, layout)
			}
			printLayout(w, layout, width, height)
			if opts.draw {
				printNewline(w)
				groups := []series{{Label: "group 1", N: n1}, {Label: "group 2", N: n2}}
				fmt.Fprintln(w, renderDots(terminalLayout(n1, n2, defaultPanelCols, defaultPanelRows), groups))
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&opts.width, "width", 0, "area width in pixels (default from config)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "area height in pixels (default from config)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the layout as JSON")
	cmd.Flags().BoolVar(&opts.draw, "draw", false, "draw the dot matrix in the terminal")

	return cmd
}

// printLayout prints the fields of a layout.
func printLayout(w io.Writer, l grid.Layout, width, height float64) {
	printKeyValue(w, "Area", fmt.Sprintf("%g × %g px", width, height))
	printKeyValue(w, "Cell size", fmt.Sprintf("%d px", l.CellSize))
	printKeyValue(w, "Grid", fmt.Sprintf("%d × %d (%d cells)", l.Columns, l.Rows, l.Capacity()))
	printKeyValue(w, "Scale", legend(l))
	printKeyValue(w, "Dots", fmt.Sprintf("%d, %d", l.ScaledN1, l.ScaledN2))
}

// parseCount parses a non-negative participant count.
func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid count %q: must be a non-negative integer", s)
	}
	return n, nil
}
