package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/samplesize/pkg/design"
)

// designsCommand lists the supported designs and their input fields.
func (c *CLI) designsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "designs [design]",
		Short: "List study designs and their inputs",
		Args:  cobra.MaximumNArgs(1),
		ValidArgsFunction: completeDesigns,
		RunE: func(cmd *cobra.Command, args []string) error {
			designs := design.All
			if len(args) == 1 {
				d, err := design.Parse(args[0])
				if err != nil {
					return err
				}
				designs = []design.Design{d}
			}

			w := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(w, catalogue(designs))
			}
			for i, d := range designs {
				if i > 0 {
					printNewline(w)
				}
				printDesign(w, d)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the catalogue as JSON")

	return cmd
}

// designEntry is the JSON form of one design in the catalogue.
type designEntry struct {
	Design design.Design  `json:"design"`
	Title  string         `json:"title"`
	Fields []design.Field `json:"fields"`
}

func catalogue(designs []design.Design) []designEntry {
	out := make([]designEntry, len(designs))
	for i, d := range designs {
		out[i] = designEntry{Design: d, Title: d.Title(), Fields: design.Fields(d)}
	}
	return out
}

// printDesign prints a design's title and its field table.
func printDesign(w io.Writer, d design.Design) {
	fmt.Fprintln(w, StyleTitle.Render(d.Title())+" "+StyleDim.Render(string(d)))

	var rows [][]string
	for _, f := range design.Fields(d) {
		rows = append(rows, []string{
			"--" + flagName(f.Key),
			f.Label,
			f.Unit,
			fmt.Sprintf("%g – %g", f.Min, f.Max),
			fmt.Sprintf("%g", f.Default),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("Flag", "Input", "Unit", "Range", "Default").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == -1:
				return styleHeader.Padding(0, 1)
			case col == 0:
				return base.Foreground(colorCyan)
			case col >= 3:
				return base.Foreground(colorGray).Align(lipgloss.Right)
			}
			return base
		})
	fmt.Fprintln(w, t.Render())
}
