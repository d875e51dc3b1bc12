package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/matzehuels/samplesize/pkg/design"
	"github.com/matzehuels/samplesize/pkg/estimate"
	"github.com/matzehuels/samplesize/pkg/grid"
)

const (
	dotFilled = "●"
	dotEmpty  = "·"
)

// Terminal panel defaults, in characters. Each dot takes two columns.
const (
	defaultPanelCols = 48
	defaultPanelRows = 12
)

var methodNames = map[string]string{
	estimate.MethodKelsey:   "Kelsey",
	estimate.MethodFleiss:   "Fleiss",
	estimate.MethodFleissCC: "Fleiss (CC)",
}

// series is one labelled group drawn as a panel.
type series struct {
	Label string
	N     int
}

// seriesOf returns the groups of r in display order. Prevalence yields a
// single series.
func seriesOf(r *design.Result) []series {
	if r.Groups == nil {
		return []series{{Label: "participants", N: r.Primary}}
	}
	return []series{
		{Label: r.Groups.Label1, N: r.Groups.N1},
		{Label: r.Groups.Label2, N: r.Groups.N2},
	}
}

// terminalLayout packs n1 and n2 into a panel of cols × rows characters.
// The smallest preset cell maps to one dot, so a scale factor appears only
// once the panel is full at that density.
func terminalLayout(n1, n2, cols, rows int) grid.Layout {
	w := float64(cols/2) * grid.MinCellSize
	h := float64(rows) * grid.MinCellSize
	return grid.Pack(n1, n2, w, h)
}

// renderMethods renders the Kelsey, Fleiss and Fleiss-CC rows of a
// comparative result. It returns "" for designs without method estimates.
func renderMethods(r *design.Result) string {
	if r.Methods == nil || r.Groups == nil {
		return ""
	}
	var rows [][]string
	r.Methods.Each(func(name string, e estimate.GroupEstimate) {
		// Groups.N1 is the ratio-scaled group, estimator n2.
		rows = append(rows, []string{
			methodNames[name],
			humanize.Comma(int64(e.N2)),
			humanize.Comma(int64(e.N1)),
			humanize.Comma(int64(e.Total)),
		})
	})

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("Method", r.Groups.Label1, r.Groups.Label2, "Total").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col > 0 {
				base = base.Align(lipgloss.Right)
			}
			if row == 0 {
				return base.Foreground(colorCyan).Bold(true)
			}
			return base.Foreground(colorGray)
		})
	return t.Render()
}

// renderDots draws each series as a panel of Layout.Columns dots per row,
// side by side, followed by a legend.
func renderDots(layout grid.Layout, groups []series) string {
	if layout.Columns <= 0 {
		return ""
	}
	scaled := []int{layout.ScaledN1, layout.ScaledN2}
	styles := []lipgloss.Style{styleGroup1, styleGroup2}

	need := 0
	for i := range groups {
		need = max(need, scaled[i])
	}
	rows := min(max((need+layout.Columns-1)/layout.Columns, 1), max(layout.Rows, 1))

	panels := make([]string, 0, len(groups))
	for i, g := range groups {
		var b strings.Builder
		b.WriteString(styles[i].Bold(true).Render(fmt.Sprintf("%s (%s)", g.Label, humanize.Comma(int64(g.N)))))
		b.WriteString("\n")
		for row := 0; row < rows; row++ {
			for col := 0; col < layout.Columns; col++ {
				if row*layout.Columns+col < scaled[i] {
					b.WriteString(styles[i].Render(dotFilled))
				} else {
					b.WriteString(StyleDim.Render(dotEmpty))
				}
				if col < layout.Columns-1 {
					b.WriteString(" ")
				}
			}
			if row < rows-1 {
				b.WriteString("\n")
			}
		}
		panels = append(panels, b.String())
	}

	var out strings.Builder
	if len(panels) == 1 {
		out.WriteString(panels[0])
	} else {
		out.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panels[0], "   ", panels[1]))
	}
	out.WriteString("\n")
	out.WriteString(StyleDim.Render(legend(layout)))
	return out.String()
}

// legend explains how many participants one dot stands for.
func legend(l grid.Layout) string {
	if l.Scaled() {
		return fmt.Sprintf("%s = %s participants", dotFilled, humanize.Comma(int64(l.Scale)))
	}
	return dotFilled + " = 1 participant"
}
