package cli

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/samplesize/pkg/config"
	"github.com/matzehuels/samplesize/pkg/design"
	errs "github.com/matzehuels/samplesize/pkg/errors"
	"github.com/matzehuels/samplesize/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	tabActiveStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true)
)

// Terminal lines used above the chart by the header, fields and results.
const tuiChrome = 24

// interactiveCommand creates the interactive calculator command.
func (c *CLI) interactiveCommand() *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"tui"},
		Short:   "Adjust inputs with the keyboard and watch the sample size update",
		Long: `Adjust inputs with the keyboard and watch the sample size update.

Keys:
  tab, shift+tab   switch design
  ↑/↓              select an input
  ←/→              decrease or increase it by one step
  d                toggle 10% dropout inflation
  f                toggle the finite population correction (prevalence)
  r                reset the design to its defaults
  q                quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d := design.Prevalence
			if start != "" {
				parsed, err := design.Parse(start)
				if err != nil {
					return err
				}
				d = parsed
			}

			runner, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			m := NewCalculatorModel(withLogger(ctx, c.Logger), runner, c.Config, d)
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&start, "design", "d", "", "design to start with")
	_ = cmd.RegisterFlagCompletionFunc("design", completeDesigns)

	return cmd
}

// =============================================================================
// CalculatorModel - Interactive calculator
// =============================================================================

// CalculatorModel is the bubbletea model for the interactive calculator.
// Each design keeps its own inputs while the user switches between them.
type CalculatorModel struct {
	ctx    context.Context
	runner *pipeline.Runner

	Design int
	Cursor int
	Params map[design.Design]design.Params

	Width  int
	Height int

	Outcome *pipeline.Outcome
	Err     error
}

// NewCalculatorModel creates a calculator starting on design d, with every
// design seeded from its defaults and the configured confidence, power and
// dropout.
func NewCalculatorModel(ctx context.Context, runner *pipeline.Runner, cfg *config.Config, d design.Design) CalculatorModel {
	m := CalculatorModel{
		ctx:    ctx,
		runner: runner,
		Params: make(map[design.Design]design.Params, len(design.All)),
		Width:  100,
		Height: 40,
	}
	for i, dd := range design.All {
		p := design.DefaultParams(dd)
		if cfg != nil {
			cfg.ApplyDefaults(&p)
		}
		m.Params[dd] = p
		if dd == d {
			m.Design = i
		}
	}
	m.recalculate()
	return m
}

func (m CalculatorModel) Init() tea.Cmd {
	return nil
}

func (m CalculatorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		fields := design.Fields(m.current())
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.Design = (m.Design + 1) % len(design.All)
			m.Cursor = 0
		case "shift+tab":
			m.Design = (m.Design + len(design.All) - 1) % len(design.All)
			m.Cursor = 0
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
			return m, nil
		case "down", "j":
			if m.Cursor < len(fields)-1 {
				m.Cursor++
			}
			return m, nil
		case "left", "h":
			m.step(fields[m.Cursor], -1)
		case "right", "l":
			m.step(fields[m.Cursor], 1)
		case "d":
			p := m.params()
			p.Dropout = !p.Dropout
			m.setParams(p)
		case "f":
			if m.current() != design.Prevalence {
				return m, nil
			}
			p := m.params()
			p.FPC = !p.FPC
			m.setParams(p)
		case "r":
			p := design.DefaultParams(m.current())
			old := m.params()
			p.Confidence, p.Power, p.Dropout = old.Confidence, old.Power, old.Dropout
			m.setParams(p)
		default:
			return m, nil
		}
		m.recalculate()
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
	}
	return m, nil
}

func (m CalculatorModel) View() string {
	var b strings.Builder
	d := m.current()
	p := m.params()

	b.WriteString(StyleTitle.Render("Sample size calculator"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("tab design  ↑/↓ input  ←/→ adjust  d dropout  f fpc  r reset  q quit"))
	b.WriteString("\n\n")

	tabs := make([]string, len(design.All))
	for i, dd := range design.All {
		if i == m.Design {
			tabs[i] = tabActiveStyle.Render(string(dd))
		} else {
			tabs[i] = listDimStyle.Render(string(dd))
		}
	}
	b.WriteString(strings.Join(tabs, "  "))
	b.WriteString("\n\n")

	for i, f := range design.Fields(d) {
		v, _ := p.Get(f.Key)
		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		line := fmt.Sprintf("%s%-32s %s", cursor, f.Label, formatValue(v, f))
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  dropout %s", onOff(p.Dropout))))
	if d == design.Prevalence {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("   fpc %s", onOff(p.FPC))))
	}
	b.WriteString("\n\n")

	if m.Err != nil {
		b.WriteString(StyleError.Render(fmt.Sprintf("%s %s", iconError, errs.UserMessage(m.Err))))
		if code := errs.GetCode(m.Err); code != "" {
			b.WriteString(listDimStyle.Render(" " + string(code)))
		}
		b.WriteString("\n")
		return b.String()
	}
	if m.Outcome == nil {
		return b.String()
	}

	r := m.Outcome.Result
	b.WriteString("Sample size " + StyleNumber.Render(humanize.Comma(int64(r.Primary))))
	b.WriteString("\n")
	if table := renderMethods(r); table != "" {
		b.WriteString(table)
		b.WriteString("\n")
	}

	n1, n2 := r.Counts()
	groups := seriesOf(r)
	cols, rows := m.panelSize(len(groups))
	b.WriteString(renderDots(terminalLayout(n1, n2, cols, rows), groups))
	b.WriteString("\n")
	return b.String()
}

// current returns the selected design.
func (m CalculatorModel) current() design.Design {
	return design.All[m.Design]
}

func (m CalculatorModel) params() design.Params {
	return m.Params[m.current()]
}

// setParams replaces the inputs of the selected design. The map is copied so
// earlier model values stay unchanged.
func (m *CalculatorModel) setParams(p design.Params) {
	next := make(map[design.Design]design.Params, len(m.Params))
	for k, v := range m.Params {
		next[k] = v
	}
	next[m.current()] = p
	m.Params = next
}

// step moves field f by dir steps, clamped to its range.
func (m *CalculatorModel) step(f design.Field, dir float64) {
	p := m.params()
	v, err := p.Get(f.Key)
	if err != nil {
		return
	}
	v = f.Clamp(roundToStep(v+dir*f.Step, f.Step))
	if err := p.Set(f.Key, v); err != nil {
		return
	}
	m.setParams(p)
}

// recalculate runs the selected design through the runner.
func (m *CalculatorModel) recalculate() {
	out, err := m.runner.Run(m.ctx, pipeline.Request{Design: m.current(), Params: m.params()})
	m.Outcome, m.Err = out, err
}

// panelSize returns the character size of one chart panel for the current
// terminal.
func (m CalculatorModel) panelSize(panels int) (cols, rows int) {
	cols = (m.Width - 3*(panels-1)) / panels
	rows = m.Height - tuiChrome
	return max(cols, 8), max(rows, 3)
}

// roundToStep rounds v to the number of decimals in step.
func roundToStep(v, step float64) float64 {
	scale := math.Pow(10, float64(decimals(step)))
	return math.Round(v*scale) / scale
}

func decimals(step float64) int {
	s := strconv.FormatFloat(step, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

// formatValue renders v with its unit, e.g. "30%" or "1,000".
func formatValue(v float64, f design.Field) string {
	s := humanize.Commaf(roundToStep(v, f.Step))
	if f.Unit != "" {
		s += f.Unit
	}
	return s
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
