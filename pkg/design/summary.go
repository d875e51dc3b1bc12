package design

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// summarize renders the one-paragraph description stored in Result.Summary.
func summarize(r *Result, p Params) string {
	var b strings.Builder
	switch r.Design {
	case Prevalence:
		fmt.Fprintf(&b, "A total of %s participants is required to estimate a prevalence of %.1f%% within ±%.1f%%.",
			count(r.Primary), p.Prevalence, p.Precision)
		if p.FPC && p.Population > 0 {
			fmt.Fprintf(&b, " Adjusted for a finite population of %s.", count(p.Population))
		}
	case TwoMeans:
		fmt.Fprintf(&b, "A total of %s participants (%s) is required to detect a difference in means of %s (%s vs %s) %s.",
			count(r.Primary), breakdown(r.Groups), num(abs(p.Mean1-p.Mean2)), num(p.Mean1), num(p.Mean2), targets(p))
	default:
		fmt.Fprintf(&b, "A total of %s participants (%s) is required to detect %s %s (Kelsey).",
			count(r.Primary), breakdown(r.Groups), effect(r, p), targets(p))
		if r.Methods != nil {
			fmt.Fprintf(&b, " Fleiss: %s; Fleiss with continuity correction: %s.",
				count(r.Methods.Fleiss.Total), count(r.Methods.FleissCC.Total))
		}
	}
	if p.Dropout {
		b.WriteString(" Inflated by 10% to allow for non-response.")
	}
	return b.String()
}

func effect(r *Result, p Params) string {
	switch r.Design {
	case CaseControl:
		return fmt.Sprintf("an odds ratio of %s (exposure %s%% among controls, %s%% among cases)",
			num(p.OddsRatio), num(p.ControlExposure), num1(r.CaseExposure*100))
	case Cohort:
		return fmt.Sprintf("incidences of %s%% among exposed vs %s%% among unexposed (risk ratio %s)",
			num(p.ExposedRisk), num(p.UnexposedRisk), num2(p.ExposedRisk/p.UnexposedRisk))
	default:
		return fmt.Sprintf("outcome proportions of %s%% in group 1 vs %s%% in group 2",
			num(p.Proportion1), num(p.Proportion2))
	}
}

func targets(p Params) string {
	return fmt.Sprintf("with %d%% power at %d%% confidence", p.Power, p.Confidence)
}

func breakdown(g *GroupCounts) string {
	if g == nil {
		return ""
	}
	return fmt.Sprintf("%s %s, %s %s", count(g.N1), g.Label1, count(g.N2), g.Label2)
}

func count(n int) string { return humanize.Comma(int64(n)) }

func num(v float64) string { return humanize.Ftoa(v) }

func num1(v float64) string { return humanize.FtoaWithDigits(v, 1) }

func num2(v float64) string { return humanize.FtoaWithDigits(v, 2) }

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
