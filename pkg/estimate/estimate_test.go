package estimate

import (
	"testing"

	errs "github.com/matzehuels/samplesize/pkg/errors"
	"github.com/matzehuels/samplesize/pkg/zscore"
)

var z95x80 = zscore.For(95, 80)

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want Methods
	}{
		{
			name: "case-control OR 2 at 30% exposure",
			in:   Input{P1: 0.6 / 1.3, P2: 0.3, Ratio: 1, Z: z95x80},
			want: Methods{
				Kelsey:   GroupEstimate{N1: 142, N2: 142, Total: 284},
				Fleiss:   GroupEstimate{N1: 141, N2: 141, Total: 282},
				FleissCC: GroupEstimate{N1: 153, N2: 153, Total: 306},
			},
		},
		{
			name: "ratio 2 doubles the paired group",
			in:   Input{P1: 0.6 / 1.3, P2: 0.3, Ratio: 2, Z: z95x80},
			want: Methods{
				Kelsey:   GroupEstimate{N1: 104, N2: 208, Total: 312},
				Fleiss:   GroupEstimate{N1: 105, N2: 210, Total: 315},
				FleissCC: GroupEstimate{N1: 114, N2: 228, Total: 342},
			},
		},
		{
			name: "dropout applied to n1 before ratio",
			in:   Input{P1: 0.6 / 1.3, P2: 0.3, Ratio: 1, Z: z95x80, Dropout: true},
			want: Methods{
				Kelsey:   GroupEstimate{N1: 158, N2: 158, Total: 316},
				Fleiss:   GroupEstimate{N1: 157, N2: 157, Total: 314},
				FleissCC: GroupEstimate{N1: 170, N2: 170, Total: 340},
			},
		},
		{
			name: "incidence 20% vs 10%",
			in:   Input{P1: 0.2, P2: 0.1, Ratio: 1, Z: z95x80},
			want: Methods{
				Kelsey:   GroupEstimate{N1: 201, N2: 201, Total: 402},
				Fleiss:   GroupEstimate{N1: 200, N2: 200, Total: 400},
				FleissCC: GroupEstimate{N1: 219, N2: 219, Total: 438},
			},
		},
		{
			name: "stricter confidence and power",
			in:   Input{P1: 0.2, P2: 0.1, Ratio: 1, Z: zscore.For(99, 90)},
			want: Methods{
				Kelsey:   GroupEstimate{N1: 380, N2: 380, Total: 760},
				Fleiss:   GroupEstimate{N1: 378, N2: 378, Total: 756},
				FleissCC: GroupEstimate{N1: 397, N2: 397, Total: 794},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare(tt.in)
			if err != nil {
				t.Fatalf("Compare() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Compare() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCompareErrors(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want errs.Code
	}{
		{"equal proportions", Input{P1: 0.5, P2: 0.5, Ratio: 1, Z: z95x80}, errs.ErrCodeEqualProportions},
		{"zero ratio", Input{P1: 0.2, P2: 0.1, Ratio: 0, Z: z95x80}, errs.ErrCodeInvalidRatio},
		{"negative ratio", Input{P1: 0.2, P2: 0.1, Ratio: -1, Z: z95x80}, errs.ErrCodeInvalidRatio},
		{"p1 zero", Input{P1: 0, P2: 0.1, Ratio: 1, Z: z95x80}, errs.ErrCodeInvalidInput},
		{"p2 one", Input{P1: 0.2, P2: 1, Ratio: 1, Z: z95x80}, errs.ErrCodeInvalidInput},
		{"difference too small to count", Input{P1: 1.002e-14, P2: 1e-14, Ratio: 1, Z: z95x80}, errs.ErrCodeInfiniteSampleSize},
		{"ratio overflows paired group", Input{P1: 0.2, P2: 0.1, Ratio: 1e9, Z: z95x80}, errs.ErrCodeInfiniteSampleSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compare(tt.in)
			if !errs.Is(err, tt.want) {
				t.Errorf("Compare() error = %v, want code %s", err, tt.want)
			}
		})
	}
}

func TestCompareTotals(t *testing.T) {
	ratios := []float64{0.25, 0.5, 1, 1.5, 2, 3}
	props := []float64{0.05, 0.1, 0.3, 0.5, 0.7, 0.95}

	for _, r := range ratios {
		for _, p1 := range props {
			for _, p2 := range props {
				if p1 == p2 {
					continue
				}
				m, err := Compare(Input{P1: p1, P2: p2, Ratio: r, Z: z95x80, Dropout: true})
				if err != nil {
					t.Fatalf("Compare(%v, %v, %v) error = %v", p1, p2, r, err)
				}
				m.Each(func(name string, e GroupEstimate) {
					if e.N1 <= 0 || e.N2 <= 0 {
						t.Errorf("%s(%v, %v, %v) non-positive group: %+v", name, p1, p2, r, e)
					}
					if e.Total != e.N1+e.N2 {
						t.Errorf("%s(%v, %v, %v) total %d != %d+%d", name, p1, p2, r, e.Total, e.N1, e.N2)
					}
				})
			}
		}
	}
}

func TestCompareDeterministic(t *testing.T) {
	in := Input{P1: 0.37, P2: 0.21, Ratio: 1.7, Z: zscore.For(98, 93), Dropout: true}
	a, errA := Compare(in)
	b, errB := Compare(in)
	if errA != nil || errB != nil {
		t.Fatalf("unexpected errors: %v, %v", errA, errB)
	}
	if a != b {
		t.Errorf("Compare() not deterministic: %+v vs %+v", a, b)
	}
}

func TestContinuityCorrectionNotSmaller(t *testing.T) {
	m, err := Compare(Input{P1: 0.25, P2: 0.15, Ratio: 1, Z: z95x80})
	if err != nil {
		t.Fatal(err)
	}
	if m.FleissCC.N1 < m.Fleiss.N1 {
		t.Errorf("Fleiss-CC n1 %d < Fleiss n1 %d", m.FleissCC.N1, m.Fleiss.N1)
	}
}

func TestMethodsEachOrder(t *testing.T) {
	var names []string
	Methods{}.Each(func(name string, _ GroupEstimate) { names = append(names, name) })
	want := []string{MethodKelsey, MethodFleiss, MethodFleissCC}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Each order[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}
