package zscore

import "testing"

func TestBeta(t *testing.T) {
	tests := []struct {
		power int
		want  float64
	}{
		{80, 0.842},
		{85, 1.036},
		{90, 1.282},
		{95, 1.645},
		{99, 2.326},
		{79, DefaultBeta}, // below table
		{100, DefaultBeta},
		{0, DefaultBeta},
		{-5, DefaultBeta},
	}

	for _, tt := range tests {
		if got := Beta(tt.power); got != tt.want {
			t.Errorf("Beta(%d) = %v, want %v", tt.power, got, tt.want)
		}
	}
}

func TestBetaTableComplete(t *testing.T) {
	prev := 0.0
	for p := 80; p <= 99; p++ {
		z, ok := betaTable[p]
		if !ok {
			t.Fatalf("betaTable missing %d", p)
		}
		if z <= prev {
			t.Errorf("betaTable[%d] = %v, want > %v", p, z, prev)
		}
		prev = z
	}
}

func TestAlpha(t *testing.T) {
	tests := []struct {
		name       string
		confidence int
		want       float64
	}{
		{"exact 90", 90, 1.645},
		{"exact 95", 95, 1.96},
		{"exact 98", 98, 2.326},
		{"exact 99", 99, 2.576},
		{"band below 95", 92, 1.645},
		{"band far below", 50, 1.645},
		{"band 96", 96, 1.96},
		{"band 97", 97, 1.96},
		{"band above 99", 100, 2.576},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Alpha(tt.confidence); got != tt.want {
				t.Errorf("Alpha(%d) = %v, want %v", tt.confidence, got, tt.want)
			}
		})
	}
}

func TestFor(t *testing.T) {
	p := For(95, 80)
	if p.Alpha != 1.96 || p.Beta != 0.842 {
		t.Errorf("For(95, 80) = %+v", p)
	}
	if got := p.Sum(); got != 1.96+0.842 {
		t.Errorf("Sum() = %v", got)
	}
}
