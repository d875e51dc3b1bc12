package correction

import (
	"math"
	"testing"
)

func TestFPC(t *testing.T) {
	tests := []struct {
		name       string
		n          float64
		population int
		want       float64
	}{
		{"no population", 400, 0, 400},
		{"negative population", 400, -10, 400},
		{"population 1000", 400, 1000, 400 / 1.4},
		{"population equals n", 100, 100, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FPC(tt.n, tt.population)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("FPC(%v, %d) = %v, want %v", tt.n, tt.population, got, tt.want)
			}
		})
	}
}

func TestFPCBeforeRounding(t *testing.T) {
	if got := math.Ceil(FPC(400, 1000)); got != 286 {
		t.Errorf("ceil(FPC(400, 1000)) = %v, want 286", got)
	}
}

func TestDropout(t *testing.T) {
	if got := Dropout(400, false); got != 400 {
		t.Errorf("Dropout disabled = %v, want 400", got)
	}
	if got := math.Ceil(Dropout(400, true)); got != 445 {
		t.Errorf("ceil(Dropout(400, true)) = %v, want 445", got)
	}
}
