package grid

import "math"

// Presets are the candidate cell sizes in pixels, largest first.
var Presets = [...]int{20, 15, 12, 10, 8, 6, 5, 4, 3}

// MinCellSize is the smallest preset, used when scaling is required.
const MinCellSize = 3

// maxSpan bounds columns and rows so their product cannot overflow.
const maxSpan = 1 << 30

// Layout is the chosen cell size and dot scale for a pair of counts.
type Layout struct {
	CellSize int `json:"cell_size_px"`
	Scale    int `json:"scale_factor"`
	ScaledN1 int `json:"scaled_n1"`
	ScaledN2 int `json:"scaled_n2"`
	Columns  int `json:"columns"`
	Rows     int `json:"rows"`
}

// Capacity returns how many dots the layout's cell size fits in the area it was packed for.
func (l Layout) Capacity() int { return l.Columns * l.Rows }

// Scaled reports whether one dot stands for more than one participant.
func (l Layout) Scaled() bool { return l.Scale > 1 }

// Capacity returns floor(width/cell) × floor(height/cell).
// Non-finite or non-positive dimensions have zero capacity.
func Capacity(cell int, width, height float64) int {
	c, r := dims(cell, width, height)
	return c * r
}

// Pack selects the cell size and scale for counts n1 and n2 drawn in an area
// of width × height pixels. Negative counts are treated as zero.
//
// An area too small to hold a single 3px cell is treated as holding one dot,
// so the result is always well defined.
func Pack(n1, n2 int, width, height float64) Layout {
	n1, n2 = max(n1, 0), max(n2, 0)
	need := max(n1, n2)

	for _, s := range Presets {
		c, r := dims(s, width, height)
		if c*r >= need {
			return Layout{
				CellSize: s,
				Scale:    1,
				ScaledN1: n1,
				ScaledN2: n2,
				Columns:  c,
				Rows:     r,
			}
		}
	}

	c, r := dims(MinCellSize, width, height)
	capacity := max(c*r, 1)
	scale := ceilDiv(need, capacity)
	return Layout{
		CellSize: MinCellSize,
		Scale:    scale,
		ScaledN1: ceilDiv(n1, scale),
		ScaledN2: ceilDiv(n2, scale),
		Columns:  c,
		Rows:     r,
	}
}

func dims(cell int, width, height float64) (cols, rows int) {
	return fit(width, cell), fit(height, cell)
}

func fit(length float64, cell int) int {
	if math.IsNaN(length) || math.IsInf(length, 0) || length <= 0 || cell <= 0 {
		return 0
	}
	n := math.Floor(length / float64(cell))
	if n > maxSpan {
		return maxSpan
	}
	return int(n)
}

// ceilDiv returns ceil(a/b) for a ≥ 0, b > 0.
func ceilDiv(a, b int) int {
	if a == 0 {
		return 0
	}
	return 1 + (a-1)/b
}
