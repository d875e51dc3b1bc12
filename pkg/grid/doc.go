// Package grid sizes the dot matrix that visualizes two group counts.
//
// Given the counts and a rendering area in pixels, [Pack] picks the largest
// cell size from a fixed preset sequence at which one dot per participant
// still fits. When even the smallest preset cannot hold the larger group, the
// cell size is pinned to that smallest preset and each dot stands for
// several participants.
//
// # Algorithm
//
// The search is a linear scan over [Presets] (20, 15, 12, 10, 8, 6, 5, 4, 3
// pixels). For a cell size s the capacity is
//
//	floor(width/s) × floor(height/s)
//
// and s is accepted when capacity(s) ≥ max(n1, n2). If no preset is accepted,
// the scale is ceil(max(n1, n2) / capacity(3)) and the scaled counts are
// ceil(n/scale).
//
// # Determinism
//
// Pack is pure: it has no state, performs no I/O, and always returns the same
// [Layout] for the same inputs. Callers may memoize it freely.
//
// # Example
//
//	l := grid.Pack(142, 284, 600, 400)
//	fmt.Println(l.CellSize, l.Scale) // 20 1
package grid
