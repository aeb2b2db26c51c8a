package costgrid

import (
	"fmt"
	"math"
)

// New constructs a Grid from a non-empty, rectangular 2D slice indexed
// values[row][col]. It deep-copies the input to ensure immutability and
// precomputes the min/max bounds.
// Returns ErrEmptyGrid if values has no rows or no columns,
// ErrNonRectangular if any row length differs, ErrNotFinite for NaN/±Inf
// samples or for a max-min span that overflows float64.
// Algorithmic complexity: O(W×H) time and memory.
func New(values [][]float64) (*Grid, error) {
	if len(values) == 0 || len(values[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	h, w := len(values), len(values[0])
	for r, row := range values {
		if len(row) != w {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w", r, len(row), w, ErrNonRectangular)
		}
	}
	// Deep copy into row-major storage while tracking bounds
	flat := make([]float64, 0, w*h)
	lo, hi := math.Inf(1), math.Inf(-1)
	for r, row := range values {
		for c, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("sample %v: %w", Cell{Row: r, Col: c}, ErrNotFinite)
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
			flat = append(flat, v)
		}
	}
	// Normalized divides by the span; it must be finite too.
	if math.IsInf(hi-lo, 0) {
		return nil, fmt.Errorf("span %v..%v: %w", lo, hi, ErrNotFinite)
	}

	return &Grid{width: w, height: h, values: flat, min: lo, max: hi}, nil
}

// FromInts builds a Grid from integer samples, the usual shape of exported
// elevation rasters.
func FromInts(values [][]int) (*Grid, error) {
	rows := make([][]float64, len(values))
	for r, row := range values {
		rows[r] = make([]float64, len(row))
		for c, v := range row {
			rows[r][c] = float64(v)
		}
	}
	return New(rows)
}

// Dimensions returns the grid width (columns) and height (rows).
func (g *Grid) Dimensions() (width, height int) {
	return g.width, g.height
}

// Bounds returns the smallest and largest sample. O(1).
func (g *Grid) Bounds() (min, max float64) {
	return g.min, g.max
}

// Flat reports whether every sample has the same value.
func (g *Grid) Flat() bool {
	return g.max == g.min
}

// InBounds reports whether (row, col) lies within the grid boundaries.
// Complexity: O(1).
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.height && col >= 0 && col < g.width
}

// Contains is InBounds for a Cell.
func (g *Grid) Contains(c Cell) bool {
	return g.InBounds(c.Row, c.Col)
}

// ValueAt returns the sample at (row, col), or ErrOutOfBounds.
func (g *Grid) ValueAt(row, col int) (float64, error) {
	if !g.InBounds(row, col) {
		return 0, fmt.Errorf("%v in %dx%d grid: %w", Cell{Row: row, Col: col}, g.width, g.height, ErrOutOfBounds)
	}
	return g.values[g.index(row, col)], nil
}

// At returns the sample at c without bounds checking beyond the slice's own.
// Callers validate c with Contains first.
func (g *Grid) At(c Cell) float64 {
	return g.values[g.index(c.Row, c.Col)]
}

// Normalized maps the sample at c into [0,1] using the grid bounds.
// On a flat grid it returns NeutralValue.
func (g *Grid) Normalized(c Cell) float64 {
	span := g.max - g.min
	if span == 0 {
		return NeutralValue
	}
	return (g.At(c) - g.min) / span
}

// NeighborOffsets returns the 8 (dRow, dCol) moves in the fixed order
// NW, N, NE, W, E, SW, S, SE.
func (g *Grid) NeighborOffsets() [8][2]int {
	return neighborOffsets
}

// Rows returns a deep copy of the samples as values[row][col].
func (g *Grid) Rows() [][]float64 {
	out := make([][]float64, g.height)
	for r := 0; r < g.height; r++ {
		out[r] = make([]float64, g.width)
		copy(out[r], g.values[r*g.width:(r+1)*g.width])
	}
	return out
}

// Len returns the number of cells.
func (g *Grid) Len() int {
	return len(g.values)
}

// Index maps a cell to its row-major index: Row*Width + Col.
// Complexity: O(1).
func (g *Grid) Index(c Cell) int {
	return g.index(c.Row, c.Col)
}

// Coordinate converts a row-major index back to a Cell.
// Complexity: O(1).
func (g *Grid) Coordinate(idx int) Cell {
	return Cell{Row: idx / g.width, Col: idx % g.width}
}

func (g *Grid) index(row, col int) int {
	return row*g.width + col
}
