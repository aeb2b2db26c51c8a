package costgrid

import (
	"errors"
	"strconv"
)

// Sentinel errors for costgrid operations.
var (
	// ErrEmptyGrid indicates input grid has no rows or no columns.
	ErrEmptyGrid = errors.New("costgrid: input grid must have at least one row and one column")
	// ErrNonRectangular indicates rows of differing lengths.
	ErrNonRectangular = errors.New("costgrid: all rows must have the same length")
	// ErrNotFinite indicates a NaN or infinite sample.
	ErrNotFinite = errors.New("costgrid: sample is not a finite number")
	// ErrOutOfBounds indicates a cell index outside [0,Height)×[0,Width).
	ErrOutOfBounds = errors.New("costgrid: cell out of bounds")
	// ErrSyntax indicates a malformed sample in a text grid.
	ErrSyntax = errors.New("costgrid: malformed sample")
)

// NeutralValue is the normalized terrain value reported for every cell of a
// flat grid (Max == Min).
const NeutralValue = 0.5

// Cell addresses a single grid sample by row and column.
type Cell struct {
	Row, Col int
}

// Less orders cells lexicographically: by Row, then by Col.
func (c Cell) Less(o Cell) bool {
	if c.Row != o.Row {
		return c.Row < o.Row
	}
	return c.Col < o.Col
}

// String renders the cell as "(row,col)".
func (c Cell) String() string {
	return "(" + strconv.Itoa(c.Row) + "," + strconv.Itoa(c.Col) + ")"
}

// Grid is an immutable rectangular matrix of terrain samples.
// Samples are stored row-major; min and max are precomputed in New.
type Grid struct {
	width, height int
	values        []float64
	min, max      float64
}

// neighborOffsets lists the 8 (dRow, dCol) moves in expansion order.
var neighborOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}
