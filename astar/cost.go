package astar

import (
	"fmt"
	"math"

	"github.com/katalvlaran/terrapath/costgrid"
)

// EdgeCost returns the cost of moving from one cell to an adjacent one and
// whether the move exists at all. A move exists when both cells are in the
// grid, differ by at most one row and one column (and are not equal), and
// the absolute elevation difference is within p.MaxElevationDiff.
//
// cost = base + (1 - normalized(to))·TerrainWeight + (|Δ| / MaxElevationDiff)·ElevationWeight
//
// where base is 1 for orthogonal moves and √2 for diagonal ones. The search
// and PathCost both go through this function, so their sums agree exactly.
func EdgeCost(g *costgrid.Grid, from, to costgrid.Cell, p Params) (float64, bool) {
	dr, dc := to.Row-from.Row, to.Col-from.Col
	if dr < -1 || dr > 1 || dc < -1 || dc > 1 || (dr == 0 && dc == 0) {
		return 0, false
	}
	if !g.Contains(from) || !g.Contains(to) {
		return 0, false
	}
	return moveCost(g, from, to, dr != 0 && dc != 0, p)
}

// moveCost is EdgeCost without the adjacency and bounds checks.
func moveCost(g *costgrid.Grid, from, to costgrid.Cell, diagonal bool, p Params) (float64, bool) {
	elevDiff := math.Abs(g.At(to) - g.At(from))
	if elevDiff > p.MaxElevationDiff {
		return 0, false
	}
	terrainCost := (1 - g.Normalized(to)) * p.TerrainWeight
	elevCost := (elevDiff / p.MaxElevationDiff) * p.ElevationWeight

	base := 1.0
	if diagonal {
		base = math.Sqrt2
	}
	return base + terrainCost + elevCost, true
}

// heuristic is the straight-line distance between two cells in cell units.
// Every move costs at least its own length, so it never overestimates.
func heuristic(a, b costgrid.Cell) float64 {
	return math.Hypot(float64(a.Row-b.Row), float64(a.Col-b.Col))
}

// PathCost recomputes the total cost of walking cells in order, summing
// EdgeCost for each consecutive pair. A single-cell path costs 0.
// Returns ErrDisconnectedPath (with the offending step) if any pair is not
// a legal move, ErrBadParams for invalid p, ErrNilGrid for a nil grid.
func PathCost(g *costgrid.Grid, cells []costgrid.Cell, p Params) (float64, error) {
	if g == nil {
		return 0, ErrNilGrid
	}
	if err := p.Validate(); err != nil {
		return 0, err
	}
	total := 0.0
	for i := 1; i < len(cells); i++ {
		w, ok := EdgeCost(g, cells[i-1], cells[i], p)
		if !ok {
			return 0, fmt.Errorf("%w: step %d %v→%v", ErrDisconnectedPath, i, cells[i-1], cells[i])
		}
		total += w
	}
	return total, nil
}
