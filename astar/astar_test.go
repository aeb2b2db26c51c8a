package astar_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/terrapath/astar"
	"github.com/katalvlaran/terrapath/costgrid"
	"github.com/katalvlaran/terrapath/gridgen"
)

// cell is shorthand for costgrid.Cell{Row: r, Col: c}.
func cell(r, c int) costgrid.Cell { return costgrid.Cell{Row: r, Col: c} }

// mustGrid builds a grid from integer rows or fails the test.
func mustGrid(t testing.TB, rows [][]int) *costgrid.Grid {
	t.Helper()
	g, err := costgrid.FromInts(rows)
	require.NoError(t, err)
	return g
}

func TestFindPath_NilGrid(t *testing.T) {
	p, err := astar.FindPath(nil, cell(0, 0), cell(0, 0))
	assert.ErrorIs(t, err, astar.ErrNilGrid)
	assert.False(t, p.Found())
}

func TestFindPath_InvalidCoordinate(t *testing.T) {
	g := mustGrid(t, [][]int{{0, 0}, {0, 0}})
	for _, tc := range []struct {
		name        string
		start, goal costgrid.Cell
	}{
		{"StartNegative", cell(-1, 0), cell(1, 1)},
		{"StartTooFar", cell(0, 2), cell(1, 1)},
		{"GoalTooFar", cell(0, 0), cell(2, 0)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p, err := astar.FindPath(g, tc.start, tc.goal)
			assert.ErrorIs(t, err, astar.ErrInvalidCoordinate)
			assert.ErrorIs(t, err, costgrid.ErrOutOfBounds)
			assert.Nil(t, p.Cells)
		})
	}
}

func TestFindPath_BadParams(t *testing.T) {
	g := mustGrid(t, [][]int{{0, 0}})
	for _, p := range []astar.Params{
		{MaxElevationDiff: 0, TerrainWeight: 1, ElevationWeight: 1},
		{MaxElevationDiff: -3, TerrainWeight: 1, ElevationWeight: 1},
		{MaxElevationDiff: 20, TerrainWeight: -1, ElevationWeight: 1},
		{MaxElevationDiff: 20, TerrainWeight: 1, ElevationWeight: math.NaN()},
	} {
		_, err := astar.FindPath(g, cell(0, 0), cell(0, 1), astar.WithParams(p))
		assert.ErrorIs(t, err, astar.ErrBadParams, "params %+v", p)
	}
}

func TestOptions_Panic(t *testing.T) {
	assert.Panics(t, func() { astar.WithMaxElevationDiff(0) })
	assert.Panics(t, func() { astar.WithTerrainWeight(-1) })
	assert.Panics(t, func() { astar.WithElevationWeight(-0.5) })
	assert.Panics(t, func() { astar.WithMaxExpansions(-1) })
}

// TestFindPath_StartIsGoal returns [start] with zero cost.
func TestFindPath_StartIsGoal(t *testing.T) {
	g := mustGrid(t, [][]int{{3, 9}, {1, 4}})
	for i := 0; i < g.Len(); i++ {
		c := g.Coordinate(i)
		p, err := astar.FindPath(g, c, c)
		require.NoError(t, err)
		assert.Equal(t, []costgrid.Cell{c}, p.Cells)
		assert.Zero(t, p.Cost)
		assert.Equal(t, 1, p.Expanded)
	}
}

// TestFindPath_SingleCell: a 1×1 grid has no neighbours at all.
func TestFindPath_SingleCell(t *testing.T) {
	g := mustGrid(t, [][]int{{42}})
	p, err := astar.FindPath(g, cell(0, 0), cell(0, 0))
	require.NoError(t, err)
	assert.Equal(t, []costgrid.Cell{cell(0, 0)}, p.Cells)
}

// TestFindPath_FlatDiagonal: on a 3×3 flat grid the diagonal is shortest.
func TestFindPath_FlatDiagonal(t *testing.T) {
	g := mustGrid(t, [][]int{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}})

	p, err := astar.FindPath(g, cell(0, 0), cell(2, 2), astar.WithTerrainWeight(0))
	require.NoError(t, err)
	assert.Equal(t, []costgrid.Cell{cell(0, 0), cell(1, 1), cell(2, 2)}, p.Cells)
	assert.InDelta(t, 2*math.Sqrt2, p.Cost, 1e-12)

	// Default weights add the neutral terrain constant to every move.
	p, err = astar.FindPath(g, cell(0, 0), cell(2, 2))
	require.NoError(t, err)
	assert.Equal(t, []costgrid.Cell{cell(0, 0), cell(1, 1), cell(2, 2)}, p.Cells)
	neutral := (1 - costgrid.NeutralValue) * astar.DefaultTerrainWeight
	assert.InDelta(t, 2*(math.Sqrt2+neutral), p.Cost, 1e-12)
}

// TestFindPath_CenterSpike: the 100-high centre is pruned in both
// directions, so the route bends around it deterministically.
func TestFindPath_CenterSpike(t *testing.T) {
	g := mustGrid(t, [][]int{{0, 0, 0}, {0, 100, 0}, {0, 0, 0}})

	p, err := astar.FindPath(g, cell(0, 0), cell(2, 2), astar.WithMaxElevationDiff(20))
	require.NoError(t, err)
	require.True(t, p.Found())
	assert.NotContains(t, p.Cells, cell(1, 1))
	// Ties between the upper and lower detour break on the smaller cell.
	assert.Equal(t, []costgrid.Cell{cell(0, 0), cell(0, 1), cell(1, 2), cell(2, 2)}, p.Cells)
	// Zero-valued cells are the lowest terrain: full terrain weight per move.
	assert.InDelta(t, 2*(1+5)+(math.Sqrt2+5), p.Cost, 1e-12)

	// Widening the spike into an L walls the goal in completely.
	g = mustGrid(t, [][]int{{0, 0, 0}, {0, 100, 100}, {0, 100, 0}})
	p, err = astar.FindPath(g, cell(0, 0), cell(2, 2))
	require.NoError(t, err)
	assert.False(t, p.Found(), "goal enclosed by 100-high cells")
}

// TestFindPath_TerrainPreference: higher values are cheaper to cross.
func TestFindPath_TerrainPreference(t *testing.T) {
	// Row 0 is good terrain (10), row 1 poor (0); both within the cap.
	g := mustGrid(t, [][]int{
		{10, 10, 10, 10, 10},
		{0, 0, 0, 0, 0},
	})
	p, err := astar.FindPath(g, cell(1, 0), cell(1, 4), astar.WithElevationWeight(0))
	require.NoError(t, err)
	// Climb to the good row, travel, come back down.
	assert.Equal(t, []costgrid.Cell{cell(1, 0), cell(0, 1), cell(0, 2), cell(0, 3), cell(1, 4)}, p.Cells)
}

// TestFindPath_ElevationPenalty: a detour beats a steep-but-legal climb.
func TestFindPath_ElevationPenalty(t *testing.T) {
	g := mustGrid(t, [][]int{
		{0, 0, 0},
		{0, 19, 0},
		{0, 0, 0},
	})
	p, err := astar.FindPath(g, cell(1, 0), cell(1, 2), astar.WithTerrainWeight(0), astar.WithElevationWeight(100))
	require.NoError(t, err)
	assert.NotContains(t, p.Cells, cell(1, 1))
	assert.Len(t, p.Cells, 3)
}

// TestFindPath_Unreachable: goal walled in by a ring steeper than the cap.
func TestFindPath_Unreachable(t *testing.T) {
	g, err := gridgen.Build(9, 9, nil, gridgen.Ring(cell(6, 6), 1, 50))
	require.NoError(t, err)

	p, err := astar.FindPath(g, cell(0, 0), cell(6, 6))
	require.NoError(t, err)
	assert.False(t, p.Found())
	assert.Nil(t, p.Cells)
	// Everything outside the ring plus nothing inside: 81 - 9 cells.
	assert.Equal(t, 72, p.Expanded)
}

// TestFindPath_TrappedStart: a start with no legal moves degrades to no path.
func TestFindPath_TrappedStart(t *testing.T) {
	g := mustGrid(t, [][]int{{0, 90}, {90, 90}})
	p, err := astar.FindPath(g, cell(0, 0), cell(1, 1))
	require.NoError(t, err)
	assert.False(t, p.Found())
	assert.Equal(t, 1, p.Expanded)
}

func TestFindPath_Regions(t *testing.T) {
	g, err := gridgen.Build(9, 9, nil, gridgen.Ring(cell(6, 6), 1, 50))
	require.NoError(t, err)

	expanded := 0
	hook := astar.WithOnExpand(func(costgrid.Cell, float64) error { expanded++; return nil })

	p, err := astar.FindPath(g, cell(0, 0), cell(6, 6), astar.WithRegions(g.Regions(20)), hook)
	require.NoError(t, err)
	assert.False(t, p.Found())
	assert.Zero(t, expanded, "region check must short-circuit before expanding")

	p, err = astar.FindPath(g, cell(0, 0), cell(8, 0), astar.WithRegions(g.Regions(20)))
	require.NoError(t, err)
	assert.True(t, p.Found())

	_, err = astar.FindPath(g, cell(0, 0), cell(8, 0), astar.WithRegions(g.Regions(30)))
	assert.ErrorIs(t, err, astar.ErrRegionsMismatch)

	other := mustGrid(t, [][]int{{0}})
	_, err = astar.FindPath(g, cell(0, 0), cell(8, 0), astar.WithRegions(other.Regions(20)))
	assert.ErrorIs(t, err, astar.ErrRegionsMismatch)
}

func TestFindPath_OnExpand(t *testing.T) {
	g := mustGrid(t, [][]int{{0, 0, 0, 0}})
	var seen []costgrid.Cell
	var costs []float64
	p, err := astar.FindPath(g, cell(0, 0), cell(0, 3), astar.WithOnExpand(func(c costgrid.Cell, gc float64) error {
		seen = append(seen, c)
		costs = append(costs, gc)
		return nil
	}))
	require.NoError(t, err)
	assert.Equal(t, p.Cells, seen)
	assert.Equal(t, p.Expanded, len(seen))
	assert.Equal(t, p.Cost, costs[len(costs)-1])

	stop := errors.New("stop")
	_, err = astar.FindPath(g, cell(0, 0), cell(0, 3), astar.WithOnExpand(func(c costgrid.Cell, _ float64) error {
		if c.Col == 1 {
			return stop
		}
		return nil
	}))
	assert.ErrorIs(t, err, stop)
}

func TestFindPath_Cancellation(t *testing.T) {
	g, err := gridgen.Build(50, 50, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p, err := astar.FindPath(g, cell(0, 0), cell(49, 49), astar.WithContext(ctx))
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, p.Found())

	// Cancel mid-search from the hook.
	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()
	n := 0
	_, err = astar.FindPath(g, cell(0, 0), cell(49, 49), astar.WithContext(ctx),
		astar.WithOnExpand(func(costgrid.Cell, float64) error {
			n++
			if n == 10 {
				cancel()
			}
			return nil
		}))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 10, n)
}

func TestFindPath_Budget(t *testing.T) {
	g, err := gridgen.Build(20, 20, nil)
	require.NoError(t, err)

	_, err = astar.FindPath(g, cell(0, 0), cell(19, 19), astar.WithMaxExpansions(5))
	assert.ErrorIs(t, err, astar.ErrBudgetExceeded)

	p, err := astar.FindPath(g, cell(0, 0), cell(19, 19), astar.WithMaxExpansions(1000))
	require.NoError(t, err)
	assert.True(t, p.Found())
}

func TestEdgeCost(t *testing.T) {
	g := mustGrid(t, [][]int{{0, 10}, {30, 20}})
	p := astar.DefaultParams()

	w, ok := astar.EdgeCost(g, cell(0, 0), cell(0, 1), p)
	require.True(t, ok)
	// base 1 + (1-10/30)·5 + (10/20)·10
	assert.InDelta(t, 1+(1-10.0/30)*5+0.5*10, w, 1e-12)

	w, ok = astar.EdgeCost(g, cell(0, 1), cell(1, 0), p)
	require.True(t, ok)
	assert.InDelta(t, math.Sqrt2+0+1*10, w, 1e-12)

	_, ok = astar.EdgeCost(g, cell(0, 0), cell(1, 0), p) // |Δ|=30 > 20
	assert.False(t, ok)
	_, ok = astar.EdgeCost(g, cell(0, 0), cell(0, 0), p)
	assert.False(t, ok)
	_, ok = astar.EdgeCost(g, cell(0, 0), cell(0, 2), p)
	assert.False(t, ok)
}

func TestPathCost(t *testing.T) {
	g := mustGrid(t, [][]int{{0, 0, 0}})
	p := astar.DefaultParams()

	c, err := astar.PathCost(g, []costgrid.Cell{cell(0, 0)}, p)
	require.NoError(t, err)
	assert.Zero(t, c)

	_, err = astar.PathCost(g, []costgrid.Cell{cell(0, 0), cell(0, 2)}, p)
	assert.ErrorIs(t, err, astar.ErrDisconnectedPath)

	_, err = astar.PathCost(nil, nil, p)
	assert.ErrorIs(t, err, astar.ErrNilGrid)
}
