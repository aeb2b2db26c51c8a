package route_test

import (
	"context"
	"sync"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/terrapath/astar"
	"github.com/katalvlaran/terrapath/costgrid"
	"github.com/katalvlaran/terrapath/gridgen"
	"github.com/katalvlaran/terrapath/route"
)

// newPlanner returns a 100×50 surface planner with default search params.
func newPlanner(t *testing.T, fb route.Fallback) *route.Planner {
	t.Helper()
	pl, err := route.NewPlanner(route.Config{
		SurfaceWidth:  100,
		SurfaceHeight: 50,
		Params:        astar.DefaultParams(),
		Fallback:      fb,
	})
	require.NoError(t, err)
	return pl
}

func TestNewPlanner_Errors(t *testing.T) {
	_, err := route.NewPlanner(route.Config{SurfaceWidth: 0, SurfaceHeight: 10, Params: astar.DefaultParams()})
	assert.ErrorIs(t, err, route.ErrBadSurface)

	_, err = route.NewPlanner(route.Config{SurfaceWidth: 10, SurfaceHeight: 10, Params: astar.DefaultParams(), Fallback: 7})
	assert.ErrorIs(t, err, route.ErrBadFallback)

	_, err = route.NewPlanner(route.Config{SurfaceWidth: 10, SurfaceHeight: 10})
	assert.ErrorIs(t, err, astar.ErrBadParams)
}

func TestParseFallback(t *testing.T) {
	fb, err := route.ParseFallback("manhattan")
	require.NoError(t, err)
	assert.Equal(t, route.FallbackManhattan, fb)
	fb, err = route.ParseFallback("")
	require.NoError(t, err)
	assert.Equal(t, route.FallbackDirect, fb)
	_, err = route.ParseFallback("teleport")
	assert.ErrorIs(t, err, route.ErrBadFallback)
}

// TestScaling checks the surface↔cell mapping on a 10-column × 5-row grid
// stretched over a 100×50 surface (10 units per cell).
func TestScaling(t *testing.T) {
	pl := newPlanner(t, route.FallbackDirect)
	_, ok := pl.ToCell(orb.Point{1, 1})
	assert.False(t, ok, "no grid loaded")

	g, err := gridgen.Build(5, 10, nil)
	require.NoError(t, err)
	pl.SetGrid(g)

	cases := []struct {
		p    orb.Point
		want costgrid.Cell
	}{
		{orb.Point{0, 0}, costgrid.Cell{Row: 0, Col: 0}},
		{orb.Point{19.9, 9.9}, costgrid.Cell{Row: 0, Col: 1}},
		{orb.Point{55, 31}, costgrid.Cell{Row: 3, Col: 5}},
		{orb.Point{100, 50}, costgrid.Cell{Row: 4, Col: 9}},  // far edge clamps to last cell
		{orb.Point{1e6, 1e6}, costgrid.Cell{Row: 4, Col: 9}}, // beyond the surface
		{orb.Point{-30, -1}, costgrid.Cell{Row: 0, Col: 0}},   // negative clamps to 0
	}
	for _, tc := range cases {
		c, ok := pl.ToCell(tc.p)
		require.True(t, ok)
		assert.Equal(t, tc.want, c, "ToCell(%v)", tc.p)
	}

	p, ok := pl.ToPoint(costgrid.Cell{Row: 3, Col: 5})
	require.True(t, ok)
	assert.Equal(t, orb.Point{50, 30}, p)
}

func TestPlan_NoTerrainFallsBack(t *testing.T) {
	from, to := orb.Point{10, 10}, orb.Point{40, 30}

	r, err := newPlanner(t, route.FallbackDirect).Plan(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, route.ModeDirect, r.Mode)
	assert.Equal(t, orb.LineString{from, to}, r.Waypoints)
	assert.InDelta(t, 36.0555, r.Length(), 1e-4)

	r, err = newPlanner(t, route.FallbackManhattan).Plan(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, route.ModeManhattan, r.Mode)
	assert.Equal(t, orb.LineString{from, {10, 30}, to}, r.Waypoints)
	assert.InDelta(t, 50, r.Length(), 1e-9)
}

func TestPlan_Terrain(t *testing.T) {
	pl := newPlanner(t, route.FallbackDirect)
	g, err := gridgen.Build(5, 10, nil)
	require.NoError(t, err)
	pl.SetGrid(g)

	from, to := orb.Point{3, 4}, orb.Point{95, 4}
	r, err := pl.Plan(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, route.ModeTerrain, r.Mode)
	require.Len(t, r.Cells, 10)
	assert.Equal(t, costgrid.Cell{Row: 0, Col: 0}, r.Cells[0])
	assert.Equal(t, costgrid.Cell{Row: 0, Col: 9}, r.Cells[9])

	// First waypoint is the exact origin, then one point per following cell.
	require.Len(t, r.Waypoints, 10)
	assert.Equal(t, from, r.Waypoints[0])
	assert.Equal(t, orb.Point{10, 0}, r.Waypoints[1])
	assert.Equal(t, orb.Point{90, 0}, r.Waypoints[9])
	assert.Positive(t, r.Cost)
}

func TestPlan_UnreachableFallsBack(t *testing.T) {
	pl := newPlanner(t, route.FallbackManhattan)
	g, err := gridgen.Build(5, 10, nil, gridgen.Wall(5, 100))
	require.NoError(t, err)
	pl.SetGrid(g)

	from, to := orb.Point{5, 5}, orb.Point{95, 45}
	r, err := pl.Plan(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, route.ModeManhattan, r.Mode)
	assert.Nil(t, r.Cells)
	assert.Zero(t, r.Expanded, "regions short-circuit the search")
}

func TestPlan_Cancelled(t *testing.T) {
	pl := newPlanner(t, route.FallbackDirect)
	g, err := gridgen.Build(20, 20, nil)
	require.NoError(t, err)
	pl.SetGrid(g)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = pl.Plan(ctx, orb.Point{0, 0}, orb.Point{99, 49})
	assert.ErrorIs(t, err, context.Canceled)
}

// TestPlan_ConcurrentSwap runs searches while the grid is being replaced.
func TestPlan_ConcurrentSwap(t *testing.T) {
	pl := newPlanner(t, route.FallbackDirect)
	a, err := gridgen.Build(16, 16, nil)
	require.NoError(t, err)
	b, err := gridgen.Build(16, 16, []gridgen.Option{gridgen.WithSeed(3)}, gridgen.Noise(10))
	require.NoError(t, err)
	pl.SetGrid(a)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				r, err := pl.Plan(context.Background(), orb.Point{0, 0}, orb.Point{99, 49})
				assert.NoError(t, err)
				assert.NotEmpty(t, r.Waypoints)
			}
		}()
	}
	for j := 0; j < 20; j++ {
		if j%2 == 0 {
			pl.SetGrid(b)
		} else {
			pl.SetGrid(a)
		}
	}
	pl.SetGrid(nil)
	wg.Wait()
	assert.Nil(t, pl.Grid())
	assert.Nil(t, pl.Regions())
}

func TestFollower(t *testing.T) {
	r := route.Route{Waypoints: orb.LineString{{0, 0}, {10, 0}, {10, 5}}}
	f, err := route.NewFollower(r, 4)
	require.NoError(t, err)

	var trail []orb.Point
	for !f.Done() {
		p, _ := f.Step()
		trail = append(trail, p)
	}
	assert.Equal(t, []orb.Point{
		{4, 0}, {8, 0}, {10, 0}, // snaps onto the corner
		{10, 4}, {10, 5},
	}, trail)

	p, done := f.Step()
	assert.True(t, done)
	assert.Equal(t, orb.Point{10, 5}, p)

	_, err = route.NewFollower(r, 0)
	assert.ErrorIs(t, err, route.ErrBadSpeed)
	_, err = route.NewFollower(route.Route{}, 1)
	assert.ErrorIs(t, err, route.ErrEmptyRoute)
}
