package route

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/katalvlaran/terrapath/astar"
	"github.com/katalvlaran/terrapath/costgrid"
)

// Sentinel errors.
var (
	// ErrBadSurface indicates a non-positive surface width or height.
	ErrBadSurface = errors.New("route: surface dimensions must be positive")
	// ErrBadFallback indicates an unknown Fallback value.
	ErrBadFallback = errors.New("route: fallback must be direct or manhattan")
	// ErrBadSpeed indicates a non-positive follower speed.
	ErrBadSpeed = errors.New("route: speed must be positive")
	// ErrEmptyRoute indicates a route without waypoints.
	ErrEmptyRoute = errors.New("route: route has no waypoints")
)

// Mode tells how a Route was produced.
type Mode int

const (
	// ModeTerrain routes follow a constrained search result.
	ModeTerrain Mode = iota
	// ModeDirect routes go straight from origin to target.
	ModeDirect
	// ModeManhattan routes go vertically first, then horizontally.
	ModeManhattan
)

// String returns "terrain", "direct" or "manhattan".
func (m Mode) String() string {
	switch m {
	case ModeTerrain:
		return "terrain"
	case ModeDirect:
		return "direct"
	case ModeManhattan:
		return "manhattan"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Fallback selects the route used when no terrain path is available.
type Fallback int

const (
	// FallbackDirect goes straight from origin to target.
	FallbackDirect Fallback = iota
	// FallbackManhattan goes vertically first, then horizontally.
	FallbackManhattan
)

// ParseFallback accepts "direct" or "manhattan".
func ParseFallback(s string) (Fallback, error) {
	switch s {
	case "direct", "":
		return FallbackDirect, nil
	case "manhattan":
		return FallbackManhattan, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFallback, s)
}

// Config holds the planner settings.
type Config struct {
	// SurfaceWidth and SurfaceHeight span the continuous coordinate space
	// the grid is stretched over.
	SurfaceWidth, SurfaceHeight float64
	// Params are the search cost parameters.
	Params astar.Params
	// Fallback defaults to FallbackDirect.
	Fallback Fallback
	// MaxExpansions bounds each search; 0 means unbounded.
	MaxExpansions int
}

// Route is an ordered list of waypoints in surface coordinates.
type Route struct {
	Mode      Mode
	Waypoints orb.LineString
	// Cells and Cost are set only for ModeTerrain.
	Cells []costgrid.Cell
	Cost  float64
	// Expanded is the number of cells the search finalized (0 if none ran).
	Expanded int
}

// Length returns the planar length of the waypoint polyline.
func (r Route) Length() float64 {
	return planar.Length(r.Waypoints)
}

// terrain pairs a grid with its region labelling for the configured cap.
type terrain struct {
	grid    *costgrid.Grid
	regions *costgrid.Regions
}

// Planner maps surface coordinates to grid searches. It is safe for
// concurrent use.
type Planner struct {
	cfg     Config
	terrain atomic.Pointer[terrain]
}

// NewPlanner validates cfg and returns a Planner without terrain.
func NewPlanner(cfg Config) (*Planner, error) {
	if !(cfg.SurfaceWidth > 0) || !(cfg.SurfaceHeight > 0) {
		return nil, fmt.Errorf("%w: %vx%v", ErrBadSurface, cfg.SurfaceWidth, cfg.SurfaceHeight)
	}
	if cfg.Fallback != FallbackDirect && cfg.Fallback != FallbackManhattan {
		return nil, fmt.Errorf("%w: %d", ErrBadFallback, int(cfg.Fallback))
	}
	if err := cfg.Params.Validate(); err != nil {
		return nil, err
	}
	return &Planner{cfg: cfg}, nil
}

// Config returns the planner configuration.
func (pl *Planner) Config() Config {
	return pl.cfg
}

// SetGrid swaps in a new terrain; nil removes it. Regions for the configured
// cap are computed before the swap so searches never see a half-built state.
func (pl *Planner) SetGrid(g *costgrid.Grid) {
	if g == nil {
		pl.terrain.Store(nil)
		return
	}
	pl.terrain.Store(&terrain{grid: g, regions: g.Regions(pl.cfg.Params.MaxElevationDiff)})
}

// Grid returns the current grid, or nil.
func (pl *Planner) Grid() *costgrid.Grid {
	if t := pl.terrain.Load(); t != nil {
		return t.grid
	}
	return nil
}

// Regions returns the region labelling of the current grid, or nil.
func (pl *Planner) Regions() *costgrid.Regions {
	if t := pl.terrain.Load(); t != nil {
		return t.regions
	}
	return nil
}

// Snapshot returns the current grid and its regions from the same swap;
// both are nil when no grid is loaded.
func (pl *Planner) Snapshot() (*costgrid.Grid, *costgrid.Regions) {
	if t := pl.terrain.Load(); t != nil {
		return t.grid, t.regions
	}
	return nil, nil
}

// ToCell maps a surface point to the nearest in-bounds cell of the current
// grid. It reports false when no grid is loaded.
func (pl *Planner) ToCell(p orb.Point) (costgrid.Cell, bool) {
	t := pl.terrain.Load()
	if t == nil {
		return costgrid.Cell{}, false
	}
	return pl.toCell(t.grid, p), true
}

// ToPoint maps a cell of the current grid to its surface point.
func (pl *Planner) ToPoint(c costgrid.Cell) (orb.Point, bool) {
	t := pl.terrain.Load()
	if t == nil {
		return orb.Point{}, false
	}
	return pl.toPoint(t.grid, c), true
}

// toCell scales each axis by cells/surface and clamps into [0, n-1].
func (pl *Planner) toCell(g *costgrid.Grid, p orb.Point) costgrid.Cell {
	w, h := g.Dimensions()
	return costgrid.Cell{
		Row: clampIndex(p.Y()*float64(h)/pl.cfg.SurfaceHeight, h),
		Col: clampIndex(p.X()*float64(w)/pl.cfg.SurfaceWidth, w),
	}
}

func (pl *Planner) toPoint(g *costgrid.Grid, c costgrid.Cell) orb.Point {
	w, h := g.Dimensions()
	return orb.Point{
		float64(c.Col) * pl.cfg.SurfaceWidth / float64(w),
		float64(c.Row) * pl.cfg.SurfaceHeight / float64(h),
	}
}

func clampIndex(v float64, n int) int {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v >= float64(n-1) {
		return n - 1
	}
	return int(v)
}

// Plan routes from one surface point to another.
//
// With terrain loaded, both points are mapped to cells and searched; the
// route starts at from itself, followed by the surface points of every
// path cell after the start cell. Without terrain, or when the search finds
// no path, the configured fallback route is returned with a nil error.
// Search errors (cancellation, budget) are returned as-is.
func (pl *Planner) Plan(ctx context.Context, from, to orb.Point) (Route, error) {
	t := pl.terrain.Load()
	if t == nil {
		return pl.fallback(from, to, 0), nil
	}

	start, goal := pl.toCell(t.grid, from), pl.toCell(t.grid, to)
	opts := []astar.Option{
		astar.WithParams(pl.cfg.Params),
		astar.WithContext(ctx),
		astar.WithRegions(t.regions),
	}
	if pl.cfg.MaxExpansions > 0 {
		opts = append(opts, astar.WithMaxExpansions(pl.cfg.MaxExpansions))
	}
	path, err := astar.FindPath(t.grid, start, goal, opts...)
	if err != nil {
		return Route{}, err
	}
	if !path.Found() {
		return pl.fallback(from, to, path.Expanded), nil
	}

	wp := make(orb.LineString, 0, len(path.Cells))
	wp = append(wp, from)
	for _, c := range path.Cells[1:] {
		wp = append(wp, pl.toPoint(t.grid, c))
	}
	return Route{
		Mode:      ModeTerrain,
		Waypoints: wp,
		Cells:     path.Cells,
		Cost:      path.Cost,
		Expanded:  path.Expanded,
	}, nil
}

func (pl *Planner) fallback(from, to orb.Point, expanded int) Route {
	if pl.cfg.Fallback == FallbackManhattan {
		return Route{
			Mode:      ModeManhattan,
			Waypoints: orb.LineString{from, {from.X(), to.Y()}, to},
			Expanded:  expanded,
		}
	}
	return Route{Mode: ModeDirect, Waypoints: orb.LineString{from, to}, Expanded: expanded}
}
