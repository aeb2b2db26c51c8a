// Package astar defines the types and configuration options for the
// elevation-constrained A* search over a costgrid.Grid.
//
// Options:
//
//	– MaxElevationDiff: moves whose |Δelevation| exceeds this are removed
//	                    from the search graph (default 20).
//	– TerrainWeight:    scales the penalty for entering low-value terrain
//	                    (default 5.0).
//	– ElevationWeight:  scales the penalty for elevation change that passes
//	                    the cap (default 10.0).
//	– Ctx:              cooperative cancellation, checked once per pop.
//	– OnExpand:         hook invoked each time a cell is finalized.
//	– Regions:          precomputed costgrid.Regions for an O(1)
//	                    unreachable-goal short circuit.
//	– MaxExpansions:    optional cap on finalized cells.
//
// Errors (sentinel):
//
//	– ErrNilGrid            if the grid pointer is nil.
//	– ErrInvalidCoordinate  if start, goal or source lies outside the grid.
//	– ErrBadParams          if MaxElevationDiff <= 0 or a weight is negative/NaN.
//	– ErrRegionsMismatch    if Regions was built for another grid or cap.
//	– ErrBudgetExceeded     if MaxExpansions is hit before the goal.
//	– ErrDisconnectedPath   from PathCost when a step is not a legal move.
//
// "No path" is not an error: FindPath returns a Path whose Found() is false.
package astar

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/terrapath/costgrid"
)

// Sentinel errors returned by the search.
var (
	// ErrNilGrid indicates that a nil *costgrid.Grid was passed.
	ErrNilGrid = errors.New("astar: grid is nil")

	// ErrInvalidCoordinate indicates that a start, goal or source cell lies
	// outside the grid. It always wraps costgrid.ErrOutOfBounds as well.
	ErrInvalidCoordinate = errors.New("astar: invalid coordinate")

	// ErrBadParams indicates non-positive MaxElevationDiff or a negative or
	// non-finite weight.
	ErrBadParams = errors.New("astar: invalid search parameters")

	// ErrRegionsMismatch indicates Regions computed for a different grid or cap.
	ErrRegionsMismatch = errors.New("astar: regions do not match grid and elevation cap")

	// ErrBudgetExceeded indicates the search finalized MaxExpansions cells
	// without reaching the goal.
	ErrBudgetExceeded = errors.New("astar: expansion budget exceeded")

	// ErrDisconnectedPath indicates consecutive path cells that are not a
	// legal move under the given parameters.
	ErrDisconnectedPath = errors.New("astar: path contains an illegal move")
)

// Default parameter values.
const (
	DefaultMaxElevationDiff = 20.0
	DefaultTerrainWeight    = 5.0
	DefaultElevationWeight  = 10.0
)

// Params holds the three cost-model knobs.
type Params struct {
	MaxElevationDiff float64 `json:"max_elevation_diff"`
	TerrainWeight    float64 `json:"terrain_weight"`
	ElevationWeight  float64 `json:"elevation_weight"`
}

// DefaultParams returns {20, 5.0, 10.0}.
func DefaultParams() Params {
	return Params{
		MaxElevationDiff: DefaultMaxElevationDiff,
		TerrainWeight:    DefaultTerrainWeight,
		ElevationWeight:  DefaultElevationWeight,
	}
}

// Validate reports ErrBadParams for a non-positive cap or a negative or
// non-finite weight.
func (p Params) Validate() error {
	switch {
	case !(p.MaxElevationDiff > 0) || math.IsInf(p.MaxElevationDiff, 0):
		return fmt.Errorf("%w: max_elevation_diff=%v must be positive and finite", ErrBadParams, p.MaxElevationDiff)
	case !(p.TerrainWeight >= 0) || math.IsInf(p.TerrainWeight, 0):
		return fmt.Errorf("%w: terrain_weight=%v must be non-negative and finite", ErrBadParams, p.TerrainWeight)
	case !(p.ElevationWeight >= 0) || math.IsInf(p.ElevationWeight, 0):
		return fmt.Errorf("%w: elevation_weight=%v must be non-negative and finite", ErrBadParams, p.ElevationWeight)
	}
	return nil
}

// Options configures a single search.
type Options struct {
	Params

	// Ctx allows cancellation or timeouts; defaults to context.Background().
	Ctx context.Context

	// OnExpand, if non-nil, is invoked after a cell is finalized with its
	// accumulated cost. Returning an error aborts the search with that error.
	OnExpand func(c costgrid.Cell, g float64) error

	// Regions, if non-nil, must be computed on the searched grid with the
	// same MaxElevationDiff; start/goal in different regions short-circuit
	// to "no path".
	Regions *costgrid.Regions

	// MaxExpansions, if positive, bounds the number of finalized cells.
	MaxExpansions int
}

// Option represents a functional option for configuring a search.
type Option func(*Options)

// DefaultOptions returns DefaultParams, a background context, no hook,
// no regions and no expansion budget.
func DefaultOptions() Options {
	return Options{
		Params: DefaultParams(),
		Ctx:    context.Background(),
	}
}

// WithMaxElevationDiff sets the hard per-move elevation cap.
// Panics if d <= 0, since the cap also normalizes the elevation penalty.
func WithMaxElevationDiff(d float64) Option {
	if !(d > 0) {
		panic("astar: WithMaxElevationDiff(d<=0)")
	}
	return func(o *Options) {
		o.MaxElevationDiff = d
	}
}

// WithTerrainWeight sets the low-terrain penalty scale. Panics if w < 0.
func WithTerrainWeight(w float64) Option {
	if !(w >= 0) {
		panic("astar: WithTerrainWeight(w<0)")
	}
	return func(o *Options) {
		o.TerrainWeight = w
	}
}

// WithElevationWeight sets the elevation-change penalty scale. Panics if w < 0.
func WithElevationWeight(w float64) Option {
	if !(w >= 0) {
		panic("astar: WithElevationWeight(w<0)")
	}
	return func(o *Options) {
		o.ElevationWeight = w
	}
}

// WithParams replaces all three cost parameters at once. Unlike the single
// setters it does not panic: values usually come from configuration or a
// request body, so they are validated when the search starts.
func WithParams(p Params) Option {
	return func(o *Options) {
		o.Params = p
	}
}

// WithContext sets the cancellation context. A nil ctx has no effect.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithOnExpand installs a hook called once per finalized cell.
func WithOnExpand(fn func(c costgrid.Cell, g float64) error) Option {
	return func(o *Options) {
		o.OnExpand = fn
	}
}

// WithRegions supplies a precomputed region labelling.
func WithRegions(rg *costgrid.Regions) Option {
	return func(o *Options) {
		o.Regions = rg
	}
}

// WithMaxExpansions bounds the number of finalized cells. Panics if n < 0;
// zero means unbounded.
func WithMaxExpansions(n int) Option {
	if n < 0 {
		panic("astar: WithMaxExpansions(n<0)")
	}
	return func(o *Options) {
		o.MaxExpansions = n
	}
}

// Path is the result of FindPath.
type Path struct {
	// Cells runs from start to goal inclusive; nil when no path exists.
	Cells []costgrid.Cell
	// Cost is the accumulated move cost of the goal (0 for start == goal).
	Cost float64
	// Expanded counts the cells finalized by the search.
	Expanded int
}

// Found reports whether the search reached the goal.
func (p Path) Found() bool {
	return len(p.Cells) > 0
}

// Len returns the number of cells on the path.
func (p Path) Len() int {
	return len(p.Cells)
}

func buildOptions(opts []Option) Options {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
