// Package astar implements an elevation-constrained A* search over a
// costgrid.Grid.
//
// The search graph is the 8-connected grid with every move whose absolute
// elevation change exceeds MaxElevationDiff removed. Remaining moves cost
//
//	base (1 or √2) + (1 - normalized terrain)·TerrainWeight + (|Δ|/cap)·ElevationWeight
//
// and the heuristic is the Euclidean distance to the goal in cell units.
// Since every move costs at least its own length the heuristic is consistent,
// so each cell is finalized at most once with its minimum cost.
//
// Complexity:
//
//   - Time:  O(N log N) where N = W×H (up to 8 heap pushes per finalized cell).
//   - Space: O(N) for closed flags, predecessors and the heap.
//
// Notes on implementation choices:
//
//   - Lazy deletion: duplicates are pushed and stale entries skipped at pop.
//   - Back-pointers: a cell's predecessor is fixed when it is finalized and
//     the path is rebuilt once at goal pop.
//   - Ties break on (f, g, cell row/col, insertion order), so equal inputs
//     always yield the same path.
package astar

import (
	"container/heap"
	"fmt"

	"github.com/katalvlaran/terrapath/costgrid"
)

// FindPath searches for a minimum-cost path from start to goal on g.
//
// Returns:
//
//   - Path with Cells = [start, …, goal] and its Cost when the goal is reachable.
//   - Path with Cells = nil (Found() == false) and a nil error when it is not.
//   - A non-nil error only for contract violations, cancellation, a hook
//     error or an exhausted expansion budget; the Path is then empty.
//
// Preconditions and validation (in order):
//  1. g must be non-nil (ErrNilGrid).
//  2. Parameters must be valid (ErrBadParams).
//  3. start and goal must lie within g (ErrInvalidCoordinate).
//  4. Regions, if given, must match g and MaxElevationDiff (ErrRegionsMismatch).
func FindPath(g *costgrid.Grid, start, goal costgrid.Cell, opts ...Option) (Path, error) {
	// 1) Build options
	cfg := buildOptions(opts)

	// 2) Validate inputs; the caller clamps coordinates, we never do.
	if g == nil {
		return Path{}, ErrNilGrid
	}
	if err := cfg.Validate(); err != nil {
		return Path{}, err
	}
	if err := checkCell(g, "start", start); err != nil {
		return Path{}, err
	}
	if err := checkCell(g, "goal", goal); err != nil {
		return Path{}, err
	}

	// 3) Optional O(1) reachability short-circuit.
	if rg := cfg.Regions; rg != nil {
		if rg.Grid() != g || rg.MaxDiff != cfg.MaxElevationDiff {
			return Path{}, ErrRegionsMismatch
		}
		if !rg.Connected(start, goal) {
			return Path{}, nil
		}
	}

	// 4) Allocate per-call state and run.
	r := newRunner(g, goal, cfg)
	r.push(start, 0, 0, -1)

	return r.process()
}

// checkCell wraps both ErrInvalidCoordinate and costgrid.ErrOutOfBounds.
func checkCell(g *costgrid.Grid, role string, c costgrid.Cell) error {
	if _, err := g.ValueAt(c.Row, c.Col); err != nil {
		return fmt.Errorf("%w: %s %w", ErrInvalidCoordinate, role, err)
	}
	return nil
}

// runner holds the mutable state for a single search. Nothing in it
// outlives the FindPath call.
type runner struct {
	g        *costgrid.Grid // read-only for the duration of the search
	goal     costgrid.Cell
	options  Options
	closed   []bool // finalized cells, row-major
	parent   []int  // predecessor of each finalized cell, -1 for start
	pq       nodePQ
	seq      uint64
	expanded int
}

func newRunner(g *costgrid.Grid, goal costgrid.Cell, cfg Options) *runner {
	n := g.Len()
	parent := make([]int, n)
	for i := range parent {
		parent[i] = -1
	}
	r := &runner{
		g:       g,
		goal:    goal,
		options: cfg,
		closed:  make([]bool, n),
		parent:  parent,
		pq:      make(nodePQ, 0, 64),
	}
	heap.Init(&r.pq)
	return r
}

func (r *runner) push(c costgrid.Cell, f, g float64, parent int) {
	r.seq++
	heap.Push(&r.pq, &nodeItem{f: f, g: g, cell: c, parent: parent, seq: r.seq})
}

// process is the main pop/expand loop.
//
// Loop termination conditions:
//
//   - The goal is popped (path found).
//   - The heap becomes empty (no path).
//   - The context is done, the hook fails, or the budget is exhausted (error).
func (r *runner) process() (Path, error) {
	ctx := r.options.Ctx
	for r.pq.Len() > 0 {
		// 1) Cooperative cancellation, once per iteration.
		select {
		case <-ctx.Done():
			return Path{}, ctx.Err()
		default:
		}

		// 2) Pop the best entry; skip it if its cell is already final.
		item := heap.Pop(&r.pq).(*nodeItem)
		u := r.g.Index(item.cell)
		if r.closed[u] {
			continue
		}

		// 3) Finalize: the predecessor is fixed from here on.
		r.closed[u] = true
		r.parent[u] = item.parent
		r.expanded++
		if r.options.OnExpand != nil {
			if err := r.options.OnExpand(item.cell, item.g); err != nil {
				return Path{}, err
			}
		}

		// 4) Goal check happens after finalizing, so the path includes the goal.
		if item.cell == r.goal {
			return Path{Cells: r.reconstruct(u), Cost: item.g, Expanded: r.expanded}, nil
		}

		if max := r.options.MaxExpansions; max > 0 && r.expanded >= max {
			return Path{}, fmt.Errorf("%w: %d cells finalized", ErrBudgetExceeded, r.expanded)
		}

		// 5) Push every legal, not-yet-final neighbour.
		r.expand(item)
	}

	// 6) Frontier exhausted without reaching the goal.
	return Path{Expanded: r.expanded}, nil
}

// expand pushes the neighbours of a just-finalized entry.
func (r *runner) expand(item *nodeItem) {
	u := r.g.Index(item.cell)
	for _, d := range r.g.NeighborOffsets() {
		v := costgrid.Cell{Row: item.cell.Row + d[0], Col: item.cell.Col + d[1]}
		if !r.g.Contains(v) || r.closed[r.g.Index(v)] {
			continue
		}
		// Pruned moves are non-edges, not expensive edges.
		w, ok := moveCost(r.g, item.cell, v, d[0] != 0 && d[1] != 0, r.options.Params)
		if !ok {
			continue
		}
		newG := item.g + w
		r.push(v, newG+heuristic(v, r.goal), newG, u)
	}
}

// reconstruct walks predecessors from the finalized goal back to the start.
func (r *runner) reconstruct(goal int) []costgrid.Cell {
	n := 0
	for at := goal; at >= 0; at = r.parent[at] {
		n++
	}
	path := make([]costgrid.Cell, n)
	for at := goal; at >= 0; at = r.parent[at] {
		n--
		path[n] = r.g.Coordinate(at)
	}
	return path
}
