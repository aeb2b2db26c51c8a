package astar

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/katalvlaran/terrapath/costgrid"
)

// Field is the result of CostField: the minimum cost from one source cell to
// every cell reachable under the elevation cap.
type Field struct {
	grid   *costgrid.Grid
	source costgrid.Cell
	dist   []float64 // +Inf for unreachable cells
	prev   []int     // predecessor on a cheapest path, -1 for source/unreachable
	count  int
}

// CostField runs Dijkstra's algorithm from source over the same search graph
// and edge costs as FindPath, without a goal or heuristic.
//
// Ctx, OnExpand and MaxExpansions options are honoured; Regions is ignored.
// Errors: ErrNilGrid, ErrBadParams, ErrInvalidCoordinate, ctx errors, hook
// errors and ErrBudgetExceeded.
//
// Complexity:
//
//   - Time:  O(N log N), N = W×H.
//   - Space: O(N).
func CostField(g *costgrid.Grid, source costgrid.Cell, opts ...Option) (*Field, error) {
	// 1) Build and validate options
	cfg := buildOptions(opts)
	if g == nil {
		return nil, ErrNilGrid
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := checkCell(g, "source", source); err != nil {
		return nil, err
	}

	// 2) dist[v] = +∞, prev[v] = -1
	n := g.Len()
	f := &Field{
		grid:   g,
		source: source,
		dist:   make([]float64, n),
		prev:   make([]int, n),
	}
	for i := range f.dist {
		f.dist[i] = math.Inf(1)
		f.prev[i] = -1
	}
	visited := make([]bool, n)

	// 3) Seed the heap with the source at distance 0.
	s := g.Index(source)
	f.dist[s] = 0
	pq := make(nodePQ, 0, 64)
	var seq uint64
	heap.Push(&pq, &nodeItem{cell: source, parent: -1})

	for pq.Len() > 0 {
		select {
		case <-cfg.Ctx.Done():
			return nil, cfg.Ctx.Err()
		default:
		}

		item := heap.Pop(&pq).(*nodeItem)
		u := g.Index(item.cell)
		if visited[u] {
			continue
		}
		// Budget: a fresh cell is waiting but the allowance is spent.
		if cfg.MaxExpansions > 0 && f.count >= cfg.MaxExpansions {
			return nil, fmt.Errorf("%w: %d cells finalized", ErrBudgetExceeded, f.count)
		}
		visited[u] = true
		f.count++
		if cfg.OnExpand != nil {
			if err := cfg.OnExpand(item.cell, item.g); err != nil {
				return nil, err
			}
		}

		// 4) Relax: strictly shorter distances only, lazy decrease-key.
		for _, d := range g.NeighborOffsets() {
			v := costgrid.Cell{Row: item.cell.Row + d[0], Col: item.cell.Col + d[1]}
			if !g.Contains(v) {
				continue
			}
			vi := g.Index(v)
			if visited[vi] {
				continue
			}
			w, ok := moveCost(g, item.cell, v, d[0] != 0 && d[1] != 0, cfg.Params)
			if !ok {
				continue
			}
			nd := item.g + w
			if nd >= f.dist[vi] {
				continue
			}
			f.dist[vi] = nd
			f.prev[vi] = u
			seq++
			heap.Push(&pq, &nodeItem{f: nd, g: nd, cell: v, parent: u, seq: seq})
		}
	}

	return f, nil
}

// Source returns the cell the field was computed from.
func (f *Field) Source() costgrid.Cell {
	return f.source
}

// Reachable returns the number of cells reachable from the source
// (including the source).
func (f *Field) Reachable() int {
	return f.count
}

// Cost returns the minimum cost from the source to c and whether c is
// reachable. Out-of-bounds cells are unreachable.
func (f *Field) Cost(c costgrid.Cell) (float64, bool) {
	if !f.grid.Contains(c) {
		return math.Inf(1), false
	}
	d := f.dist[f.grid.Index(c)]
	return d, !math.IsInf(d, 1)
}

// PathTo returns a cheapest path from the source to c, or nil if c is
// unreachable.
func (f *Field) PathTo(c costgrid.Cell) []costgrid.Cell {
	if _, ok := f.Cost(c); !ok {
		return nil
	}
	var rev []costgrid.Cell
	for at := f.grid.Index(c); at >= 0; at = f.prev[at] {
		rev = append(rev, f.grid.Coordinate(at))
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}
