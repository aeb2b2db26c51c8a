package costgrid

import "math"

// Regions labels the connected components ("regions") of the 8-neighbour
// graph in which a move is allowed only when the absolute sample difference
// between the two cells is ≤ MaxDiff. Two cells share a label exactly when
// a cap-respecting walk connects them.
type Regions struct {
	// MaxDiff is the elevation cap the labelling was computed for.
	MaxDiff float64

	grid   *Grid
	labels []int32
	count  int
}

// Regions computes the region labelling for the given cap.
// Labels are assigned in row-major order of each region's first cell.
//
// Time:   O(W·H·8).
// Memory: O(W·H) for labels and the BFS queue.
func (g *Grid) Regions(maxDiff float64) *Regions {
	total := g.Len()
	labels := make([]int32, total)
	for i := range labels {
		labels[i] = -1
	}
	queue := make([]int, 0, 64)
	next := int32(0)

	for i0 := 0; i0 < total; i0++ {
		if labels[i0] >= 0 {
			continue
		}
		// BFS to flood the region
		labels[i0] = next
		queue = append(queue[:0], i0)
		for qi := 0; qi < len(queue); qi++ {
			u := queue[qi]
			cu := g.Coordinate(u)
			vu := g.values[u]
			for _, d := range neighborOffsets {
				vr, vc := cu.Row+d[0], cu.Col+d[1]
				if !g.InBounds(vr, vc) {
					continue
				}
				vi := g.index(vr, vc)
				if labels[vi] >= 0 || math.Abs(g.values[vi]-vu) > maxDiff {
					continue
				}
				labels[vi] = next
				queue = append(queue, vi)
			}
		}
		next++
	}

	return &Regions{MaxDiff: maxDiff, grid: g, labels: labels, count: int(next)}
}

// Count returns the number of regions.
func (rg *Regions) Count() int {
	return rg.count
}

// Label returns the region of c, or -1 when c is outside the grid.
func (rg *Regions) Label(c Cell) int {
	if !rg.grid.Contains(c) {
		return -1
	}
	return int(rg.labels[rg.grid.Index(c)])
}

// Connected reports whether a cap-respecting walk links a and b.
func (rg *Regions) Connected(a, b Cell) bool {
	la := rg.Label(a)
	return la >= 0 && la == rg.Label(b)
}

// Grid returns the grid the labelling was computed on.
func (rg *Regions) Grid() *Grid {
	return rg.grid
}
