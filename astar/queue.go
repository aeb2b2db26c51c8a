package astar

import "github.com/katalvlaran/terrapath/costgrid"

// nodeItem is one open-set entry. The same cell may appear several times;
// stale entries are discarded when popped (lazy deletion).
type nodeItem struct {
	f, g   float64       // priority and accumulated cost
	cell   costgrid.Cell // cell this entry would finalize
	parent int           // row-major index of the predecessor, -1 for the start
	seq    uint64        // insertion order, final tie-breaker
}

// nodePQ is a min-heap of *nodeItem ordered by
// (f asc, g asc, cell lexicographic asc, seq asc), which makes the output
// deterministic on tied inputs.
type nodePQ []*nodeItem

// Len returns the number of items in the heap.
func (pq nodePQ) Len() int { return len(pq) }

// Less implements the (f, g, cell, seq) ordering.
func (pq nodePQ) Less(i, j int) bool {
	a, b := pq[i], pq[j]
	if a.f != b.f {
		return a.f < b.f
	}
	if a.g != b.g {
		return a.g < b.g
	}
	if a.cell != b.cell {
		return a.cell.Less(b.cell)
	}
	return a.seq < b.seq
}

// Swap swaps two elements in the heap.
func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

// Push adds a new element x onto the heap.
// Called by heap.Push; x must be of type *nodeItem.
func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(*nodeItem)) }

// Pop removes and returns the smallest element from the heap.
func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]

	return item
}
