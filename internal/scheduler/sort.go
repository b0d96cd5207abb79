package scheduler

import (
	"container/heap"
	"fmt"
	"slices"

	"github.com/vk/gridflow/internal/flowerr"
)

// DetectCycles searches the dependency lists for a cycle using a three-colour
// depth-first search. deps[i] holds the indices node i depends on. The
// returned path starts and ends with the same index, e.g. [2 0 2].
func DetectCycles(deps [][]int) ([]int, bool) {
	const (
		white = iota // unvisited
		gray         // on the current path
		black        // fully explored, not part of a cycle
	)
	color := make([]int, len(deps))
	var path []int

	var visit func(v int) []int
	visit = func(v int) []int {
		color[v] = gray
		path = append(path, v)
		for _, d := range deps[v] {
			switch color[d] {
			case gray:
				start := slices.Index(path, d)
				cycle := slices.Clone(path[start:])
				return append(cycle, d)
			case white:
				if cycle := visit(d); cycle != nil {
					return cycle
				}
			}
		}
		path = path[:len(path)-1]
		color[v] = black
		return nil
	}

	for v := range deps {
		if color[v] == white {
			if cycle := visit(v); cycle != nil {
				return cycle, true
			}
		}
	}
	return nil, false
}

// Sort returns a topological order of the nodes described by deps. Among
// nodes that are ready at the same time the lowest index comes first, so the
// result is deterministic for a given insertion order.
func Sort(deps [][]int) ([]int, error) {
	n := len(deps)
	pending := make([]int, n)
	dependents := make([][]int, n)
	for v, ds := range deps {
		pending[v] = len(ds)
		for _, d := range ds {
			if d < 0 || d >= n {
				return nil, fmt.Errorf("%w: index %d out of range", flowerr.ErrDangling, d)
			}
			dependents[d] = append(dependents[d], v)
		}
	}

	ready := &indexHeap{}
	for v := range n {
		if pending[v] == 0 {
			heap.Push(ready, v)
		}
	}

	order := make([]int, 0, n)
	for ready.Len() > 0 {
		v := heap.Pop(ready).(int)
		order = append(order, v)
		for _, dep := range dependents[v] {
			pending[dep]--
			if pending[dep] == 0 {
				heap.Push(ready, dep)
			}
		}
	}

	if len(order) != n {
		return nil, fmt.Errorf("%w: %d of %d nodes could not be ordered", flowerr.ErrCycle, n-len(order), n)
	}
	return order, nil
}

// indexHeap is a min-heap of node indices.
type indexHeap []int

func (h indexHeap) Len() int           { return len(h) }
func (h indexHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h indexHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *indexHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *indexHeap) Pop() any {
	old := *h
	v := old[len(old)-1]
	*h = old[:len(old)-1]
	return v
}
