package network

import (
	"fmt"

	"github.com/aretw0/bayesnet/pkg/domain"
)

// TopologicalSort orders vertices 0..len(parents)-1 so that every vertex comes
// after all of its parents, using Kahn's algorithm over indices.
//
// parents[i] lists the parent indices of vertex i. Zero in-degree vertices are
// released in index order, so the result is deterministic.
//
// If a cycle exists the partial order is returned together with the indices
// still holding outstanding in-degree and an error wrapping domain.ErrNotDAG.
func TopologicalSort(parents [][]int) (order []int, blocked []int, err error) {
	n := len(parents)
	inDegree := make([]int, n)
	children := make([][]int, n)
	for i, ps := range parents {
		inDegree[i] = len(ps)
		for _, p := range ps {
			if p < 0 || p >= n {
				return nil, nil, fmt.Errorf("vertex %d names parent %d outside [0,%d)", i, p, n)
			}
			children[p] = append(children[p], i)
		}
	}

	queue := make([]int, 0, n)
	for i, d := range inDegree {
		if d == 0 {
			queue = append(queue, i)
		}
	}

	order = make([]int, 0, n)
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		order = append(order, v)

		for _, c := range children[v] {
			inDegree[c]--
			if inDegree[c] == 0 {
				queue = append(queue, c)
			}
		}
	}

	if len(order) == n {
		return order, nil, nil
	}

	for i, d := range inDegree {
		if d > 0 {
			blocked = append(blocked, i)
		}
	}
	return order, blocked, fmt.Errorf("%w: %d of %d vertices are on or behind a cycle", domain.ErrNotDAG, len(blocked), n)
}
