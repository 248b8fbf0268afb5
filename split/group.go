package split

import (
	"cmp"
	"slices"
)

// groups is the class-grouped view of a label column. Rows of keys[g] are
// arena[offsets[g]:offsets[g+1]], in ascending row order.
type groups struct {
	keys    []int
	offsets []int
	arena   []int
}

func (g *groups) len() int { return len(g.keys) }

func (g *groups) rows(i int) []int { return g.arena[g.offsets[i]:g.offsets[i+1]] }

// denseLimit is the largest id for which the counting pass is used.
func denseLimit(n int) int { return 4*n + 1024 }

// groupByClass groups row indices by class id. ids must be non-negative and
// maxID must be their maximum.
func groupByClass(ids []int, maxID int) *groups {
	if maxID <= denseLimit(len(ids)) {
		return groupDense(ids, maxID)
	}
	return groupSparse(ids)
}

// groupDense is a counting sort over ids in [0, maxID]. O(N + maxID).
func groupDense(ids []int, maxID int) *groups {
	start := make([]int, maxID+2)
	for _, id := range ids {
		start[id+1]++
	}
	classes := 0
	for id := 0; id <= maxID; id++ {
		if start[id+1] > 0 {
			classes++
		}
		start[id+1] += start[id]
	}

	arena := make([]int, len(ids))
	next := make([]int, maxID+1)
	copy(next, start[:maxID+1])
	for row, id := range ids {
		arena[next[id]] = row
		next[id]++
	}

	g := &groups{
		keys:    make([]int, 0, classes),
		offsets: make([]int, 0, classes+1),
		arena:   arena,
	}
	for id := 0; id <= maxID; id++ {
		if start[id+1] > start[id] {
			g.keys = append(g.keys, id)
			g.offsets = append(g.offsets, start[id])
		}
	}
	g.offsets = append(g.offsets, len(ids))
	return g
}

// groupSparse sorts row indices by class id and segments runs. O(N log N).
func groupSparse(ids []int) *groups {
	arena := make([]int, len(ids))
	for i := range arena {
		arena[i] = i
	}
	slices.SortStableFunc(arena, func(a, b int) int {
		return cmp.Compare(ids[a], ids[b])
	})

	g := &groups{arena: arena}
	for i, row := range arena {
		if i == 0 || ids[row] != ids[arena[i-1]] {
			g.keys = append(g.keys, ids[row])
			g.offsets = append(g.offsets, i)
		}
	}
	g.offsets = append(g.offsets, len(ids))
	return g
}
