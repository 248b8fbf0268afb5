// Package weights computes normalized inverse-frequency class weights over
// the training split.
//
// The weight of a class with c > 0 training rows is (1/c) / Σ(1/c') over all
// present classes; classes without training rows get exactly 0. The table
// is dense over [0, maxKnownID] so downstream code can index it by class id.
package weights

import (
	"github.com/hupe1980/pfamprep/core"
)

// Table maps class id to weight.
type Table []float64

// Compute builds the weight table for trainClassIDs with one entry for every
// id in [0, maxKnownID].
func Compute(trainClassIDs []int, maxKnownID int) (Table, error) {
	const op = "weights: compute"

	maxSeen := -1
	for row, id := range trainClassIDs {
		if id < 0 {
			return nil, core.NewInvalidInput(op, "row %d has negative class id %d", row, id)
		}
		maxSeen = max(maxSeen, id)
	}
	if maxKnownID < maxSeen {
		return nil, core.NewInvalidInput(op, "max known id %d is below training id %d", maxKnownID, maxSeen)
	}
	if maxKnownID < 0 {
		return Table{}, nil
	}
	if uint64(maxKnownID) >= core.MaxRows {
		return nil, core.NewInvalidInput(op, "max known id %d exceeds the limit of %d", maxKnownID, uint64(core.MaxRows)-1)
	}

	counts := make([]int, maxKnownID+1)
	for _, id := range trainClassIDs {
		counts[id]++
	}

	t := make(Table, maxKnownID+1)
	var sum float64
	for id, c := range counts {
		if c > 0 {
			t[id] = 1 / float64(c)
			sum += t[id]
		}
	}
	if sum == 0 {
		return t, nil
	}
	for id := range t {
		t[id] /= sum
	}
	return t, nil
}

// Len returns the number of ids in the table.
func (t Table) Len() int { return len(t) }

// Weight returns the weight of id, or 0 for ids outside the table.
func (t Table) Weight(id int) float64 {
	if id < 0 || id >= len(t) {
		return 0
	}
	return t[id]
}

// Sum returns the sum of all weights.
func (t Table) Sum() float64 {
	var s float64
	for _, w := range t {
		s += w
	}
	return s
}

// Present returns the number of ids with a nonzero weight.
func (t Table) Present() int {
	n := 0
	for _, w := range t {
		if w != 0 {
			n++
		}
	}
	return n
}
