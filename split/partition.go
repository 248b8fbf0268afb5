package split

import (
	"fmt"

	"fortio.org/safecast"
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/pfamprep/core"
)

// Partition is a total, disjoint assignment of row indices [0, N) to the
// train, dev and test splits. Within each split, rows are grouped by
// ascending class id and sorted within a class.
type Partition struct {
	Train []int `msgpack:"train"`
	Dev   []int `msgpack:"dev"`
	Test  []int `msgpack:"test"`
}

// Len returns the number of rows covered by the partition.
func (p *Partition) Len() int {
	return len(p.Train) + len(p.Dev) + len(p.Test)
}

// Validate checks that the partition covers exactly [0, n) with pairwise
// disjoint splits.
func (p *Partition) Validate(n int) error {
	const op = "split: validate"

	if _, err := safecast.Conv[uint32](n); err != nil {
		return core.WrapInvalidInput(op, err)
	}
	if p.Len() != n {
		return core.NewInvalidInput(op, "partition holds %d rows, want %d", p.Len(), n)
	}

	sets := [3]struct {
		name string
		rows []int
		bm   *roaring.Bitmap
	}{
		{name: "train", rows: p.Train},
		{name: "dev", rows: p.Dev},
		{name: "test", rows: p.Test},
	}
	for i := range sets {
		bm, err := bitmapOf(sets[i].rows, n)
		if err != nil {
			return core.NewInvalidInput(op, "%s: %v", sets[i].name, err)
		}
		sets[i].bm = bm
	}

	for i := 0; i < len(sets); i++ {
		for j := i + 1; j < len(sets); j++ {
			if sets[i].bm.Intersects(sets[j].bm) {
				shared := roaring.And(sets[i].bm, sets[j].bm)
				return core.NewInvalidInput(op, "%s and %s share %d rows (first %d)",
					sets[i].name, sets[j].name, shared.GetCardinality(), shared.Minimum())
			}
		}
	}

	union := roaring.FastOr(sets[0].bm, sets[1].bm, sets[2].bm)
	if union.GetCardinality() != uint64(n) {
		return core.NewInvalidInput(op, "partition covers %d distinct rows, want %d", union.GetCardinality(), n)
	}
	return nil
}

// bitmapOf builds a bitmap of rows, rejecting out-of-range and repeated rows.
func bitmapOf(rows []int, n int) (*roaring.Bitmap, error) {
	bm := roaring.New()
	for _, r := range rows {
		if r < 0 || r >= n {
			return nil, fmt.Errorf("row %d out of range [0, %d)", r, n)
		}
		id, err := safecast.Conv[uint32](r)
		if err != nil {
			return nil, err
		}
		if !bm.CheckedAdd(id) {
			return nil, fmt.Errorf("row %d listed twice", r)
		}
	}
	return bm, nil
}
