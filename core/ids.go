package core

import "math"

// MaxRows is the largest row count a partition can describe. Rows are
// tracked in 32-bit roaring bitmaps.
const MaxRows = math.MaxUint32
