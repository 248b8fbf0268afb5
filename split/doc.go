// Package split builds the stratified train/dev/test partition of a labelled
// table.
//
// Every class is split on its own, by a rule that depends only on how many
// rows the class has:
//
//	count  train  dev         test
//	1      0      0           1
//	2      0      1 (first)   1 (second)
//	3      1      1           1           (in row order)
//	n≥4    ⌈n/3⌉  ⌊(n-⌈n/3⌉)/2⌋ rest      (after a seeded shuffle)
//
// So every class reaches test, and every class with three or more rows
// reaches train. The shuffle for a class is drawn from its own PCG stream
// derived from (seed, class id), which makes a class's assignment
// independent of every other class and of the worker count.
//
// # Usage
//
//	p, err := split.New(split.WithSeed(42), split.WithWorkers(4))
//	if err != nil { ... }
//	part, err := p.Partition(ctx, classIDs)
//	if err != nil { ... }
//	train, dev, test := part.Train, part.Dev, part.Test
//
// Row indices are grouped with a counting pass when class ids are dense and
// with a stable sort otherwise; the per-class step is plain slice
// arithmetic over one shared index arena.
package split
