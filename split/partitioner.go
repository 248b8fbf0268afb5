package split

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strconv"

	"github.com/hupe1980/pfamprep/core"
	"github.com/hupe1980/pfamprep/internal/hash"
	"github.com/hupe1980/pfamprep/labels"
	"golang.org/x/sync/errgroup"
)

type options struct {
	seed    int64
	workers int
	logger  *slog.Logger
}

// Option configures a Partitioner.
type Option func(*options)

// WithSeed sets the seed of the randomized branch. Defaults to DefaultSeed.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithWorkers sets how many goroutines apply the per-class policy.
// 0 and 1 both mean sequential.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Partitioner assigns rows to train, dev and test per class.
// A Partitioner is immutable and safe for concurrent use.
type Partitioner struct {
	seed    int64
	workers int
	logger  *slog.Logger
}

// New creates a Partitioner.
func New(optFns ...Option) (*Partitioner, error) {
	o := options{
		seed:    DefaultSeed,
		workers: 1,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, fn := range optFns {
		fn(&o)
	}

	if o.workers < 0 {
		return nil, core.NewConfigurationError("workers", strconv.Itoa(o.workers), nil)
	}
	if o.workers == 0 {
		o.workers = 1
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	return &Partitioner{seed: o.seed, workers: o.workers, logger: o.logger}, nil
}

// Seed returns the configured seed.
func (p *Partitioner) Seed() int64 { return p.seed }

// Partition splits rows by their dense class ids.
func (p *Partitioner) Partition(ctx context.Context, classIDs []int) (*Partition, error) {
	const op = "split: partition"

	if len(classIDs) == 0 {
		return nil, core.NewInvalidInput(op, "no rows")
	}
	if uint64(len(classIDs)) > core.MaxRows {
		return nil, core.NewInvalidInput(op, "%d rows exceed the limit of %d", len(classIDs), uint64(core.MaxRows))
	}

	maxID := 0
	for row, id := range classIDs {
		if id < 0 {
			return nil, core.NewInvalidInput(op, "row %d has negative class id %d", row, id)
		}
		maxID = max(maxID, id)
	}

	g := groupByClass(classIDs, maxID)

	// Split sizes depend only on class counts, so every class gets a fixed
	// window in each output slice before any work is scheduled.
	n := g.len()
	trainAt := make([]int, n+1)
	devAt := make([]int, n+1)
	testAt := make([]int, n+1)
	for i := range n {
		count := g.offsets[i+1] - g.offsets[i]
		if count == 0 {
			return nil, core.NewInvalidInput(op, "class %d has no rows", g.keys[i])
		}
		tr, dv, ts := Sizes(count)
		trainAt[i+1] = trainAt[i] + tr
		devAt[i+1] = devAt[i] + dv
		testAt[i+1] = testAt[i] + ts
	}

	out := &Partition{
		Train: make([]int, trainAt[n]),
		Dev:   make([]int, devAt[n]),
		Test:  make([]int, testAt[n]),
	}

	apply := func(i int) {
		rows := g.rows(i)
		if shuffled(len(rows)) {
			s1, s2 := hash.SubStream(p.seed, uint64(g.keys[i]))
			r := rand.New(rand.NewPCG(s1, s2))
			r.Shuffle(len(rows), func(a, b int) { rows[a], rows[b] = rows[b], rows[a] })
		}
		tr := trainAt[i+1] - trainAt[i]
		dv := devAt[i+1] - devAt[i]
		place(out.Train[trainAt[i]:trainAt[i+1]], rows[:tr])
		place(out.Dev[devAt[i]:devAt[i+1]], rows[tr:tr+dv])
		place(out.Test[testAt[i]:testAt[i+1]], rows[tr+dv:])
	}

	if err := p.run(ctx, n, apply); err != nil {
		return nil, err
	}

	p.logger.DebugContext(ctx, "partition built",
		"rows", len(classIDs),
		"classes", n,
		"train", len(out.Train),
		"dev", len(out.Dev),
		"test", len(out.Test),
		"seed", p.seed,
	)
	return out, nil
}

// PartitionLabels encodes raw labels with labels.Encode and partitions the
// resulting ids.
func (p *Partitioner) PartitionLabels(ctx context.Context, raw []string) (*Partition, error) {
	if len(raw) == 0 {
		return nil, core.NewInvalidInput("split: partition", "no rows")
	}
	enc, err := labels.Fit(raw)
	if err != nil {
		return nil, err
	}
	ids, err := enc.Transform(raw)
	if err != nil {
		return nil, err
	}
	return p.Partition(ctx, ids)
}

// run calls fn for every group index, on up to p.workers goroutines.
func (p *Partitioner) run(ctx context.Context, n int, fn func(int)) error {
	if p.workers <= 1 || n < 2*p.workers {
		for i := range n {
			if i%4096 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			fn(i)
		}
		return nil
	}

	chunk := max(1, n/(p.workers*4))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(p.workers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(n, lo+chunk)
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				fn(i)
			}
			return nil
		})
	}
	return eg.Wait()
}

// place copies rows into dst in ascending order.
func place(dst, rows []int) {
	copy(dst, rows)
	slices.Sort(dst)
}

// Split partitions classIDs with a sequential Partitioner seeded with seed.
func Split(classIDs []int, seed int64) (*Partition, error) {
	p, err := New(WithSeed(seed))
	if err != nil {
		return nil, err
	}
	return p.Partition(context.Background(), classIDs)
}
