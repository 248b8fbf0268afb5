package pfamprep

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"fortio.org/safecast"

	"github.com/hupe1980/pfamprep/blobstore"
	"github.com/hupe1980/pfamprep/codec"
	"github.com/hupe1980/pfamprep/core"
	"github.com/hupe1980/pfamprep/dataset"
	"github.com/hupe1980/pfamprep/internal/resource"
	"github.com/hupe1980/pfamprep/manifest"
	"github.com/hupe1980/pfamprep/split"
	"github.com/hupe1980/pfamprep/tokenize"
)

// Stage names used in logs, metrics and StageError.
const (
	StageIngest = "ingest"
	StageStage  = "stage"
	StageCurate = "curate"
)

// streamThreshold is the size from which uploads go through Create instead
// of a single Put.
const streamThreshold = 8 << 20

// Buckets are the stores the pipeline reads from and writes to.
type Buckets struct {
	Raw     blobstore.BlobStore
	Staging blobstore.BlobStore
	Curated blobstore.BlobStore
}

// Pipeline runs the ingest, stage and curate steps.
// A Pipeline is safe for concurrent use by stages touching different buckets.
type Pipeline struct {
	opts      options
	buckets   Buckets
	rc        *resource.Controller
	splitter  *split.Partitioner
	tokenizer *tokenize.Tokenizer
	manifests *manifest.Store
}

// New creates a Pipeline over buckets.
func New(buckets Buckets, optFns ...Option) (*Pipeline, error) {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}

	if buckets.Raw == nil || buckets.Staging == nil || buckets.Curated == nil {
		return nil, core.NewConfigurationError("buckets", "", fmt.Errorf("raw, staging and curated are required"))
	}
	if o.uploadLimit < 0 {
		return nil, core.NewConfigurationError("upload_limit", strconv.FormatInt(o.uploadLimit, 10), nil)
	}
	if strings.TrimSpace(o.rawName) == "" {
		return nil, core.NewConfigurationError("raw_name", o.rawName, nil)
	}
	workers, err := safecast.Convert[int64](o.workers)
	if err != nil {
		return nil, core.NewConfigurationError("workers", strconv.Itoa(o.workers), err)
	}

	splitter, err := split.New(
		split.WithSeed(o.seed),
		split.WithWorkers(o.workers),
		split.WithLogger(o.logger.Logger),
	)
	if err != nil {
		return nil, err
	}

	tokOpts := []tokenize.Option{
		tokenize.WithMaxLength(o.maxLength),
		tokenize.WithPadding(o.padding),
	}
	if o.vocab != nil {
		tokOpts = append(tokOpts, tokenize.WithVocabulary(o.vocab))
	}
	tok, err := tokenize.New(tokOpts...)
	if err != nil {
		return nil, err
	}

	buckets.Staging = blobstore.WithPrefix(buckets.Staging, o.prefix)
	buckets.Curated = blobstore.WithPrefix(buckets.Curated, o.prefix)

	return &Pipeline{
		opts:    o,
		buckets: buckets,
		rc: resource.NewController(resource.Config{
			Workers:           workers,
			UploadBytesPerSec: o.uploadLimit,
		}),
		splitter:  splitter,
		tokenizer: tok,
		manifests: manifest.NewStore(buckets.Staging),
	}, nil
}

// Seed returns the split seed.
func (p *Pipeline) Seed() int64 { return p.opts.seed }

// Manifests returns the manifest store of the staging bucket.
func (p *Pipeline) Manifests() *manifest.Store { return p.manifests }

// RunResult collects the results of a full run.
type RunResult struct {
	Ingest *IngestResult
	Stage  *StageResult
	Curate []*CurateResult
}

// Run executes ingest, stage and curate for every split.
func (p *Pipeline) Run(ctx context.Context, src blobstore.BlobStore) (*RunResult, error) {
	ing, err := p.Ingest(ctx, src)
	if err != nil {
		return nil, err
	}
	st, err := p.Stage(ctx)
	if err != nil {
		return &RunResult{Ingest: ing}, err
	}
	cur, err := p.Curate(ctx)
	if err != nil {
		return &RunResult{Ingest: ing, Stage: st}, err
	}
	return &RunResult{Ingest: ing, Stage: st, Curate: cur}, nil
}

// track runs fn as the named stage, logging and recording its outcome.
func (p *Pipeline) track(ctx context.Context, stage string, fn func(ctx context.Context, log *Logger) (int, error)) error {
	log := p.opts.logger.WithStage(stage)
	start := time.Now()

	rows, err := fn(ctx, log)
	elapsed := time.Since(start)

	err = stageError(stage, err)
	p.opts.metrics.RecordStage(stage, rows, elapsed, err)
	p.opts.logger.LogStage(ctx, stage, rows, elapsed, err)
	return err
}

// upload writes data to dst, throttled by the upload limit.
func (p *Pipeline) upload(ctx context.Context, log *Logger, dst blobstore.BlobStore, name string, data []byte) error {
	err := p.put(ctx, dst, name, data)
	log.LogUpload(ctx, name, len(data), err)
	if err != nil {
		return fmt.Errorf("upload %s: %w", name, err)
	}
	p.opts.metrics.RecordUpload(int64(len(data)))
	return nil
}

func (p *Pipeline) put(ctx context.Context, dst blobstore.BlobStore, name string, data []byte) error {
	if len(data) < streamThreshold {
		if err := p.rc.WaitUpload(ctx, len(data)); err != nil {
			return err
		}
		return dst.Put(ctx, name, data)
	}

	w, err := dst.Create(ctx, name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(resource.NewThrottledWriter(ctx, w, p.rc), bytes.NewReader(data)); err != nil {
		_ = w.Close()
		_ = dst.Delete(context.WithoutCancel(ctx), name)
		return err
	}
	return w.Close()
}

// encode renders an artifact through the configured codec.
func (p *Pipeline) encode(base string, fn func(io.Writer) error) (string, []byte, error) {
	name, data, err := dataset.EncodeBlob(base, p.opts.codec, fn)
	if err != nil {
		return "", nil, fmt.Errorf("encode %s: %w", base, err)
	}
	return name, data, nil
}

// findBlob returns the name under which base is stored, trying every codec
// suffix.
func findBlob(ctx context.Context, s blobstore.BlobStore, base string) (string, error) {
	for _, c := range []codec.Codec{codec.None, codec.Zstd, codec.LZ4} {
		name := codec.BlobName(base, c)
		ok, err := blobstore.Exists(ctx, s, name)
		if err != nil {
			return "", err
		}
		if ok {
			return name, nil
		}
	}
	return "", fmt.Errorf("%s: %w", base, blobstore.ErrNotFound)
}
