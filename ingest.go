package pfamprep

import (
	"context"
	"io"

	"github.com/hupe1980/pfamprep/blobstore"
	"github.com/hupe1980/pfamprep/core"
	"github.com/hupe1980/pfamprep/dataset"
)

// IngestResult describes the combined raw table.
type IngestResult struct {
	Shards int
	Rows   int
	Blob   string
	Bytes  int
}

// Ingest combines the headerless shards under src/{train,dev,test}/ into one
// raw table and uploads it to the raw bucket.
func (p *Pipeline) Ingest(ctx context.Context, src blobstore.BlobStore) (*IngestResult, error) {
	var res *IngestResult
	err := p.track(ctx, StageIngest, func(ctx context.Context, log *Logger) (int, error) {
		names, err := dataset.FindShards(ctx, src)
		if err != nil {
			return 0, err
		}
		if len(names) == 0 {
			return 0, core.NewInvalidInput("ingest", "no shards found under %v", dataset.Splits)
		}
		log.DebugContext(ctx, "shards found", "count", len(names))

		records, err := dataset.LoadShards(ctx, src, names, p.rc)
		if err != nil {
			return 0, err
		}

		name, data, err := p.encode(p.opts.rawName, func(w io.Writer) error {
			return dataset.WriteRecords(w, records)
		})
		if err != nil {
			return 0, err
		}
		if err := p.upload(ctx, log, p.buckets.Raw, name, data); err != nil {
			return 0, err
		}

		res = &IngestResult{Shards: len(names), Rows: len(records), Blob: name, Bytes: len(data)}
		return len(records), nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
