package dataset

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/pfamprep/blobstore"
	"github.com/hupe1980/pfamprep/internal/resource"
)

// Splits are the input subdirectories scanned for shards, in concatenation
// order.
var Splits = []string{"train", "dev", "test"}

// IsShard reports whether a file name denotes a raw shard.
func IsShard(name string) bool {
	base := path.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return strings.HasSuffix(base, ".csv") || strings.Contains(base, "data-")
}

// FindShards lists the shards directly below each split directory of src.
// Names are grouped by split in Splits order and sorted within a split.
func FindShards(ctx context.Context, src blobstore.BlobStore) ([]string, error) {
	var shards []string
	for _, split := range Splits {
		names, err := src.List(ctx, split+"/")
		if err != nil {
			return nil, fmt.Errorf("dataset: list %s: %w", split, err)
		}
		for _, name := range names {
			rest := strings.TrimPrefix(name, split+"/")
			if strings.Contains(rest, "/") || !IsShard(rest) {
				continue
			}
			shards = append(shards, name)
		}
	}
	return shards, nil
}

// LoadShards reads the named shards concurrently and concatenates them in
// the order of names. rc bounds the number of shards read at once.
func LoadShards(ctx context.Context, src blobstore.BlobStore, names []string, rc *resource.Controller) ([]Record, error) {
	parts := make([][]Record, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		if err := rc.Acquire(gctx); err != nil {
			break
		}
		g.Go(func() error {
			defer rc.Release()

			data, err := ReadBlob(gctx, src, name)
			if err != nil {
				return fmt.Errorf("dataset: read %s: %w", name, err)
			}
			recs, err := ReadShard(bytes.NewReader(data))
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			parts[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]Record, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, nil
}
