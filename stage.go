package pfamprep

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/pfamprep/core"
	"github.com/hupe1980/pfamprep/dataset"
	"github.com/hupe1980/pfamprep/labels"
	"github.com/hupe1980/pfamprep/manifest"
	"github.com/hupe1980/pfamprep/split"
	"github.com/hupe1980/pfamprep/weights"
)

// StageResult describes a committed dataset version.
type StageResult struct {
	Manifest *manifest.Manifest
	Summary  split.Summary
	Weights  weights.Table
}

// Stage reads the raw table, drops incomplete rows, encodes labels, splits
// per class and uploads the splits with their metadata to the staging
// bucket. The manifest is written last.
func (p *Pipeline) Stage(ctx context.Context) (*StageResult, error) {
	var res *StageResult
	err := p.track(ctx, StageStage, func(ctx context.Context, log *Logger) (int, error) {
		records, err := p.readRaw(ctx)
		if err != nil {
			return 0, err
		}

		kept, dropped := dataset.DropIncomplete(records)
		if len(kept) == 0 {
			return 0, core.NewInvalidInput("stage", "no complete rows among %d", len(records))
		}
		if dropped > 0 {
			log.InfoContext(ctx, "dropped incomplete rows", "dropped", dropped, "kept", len(kept))
		}

		enc, err := labels.Fit(dataset.Accessions(kept))
		if err != nil {
			return 0, err
		}
		staged, err := dataset.Encode(kept, enc)
		if err != nil {
			return 0, err
		}
		ids := dataset.ClassIDs(staged)

		part, err := p.splitter.Partition(ctx, ids)
		if err != nil {
			return 0, err
		}
		if err := part.Validate(len(ids)); err != nil {
			return 0, err
		}

		summary, err := split.Summarize(ids)
		if err != nil {
			return 0, err
		}
		log.LogSplit(ctx, summary, len(part.Train), len(part.Dev), len(part.Test))

		sets := map[string][]int{"train": part.Train, "dev": part.Dev, "test": part.Test}
		rows := make(map[string][]dataset.StagedRecord, len(sets))
		for name, idx := range sets {
			sel, err := dataset.Select(staged, idx)
			if err != nil {
				return 0, err
			}
			rows[name] = sel
		}

		table, err := weights.Compute(dataset.ClassIDs(rows["train"]), enc.MaxID())
		if err != nil {
			return 0, err
		}

		log.DebugContext(ctx, "class weights computed",
			"ids", table.Len(),
			"present", table.Present(),
			"sum", table.Sum(),
		)

		artifacts, err := p.writeStaged(ctx, log, rows, enc, table, part)
		if err != nil {
			return 0, err
		}

		m := &manifest.Manifest{
			Seed:      p.splitter.Seed(),
			Rows:      len(staged),
			Classes:   enc.Len(),
			Dropped:   dropped,
			Artifacts: artifacts,
		}
		if err := p.manifests.Save(ctx, m); err != nil {
			return 0, fmt.Errorf("save manifest: %w", err)
		}
		log.InfoContext(ctx, "manifest committed", "id", m.ID, "artifacts", len(m.Artifacts))

		res = &StageResult{Manifest: m, Summary: summary, Weights: table}
		return len(staged), nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (p *Pipeline) readRaw(ctx context.Context) ([]dataset.Record, error) {
	name, err := findBlob(ctx, p.buckets.Raw, p.opts.rawName)
	if err != nil {
		return nil, fmt.Errorf("find raw table: %w", err)
	}
	data, err := dataset.ReadBlob(ctx, p.buckets.Raw, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	records, err := dataset.ReadRecords(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return records, nil
}

type pendingBlob struct {
	name string
	rows int
	data []byte
}

// writeStaged encodes every staging artifact and uploads them concurrently.
// Artifacts are returned in a fixed order.
func (p *Pipeline) writeStaged(
	ctx context.Context,
	log *Logger,
	rows map[string][]dataset.StagedRecord,
	enc *labels.Encoder,
	table weights.Table,
	part *split.Partition,
) ([]manifest.Artifact, error) {
	var pending []pendingBlob

	for _, s := range dataset.Splits {
		recs := rows[s]
		name, data, err := p.encode(s+".csv", func(w io.Writer) error {
			return dataset.WriteStaged(w, recs)
		})
		if err != nil {
			return nil, err
		}
		pending = append(pending, pendingBlob{name: name, rows: len(recs), data: data})
	}

	meta := []struct {
		name string
		rows int
		fn   func(io.Writer) error
	}{
		{labels.MappingName, enc.Len(), func(w io.Writer) error { _, err := enc.WriteTo(w); return err }},
		{weights.FileName, table.Len(), func(w io.Writer) error { _, err := table.WriteTo(w); return err }},
		{split.ArtifactName, part.Len(), func(w io.Writer) error { return split.WriteArtifact(w, p.splitter.Seed(), part) }},
	}
	for _, m := range meta {
		var buf bytes.Buffer
		if err := m.fn(&buf); err != nil {
			return nil, fmt.Errorf("encode %s: %w", m.name, err)
		}
		pending = append(pending, pendingBlob{name: m.name, rows: m.rows, data: buf.Bytes()})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(int(p.rc.Workers()))
	for _, b := range pending {
		g.Go(func() error {
			return p.upload(gctx, log, p.buckets.Staging, b.name, b.data)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	artifacts := make([]manifest.Artifact, len(pending))
	for i, b := range pending {
		artifacts[i] = manifest.NewArtifact(b.name, b.rows, b.data)
	}
	return artifacts, nil
}
