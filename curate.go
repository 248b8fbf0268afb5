package pfamprep

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/hupe1980/pfamprep/blobstore"
	"github.com/hupe1980/pfamprep/core"
	"github.com/hupe1980/pfamprep/dataset"
	"github.com/hupe1980/pfamprep/manifest"
	"github.com/hupe1980/pfamprep/split"
	"github.com/hupe1980/pfamprep/tokenize"
)

// CurateResult describes one tokenized split.
type CurateResult struct {
	Split    string
	Manifest uint64
	Rows     int
	Width    int
	Blob     string
	Bytes    int
}

// Curate tokenizes the named splits of the current staged version and
// uploads them to the curated bucket. With no names, all three splits are
// curated.
func (p *Pipeline) Curate(ctx context.Context, splits ...string) ([]*CurateResult, error) {
	if len(splits) == 0 {
		splits = dataset.Splits
	}
	for _, s := range splits {
		if !slices.Contains(dataset.Splits, s) {
			return nil, stageError(StageCurate, core.NewInvalidInput("curate", "unknown split %q", s))
		}
	}

	var out []*CurateResult
	err := p.track(ctx, StageCurate, func(ctx context.Context, log *Logger) (int, error) {
		m, err := p.manifests.Load(ctx)
		if err != nil {
			return 0, err
		}
		if err := p.checkPartition(ctx, m); err != nil {
			return 0, err
		}

		total := 0
		for _, s := range splits {
			res, err := p.curateSplit(ctx, &Logger{Logger: log.With("split", s)}, m, s)
			if err != nil {
				return total, fmt.Errorf("%s: %w", s, err)
			}
			res.Manifest = m.ID
			out = append(out, res)
			total += res.Rows
		}
		return total, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// checkPartition verifies the persisted partition against its manifest entry.
func (p *Pipeline) checkPartition(ctx context.Context, m *manifest.Manifest) error {
	a, ok := m.Artifact(split.ArtifactName)
	if !ok {
		return core.NewInvalidInput("curate", "manifest %d has no %s", m.ID, split.ArtifactName)
	}
	data, err := p.readVerified(ctx, a)
	if err != nil {
		return err
	}
	art, err := split.ReadArtifact(bytes.NewReader(data))
	if err != nil {
		return err
	}
	if art.Rows != m.Rows {
		return core.NewInvalidInput("curate", "partition covers %d rows, manifest %d", art.Rows, m.Rows)
	}
	return nil
}

func (p *Pipeline) readVerified(ctx context.Context, a manifest.Artifact) ([]byte, error) {
	raw, err := blobstore.ReadAll(ctx, p.buckets.Staging, a.Name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", a.Name, err)
	}
	if err := a.Verify(raw); err != nil {
		return nil, err
	}
	return dataset.DecodeBlob(a.Name, raw)
}

func (p *Pipeline) curateSplit(ctx context.Context, log *Logger, m *manifest.Manifest, name string) (*CurateResult, error) {
	a, ok := m.Artifact(name + ".csv")
	if !ok {
		return nil, core.NewInvalidInput("curate", "manifest %d has no %s split", m.ID, name)
	}
	data, err := p.readVerified(ctx, a)
	if err != nil {
		return nil, err
	}
	staged, err := dataset.ReadTable(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	seqCol, ok := staged.Column(dataset.ColSequence)
	if !ok {
		return nil, core.NewInvalidInput("curate", "%s has no %q column", a.Name, dataset.ColSequence)
	}

	seqs := make([]string, len(staged.Rows))
	for i, row := range staged.Rows {
		if seqCol < len(row) {
			seqs[i] = row[seqCol]
		}
	}
	ids := p.tokenizer.EncodeBatch(seqs)
	width := 0
	if p.opts.padding == tokenize.PadMaxLength {
		width = p.tokenizer.MaxLength()
	}
	if len(ids) > 0 {
		width = len(ids[0])
		log.DebugContext(ctx, "first row tokenized", "tokens", strings.Join(p.tokenizer.Decode(ids[0]), " "))
	}

	out := &dataset.Table{
		Header: append(without(staged.Header, seqCol), tokenize.Columns(width)...),
		Rows:   make([][]string, len(staged.Rows)),
	}
	for i, row := range staged.Rows {
		r := make([]string, 0, len(out.Header))
		r = append(r, without(row, seqCol)...)
		for _, id := range ids[i] {
			r = append(r, strconv.Itoa(id))
		}
		out.Rows[i] = r
	}

	blob, enc, err := p.encode(name+".csv", func(w io.Writer) error {
		return dataset.WriteTable(w, out)
	})
	if err != nil {
		return nil, err
	}
	if err := p.upload(ctx, log, p.buckets.Curated, blob, enc); err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "split tokenized", "rows", len(out.Rows), "width", width)

	return &CurateResult{Split: name, Rows: len(out.Rows), Width: width, Blob: blob, Bytes: len(enc)}, nil
}

// without returns a copy of row with column col removed.
func without(row []string, col int) []string {
	out := make([]string, 0, len(row))
	for i, v := range row {
		if i != col {
			out = append(out, v)
		}
	}
	return out
}
