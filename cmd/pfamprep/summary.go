package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"fortio.org/safecast"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/hupe1980/pfamprep"
)

// summary collects the one-line report printed after a command.
type summary struct {
	start   time.Time
	metrics *pfamprep.BasicMetricsCollector
	parts   []string
}

func (s *summary) ingest(r *pfamprep.IngestResult) {
	if r == nil {
		return
	}
	s.parts = append(s.parts, fmt.Sprintf("ingested %s rows from %d shards",
		humanize.Comma(int64(r.Rows)), r.Shards))
}

func (s *summary) stage(r *pfamprep.StageResult) {
	if r == nil || r.Manifest == nil {
		return
	}
	s.parts = append(s.parts, fmt.Sprintf("staged version %d (%s rows, %s classes, %s dropped)",
		r.Manifest.ID,
		humanize.Comma(int64(r.Manifest.Rows)),
		humanize.Comma(int64(r.Manifest.Classes)),
		humanize.Comma(int64(r.Manifest.Dropped))))
}

func (s *summary) curate(rs []*pfamprep.CurateResult) {
	for _, r := range rs {
		s.parts = append(s.parts, fmt.Sprintf("curated %s (%s rows x %d tokens)",
			r.Split, humanize.Comma(int64(r.Rows)), r.Width))
	}
}

func (s *summary) print(w io.Writer, ok bool) {
	stats := s.metrics.GetStats()
	status := color.New(color.FgGreen, color.Bold).Sprint("done")
	if !ok {
		status = color.New(color.FgRed, color.Bold).Sprint("failed")
	}

	uploaded, _ := safecast.Convert[uint64](stats.UploadBytes)

	line := strings.Join(s.parts, "; ")
	if line == "" {
		line = "nothing written"
	}
	fmt.Fprintf(w, "%s %s; uploaded %s in %d blobs (%s)\n",
		status,
		line,
		humanize.Bytes(uploaded),
		stats.UploadCount,
		time.Since(s.start).Round(time.Millisecond),
	)
}
