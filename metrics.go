package pfamprep

import (
	"sync"
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordStage is called after each pipeline stage. rows is the number of
	// rows the stage produced, err is nil if successful.
	RecordStage(stage string, rows int, duration time.Duration, err error)

	// RecordUpload is called after each artifact upload.
	RecordUpload(bytes int64)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordStage(string, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordUpload(int64)                            {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	StageCount      atomic.Int64
	StageErrors     atomic.Int64
	StageTotalNanos atomic.Int64
	Rows            atomic.Int64
	UploadCount     atomic.Int64
	UploadBytes     atomic.Int64

	mu      sync.Mutex
	byStage map[string]StageStats
}

// StageStats aggregates the runs of one stage.
type StageStats struct {
	Runs     int64
	Errors   int64
	Rows     int64
	Duration time.Duration
}

// RecordStage implements MetricsCollector.
func (b *BasicMetricsCollector) RecordStage(stage string, rows int, duration time.Duration, err error) {
	b.StageCount.Add(1)
	b.StageTotalNanos.Add(duration.Nanoseconds())
	b.Rows.Add(int64(rows))
	if err != nil {
		b.StageErrors.Add(1)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.byStage == nil {
		b.byStage = make(map[string]StageStats)
	}
	s := b.byStage[stage]
	s.Runs++
	s.Rows += int64(rows)
	s.Duration += duration
	if err != nil {
		s.Errors++
	}
	b.byStage[stage] = s
}

// RecordUpload implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUpload(bytes int64) {
	b.UploadCount.Add(1)
	b.UploadBytes.Add(bytes)
}

// Stage returns the aggregate for one stage.
func (b *BasicMetricsCollector) Stage(stage string) StageStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.byStage[stage]
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		StageCount:    b.StageCount.Load(),
		StageErrors:   b.StageErrors.Load(),
		StageAvgNanos: b.getAvgStageNanos(),
		Rows:          b.Rows.Load(),
		UploadCount:   b.UploadCount.Load(),
		UploadBytes:   b.UploadBytes.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgStageNanos() int64 {
	count := b.StageCount.Load()
	if count == 0 {
		return 0
	}
	return b.StageTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	StageCount    int64
	StageErrors   int64
	StageAvgNanos int64
	Rows          int64
	UploadCount   int64
	UploadBytes   int64
}
