package pfamprep

import (
	"github.com/hupe1980/pfamprep/codec"
	"github.com/hupe1980/pfamprep/split"
	"github.com/hupe1980/pfamprep/tokenize"
)

// DefaultRawName is the combined raw table written by Ingest.
const DefaultRawName = "combined_raw.csv"

type options struct {
	seed        int64
	workers     int
	logger      *Logger
	metrics     MetricsCollector
	codec       codec.Codec
	uploadLimit int64
	maxLength   int
	padding     tokenize.Padding
	vocab       *tokenize.Vocabulary
	prefix      string
	rawName     string
}

func defaultOptions() options {
	return options{
		seed:      split.DefaultSeed,
		logger:    NoopLogger(),
		metrics:   NoopMetricsCollector{},
		codec:     codec.Default,
		maxLength: tokenize.DefaultMaxLength,
		padding:   tokenize.PadLongest,
		rawName:   DefaultRawName,
	}
}

// Option configures a Pipeline.
type Option func(*options)

// WithSeed sets the split seed. Default: 42.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithWorkers bounds the goroutines used for splitting, shard reads and
// uploads. 0 means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithCompression selects the codec for written artifacts.
//
// If nil is passed, codec.Default is used. Readers detect the codec from the
// blob suffix regardless of this setting.
func WithCompression(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithUploadLimit caps upload throughput in bytes per second. 0 disables
// the limit.
func WithUploadLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.uploadLimit = bytesPerSec
	}
}

// WithMaxLength sets the tokenizer truncation length. Default: 1024.
func WithMaxLength(n int) Option {
	return func(o *options) {
		o.maxLength = n
	}
}

// WithPadding sets the tokenizer padding mode. Default: tokenize.PadLongest.
func WithPadding(p tokenize.Padding) Option {
	return func(o *options) {
		o.padding = p
	}
}

// WithVocabulary replaces the ESM-2 vocabulary.
func WithVocabulary(v *tokenize.Vocabulary) Option {
	return func(o *options) {
		o.vocab = v
	}
}

// WithPrefix scopes the staging and curated buckets to prefix, e.g. a run
// or dataset version name.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithRawName sets the name of the combined raw table. Default:
// "combined_raw.csv".
func WithRawName(name string) Option {
	return func(o *options) {
		o.rawName = name
	}
}
