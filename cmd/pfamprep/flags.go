package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/pfamprep"
	"github.com/hupe1980/pfamprep/tokenize"
)

func addGlobalFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String("config", "", "path to config file (default ./"+defaultConfigName+" if present)")
	f.String("log-format", "text", "log output format (text|json)")
	f.String("log-level", "info", "log level (debug|info|warn|error)")
	f.String("seed", "", "split seed, overrides "+seedEnv+" (default 42)")
	f.Int("workers", 0, "worker goroutines (0 = GOMAXPROCS)")
	f.String("compression", "", "artifact compression (none|zstd|lz4)")
	f.String("upload-limit", "", "upload bandwidth limit, e.g. 10MB (empty = unlimited)")
	f.String("prefix", "", "prefix for staging and curated blobs")
	f.String("backend", "", "storage backend (local|s3|minio)")
	f.String("root", "", "root directory of the local backend")
	f.Int("max-length", 0, "tokenizer max length, special tokens included")
	f.String("padding", "", "tokenizer padding (longest|max_length)")
	f.String("vocab", "", "path to a vocab.txt replacing the ESM-2 vocabulary")
}

// resolveConfig loads the config file and applies every flag the user set.
func resolveConfig(cmd *cobra.Command) (config, error) {
	f := cmd.Flags()
	path, _ := f.GetString("config")
	cfg, err := loadConfig(path, f.Changed("config"))
	if err != nil {
		return config{}, err
	}

	str := func(name string, dst *string) {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}
	num := func(name string, dst *int) {
		if f.Changed(name) {
			*dst, _ = f.GetInt(name)
		}
	}
	str("seed", &cfg.Pipeline.Seed)
	num("workers", &cfg.Pipeline.Workers)
	str("compression", &cfg.Pipeline.Compression)
	str("upload-limit", &cfg.Pipeline.UploadLimit)
	str("prefix", &cfg.Pipeline.Prefix)
	str("backend", &cfg.Storage.Backend)
	str("root", &cfg.Storage.Local.Root)
	num("max-length", &cfg.Tokenizer.MaxLength)
	str("padding", &cfg.Tokenizer.Padding)
	str("vocab", &cfg.Tokenizer.Vocab)
	return cfg, nil
}

func newLogger(cmd *cobra.Command) (*pfamprep.Logger, error) {
	format, _ := cmd.Flags().GetString("log-format")
	levelName, _ := cmd.Flags().GetString("log-level")

	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", levelName)
	}

	switch strings.ToLower(format) {
	case "text":
		return pfamprep.NewTextLogger(os.Stderr, level), nil
	case "json":
		return pfamprep.NewJSONLogger(os.Stderr, level), nil
	default:
		return nil, fmt.Errorf("unsupported log format %q (must be text or json)", format)
	}
}

// pipelineOptions translates cfg into pipeline options.
func pipelineOptions(cfg config, logger *pfamprep.Logger, metrics pfamprep.MetricsCollector) ([]pfamprep.Option, error) {
	seed, err := cfg.seed()
	if err != nil {
		return nil, err
	}
	cd, err := cfg.codec()
	if err != nil {
		return nil, err
	}
	limit, err := cfg.uploadLimit()
	if err != nil {
		return nil, err
	}
	padding, err := cfg.padding()
	if err != nil {
		return nil, err
	}

	opts := []pfamprep.Option{
		pfamprep.WithSeed(seed),
		pfamprep.WithWorkers(cfg.Pipeline.Workers),
		pfamprep.WithCompression(cd),
		pfamprep.WithUploadLimit(limit),
		pfamprep.WithPrefix(cfg.Pipeline.Prefix),
		pfamprep.WithMaxLength(cfg.Tokenizer.MaxLength),
		pfamprep.WithPadding(padding),
		pfamprep.WithLogger(logger),
		pfamprep.WithMetrics(metrics),
	}
	if cfg.Pipeline.RawName != "" {
		opts = append(opts, pfamprep.WithRawName(cfg.Pipeline.RawName))
	}
	if cfg.Tokenizer.Vocab != "" {
		vocab, err := loadVocab(cfg.Tokenizer.Vocab)
		if err != nil {
			return nil, err
		}
		opts = append(opts, pfamprep.WithVocabulary(vocab))
	}
	return opts, nil
}

func loadVocab(path string) (*tokenize.Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tokenize.LoadVocab(f)
}
