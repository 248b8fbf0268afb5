package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
	"github.com/dustin/go-humanize"

	"github.com/hupe1980/pfamprep/codec"
	"github.com/hupe1980/pfamprep/core"
	"github.com/hupe1980/pfamprep/split"
	"github.com/hupe1980/pfamprep/tokenize"
)

const (
	defaultConfigName = "pfamprep.toml"
	seedEnv           = "PFAMPREP_SEED"
)

type config struct {
	Pipeline  pipelineConfig  `toml:"pipeline"`
	Storage   storageConfig   `toml:"storage"`
	Tokenizer tokenizerConfig `toml:"tokenizer"`
}

type pipelineConfig struct {
	// Seed is kept as text so that out-of-range values are reported instead
	// of silently wrapped.
	Seed        string `toml:"seed"`
	Workers     int    `toml:"workers"`
	Compression string `toml:"compression"`
	UploadLimit string `toml:"upload_limit"`
	Prefix      string `toml:"prefix"`
	RawName     string `toml:"raw_name"`
	Input       string `toml:"input"`
}

type storageConfig struct {
	Backend string      `toml:"backend"`
	Raw     string      `toml:"raw"`
	Staging string      `toml:"staging"`
	Curated string      `toml:"curated"`
	Local   localConfig `toml:"local"`
	S3      s3Config    `toml:"s3"`
	Minio   minioConfig `toml:"minio"`
}

type localConfig struct {
	Root string `toml:"root"`
}

type s3Config struct {
	Region        string `toml:"region"`
	Endpoint      string `toml:"endpoint"`
	AccessKey     string `toml:"access_key"`
	SecretKey     string `toml:"secret_key"`
	DynamoDBTable string `toml:"dynamodb_table"`
	PartSize      string `toml:"part_size"`
	Concurrency   int    `toml:"concurrency"`
}

type minioConfig struct {
	Endpoint     string `toml:"endpoint"`
	AccessKey    string `toml:"access_key"`
	SecretKey    string `toml:"secret_key"`
	Region       string `toml:"region"`
	Secure       bool   `toml:"secure"`
	CreateBucket bool   `toml:"create_bucket"`
}

type tokenizerConfig struct {
	MaxLength int    `toml:"max_length"`
	Padding   string `toml:"padding"`
	Vocab     string `toml:"vocab"`
}

func defaultConfig() config {
	return config{
		Pipeline: pipelineConfig{
			Seed:        "42",
			Compression: "none",
			Input:       "data/random_split",
		},
		Storage: storageConfig{
			Backend: "local",
			Raw:     "raw",
			Staging: "staging",
			Curated: "curated",
			Local:   localConfig{Root: "buckets"},
		},
		Tokenizer: tokenizerConfig{
			MaxLength: tokenize.DefaultMaxLength,
			Padding:   tokenize.PadLongest.String(),
		},
	}
}

// loadConfig reads path over the defaults. A missing default config file is
// not an error; an explicitly named one is.
func loadConfig(path string, explicit bool) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		path = defaultConfigName
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			cfg.applyEnv()
			return cfg, nil
		}
		return config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *config) applyEnv() {
	if v, ok := os.LookupEnv(seedEnv); ok && strings.TrimSpace(v) != "" {
		c.Pipeline.Seed = v
	}
}

func (c *config) seed() (int64, error) {
	return split.ParseSeed(c.Pipeline.Seed)
}

func (c *config) codec() (codec.Codec, error) {
	cd, err := codec.ByName(c.Pipeline.Compression)
	if err != nil {
		return nil, core.NewConfigurationError("pipeline.compression", c.Pipeline.Compression, err)
	}
	return cd, nil
}

func (c *config) uploadLimit() (int64, error) {
	return parseBytes("pipeline.upload_limit", c.Pipeline.UploadLimit)
}

func (c *config) padding() (tokenize.Padding, error) {
	return tokenize.ParsePadding(c.Tokenizer.Padding)
}

// parseBytes accepts sizes such as "8MiB" or "10 MB". Empty means 0.
func parseBytes(field, s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, core.NewConfigurationError(field, s, err)
	}
	v, err := safecast.Convert[int64](n)
	if err != nil {
		return 0, core.NewConfigurationError(field, s, err)
	}
	return v, nil
}
