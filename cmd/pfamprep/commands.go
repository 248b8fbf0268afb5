package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/pfamprep"
	"github.com/hupe1980/pfamprep/blobstore"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Combine raw shards into one table in the raw bucket",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPipeline(cmd, func(ctx context.Context, p *pfamprep.Pipeline, cfg config, s *summary) error {
			res, err := p.Ingest(ctx, blobstore.NewLocalStore(inputDir(cmd, cfg)))
			if err != nil {
				return err
			}
			s.ingest(res)
			return nil
		})
	},
}

var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Split the raw table and upload splits and metadata to the staging bucket",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPipeline(cmd, func(ctx context.Context, p *pfamprep.Pipeline, cfg config, s *summary) error {
			res, err := p.Stage(ctx)
			if err != nil {
				return err
			}
			s.stage(res)
			return nil
		})
	},
}

var curateCmd = &cobra.Command{
	Use:       "curate [train|dev|test]...",
	Short:     "Tokenize staged splits into the curated bucket",
	ValidArgs: []string{"train", "dev", "test"},
	Args:      cobra.OnlyValidArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPipeline(cmd, func(ctx context.Context, p *pfamprep.Pipeline, cfg config, s *summary) error {
			res, err := p.Curate(ctx, args...)
			if err != nil {
				return err
			}
			s.curate(res)
			return nil
		})
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run ingest, stage and curate",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPipeline(cmd, func(ctx context.Context, p *pfamprep.Pipeline, cfg config, s *summary) error {
			res, err := p.Run(ctx, blobstore.NewLocalStore(inputDir(cmd, cfg)))
			if res != nil {
				s.ingest(res.Ingest)
				s.stage(res.Stage)
				s.curate(res.Curate)
			}
			return err
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{ingestCmd, runCmd} {
		c.Flags().String("input", "", "directory holding the train/, dev/ and test/ shard folders")
	}
}

func inputDir(cmd *cobra.Command, cfg config) string {
	if cmd.Flags().Changed("input") {
		v, _ := cmd.Flags().GetString("input")
		return v
	}
	return cfg.Pipeline.Input
}

// withPipeline builds a pipeline from flags and config, runs fn and prints
// the summary line.
func withPipeline(cmd *cobra.Command, fn func(context.Context, *pfamprep.Pipeline, config, *summary) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	metrics := &pfamprep.BasicMetricsCollector{}
	opts, err := pipelineOptions(cfg, logger, metrics)
	if err != nil {
		return err
	}
	buckets, err := openBuckets(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	p, err := pfamprep.New(buckets, opts...)
	if err != nil {
		return err
	}

	s := &summary{start: time.Now(), metrics: metrics}
	err = fn(ctx, p, cfg, s)
	s.print(cmd.OutOrStdout(), err == nil)
	return err
}
