package main

import (
	"context"
	"fmt"
	"path/filepath"

	"fortio.org/safecast"

	"github.com/hupe1980/pfamprep"
	"github.com/hupe1980/pfamprep/blobstore"
	"github.com/hupe1980/pfamprep/blobstore/minio"
	"github.com/hupe1980/pfamprep/blobstore/s3"
	"github.com/hupe1980/pfamprep/core"
)

// openBuckets connects the raw, staging and curated buckets of the
// configured backend.
func openBuckets(ctx context.Context, cfg storageConfig) (pfamprep.Buckets, error) {
	switch cfg.Backend {
	case "", "local":
		return pfamprep.Buckets{
			Raw:     blobstore.NewLocalStore(filepath.Join(cfg.Local.Root, cfg.Raw)),
			Staging: blobstore.NewLocalStore(filepath.Join(cfg.Local.Root, cfg.Staging)),
			Curated: blobstore.NewLocalStore(filepath.Join(cfg.Local.Root, cfg.Curated)),
		}, nil
	case "s3":
		return openS3(ctx, cfg)
	case "minio":
		return openMinio(ctx, cfg)
	default:
		return pfamprep.Buckets{}, core.NewConfigurationError("storage.backend", cfg.Backend, nil)
	}
}

func openS3(ctx context.Context, cfg storageConfig) (pfamprep.Buckets, error) {
	cc := s3.ClientConfig{
		Region:    cfg.S3.Region,
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
	}
	client, err := s3.NewClient(ctx, cc)
	if err != nil {
		return pfamprep.Buckets{}, fmt.Errorf("s3 client: %w", err)
	}

	up := s3.DefaultUploadConfig()
	if cfg.S3.PartSize != "" {
		if up.PartSize, err = parseBytes("storage.s3.part_size", cfg.S3.PartSize); err != nil {
			return pfamprep.Buckets{}, err
		}
	}
	if cfg.S3.Concurrency != 0 {
		if _, err := safecast.Convert[uint16](cfg.S3.Concurrency); err != nil {
			return pfamprep.Buckets{}, core.NewConfigurationError("storage.s3.concurrency", fmt.Sprint(cfg.S3.Concurrency), err)
		}
		up.Concurrency = cfg.S3.Concurrency
	}
	open := func(bucket string) *s3.Store {
		return s3.NewStore(client, bucket, s3.WithUploadConfig(up))
	}

	b := pfamprep.Buckets{
		Raw:     open(cfg.Raw),
		Staging: open(cfg.Staging),
		Curated: open(cfg.Curated),
	}
	if cfg.S3.DynamoDBTable != "" {
		ddb, err := s3.NewDDBClient(ctx, cc)
		if err != nil {
			return pfamprep.Buckets{}, fmt.Errorf("dynamodb client: %w", err)
		}
		b.Staging = s3.NewDDBCommitStore(open(cfg.Staging), ddb, cfg.S3.DynamoDBTable, "")
	}
	return b, nil
}

func openMinio(ctx context.Context, cfg storageConfig) (pfamprep.Buckets, error) {
	mc := minio.Config{
		Endpoint:  cfg.Minio.Endpoint,
		AccessKey: cfg.Minio.AccessKey,
		SecretKey: cfg.Minio.SecretKey,
		Region:    cfg.Minio.Region,
		Secure:    cfg.Minio.Secure,
	}
	var opts []minio.Option
	if cfg.Minio.CreateBucket {
		opts = append(opts, minio.WithCreateBucket())
	}

	var b pfamprep.Buckets
	for _, t := range []struct {
		name string
		dst  *blobstore.BlobStore
	}{
		{cfg.Raw, &b.Raw},
		{cfg.Staging, &b.Staging},
		{cfg.Curated, &b.Curated},
	} {
		s, err := minio.New(ctx, mc, t.name, opts...)
		if err != nil {
			return pfamprep.Buckets{}, fmt.Errorf("minio bucket %s: %w", t.name, err)
		}
		*t.dst = s
	}
	return b, nil
}
