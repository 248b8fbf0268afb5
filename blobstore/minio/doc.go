// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works against MinIO and other S3-compatible systems without pulling in
// the AWS SDK, which makes it the simplest backend for local pipeline runs:
//
//	store, err := minio.New(ctx, minio.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	}, "pfam-staging", minio.WithCreateBucket())
//
// Streaming writes go through an io.Pipe into PutObject with an unknown
// size, which the client turns into a multipart upload.
package minio
