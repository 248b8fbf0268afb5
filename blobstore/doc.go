// Package blobstore provides the bucket abstraction behind the raw, staging
// and curated datasets.
//
// BlobStore is the interface for reading and writing whole artifacts.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: one directory per bucket, mmap-backed reads
//   - MemoryStore: in-memory store for tests
//   - Prefixed: scopes any store to a key prefix
//   - s3.Store: Amazon S3 or LocalStack, multipart streaming uploads
//   - s3.DDBCommitStore: S3 plus DynamoDB conditional writes for CURRENT
//   - minio.Store: MinIO and other S3-compatible services
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Create(ctx, name) (WritableBlob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
