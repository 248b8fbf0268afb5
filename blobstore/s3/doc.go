// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// Each pipeline bucket (raw, staging, curated) is one Store. Against
// LocalStack, point the client at the emulator and use path-style addressing:
//
//	store, err := s3.New(ctx, "pfam-raw",
//	    s3.WithEndpoint("http://localhost:4566"),
//	    s3.WithStaticCredentials("test", "test"),
//	)
//
// # Features
//
//   - Range reads for partial fetches
//   - Multipart uploads through the SDK upload manager
//   - CRC32C checksums on single-shot puts
//   - Automatic pagination for listing
//   - DynamoDB-backed CURRENT pointer for concurrent stagers (DDBCommitStore)
package s3
