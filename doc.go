// Package pfamprep prepares the Pfam protein-family dataset for sequence
// classification.
//
// A Pipeline moves data through three buckets:
//
//	ingest   raw shards            -> raw bucket      (combined_raw.csv)
//	stage    raw bucket            -> staging bucket  (train/dev/test.csv, label_mapping.txt,
//	                                                   class_weights.txt, split.msgpack, MANIFEST)
//	curate   staging bucket        -> curated bucket  (tokenized train/dev/test.csv)
//
// The stratified split and the class-weight table are computed by the split
// and weights packages and depend only on the labels and the seed.
//
// # Quick Start
//
//	ctx := context.Background()
//	p, _ := pfamprep.New(pfamprep.Buckets{
//	    Raw:     blobstore.NewLocalStore("./buckets/raw"),
//	    Staging: blobstore.NewLocalStore("./buckets/staging"),
//	    Curated: blobstore.NewLocalStore("./buckets/curated"),
//	}, pfamprep.WithSeed(42))
//
//	res, err := p.Run(ctx, blobstore.NewLocalStore("./data/random_split"))
//
// # Storage
//
// Any blobstore.BlobStore works as a bucket: local directories, S3 or
// LocalStack (blobstore/s3), MinIO (blobstore/minio). Use
// s3.DDBCommitStore for the staging bucket when several stagers may publish
// concurrently.
package pfamprep
