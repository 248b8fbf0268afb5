package dataset

import (
	"bufio"
	"bytes"
	"context"
	"io"

	"github.com/hupe1980/pfamprep/blobstore"
	"github.com/hupe1980/pfamprep/codec"
)

// ReadBlob returns the decoded contents of name, decompressing according to
// its suffix.
func ReadBlob(ctx context.Context, s blobstore.BlobStore, name string) ([]byte, error) {
	raw, err := blobstore.ReadAll(ctx, s, name)
	if err != nil {
		return nil, err
	}
	return DecodeBlob(name, raw)
}

// DecodeBlob decompresses raw according to the suffix of name.
func DecodeBlob(name string, raw []byte) ([]byte, error) {
	c := codec.ForBlob(name)
	if c == codec.None {
		return raw, nil
	}
	r, err := c.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// EncodeBlob renders fn's output through c and returns the blob name for
// base together with the encoded bytes.
func EncodeBlob(base string, c codec.Codec, fn func(io.Writer) error) (string, []byte, error) {
	if c == nil {
		c = codec.Default
	}

	var buf bytes.Buffer
	cw, err := c.NewWriter(&buf)
	if err != nil {
		return "", nil, err
	}
	bw := bufio.NewWriterSize(cw, 64*1024)
	if err := fn(bw); err != nil {
		_ = cw.Close()
		return "", nil, err
	}
	if err := bw.Flush(); err != nil {
		_ = cw.Close()
		return "", nil, err
	}
	if err := cw.Close(); err != nil {
		return "", nil, err
	}
	return codec.BlobName(base, c), buf.Bytes(), nil
}
