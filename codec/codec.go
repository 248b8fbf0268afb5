// Package codec selects the stream compression applied to pipeline
// artifacts.
//
// A codec is chosen by name when writing and detected from the blob name
// suffix when reading, so "train.csv.zst" is always read through zstd no
// matter how the reader is configured.
package codec

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec wraps artifact streams.
// Implementations must be safe for concurrent use.
type Codec interface {
	// Name is the stable configuration name.
	Name() string
	// Ext is the blob name suffix, including the dot. Empty for None.
	Ext() string
	// NewWriter wraps w. Closing the returned writer flushes the frame but
	// does not close w.
	NewWriter(w io.Writer) (io.WriteCloser, error)
	// NewReader wraps r.
	NewReader(r io.Reader) (io.ReadCloser, error)
}

var (
	// None stores artifacts uncompressed.
	None Codec = noneCodec{}
	// Zstd compresses artifacts with zstd (better ratio, cold data).
	Zstd Codec = zstdCodec{}
	// LZ4 compresses artifacts with the lz4 frame format (fast).
	LZ4 Codec = lz4Codec{}
)

// Default is used when no codec is configured.
var Default = None

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return None, nil
	case "zstd", "zst":
		return Zstd, nil
	case "lz4":
		return LZ4, nil
	default:
		return nil, fmt.Errorf("codec: unknown codec %q", name)
	}
}

// ForBlob returns the codec implied by the suffix of a blob name.
func ForBlob(name string) Codec {
	switch {
	case strings.HasSuffix(name, Zstd.Ext()):
		return Zstd
	case strings.HasSuffix(name, LZ4.Ext()):
		return LZ4
	default:
		return None
	}
}

// BlobName appends the codec suffix to base.
func BlobName(base string, c Codec) string {
	if c == nil {
		return base
	}
	return base + c.Ext()
}

type noneCodec struct{}

func (noneCodec) Name() string { return "none" }
func (noneCodec) Ext() string  { return "" }

func (noneCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

func (noneCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

type zstdCodec struct{}

func (zstdCodec) Name() string { return "zstd" }
func (zstdCodec) Ext() string  { return ".zst" }

func (zstdCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func (zstdCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return dec.IOReadCloser(), nil
}

type lz4Codec struct{}

func (lz4Codec) Name() string { return "lz4" }
func (lz4Codec) Ext() string  { return ".lz4" }

func (lz4Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return lz4.NewWriter(w), nil
}

func (lz4Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
