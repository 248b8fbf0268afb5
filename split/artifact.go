package split

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// ArtifactName is the blob name of the persisted partition.
const ArtifactName = "split.msgpack"

// Artifact is the persisted form of a partition: the seed plus the three
// index lists.
type Artifact struct {
	Seed      int64 `msgpack:"seed"`
	Rows      int   `msgpack:"rows"`
	Partition `msgpack:",inline"`
}

// WriteArtifact encodes the partition built with seed to w.
func WriteArtifact(w io.Writer, seed int64, p *Partition) error {
	a := Artifact{Seed: seed, Rows: p.Len(), Partition: *p}
	if err := msgpack.NewEncoder(w).Encode(&a); err != nil {
		return fmt.Errorf("split: encode artifact: %w", err)
	}
	return nil
}

// ReadArtifact decodes an artifact and validates its partition.
func ReadArtifact(r io.Reader) (*Artifact, error) {
	var a Artifact
	if err := msgpack.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("split: decode artifact: %w", err)
	}
	if err := a.Validate(a.Rows); err != nil {
		return nil, err
	}
	return &a, nil
}
