// Package manifest records which artifacts make up a staged dataset version.
//
// Each Save writes a new MANIFEST-NNNNNN.json and then points CURRENT at it.
// Readers only follow CURRENT, so a stage that fails before Save leaves the
// previous version in place.
package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/pfamprep/blobstore"
	"github.com/hupe1980/pfamprep/internal/hash"
)

const (
	// FilePrefix is the name prefix of manifest blobs.
	FilePrefix = "MANIFEST"
	// CurrentVersion is the manifest format version.
	CurrentVersion = 1
)

// ErrNotFound is returned when no manifest has been committed.
var ErrNotFound = errors.New("manifest not found")

// ErrChecksum is returned when an artifact does not match its manifest entry.
var ErrChecksum = errors.New("manifest: checksum mismatch")

// Manifest describes one staged dataset version.
type Manifest struct {
	Version   int        `json:"version"`
	ID        uint64     `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	Seed      int64      `json:"seed"`
	Rows      int        `json:"rows"`
	Classes   int        `json:"classes"`
	Dropped   int        `json:"dropped"`
	Artifacts []Artifact `json:"artifacts"`
}

// Artifact is one blob of a dataset version.
type Artifact struct {
	Name   string `json:"name"`
	Rows   int    `json:"rows,omitempty"`
	Size   int64  `json:"size"`
	CRC32C uint32 `json:"crc32c"`
}

// NewArtifact describes data stored under name.
func NewArtifact(name string, rows int, data []byte) Artifact {
	return Artifact{
		Name:   name,
		Rows:   rows,
		Size:   int64(len(data)),
		CRC32C: hash.CRC32C(data),
	}
}

// Verify checks data against the artifact's size and checksum.
func (a Artifact) Verify(data []byte) error {
	if int64(len(data)) != a.Size || hash.CRC32C(data) != a.CRC32C {
		return fmt.Errorf("%w: %s", ErrChecksum, a.Name)
	}
	return nil
}

// Artifact returns the entry whose name, without codec suffix, is base.
func (m *Manifest) Artifact(base string) (Artifact, bool) {
	for _, a := range m.Artifacts {
		if a.Name == base || strings.HasPrefix(a.Name, base+".") {
			return a, true
		}
	}
	return Artifact{}, false
}

// FileName returns the blob name of manifest version id.
func FileName(id uint64) string {
	return fmt.Sprintf("%s-%06d.json", FilePrefix, id)
}

func parseFileName(name string) (uint64, bool) {
	var id uint64
	base := path.Base(name)
	if _, err := fmt.Sscanf(base, FilePrefix+"-%06d.json", &id); err != nil {
		return 0, false
	}
	return id, base == FileName(id)
}

// Store manages manifests in a staging bucket.
type Store struct {
	store blobstore.BlobStore
	mu    sync.Mutex
	now   func() time.Time
}

// NewStore creates a new manifest store.
func NewStore(store blobstore.BlobStore) *Store {
	return &Store{store: store, now: time.Now}
}

// Load loads the manifest named by CURRENT.
func (s *Store) Load(ctx context.Context) (*Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	return s.read(ctx, name)
}

// LoadVersion loads manifest version id.
func (s *Store) LoadVersion(ctx context.Context, id uint64) (*Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read(ctx, FileName(id))
}

func (s *Store) current(ctx context.Context) (string, error) {
	data, err := blobstore.ReadAll(ctx, s.store, blobstore.CurrentName)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *Store) read(ctx context.Context, name string) (*Manifest, error) {
	data, err := blobstore.ReadAll(ctx, s.store, name)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("open manifest %s: %w", name, err)
	}
	m := &Manifest{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", name, err)
	}
	if m.Version > CurrentVersion {
		return nil, fmt.Errorf("manifest %s: unsupported version %d", name, m.Version)
	}
	return m, nil
}

// Versions returns the ids of all stored manifests in ascending order.
func (s *Store) Versions(ctx context.Context) ([]uint64, error) {
	names, err := s.store.List(ctx, FilePrefix)
	if err != nil {
		return nil, err
	}
	var ids []uint64
	for _, n := range names {
		if id, ok := parseFileName(n); ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// Save assigns m the next id, writes it and moves CURRENT to it.
func (s *Store) Save(ctx context.Context, m *Manifest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.Versions(ctx)
	if err != nil {
		return err
	}
	var next uint64 = 1
	if len(ids) > 0 {
		next = ids[len(ids)-1] + 1
	}

	m.Version = CurrentVersion
	m.ID = next
	m.CreatedAt = s.now().UTC()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	name := FileName(m.ID)
	if err := s.store.Put(ctx, name, data); err != nil {
		return err
	}
	return s.store.Put(ctx, blobstore.CurrentName, []byte(name))
}

// DeleteVersion removes manifest version id. CURRENT is not changed.
func (s *Store) DeleteVersion(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.Delete(ctx, FileName(id))
}
