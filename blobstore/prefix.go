package blobstore

import (
	"context"
	"path"
	"strings"
)

// Prefixed scopes a BlobStore to names below prefix.
type Prefixed struct {
	inner  BlobStore
	prefix string
}

// WithPrefix returns s scoped to prefix. An empty prefix returns s itself.
func WithPrefix(s BlobStore, prefix string) BlobStore {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return s
	}
	return &Prefixed{inner: s, prefix: prefix}
}

func (p *Prefixed) key(name string) string {
	return path.Join(p.prefix, name)
}

func (p *Prefixed) Open(ctx context.Context, name string) (Blob, error) {
	return p.inner.Open(ctx, p.key(name))
}

func (p *Prefixed) Create(ctx context.Context, name string) (WritableBlob, error) {
	return p.inner.Create(ctx, p.key(name))
}

func (p *Prefixed) Put(ctx context.Context, name string, data []byte) error {
	return p.inner.Put(ctx, p.key(name), data)
}

func (p *Prefixed) Delete(ctx context.Context, name string) error {
	return p.inner.Delete(ctx, p.key(name))
}

func (p *Prefixed) List(ctx context.Context, prefix string) ([]string, error) {
	names, err := p.inner.List(ctx, p.prefix+"/"+prefix)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, strings.TrimPrefix(n, p.prefix+"/"))
	}
	return out, nil
}
