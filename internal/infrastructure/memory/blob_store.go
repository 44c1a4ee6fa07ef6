package memory

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/oksasatya/my-maps-api/internal/domain/store"
)

type Blob struct {
	Data        []byte
	ContentType string
}

// BlobStore keeps objects in memory; PublicURL is baseURL + "/" + name.
type BlobStore struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]Blob

	// FailWrites makes every Write fail with store.ErrBlobWrite.
	FailWrites bool
}

func NewBlobStore(baseURL string) *BlobStore {
	return &BlobStore{baseURL: strings.TrimRight(baseURL, "/"), objects: make(map[string]Blob)}
}

func (b *BlobStore) Write(_ context.Context, name string, data []byte, contentType string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailWrites {
		return store.ErrBlobWrite
	}
	b.objects[name] = Blob{Data: append([]byte(nil), data...), ContentType: contentType}
	return nil
}

func (b *BlobStore) PublicURL(name string) string {
	return b.baseURL + "/" + url.PathEscape(name)
}

// Get returns a stored object; used by tests and local runs.
func (b *BlobStore) Get(name string) (Blob, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	o, ok := b.objects[name]
	return o, ok
}

func (b *BlobStore) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.objects)
}

var _ store.BlobStore = (*BlobStore)(nil)
