package gcs

import (
	"bytes"
	"context"
	"fmt"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/my-maps-api/internal/domain/store"
	"github.com/oksasatya/my-maps-api/pkg/helpers"
)

// BlobStore writes objects into a single GCS bucket.
type BlobStore struct {
	client *storage.Client
	bucket string
}

func NewBlobStore(client *storage.Client, bucket string) *BlobStore {
	return &BlobStore{client: client, bucket: bucket}
}

func (b *BlobStore) Write(ctx context.Context, name string, data []byte, contentType string) error {
	if b.client == nil || b.bucket == "" {
		return fmt.Errorf("%w: gcs not configured", store.ErrBlobWrite)
	}
	if err := helpers.UploadObject(ctx, b.client, b.bucket, name, contentType, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: gs://%s/%s: %w", store.ErrBlobWrite, b.bucket, name, err)
	}
	return nil
}

func (b *BlobStore) PublicURL(name string) string {
	return helpers.PublicURL(b.bucket, name)
}

var _ store.BlobStore = (*BlobStore)(nil)
