package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/my-maps-api/internal/domain/store"
	"github.com/oksasatya/my-maps-api/internal/infrastructure/memory"
)

// JPEG SOI + APP0 marker: FF D8 FF E0 00 10 "JFIF"
const jpegB64 = "/9j/4AAQSkZJRg=="

var jpegBytes = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

func newIngestor() (*AvatarIngestor, *memory.BlobStore) {
	blobs := memory.NewBlobStore("https://storage.example/bucket")
	return NewAvatarIngestor(blobs), blobs
}

func TestIngestEmptyYieldsNoAvatar(t *testing.T) {
	a, blobs := newIngestor()
	for _, mode := range []AvatarMode{AvatarCreate, AvatarEdit} {
		got, err := a.Ingest(context.Background(), "", "ann", mode)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
	assert.Zero(t, blobs.Len())
}

func TestIngestDataURIWritesBlob(t *testing.T) {
	a, blobs := newIngestor()

	got, err := a.Ingest(context.Background(), "data:image/jpeg;base64,"+jpegB64, "ann", AvatarCreate)
	require.NoError(t, err)
	assert.Equal(t, "https://storage.example/bucket/ann-avatar.jpg", got)

	obj, ok := blobs.Get("ann-avatar.jpg")
	require.True(t, ok)
	assert.Equal(t, jpegBytes, obj.Data)
	assert.Equal(t, "image/jpeg", obj.ContentType)
}

func TestIngestBareBase64(t *testing.T) {
	a, blobs := newIngestor()

	_, err := a.Ingest(context.Background(), jpegB64, "bob", AvatarEdit)
	require.NoError(t, err)
	obj, ok := blobs.Get("bob-avatar.jpg")
	require.True(t, ok)
	assert.Equal(t, jpegBytes, obj.Data)

	_, err = a.Ingest(context.Background(), "/9j/4AAQSkZJRg", "carl", AvatarCreate)
	require.NoError(t, err, "unpadded base64 is accepted")
}

func TestIngestDataURIPaddingMatchesBare(t *testing.T) {
	a, blobs := newIngestor()
	inputs := map[string]string{
		"padded":   "data:image/jpeg;base64," + jpegB64,
		"unpadded": "data:image/jpeg;base64,/9j/4AAQSkZJRg",
		"wrapped":  "data:image/jpeg;base64,/9j/4AAQ\nSkZJRg==",
		"bare":     "/9j/4AAQSkZJRg",
	}
	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := a.Ingest(context.Background(), raw, name, AvatarCreate)
			require.NoError(t, err)
			obj, ok := blobs.Get(name + "-avatar.jpg")
			require.True(t, ok)
			assert.Equal(t, jpegBytes, obj.Data)
		})
	}

	_, err := a.Ingest(context.Background(), "data:image/jpeg;base64", "dan", AvatarCreate)
	assert.ErrorIs(t, err, ErrMalformedAvatar)
}

func TestIngestURLPassthroughOnlyOnEdit(t *testing.T) {
	a, blobs := newIngestor()
	hosted := "https://storage.googleapis.com/my_maps_avatar_bucket/ann-avatar.jpg"

	got, err := a.Ingest(context.Background(), hosted, "ann", AvatarEdit)
	require.NoError(t, err)
	assert.Equal(t, hosted, got)
	assert.Zero(t, blobs.Len())

	_, err = a.Ingest(context.Background(), hosted, "ann", AvatarCreate)
	assert.True(t, errors.Is(err, ErrMalformedAvatar))
	assert.Zero(t, blobs.Len())
}

func TestIngestRejectsBadInput(t *testing.T) {
	a, blobs := newIngestor()

	_, err := a.Ingest(context.Background(), "data:image/webp;base64,"+jpegB64, "ann", AvatarCreate)
	assert.True(t, errors.Is(err, ErrUnsupportedAvatar))

	_, err = a.Ingest(context.Background(), "data:text/plain;base64,aGVsbG8=", "ann", AvatarCreate)
	assert.True(t, errors.Is(err, ErrUnsupportedAvatar))

	_, err = a.Ingest(context.Background(), "not base64 at all!", "ann", AvatarEdit)
	assert.True(t, errors.Is(err, ErrMalformedAvatar))

	assert.Zero(t, blobs.Len())
}

func TestIngestPropagatesBlobFailure(t *testing.T) {
	a, blobs := newIngestor()
	blobs.FailWrites = true

	got, err := a.Ingest(context.Background(), jpegB64, "ann", AvatarCreate)
	assert.True(t, errors.Is(err, store.ErrBlobWrite))
	assert.Empty(t, got)
}

func TestIsHTTPURL(t *testing.T) {
	assert.True(t, IsHTTPURL("http://x.example/a.jpg"))
	assert.True(t, IsHTTPURL("https://x.example/a.jpg"))
	assert.False(t, IsHTTPURL("ftp://x.example/a.jpg"))
	assert.False(t, IsHTTPURL("/9j/4AAQSkZJRg=="))
	assert.False(t, IsHTTPURL("data:image/png;base64,AAAA"))
}
