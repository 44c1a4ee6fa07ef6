package application

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/vincent-petithory/dataurl"

	"github.com/oksasatya/my-maps-api/internal/domain/store"
)

var (
	ErrMalformedAvatar   = errors.New("avatar is not valid base64")
	ErrUnsupportedAvatar = errors.New("avatar data uri must be a base64 png, gif or jpeg image")
)

// AvatarMode selects how an already hosted URL is treated.
type AvatarMode int

const (
	// AvatarCreate always treats a non-empty value as inline image data.
	AvatarCreate AvatarMode = iota
	// AvatarEdit passes absolute http(s) URLs through unchanged.
	AvatarEdit
)

var avatarSubtypes = map[string]bool{"png": true, "gif": true, "jpeg": true}

// AvatarObjectName is the blob name of a user's avatar. One object per
// username: a later upload for the same username replaces the earlier one.
func AvatarObjectName(username string) string {
	return username + "-avatar.jpg"
}

// AvatarIngestor turns the avatar field of a signup or profile edit into the
// reference stored on the user.
type AvatarIngestor struct {
	Blobs store.BlobStore
}

func NewAvatarIngestor(blobs store.BlobStore) *AvatarIngestor {
	return &AvatarIngestor{Blobs: blobs}
}

// Ingest returns "" for an empty value, raw itself for a hosted URL in edit
// mode, and otherwise the public URL of the decoded image after writing it to
// the blob store. No reference is returned unless the write succeeded.
func (a *AvatarIngestor) Ingest(ctx context.Context, raw, username string, mode AvatarMode) (string, error) {
	if raw == "" {
		return "", nil
	}
	if mode == AvatarEdit && IsHTTPURL(raw) {
		return raw, nil
	}
	data, err := decodeAvatar(raw)
	if err != nil {
		return "", err
	}
	name := AvatarObjectName(username)
	if err := a.Blobs.Write(ctx, name, data, mimetype.Detect(data).String()); err != nil {
		return "", fmt.Errorf("store avatar %s: %w", name, err)
	}
	return a.Blobs.PublicURL(name), nil
}

// IsHTTPURL reports whether s parses as an absolute http or https URL.
func IsHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func decodeAvatar(raw string) ([]byte, error) {
	if strings.HasPrefix(raw, "data:") {
		header, payload, ok := strings.Cut(raw, ",")
		if !ok {
			return nil, fmt.Errorf("%w: missing data URI payload", ErrMalformedAvatar)
		}
		// Parse the header alone; the payload goes through the same decoder
		// as bare base64 so padding rules match.
		du, err := dataurl.DecodeString(header + ",")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedAvatar, err)
		}
		if du.MediaType.Type != "image" || !avatarSubtypes[du.MediaType.Subtype] || du.Encoding != dataurl.EncodingBase64 {
			return nil, ErrUnsupportedAvatar
		}
		raw = payload
	}
	if b, err := base64.StdEncoding.DecodeString(raw); err == nil {
		return b, nil
	}
	b, err := base64.RawStdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAvatar, err)
	}
	return b, nil
}
