package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://storage.googleapis.com/my_maps_avatar_bucket/ann-avatar.jpg", PublicURL("my_maps_avatar_bucket", "ann-avatar.jpg"))
	assert.Equal(t, "https://storage.googleapis.com/b/ann%20lee-avatar.jpg", PublicURL("b", "ann lee-avatar.jpg"))
}
