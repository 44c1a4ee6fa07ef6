package datastore

import (
	"errors"
	"strings"
	"testing"

	gds "cloud.google.com/go/datastore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oksasatya/my-maps-api/internal/domain/store"
)

func TestKeyRoundTrip(t *testing.T) {
	k := store.NewKey("timeline", 7, store.NewKey("user", 42, nil))

	dk := toDSKey(k)
	require.NotNil(t, dk.Parent)
	assert.Equal(t, "timeline", dk.Kind)
	assert.Equal(t, int64(42), dk.Parent.ID)
	assert.True(t, fromDSKey(dk).Equal(k))

	inc := toDSKey(store.IncompleteKey("timeline", store.NewKey("user", 42, nil)))
	assert.True(t, inc.Incomplete())
	assert.Equal(t, int64(42), inc.Parent.ID)
}

func TestPropertyListNormalisesAndSkipsIndexOnLongStrings(t *testing.T) {
	long := strings.Repeat("a", maxIndexedBytes+1)
	pl := toPropertyList(store.Properties{"username": "ann", "bio": long, "age": 3})

	byName := map[string]gds.Property{}
	for _, p := range pl {
		byName[p.Name] = p
	}
	assert.False(t, byName["username"].NoIndex)
	assert.True(t, byName["bio"].NoIndex)
	assert.Equal(t, int64(3), byName["age"].Value)

	back := fromPropertyList(pl)
	assert.Equal(t, "ann", back.String("username"))
}

func TestQueryRejectsNonEqualityFilters(t *testing.T) {
	_, err := toDSQuery(store.NewQuery("user").Filter("email", "<", "x"))
	assert.True(t, errors.Is(err, store.ErrUnsupportedFilter))

	_, err = toDSQuery(store.NewQuery("timeline").Filter("sub", "=", false).WithAncestor(store.NewKey("user", 1, nil)))
	assert.NoError(t, err)
}

func TestClassify(t *testing.T) {
	assert.True(t, errors.Is(classify(status.Error(codes.AlreadyExists, "exists")), store.ErrDuplicateKey))
	assert.True(t, errors.Is(classify(status.Error(codes.NotFound, "no entity to update")), store.ErrNotFound))
	assert.True(t, errors.Is(classify(gds.MultiError{nil, gds.ErrNoSuchEntity}), store.ErrNotFound))
	assert.True(t, errors.Is(classify(status.Error(codes.Unavailable, "down")), store.ErrUnavailable))
}
