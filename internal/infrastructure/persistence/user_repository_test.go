package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/my-maps-api/internal/domain/entity"
	repo "github.com/oksasatya/my-maps-api/internal/domain/repository"
	"github.com/oksasatya/my-maps-api/internal/domain/store"
	"github.com/oksasatya/my-maps-api/internal/infrastructure/memory"
	"github.com/oksasatya/my-maps-api/pkg/helpers"
)

func TestUserCreateStoresDigestAndProfile(t *testing.T) {
	ctx := context.Background()
	s := memory.NewEntityStore()
	r := NewUserRepository(s)

	u := &entity.User{Email: "a@x.com", Username: "ann", Password: "pw", Profile: map[string]any{"firstname": "Ann", "password": "leak"}}
	require.NoError(t, r.Create(ctx, u))
	require.NotZero(t, u.ID)

	stored, err := s.Query(ctx, store.NewQuery(entity.KindUser))
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, helpers.HashPassword("pw"), stored[0].Properties["password"])
	assert.Equal(t, "Ann", stored[0].Properties["firstname"])
	assert.Equal(t, "", stored[0].Properties["avatar"])
}

func TestUserAuthenticateRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository(memory.NewEntityStore())

	require.NoError(t, r.Create(ctx, &entity.User{Email: "a@x.com", Username: "ann", Password: "pw", Profile: map[string]any{"lastname": "Lee"}}))
	require.NoError(t, r.Create(ctx, &entity.User{Email: "b@x.com", Username: "bob", Password: "pw"}))

	u, err := r.Authenticate(ctx, "a@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "ann", u.Username)
	assert.Equal(t, "Lee", u.Profile["lastname"])

	_, err = r.Authenticate(ctx, "a@x.com", "wrong")
	assert.True(t, errors.Is(err, repo.ErrUserNotFound))
	_, err = r.Authenticate(ctx, "nobody@x.com", "pw")
	assert.True(t, errors.Is(err, repo.ErrUserNotFound))
}

func TestUserUpdateReplacesAndRehashes(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository(memory.NewEntityStore())

	u := &entity.User{Email: "a@x.com", Username: "ann", Password: "pw", Profile: map[string]any{"firstname": "Ann"}}
	require.NoError(t, r.Create(ctx, u))
	oldDigest := u.Password

	edit := &entity.User{ID: u.ID, Email: "a@x.com", Username: "ann2", Password: "pw2", Avatar: "https://cdn/x.jpg"}
	require.NoError(t, r.Update(ctx, edit))
	assert.NotEqual(t, oldDigest, edit.Password)

	_, err := r.Authenticate(ctx, "a@x.com", "pw")
	assert.True(t, errors.Is(err, repo.ErrUserNotFound))

	got, err := r.Authenticate(ctx, "a@x.com", "pw2")
	require.NoError(t, err)
	assert.Equal(t, "ann2", got.Username)
	assert.Equal(t, "https://cdn/x.jpg", got.Avatar)
	assert.Nil(t, got.Profile, "full replace drops fields that were not supplied")
}

func TestUserUpdateErrors(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository(memory.NewEntityStore())

	assert.True(t, errors.Is(r.Update(ctx, &entity.User{Password: "x"}), repo.ErrMissingID))
	assert.True(t, errors.Is(r.Update(ctx, &entity.User{ID: 77, Password: "x"}), store.ErrNotFound))
}
