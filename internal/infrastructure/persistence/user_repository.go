package persistence

import (
	"context"
	"fmt"

	"github.com/oksasatya/my-maps-api/internal/domain/entity"
	repo "github.com/oksasatya/my-maps-api/internal/domain/repository"
	"github.com/oksasatya/my-maps-api/internal/domain/store"
	"github.com/oksasatya/my-maps-api/pkg/helpers"
)

const (
	fieldEmail    = "email"
	fieldUsername = "username"
	fieldPassword = "password"
	fieldAvatar   = "avatar"
)

// reserved fields never end up in User.Profile.
var reserved = map[string]bool{
	fieldEmail: true, fieldUsername: true, fieldPassword: true, fieldAvatar: true,
	"id": true, "userId": true,
}

type UserRepository struct {
	store store.EntityStore
}

func NewUserRepository(s store.EntityStore) *UserRepository {
	return &UserRepository{store: s}
}

// Create hashes the plaintext password held in u and inserts a new user.
// On success u.ID and u.Password carry the stored values.
func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	u.Password = helpers.HashPassword(u.Password)
	key, err := r.store.Insert(ctx, store.IncompleteKey(entity.KindUser, nil), userProps(u))
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	u.ID = key.ID
	return nil
}

// Authenticate returns the first user whose email and password digest match.
func (r *UserRepository) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	q := store.NewQuery(entity.KindUser).
		Filter(fieldEmail, store.OpEqual, email).
		Filter(fieldPassword, store.OpEqual, helpers.HashPassword(password))
	found, err := r.store.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if len(found) == 0 {
		return nil, repo.ErrUserNotFound
	}
	return toUser(found[0]), nil
}

// Update replaces the stored user identified by u.ID. Fields absent from u
// are not preserved.
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	if u.ID == 0 {
		return repo.ErrMissingID
	}
	u.Password = helpers.HashPassword(u.Password)
	if err := r.store.Update(ctx, store.NewKey(entity.KindUser, u.ID, nil), userProps(u)); err != nil {
		return fmt.Errorf("update user %d: %w", u.ID, err)
	}
	return nil
}

func userProps(u *entity.User) store.Properties {
	p := make(store.Properties, len(u.Profile)+4)
	for k, v := range u.Profile {
		if !reserved[k] {
			p[k] = v
		}
	}
	p[fieldEmail] = u.Email
	p[fieldUsername] = u.Username
	p[fieldPassword] = u.Password
	p[fieldAvatar] = u.Avatar
	return p
}

func toUser(e store.Entity) *entity.User {
	u := &entity.User{
		ID:       e.Key.ID,
		Email:    e.Properties.String(fieldEmail),
		Username: e.Properties.String(fieldUsername),
		Password: e.Properties.String(fieldPassword),
		Avatar:   e.Properties.String(fieldAvatar),
	}
	for k, v := range e.Properties {
		if reserved[k] {
			continue
		}
		if u.Profile == nil {
			u.Profile = map[string]any{}
		}
		u.Profile[k] = v
	}
	return u
}

var _ repo.UserRepository = (*UserRepository)(nil)
