package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/my-maps-api/internal/domain/entity"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrMissingID    = errors.New("missing entity id")
)

// UserRepository defines the persistence operations on users.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	Authenticate(ctx context.Context, email, password string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
}
