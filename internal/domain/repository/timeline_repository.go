package repository

import (
	"context"

	"github.com/oksasatya/my-maps-api/internal/domain/entity"
)

// TimelineRepository stores timelines under their owning user.
type TimelineRepository interface {
	Add(ctx context.Context, t *entity.Timeline) error
	List(ctx context.Context, userID int64) ([]entity.Timeline, error)
}
