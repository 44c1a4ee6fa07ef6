package persistence

import (
	"context"
	"fmt"

	"github.com/oksasatya/my-maps-api/internal/domain/entity"
	repo "github.com/oksasatya/my-maps-api/internal/domain/repository"
	"github.com/oksasatya/my-maps-api/internal/domain/store"
)

type TimelineRepository struct {
	store store.EntityStore
}

func NewTimelineRepository(s store.EntityStore) *TimelineRepository {
	return &TimelineRepository{store: s}
}

// Add inserts t under its owner's key. Sub is always reset to false.
func (r *TimelineRepository) Add(ctx context.Context, t *entity.Timeline) error {
	if t.UserID == 0 {
		return repo.ErrMissingID
	}
	t.Sub = false
	key := store.IncompleteKey(entity.KindTimeline, userKey(t.UserID))
	saved, err := r.store.Insert(ctx, key, store.Properties{
		"origin":      t.Origin,
		"destination": t.Destination,
		"time":        t.Time,
		"sub":         t.Sub,
	})
	if err != nil {
		return fmt.Errorf("add timeline for user %d: %w", t.UserID, err)
	}
	t.ID = saved.ID
	return nil
}

// List returns every timeline stored under the user's key.
func (r *TimelineRepository) List(ctx context.Context, userID int64) ([]entity.Timeline, error) {
	found, err := r.store.Query(ctx, store.NewQuery(entity.KindTimeline).WithAncestor(userKey(userID)))
	if err != nil {
		return nil, fmt.Errorf("list timelines for user %d: %w", userID, err)
	}
	out := make([]entity.Timeline, 0, len(found))
	for _, e := range found {
		out = append(out, entity.Timeline{
			ID:          e.Key.ID,
			UserID:      userID,
			Origin:      e.Properties.String("origin"),
			Destination: e.Properties.String("destination"),
			Time:        e.Properties["time"],
			Sub:         e.Properties.Bool("sub"),
		})
	}
	return out, nil
}

func userKey(id int64) *store.Key {
	return store.NewKey(entity.KindUser, id, nil)
}

var _ repo.TimelineRepository = (*TimelineRepository)(nil)
