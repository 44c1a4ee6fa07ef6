package application

import (
	"context"
	"fmt"

	"github.com/oksasatya/my-maps-api/internal/domain/entity"
	repo "github.com/oksasatya/my-maps-api/internal/domain/repository"
)

type TimelineService struct {
	Repo repo.TimelineRepository
}

func NewTimelineService(repo repo.TimelineRepository) *TimelineService {
	return &TimelineService{Repo: repo}
}

type AddTimelineInput struct {
	UserID      int64
	Origin      string
	Destination string
	Time        any
}

// Add stores a new timeline for in.UserID. Sub always starts out false.
func (s *TimelineService) Add(ctx context.Context, in AddTimelineInput) (*entity.Timeline, error) {
	t := &entity.Timeline{
		UserID:      in.UserID,
		Origin:      in.Origin,
		Destination: in.Destination,
		Time:        in.Time,
	}
	if err := s.Repo.Add(ctx, t); err != nil {
		return nil, fmt.Errorf("add timeline: %w", err)
	}
	return t, nil
}

func (s *TimelineService) List(ctx context.Context, userID int64) ([]entity.Timeline, error) {
	return s.Repo.List(ctx, userID)
}
