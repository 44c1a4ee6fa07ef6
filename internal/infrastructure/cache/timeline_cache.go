package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/my-maps-api/internal/domain/entity"
	repo "github.com/oksasatya/my-maps-api/internal/domain/repository"
	"github.com/oksasatya/my-maps-api/pkg/helpers"
)

func timelinesKey(userID int64) string {
	return "timelines:user:" + strconv.FormatInt(userID, 10)
}

// TimelineCache is a read-through cache in front of a TimelineRepository.
// Add drops the owner's cached list so the next List sees the new entry.
// Redis failures are logged and fall through to the wrapped repository.
type TimelineCache struct {
	Next   repo.TimelineRepository
	Redis  *redis.Client
	TTL    time.Duration
	Logger *logrus.Logger
}

func NewTimelineCache(next repo.TimelineRepository, rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *TimelineCache {
	return &TimelineCache{Next: next, Redis: rdb, TTL: ttl, Logger: logger}
}

func (c *TimelineCache) Add(ctx context.Context, t *entity.Timeline) error {
	if err := c.Next.Add(ctx, t); err != nil {
		return err
	}
	if c.Redis != nil {
		if err := helpers.RedisDel(ctx, c.Redis, timelinesKey(t.UserID)); err != nil {
			c.warn(err, t.UserID, "timeline cache invalidation failed")
		}
	}
	return nil
}

func (c *TimelineCache) List(ctx context.Context, userID int64) ([]entity.Timeline, error) {
	if c.Redis == nil {
		return c.Next.List(ctx, userID)
	}
	key := timelinesKey(userID)
	var cached []entity.Timeline
	ok, err := helpers.RedisGetJSON(ctx, c.Redis, key, &cached)
	if err != nil {
		c.warn(err, userID, "timeline cache read failed")
	}
	if ok {
		return cached, nil
	}

	list, err := c.Next.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(list) > 0 {
		if err := helpers.RedisSetJSON(ctx, c.Redis, key, list, c.TTL); err != nil {
			c.warn(err, userID, "timeline cache write failed")
		}
	}
	return list, nil
}

func (c *TimelineCache) warn(err error, userID int64, msg string) {
	if c.Logger != nil {
		c.Logger.WithError(err).WithField("user_id", userID).Warn(msg)
	}
}

var _ repo.TimelineRepository = (*TimelineCache)(nil)
