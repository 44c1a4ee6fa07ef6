package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/my-maps-api/internal/domain/entity"
	repo "github.com/oksasatya/my-maps-api/internal/domain/repository"
	"github.com/oksasatya/my-maps-api/internal/infrastructure/memory"
	"github.com/oksasatya/my-maps-api/internal/infrastructure/persistence"
)

func TestTimelinesKey(t *testing.T) {
	assert.Equal(t, "timelines:user:42", timelinesKey(42))
}

func TestTimelineCacheWithoutRedisDelegates(t *testing.T) {
	ctx := context.Background()
	c := NewTimelineCache(persistence.NewTimelineRepository(memory.NewEntityStore()), nil, time.Minute, nil)

	require.NoError(t, c.Add(ctx, &entity.Timeline{UserID: 42, Origin: "A", Destination: "B"}))
	got, err := c.List(ctx, 42)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Origin)
}

// countingRepo records List calls to tell cache hits from misses.
type countingRepo struct {
	repo.TimelineRepository
	lists int
}

func (r *countingRepo) List(ctx context.Context, userID int64) ([]entity.Timeline, error) {
	r.lists++
	return r.TimelineRepository.List(ctx, userID)
}

func newRedisCache(t *testing.T) (*TimelineCache, *countingRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	next := &countingRepo{TimelineRepository: persistence.NewTimelineRepository(memory.NewEntityStore())}
	return NewTimelineCache(next, rdb, time.Minute, nil), next, mr
}

func TestTimelineCacheServesHitsFromRedis(t *testing.T) {
	ctx := context.Background()
	c, next, mr := newRedisCache(t)

	require.NoError(t, c.Add(ctx, &entity.Timeline{UserID: 7, Origin: "Paris", Destination: "Lyon", Time: "2024-05-01T10:00:00Z", Sub: true}))

	first, err := c.List(ctx, 7)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, next.lists)
	assert.True(t, mr.Exists(timelinesKey(7)))
	assert.Equal(t, time.Minute, mr.TTL(timelinesKey(7)))

	second, err := c.List(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, next.lists, "second list must be a cache hit")
	assert.Equal(t, first, second)
	assert.Equal(t, "2024-05-01T10:00:00Z", second[0].Time)
	assert.True(t, second[0].Sub)
}

func TestTimelineCacheAddDropsCachedList(t *testing.T) {
	ctx := context.Background()
	c, next, mr := newRedisCache(t)

	require.NoError(t, c.Add(ctx, &entity.Timeline{UserID: 7, Origin: "A", Destination: "B"}))
	_, err := c.List(ctx, 7)
	require.NoError(t, err)
	require.True(t, mr.Exists(timelinesKey(7)))

	require.NoError(t, c.Add(ctx, &entity.Timeline{UserID: 7, Origin: "C", Destination: "D"}))
	assert.False(t, mr.Exists(timelinesKey(7)))

	got, err := c.List(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 2, next.lists)
}

func TestTimelineCacheSkipsEmptyLists(t *testing.T) {
	ctx := context.Background()
	c, next, mr := newRedisCache(t)

	for i := 0; i < 2; i++ {
		got, err := c.List(ctx, 9)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
	assert.False(t, mr.Exists(timelinesKey(9)))
	assert.Equal(t, 2, next.lists)
}

func TestTimelineCacheKeepsNumericTime(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newRedisCache(t)

	require.NoError(t, c.Add(ctx, &entity.Timeline{UserID: 3, Origin: "A", Destination: "B", Time: int64(1714557600000)}))
	_, err := c.List(ctx, 3)
	require.NoError(t, err)

	hit, err := c.List(ctx, 3)
	require.NoError(t, err)
	require.Len(t, hit, 1)
	// JSON numbers decode as float64; the value itself survives.
	assert.EqualValues(t, 1714557600000, hit[0].Time)
}

func TestTimelineCacheFallsThroughWhenRedisDown(t *testing.T) {
	ctx := context.Background()
	c, next, mr := newRedisCache(t)
	require.NoError(t, c.Add(ctx, &entity.Timeline{UserID: 5, Origin: "A", Destination: "B"}))
	mr.Close()

	got, err := c.List(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, next.lists)
}
