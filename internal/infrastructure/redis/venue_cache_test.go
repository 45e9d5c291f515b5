package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Buffden/Event-Management-System-sub004/internal/domain/venue"
)

// countingVenueRepository counts calls to the underlying store.
type countingVenueRepository struct {
	venues map[string]*venue.Venue
	gets   int
	lists  int
}

func (r *countingVenueRepository) GetByID(_ context.Context, id string) (*venue.Venue, error) {
	r.gets++
	v, ok := r.venues[id]
	if !ok {
		return nil, venue.ErrVenueNotFound
	}
	return v, nil
}

func (r *countingVenueRepository) List(context.Context) ([]*venue.Venue, error) {
	r.lists++
	out := make([]*venue.Venue, 0, len(r.venues))
	for _, v := range r.venues {
		out = append(out, v)
	}
	return out, nil
}

func newCountingRepo() *countingVenueRepository {
	return &countingVenueRepository{venues: map[string]*venue.Venue{
		"venue-1": {ID: "venue-1", Name: "Main Hall", Capacity: 300, OpeningTime: "08:00", ClosingTime: "22:00"},
	}}
}

func TestVenueCache(t *testing.T) {
	mr, client := setupTestRedis(t)
	cache := NewVenueCache(client)
	ctx := context.Background()

	t.Run("miss", func(t *testing.T) {
		_, err := cache.Get(ctx, "venue-404")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, &venue.Venue{ID: "venue-1", Name: "Main Hall", Capacity: 300}, 30*time.Second))

		v, err := cache.Get(ctx, "venue-1")
		require.NoError(t, err)
		assert.Equal(t, "Main Hall", v.Name)
		assert.Equal(t, 300, v.Capacity)
	})

	t.Run("expires", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, &venue.Venue{ID: "venue-ttl"}, time.Second))
		mr.FastForward(2 * time.Second)

		_, err := cache.Get(ctx, "venue-ttl")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("invalidate drops entry and list", func(t *testing.T) {
		require.NoError(t, cache.SetList(ctx, []*venue.Venue{{ID: "venue-1"}}, 30*time.Second))
		require.NoError(t, cache.Invalidate(ctx, "venue-1"))

		_, err := cache.Get(ctx, "venue-1")
		assert.ErrorIs(t, err, ErrCacheMiss)
		_, err = cache.GetList(ctx)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("corrupt entry", func(t *testing.T) {
		require.NoError(t, mr.Set("venue:broken", "{not json"))
		_, err := cache.Get(ctx, "broken")
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrCacheMiss))
	})
}

func TestCachedVenueRepository(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()
	inner := newCountingRepo()
	repo := NewCachedVenueRepository(inner, NewVenueCache(client), time.Minute)

	for i := 0; i < 3; i++ {
		v, err := repo.GetByID(ctx, "venue-1")
		require.NoError(t, err)
		assert.Equal(t, "Main Hall", v.Name)
	}
	assert.Equal(t, 1, inner.gets)

	for i := 0; i < 2; i++ {
		venues, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, venues, 1)
	}
	assert.Equal(t, 1, inner.lists)

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, venue.ErrVenueNotFound)
}

func TestCachedVenueRepository_FallsBackWhenRedisIsDown(t *testing.T) {
	mr, client := setupTestRedis(t)
	inner := newCountingRepo()
	repo := NewCachedVenueRepository(inner, NewVenueCache(client), time.Minute)
	mr.Close()

	v, err := repo.GetByID(context.Background(), "venue-1")

	require.NoError(t, err)
	assert.Equal(t, "venue-1", v.ID)
	assert.Equal(t, 1, inner.gets)
}
