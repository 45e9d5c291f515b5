package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Buffden/Event-Management-System-sub004/internal/domain/venue"
	"github.com/Buffden/Event-Management-System-sub004/internal/pkg/logger"
)

var ErrCacheMiss = errors.New("cache miss")

const venueListKey = "venues:all"

// VenueCache stores venues as JSON.
type VenueCache struct {
	client *redis.Client
}

func NewVenueCache(client *redis.Client) *VenueCache {
	return &VenueCache{client: client}
}

func (c *VenueCache) Get(ctx context.Context, id string) (*venue.Venue, error) {
	var v venue.Venue
	if err := c.get(ctx, venueKey(id), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *VenueCache) Set(ctx context.Context, v *venue.Venue, ttl time.Duration) error {
	return c.set(ctx, venueKey(v.ID), v, ttl)
}

func (c *VenueCache) GetList(ctx context.Context) ([]*venue.Venue, error) {
	var venues []*venue.Venue
	if err := c.get(ctx, venueListKey, &venues); err != nil {
		return nil, err
	}
	return venues, nil
}

func (c *VenueCache) SetList(ctx context.Context, venues []*venue.Venue, ttl time.Duration) error {
	return c.set(ctx, venueListKey, venues, ttl)
}

// Invalidate drops the venue and the cached list.
func (c *VenueCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, venueKey(id), venueListKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	return nil
}

func (c *VenueCache) get(ctx context.Context, key string, dest interface{}) error {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to read cache: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("failed to decode cache entry %s: %w", key, err)
	}
	return nil
}

func (c *VenueCache) set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

func venueKey(id string) string {
	return fmt.Sprintf("venue:%s", id)
}

// CachedVenueRepository is a read-through cache in front of a venue.Repository.
// Cache failures fall back to the underlying repository.
type CachedVenueRepository struct {
	next  venue.Repository
	cache *VenueCache
	ttl   time.Duration
}

func NewCachedVenueRepository(next venue.Repository, cache *VenueCache, ttl time.Duration) *CachedVenueRepository {
	return &CachedVenueRepository{next: next, cache: cache, ttl: ttl}
}

func (r *CachedVenueRepository) GetByID(ctx context.Context, id string) (*venue.Venue, error) {
	v, err := r.cache.Get(ctx, id)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		logger.Warn("venue cache read failed", zap.String("venue_id", id), zap.Error(err))
	}

	v, err = r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, v, r.ttl); err != nil {
		logger.Warn("venue cache write failed", zap.String("venue_id", id), zap.Error(err))
	}
	return v, nil
}

func (r *CachedVenueRepository) List(ctx context.Context) ([]*venue.Venue, error) {
	venues, err := r.cache.GetList(ctx)
	if err == nil {
		return venues, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		logger.Warn("venue list cache read failed", zap.Error(err))
	}

	venues, err = r.next.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.cache.SetList(ctx, venues, r.ttl); err != nil {
		logger.Warn("venue list cache write failed", zap.Error(err))
	}
	return venues, nil
}

var _ venue.Repository = (*CachedVenueRepository)(nil)
