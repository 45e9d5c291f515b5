package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Buffden/Event-Management-System-sub004/internal/pkg/logger"
	"github.com/Buffden/Event-Management-System-sub004/internal/pkg/metrics"
)

var (
	ErrLockNotAcquired = errors.New("lock is held by another owner")
	ErrLockNotOwned    = errors.New("lock is not owned by this holder")
)

// Compare-and-delete / compare-and-expire so a holder never touches a lock
// that expired and was taken by someone else.
var (
	releaseScript = redis.NewScript(`
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		else
			return 0
		end
	`)
	extendScript = redis.NewScript(`
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("PEXPIRE", KEYS[1], ARGV[2])
		else
			return 0
		end
	`)
)

// DistributedLock is a lock held in Redis under a random token.
type DistributedLock struct {
	client *redis.Client
	key    string
	value  string
	ttl    time.Duration
}

// LockManager hands out distributed locks.
type LockManager struct {
	client *redis.Client
}

func NewLockManager(client *redis.Client) *LockManager {
	return &LockManager{client: client}
}

// AcquireLock takes the lock once, failing with ErrLockNotAcquired if it is held.
func (m *LockManager) AcquireLock(ctx context.Context, key string, ttl time.Duration) (*DistributedLock, error) {
	lockKey := fmt.Sprintf("lock:%s", key)
	lockValue := uuid.New().String()

	ok, err := m.client.SetNX(ctx, lockKey, lockValue, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrLockNotAcquired
	}

	return &DistributedLock{client: m.client, key: lockKey, value: lockValue, ttl: ttl}, nil
}

// AcquireLockWithRetry retries AcquireLock while the lock is held by someone else.
func (m *LockManager) AcquireLockWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (*DistributedLock, error) {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		lock, err := m.AcquireLock(ctx, key, ttl)
		if err == nil {
			return lock, nil
		}
		lastErr = err
		if !errors.Is(err, ErrLockNotAcquired) {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return nil, lastErr
}

// Key returns the Redis key of the lock.
func (l *DistributedLock) Key() string {
	return l.key
}

// Release deletes the lock if it is still owned.
func (l *DistributedLock) Release(ctx context.Context) error {
	result, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.value).Int()
	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	if result == 0 {
		return ErrLockNotOwned
	}
	return nil
}

// Extend resets the lock TTL if it is still owned.
func (l *DistributedLock) Extend(ctx context.Context, ttl time.Duration) error {
	result, err := extendScript.Run(ctx, l.client, []string{l.key}, l.value, ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("failed to extend lock: %w", err)
	}
	if result == 0 {
		return ErrLockNotOwned
	}
	l.ttl = ttl
	return nil
}

// VenueLockConfig tunes VenueLocker.
type VenueLockConfig struct {
	TTL        time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// VenueLocker takes a per-venue lock around check-and-reserve work.
type VenueLocker struct {
	manager *LockManager
	cfg     VenueLockConfig
	metrics *metrics.Metrics
}

func NewVenueLocker(manager *LockManager, cfg VenueLockConfig, m *metrics.Metrics) *VenueLocker {
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 20
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 50 * time.Millisecond
	}
	return &VenueLocker{manager: manager, cfg: cfg, metrics: m}
}

// LockVenue acquires "lock:venue:<id>" and returns its release func.
func (v *VenueLocker) LockVenue(ctx context.Context, venueID string) (func(), error) {
	start := time.Now()
	lock, err := v.manager.AcquireLockWithRetry(ctx, "venue:"+venueID, v.cfg.TTL, v.cfg.MaxRetries, v.cfg.RetryDelay)
	if err != nil {
		v.metrics.ObserveLock("acquire", "failed", time.Since(start).Seconds())
		return nil, err
	}
	v.metrics.ObserveLock("acquire", "success", time.Since(start).Seconds())

	return func() {
		// the caller's ctx may already be cancelled
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		start := time.Now()
		if err := lock.Release(releaseCtx); err != nil {
			v.metrics.ObserveLock("release", "failed", time.Since(start).Seconds())
			logger.Warn("failed to release venue lock", zap.String("key", lock.Key()), zap.Error(err))
			return
		}
		v.metrics.ObserveLock("release", "success", time.Since(start).Seconds())
	}, nil
}
