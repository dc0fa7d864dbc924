package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockNotAcquired is returned when the room lock stayed held by another
// request for every retry.
var ErrLockNotAcquired = errors.New("room lock not acquired")

// releaseScript deletes the lock only when it still carries our token, so a
// lock that expired and was taken by someone else is left alone.
var releaseScript = redis.NewScript(`
    if redis.call("GET", KEYS[1]) == ARGV[1] then
        return redis.call("DEL", KEYS[1])
    end
    return 0
`)

// RoomLockRepo serializes capacity checks per room across every instance
// of the service.  Locks are Redis keys set with SETNX and a TTL so a
// crashed holder cannot block a room forever.
type RoomLockRepo struct {
	rdb        *redis.Client
	ttl        time.Duration
	retries    int
	retryDelay time.Duration
}

// NewRoomLockRepo returns a lock repository.  ttl bounds how long a lock can
// outlive its holder; retries and retryDelay control how long Lock waits.
func NewRoomLockRepo(rdb *redis.Client, ttl time.Duration, retries int, retryDelay time.Duration) *RoomLockRepo {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	if retries < 0 {
		retries = 0
	}
	if retryDelay <= 0 {
		retryDelay = 50 * time.Millisecond
	}
	return &RoomLockRepo{rdb: rdb, ttl: ttl, retries: retries, retryDelay: retryDelay}
}

func roomLockKey(roomID int64) string { return fmt.Sprintf("lock:room:%d", roomID) }

// Lock acquires the room's lock and returns the function that releases it.
func (r *RoomLockRepo) Lock(ctx context.Context, roomID int64) (func() error, error) {
	key := roomLockKey(roomID)
	token := uuid.NewString()
	for attempt := 0; ; attempt++ {
		ok, err := r.rdb.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock for room %d: %w", roomID, err)
		}
		if ok {
			return func() error { return r.release(key, token) }, nil
		}
		if attempt >= r.retries {
			return nil, ErrLockNotAcquired
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.retryDelay):
		}
	}
}

// release runs on a fresh context: the request context may already be done
// when the handler returns.
func (r *RoomLockRepo) release(key, token string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, r.rdb, []string{key}, token).Err(); err != nil {
		return fmt.Errorf("release %s: %w", key, err)
	}
	return nil
}
