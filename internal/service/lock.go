package service

import (
	"context"
	"sync"
)

// LocalRoomLocker serializes bookings per room inside one process.  It is
// used when Redis is not configured; with several instances running, only
// the Redis-backed locker closes the capacity race.
type LocalRoomLocker struct {
	mu    sync.Mutex
	rooms map[int64]chan struct{}
}

func NewLocalRoomLocker() *LocalRoomLocker {
	return &LocalRoomLocker{rooms: make(map[int64]chan struct{})}
}

// Lock blocks until the room is free or ctx is done.
func (l *LocalRoomLocker) Lock(ctx context.Context, roomID int64) (func() error, error) {
	l.mu.Lock()
	sem, ok := l.rooms[roomID]
	if !ok {
		sem = make(chan struct{}, 1)
		l.rooms[roomID] = sem
	}
	l.mu.Unlock()

	select {
	case sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	var once sync.Once
	return func() error {
		once.Do(func() { <-sem })
		return nil
	}, nil
}
