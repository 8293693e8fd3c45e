package idgen

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
)

// Sequence hands out monotonically increasing counter values. Implementations must make
// Next safe for concurrent use and never return the same value twice.
type Sequence interface {
	Next(ctx context.Context) (int64, error)
}

// AtomicSequence is a process-local counter. Values restart at the initial value whenever the
// process restarts, so it only suits single-instance deployments.
type AtomicSequence struct {
	counter atomic.Int64
}

// NewAtomicSequence returns a counter whose first Next call yields start.
func NewAtomicSequence(start int64) *AtomicSequence {
	s := &AtomicSequence{}
	s.counter.Store(start - 1)
	return s
}

// Next increments and returns the counter.
func (s *AtomicSequence) Next(context.Context) (int64, error) {
	return s.counter.Add(1), nil
}

// RedisSequence keeps the counter in Redis so it is shared by every instance and survives
// restarts.
type RedisSequence struct {
	client redis.Cmdable
	key    string
	offset int64
}

// NewRedisSequence builds a sequence stored under key. The first value returned is start.
func NewRedisSequence(client redis.Cmdable, key string, start int64) *RedisSequence {
	return &RedisSequence{client: client, key: key, offset: start - 1}
}

// Next atomically increments the Redis counter.
func (s *RedisSequence) Next(ctx context.Context) (int64, error) {
	v, err := s.client.Incr(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("incr %s: %w", s.key, err)
	}
	return v + s.offset, nil
}
