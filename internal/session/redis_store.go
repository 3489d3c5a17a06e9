package session

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps session ids in Redis as session:<id> -> user id, expiring
// with the session.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Save(ctx context.Context, id string, userID uint64, ttl time.Duration) error {
	return s.rdb.Set(ctx, key(id), strconv.FormatUint(userID, 10), ttl).Err()
}

func (s *RedisStore) Lookup(ctx context.Context, id string) (uint64, bool, error) {
	val, err := s.rdb.Get(ctx, key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	uid, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return uid, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, key(id)).Err()
}

func key(id string) string { return "session:" + id }
