package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

// RedisStore persists session contexts as JSON blobs with a TTL, so expiry is
// handled by Redis itself and survives process restarts.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Get implements Store. A missing session is initialized with the default
// context and written back with the full TTL.
func (s *RedisStore) Get(ctx context.Context, id string) (Context, error) {
	key := s.key(id)
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		sc := defaultContext(time.Now())
		data, merr := json.Marshal(sc)
		if merr != nil {
			return Context{}, merr
		}
		if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
			return Context{}, err
		}
		return sc, nil
	}
	if err != nil {
		return Context{}, err
	}

	var sc Context
	if err := json.Unmarshal([]byte(val), &sc); err != nil {
		return Context{}, err
	}
	// Refresh TTL on read; a failure here is not worth failing the request.
	_ = s.client.Expire(ctx, key, s.ttl).Err()
	return sc, nil
}

// Update implements Store. The read-merge-write runs inside WATCH so
// concurrent writers to the same key retry instead of losing fields.
func (s *RedisStore) Update(ctx context.Context, id string, partial Partial) error {
	key := s.key(id)

	return s.client.Watch(ctx, func(tx *redis.Tx) error {
		sc := defaultContext(time.Now())
		val, err := tx.Get(ctx, key).Result()
		if err != nil && err != redis.Nil {
			return err
		}
		if err == nil {
			if uerr := json.Unmarshal([]byte(val), &sc); uerr != nil {
				return uerr
			}
		}

		sc.apply(partial)
		sc.UpdatedAt = time.Now()

		data, err := json.Marshal(sc)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		return err
	}, key)
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(id string) string {
	return redisKeyPrefix + id
}
