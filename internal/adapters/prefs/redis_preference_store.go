package prefs

import (
	"context"
	"errors"
	"fmt"
	"runmap-service/internal/platform/obs"
	"runmap-service/internal/ports"

	"github.com/redis/go-redis/v9"
)

// RedisPreferenceStore keeps every preference as a field of one hash.
type RedisPreferenceStore struct {
	client *redis.Client
	hash   string
}

var _ ports.PreferenceStore = (*RedisPreferenceStore)(nil)

func NewRedisPreferenceStore(client *redis.Client, namespace string) *RedisPreferenceStore {
	if namespace == "" {
		namespace = "runmap"
	}
	return &RedisPreferenceStore{client: client, hash: namespace + ":prefs"}
}

func (s *RedisPreferenceStore) Get(ctx context.Context, key string) (_ string, _ bool, err error) {
	defer obs.Time(ctx, "prefs.redis.Get")(&err)

	v, err := s.client.HGet(ctx, s.hash, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get preference %q: %w", key, err)
	}
	return v, true, nil
}

func (s *RedisPreferenceStore) Set(ctx context.Context, key string, value string) (err error) {
	defer obs.Time(ctx, "prefs.redis.Set")(&err)

	if err := s.client.HSet(ctx, s.hash, key, value).Err(); err != nil {
		return fmt.Errorf("set preference %q: %w", key, err)
	}
	return nil
}
