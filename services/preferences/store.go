package preferences

import (
	"context"
	"encoding/json"
	"time"

	"bookline/models"

	"github.com/go-redis/redis/v8"
)

const preferencePrefix = "pref:ctx:"

// Store persists learned preferences across calls, keyed by contact
// number. Load/save failures are non-fatal for callers.
type Store interface {
	Get(ctx context.Context, contactNumber string) (models.Preferences, error)
	Set(ctx context.Context, contactNumber string, prefs models.Preferences) error
	Clear(ctx context.Context, contactNumber string) error
}

// RedisStore implements Store with a TTL'd Redis entry per caller.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore builds a preference store over the given client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, contactNumber string) (models.Preferences, error) {
	key := preferencePrefix + contactNumber
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return models.Preferences{}, nil
	}
	if err != nil {
		return models.Preferences{}, err
	}
	var prefs models.Preferences
	if err := json.Unmarshal([]byte(data), &prefs); err != nil {
		return models.Preferences{}, err
	}
	return prefs, nil
}

func (s *RedisStore) Set(ctx context.Context, contactNumber string, prefs models.Preferences) error {
	key := preferencePrefix + contactNumber
	b, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, s.ttl).Err()
}

func (s *RedisStore) Clear(ctx context.Context, contactNumber string) error {
	key := preferencePrefix + contactNumber
	return s.client.Del(ctx, key).Err()
}
