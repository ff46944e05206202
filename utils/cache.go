package utils

import (
	"context"
	"log"
	"time"

	"bookline/config"

	"github.com/go-redis/redis/v8"
)

// PreferenceCacheClient is the Redis client backing the cross-call
// caller preference store.
var PreferenceCacheClient *redis.Client

// InitPreferenceCache initializes the Redis client for preference caching.
func InitPreferenceCache() {
	PreferenceCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisPreferenceDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := PreferenceCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Preference Cache): %v", err)
	}
}

// GetPreferenceCacheClient returns the preference cache client.
func GetPreferenceCacheClient() *redis.Client {
	if PreferenceCacheClient == nil {
		InitPreferenceCache()
	}
	return PreferenceCacheClient
}
