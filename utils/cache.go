package utils

import (
	"context"
	"time"

	"carevox/config"

	"github.com/go-redis/redis/v8"
)

// ArchiveCacheClient is the dedicated client for session archiving.
var ArchiveCacheClient *redis.Client

// InitArchiveCache initializes the Redis client used for archiving reset
// sessions. The archive sink is optional: callers may continue without it
// when Redis is unreachable.
func InitArchiveCache() error {
	ArchiveCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisArchiveDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := ArchiveCacheClient.Ping(ctx).Result(); err != nil {
		ArchiveCacheClient = nil
		return err
	}
	return nil
}

// GetArchiveCacheClient returns the Redis client for session archiving, or
// nil when the archive cache was never initialized.
func GetArchiveCacheClient() *redis.Client {
	return ArchiveCacheClient
}
