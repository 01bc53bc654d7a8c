package memory

import (
	"context"
	"encoding/json"
	"time"

	"carevox/models"

	"github.com/go-redis/redis/v8"
)

const archiveKeyPrefix = "carevox:archive:"

// ArchiveStore persists reset sessions for audit. Archiving is best
// effort; a failed save never blocks a reset.
type ArchiveStore interface {
	Save(ctx context.Context, archive models.SessionArchive) error
}

// RedisArchiveStore keeps archived sessions in Redis with a TTL.
type RedisArchiveStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisArchiveStore(client *redis.Client, ttl time.Duration) *RedisArchiveStore {
	return &RedisArchiveStore{client: client, ttl: ttl}
}

func (s *RedisArchiveStore) Save(ctx context.Context, archive models.SessionArchive) error {
	b, err := json.Marshal(archive)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, archiveKeyPrefix+archive.Session.ID, b, s.ttl).Err()
}
