package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/thereayou/geotrack/internal/models"
)

const historyKeyPrefix = "geotrack:history:"

// RedisStore keeps each room's history as a redis list, one JSON record per
// element, so RPUSH preserves append order across process restarts. An
// optional TTL bounds growth for abandoned room ids; zero keeps keys forever.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *RedisStore) SaveLocation(ctx context.Context, rec *models.LocationUpdate) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal location record: %w", err)
	}

	key := historyKeyPrefix + rec.RoomID
	if err := s.client.RPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("rpush %s: %w", key, err)
	}

	if s.ttl > 0 {
		s.client.Expire(ctx, key, s.ttl)
	}
	return nil
}

func (s *RedisStore) RoomHistory(ctx context.Context, roomID string, limit int) ([]models.LocationUpdate, error) {
	key := historyKeyPrefix + roomID

	start := int64(0)
	if limit > 0 {
		start = int64(-limit)
	}

	raw, err := s.client.LRange(ctx, key, start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", key, err)
	}

	records := make([]models.LocationUpdate, 0, len(raw))
	for _, item := range raw {
		var rec models.LocationUpdate
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("decode location record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
