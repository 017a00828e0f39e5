package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/callscribe-team/callscribe/internal/domain/entities"
	"github.com/callscribe-team/callscribe/pkg/config"
)

// NewRedisClient creates a Redis client from config and verifies connectivity
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// RedisProcessStore implements the ProcessStore port on Redis. The lock is a
// SET NX with TTL; process records are JSON values with their own TTL so they
// do not accumulate forever.
type RedisProcessStore struct {
	client *redis.Client
}

// NewRedisProcessStore creates a Redis-backed process store
func NewRedisProcessStore(client *redis.Client) *RedisProcessStore {
	return &RedisProcessStore{client: client}
}

func lockKey(botID string) string {
	return "callscribe:lock:bot:" + botID
}

func recordKey(botID string) string {
	return "callscribe:process:bot:" + botID
}

// TryAcquire atomically acquires the per-bot lock via SET NX. Returning
// false means another invocation holds it; that is not an error.
func (s *RedisProcessStore) TryAcquire(ctx context.Context, botID string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, lockKey(botID), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock for bot %s: %w", botID, err)
	}
	return ok, nil
}

// Release frees the per-bot lock
func (s *RedisProcessStore) Release(ctx context.Context, botID string) error {
	if err := s.client.Del(ctx, lockKey(botID)).Err(); err != nil {
		return fmt.Errorf("failed to release lock for bot %s: %w", botID, err)
	}
	return nil
}

// GetRecord retrieves the process record for a bot, nil if absent
func (s *RedisProcessStore) GetRecord(ctx context.Context, botID string) (*entities.ProcessRecord, error) {
	raw, err := s.client.Get(ctx, recordKey(botID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get process record for bot %s: %w", botID, err)
	}

	var record entities.ProcessRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, fmt.Errorf("failed to decode process record for bot %s: %w", botID, err)
	}
	return &record, nil
}

// PutRecord stores the process record with a TTL
func (s *RedisProcessStore) PutRecord(ctx context.Context, record *entities.ProcessRecord, ttl time.Duration) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode process record for bot %s: %w", record.BotID, err)
	}
	if err := s.client.Set(ctx, recordKey(record.BotID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store process record for bot %s: %w", record.BotID, err)
	}
	return nil
}

// DeleteRecord removes the process record after a failed run
func (s *RedisProcessStore) DeleteRecord(ctx context.Context, botID string) error {
	if err := s.client.Del(ctx, recordKey(botID)).Err(); err != nil {
		return fmt.Errorf("failed to delete process record for bot %s: %w", botID, err)
	}
	return nil
}
