package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"work-equipment-service/pkg/constants"
	apperrors "work-equipment-service/pkg/errors"
)

// SignalCacheRepositoryInterface caches the last line-signal result per unit.
// Entries are dropped whenever the unit is installed or pulled out, so a
// stale result never survives a structural change.
type SignalCacheRepositoryInterface interface {
	Get(ctx context.Context, equipmentID string) (string, error)
	Set(ctx context.Context, equipmentID, status string, ttl time.Duration) error
	Invalidate(ctx context.Context, equipmentIDs ...string) error
}

type RedisSignalCacheRepository struct {
	client *redis.Client
}

func NewRedisSignalCacheRepository(client *redis.Client) SignalCacheRepositoryInterface {
	return &RedisSignalCacheRepository{client: client}
}

func (r *RedisSignalCacheRepository) Get(ctx context.Context, equipmentID string) (string, error) {
	val, err := r.client.Get(ctx, fmt.Sprintf(constants.CacheKeySignalStatus, equipmentID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", apperrors.ErrNotFound
	}
	return val, err
}

func (r *RedisSignalCacheRepository) Set(ctx context.Context, equipmentID, status string, ttl time.Duration) error {
	return r.client.Set(ctx, fmt.Sprintf(constants.CacheKeySignalStatus, equipmentID), status, ttl).Err()
}

func (r *RedisSignalCacheRepository) Invalidate(ctx context.Context, equipmentIDs ...string) error {
	if len(equipmentIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(equipmentIDs))
	for _, id := range equipmentIDs {
		keys = append(keys, fmt.Sprintf(constants.CacheKeySignalStatus, id))
	}
	return r.client.Del(ctx, keys...).Err()
}
