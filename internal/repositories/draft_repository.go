package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"work-equipment-service/internal/entities"
	"work-equipment-service/pkg/constants"
	apperrors "work-equipment-service/pkg/errors"
)

// DraftRepositoryInterface is the draft document store. Writes are
// synchronous: Set returns only after the value is durable in the backend.
type DraftRepositoryInterface interface {
	Get(ctx context.Context, workItemID string) (*entities.Draft, error)
	Set(ctx context.Context, workItemID string, draft *entities.Draft) error
	Del(ctx context.Context, workItemID string) error
}

type RedisDraftRepository struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	logger    *zap.Logger
}

func NewRedisDraftRepository(client *redis.Client, ttl time.Duration, keyPrefix string, logger *zap.Logger) DraftRepositoryInterface {
	if keyPrefix == "" {
		keyPrefix = constants.DraftKeyPrefix
	}
	return &RedisDraftRepository{client: client, ttl: ttl, keyPrefix: keyPrefix, logger: logger}
}

func (r *RedisDraftRepository) key(workItemID string) string {
	return r.keyPrefix + workItemID
}

func (r *RedisDraftRepository) Get(ctx context.Context, workItemID string) (*entities.Draft, error) {
	raw, err := r.client.Get(ctx, r.key(workItemID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("draft read for %s: %w", workItemID, err)
	}

	var draft entities.Draft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		// A corrupt document is unrecoverable; the session restarts empty.
		r.logger.Error("corrupt draft document, discarding",
			zap.String("work_item_id", workItemID),
			zap.Error(err),
		)
		return nil, apperrors.ErrNotFound
	}
	draft.EnsureMaps()
	return &draft, nil
}

func (r *RedisDraftRepository) Set(ctx context.Context, workItemID string, draft *entities.Draft) error {
	encoded, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("draft encode for %s: %w", workItemID, err)
	}
	return r.client.Set(ctx, r.key(workItemID), encoded, r.ttl).Err()
}

func (r *RedisDraftRepository) Del(ctx context.Context, workItemID string) error {
	return r.client.Del(ctx, r.key(workItemID)).Err()
}
