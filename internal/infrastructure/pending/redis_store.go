package pending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/bibbank/smart-checkout/internal/domain/model"
	"github.com/bibbank/smart-checkout/internal/domain/port"
)

// KeyPrefix namespaces pending checkout keys.
const KeyPrefix = "checkout:pending:"

var _ port.PendingTransactionStore = (*RedisStore)(nil)

// RedisClient is the subset of the go-redis client the store uses.
type RedisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	GetDel(ctx context.Context, key string) *redis.StringCmd
}

// RedisStore keeps suspended checkouts in Redis so that any replica can
// resume them. Take uses GETDEL, so at most one caller receives an entry.
type RedisStore struct {
	client RedisClient
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore. A zero ttl keeps entries until taken.
func NewRedisStore(client RedisClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Put stores the checkout under a fresh UUID.
func (s *RedisStore) Put(ctx context.Context, txn model.Transaction, assessment model.RiskAssessment) (string, error) {
	id := uuid.NewString()
	entry := model.NewPendingChallenge(id, txn, assessment, time.Now().UTC())

	payload, err := json.Marshal(toRecord(entry))
	if err != nil {
		return "", fmt.Errorf("failed to encode pending checkout: %w", err)
	}

	stored, err := s.client.SetNX(ctx, KeyPrefix+id, payload, s.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("failed to store pending checkout: %w", err)
	}
	if !stored {
		return "", fmt.Errorf("failed to store pending checkout: id %s already in use", id)
	}
	return id, nil
}

// Take atomically reads and deletes the entry.
func (s *RedisStore) Take(ctx context.Context, id string) (model.PendingChallenge, bool, error) {
	payload, err := s.client.GetDel(ctx, KeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.PendingChallenge{}, false, nil
	}
	if err != nil {
		return model.PendingChallenge{}, false, fmt.Errorf("failed to take pending checkout: %w", err)
	}

	var rec record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return model.PendingChallenge{}, false, fmt.Errorf("failed to decode pending checkout %s: %w", id, err)
	}
	entry, err := rec.toModel()
	if err != nil {
		return model.PendingChallenge{}, false, fmt.Errorf("failed to decode pending checkout %s: %w", id, err)
	}
	return entry, true, nil
}
