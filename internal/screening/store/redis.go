package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"vetgate/internal/screening/models"
	id "vetgate/pkg/domain"
	"vetgate/pkg/platform/sentinel"
)

const caseKeyPrefix = "screening:case:"

// Redis persists cases as JSON values with an optional TTL. A zero TTL keeps
// cases until evicted.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (s *Redis) Save(ctx context.Context, c models.Case) error {
	body, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal case: %w", err)
	}
	if err := s.client.Set(ctx, caseKeyPrefix+c.ID.String(), body, s.ttl).Err(); err != nil {
		return fmt.Errorf("save case: %w", err)
	}
	return nil
}

func (s *Redis) FindByID(ctx context.Context, caseID id.CaseID) (models.Case, error) {
	body, err := s.client.Get(ctx, caseKeyPrefix+caseID.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Case{}, sentinel.ErrNotFound
		}
		return models.Case{}, fmt.Errorf("find case: %w", err)
	}
	var c models.Case
	if err := json.Unmarshal(body, &c); err != nil {
		return models.Case{}, fmt.Errorf("unmarshal case: %w", err)
	}
	return c, nil
}
