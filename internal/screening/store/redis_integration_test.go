//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"vetgate/internal/screening/models"
	"vetgate/internal/screening/store"
	"vetgate/pkg/platform/sentinel"
	"vetgate/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *store.Redis
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = store.NewRedis(s.redis.Client, time.Hour)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	c := newStoredCase("redis-case-1", "FRAUD_PASS")

	s.Require().NoError(s.store.Save(ctx, c))

	found, err := s.store.FindByID(ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(c.ID, found.ID)
	s.Equal(c.Status, found.Status)
	s.Len(found.Timeline, 1)
}

func (s *RedisStoreSuite) TestMissReturnsNotFound() {
	_, err := s.store.FindByID(context.Background(), "redis-missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestTTLEviction() {
	ctx := context.Background()
	shortTTL := store.NewRedis(s.redis.Client, 50*time.Millisecond)

	c := newStoredCase("redis-case-ttl", "CREATED")
	s.Require().NoError(shortTTL.Save(ctx, c))

	time.Sleep(90 * time.Millisecond)

	_, err := shortTTL.FindByID(ctx, c.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
