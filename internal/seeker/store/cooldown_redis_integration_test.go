//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"bloodlink/pkg/testutil/containers"
)

type RedisCooldownSuite struct {
	suite.Suite
	redis    *containers.RedisContainer
	cooldown *RedisCooldown
}

func TestRedisCooldownSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCooldownSuite))
}

func (s *RedisCooldownSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.cooldown = NewRedisCooldown(s.redis.Client)
}

func (s *RedisCooldownSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisCooldownSuite) TestHeldKeyBlocksClaim() {
	ctx := context.Background()
	t0 := time.UnixMilli(1_749_556_800_000).UTC()

	_, ok, err := s.cooldown.Acquire(ctx, []string{"phone:9876543210"}, t0, time.Minute)
	s.Require().NoError(err)
	s.Require().True(ok)

	held, ok, err := s.cooldown.Acquire(ctx, []string{"email:a@example.com", "phone:9876543210"}, t0.Add(7*time.Second), time.Minute)
	s.Require().NoError(err)
	s.False(ok)
	s.True(held.Equal(t0))

	n, err := s.redis.Client.Exists(ctx, cooldownKeyPrefix+"email:a@example.com").Result()
	s.Require().NoError(err)
	s.Zero(n, "a refused claim writes nothing")
}

func (s *RedisCooldownSuite) TestConcurrentClaimsAdmitOne() {
	ctx := context.Background()
	now := time.Now()
	results := make(chan bool, 8)
	for range 8 {
		go func() {
			_, ok, err := s.cooldown.Acquire(ctx, []string{"email:race@example.com"}, now, time.Minute)
			results <- err == nil && ok
		}()
	}
	var won int
	for range 8 {
		if <-results {
			won++
		}
	}
	s.Equal(1, won)
}

func (s *RedisCooldownSuite) TestReleaseMatchesClaim() {
	ctx := context.Background()
	keys := []string{"email:c@example.com"}
	t0 := time.Now()

	_, ok, err := s.cooldown.Acquire(ctx, keys, t0, time.Minute)
	s.Require().NoError(err)
	s.Require().True(ok)

	s.Require().NoError(s.cooldown.Release(ctx, keys, t0.Add(time.Second)))
	_, ok, err = s.cooldown.Acquire(ctx, keys, t0.Add(2*time.Second), time.Minute)
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.cooldown.Release(ctx, keys, t0))
	_, ok, err = s.cooldown.Acquire(ctx, keys, t0.Add(2*time.Second), time.Minute)
	s.Require().NoError(err)
	s.True(ok)
}

func (s *RedisCooldownSuite) TestKeysExpireWithWindow() {
	ctx := context.Background()
	_, ok, err := s.cooldown.Acquire(ctx, []string{"email:b@example.com"}, time.Now(), time.Second)
	s.Require().NoError(err)
	s.Require().True(ok)

	ttl, err := s.redis.Client.PTTL(ctx, cooldownKeyPrefix+"email:b@example.com").Result()
	s.Require().NoError(err)
	s.Positive(ttl)
	s.LessOrEqual(ttl, time.Second)
}
