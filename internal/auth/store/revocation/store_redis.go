package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var revocationCheckSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "bloodlink_token_revocation_check_seconds",
	Help:    "Latency of Redis token revocation lookups.",
	Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025},
})

const revokedKeyPrefix = "auth:revoked:"

func revokedKey(jti string) string { return revokedKeyPrefix + jti }

// RedisTRL shares the revocation list between API instances. Keys expire with
// the token, so nothing needs purging.
type RedisTRL struct {
	client redis.UniversalClient
}

func NewRedisTRL(client redis.UniversalClient) *RedisTRL {
	return &RedisTRL{client: client}
}

func (t *RedisTRL) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if skip, err := noop(jti, ttl); skip || err != nil {
		return err
	}
	if err := t.client.Set(ctx, revokedKey(jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the jti key still exists.
func (t *RedisTRL) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	timer := prometheus.NewTimer(revocationCheckSeconds)
	defer timer.ObserveDuration()

	n, err := t.client.Exists(ctx, revokedKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return n > 0, nil
}
