package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const cooldownKeyPrefix = "seeker:cooldown:"

// acquireScript claims every key in one step. ARGV[1] is the claim time in
// unix milliseconds and ARGV[2] the window in milliseconds. A key counts as
// held while its stored time is inside the window. Returns {1, at} on success
// or {0, latest} when held.
var acquireScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local latest = nil
for _, key in ipairs(KEYS) do
	local v = tonumber(redis.call('GET', key))
	if v and now - v < window and (latest == nil or v > latest) then
		latest = v
	end
end
if latest then
	return {0, latest}
end
for _, key in ipairs(KEYS) do
	redis.call('SET', key, ARGV[1], 'PX', ARGV[2])
end
return {1, now}
`)

// releaseScript deletes keys whose value still equals ARGV[1].
var releaseScript = redis.NewScript(`
for _, key in ipairs(KEYS) do
	if redis.call('GET', key) == ARGV[1] then
		redis.call('DEL', key)
	end
end
return 0
`)

// RedisCooldown shares acceptance times across API instances. Each key holds
// the unix milliseconds of the last accepted submission and expires with the
// window. All keys of one claim must hash to the same slot on a cluster.
type RedisCooldown struct {
	client redis.UniversalClient
}

func NewRedisCooldown(client redis.UniversalClient) *RedisCooldown {
	return &RedisCooldown{client: client}
}

func (c *RedisCooldown) Acquire(ctx context.Context, keys []string, at time.Time, ttl time.Duration) (time.Time, bool, error) {
	if len(keys) == 0 {
		return at, true, nil
	}
	ms := at.UnixMilli()
	res, err := acquireScript.Run(ctx, c.client, prefixed(keys), ms, ttl.Milliseconds()).Int64Slice()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("acquire cooldown: %w", err)
	}
	if len(res) != 2 {
		return time.Time{}, false, fmt.Errorf("acquire cooldown: unexpected reply %v", res)
	}
	if res[0] == 1 {
		return at, true, nil
	}
	return time.UnixMilli(res[1]).UTC(), false, nil
}

func (c *RedisCooldown) Release(ctx context.Context, keys []string, at time.Time) error {
	if len(keys) == 0 {
		return nil
	}
	value := strconv.FormatInt(at.UnixMilli(), 10)
	if err := releaseScript.Run(ctx, c.client, prefixed(keys), value).Err(); err != nil {
		return fmt.Errorf("release cooldown: %w", err)
	}
	return nil
}

func prefixed(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = cooldownKeyPrefix + k
	}
	return out
}
