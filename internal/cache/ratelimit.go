package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// tokenBucket keeps {n, at} per key: tokens left and the last refill step in
// milliseconds on the Redis clock.
var tokenBucket = redis.NewScript(`
local t = redis.call('TIME')
local now = tonumber(t[1]) * 1000 + math.floor(tonumber(t[2]) / 1000)
local capacity = tonumber(ARGV[1])
local refill = tonumber(ARGV[2])
local interval = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

local bucket = redis.call('HMGET', KEYS[1], 'n', 'at')
local n = tonumber(bucket[1]) or capacity
local at = tonumber(bucket[2]) or now

if interval > 0 and refill > 0 and now > at then
	local steps = math.floor((now - at) / interval)
	n = math.min(capacity, n + steps * refill)
	at = at + steps * interval
end
if n >= capacity then
	at = now
end

local ok, wait = 0, 0
if n > 0 then
	ok = 1
	n = n - 1
elseif interval > 0 then
	wait = math.max(0, at + interval - now)
end

redis.call('HSET', KEYS[1], 'n', n, 'at', at)
if ttl > 0 then
	redis.call('PEXPIRE', KEYS[1], ttl)
end
return { ok, n, wait }
`)

type Bucket struct {
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
}

type Decision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// Take consumes one token from the bucket stored under key.
func (c *RedisCache) Take(ctx context.Context, key string, b Bucket) (Decision, error) {
	vals, err := tokenBucket.Run(ctx, c.client, []string{key},
		b.Capacity,
		b.RefillTokens,
		b.RefillInterval.Milliseconds(),
		b.TTL.Milliseconds(),
	).Result()
	if err != nil {
		return Decision{}, err
	}

	arr, ok := vals.([]interface{})
	if !ok || len(arr) != 3 {
		return Decision{}, fmt.Errorf("unexpected rate limit result: %#v", vals)
	}
	return Decision{
		Allowed:    asInt64(arr[0]) == 1,
		Remaining:  asInt64(arr[1]),
		RetryAfter: time.Duration(asInt64(arr[2])) * time.Millisecond,
	}, nil
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}
