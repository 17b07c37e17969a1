package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/qa-board/internal/config"
)

// tokenBucketScript implements an atomic token bucket in Redis. The
// bucket refills RefillTokens every RefillInterval up to Capacity;
// state lives in a hash (tokens, last refill timestamp) with a TTL so
// idle buckets expire on their own.
//
// KEYS[1] = bucket key
// ARGV    = capacity, refill_tokens, refill_interval_ms, now_ms, ttl_ms
// Returns {allowed, remaining, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local refill = tonumber(ARGV[2])
local interval = tonumber(ARGV[3])
local now = tonumber(ARGV[4])
local ttl = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'ts')
local tokens = tonumber(state[1])
local ts = tonumber(state[2])
if tokens == nil or ts == nil then
  tokens = capacity
  ts = now
end

local elapsed = now - ts
if elapsed > 0 and interval > 0 then
  local ticks = math.floor(elapsed / interval)
  if ticks > 0 then
    tokens = math.min(capacity, tokens + ticks * refill)
    ts = ts + ticks * interval
  end
end

local allowed = 0
local retry = 0
if tokens >= 1 then
  allowed = 1
  tokens = tokens - 1
else
  retry = interval - (now - ts)
  if retry < 0 then retry = 0 end
end

redis.call('HMSET', key, 'tokens', tokens, 'ts', ts)
redis.call('PEXPIRE', key, ttl)
return {allowed, tokens, retry}
`)

// NewTokenBucket returns a middleware limiting request rates with a
// Redis-backed token bucket. A nil client or disabled config yields a
// pass-through so the board runs fine without Redis.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := buildRateKey(cfg, c)

			res, err := tokenBucketScript.Run(ctx, rdb, []string{key},
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				time.Now().UnixMilli(),
				cfg.TTL.Milliseconds(),
			).Result()
			if err != nil {
				// Redis trouble must not take the board down.
				if cfg.Debug {
					c.Logger().Warnf("rate limiter unavailable: %v", err)
				}
				return next(c)
			}

			vals, ok := res.([]interface{})
			if !ok || len(vals) != 3 {
				return next(c)
			}
			allowed := asInt64(vals[0]) == 1
			remaining := asInt64(vals[1])
			retryMS := asInt64(vals[2])

			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if !allowed {
				retrySecs := (retryMS + 999) / 1000
				if retrySecs < 1 {
					retrySecs = 1
				}
				c.Response().Header().Set("Retry-After", strconv.FormatInt(retrySecs, 10))
				return c.JSON(429, echo.Map{
					"error":       "too_many_requests",
					"message":     "rate limit exceeded",
					"retry_after": retrySecs,
				})
			}
			return next(c)
		}
	}
}

// buildRateKey composes the bucket key per the configured strategy so
// deployments can scope limits by client IP, authenticated user, route,
// or combinations of the three.
func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	user := currentUserID(c)
	route := c.Request().Method + ":" + c.Path()

	var parts []string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
		parts = []string{"ip", ip}
	case "user":
		parts = []string{"user", user}
	case "route":
		parts = []string{"route", route}
	case "ip_user":
		parts = []string{"ip", ip, "user", user}
	case "ip_route":
		parts = []string{"ip", ip, "route", route}
	case "user_route":
		parts = []string{"user", user, "route", route}
	default: // "ip_user_route"
		parts = []string{"ip", ip, "user", user, "route", route}
	}
	return cfg.Prefix + ":" + strings.Join(parts, ":")
}

// currentUserID resolves the caller for per-user buckets. Before the
// auth middleware runs (or on open routes) there is no identity, so
// those requests share the "anon" bucket.
func currentUserID(c echo.Context) string {
	if uid, ok := c.Get("user_id").(uint64); ok {
		return strconv.FormatUint(uid, 10)
	}
	if name, ok := c.Get("username").(string); ok && name != "" {
		return name
	}
	return "anon"
}

func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case string:
		i, _ := strconv.ParseInt(n, 10, 64)
		return i
	}
	return 0
}
