// Package redis wraps the go-redis client behind the small command
// surface the platform uses: counters, rate-limit windows, worker
// locks, and the buffered blog view counts.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fitcoachhq/fitcoach-backend/pkg/config"
	"github.com/fitcoachhq/fitcoach-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// All keys live under one namespace so a shared Redis can be swept by
// prefix.
const (
	keyNamespace    = "fc"
	rateLimitPrefix = "rate_limit"
	counterPrefix   = "counter"
	lockPrefix      = "lock"
	viewsPrefix     = "blog_views"
	reminderPrefix  = "reminder_sent"
)

const scanBatchSize = 100

var errNotInitialized = errors.New("redis client not initialized")

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	SetNX(context.Context, string, any, time.Duration) *redis.BoolCmd
	Incr(context.Context, string) *redis.IntCmd
	IncrBy(context.Context, string, int64) *redis.IntCmd
	Expire(context.Context, string, time.Duration) *redis.BoolCmd
	Del(context.Context, ...string) *redis.IntCmd
	GetDel(context.Context, string) *redis.StringCmd
	Scan(context.Context, uint64, string, int64) *redis.ScanCmd
}

// Client is the process-wide Redis handle. The zero value is unusable;
// construct it through New.
type Client struct {
	store cmdable
	raw   *redis.Client
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(context.Context) error
}

// New connects using cfg and fails fast when the server is unreachable.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if logg != nil {
		logg.Info(ctx, "redis connection established")
	}
	return &Client{store: raw, raw: raw}, nil
}

// A URL wins over discrete fields; pool and timeout settings from the
// config fill whatever the URL left at zero.
func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	var opts *redis.Options
	switch {
	case cfg.URL != "":
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	case cfg.Address != "":
		opts = &redis.Options{Addr: cfg.Address, Password: cfg.Password, DB: cfg.DB}
	default:
		return nil, errors.New("redis url or address is required")
	}

	if opts.DB == 0 {
		opts.DB = cfg.DB
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

func (c *Client) cmds() (cmdable, error) {
	if c == nil || c.store == nil {
		return nil, errNotInitialized
	}
	return c.store, nil
}

// Set stores a string value with an optional TTL.
func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	store, err := c.cmds()
	if err != nil {
		return err
	}
	return store.Set(ctx, key, value, ttl).Err()
}

// Get returns the value stored at key; redis.Nil when absent.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	store, err := c.cmds()
	if err != nil {
		return "", err
	}
	return store.Get(ctx, key).Result()
}

// SetNX sets a value only when the key does not exist yet.
func (c *Client) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	store, err := c.cmds()
	if err != nil {
		return false, err
	}
	return store.SetNX(ctx, key, value, ttl).Result()
}

// Incr increments the counter stored at key.
func (c *Client) Incr(ctx context.Context, key string) (int64, error) {
	store, err := c.cmds()
	if err != nil {
		return 0, err
	}
	return store.Incr(ctx, key).Result()
}

// IncrBy adds delta to the counter stored at key.
func (c *Client) IncrBy(ctx context.Context, key string, delta int64) (int64, error) {
	store, err := c.cmds()
	if err != nil {
		return 0, err
	}
	return store.IncrBy(ctx, key, delta).Result()
}

// IncrWithTTL increments and, on the increment that created the key,
// stamps it with ttl so abandoned counters age out.
func (c *Client) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := c.Incr(ctx, key)
	if err != nil {
		return 0, err
	}
	if ttl > 0 && count == 1 {
		if expErr := c.store.Expire(ctx, key, ttl).Err(); expErr != nil {
			return count, expErr
		}
	}
	return count, nil
}

// GetDel atomically returns and removes the value stored at key.
func (c *Client) GetDel(ctx context.Context, key string) (string, error) {
	store, err := c.cmds()
	if err != nil {
		return "", err
	}
	return store.GetDel(ctx, key).Result()
}

// Del removes the provided keys.
func (c *Client) Del(ctx context.Context, keys ...string) error {
	store, err := c.cmds()
	if err != nil {
		return err
	}
	return store.Del(ctx, keys...).Err()
}

// ScanKeys walks the keyspace and returns every key matching pattern.
// Intended for the namespaced prefixes above, never bare "*".
func (c *Client) ScanKeys(ctx context.Context, match string) ([]string, error) {
	store, err := c.cmds()
	if err != nil {
		return nil, err
	}
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := store.Scan(ctx, cursor, match, scanBatchSize).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}

// FixedWindowAllow applies a fixed-window rate limit for scope and
// reports whether this hit is within the limit.
func (c *Client) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	count, err := c.IncrWithTTL(ctx, c.RateLimitKey(scope), window)
	if err != nil {
		return false, 0, err
	}
	return count <= limit, count, nil
}

// Ping verifies the connection.
func (c *Client) Ping(ctx context.Context) error {
	store, err := c.cmds()
	if err != nil {
		return err
	}
	return store.Ping(ctx).Err()
}

// Close shuts down the underlying connection pool.
func (c *Client) Close() error {
	if c == nil || c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

// RateLimitKey namespaces a rate-limit counter.
func (c *Client) RateLimitKey(scope string) string {
	return c.buildKey(rateLimitPrefix, scope)
}

// CounterKey namespaces a general-purpose counter.
func (c *Client) CounterKey(name string) string {
	return c.buildKey(counterPrefix, name)
}

// LockKey namespaces a worker lock.
func (c *Client) LockKey(name string) string {
	return c.buildKey(lockPrefix, name)
}

// ViewCountKey addresses the buffered view counter for a blog post.
func (c *Client) ViewCountKey(postID string) string {
	return c.buildKey(viewsPrefix, postID)
}

// ViewCountPattern matches every buffered blog view counter.
func (c *Client) ViewCountPattern() string {
	return c.buildKey(viewsPrefix, "*")
}

// PostIDFromViewKey recovers the post id from a buffered view counter key.
func (c *Client) PostIDFromViewKey(key string) string {
	return strings.TrimPrefix(key, c.buildKey(viewsPrefix)+":")
}

// ReminderSentKey dedupes one expiry reminder per subscription per day.
func (c *Client) ReminderSentKey(subscriptionID, day string) string {
	return c.buildKey(reminderPrefix, subscriptionID, day)
}

func (c *Client) buildKey(parts ...string) string {
	clean := []string{keyNamespace}
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			clean = append(clean, trimmed)
		}
	}
	return strings.Join(clean, ":")
}
