package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/local/vectorcheck/internal/metrics"
)

// Breaker keeps a per-host download cooldown in Redis. Hosts that keep
// failing get an exponentially growing cooldown so a flaky or rate-limiting
// source does not eat the retry budget of every request.
type Breaker struct {
	rdb         *redis.Client
	baseBackoff time.Duration
	maxBackoff  time.Duration
}

// BreakerOptions configures a Breaker.
type BreakerOptions struct {
	RedisURL    string
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

// NewBreaker connects to Redis and returns a Breaker.
func NewBreaker(opts BreakerOptions) (*Breaker, error) {
	if opts.BaseBackoff <= 0 {
		opts.BaseBackoff = 30 * time.Second
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = 5 * time.Minute
	}
	ro, err := redis.ParseURL(opts.RedisURL)
	if err != nil {
		return nil, err
	}
	c := redis.NewClient(ro)
	if err := c.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &Breaker{rdb: c, baseBackoff: opts.BaseBackoff, maxBackoff: opts.MaxBackoff}, nil
}

func (b *Breaker) key(host string) string {
	return fmt.Sprintf("cb:download:%s", strings.ToLower(host))
}

// IsOpen returns true while the host's cooldown is active.
func (b *Breaker) IsOpen(ctx context.Context, host string) bool {
	ts, err := b.rdb.Get(ctx, b.key(host)).Int64()
	if err != nil {
		return false
	}
	return time.Now().Unix() < ts
}

// Open sets or extends the host cooldown, doubling per consecutive failure
// up to the max backoff.
func (b *Breaker) Open(ctx context.Context, host string) {
	k := b.key(host)
	attempts, _ := b.rdb.Incr(ctx, k+":attempts").Result()
	if attempts < 1 {
		attempts = 1
	}
	if attempts > 16 {
		attempts = 16
	}
	d := b.baseBackoff * (1 << (attempts - 1))
	if d > b.maxBackoff {
		d = b.maxBackoff
	}
	until := time.Now().Add(d).Unix()
	_ = b.rdb.Set(ctx, k, until, d).Err()
	metrics.BreakerOpened(host)
}

// Close resets the host cooldown after a successful download.
func (b *Breaker) Close(ctx context.Context, host string) {
	k := b.key(host)
	_ = b.rdb.Del(ctx, k, k+":attempts").Err()
}

// Ping reports Redis connectivity, for readiness checks.
func (b *Breaker) Ping(ctx context.Context) error {
	return b.rdb.Ping(ctx).Err()
}

// CloseClient releases the underlying Redis connection.
func (b *Breaker) CloseClient() error { return b.rdb.Close() }
