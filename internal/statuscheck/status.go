package statuscheck

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// RedisPinger models the minimal Redis capability we need for status checks.
type RedisPinger interface {
	Ping(ctx context.Context) error
}

// Checker aggregates readiness checks for the service's dependencies.
type Checker struct {
	redis RedisPinger
}

// Options configures the Checker.
type Options struct {
	Redis RedisPinger
}

// Status represents the readiness of a subsystem.
type Status struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Summary bundles all subsystem statuses.
type Summary struct {
	Redis   Status `json:"redis"`
	TempDir Status `json:"temp_dir"`
}

// New creates a new Checker with the provided options.
func New(opts Options) *Checker {
	return &Checker{redis: opts.Redis}
}

// Summary returns the current status snapshot.
func (c *Checker) Summary(ctx context.Context) Summary {
	return Summary{
		Redis:   c.checkRedis(ctx),
		TempDir: c.checkTempDir(),
	}
}

func (c *Checker) checkRedis(ctx context.Context) Status {
	if c.redis == nil {
		return Status{OK: true, Message: "Not configured (breaker disabled)"}
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.redis.Ping(ctx); err != nil {
		return Status{OK: false, Message: trimError(err)}
	}
	return Status{OK: true, Message: "Connected"}
}

// checkTempDir verifies downloads have somewhere to land.
func (c *Checker) checkTempDir() Status {
	f, err := os.CreateTemp("", "vectorcheck-probe-*")
	if err != nil {
		return Status{OK: false, Message: trimError(err)}
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return Status{OK: true, Message: filepath.Dir(name)}
}

func trimError(err error) string {
	if err == nil {
		return ""
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	msg := err.Error()
	if len(msg) > 120 {
		return msg[:120]
	}
	return msg
}
