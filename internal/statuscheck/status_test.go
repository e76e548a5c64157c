package statuscheck

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestSummary(t *testing.T) {
	t.Run("redis healthy", func(t *testing.T) {
		c := New(Options{Redis: fakePinger{}})
		s := c.Summary(context.Background())

		assert.True(t, s.Redis.OK)
		assert.Equal(t, "Connected", s.Redis.Message)
		assert.True(t, s.TempDir.OK)
	})

	t.Run("redis down", func(t *testing.T) {
		c := New(Options{Redis: fakePinger{err: errors.New("connection refused")}})
		s := c.Summary(context.Background())

		assert.False(t, s.Redis.OK)
		assert.Contains(t, s.Redis.Message, "connection refused")
	})

	t.Run("redis not configured", func(t *testing.T) {
		c := New(Options{})
		s := c.Summary(context.Background())

		assert.True(t, s.Redis.OK)
		assert.Contains(t, s.Redis.Message, "Not configured")
	})
}

func TestTrimError(t *testing.T) {
	long := strings.Repeat("x", 200)
	assert.Len(t, trimError(errors.New(long)), 120)
	assert.Equal(t, "", trimError(nil))
}
