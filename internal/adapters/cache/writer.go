// Package cache publishes the latest tiered groups and moments of a game so
// other services can read them without recomputing.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/okian/courtside/internal/domain/model"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a snapshot lives without being refreshed.
const DefaultTTL = 2 * time.Hour

// Writer stores view snapshots.
type Writer interface {
	WriteGroups(ctx context.Context, gameID string, groups []model.TieredGroup) error
	WriteMoments(ctx context.Context, gameID string, moments []model.Moment) error
	Close() error
}

// New returns a Redis-backed writer for addr, or a no-op writer when addr
// is empty. addr is either host:port or a redis:// URL.
func New(ctx context.Context, addr string, ttl time.Duration) (Writer, error) {
	if addr == "" {
		return Noop{}, nil
	}

	opts := &redis.Options{Addr: addr}
	if strings.Contains(addr, "://") {
		var err error
		if opts, err = redis.ParseURL(addr); err != nil {
			return nil, err
		}
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return NewRedisWriter(client, ttl), nil
}

// Noop discards snapshots.
type Noop struct{}

// WriteGroups implements Writer.WriteGroups.
func (Noop) WriteGroups(context.Context, string, []model.TieredGroup) error { return nil }

// WriteMoments implements Writer.WriteMoments.
func (Noop) WriteMoments(context.Context, string, []model.Moment) error { return nil }

// Close implements Writer.Close.
func (Noop) Close() error { return nil }
