package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/okian/courtside/internal/domain/model"
	"github.com/redis/go-redis/v9"
)

// updatesMaxLen bounds each game's update stream.
const updatesMaxLen = 100

// RedisWriter writes snapshots under game:{id}:{view} and appends a
// notification to the game's update stream in the same pipeline.
type RedisWriter struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisWriter creates a writer over an existing client.
func NewRedisWriter(client *redis.Client, ttl time.Duration) *RedisWriter {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisWriter{client: client, ttl: ttl}
}

// SnapshotKey returns the key a view snapshot is stored under.
func SnapshotKey(gameID, view string) string {
	return fmt.Sprintf("game:%s:%s", gameID, view)
}

// UpdatesStream returns the stream that announces new snapshots for a game.
func UpdatesStream(gameID string) string {
	return fmt.Sprintf("courtside.updates.%s", gameID)
}

// WriteGroups implements Writer.WriteGroups.
func (w *RedisWriter) WriteGroups(ctx context.Context, gameID string, groups []model.TieredGroup) error {
	return w.write(ctx, gameID, "groups", groups)
}

// WriteMoments implements Writer.WriteMoments.
func (w *RedisWriter) WriteMoments(ctx context.Context, gameID string, moments []model.Moment) error {
	return w.write(ctx, gameID, "moments", moments)
}

func (w *RedisWriter) write(ctx context.Context, gameID, view string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", view, err)
	}

	pipe := w.client.Pipeline()
	pipe.Set(ctx, SnapshotKey(gameID, view), data, w.ttl)
	pipe.XAdd(ctx, &redis.XAddArgs{
		Stream: UpdatesStream(gameID),
		MaxLen: updatesMaxLen,
		Approx: true,
		Values: map[string]interface{}{"view": view, "bytes": len(data)},
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("writing %s snapshot for %s: %w", view, gameID, err)
	}
	return nil
}

// Close closes the underlying client.
func (w *RedisWriter) Close() error {
	return w.client.Close()
}
