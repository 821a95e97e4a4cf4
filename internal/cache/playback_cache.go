package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"watchparty/internal/model"
)

const (
	// DefaultPlaybackWindow is how far back a late joiner can catch up on
	// host playback directives.
	DefaultPlaybackWindow = 30 * time.Second
	DefaultPlaybackLimit  = 20
)

// PlaybackLog keeps recent host playback directives per room. Entries older
// than the window are discarded.
type PlaybackLog interface {
	Record(ctx context.Context, roomID string, rec model.PlaybackRecord) error
	// Recent returns records newer than the window, newest first.
	Recent(ctx context.Context, roomID string, limit int) ([]model.PlaybackRecord, error)
	Delete(ctx context.Context, roomID string) error
}

type playbackCache struct {
	client *redis.Client
	window time.Duration
	now    func() time.Time
}

// NewPlaybackCache stores directives in a sorted set scored by emission time
// in unix milliseconds. The key expires one window after the last record.
func NewPlaybackCache(client *redis.Client, window time.Duration) PlaybackLog {
	if window <= 0 {
		window = DefaultPlaybackWindow
	}
	return &playbackCache{
		client: client,
		window: window,
		now:    time.Now,
	}
}

func (c *playbackCache) key(roomID string) string {
	return fmt.Sprintf("playback:%s", roomID)
}

func (c *playbackCache) Record(ctx context.Context, roomID string, rec model.PlaybackRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	key := c.key(roomID)
	cutoff := c.now().Add(-c.window).UnixMilli()

	pipe := c.client.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(rec.Timestamp.UnixMilli()),
		Member: data,
	})
	pipe.ZRemRangeByScore(ctx, key, "-inf", "("+strconv.FormatInt(cutoff, 10))
	pipe.Expire(ctx, key, c.window)
	_, err = pipe.Exec(ctx)
	return err
}

func (c *playbackCache) Recent(ctx context.Context, roomID string, limit int) ([]model.PlaybackRecord, error) {
	cutoff := c.now().Add(-c.window).UnixMilli()
	members, err := c.client.ZRevRangeByScore(ctx, c.key(roomID), &redis.ZRangeBy{
		Min:   strconv.FormatInt(cutoff, 10),
		Max:   "+inf",
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, err
	}

	records := make([]model.PlaybackRecord, 0, len(members))
	for _, m := range members {
		var rec model.PlaybackRecord
		if err := json.Unmarshal([]byte(m), &rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (c *playbackCache) Delete(ctx context.Context, roomID string) error {
	return c.client.Del(ctx, c.key(roomID)).Err()
}
