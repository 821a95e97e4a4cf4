package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"watchparty/internal/model"
)

func TestMemoryPlaybackLog_WindowAndLimit(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	now := time.Now()

	log := NewMemoryPlaybackLog(30 * time.Second)
	log.now = func() time.Time { return now }

	req.NoError(log.Record(ctx, "r1", model.PlaybackRecord{Type: model.PlaybackPlay, Timestamp: now.Add(-time.Minute)}))
	for i := 0; i < 25; i++ {
		req.NoError(log.Record(ctx, "r1", model.PlaybackRecord{Type: model.PlaybackPause, Timestamp: now.Add(time.Duration(i-25) * time.Second)}))
	}
	req.NoError(log.Record(ctx, "r2", model.PlaybackRecord{Type: model.PlaybackPlay, Timestamp: now}))

	recent, err := log.Recent(ctx, "r1", DefaultPlaybackLimit)
	req.NoError(err)
	req.Len(recent, DefaultPlaybackLimit)
	req.Equal(now.Add(-time.Second), recent[0].Timestamp)
	for i := 1; i < len(recent); i++ {
		req.True(recent[i-1].Timestamp.After(recent[i].Timestamp))
	}
	for _, rec := range recent {
		req.Equal(model.PlaybackPause, rec.Type)
	}
}

func TestMemoryPlaybackLog_Expiry(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	now := time.Now()

	log := NewMemoryPlaybackLog(30 * time.Second)
	log.now = func() time.Time { return now }
	req.NoError(log.Record(ctx, "r1", model.PlaybackRecord{Type: model.PlaybackPlay, Timestamp: now}))

	now = now.Add(31 * time.Second)
	recent, err := log.Recent(ctx, "r1", DefaultPlaybackLimit)
	req.NoError(err)
	req.Empty(recent)
}

func TestMemoryPlaybackLog_Delete(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	log := NewMemoryPlaybackLog(0)

	req.NoError(log.Record(ctx, "r1", model.PlaybackRecord{Type: model.PlaybackPlay, Timestamp: time.Now()}))
	req.NoError(log.Delete(ctx, "r1"))

	recent, err := log.Recent(ctx, "r1", DefaultPlaybackLimit)
	req.NoError(err)
	req.Empty(recent)
}

func TestPlaybackCache_Key(t *testing.T) {
	c := NewPlaybackCache(nil, 0).(*playbackCache)
	require.Equal(t, "playback:abc", c.key("abc"))
	require.Equal(t, DefaultPlaybackWindow, c.window)
}
