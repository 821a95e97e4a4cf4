package cache

import (
	"context"
	"sync"
	"time"

	"watchparty/internal/model"
)

// MemoryPlaybackLog is a PlaybackLog for single-instance runs.
type MemoryPlaybackLog struct {
	mu      sync.Mutex
	records map[string][]model.PlaybackRecord
	window  time.Duration
	now     func() time.Time
}

func NewMemoryPlaybackLog(window time.Duration) *MemoryPlaybackLog {
	if window <= 0 {
		window = DefaultPlaybackWindow
	}
	return &MemoryPlaybackLog{
		records: make(map[string][]model.PlaybackRecord),
		window:  window,
		now:     time.Now,
	}
}

func (l *MemoryPlaybackLog) Record(ctx context.Context, roomID string, rec model.PlaybackRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records[roomID] = append(l.trim(roomID), rec)
	return nil
}

func (l *MemoryPlaybackLog) Recent(ctx context.Context, roomID string, limit int) ([]model.PlaybackRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.trim(roomID)
	out := make([]model.PlaybackRecord, 0, min(len(kept), limit))
	for i := len(kept) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, kept[i])
	}
	return out, nil
}

func (l *MemoryPlaybackLog) Delete(ctx context.Context, roomID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.records, roomID)
	return nil
}

// trim drops expired records for roomID. Callers hold l.mu.
func (l *MemoryPlaybackLog) trim(roomID string) []model.PlaybackRecord {
	cutoff := l.now().Add(-l.window)
	recs := l.records[roomID]
	i := 0
	for i < len(recs) && recs[i].Timestamp.Before(cutoff) {
		i++
	}
	recs = recs[i:]
	if len(recs) == 0 {
		delete(l.records, roomID)
		return nil
	}
	l.records[roomID] = recs
	return recs
}
