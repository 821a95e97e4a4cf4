package follower

import (
	"sort"
	"sync"
	"time"

	"watchparty/internal/model"
)

// ReactionWindow keeps reactions visible for a fixed time after their server
// timestamp.
type ReactionWindow struct {
	mu     sync.Mutex
	window time.Duration
	items  []model.Reaction
}

func NewReactionWindow(window time.Duration) *ReactionWindow {
	if window <= 0 {
		window = model.ReactionDisplayWindow
	}
	return &ReactionWindow{window: window}
}

// Add keeps r unless it has already aged out at now.
func (w *ReactionWindow) Add(r model.Reaction, now time.Time) bool {
	if w.expired(r, now) {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.items = append(w.items, r)
	return true
}

// Visible drops expired reactions and returns the rest, oldest first.
func (w *ReactionWindow) Visible(now time.Time) []model.Reaction {
	w.mu.Lock()
	defer w.mu.Unlock()

	kept := w.items[:0]
	for _, r := range w.items {
		if !w.expired(r, now) {
			kept = append(kept, r)
		}
	}
	w.items = kept
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Timestamp.Before(kept[j].Timestamp) })

	out := make([]model.Reaction, len(kept))
	copy(out, kept)
	return out
}

// Counts returns how many visible reactions there are of each type.
func (w *ReactionWindow) Counts(now time.Time) map[string]int {
	counts := make(map[string]int)
	for _, r := range w.Visible(now) {
		counts[r.Type]++
	}
	return counts
}

func (w *ReactionWindow) expired(r model.Reaction, now time.Time) bool {
	return now.Sub(r.Timestamp) > w.window
}
