package follower

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"watchparty/internal/model"
)

func TestReactionWindow(t *testing.T) {
	req := require.New(t)
	now := time.Now()
	w := NewReactionWindow(0)

	req.True(w.Add(model.Reaction{ID: "a", Type: "🔥", Timestamp: now.Add(-2 * time.Second)}, now))
	req.True(w.Add(model.Reaction{ID: "b", Type: "🔥", Timestamp: now}, now))
	req.True(w.Add(model.Reaction{ID: "c", Type: "😂", Timestamp: now.Add(-time.Second)}, now))
	req.False(w.Add(model.Reaction{ID: "old", Type: "😂", Timestamp: now.Add(-4 * time.Second)}, now))

	visible := w.Visible(now)
	req.Len(visible, 3)
	req.Equal("a", visible[0].ID)
	req.Equal(map[string]int{"🔥": 2, "😂": 1}, w.Counts(now))

	later := now.Add(1500 * time.Millisecond)
	visible = w.Visible(later)
	req.Len(visible, 2)
	req.Equal("c", visible[0].ID)
	req.Equal("b", visible[1].ID)

	req.Empty(w.Visible(now.Add(10 * time.Second)))
}
