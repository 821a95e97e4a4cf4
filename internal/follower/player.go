// Package follower holds the participant-side rules for consuming a room
// stream: how playback directives are applied locally, how long reactions
// stay on screen, and how the text/event-stream body is parsed.
package follower

import (
	"math"
	"sync"

	"watchparty/internal/model"
)

// Player tracks a participant's local playback and applies host directives
// to it idempotently.
type Player struct {
	mu       sync.Mutex
	playing  bool
	position float64
}

func NewPlayer() *Player {
	return &Player{}
}

// Apply reports whether d changed local playback. play and pause are no-ops
// when already in that state; seek is ignored unless the target is more than
// model.SeekTolerance away from the local position.
func (p *Player) Apply(d model.PlaybackDirective) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch d.Type {
	case model.PlaybackPlay:
		if p.playing {
			return false
		}
		p.playing = true
		return true
	case model.PlaybackPause:
		if !p.playing {
			return false
		}
		p.playing = false
		return true
	case model.PlaybackSeek:
		if d.VideoTime == nil || math.Abs(p.position-*d.VideoTime) <= model.SeekTolerance {
			return false
		}
		p.position = *d.VideoTime
		return true
	}
	return false
}

// Advance moves the local position forward while playing, standing in for
// the video element's clock.
func (p *Player) Advance(seconds float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing {
		p.position += seconds
	}
}

func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *Player) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}
