package hub

import (
	"sync"

	"github.com/google/uuid"
)

// Frame is one unit queued for a subscriber. Data frames carry a JSON-encoded
// event; comment frames (Data == nil) are keep-alives the transport may encode
// however suits it.
type Frame struct {
	Event   string
	Data    []byte
	Comment string
}

func (f Frame) IsComment() bool {
	return f.Data == nil
}

// Subscriber is one live connection's view of a room stream. The hub is the
// only producer into Frames and the transport is its only consumer.
type Subscriber struct {
	ID     string
	RoomID string

	frames chan Frame
	done   chan struct{}
	once   sync.Once
}

func newSubscriber(roomID string, queueSize int) *Subscriber {
	return &Subscriber{
		ID:     uuid.NewString(),
		RoomID: roomID,
		frames: make(chan Frame, queueSize),
		done:   make(chan struct{}),
	}
}

// Frames yields queued frames in publish order. It is never closed; select on
// Done as well.
func (s *Subscriber) Frames() <-chan Frame {
	return s.frames
}

// Done is closed once the subscriber has been removed from the hub, for any reason.
func (s *Subscriber) Done() <-chan struct{} {
	return s.done
}

// offer enqueues without blocking. false means the subscriber is closed or its
// queue is full.
func (s *Subscriber) offer(f Frame) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.frames <- f:
		return true
	default:
		return false
	}
}

// close reports whether this call was the one that closed the subscriber.
func (s *Subscriber) close() bool {
	closed := false
	s.once.Do(func() {
		close(s.done)
		closed = true
	})
	return closed
}
