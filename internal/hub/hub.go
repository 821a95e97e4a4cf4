package hub

import (
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	pkglog "watchparty/internal/log"
	"watchparty/internal/model"
)

const (
	DefaultKeepAlive = 15 * time.Second
	DefaultQueueSize = 64
)

// CancelFunc removes a subscriber. It is idempotent.
type CancelFunc func()

// Hub fans room events out to every subscriber of that room. It holds no
// history: a subscriber only sees events published while it is registered.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]*room
	closed bool

	keepAlive time.Duration
	queueSize int
	log       zerolog.Logger
}

// room serializes fan-out so every subscriber observes the same order.
type room struct {
	mu   sync.Mutex
	subs map[string]*Subscriber
}

type Option func(*Hub)

// WithKeepAlive sets the comment-frame interval. Zero disables keep-alives.
func WithKeepAlive(d time.Duration) Option {
	return func(h *Hub) { h.keepAlive = d }
}

// WithQueueSize bounds each subscriber's queue. A subscriber whose queue is
// full at publish time is evicted.
func WithQueueSize(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.queueSize = n
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(h *Hub) { h.log = l }
}

func New(opts ...Option) *Hub {
	h := &Hub{
		rooms:     make(map[string]*room),
		keepAlive: DefaultKeepAlive,
		queueSize: DefaultQueueSize,
		log:       pkglog.L(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscribe registers a new subscriber for roomID. After Close it returns a
// subscriber that is already done.
func (h *Hub) Subscribe(roomID string) (*Subscriber, CancelFunc) {
	sub := newSubscriber(roomID, h.queueSize)
	sub.offer(Frame{Comment: "connected " + strconv.FormatInt(time.Now().UnixMilli(), 10)})

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		sub.close()
		return sub, func() {}
	}
	rm, ok := h.rooms[roomID]
	if !ok {
		rm = &room{subs: make(map[string]*Subscriber)}
		h.rooms[roomID] = rm
	}
	rm.mu.Lock()
	rm.subs[sub.ID] = sub
	n := len(rm.subs)
	rm.mu.Unlock()
	h.mu.Unlock()

	if h.keepAlive > 0 {
		go h.runKeepAlive(sub)
	}

	h.log.Debug().
		Str(pkglog.FieldRoomID, roomID).
		Str(pkglog.FieldSubscriberID, sub.ID).
		Int(pkglog.FieldSubscribers, n).
		Msg("subscriber registered")

	return sub, func() { h.remove(sub) }
}

// Publish delivers evt to every current subscriber of roomID. It never blocks
// on a subscriber and never fails: subscribers that cannot take the frame are
// evicted.
func (h *Hub) Publish(roomID string, evt model.Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		h.log.Error().Err(err).Str(pkglog.FieldRoomID, roomID).Str(pkglog.FieldEvent, string(evt.Kind())).Msg("failed to encode event")
		return
	}
	frame := Frame{Event: string(evt.Kind()), Data: data}

	h.mu.RLock()
	rm := h.rooms[roomID]
	h.mu.RUnlock()
	if rm == nil {
		return
	}

	var evicted []*Subscriber
	rm.mu.Lock()
	for id, sub := range rm.subs {
		if !sub.offer(frame) {
			delete(rm.subs, id)
			evicted = append(evicted, sub)
		}
	}
	rm.mu.Unlock()

	if len(evicted) == 0 {
		return
	}
	for _, sub := range evicted {
		if sub.close() {
			h.log.Warn().
				Str(pkglog.FieldRoomID, roomID).
				Str(pkglog.FieldSubscriberID, sub.ID).
				Str(pkglog.FieldEvent, frame.Event).
				Msg("subscriber evicted: queue full")
		}
	}
	h.prune(roomID, rm)
}

// CloseRoom disconnects every subscriber of roomID.
func (h *Hub) CloseRoom(roomID string) {
	h.mu.Lock()
	rm := h.rooms[roomID]
	delete(h.rooms, roomID)
	h.mu.Unlock()
	if rm == nil {
		return
	}
	n := closeAll(rm)
	h.log.Debug().Str(pkglog.FieldRoomID, roomID).Int(pkglog.FieldSubscribers, n).Msg("room streams closed")
}

// Close disconnects everyone and makes later subscribes no-ops. Call it before
// shutting the HTTP server down so long-lived streams return.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	rooms := h.rooms
	h.rooms = make(map[string]*room)
	h.mu.Unlock()

	total := 0
	for _, rm := range rooms {
		total += closeAll(rm)
	}
	h.log.Info().Int(pkglog.FieldSubscribers, total).Msg("event hub closed")
}

func (h *Hub) SubscriberCount(roomID string) int {
	h.mu.RLock()
	rm := h.rooms[roomID]
	h.mu.RUnlock()
	if rm == nil {
		return 0
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return len(rm.subs)
}

func (h *Hub) remove(sub *Subscriber) {
	h.mu.Lock()
	if rm, ok := h.rooms[sub.RoomID]; ok {
		rm.mu.Lock()
		if cur, ok := rm.subs[sub.ID]; ok && cur == sub {
			delete(rm.subs, sub.ID)
		}
		if len(rm.subs) == 0 {
			delete(h.rooms, sub.RoomID)
		}
		rm.mu.Unlock()
	}
	h.mu.Unlock()

	if sub.close() {
		h.log.Debug().
			Str(pkglog.FieldRoomID, sub.RoomID).
			Str(pkglog.FieldSubscriberID, sub.ID).
			Msg("subscriber removed")
	}
}

// prune drops the room entry if evictions left it empty. The map entry is
// checked under the hub lock so a concurrent Subscribe never lands in an
// orphaned room.
func (h *Hub) prune(roomID string, rm *room) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[roomID] != rm {
		return
	}
	rm.mu.Lock()
	if len(rm.subs) == 0 {
		delete(h.rooms, roomID)
	}
	rm.mu.Unlock()
}

func (h *Hub) runKeepAlive(sub *Subscriber) {
	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()
	for {
		select {
		case <-sub.done:
			return
		case <-ticker.C:
			// A full queue is left for the next publish to evict.
			sub.offer(Frame{Comment: "keepalive"})
		}
	}
}

func closeAll(rm *room) int {
	rm.mu.Lock()
	subs := rm.subs
	rm.subs = make(map[string]*Subscriber)
	rm.mu.Unlock()
	for _, sub := range subs {
		sub.close()
	}
	return len(subs)
}
