package service

import "watchparty/internal/model"

// Broadcaster delivers events to a room's live subscribers (avoids import
// cycle with the hub). Publish never fails from the caller's point of view.
type Broadcaster interface {
	Publish(roomID string, evt model.Event)
	CloseRoom(roomID string)
}
