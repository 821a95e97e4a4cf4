package model

import (
	"fmt"
	"time"
)

type RoomState string

const (
	RoomWaiting   RoomState = "waiting"
	RoomCountdown RoomState = "countdown"
	RoomPlaying   RoomState = "playing"
	RoomEnded     RoomState = "ended"
)

// ParseRoomState accepts only the four enumerated states.
func ParseRoomState(s string) (RoomState, error) {
	switch st := RoomState(s); st {
	case RoomWaiting, RoomCountdown, RoomPlaying, RoomEnded:
		return st, nil
	}
	return "", fmt.Errorf("unknown room state %q", s)
}

// next lists the single forward step allowed out of each non-terminal state.
var next = map[RoomState]RoomState{
	RoomWaiting:   RoomCountdown,
	RoomCountdown: RoomPlaying,
}

// CanTransition reports whether a host state request from -> to is allowed.
// Re-requesting the current state is accepted. Ending is handled separately
// and is always allowed from an active room.
func CanTransition(from, to RoomState) bool {
	if from == RoomEnded {
		return false
	}
	if to == RoomEnded || from == to {
		return true
	}
	return next[from] == to
}

// TransitionSources returns every state from which to is reachable, used as
// the compare-and-set precondition when persisting a transition.
func TransitionSources(to RoomState) []RoomState {
	var out []RoomState
	for _, from := range []RoomState{RoomWaiting, RoomCountdown, RoomPlaying} {
		if CanTransition(from, to) {
			out = append(out, from)
		}
	}
	return out
}

// Participant is one roster entry. Roster order is join order.
type Participant struct {
	UserID   string    `json:"userId" bson:"userId"`
	Username string    `json:"username" bson:"username"`
	JoinedAt time.Time `json:"joinedAt" bson:"joinedAt"`
}

// Room is one watch-party session.
type Room struct {
	ID           string        `json:"id" bson:"_id"`
	HostID       string        `json:"hostId" bson:"hostId"`
	HostName     string        `json:"hostName" bson:"hostName"`
	MovieTitle   string        `json:"movieTitle" bson:"movieTitle"`
	MovieURL     string        `json:"movieUrl" bson:"movieUrl"`
	Participants []Participant `json:"participants" bson:"participants"`
	IsActive     bool          `json:"isActive" bson:"isActive"`
	RoomState    RoomState     `json:"roomState" bson:"roomState"`
	CreatedAt    time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt    *time.Time    `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
	EndedAt      *time.Time    `json:"endedAt,omitempty" bson:"endedAt,omitempty"`
}

func (r *Room) IsHost(userID string) bool {
	return r.HostID == userID
}

func (r *Room) HasParticipant(userID string) bool {
	for _, p := range r.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// Roster returns a copy of the participant list, never nil so it encodes as [].
func (r *Room) Roster() []Participant {
	out := make([]Participant, len(r.Participants))
	copy(out, r.Participants)
	return out
}

// Clone returns a deep copy safe to hand out of a store.
func (r *Room) Clone() *Room {
	c := *r
	c.Participants = r.Roster()
	if r.UpdatedAt != nil {
		t := *r.UpdatedAt
		c.UpdatedAt = &t
	}
	if r.EndedAt != nil {
		t := *r.EndedAt
		c.EndedAt = &t
	}
	return &c
}

// CreateRoomRequest is the body of POST /api/rooms
type CreateRoomRequest struct {
	MovieTitle string `json:"movieTitle" validate:"required,max=200"`
	MovieURL   string `json:"movieUrl" validate:"required,url,max=2048"`
}

// UpdateStateRequest is the body of POST /api/rooms/{id}/state
type UpdateStateRequest struct {
	RoomState string `json:"roomState"`
}
