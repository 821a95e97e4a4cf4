package model

import "time"

// EventKind names an event on a room stream. It doubles as the SSE event name.
type EventKind string

const (
	EventSnapshot            EventKind = "snapshot"
	EventStateChanged        EventKind = "stateChanged"
	EventParticipantsChanged EventKind = "participantsChanged"
	EventChat                EventKind = "chat"
	EventReaction            EventKind = "reaction"
	EventPlayback            EventKind = "playback"
	EventEnded               EventKind = "ended"
)

// Event is anything broadcast to a room's subscribers.
type Event interface {
	Kind() EventKind
}

// RoomStatus is the shared room-state block of snapshot, stateChanged and ended.
type RoomStatus struct {
	RoomState    RoomState     `json:"roomState"`
	Participants []Participant `json:"participants"`
	IsActive     bool          `json:"isActive"`
}

func StatusOf(r *Room) RoomStatus {
	return RoomStatus{RoomState: r.RoomState, Participants: r.Roster(), IsActive: r.IsActive}
}

// SnapshotEvent is sent once to every new subscriber, built from the stored room.
type SnapshotEvent struct {
	RoomStatus
}

func (SnapshotEvent) Kind() EventKind { return EventSnapshot }

func NewSnapshot(r *Room) SnapshotEvent {
	return SnapshotEvent{RoomStatus: StatusOf(r)}
}

type StateChangedEvent struct {
	Type EventKind `json:"type"`
	RoomStatus
	Ts int64 `json:"ts"`
}

func (StateChangedEvent) Kind() EventKind { return EventStateChanged }

func NewStateChanged(r *Room, at time.Time) StateChangedEvent {
	return StateChangedEvent{Type: EventStateChanged, RoomStatus: StatusOf(r), Ts: at.UnixMilli()}
}

// EndedEvent carries the final roster of a room that just became inactive.
type EndedEvent struct {
	Type EventKind `json:"type"`
	RoomStatus
	Ts int64 `json:"ts"`
}

func (EndedEvent) Kind() EventKind { return EventEnded }

func NewEnded(r *Room, at time.Time) EndedEvent {
	return EndedEvent{Type: EventEnded, RoomStatus: StatusOf(r), Ts: at.UnixMilli()}
}

type ParticipantsChangedEvent struct {
	Type         EventKind     `json:"type"`
	Participants []Participant `json:"participants"`
	Ts           int64         `json:"ts"`
}

func (ParticipantsChangedEvent) Kind() EventKind { return EventParticipantsChanged }

func NewParticipantsChanged(r *Room, at time.Time) ParticipantsChangedEvent {
	return ParticipantsChangedEvent{Type: EventParticipantsChanged, Participants: r.Roster(), Ts: at.UnixMilli()}
}

type ChatEvent struct {
	Type    EventKind   `json:"type"`
	Message ChatMessage `json:"message"`
	Ts      int64       `json:"ts"`
}

func (ChatEvent) Kind() EventKind { return EventChat }

func NewChatEvent(m ChatMessage, at time.Time) ChatEvent {
	return ChatEvent{Type: EventChat, Message: m, Ts: at.UnixMilli()}
}

type ReactionEvent struct {
	Type     EventKind `json:"type"`
	Reaction Reaction  `json:"reaction"`
	Ts       int64     `json:"ts"`
}

func (ReactionEvent) Kind() EventKind { return EventReaction }

func NewReactionEvent(r Reaction, at time.Time) ReactionEvent {
	return ReactionEvent{Type: EventReaction, Reaction: r, Ts: at.UnixMilli()}
}

type PlaybackEvent struct {
	Type  EventKind         `json:"type"`
	Event PlaybackDirective `json:"event"`
	Ts    int64             `json:"ts"`
}

func (PlaybackEvent) Kind() EventKind { return EventPlayback }

func NewPlaybackEvent(d PlaybackDirective, at time.Time) PlaybackEvent {
	return PlaybackEvent{Type: EventPlayback, Event: d, Ts: at.UnixMilli()}
}
