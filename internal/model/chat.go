package model

import "time"

// ChatMessage is one persisted chat line
type ChatMessage struct {
	ID        string    `json:"id" bson:"_id"`
	RoomID    string    `json:"-" bson:"roomId"`
	UserID    string    `json:"-" bson:"userId"`
	Username  string    `json:"username" bson:"username"`
	Message   string    `json:"message" bson:"message"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	IsHost    bool      `json:"isHost" bson:"isHost"`
}

type PostChatRequest struct {
	Message string `json:"message" validate:"required,max=500"`
}

// Reaction is one persisted emoji reaction
type Reaction struct {
	ID        string    `json:"id" bson:"_id"`
	RoomID    string    `json:"-" bson:"roomId"`
	UserID    string    `json:"-" bson:"userId"`
	Username  string    `json:"username" bson:"username"`
	Type      string    `json:"type" bson:"type"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

type PostReactionRequest struct {
	Type string `json:"type" validate:"required,max=32"`
}

// ReactionDisplayWindow is how long a consumer keeps a reaction on screen,
// measured from its server timestamp.
const ReactionDisplayWindow = 3 * time.Second
