package model

import "time"

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Username     string    `json:"username" bson:"username"`
	Phone        string    `json:"phone" bson:"phone"`
	PasswordHash string    `json:"-" bson:"password"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// Identity is the caller resolved from a bearer token.
type Identity struct {
	UserID   string
	Username string
}

// AsParticipant builds the roster entry for a joining identity
func (i Identity) AsParticipant(at time.Time) Participant {
	return Participant{UserID: i.UserID, Username: i.Username, JoinedAt: at}
}
