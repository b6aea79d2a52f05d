// Package queue defines message payloads exchanged over the message broker
// and the background consumer that reacts to them.
package queue

// UserRegisteredQueue carries UserRegisteredEvent messages.
const UserRegisteredQueue = "user.registered"

// UserRegisteredEvent is published after an account is created.  It holds
// enough for downstream consumers to greet the user or audit sign-ups
// without querying the primary database.
type UserRegisteredEvent struct {
	UserID       uint64 `json:"user_id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	Role         string `json:"role"`
	RegisteredAt string `json:"registered_at"`
}
