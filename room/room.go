// Package room fans membership and chat events out to the live subscribers
// of a ride's private channel. Rooms are ephemeral: they exist while at
// least one session is connected and carry no ride state of their own.
package room

// EventType discriminates the two wire event kinds.
type EventType string

const (
	// EventSystem announces membership changes ("x joined", "x left").
	EventSystem EventType = "system"
	// EventChat carries a user message with a server timestamp.
	EventChat EventType = "chat"
)

// Event is a single broadcast delivered to every live subscriber of a room.
type Event struct {
	Type     EventType `json:"type"`
	Username string    `json:"username,omitempty"`
	Message  string    `json:"message"`
	Time     string    `json:"time,omitempty"`
}
