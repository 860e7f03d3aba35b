// Package ride implements the pooling directory: it matches join requests to
// open rides by destination and vehicle mode, enforcing seat capacity.
package ride

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusOpen Status = "OPEN"
	StatusFull Status = "FULL"
)

// Ride is a capacity-bounded group of riders heading to the same destination.
type Ride struct {
	ID          int64     `db:"id"`
	Destination string    `db:"destination"`
	Mode        string    `db:"mode"`
	Capacity    int       `db:"max_seats"`
	Status      Status    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
}

// Participant is a seat taken on a ride. (RideID, Username) is unique; a
// participant is never removed, a chat disconnect does not free the seat.
type Participant struct {
	RideID   int64     `db:"ride_id"`
	Username string    `db:"username"`
	JoinedAt time.Time `db:"joined_at"`
}

const (
	ModeBike = "Bike"
	ModeAuto = "Auto"
	ModeCab  = "Cab"
)

// Modes lists the known vehicle modes in display order.
var Modes = []string{ModeBike, ModeAuto, ModeCab}

type modeSpec struct {
	Seats int
	Chat  bool
}

var modeSpecs = map[string]modeSpec{
	ModeBike: {Seats: 1, Chat: false},
	ModeAuto: {Seats: 3, Chat: true},
	ModeCab:  {Seats: 4, Chat: true},
}

// DefaultSeats is the capacity used for modes outside the table. User input
// at this boundary is forgiving: an unknown mode degrades, it never errors.
const DefaultSeats = 3

// SeatsFor returns the seat capacity for a mode.
func SeatsFor(mode string) int {
	if spec, ok := modeSpecs[mode]; ok {
		return spec.Seats
	}
	return DefaultSeats
}

// ChatEnabled reports whether the ride room chat is exposed for a mode.
// Single-seat modes have nobody to talk to.
func ChatEnabled(mode string) bool {
	if spec, ok := modeSpecs[mode]; ok {
		return spec.Chat
	}
	return true
}

// RoomKey derives the broadcast channel key for a ride. Keys are unique per
// ride so unrelated rides never share a channel.
func RoomKey(id int64) string {
	return fmt.Sprintf("ride_%d", id)
}

// GuestName generates a pseudo-unique rider name for requests that arrive
// without a username.
func GuestName(now time.Time) string {
	return fmt.Sprintf("Rider%d", now.UnixNano()%10000)
}
