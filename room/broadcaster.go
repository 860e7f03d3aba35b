package room

import (
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Outbound events queue per session; a subscriber that falls this far behind
// starts losing events rather than stalling the room.
const sessionBuffer = 32

// Session is one live connection subscribed to a room. Events arrive on the
// channel returned by Events until Unsubscribe closes it.
type Session struct {
	ID       string
	RoomKey  string
	Username string
	events   chan Event
}

// Events is the session's outbound stream. It is closed when the session is
// unsubscribed; no event is delivered after that.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Broadcaster is the registry of room channels. Operations on different
// rooms proceed in parallel; within one room, subscribe, publish and
// unsubscribe serialize on the registry lock so events are never sent to a
// session mid-teardown.
type Broadcaster struct {
	mu      sync.RWMutex
	rooms   map[string]map[*Session]bool
	logger  *slog.Logger
	now     func() time.Time
	dropped atomic.Int64
}

func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		rooms:  make(map[string]map[*Session]bool),
		logger: logger,
		now:    time.Now,
	}
}

// Subscribe registers a connection under the room key and announces the join
// to every current subscriber. Join-then-notify: the joiner also receives
// its own join notice.
func (b *Broadcaster) Subscribe(roomKey, username string) *Session {
	s := &Session{
		ID:       uuid.NewString(),
		RoomKey:  roomKey,
		Username: username,
		events:   make(chan Event, sessionBuffer),
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.rooms[roomKey] == nil {
		b.rooms[roomKey] = make(map[*Session]bool)
	}
	b.rooms[roomKey][s] = true
	b.deliverLocked(roomKey, Event{Type: EventSystem, Message: username + " joined"})
	return s
}

// Publish broadcasts a chat message to every current subscriber of the room.
// Whitespace-only messages are dropped silently; the stored content is
// trimmed.
func (b *Broadcaster) Publish(roomKey, username, message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	b.deliverLocked(roomKey, Event{
		Type:     EventChat,
		Username: username,
		Message:  message,
		Time:     b.now().Format("15:04"),
	})
}

// Unsubscribe removes the session from its room, closes its event stream and
// announces the departure to the remaining subscribers. Unsubscribing a
// session that was never (or is no longer) registered only emits the
// departure notice; it is safe to call twice.
func (b *Broadcaster) Unsubscribe(s *Session) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if subs, ok := b.rooms[s.RoomKey]; ok && subs[s] {
		delete(subs, s)
		close(s.events)
		if len(subs) == 0 {
			delete(b.rooms, s.RoomKey)
		}
	}
	b.deliverLocked(s.RoomKey, Event{Type: EventSystem, Message: s.Username + " left"})
}

// DroppedEvents reports how many events have been lost to lagging
// subscribers since the broadcaster started.
func (b *Broadcaster) DroppedEvents() int64 {
	return b.dropped.Load()
}

// Subscribers reports how many sessions are currently connected to a room.
func (b *Broadcaster) Subscribers(roomKey string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.rooms[roomKey])
}

// deliverLocked fans an event out to the room's sessions. Callers hold at
// least the read lock, which guarantees no session channel closes mid-send.
// Sends never block: a full session buffer drops the event for that session
// only.
func (b *Broadcaster) deliverLocked(roomKey string, ev Event) {
	for s := range b.rooms[roomKey] {
		select {
		case s.events <- ev:
		default:
			b.dropped.Add(1)
			b.logger.Warn("subscriber lagging, dropping event",
				"room", roomKey, "session", s.ID, "event", string(ev.Type))
		}
	}
}
