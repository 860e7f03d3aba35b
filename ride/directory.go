package ride

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

var ErrNoDestination = errors.New("destination is required")

// JoinResult is what a successful join reports back to the edge: the ride,
// its broadcast channel key, and the roster in join order.
type JoinResult struct {
	RideID       int64
	RoomKey      string
	Destination  string
	Mode         string
	Username     string
	Participants []string
	Capacity     int
	Status       Status
	// Created reports that this join formed the ride rather than filling an
	// existing one.
	Created bool
}

// Directory owns the set of rides and participants. It is the only component
// that mutates them.
type Directory struct {
	store Store
	locks keyedMutex
	now   func() time.Time
}

func NewDirectory(store Store) *Directory {
	return &Directory{store: store, now: time.Now}
}

// JoinOrCreate admits a participant to the newest open ride for the
// destination/mode pair, creating one when no open ride has a free seat.
// Joining a ride twice with the same username is an idempotent success.
//
// The find-count-insert-transition sequence runs under a per-key lock:
// concurrent joins for the same destination and mode are serialized, so a
// ride's participant count can never exceed its capacity. Joins for
// different pairs proceed in parallel.
func (d *Directory) JoinOrCreate(ctx context.Context, destination, mode, username string) (JoinResult, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return JoinResult{}, ErrNoDestination
	}
	mode = strings.TrimSpace(mode)
	username = strings.TrimSpace(username)
	if username == "" {
		username = GuestName(d.now())
	}

	unlock := d.locks.lock(destination + "\x00" + mode)
	defer unlock()

	r, ok, err := d.store.FindOpenRide(ctx, destination, mode)
	if err != nil {
		return JoinResult{}, err
	}
	created := false
	if !ok {
		r, err = d.store.CreateRide(ctx, destination, mode, SeatsFor(mode), d.now())
		if err != nil {
			return JoinResult{}, err
		}
		created = true
	}

	if err := d.store.AddParticipant(ctx, r.ID, username, d.now()); err != nil {
		return JoinResult{}, err
	}

	names, err := d.store.Participants(ctx, r.ID)
	if err != nil {
		return JoinResult{}, err
	}
	if len(names) >= r.Capacity && r.Status == StatusOpen {
		if err := d.store.MarkFull(ctx, r.ID); err != nil {
			return JoinResult{}, err
		}
		r.Status = StatusFull
	}

	return JoinResult{
		RideID:       r.ID,
		RoomKey:      RoomKey(r.ID),
		Destination:  destination,
		Mode:         mode,
		Username:     username,
		Participants: names,
		Capacity:     r.Capacity,
		Status:       r.Status,
		Created:      created,
	}, nil
}

// Ride returns a ride by id.
func (d *Directory) Ride(ctx context.Context, id int64) (Ride, error) {
	return d.store.GetRide(ctx, id)
}

// Roster returns the usernames on a ride in join order.
func (d *Directory) Roster(ctx context.Context, id int64) ([]string, error) {
	return d.store.Participants(ctx, id)
}

// keyedMutex hands out one mutex per key so joins for unrelated
// destination/mode pairs never contend. Entries are kept for the process
// lifetime, matching the lifetime of the rides they guard.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
