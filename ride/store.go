package ride

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrNotFound = errors.New("ride not found")

// Store is the persistence backend for rides and participants. The Directory
// serializes calls per (destination, mode), so implementations only need to
// be individually safe for concurrent use, not transactional across calls.
type Store interface {
	// FindOpenRide returns the most recently created OPEN ride for the
	// destination/mode pair that still has a free seat.
	FindOpenRide(ctx context.Context, destination, mode string) (Ride, bool, error)
	CreateRide(ctx context.Context, destination, mode string, capacity int, now time.Time) (Ride, error)
	// AddParticipant records a seat. Re-adding an existing (ride, username)
	// pair is a no-op, not an error.
	AddParticipant(ctx context.Context, rideID int64, username string, now time.Time) error
	// Participants returns usernames on a ride in join order.
	Participants(ctx context.Context, rideID int64) ([]string, error)
	MarkFull(ctx context.Context, rideID int64) error
	GetRide(ctx context.Context, id int64) (Ride, error)
}

// MemoryStore keeps rides and participants in process memory. Rides live for
// the lifetime of the process; the directory never deletes them.
type MemoryStore struct {
	mu           sync.RWMutex
	nextID       int64
	rides        []*Ride
	byID         map[int64]*Ride
	participants map[int64][]Participant
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:         make(map[int64]*Ride),
		participants: make(map[int64][]Participant),
	}
}

func (s *MemoryStore) FindOpenRide(ctx context.Context, destination, mode string) (Ride, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Newest first: fill the most recently formed group before older ones.
	for i := len(s.rides) - 1; i >= 0; i-- {
		r := s.rides[i]
		if r.Destination != destination || r.Mode != mode || r.Status != StatusOpen {
			continue
		}
		if len(s.participants[r.ID]) < r.Capacity {
			return *r, true, nil
		}
	}
	return Ride{}, false, nil
}

func (s *MemoryStore) CreateRide(ctx context.Context, destination, mode string, capacity int, now time.Time) (Ride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	r := &Ride{
		ID:          s.nextID,
		Destination: destination,
		Mode:        mode,
		Capacity:    capacity,
		Status:      StatusOpen,
		CreatedAt:   now,
	}
	s.rides = append(s.rides, r)
	s.byID[r.ID] = r
	return *r, nil
}

func (s *MemoryStore) AddParticipant(ctx context.Context, rideID int64, username string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[rideID]; !ok {
		return ErrNotFound
	}
	for _, p := range s.participants[rideID] {
		if p.Username == username {
			return nil
		}
	}
	s.participants[rideID] = append(s.participants[rideID], Participant{
		RideID:   rideID,
		Username: username,
		JoinedAt: now,
	})
	return nil
}

func (s *MemoryStore) Participants(ctx context.Context, rideID int64) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.byID[rideID]; !ok {
		return nil, ErrNotFound
	}
	ps := s.participants[rideID]
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Username
	}
	return names, nil
}

func (s *MemoryStore) MarkFull(ctx context.Context, rideID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.byID[rideID]
	if !ok {
		return ErrNotFound
	}
	// One-way transition; a full ride never reopens.
	r.Status = StatusFull
	return nil
}

func (s *MemoryStore) GetRide(ctx context.Context, id int64) (Ride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.byID[id]
	if !ok {
		return Ride{}, ErrNotFound
	}
	return *r, nil
}
