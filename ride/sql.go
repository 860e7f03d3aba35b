package ride

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLStore backs the directory with Postgres. The uniqueness of
// (ride_id, username) is also enforced by the participants table constraint,
// so a duplicate join degrades to a no-op even without the directory lock.
type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

// EnsureSchema creates the rides and participants tables if they are absent.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS rides (
	id BIGSERIAL PRIMARY KEY,
	destination TEXT NOT NULL,
	mode TEXT NOT NULL,
	max_seats INT NOT NULL,
	status TEXT NOT NULL DEFAULT 'OPEN',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS participants (
	id BIGSERIAL PRIMARY KEY,
	ride_id BIGINT NOT NULL REFERENCES rides (id),
	username TEXT NOT NULL,
	joined_at TIMESTAMPTZ NOT NULL,
	UNIQUE (ride_id, username)
);
`

func (s *SQLStore) FindOpenRide(ctx context.Context, destination, mode string) (Ride, bool, error) {
	var r Ride
	err := s.db.GetContext(ctx, &r, findOpenRideQuery, destination, mode)
	if errors.Is(err, sql.ErrNoRows) {
		return Ride{}, false, nil
	}
	if err != nil {
		return Ride{}, false, err
	}
	return r, true, nil
}

const findOpenRideQuery = `
SELECT r.id, r.destination, r.mode, r.max_seats, r.status, r.created_at
FROM rides r
LEFT JOIN participants p ON p.ride_id = r.id
WHERE r.destination = $1 AND r.mode = $2 AND r.status = 'OPEN'
GROUP BY r.id
HAVING COUNT(p.username) < r.max_seats
ORDER BY r.created_at DESC, r.id DESC
LIMIT 1
`

func (s *SQLStore) CreateRide(ctx context.Context, destination, mode string, capacity int, now time.Time) (Ride, error) {
	var r Ride
	err := s.db.GetContext(ctx, &r, createRideQuery, destination, mode, capacity, now)
	return r, err
}

const createRideQuery = `
INSERT INTO rides (destination, mode, max_seats, status, created_at)
VALUES ($1, $2, $3, 'OPEN', $4)
RETURNING id, destination, mode, max_seats, status, created_at
`

func (s *SQLStore) AddParticipant(ctx context.Context, rideID int64, username string, now time.Time) error {
	_, err := s.db.ExecContext(ctx, addParticipantQuery, rideID, username, now)
	return err
}

const addParticipantQuery = `
INSERT INTO participants (ride_id, username, joined_at)
VALUES ($1, $2, $3)
ON CONFLICT (ride_id, username) DO NOTHING
`

func (s *SQLStore) Participants(ctx context.Context, rideID int64) ([]string, error) {
	var names []string
	err := s.db.SelectContext(ctx, &names, participantsQuery, rideID)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		// Distinguish an unknown ride from an empty roster.
		var exists bool
		if err := s.db.GetContext(ctx, &exists, rideExistsQuery, rideID); err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrNotFound
		}
	}
	return names, nil
}

const participantsQuery = `SELECT username FROM participants WHERE ride_id = $1 ORDER BY id ASC`
const rideExistsQuery = `SELECT EXISTS (SELECT 1 FROM rides WHERE id = $1)`

func (s *SQLStore) MarkFull(ctx context.Context, rideID int64) error {
	_, err := s.db.ExecContext(ctx, markFullQuery, rideID)
	return err
}

const markFullQuery = `UPDATE rides SET status = 'FULL' WHERE id = $1`

func (s *SQLStore) GetRide(ctx context.Context, id int64) (Ride, error) {
	var r Ride
	err := s.db.GetContext(ctx, &r, getRideQuery, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Ride{}, ErrNotFound
	}
	return r, err
}

const getRideQuery = `SELECT id, destination, mode, max_seats, status, created_at FROM rides WHERE id = $1`
