package persistence

import (
	"context"
	"time"
)

// RosterRepository exposes CRUD operations for stored roster snapshots.
type RosterRepository interface {
	CreateRoster(ctx context.Context, snapshot Roster) error
	UpdateRoster(ctx context.Context, snapshot Roster) error
	GetRoster(ctx context.Context, id string) (Roster, error)
	ListRosters(ctx context.Context) ([]Roster, error)
	DeleteRoster(ctx context.Context, id string) error
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}
