package persistence

import (
	"time"

	"github.com/example/overlap-planner/internal/roster"
)

// Roster is a stored people snapshot together with its hard constraints.
type Roster struct {
	ID          string
	Name        string
	People      []roster.Person
	Constraints roster.ConstraintMap
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Session represents an authentication session persisted for the admin user.
type Session struct {
	ID        string
	Subject   string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}
