package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/overlap-planner/internal/persistence"
	"github.com/example/overlap-planner/internal/roster"
)

// RosterRepository implements persistence.RosterRepository using SQLite.
// People and constraints are stored in the same JSON wire shape the API
// accepts, so exports round-trip byte for byte.
type RosterRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewRosterRepository creates a new SQLite roster repository.
func NewRosterRepository(pool *ConnectionPool) *RosterRepository {
	return &RosterRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateRoster inserts a new roster snapshot.
func (r *RosterRepository) CreateRoster(ctx context.Context, snapshot persistence.Roster) error {
	if strings.TrimSpace(snapshot.ID) == "" {
		return persistence.ErrConstraintViolation
	}

	peopleJSON, constraintsJSON, err := encodeRoster(snapshot)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = now
	}
	snapshot.UpdatedAt = snapshot.CreatedAt

	query := `
		INSERT INTO rosters (id, name, people_json, constraints_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = r.helper.Exec(ctx, query,
		snapshot.ID,
		snapshot.Name,
		peopleJSON,
		constraintsJSON,
		snapshot.CreatedAt.Format(time.RFC3339),
		snapshot.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// UpdateRoster replaces an existing snapshot's name, people, and constraints.
func (r *RosterRepository) UpdateRoster(ctx context.Context, snapshot persistence.Roster) error {
	if strings.TrimSpace(snapshot.ID) == "" {
		return persistence.ErrConstraintViolation
	}

	peopleJSON, constraintsJSON, err := encodeRoster(snapshot)
	if err != nil {
		return err
	}

	query := `
		UPDATE rosters
		SET name = ?, people_json = ?, constraints_json = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.helper.Exec(ctx, query,
		snapshot.Name,
		peopleJSON,
		constraintsJSON,
		time.Now().UTC().Format(time.RFC3339),
		snapshot.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// GetRoster retrieves a roster snapshot by ID.
func (r *RosterRepository) GetRoster(ctx context.Context, id string) (persistence.Roster, error) {
	query := `
		SELECT id, name, people_json, constraints_json, created_at, updated_at
		FROM rosters
		WHERE id = ?
	`
	return r.scanRoster(r.helper.QueryRow(ctx, query, id))
}

// ListRosters returns all snapshots ordered by name, then ID.
func (r *RosterRepository) ListRosters(ctx context.Context) ([]persistence.Roster, error) {
	query := `
		SELECT id, name, people_json, constraints_json, created_at, updated_at
		FROM rosters
		ORDER BY name, id
	`
	rows, err := r.helper.Query(ctx, query)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var rosters []persistence.Roster
	for rows.Next() {
		snapshot, err := r.scanRoster(rows)
		if err != nil {
			return nil, err
		}
		rosters = append(rosters, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return rosters, nil
}

// DeleteRoster removes a snapshot by ID.
func (r *RosterRepository) DeleteRoster(ctx context.Context, id string) error {
	result, err := r.helper.Exec(ctx, "DELETE FROM rosters WHERE id = ?", id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *RosterRepository) scanRoster(row rowScanner) (persistence.Roster, error) {
	var snapshot persistence.Roster
	var peopleJSON, constraintsJSON, createdAt, updatedAt string

	err := row.Scan(&snapshot.ID, &snapshot.Name, &peopleJSON, &constraintsJSON, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Roster{}, persistence.ErrNotFound
		}
		return persistence.Roster{}, r.mapper.MapError(err)
	}

	if err := json.Unmarshal([]byte(peopleJSON), &snapshot.People); err != nil {
		return persistence.Roster{}, fmt.Errorf("failed to decode stored people: %w", err)
	}
	if err := json.Unmarshal([]byte(constraintsJSON), &snapshot.Constraints); err != nil {
		return persistence.Roster{}, fmt.Errorf("failed to decode stored constraints: %w", err)
	}
	if snapshot.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.Roster{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if snapshot.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.Roster{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return snapshot, nil
}

func encodeRoster(snapshot persistence.Roster) (peopleJSON, constraintsJSON string, err error) {
	people := snapshot.People
	if people == nil {
		people = []roster.Person{}
	}
	encodedPeople, err := json.Marshal(people)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode people: %w", err)
	}

	constraints := snapshot.Constraints
	if constraints == nil {
		constraints = roster.ConstraintMap{}
	}
	encodedConstraints, err := json.Marshal(constraints)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode constraints: %w", err)
	}

	return string(encodedPeople), string(encodedConstraints), nil
}
