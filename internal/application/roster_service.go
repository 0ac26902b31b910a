package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/overlap-planner/internal/roster"
)

// RosterRepository captures the persistence operations needed by the service.
type RosterRepository interface {
	CreateRoster(ctx context.Context, snapshot roster.Snapshot) (roster.Snapshot, error)
	GetRoster(ctx context.Context, id string) (roster.Snapshot, error)
	UpdateRoster(ctx context.Context, snapshot roster.Snapshot) (roster.Snapshot, error)
	DeleteRoster(ctx context.Context, id string) error
	ListRosters(ctx context.Context) ([]roster.Snapshot, error)
}

// RosterService orchestrates validation, persistence, and cache invalidation
// for stored roster snapshots.
type RosterService struct {
	rosters     RosterRepository
	cache       *planCache
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewRosterService constructs a roster service with the provided dependencies.
func NewRosterService(rosters RosterRepository, idGenerator func() string, now func() time.Time) *RosterService {
	return NewRosterServiceWithLogger(rosters, idGenerator, now, nil)
}

// NewRosterServiceWithLogger constructs a roster service with a specified logger.
func NewRosterServiceWithLogger(rosters RosterRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *RosterService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &RosterService{rosters: rosters, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

// AttachPlanCache registers the plan cache invalidated on snapshot mutation.
func (s *RosterService) AttachPlanCache(cache *planCache) {
	if s != nil {
		s.cache = cache
	}
}

func (s *RosterService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RosterService", operation, attrs...)
}

// CreateRoster validates input and persists a new snapshot.
func (s *RosterService) CreateRoster(ctx context.Context, params CreateRosterParams) (snapshot roster.Snapshot, err error) {
	if s == nil {
		err = fmt.Errorf("RosterService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateRoster", "principal", params.Principal.Subject)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create roster", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("roster_id", snapshot.ID).InfoContext(ctx, "roster created")
	}()

	if !params.Principal.Authenticated {
		err = ErrUnauthorized
		return
	}

	vErr := validateRosterInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	now := s.now()
	snapshot = roster.Snapshot{
		ID:          s.idGenerator(),
		Name:        strings.TrimSpace(params.Input.Name),
		People:      append([]roster.Person(nil), params.Input.People...),
		Constraints: cloneConstraints(params.Input.Constraints),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if s.rosters == nil {
		return
	}

	var persisted roster.Snapshot
	persisted, err = s.rosters.CreateRoster(ctx, snapshot)
	if err != nil {
		return
	}
	snapshot = persisted
	s.cache.Invalidate()
	return
}

// GetRoster loads one stored snapshot.
func (s *RosterService) GetRoster(ctx context.Context, principal Principal, id string) (roster.Snapshot, error) {
	if s == nil || s.rosters == nil {
		return roster.Snapshot{}, fmt.Errorf("roster repository not configured")
	}
	if !principal.Authenticated {
		return roster.Snapshot{}, ErrUnauthorized
	}
	if strings.TrimSpace(id) == "" {
		return roster.Snapshot{}, ErrNotFound
	}
	return s.rosters.GetRoster(ctx, id)
}

// ListRosters returns every stored snapshot.
func (s *RosterService) ListRosters(ctx context.Context, principal Principal) ([]roster.Snapshot, error) {
	if s == nil || s.rosters == nil {
		return nil, fmt.Errorf("roster repository not configured")
	}
	if !principal.Authenticated {
		return nil, ErrUnauthorized
	}
	return s.rosters.ListRosters(ctx)
}

// UpdateRoster replaces a stored snapshot wholesale. Edits never mutate in
// place; the new snapshot supersedes the old one.
func (s *RosterService) UpdateRoster(ctx context.Context, params UpdateRosterParams) (snapshot roster.Snapshot, err error) {
	if s == nil || s.rosters == nil {
		err = fmt.Errorf("roster repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateRoster",
		"principal", params.Principal.Subject,
		"roster_id", params.RosterID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update roster", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "roster updated")
	}()

	if !params.Principal.Authenticated {
		err = ErrUnauthorized
		return
	}
	if strings.TrimSpace(params.RosterID) == "" {
		err = ErrNotFound
		return
	}

	vErr := validateRosterInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	var current roster.Snapshot
	current, err = s.rosters.GetRoster(ctx, params.RosterID)
	if err != nil {
		return
	}

	snapshot = roster.Snapshot{
		ID:          current.ID,
		Name:        strings.TrimSpace(params.Input.Name),
		People:      append([]roster.Person(nil), params.Input.People...),
		Constraints: cloneConstraints(params.Input.Constraints),
		CreatedAt:   current.CreatedAt,
		UpdatedAt:   s.now(),
	}

	var persisted roster.Snapshot
	persisted, err = s.rosters.UpdateRoster(ctx, snapshot)
	if err != nil {
		return
	}
	snapshot = persisted
	s.cache.Invalidate()
	return
}

// DeleteRoster removes a stored snapshot.
func (s *RosterService) DeleteRoster(ctx context.Context, principal Principal, id string) (err error) {
	if s == nil || s.rosters == nil {
		return fmt.Errorf("roster repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteRoster",
		"principal", principal.Subject,
		"roster_id", id,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete roster", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "roster deleted")
	}()

	if !principal.Authenticated {
		return ErrUnauthorized
	}
	if strings.TrimSpace(id) == "" {
		return ErrNotFound
	}

	if err = s.rosters.DeleteRoster(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

func validateRosterInput(input RosterInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}

	if verr := validatePeople(input.People); verr != nil {
		for field, msg := range verr.FieldErrors {
			vErr.add(field, msg)
		}
	}

	for username := range input.Constraints {
		if !peopleContain(input.People, username) {
			vErr.add("constraints", fmt.Sprintf("constraint references unknown person %q", username))
			break
		}
	}

	return vErr
}

func validatePeople(people []roster.Person) *ValidationError {
	vErr := &ValidationError{}
	seen := make(map[string]struct{}, len(people))

	for i, person := range people {
		field := fmt.Sprintf("people[%d]", i)
		username := strings.TrimSpace(person.Username)
		if username == "" {
			vErr.add(field, "username is required")
			continue
		}
		if _, dup := seen[username]; dup {
			vErr.add(field, fmt.Sprintf("duplicate username %q", username))
			continue
		}
		seen[username] = struct{}{}

		if !person.TimezoneUnset && (person.UTCOffset < roster.MinUTCOffset || person.UTCOffset > roster.MaxUTCOffset) {
			vErr.add(field, fmt.Sprintf("utc offset must be between %d and %d", roster.MinUTCOffset, roster.MaxUTCOffset))
		}
	}

	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

func peopleContain(people []roster.Person, username string) bool {
	for _, person := range people {
		if person.Username == username {
			return true
		}
	}
	return false
}

func cloneConstraints(constraints roster.ConstraintMap) roster.ConstraintMap {
	if constraints == nil {
		return nil
	}
	cloned := make(roster.ConstraintMap, len(constraints))
	for username, pin := range constraints {
		cloned[username] = pin
	}
	return cloned
}
