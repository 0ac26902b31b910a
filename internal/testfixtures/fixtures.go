package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/overlap-planner/internal/application"
	"github.com/example/overlap-planner/internal/availability"
	"github.com/example/overlap-planner/internal/persistence"
	"github.com/example/overlap-planner/internal/roster"
	"github.com/example/overlap-planner/internal/timeutil"
)

var (
	personCounter  uint64
	rosterCounter  uint64
	sessionCounter uint64
)

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ---------------------------- Person fixtures ----------------------------

// PersonOption configures the generated person fixture.
type PersonOption func(*roster.Person)

// NewPersonFixture returns a deterministic person with optional overrides.
// The default person is always available in UTC with no DST adjustment.
func NewPersonFixture(opts ...PersonOption) roster.Person {
	idx := atomic.AddUint64(&personCounter, 1)
	person := roster.Person{
		Username: fmt.Sprintf("person-%03d", idx),
		Rules:    availability.RuleSet{Kind: availability.KindAlways},
	}
	for _, opt := range opts {
		opt(&person)
	}
	return person
}

// WithUsername overrides the generated username.
func WithUsername(username string) PersonOption {
	return func(p *roster.Person) {
		p.Username = username
	}
}

// WithUTCOffset sets the timezone offset in whole hours.
func WithUTCOffset(offset int) PersonOption {
	return func(p *roster.Person) {
		p.UTCOffset = offset
		p.TimezoneUnset = false
	}
}

// WithDST marks the person as currently observing daylight saving time.
func WithDST(dst bool) PersonOption {
	return func(p *roster.Person) {
		p.DST = dst
	}
}

// WithTimezoneUnset marks the person's timezone as unknown.
func WithTimezoneUnset() PersonOption {
	return func(p *roster.Person) {
		p.TimezoneUnset = true
	}
}

// WithRules replaces the availability rule set.
func WithRules(rules availability.RuleSet) PersonOption {
	return func(p *roster.Person) {
		p.Rules = rules
	}
}

// WithDailyRange installs a specific daily range rule from clock strings.
func WithDailyRange(start, end string) PersonOption {
	return func(p *roster.Person) {
		p.Rules = availability.RuleSet{
			Kind: availability.KindSpecific,
			Range: &availability.ClockRange{
				Start: timeutil.ParseClock(start),
				End:   timeutil.ParseClock(end),
			},
		}
	}
}

// WithNeverAvailable installs the not-available rule.
func WithNeverAvailable() PersonOption {
	return func(p *roster.Person) {
		p.Rules = availability.RuleSet{Kind: availability.KindNotAvailable}
	}
}

// ---------------------------- Roster fixtures ----------------------------

// RosterFixture represents a deterministic stored roster snapshot.
type RosterFixture struct {
	ID          string
	Name        string
	People      []roster.Person
	Constraints roster.ConstraintMap
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RosterOption configures the generated roster fixture.
type RosterOption func(*RosterFixture)

// NewRosterFixture returns a deterministic roster fixture with optional overrides.
func NewRosterFixture(opts ...RosterOption) RosterFixture {
	idx := atomic.AddUint64(&rosterCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := RosterFixture{
		ID:        fmt.Sprintf("roster-%03d", idx),
		Name:      fmt.Sprintf("Roster %03d", idx),
		People:    []roster.Person{NewPersonFixture()},
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithRosterID overrides the generated roster ID.
func WithRosterID(id string) RosterOption {
	return func(f *RosterFixture) {
		f.ID = id
	}
}

// WithRosterName overrides the generated roster name.
func WithRosterName(name string) RosterOption {
	return func(f *RosterFixture) {
		f.Name = name
	}
}

// WithPeople replaces the people list.
func WithPeople(people ...roster.Person) RosterOption {
	return func(f *RosterFixture) {
		f.People = append([]roster.Person(nil), people...)
	}
}

// WithConstraints replaces the pin constraints.
func WithConstraints(constraints roster.ConstraintMap) RosterOption {
	return func(f *RosterFixture) {
		f.Constraints = constraints
	}
}

// WithRosterTimestamps sets both created and updated timestamps.
func WithRosterTimestamps(created, updated time.Time) RosterOption {
	return func(f *RosterFixture) {
		f.CreatedAt = created
		f.UpdatedAt = updated
	}
}

// Snapshot returns the fixture as a roster.Snapshot value.
func (f RosterFixture) Snapshot() roster.Snapshot {
	return roster.Snapshot{
		ID:          f.ID,
		Name:        f.Name,
		People:      append([]roster.Person(nil), f.People...),
		Constraints: cloneConstraints(f.Constraints),
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// Persistence returns the fixture as a persistence.Roster value.
func (f RosterFixture) Persistence() persistence.Roster {
	return persistence.Roster{
		ID:          f.ID,
		Name:        f.Name,
		People:      append([]roster.Person(nil), f.People...),
		Constraints: cloneConstraints(f.Constraints),
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// Input returns the fixture as an application.RosterInput.
func (f RosterFixture) Input() application.RosterInput {
	return application.RosterInput{
		Name:        f.Name,
		People:      append([]roster.Person(nil), f.People...),
		Constraints: cloneConstraints(f.Constraints),
	}
}

// ---------------------------- Session fixtures ---------------------------

// SessionFixture represents a deterministic session record.
type SessionFixture struct {
	ID        string
	Subject   string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// SessionOption configures the generated session fixture.
type SessionOption func(*SessionFixture)

// NewSessionFixture returns a deterministic session fixture with optional overrides.
func NewSessionFixture(opts ...SessionOption) SessionFixture {
	idx := atomic.AddUint64(&sessionCounter, 1)
	created := referenceTime
	fixture := SessionFixture{
		ID:        fmt.Sprintf("session-%03d", idx),
		Subject:   "admin@example.com",
		Token:     fmt.Sprintf("token-%03d", idx),
		ExpiresAt: created.Add(24 * time.Hour),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSessionID overrides the session ID.
func WithSessionID(id string) SessionOption {
	return func(f *SessionFixture) {
		f.ID = id
	}
}

// WithSessionSubject sets the authenticated subject.
func WithSessionSubject(subject string) SessionOption {
	return func(f *SessionFixture) {
		f.Subject = subject
	}
}

// WithSessionToken overrides the token value.
func WithSessionToken(token string) SessionOption {
	return func(f *SessionFixture) {
		f.Token = token
	}
}

// WithSessionExpiresAt sets the expiration timestamp.
func WithSessionExpiresAt(t time.Time) SessionOption {
	return func(f *SessionFixture) {
		f.ExpiresAt = t
	}
}

// WithSessionRevokedAt sets the optional revoked timestamp.
func WithSessionRevokedAt(t time.Time) SessionOption {
	return func(f *SessionFixture) {
		revoked := t
		f.RevokedAt = &revoked
	}
}

// Application returns the fixture as an application.Session value.
func (f SessionFixture) Application() application.Session {
	var revoked *time.Time
	if f.RevokedAt != nil {
		t := *f.RevokedAt
		revoked = &t
	}
	return application.Session{
		ID:        f.ID,
		Subject:   f.Subject,
		Token:     f.Token,
		ExpiresAt: f.ExpiresAt,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
		RevokedAt: revoked,
	}
}

// Persistence returns the fixture as a persistence.Session value.
func (f SessionFixture) Persistence() persistence.Session {
	var revoked *time.Time
	if f.RevokedAt != nil {
		t := *f.RevokedAt
		revoked = &t
	}
	return persistence.Session{
		ID:        f.ID,
		Subject:   f.Subject,
		Token:     f.Token,
		ExpiresAt: f.ExpiresAt,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
		RevokedAt: revoked,
	}
}

func cloneConstraints(src roster.ConstraintMap) roster.ConstraintMap {
	if src == nil {
		return nil
	}
	out := make(roster.ConstraintMap, len(src))
	for username, pin := range src {
		out[username] = pin
	}
	return out
}
