package application

import (
	"time"

	"github.com/example/overlap-planner/internal/report"
	"github.com/example/overlap-planner/internal/roster"
)

// Principal represents the authenticated caller invoking a service method.
type Principal struct {
	Subject       string
	Authenticated bool
}

// Session represents an issued authentication session.
type Session struct {
	ID        string
	Subject   string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// AuthenticateParams wraps a login attempt.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult carries the issued session.
type AuthenticateResult struct {
	Session Session
}

// RosterInput captures caller provided roster snapshot fields.
type RosterInput struct {
	Name        string
	People      []roster.Person
	Constraints roster.ConstraintMap
}

// CreateRosterParams wraps the data required to store a new roster snapshot.
type CreateRosterParams struct {
	Principal Principal
	Input     RosterInput
}

// UpdateRosterParams wraps a full snapshot replacement.
type UpdateRosterParams struct {
	Principal Principal
	RosterID  string
	Input     RosterInput
}

// PlanMode selects which evaluation the planner runs.
type PlanMode string

const (
	// PlanModeBest finds the optimal shared window (maximum online overlap).
	PlanModeBest PlanMode = "best"
	// PlanModeWorst finds the window of maximum simultaneous absence.
	PlanModeWorst PlanMode = "worst"
	// PlanModeRanked lists one window per distinct headcount, best first.
	PlanModeRanked PlanMode = "ranked"
	// PlanModeHourly samples 24 fixed one-hour blocks.
	PlanModeHourly PlanMode = "hourly"
)

// ViewerOptions describe how the caller wants times rendered.
type ViewerOptions struct {
	UTCOffset  int
	DST        bool
	LocalTimes bool
}

// ComputePlanParams wraps one evaluation pass. Either RosterID or the inline
// People set must be provided; an inline set takes precedence.
type ComputePlanParams struct {
	Principal   Principal
	RosterID    string
	People      []roster.Person
	Constraints roster.ConstraintMap
	Mode        PlanMode
	// Date is the simulated UTC day in "2006-01-02" form; empty means today.
	Date   string
	Viewer ViewerOptions
}

// HourlySlot is one rendered fixed one-hour block.
type HourlySlot struct {
	Start       string `json:"start"`
	StartMinute int    `json:"start_minute"`
	Count       int    `json:"count"`
}

// PlanResult is the rendered outcome of a single evaluation pass.
type PlanResult struct {
	Mode PlanMode `json:"mode"`
	Date string   `json:"date"`

	// Window holds the selected window for best and worst modes.
	Window *report.RenderedWindow `json:"window,omitempty"`
	// Windows holds the ranked list for ranked mode.
	Windows []report.RenderedWindow `json:"windows,omitempty"`
	// Slots holds the hourly partition for hourly mode.
	Slots []HourlySlot `json:"slots,omitempty"`

	Statuses []report.PersonStatus `json:"statuses,omitempty"`
	Skipped  []string              `json:"skipped_people,omitempty"`

	// Fallback is the secondary suggestion computed from pinned-online
	// people when the primary best window has zero count.
	Fallback *report.RenderedWindow `json:"fallback,omitempty"`

	// Empty marks the explicit empty-result sentinel: no computable people
	// or no valid minute, as opposed to a window with zero count.
	Empty bool `json:"empty"`
}
