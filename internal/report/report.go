// Package report converts planner output into display form: clock strings
// for a viewer's timezone and per-person status lists.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/example/overlap-planner/internal/planner"
	"github.com/example/overlap-planner/internal/roster"
	"github.com/example/overlap-planner/internal/timeutil"
)

// Viewer describes how the requesting user wants times rendered.
type Viewer struct {
	UTCOffset int
	DST       bool
	// LocalTimes selects the viewer's local clock instead of UTC.
	LocalTimes bool
}

func (v Viewer) effectiveOffset() int {
	if !v.LocalTimes {
		return 0
	}
	offset := v.UTCOffset
	if v.DST {
		offset++
	}
	return offset
}

func (v Viewer) zoneLabel() string {
	offset := v.effectiveOffset()
	switch {
	case offset == 0:
		return "UTC"
	case offset > 0:
		return fmt.Sprintf("UTC+%d", offset)
	default:
		return fmt.Sprintf("UTC%d", offset)
	}
}

// RenderedWindow is a window formatted for display. End is the exclusive
// boundary following the window's inclusive last minute.
type RenderedWindow struct {
	Count    int    `json:"count"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Timezone string `json:"timezone"`
	Length   string `json:"length"`
}

// RenderWindow formats a window in the viewer's chosen clock. The empty
// sentinel renders with "N/A" bounds.
func RenderWindow(window planner.Window, viewer Viewer) RenderedWindow {
	rendered := RenderedWindow{
		Count:    window.Count,
		Timezone: viewer.zoneLabel(),
		Length:   timeutil.FormatDuration(window.Length),
	}

	if window.Range.IsEmpty() {
		rendered.Start = "N/A"
		rendered.End = "N/A"
		return rendered
	}

	shift := viewer.effectiveOffset() * 60
	rendered.Start = timeutil.FormatClock(timeutil.WrapMinute(window.Range.Start + shift))
	rendered.End = timeutil.FormatClock(timeutil.WrapMinute(window.Range.End + 1 + shift))
	return rendered
}

// PersonStatus is one roster entry's state at a chosen instant.
type PersonStatus struct {
	Username  string `json:"username"`
	Status    string `json:"statusText"`
	Available bool   `json:"isAvailable"`
	Kind      string `json:"effectiveType"`
}

// PersonStatuses re-evaluates every person at the given simulated UTC
// minute. The worst-time view lists offline people first, then sorts
// alphabetically; the best-time view sorts alphabetically only.
func PersonStatuses(people []roster.Person, baseDay time.Time, utcMinute int, worstView bool) []PersonStatus {
	statuses := make([]PersonStatus, 0, len(people))
	for _, person := range people {
		eval, ok := planner.EvaluateAt(person, baseDay, utcMinute)
		if !ok {
			statuses = append(statuses, PersonStatus{
				Username: person.Username,
				Status:   "Timezone not set",
				Kind:     person.Rules.Kind.Label(),
			})
			continue
		}
		statuses = append(statuses, PersonStatus{
			Username:  person.Username,
			Status:    eval.Status,
			Available: eval.Available,
			Kind:      eval.Kind.Label(),
		})
	}

	sort.Slice(statuses, func(i, j int) bool {
		if worstView && statuses[i].Available != statuses[j].Available {
			return !statuses[i].Available
		}
		return statuses[i].Username < statuses[j].Username
	})

	return statuses
}

// PinnedOnlineFallback recomputes the best overlap restricted to people
// pinned online, ignoring every other constraint. It backs the secondary
// suggestion shown when the primary best window has zero count. The second
// return value is false when no pinned person yields a usable window.
func PinnedOnlineFallback(people []roster.Person, constraints roster.ConstraintMap, baseDay time.Time) (planner.Window, bool) {
	pinned := make([]roster.Person, 0, len(people))
	for _, person := range people {
		if constraints[person.Username] == roster.PinOnline {
			pinned = append(pinned, person)
		}
	}
	if len(pinned) == 0 {
		return planner.Window{Range: planner.EmptyRange}, false
	}

	result := planner.FindContiguousRange(planner.Request{
		People:  pinned,
		BaseDay: baseDay,
		Mode:    planner.ModeBest,
	})
	if result.Count <= 0 || result.Range.IsEmpty() {
		return planner.Window{Range: planner.EmptyRange}, false
	}
	return result.Window, true
}
