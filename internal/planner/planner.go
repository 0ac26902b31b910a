// Package planner scans a simulated UTC day minute by minute and extracts
// optimal or least-optimal shared time windows for a roster.
//
// Every entry point is a pure function of its request: the scan allocates
// only transient per-call state, so concurrent invocations are safe and
// repeated invocations with identical inputs return identical results.
package planner

import (
	"time"

	"github.com/example/overlap-planner/internal/availability"
	"github.com/example/overlap-planner/internal/roster"
	"github.com/example/overlap-planner/internal/timeutil"
)

// Mode selects what the headcount measures.
type Mode int

const (
	// ModeBest counts people online; the optimizer seeks maximum overlap.
	ModeBest Mode = iota
	// ModeWorst counts people offline; the optimizer seeks maximum
	// simultaneous absence.
	ModeWorst
)

// Request carries one evaluation pass worth of inputs.
type Request struct {
	People      []roster.Person
	Constraints roster.ConstraintMap
	// BaseDay is the UTC midnight opening the simulated day. Only its date
	// and weekday matter.
	BaseDay time.Time
	Mode    Mode
}

// MinuteScore is one slot of the per-minute table: how many people are in
// the desired state and whether the minute satisfies all pins.
type MinuteScore struct {
	Count int
	Valid bool
}

// WindowRange is an inclusive minute range within the simulated UTC day.
// Start > End denotes a range wrapping midnight; (-1,-1) is the empty
// sentinel.
type WindowRange struct {
	Start int
	End   int
}

// EmptyRange is the sentinel returned when no qualifying window exists.
var EmptyRange = WindowRange{Start: -1, End: -1}

// IsEmpty reports whether the range is the empty sentinel.
func (r WindowRange) IsEmpty() bool {
	return r.Start < 0 || r.End < 0
}

// Window is a contiguous run of minutes sharing one qualifying headcount.
type Window struct {
	Count  int
	Range  WindowRange
	Length int
}

// Result pairs the selected window with the people excluded from the scan.
type Result struct {
	Window
	// Skipped lists people pinned online whose rules can never yield
	// availability; counting them would invalidate every minute, so
	// best-time scans drop them and report them here instead.
	Skipped []string
}

func emptyResult(skipped []string) Result {
	return Result{Window: Window{Range: EmptyRange}, Skipped: skipped}
}

// computableSet drops people the scan cannot reason about: anyone without a
// timezone, and in best mode anyone pinned online who can never be
// available. Worst mode keeps the latter, where "never available" is
// legitimate offline status.
func computableSet(people []roster.Person, constraints roster.ConstraintMap, mode Mode) ([]roster.Person, []string) {
	computable := make([]roster.Person, 0, len(people))
	var skipped []string

	for _, person := range people {
		if _, ok := person.EffectiveOffset(); !ok {
			continue
		}
		if mode == ModeBest && constraints[person.Username] == roster.PinOnline && !person.EverAvailable() {
			skipped = append(skipped, person.Username)
			continue
		}
		computable = append(computable, person)
	}

	return computable, skipped
}

// SkippedPeople exposes the pinned-online-but-never-available list without
// running a scan.
func SkippedPeople(people []roster.Person, constraints roster.ConstraintMap) []string {
	_, skipped := computableSet(people, constraints, ModeBest)
	return skipped
}

func shiftWeekday(day time.Weekday, delta int) time.Weekday {
	return time.Weekday(((int(day)+delta)%7 + 7) % 7)
}

// EvaluateAt resolves one person's availability at a simulated UTC minute,
// translating to their local minute and weekday. The second return value is
// false when the person's timezone is unset.
func EvaluateAt(person roster.Person, baseDay time.Time, utcMinute int) (availability.Evaluation, bool) {
	offset, ok := person.EffectiveOffset()
	if !ok {
		return availability.Evaluation{}, false
	}

	localTotal := utcMinute + offset*60
	localMinute := timeutil.WrapMinute(localTotal)

	dayShift := 0
	switch {
	case localTotal < 0:
		dayShift = -1
	case localTotal >= timeutil.MinutesPerDay:
		dayShift = 1
	}
	localDay := shiftWeekday(baseDay.Weekday(), dayShift)

	return availability.Evaluate(person.Rules, localMinute, localDay), true
}

// scoreMinute computes one slot of the minute table. A single pin violation
// invalidates the whole minute and short-circuits the remaining people.
func scoreMinute(people []roster.Person, constraints roster.ConstraintMap, baseDay time.Time, utcMinute int, mode Mode) MinuteScore {
	score := MinuteScore{Valid: true}

	for _, person := range people {
		eval, ok := EvaluateAt(person, baseDay, utcMinute)
		if !ok {
			continue
		}

		switch constraints[person.Username] {
		case roster.PinOnline:
			if !eval.Available {
				return MinuteScore{}
			}
		case roster.PinOffline:
			if eval.Available {
				return MinuteScore{}
			}
		}

		if eval.Available == (mode == ModeBest) {
			score.Count++
		}
	}

	return score
}

// ScoreDay builds the full 1440-entry minute table for the request's
// computable people set.
func ScoreDay(req Request) []MinuteScore {
	people, _ := computableSet(req.People, req.Constraints, req.Mode)
	return scoreDay(people, req.Constraints, req.BaseDay, req.Mode)
}

func scoreDay(people []roster.Person, constraints roster.ConstraintMap, baseDay time.Time, mode Mode) []MinuteScore {
	scores := make([]MinuteScore, timeutil.MinutesPerDay)
	for minute := range scores {
		scores[minute] = scoreMinute(people, constraints, baseDay, minute, mode)
	}
	return scores
}

// longestRun finds the longest circular run of valid minutes carrying the
// target count, scanning a logically doubled day so wrapping runs are seen
// whole. Ties go to the earliest start minute; runs are capped at one day.
func longestRun(scores []MinuteScore, target int) (start, length int, found bool) {
	n := len(scores)
	bestStart, bestLength := -1, 0
	runStart := -1

	consider := func(s, l int) {
		if s >= n {
			// Duplicate of a run already seen in the first copy.
			return
		}
		if l > n {
			l = n
		}
		if l > bestLength {
			bestStart, bestLength = s, l
		}
	}

	for i := 0; i < 2*n-1; i++ {
		sc := scores[i%n]
		if sc.Valid && sc.Count == target {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		if runStart >= 0 {
			consider(runStart, i-runStart)
			runStart = -1
		}
	}
	if runStart >= 0 {
		consider(runStart, 2*n-1-runStart)
	}

	if bestStart < 0 {
		return 0, 0, false
	}
	return bestStart, bestLength, true
}

// maxValidCount returns the highest headcount among valid minutes. The
// second return value is false when no minute is valid.
func maxValidCount(scores []MinuteScore) (int, bool) {
	best, found := 0, false
	for _, sc := range scores {
		if !sc.Valid {
			continue
		}
		if !found || sc.Count > best {
			best = sc.Count
		}
		found = true
	}
	return best, found
}

// FindContiguousRange extracts the single best (or worst) maximal-score
// contiguous window of the simulated day.
func FindContiguousRange(req Request) Result {
	people, skipped := computableSet(req.People, req.Constraints, req.Mode)
	if len(people) == 0 {
		return emptyResult(skipped)
	}

	scores := scoreDay(people, req.Constraints, req.BaseDay, req.Mode)
	target, ok := maxValidCount(scores)
	if !ok {
		return emptyResult(skipped)
	}
	if req.Mode == ModeBest && target <= 0 {
		return emptyResult(skipped)
	}

	start, length, found := longestRun(scores, target)
	if !found {
		return emptyResult(skipped)
	}

	return Result{
		Window: Window{
			Count:  target,
			Range:  WindowRange{Start: start, End: (start + length - 1) % timeutil.MinutesPerDay},
			Length: length,
		},
		Skipped: skipped,
	}
}

// Ranked is the ordered best-to-worst window list.
type Ranked struct {
	Windows []Window
	Skipped []string
}

// OrderedRanges returns one window per distinct headcount present among
// valid minutes, sorted by strictly descending count. Each count gets its
// own longest run, found independently.
func OrderedRanges(req Request) Ranked {
	people, skipped := computableSet(req.People, req.Constraints, req.Mode)
	if len(people) == 0 {
		return Ranked{Skipped: skipped}
	}

	scores := scoreDay(people, req.Constraints, req.BaseDay, req.Mode)

	seen := make(map[int]struct{})
	counts := make([]int, 0, 8)
	for _, sc := range scores {
		if !sc.Valid {
			continue
		}
		if _, dup := seen[sc.Count]; dup {
			continue
		}
		seen[sc.Count] = struct{}{}
		counts = append(counts, sc.Count)
	}
	for i := 1; i < len(counts); i++ {
		for j := i; j > 0 && counts[j] > counts[j-1]; j-- {
			counts[j], counts[j-1] = counts[j-1], counts[j]
		}
	}

	windows := make([]Window, 0, len(counts))
	for _, count := range counts {
		start, length, found := longestRun(scores, count)
		if !found {
			continue
		}
		windows = append(windows, Window{
			Count:  count,
			Range:  WindowRange{Start: start, End: (start + length - 1) % timeutil.MinutesPerDay},
			Length: length,
		})
	}

	return Ranked{Windows: windows, Skipped: skipped}
}

// Slot is one fixed one-hour block of the simulated day.
type Slot struct {
	StartMinute int
	Count       int
}

// HourlySlots partitions the day into 24 hour blocks. A block is dropped
// entirely when any pin is violated at its first minute; pins are not
// re-checked inside the block. Counts are sampled at the block start.
func HourlySlots(req Request) []Slot {
	people, _ := computableSet(req.People, req.Constraints, req.Mode)
	if len(people) == 0 {
		return nil
	}

	slots := make([]Slot, 0, 24)
	for hour := 0; hour < 24; hour++ {
		minute := hour * 60
		score := scoreMinute(people, req.Constraints, req.BaseDay, minute, req.Mode)
		if !score.Valid {
			continue
		}
		slots = append(slots, Slot{StartMinute: minute, Count: score.Count})
	}
	return slots
}
