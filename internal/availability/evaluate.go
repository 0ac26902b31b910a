package availability

import (
	"time"

	"github.com/example/overlap-planner/internal/timeutil"
)

// Evaluation is the outcome of checking a rule set at a local instant.
type Evaluation struct {
	Available bool
	// Kind is the effective leaf kind that decided the outcome. For split
	// and per-day sets this is the selected sub-rule's kind.
	Kind Kind
	// Status is the human readable availability description.
	Status string
}

// Evaluate resolves whether a rule set makes a person available at the given
// local minute on the given local weekday, together with display text.
func Evaluate(set RuleSet, localMinute int, day time.Weekday) Evaluation {
	switch set.Kind {
	case KindNotAvailable:
		return Evaluation{Kind: KindNotAvailable, Status: "N/A"}
	case KindAlways:
		return Evaluation{Available: true, Kind: KindAlways, Status: "Always Available"}
	case KindSpecific, KindUnpredictable, KindMostlyFree:
		return evaluateRange(set.Kind, set.Range, localMinute)
	case KindWeekSplit:
		branch := set.Weekday
		if IsWeekend(day) {
			branch = set.Weekend
		}
		if branch == nil {
			return Evaluation{Kind: KindNotAvailable, Status: "Day type availability not set"}
		}
		return evaluateLeaf(*branch, localMinute)
	case KindCustomDays:
		rule := set.Daily[DayIndex(day)]
		if rule == nil {
			return Evaluation{Kind: KindNotAvailable, Status: "Daily availability not set"}
		}
		return evaluateLeaf(*rule, localMinute)
	default:
		return Evaluation{Kind: KindNotAvailable, Status: "N/A"}
	}
}

func evaluateLeaf(rule Rule, localMinute int) Evaluation {
	switch rule.Kind {
	case KindAlways:
		return Evaluation{Available: true, Kind: KindAlways, Status: "Always Available"}
	case KindSpecific, KindUnpredictable, KindMostlyFree:
		return evaluateRange(rule.Kind, rule.Range, localMinute)
	default:
		return Evaluation{Kind: KindNotAvailable, Status: "N/A"}
	}
}

// statusPrefix qualifies range-rule status text by how firm the hours are.
func statusPrefix(kind Kind) string {
	switch kind {
	case KindUnpredictable:
		return "Potentially "
	case KindMostlyFree:
		return "Mostly "
	default:
		return ""
	}
}

func evaluateRange(kind Kind, rng *ClockRange, localMinute int) Evaluation {
	if rng == nil {
		return Evaluation{Kind: kind, Status: kind.Label() + " (No range set)"}
	}

	if rng.Contains(localMinute) {
		remaining := timeutil.RemainingInRange(localMinute, rng.Start, rng.End)
		return Evaluation{
			Available: true,
			Kind:      kind,
			Status:    statusPrefix(kind) + "Available for " + timeutil.FormatDuration(remaining),
		}
	}

	if until, ok := timeutil.UntilNextStart(localMinute, rng.Start, rng.End); ok {
		return Evaluation{
			Kind:   kind,
			Status: statusPrefix(kind) + "Available in " + timeutil.FormatDuration(until),
		}
	}
	return Evaluation{Kind: kind, Status: "N/A"}
}

// EverAvailable reports whether a rule set can structurally yield
// availability at any minute of any day. Range kinds count as long as a
// range is configured; split and per-day sets count when any branch does.
func EverAvailable(set RuleSet) bool {
	switch set.Kind {
	case KindAlways:
		return true
	case KindSpecific, KindUnpredictable, KindMostlyFree:
		return set.Range != nil
	case KindWeekSplit:
		return leafEverAvailable(set.Weekday) || leafEverAvailable(set.Weekend)
	case KindCustomDays:
		for _, rule := range set.Daily {
			if leafEverAvailable(rule) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func leafEverAvailable(rule *Rule) bool {
	if rule == nil {
		return false
	}
	switch rule.Kind {
	case KindAlways:
		return true
	case KindSpecific, KindUnpredictable, KindMostlyFree:
		return rule.Range != nil
	default:
		return false
	}
}
