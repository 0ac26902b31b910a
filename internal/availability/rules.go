// Package availability models per-person availability rules and evaluates
// them at a local minute of day.
//
// A rule set is one of three shapes: a uniform rule for every day, a
// weekday/weekend split, or one rule per weekday. All three funnel through a
// single Evaluate dispatch so that new kinds cannot be silently skipped.
package availability

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/example/overlap-planner/internal/timeutil"
)

// Kind identifies a rule variant.
type Kind int

const (
	// KindNotAvailable marks a person as never available.
	KindNotAvailable Kind = iota
	// KindAlways marks a person as always available.
	KindAlways
	// KindSpecific is a range rule with firm hours.
	KindSpecific
	// KindUnpredictable is a range rule with uncertain hours.
	KindUnpredictable
	// KindMostlyFree is a range rule for people free most of the day.
	KindMostlyFree
	// KindWeekSplit selects between a weekday and a weekend sub-rule.
	KindWeekSplit
	// KindCustomDays carries one sub-rule per weekday.
	KindCustomDays
)

// IsRangeKind reports whether the kind carries an optional clock range.
func (k Kind) IsRangeKind() bool {
	return k == KindSpecific || k == KindUnpredictable || k == KindMostlyFree
}

// Label returns the display name used in status text.
func (k Kind) Label() string {
	switch k {
	case KindNotAvailable:
		return "N/A"
	case KindAlways:
		return "Always"
	case KindSpecific:
		return "Specific"
	case KindUnpredictable:
		return "Unpredictable"
	case KindMostlyFree:
		return "Mostly Free"
	case KindWeekSplit:
		return "Weekdays/Weekends"
	case KindCustomDays:
		return "Custom Days"
	default:
		return "Unknown"
	}
}

// ClockRange is a half-open [Start, End) interval in minutes of local day.
// Start > End denotes an interval crossing midnight. Either bound may be the
// invalid-minute sentinel, in which case the range matches nothing.
type ClockRange struct {
	Start int
	End   int
}

// Contains reports whether the local minute falls inside the range.
func (r ClockRange) Contains(minute int) bool {
	return timeutil.InRange(minute, r.Start, r.End)
}

// String renders the range in the "HH:MM-HH:MM" wire form.
func (r ClockRange) String() string {
	return timeutil.FormatClock(r.Start) + "-" + timeutil.FormatClock(r.End)
}

// Rule is a leaf rule: not-available, always, or one of the range kinds with
// an optional range. A range kind without a range evaluates to never
// available ("no range set").
type Rule struct {
	Kind  Kind
	Range *ClockRange
}

// RuleSet is the tagged union of the three rule shapes. Exactly the fields
// implied by Kind are meaningful; the rest stay zero.
type RuleSet struct {
	Kind  Kind
	Range *ClockRange

	// Weekday and Weekend apply for KindWeekSplit. A nil branch means the
	// day type has not been configured.
	Weekday *Rule
	Weekend *Rule

	// Daily applies for KindCustomDays, indexed 0=Monday .. 6=Sunday. A nil
	// entry means the day has not been configured.
	Daily [7]*Rule
}

// DayIndex maps a time.Weekday onto the Monday-first index used by Daily.
func DayIndex(day time.Weekday) int {
	return (int(day) + 6) % 7
}

// IsWeekend reports whether the weekday belongs to the weekend branch of a
// split rule.
func IsWeekend(day time.Weekday) bool {
	return day == time.Saturday || day == time.Sunday
}

const (
	typeNotAvailable  = "n/a"
	typeAlways        = "always"
	typeSpecific      = "specific"
	typeUnpredictable = "unpredictable"
	typeMostlyFree    = "mostlyFree"
	typeWeekSplit     = "weekendWeekdays"
	typeCustomDays    = "customDays"
)

func kindFromType(value string) (Kind, error) {
	switch value {
	case typeNotAvailable, "":
		return KindNotAvailable, nil
	case typeAlways:
		return KindAlways, nil
	case typeSpecific:
		return KindSpecific, nil
	case typeUnpredictable:
		return KindUnpredictable, nil
	case typeMostlyFree:
		return KindMostlyFree, nil
	case typeWeekSplit:
		return KindWeekSplit, nil
	case typeCustomDays:
		return KindCustomDays, nil
	default:
		return KindNotAvailable, fmt.Errorf("availability: unknown rule type %q", value)
	}
}

func typeFromKind(kind Kind) string {
	switch kind {
	case KindAlways:
		return typeAlways
	case KindSpecific:
		return typeSpecific
	case KindUnpredictable:
		return typeUnpredictable
	case KindMostlyFree:
		return typeMostlyFree
	case KindWeekSplit:
		return typeWeekSplit
	case KindCustomDays:
		return typeCustomDays
	default:
		return typeNotAvailable
	}
}

// parseRangeValue converts "HH:MM-HH:MM" into a ClockRange. Malformed clock
// components become the invalid-minute sentinel so the range simply never
// matches, mirroring how the evaluator treats unparseable times.
func parseRangeValue(value string) *ClockRange {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	parts := strings.SplitN(trimmed, "-", 2)
	if len(parts) != 2 {
		return &ClockRange{Start: timeutil.InvalidMinute, End: timeutil.InvalidMinute}
	}
	return &ClockRange{
		Start: timeutil.ParseClock(strings.TrimSpace(parts[0])),
		End:   timeutil.ParseClock(strings.TrimSpace(parts[1])),
	}
}

type rulePayload struct {
	Type        string         `json:"type"`
	Value       string         `json:"value,omitempty"`
	Weekdays    *rulePayload   `json:"weekdays,omitempty"`
	Weekends    *rulePayload   `json:"weekends,omitempty"`
	DailyRanges []*rulePayload `json:"dailyRanges,omitempty"`
}

func leafFromPayload(payload *rulePayload) (*Rule, error) {
	if payload == nil {
		return nil, nil
	}
	kind, err := kindFromType(payload.Type)
	if err != nil {
		return nil, err
	}
	rule := &Rule{Kind: kind}
	if kind.IsRangeKind() {
		rule.Range = parseRangeValue(payload.Value)
	}
	return rule, nil
}

func leafToPayload(rule *Rule) *rulePayload {
	if rule == nil {
		return nil
	}
	payload := &rulePayload{Type: typeFromKind(rule.Kind)}
	if rule.Kind.IsRangeKind() && rule.Range != nil {
		payload.Value = rule.Range.String()
	}
	return payload
}

// UnmarshalJSON decodes the RuleSetJSON wire shape.
func (s *RuleSet) UnmarshalJSON(data []byte) error {
	var payload rulePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}

	kind, err := kindFromType(payload.Type)
	if err != nil {
		return err
	}

	decoded := RuleSet{Kind: kind}
	switch {
	case kind.IsRangeKind():
		decoded.Range = parseRangeValue(payload.Value)
	case kind == KindWeekSplit:
		if decoded.Weekday, err = leafFromPayload(payload.Weekdays); err != nil {
			return err
		}
		if decoded.Weekend, err = leafFromPayload(payload.Weekends); err != nil {
			return err
		}
	case kind == KindCustomDays:
		if len(payload.DailyRanges) > len(decoded.Daily) {
			return fmt.Errorf("availability: expected at most 7 daily rules, got %d", len(payload.DailyRanges))
		}
		for i, daily := range payload.DailyRanges {
			if decoded.Daily[i], err = leafFromPayload(daily); err != nil {
				return err
			}
		}
	}

	*s = decoded
	return nil
}

// MarshalJSON encodes the rule set back into the wire shape.
func (s RuleSet) MarshalJSON() ([]byte, error) {
	payload := rulePayload{Type: typeFromKind(s.Kind)}
	switch {
	case s.Kind.IsRangeKind():
		if s.Range != nil {
			payload.Value = s.Range.String()
		}
	case s.Kind == KindWeekSplit:
		payload.Weekdays = leafToPayload(s.Weekday)
		payload.Weekends = leafToPayload(s.Weekend)
	case s.Kind == KindCustomDays:
		daily := make([]*rulePayload, 0, len(s.Daily))
		configured := false
		for _, rule := range s.Daily {
			entry := leafToPayload(rule)
			if entry == nil {
				entry = &rulePayload{Type: typeNotAvailable}
			} else {
				configured = true
			}
			daily = append(daily, entry)
		}
		if configured {
			payload.DailyRanges = daily
		}
	}
	return json.Marshal(payload)
}
