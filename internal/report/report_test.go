package report

import (
	"testing"
	"time"

	"github.com/example/overlap-planner/internal/availability"
	"github.com/example/overlap-planner/internal/planner"
	"github.com/example/overlap-planner/internal/roster"
	"github.com/example/overlap-planner/internal/timeutil"
)

var mondayUTC = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func specificPerson(username string, offset int, start, end string) roster.Person {
	return roster.Person{
		Username:  username,
		UTCOffset: offset,
		Rules: availability.RuleSet{
			Kind: availability.KindSpecific,
			Range: &availability.ClockRange{
				Start: timeutil.ParseClock(start),
				End:   timeutil.ParseClock(end),
			},
		},
	}
}

func TestRenderWindow(t *testing.T) {

	t.Run("utc rendering uses exclusive end", func(t *testing.T) {
		window := planner.Window{
			Count:  2,
			Range:  planner.WindowRange{Start: timeutil.ParseClock("09:00"), End: timeutil.ParseClock("16:59")},
			Length: 8 * 60,
		}
		rendered := RenderWindow(window, Viewer{})
		if rendered.Start != "09:00" || rendered.End != "17:00" {
			t.Fatalf("rendered %q-%q, want 09:00-17:00", rendered.Start, rendered.End)
		}
		if rendered.Timezone != "UTC" {
			t.Fatalf("timezone = %q, want UTC", rendered.Timezone)
		}
		if rendered.Length != "8h" {
			t.Fatalf("length = %q, want 8h", rendered.Length)
		}
	})

	t.Run("viewer local clock shifts and wraps", func(t *testing.T) {
		window := planner.Window{
			Count:  1,
			Range:  planner.WindowRange{Start: timeutil.ParseClock("22:00"), End: timeutil.ParseClock("23:59")},
			Length: 2 * 60,
		}
		viewer := Viewer{UTCOffset: 5, LocalTimes: true}
		rendered := RenderWindow(window, viewer)
		if rendered.Start != "03:00" || rendered.End != "05:00" {
			t.Fatalf("rendered %q-%q, want 03:00-05:00", rendered.Start, rendered.End)
		}
		if rendered.Timezone != "UTC+5" {
			t.Fatalf("timezone = %q, want UTC+5", rendered.Timezone)
		}
	})

	t.Run("dst adds an hour to the viewer offset", func(t *testing.T) {
		window := planner.Window{Range: planner.WindowRange{Start: 0, End: 59}, Length: 60}
		viewer := Viewer{UTCOffset: -3, DST: true, LocalTimes: true}
		rendered := RenderWindow(window, viewer)
		if rendered.Start != "22:00" {
			t.Fatalf("start = %q, want 22:00", rendered.Start)
		}
		if rendered.Timezone != "UTC-2" {
			t.Fatalf("timezone = %q, want UTC-2", rendered.Timezone)
		}
	})

	t.Run("local times off ignores the viewer offset", func(t *testing.T) {
		window := planner.Window{Range: planner.WindowRange{Start: 600, End: 659}, Length: 60}
		rendered := RenderWindow(window, Viewer{UTCOffset: 9})
		if rendered.Start != "10:00" {
			t.Fatalf("start = %q, want 10:00", rendered.Start)
		}
	})

	t.Run("empty sentinel renders as not applicable", func(t *testing.T) {
		rendered := RenderWindow(planner.Window{Range: planner.EmptyRange}, Viewer{})
		if rendered.Start != "N/A" || rendered.End != "N/A" {
			t.Fatalf("rendered %q-%q, want N/A-N/A", rendered.Start, rendered.End)
		}
		if rendered.Length != "0m" {
			t.Fatalf("length = %q, want 0m", rendered.Length)
		}
	})
}

func TestPersonStatuses(t *testing.T) {
	people := []roster.Person{
		specificPerson("zoe", 0, "09:00", "17:00"),
		{Username: "ayla", Rules: availability.RuleSet{Kind: availability.KindAlways}},
		{Username: "nix", TimezoneUnset: true},
	}
	noon := timeutil.ParseClock("12:00")

	t.Run("best view sorts alphabetically", func(t *testing.T) {
		statuses := PersonStatuses(people, mondayUTC, noon, false)
		if len(statuses) != 3 {
			t.Fatalf("expected 3 statuses, got %d", len(statuses))
		}
		order := []string{"ayla", "nix", "zoe"}
		for i, want := range order {
			if statuses[i].Username != want {
				t.Fatalf("position %d = %q, want %q", i, statuses[i].Username, want)
			}
		}
	})

	t.Run("worst view lists offline first", func(t *testing.T) {
		statuses := PersonStatuses(people, mondayUTC, timeutil.ParseClock("20:00"), true)
		// zoe and nix are offline at 20:00, ayla remains online.
		if statuses[len(statuses)-1].Username != "ayla" {
			t.Fatalf("expected ayla last, got %q", statuses[len(statuses)-1].Username)
		}
		if statuses[0].Available || statuses[1].Available {
			t.Fatal("expected offline people first")
		}
		if statuses[0].Username != "nix" || statuses[1].Username != "zoe" {
			t.Fatalf("offline group not alphabetical: %q, %q", statuses[0].Username, statuses[1].Username)
		}
	})

	t.Run("timezone unset has a dedicated status", func(t *testing.T) {
		statuses := PersonStatuses(people, mondayUTC, noon, false)
		for _, status := range statuses {
			if status.Username == "nix" {
				if status.Status != "Timezone not set" {
					t.Fatalf("status = %q, want Timezone not set", status.Status)
				}
				if status.Available {
					t.Fatal("timezone-unset person must read unavailable")
				}
				return
			}
		}
		t.Fatal("nix not found")
	})

	t.Run("status text reflects remaining time", func(t *testing.T) {
		statuses := PersonStatuses(people, mondayUTC, noon, false)
		for _, status := range statuses {
			if status.Username == "zoe" {
				if status.Status != "Available for 5h" {
					t.Fatalf("status = %q, want Available for 5h", status.Status)
				}
				return
			}
		}
		t.Fatal("zoe not found")
	})
}

func TestPinnedOnlineFallback(t *testing.T) {

	t.Run("restricts the scan to pinned people", func(t *testing.T) {
		people := []roster.Person{
			specificPerson("ayla", 0, "09:00", "17:00"),
			specificPerson("bram", 0, "20:00", "22:00"),
		}
		constraints := roster.ConstraintMap{"ayla": roster.PinOnline}

		window, ok := PinnedOnlineFallback(people, constraints, mondayUTC)
		if !ok {
			t.Fatal("expected a fallback window")
		}
		if window.Count != 1 {
			t.Fatalf("count = %d, want 1", window.Count)
		}
		if window.Range.Start != timeutil.ParseClock("09:00") {
			t.Fatalf("start = %d, want 09:00", window.Range.Start)
		}
	})

	t.Run("no pinned people yields nothing", func(t *testing.T) {
		people := []roster.Person{specificPerson("ayla", 0, "09:00", "17:00")}
		if _, ok := PinnedOnlineFallback(people, nil, mondayUTC); ok {
			t.Fatal("expected no fallback without pins")
		}
	})

	t.Run("pinned but never available yields nothing", func(t *testing.T) {
		people := []roster.Person{{Username: "ghost", Rules: availability.RuleSet{Kind: availability.KindNotAvailable}}}
		constraints := roster.ConstraintMap{"ghost": roster.PinOnline}
		if _, ok := PinnedOnlineFallback(people, constraints, mondayUTC); ok {
			t.Fatal("expected no fallback for a never-available pin")
		}
	})
}
