package timeutil

import "testing"

func TestParseClock(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  int
	}{
		{name: "midnight", input: "00:00", want: 0},
		{name: "morning", input: "09:30", want: 570},
		{name: "last minute", input: "23:59", want: 1439},
		{name: "hour out of range", input: "24:00", want: InvalidMinute},
		{name: "minute out of range", input: "12:60", want: InvalidMinute},
		{name: "negative hour", input: "-1:30", want: InvalidMinute},
		{name: "missing separator", input: "1230", want: InvalidMinute},
		{name: "extra component", input: "12:30:00", want: InvalidMinute},
		{name: "empty", input: "", want: InvalidMinute},
		{name: "garbage", input: "ab:cd", want: InvalidMinute},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseClock(tc.input); got != tc.want {
				t.Fatalf("ParseClock(%q) = %d, want %d", tc.input, got, tc.want)
			}
		})
	}
}

func TestInRange(t *testing.T) {
	t.Run("plain range is half open", func(t *testing.T) {
		start, end := ParseClock("09:00"), ParseClock("17:00")
		if !InRange(start, start, end) {
			t.Fatal("expected start minute to be in range")
		}
		if InRange(end, start, end) {
			t.Fatal("expected end minute to be excluded")
		}
		if InRange(start-1, start, end) {
			t.Fatal("expected minute before start to be excluded")
		}
	})

	t.Run("wraparound range crosses midnight", func(t *testing.T) {
		start, end := ParseClock("23:00"), ParseClock("02:00")
		for _, minute := range []int{ParseClock("23:00"), ParseClock("23:59"), 0, ParseClock("01:59")} {
			if !InRange(minute, start, end) {
				t.Fatalf("expected minute %d to be inside the wraparound range", minute)
			}
		}
		for _, minute := range []int{ParseClock("02:00"), ParseClock("12:00"), ParseClock("22:59")} {
			if InRange(minute, start, end) {
				t.Fatalf("expected minute %d to be outside the wraparound range", minute)
			}
		}
	})

	t.Run("start equals end never matches", func(t *testing.T) {
		at := ParseClock("10:00")
		for minute := 0; minute < MinutesPerDay; minute += 60 {
			if InRange(minute, at, at) {
				t.Fatalf("expected zero-length range to exclude minute %d", minute)
			}
		}
	})

	t.Run("invalid bounds never match", func(t *testing.T) {
		if InRange(100, InvalidMinute, 200) {
			t.Fatal("expected invalid start to exclude everything")
		}
		if InRange(100, 50, InvalidMinute) {
			t.Fatal("expected invalid end to exclude everything")
		}
		if InRange(InvalidMinute, 0, MinutesPerDay-1) {
			t.Fatal("expected invalid minute to be out of range")
		}
	})
}

func TestUntilNextStart(t *testing.T) {
	t.Run("same day distance", func(t *testing.T) {
		got, ok := UntilNextStart(ParseClock("08:00"), ParseClock("09:00"), ParseClock("17:00"))
		if !ok || got != 60 {
			t.Fatalf("UntilNextStart = %d, %v; want 60, true", got, ok)
		}
	})

	t.Run("wraps through midnight", func(t *testing.T) {
		got, ok := UntilNextStart(ParseClock("18:00"), ParseClock("09:00"), ParseClock("17:00"))
		if !ok || got != 15*60 {
			t.Fatalf("UntilNextStart = %d, %v; want %d, true", got, ok, 15*60)
		}
	})

	t.Run("invalid bounds report failure", func(t *testing.T) {
		if _, ok := UntilNextStart(100, InvalidMinute, 200); ok {
			t.Fatal("expected failure for invalid start")
		}
	})
}

func TestRemainingInRange(t *testing.T) {
	t.Run("plain range", func(t *testing.T) {
		if got := RemainingInRange(ParseClock("16:00"), ParseClock("09:00"), ParseClock("17:00")); got != 60 {
			t.Fatalf("RemainingInRange = %d, want 60", got)
		}
	})

	t.Run("wraparound before midnight", func(t *testing.T) {
		got := RemainingInRange(ParseClock("23:30"), ParseClock("23:00"), ParseClock("02:00"))
		if got != 150 {
			t.Fatalf("RemainingInRange = %d, want 150", got)
		}
	})

	t.Run("wraparound after midnight", func(t *testing.T) {
		got := RemainingInRange(ParseClock("01:00"), ParseClock("23:00"), ParseClock("02:00"))
		if got != 60 {
			t.Fatalf("RemainingInRange = %d, want 60", got)
		}
	})
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		minutes int
		want    string
	}{
		{minutes: 0, want: "0m"},
		{minutes: 45, want: "45m"},
		{minutes: 60, want: "1h"},
		{minutes: 90, want: "1h30m"},
		{minutes: 1440, want: "24h"},
		{minutes: -1, want: "N/A"},
	}

	for _, tc := range cases {
		if got := FormatDuration(tc.minutes); got != tc.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tc.minutes, got, tc.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	cases := []struct {
		minute int
		want   string
	}{
		{minute: 0, want: "00:00"},
		{minute: 570, want: "09:30"},
		{minute: 1439, want: "23:59"},
		{minute: 1440, want: "00:00"},
		{minute: InvalidMinute, want: "N/A"},
	}

	for _, tc := range cases {
		if got := FormatClock(tc.minute); got != tc.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tc.minute, got, tc.want)
		}
	}
}

func TestWrapMinute(t *testing.T) {
	cases := []struct {
		minute int
		want   int
	}{
		{minute: 0, want: 0},
		{minute: 1440, want: 0},
		{minute: 1500, want: 60},
		{minute: -60, want: 1380},
		{minute: -1440, want: 0},
	}

	for _, tc := range cases {
		if got := WrapMinute(tc.minute); got != tc.want {
			t.Errorf("WrapMinute(%d) = %d, want %d", tc.minute, got, tc.want)
		}
	}
}
