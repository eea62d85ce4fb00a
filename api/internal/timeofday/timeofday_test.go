package timeofday

import (
	"errors"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Time
	}{
		{"9:30 AM", 34200},
		{"09:30 am", 34200},
		{"09:30 AM", 34200},
		{"14:05", 50700},
		{"2:30 pm", 52200},
		{"12:00 PM", 43200},
		{"12:15 AM", 900},
		{"9.30 AM", 34200},
		{"2.30 PM", 52200},
		{" 9:30 AM ", 34200},
		{"00:00", 0},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("Parse(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "noon", "25:00", "13:00 PM", "9:30AM-ish"} {
		_, err := Parse(in)
		if err == nil {
			t.Errorf("Parse(%q) expected error", in)
			continue
		}
		if !errors.Is(err, ErrParse) {
			t.Errorf("Parse(%q) error %v is not ErrParse", in, err)
		}
		var pe *ParseError
		if !errors.As(err, &pe) || pe.Value != in {
			t.Errorf("Parse(%q) error does not carry the input", in)
		}
	}
}

func TestOf(t *testing.T) {
	now := time.Date(2026, 10, 19, 10, 0, 1, 0, time.UTC)
	if got := Of(now); got != Clock(10, 0, 1) {
		t.Fatalf("Of = %v, want 10:00:01", got)
	}
	if got := Clock(10, 0, 1).String(); got != "10:00:01" {
		t.Fatalf("String = %q", got)
	}
}

func TestIsCurrent_Inclusive(t *testing.T) {
	start, end := "9:00 AM", "10:00 AM"
	cases := []struct {
		now  Time
		want bool
	}{
		{Clock(8, 59, 59), false},
		{Clock(9, 0, 0), true},
		{Clock(9, 30, 0), true},
		{Clock(10, 0, 0), true},
		{Clock(10, 0, 1), false},
	}
	for _, c := range cases {
		if got := IsCurrent(start, end, c.now); got != c.want {
			t.Errorf("IsCurrent(now=%v) = %v, want %v", c.now, got, c.want)
		}
	}
}

func TestIsUpcoming(t *testing.T) {
	if !IsUpcoming("9:00 AM", Clock(8, 59, 59)) {
		t.Error("8:59:59 should be before 9:00")
	}
	if IsUpcoming("9:00 AM", Clock(9, 0, 0)) {
		t.Error("9:00 is not upcoming for a 9:00 start")
	}
}

func TestCurrentAndUpcomingExclusive(t *testing.T) {
	entries := [][2]string{
		{"9:00 AM", "10:00 AM"},
		{"13:00", "14:30"},
		{"11:00 PM", "1:00 AM"},
	}
	for _, e := range entries {
		for s := 0; s < 24*3600; s += 60 {
			now := Time(s)
			if IsCurrent(e[0], e[1], now) && IsUpcoming(e[0], now) {
				t.Fatalf("%v both current and upcoming at %v", e, now)
			}
		}
	}
}

func TestPredicates_UnparseableIsFalse(t *testing.T) {
	now := Clock(9, 30, 0)
	if IsCurrent("whenever", "10:00 AM", now) {
		t.Error("bad start must not be current")
	}
	if IsCurrent("9:00 AM", "later", now) {
		t.Error("bad end must not be current")
	}
	if IsUpcoming("soon", Clock(0, 0, 0)) {
		t.Error("bad start must not be upcoming")
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		now  Time
		want Status
	}{
		{Clock(8, 0, 0), Upcoming},
		{Clock(9, 0, 0), Current},
		{Clock(11, 0, 0), Past},
	}
	for _, c := range cases {
		got, err := Classify("9:00 AM", "10:00 AM", c.now)
		if err != nil {
			t.Fatalf("Classify: %v", err)
		}
		if got != c.want {
			t.Errorf("Classify(now=%v) = %s, want %s", c.now, got, c.want)
		}
	}

	got, err := Classify("9:00 AM", "??", Clock(9, 30, 0))
	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	if got != Past {
		t.Errorf("failed classification should default to past, got %s", got)
	}
}

// A class crossing midnight is never current under plain comparison.
func TestClassify_EndBeforeStart(t *testing.T) {
	if IsCurrent("11:00 PM", "1:00 AM", Clock(23, 30, 0)) {
		t.Error("end < start should not be treated as wrapping midnight")
	}
}
