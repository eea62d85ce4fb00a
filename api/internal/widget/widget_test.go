package widget

import (
	"context"
	"strings"
	"testing"
	"time"

	"ai-timetable/api/internal/timeofday"
	"ai-timetable/api/internal/timetable"
)

type loaderFunc func() *timetable.Data

func (f loaderFunc) Load(context.Context) *timetable.Data { return f() }

func week() *timetable.Data {
	return &timetable.Data{Days: []timetable.DaySchedule{
		{Day: "mon", Classes: []timetable.ClassEntry{
			{Subject: "Math", StartTime: "9:00 AM", EndTime: "10:00 AM", Room: timetable.Str("A1")},
			{Subject: "Physics", StartTime: "11:00 AM", EndTime: "12:00 PM"},
			{Subject: "Broken", StartTime: "soon", EndTime: "later"},
		}},
		{Day: "TUE", Classes: []timetable.ClassEntry{}},
	}}
}

// 2024-01-01 was a Monday.
var monday = time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

func TestClassesForToday(t *testing.T) {
	ctx := context.Background()
	if got := ClassesForToday(ctx, loaderFunc(week), monday); len(got) != 3 {
		t.Fatalf("monday: %d classes", len(got))
	}
	if got := ClassesForToday(ctx, loaderFunc(week), monday.AddDate(0, 0, 1)); len(got) != 0 {
		t.Fatalf("tuesday: %d classes", len(got))
	}
	if got := ClassesForToday(ctx, loaderFunc(week), monday.AddDate(0, 0, 2)); got != nil {
		t.Fatalf("wednesday is absent: %v", got)
	}
	none := loaderFunc(func() *timetable.Data { return nil })
	if got := ClassesForToday(ctx, none, monday); got != nil {
		t.Fatalf("no timetable: %v", got)
	}
}

func TestSummary(t *testing.T) {
	s := Summary(context.Background(), loaderFunc(week), monday)
	if s.Day != "MON" {
		t.Fatalf("day = %s", s.Day)
	}
	want := []timeofday.Status{timeofday.Current, timeofday.Upcoming, timeofday.Past}
	for i, c := range s.Classes {
		if c.Status != want[i] {
			t.Errorf("%s: %s, want %s", c.Subject, c.Status, want[i])
		}
	}

	text := s.Text()
	if !strings.Contains(text, "▶ 9:00 AM - 10:00 AM  Math (A1)") {
		t.Errorf("text:\n%s", text)
	}
	if !strings.Contains(text, "• 11:00 AM - 12:00 PM  Physics") {
		t.Errorf("text:\n%s", text)
	}
}

func TestSummary_Empty(t *testing.T) {
	none := loaderFunc(func() *timetable.Data { return nil })
	s := Summary(context.Background(), none, monday)
	if len(s.Classes) != 0 || !strings.HasSuffix(s.Text(), "No classes today") {
		t.Fatalf("summary = %+v", s)
	}
}
