package widget

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-timetable/api/internal/timeofday"
	"ai-timetable/api/internal/timetable"
)

// Loader reads the persisted timetable; *store.Store satisfies it.
type Loader interface {
	Load(ctx context.Context) *timetable.Data
}

// ClassesForToday returns the classes of now's weekday from the persisted
// timetable. No timetable, no matching day or a corrupt record all give an
// empty list.
func ClassesForToday(ctx context.Context, l Loader, now time.Time) []timetable.ClassEntry {
	d := l.Load(ctx)
	if d == nil {
		return nil
	}
	day, ok := d.Day(timetable.DayCode(now.Weekday()))
	if !ok {
		return nil
	}
	return day.Classes
}

type Class struct {
	timetable.ClassEntry `yaml:",inline"`
	Status               timeofday.Status `json:"status" yaml:"status"`
}

// Today is the widget view: the day code and each class with its status.
type Today struct {
	Day     string  `json:"day" yaml:"day"`
	Classes []Class `json:"classes" yaml:"classes"`
}

// Summary classifies today's classes against the time of day of now.
// Unparseable times count as past.
func Summary(ctx context.Context, l Loader, now time.Time) Today {
	t := Today{Day: timetable.DayCode(now.Weekday()), Classes: []Class{}}
	tod := timeofday.Of(now)
	for _, c := range ClassesForToday(ctx, l, now) {
		st, err := timeofday.Classify(c.StartTime, c.EndTime, tod)
		if err != nil {
			st = timeofday.Past
		}
		t.Classes = append(t.Classes, Class{ClassEntry: c, Status: st})
	}
	return t
}

// Text renders the summary as plain text for chat and terminal output.
func (t Today) Text() string {
	var b strings.Builder
	b.WriteString("Today's Classes (" + t.Day + ")\n")
	if len(t.Classes) == 0 {
		b.WriteString("No classes today")
		return b.String()
	}
	for _, c := range t.Classes {
		mark := "  "
		switch c.Status {
		case timeofday.Current:
			mark = "▶ "
		case timeofday.Upcoming:
			mark = "• "
		}
		fmt.Fprintf(&b, "%s%s - %s  %s", mark, c.StartTime, c.EndTime, c.Subject)
		if c.Room != nil && *c.Room != "" {
			fmt.Fprintf(&b, " (%s)", *c.Room)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
