package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"ai-timetable/api/internal/timeofday"
	"ai-timetable/api/internal/timetable"
)

var uidSpace = uuid.MustParse("6f1d6a8e-3c52-4b8e-9a55-1f0f6c1f2d7e")

var byDay = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

// ICS renders the timetable as a calendar with one weekly event per class,
// starting with the first occurrence on or after from. Classes with an
// unknown day code or times that don't parse are left out.
func ICS(d timetable.Data, from time.Time, loc *time.Location) ([]byte, error) {
	if loc == nil {
		loc = time.Local
	}
	from = from.In(loc)
	midnight := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//ai-timetable//timetable export//EN")
	cal.SetName("Timetable")

	for _, day := range d.Days {
		wd, ok := timetable.Weekday(day.Day)
		if !ok {
			continue
		}
		for _, c := range day.Classes {
			start, err := timeofday.Parse(c.StartTime)
			if err != nil {
				continue
			}
			end, err := timeofday.Parse(c.EndTime)
			if err != nil || end <= start {
				continue
			}

			opt := rrule.ROption{
				Freq:      rrule.WEEKLY,
				Dtstart:   midnight.Add(time.Duration(start) * time.Second),
				Byweekday: []rrule.Weekday{byDay[wd]},
			}
			r, err := rrule.NewRRule(opt)
			if err != nil {
				return nil, fmt.Errorf("rrule for %s %s: %w", day.Day, c.Subject, err)
			}
			first := r.After(midnight, true)
			if first.IsZero() {
				continue
			}

			key := fmt.Sprintf("%s|%s|%s|%s", timetable.DayCode(wd), c.StartTime, c.EndTime, c.Subject)
			ev := cal.AddEvent(uuid.NewSHA1(uidSpace, []byte(key)).String() + "@ai-timetable")
			ev.SetDtStampTime(from)
			ev.SetSummary(c.Subject)
			ev.SetStartAt(first)
			ev.SetEndAt(first.Add(time.Duration(end-start) * time.Second))
			if c.Room != nil && *c.Room != "" {
				ev.SetLocation(*c.Room)
			}
			if c.Professor != nil && *c.Professor != "" {
				ev.SetDescription(*c.Professor)
			}
			ev.AddProperty(ics.ComponentPropertyRrule, opt.RRuleString())
		}
	}
	return []byte(cal.Serialize()), nil
}
