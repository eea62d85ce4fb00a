package timetable

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ClassEntry is one scheduled session. Times are kept as display strings
// ("9:30 AM") and parsed only when read.
type ClassEntry struct {
	Subject   string  `json:"subject" yaml:"subject"`
	StartTime string  `json:"startTime" yaml:"startTime"`
	EndTime   string  `json:"endTime" yaml:"endTime"`
	Room      *string `json:"room,omitempty" yaml:"room,omitempty"`
	Professor *string `json:"professor,omitempty" yaml:"professor,omitempty"`
}

// DaySchedule holds the classes of one day code ("MON").
type DaySchedule struct {
	Day     string       `json:"day" yaml:"day"`
	Classes []ClassEntry `json:"classes" yaml:"classes"`
}

// Data is the whole weekly timetable; the single persisted document.
type Data struct {
	Days []DaySchedule `json:"days" yaml:"days"`
}

var ErrInvalid = errors.New("invalid timetable")

// Validate checks what the extraction step relies on: a days list and a
// subject on every entry. Times, overlaps and day codes are not checked.
func (d *Data) Validate() error {
	if d.Days == nil {
		return fmt.Errorf("%w: missing days", ErrInvalid)
	}
	for i, day := range d.Days {
		for j, c := range day.Classes {
			if strings.TrimSpace(c.Subject) == "" {
				return fmt.Errorf("%w: day %d (%s) class %d has no subject", ErrInvalid, i, day.Day, j)
			}
		}
	}
	return nil
}

// Clone returns a deep copy.
func (d Data) Clone() Data {
	if d.Days == nil {
		return Data{}
	}
	out := Data{Days: make([]DaySchedule, len(d.Days))}
	for i, day := range d.Days {
		out.Days[i] = day.clone()
	}
	return out
}

func (ds DaySchedule) clone() DaySchedule {
	out := DaySchedule{Day: ds.Day}
	if ds.Classes != nil {
		out.Classes = make([]ClassEntry, len(ds.Classes))
		for i, c := range ds.Classes {
			out.Classes[i] = c.clone()
		}
	}
	return out
}

func (c ClassEntry) clone() ClassEntry {
	out := c
	out.Room = copyStr(c.Room)
	out.Professor = copyStr(c.Professor)
	return out
}

func copyStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Equal compares entries field by field, optional fields by value.
func (c ClassEntry) Equal(o ClassEntry) bool {
	return c.Subject == o.Subject &&
		c.StartTime == o.StartTime &&
		c.EndTime == o.EndTime &&
		eqStr(c.Room, o.Room) &&
		eqStr(c.Professor, o.Professor)
}

func eqStr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (ds DaySchedule) Equal(o DaySchedule) bool {
	if ds.Day != o.Day || len(ds.Classes) != len(o.Classes) {
		return false
	}
	for i := range ds.Classes {
		if !ds.Classes[i].Equal(o.Classes[i]) {
			return false
		}
	}
	return true
}

func (d Data) Equal(o Data) bool {
	if len(d.Days) != len(o.Days) {
		return false
	}
	for i := range d.Days {
		if !d.Days[i].Equal(o.Days[i]) {
			return false
		}
	}
	return true
}

// Day finds a day by code, ignoring case.
func (d Data) Day(code string) (DaySchedule, bool) {
	for _, day := range d.Days {
		if strings.EqualFold(strings.TrimSpace(day.Day), code) {
			return day, true
		}
	}
	return DaySchedule{}, false
}

var dayCodes = [...]string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}

// DayCode returns the short English code of a weekday, e.g. "MON".
func DayCode(w time.Weekday) string { return dayCodes[w] }

// Weekday maps a day code back to a weekday, ignoring case. Longer names
// ("Monday") are accepted by their first three letters.
func Weekday(code string) (time.Weekday, bool) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if len(c) > 3 {
		c = c[:3]
	}
	for i, dc := range dayCodes {
		if dc == c {
			return time.Weekday(i), true
		}
	}
	return 0, false
}

// Str is a helper for optional fields.
func Str(s string) *string { return &s }
