package timeofday

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Time is a time of day in seconds since midnight. No date or zone.
type Time int

// ErrParse is the kind returned when no layout accepts a time string.
var ErrParse = errors.New("unparseable time")

type ParseError struct {
	Value string
}

func (e *ParseError) Error() string { return fmt.Sprintf("timeofday: cannot parse %q", e.Value) }
func (e *ParseError) Unwrap() error { return ErrParse }

// Tried in order; first match wins.
var layouts = []string{
	"3:04 PM",
	"3:04 pm",
	"03:04 PM",
	"03:04 pm",
	"15:04",
}

// Of returns the time of day of t in t's location.
func Of(t time.Time) Time {
	return Time(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

// Clock builds a Time from hour, minute and second.
func Clock(h, m, s int) Time { return Time(h*3600 + m*60 + s) }

func (t Time) String() string {
	s := int(t)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}

// Parse reads model-generated or hand-typed time strings such as
// "9:30 AM", "09:30 am", "14:05" or "2.30 PM".
func Parse(s string) (Time, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Of(t), nil
		}
	}

	clean := strings.ReplaceAll(s, ".", ":")
	clean = strings.ReplaceAll(clean, " AM", " am")
	clean = strings.ReplaceAll(clean, " PM", " pm")
	clean = strings.TrimSpace(clean)
	if t, err := time.Parse("3:04 pm", clean); err == nil {
		return Of(t), nil
	}
	return 0, &ParseError{Value: s}
}
