package timeofday

// Status places a class interval relative to a reference time of day.
type Status string

const (
	Past     Status = "past"
	Current  Status = "current"
	Upcoming Status = "upcoming"
)

// Classify reports Current when start <= now <= end (both inclusive),
// Upcoming when now < start, Past otherwise. An interval with end < start
// gets no midnight handling. Parse failures are returned to the caller.
func Classify(start, end string, now Time) (Status, error) {
	s, err := Parse(start)
	if err != nil {
		return Past, err
	}
	e, err := Parse(end)
	if err != nil {
		return Past, err
	}
	switch {
	case s <= now && now <= e:
		return Current, nil
	case now < s:
		return Upcoming, nil
	default:
		return Past, nil
	}
}

// IsCurrent is false when either bound does not parse.
func IsCurrent(start, end string, now Time) bool {
	s, err := Parse(start)
	if err != nil {
		return false
	}
	e, err := Parse(end)
	if err != nil {
		return false
	}
	return s <= now && now <= e
}

// IsUpcoming is false when start does not parse.
func IsUpcoming(start string, now Time) bool {
	s, err := Parse(start)
	if err != nil {
		return false
	}
	return now < s
}
