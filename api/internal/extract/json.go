package extract

import (
	"encoding/json"
	"errors"
	"strings"

	"ai-timetable/api/internal/timetable"
)

// FindJSON cuts the candidate object out of a free-text model response:
// everything from the first '{' to the last '}'. The candidate is only
// checked for well-formedness here.
func FindJSON(resp string) (string, error) {
	resp = strings.TrimSpace(resp)
	if resp == "" {
		return "", ErrEmptyResponse
	}
	start := strings.IndexByte(resp, '{')
	end := strings.LastIndexByte(resp, '}')
	if start == -1 || end < start {
		return "", ErrNoJSONFound
	}
	fragment := resp[start : end+1]
	if !json.Valid([]byte(fragment)) {
		var v any
		err := json.Unmarshal([]byte(fragment), &v)
		if err == nil {
			err = errors.New("not valid JSON")
		}
		return "", &InvalidJSONError{Fragment: fragment, Err: err}
	}
	return fragment, nil
}

// Decode maps a validated fragment onto the timetable shape. Unknown
// fields are ignored and missing optional fields stay nil.
func Decode(fragment string) (*timetable.Data, error) {
	var d timetable.Data
	if err := json.Unmarshal([]byte(fragment), &d); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if err := d.Validate(); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return &d, nil
}
