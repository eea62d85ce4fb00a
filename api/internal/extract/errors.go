package extract

import (
	"errors"
	"fmt"
)

var (
	ErrImageDecode   = errors.New("failed to decode image")
	ErrModel         = errors.New("model request failed")
	ErrEmptyResponse = errors.New("empty response from model")
	ErrNoJSONFound   = errors.New("no JSON found in response")
	ErrInvalidJSON   = errors.New("invalid JSON structure")
	ErrDecode        = errors.New("cannot decode timetable")
)

// InvalidJSONError carries the substring that failed to parse.
type InvalidJSONError struct {
	Fragment string
	Err      error
}

func (e *InvalidJSONError) Error() string {
	return fmt.Sprintf("invalid JSON structure: %s", e.Fragment)
}

func (e *InvalidJSONError) Is(target error) bool { return target == ErrInvalidJSON }
func (e *InvalidJSONError) Unwrap() error        { return e.Err }

type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string        { return "decode timetable: " + e.Err.Error() }
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }
func (e *DecodeError) Unwrap() error        { return e.Err }

// Message turns a pipeline error into text for the user.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrImageDecode):
		return "Failed to decode image"
	case errors.Is(err, ErrEmptyResponse):
		return "The model returned an empty response"
	case errors.Is(err, ErrNoJSONFound):
		return "No timetable found in the model response"
	case errors.Is(err, ErrInvalidJSON):
		return "The model returned malformed JSON"
	case errors.Is(err, ErrDecode):
		return "The model response does not look like a timetable"
	default:
		return err.Error()
	}
}
