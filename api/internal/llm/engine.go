package llm

import (
	"fmt"
	"strings"

	"ai-timetable/api/internal/extract"
)

type Engines struct {
	Gemini extract.Model
	OpenAI extract.Model
}

// Get picks the engine the pipeline talks to.
func (e *Engines) Get(name string) (extract.Model, error) {
	var m extract.Model
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gemini", "":
		m = e.Gemini
	case "gpt", "openai":
		m = e.OpenAI
	default:
		return nil, fmt.Errorf("unknown llm %q; use 'gemini' or 'gpt'", name)
	}
	if m == nil {
		return nil, fmt.Errorf("llm %q is not configured", name)
	}
	return m, nil
}
