package telegram

import (
	"fmt"
	"strings"

	"ai-timetable/api/internal/timetable"
)

const maxMessageLen = 3900

// FormatWeek renders every day with its classes.
func FormatWeek(d timetable.Data) string {
	var b strings.Builder
	for i, day := range d.Days {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("📅 " + day.Day + "\n")
		if len(day.Classes) == 0 {
			b.WriteString("  no classes\n")
			continue
		}
		for _, c := range day.Classes {
			fmt.Fprintf(&b, "  %s - %s  %s", c.StartTime, c.EndTime, c.Subject)
			var extra []string
			if c.Room != nil && *c.Room != "" {
				extra = append(extra, *c.Room)
			}
			if c.Professor != nil && *c.Professor != "" {
				extra = append(extra, *c.Professor)
			}
			if len(extra) > 0 {
				b.WriteString(" (" + strings.Join(extra, ", ") + ")")
			}
			b.WriteByte('\n')
		}
	}
	if b.Len() == 0 {
		return "The timetable is empty."
	}
	return strings.TrimRight(b.String(), "\n")
}

// split cuts text into chunks of at most n bytes, preferring line breaks.
func split(text string, n int) []string {
	var out []string
	for len(text) > n {
		cut := strings.LastIndexByte(text[:n], '\n')
		if cut <= 0 {
			cut = n
		}
		out = append(out, text[:cut])
		text = strings.TrimLeft(text[cut:], "\n")
	}
	return append(out, text)
}
