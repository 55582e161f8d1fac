package task

import (
	"strings"
	"time"
)

// One task per line, for example:
//
//	x 2026-08-24 water the plants at:07:30-08:15 on:mon,wed
//
// A leading "x " marks the task done, optionally followed by the day it
// was completed. Trailing at:/on: fields are schedule annotations and
// are only recognized at the end of the line, so the same text earlier
// in a title stays title text. Every non-blank line parses to a task;
// anything unrecognized is simply part of the title.

const dateLayout = "2006-01-02"

// ParseLine parses one line of the task file. The bool is false for
// blank lines.
func ParseLine(line string) (Task, bool) {
	s := strings.TrimSpace(strings.TrimSuffix(line, "\r"))
	if s == "" {
		return Task{}, false
	}

	var t Task
	if rest, found := strings.CutPrefix(s, "x "); found {
		t.Done = true
		s = strings.TrimLeft(rest, " ")
		if first, tail, cut := strings.Cut(s, " "); cut {
			if day, err := time.ParseInLocation(dateLayout, first, time.Local); err == nil {
				t.DoneOn = day
				s = strings.TrimLeft(tail, " ")
			}
		}
	}

	// Peel annotations off the end. Rightmost of each kind wins; the
	// scan stops at the first field that is neither.
	for {
		i := strings.LastIndexByte(s, ' ')
		if i < 0 {
			break
		}
		field := s[i+1:]
		if v, found := strings.CutPrefix(field, "at:"); found && t.Window.IsZero() {
			if w, err := ParseWindow(v); err == nil {
				t.Window = w
				s = strings.TrimRight(s[:i], " ")
				continue
			}
		}
		if v, found := strings.CutPrefix(field, "on:"); found && t.Days.IsZero() {
			if d, err := ParseDays(v); err == nil {
				t.Days = d
				s = strings.TrimRight(s[:i], " ")
				continue
			}
		}
		break
	}
	t.Title = s
	return t, true
}

// FormatLine renders a task in canonical form: completion prefix,
// title, then at: and on: annotations.
func FormatLine(t Task) string {
	var b strings.Builder
	if t.Done {
		b.WriteString("x ")
		if !t.DoneOn.IsZero() {
			b.WriteString(t.DoneOn.Format(dateLayout))
			b.WriteByte(' ')
		}
	}
	b.WriteString(t.Title)
	if !t.Window.IsZero() {
		b.WriteString(" at:")
		b.WriteString(t.Window.String())
	}
	if !t.Days.IsZero() {
		b.WriteString(" on:")
		b.WriteString(t.Days.String())
	}
	return b.String()
}
