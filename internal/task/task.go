package task

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Task is the domain model for one entry of the task file: a title plus
// optional schedule annotations and completion state.
type Task struct {
	Title  string
	Done   bool
	DoneOn time.Time // day the task was completed; zero when untracked
	Window Window    // daily active period; zero when unscheduled
	Days   DaySet    // repeat days; zero when the task does not repeat
}

// State is the display state of a task, derived from the wall clock.
type State int

const (
	Pending State = iota
	Active
	Overdue
	Done
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Overdue:
		return "overdue"
	case Done:
		return "done"
	default:
		return "pending"
	}
}

// DoneAt reports whether the task counts as done at the given time.
// Repeating tasks only count on the day they were completed; a new day
// reopens them.
func (t Task) DoneAt(now time.Time) bool {
	if !t.Done {
		return false
	}
	if t.Days.IsZero() {
		return true
	}
	return sameDay(t.DoneOn, now)
}

// ScheduledOn reports whether the task is on the plan for the given day.
// Tasks without repeat days are on the plan every day.
func (t Task) ScheduledOn(now time.Time) bool {
	return t.Days.IsZero() || t.Days.Has(now.Weekday())
}

// StateAt derives the display state at the given time.
func (t Task) StateAt(now time.Time) State {
	if t.DoneAt(now) {
		return Done
	}
	if t.Window.IsZero() {
		return Pending
	}
	m := minutesOf(now)
	switch {
	case m < t.Window.Start:
		return Pending
	case m < t.Window.End:
		return Active
	default:
		return Overdue
	}
}

// Toggle flips completion as of now, recording or clearing the day.
func (t *Task) Toggle(now time.Time) {
	if t.DoneAt(now) {
		t.Done = false
		t.DoneOn = time.Time{}
	} else {
		t.Done = true
		t.DoneOn = dayOf(now)
	}
}

// Schedule renders the annotations for display: "07:30-08:15 mon,wed",
// either half alone, or "" for an unscheduled task.
func (t Task) Schedule() string {
	w, d := t.Window.String(), t.Days.String()
	switch {
	case w != "" && d != "":
		return w + " " + d
	case w != "":
		return w
	default:
		return d
	}
}

// Rewrite replaces the task with one parsed from an edited line body.
// Completion state carries over unless the body brings its own "x "
// marker. The bool is false when the body is blank.
func (t Task) Rewrite(body string) (Task, bool) {
	nt, ok := ParseLine(body)
	if !ok {
		return t, false
	}
	if !nt.Done {
		nt.Done = t.Done
		nt.DoneOn = t.DoneOn
	}
	return nt, true
}

// List is an ordered collection of tasks; file order is list order.
type List []Task

// Stats counts done and pending tasks at the given time.
func (l List) Stats(now time.Time) (done, pending int) {
	for _, t := range l {
		if t.DoneAt(now) {
			done++
		} else {
			pending++
		}
	}
	return
}

// Normalize clears stale completions of repeating tasks so the next
// save writes them reopened.
func (l List) Normalize(now time.Time) List {
	out := make(List, len(l))
	for i, t := range l {
		if t.Done && !t.DoneAt(now) {
			t.Done = false
			t.DoneOn = time.Time{}
		}
		out[i] = t
	}
	return out
}

// Minutes counts minutes since midnight.
type Minutes int

func (m Minutes) String() string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func minutesOf(t time.Time) Minutes {
	return Minutes(t.Hour()*60 + t.Minute())
}

// Window is a daily active period, half-open: [Start, End).
// The zero value means no schedule.
type Window struct {
	Start, End Minutes
}

func (w Window) IsZero() bool { return w.Start == 0 && w.End == 0 }

func (w Window) String() string {
	if w.IsZero() {
		return ""
	}
	return w.Start.String() + "-" + w.End.String()
}

// Contains reports whether the time of day falls inside the window.
func (w Window) Contains(t time.Time) bool {
	m := minutesOf(t)
	return m >= w.Start && m < w.End
}

// ParseWindow parses "HH:MM-HH:MM". The end must come after the start.
func ParseWindow(s string) (Window, error) {
	from, to, found := strings.Cut(s, "-")
	if !found {
		return Window{}, fmt.Errorf("window %q: want HH:MM-HH:MM", s)
	}
	start, err := parseClock(from)
	if err != nil {
		return Window{}, err
	}
	end, err := parseClock(to)
	if err != nil {
		return Window{}, err
	}
	if end <= start {
		return Window{}, fmt.Errorf("window %q: end not after start", s)
	}
	return Window{Start: start, End: end}, nil
}

func parseClock(s string) (Minutes, error) {
	hh, mm, found := strings.Cut(s, ":")
	if !found {
		return 0, fmt.Errorf("clock %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("clock %q: bad hour", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock %q: bad minute", s)
	}
	return Minutes(h*60 + m), nil
}

// DaySet is a set of weekdays, one bit per day starting at Monday.
// The zero value means the task does not repeat.
type DaySet uint8

// EveryDay covers all seven weekdays; it prints as "all".
const EveryDay DaySet = 1<<7 - 1

var dayNames = [7]string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

func dayBit(w time.Weekday) DaySet {
	// time.Weekday starts the week on Sunday, ours starts on Monday.
	return 1 << ((int(w) + 6) % 7)
}

func (d DaySet) IsZero() bool { return d == 0 }

func (d DaySet) Has(w time.Weekday) bool { return d&dayBit(w) != 0 }

func (d DaySet) String() string {
	if d == 0 {
		return ""
	}
	if d == EveryDay {
		return "all"
	}
	var names []string
	for i, name := range dayNames {
		if d&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, ",")
}

// ParseDays parses "all" or a comma-separated list like "mon,wed,fri".
func ParseDays(s string) (DaySet, error) {
	if strings.EqualFold(strings.TrimSpace(s), "all") {
		return EveryDay, nil
	}
	var d DaySet
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		bit := DaySet(0)
		for i, name := range dayNames {
			if part == name {
				bit = 1 << i
				break
			}
		}
		if bit == 0 {
			return 0, fmt.Errorf("unknown day %q", part)
		}
		d |= bit
	}
	return d, nil
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
