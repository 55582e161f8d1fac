package task

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func days(t *testing.T, s string) DaySet {
	t.Helper()
	d, err := ParseDays(s)
	if err != nil {
		t.Fatalf("ParseDays(%q): %v", s, err)
	}
	return d
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		want  Task
		blank bool
	}{
		{name: "plain title", line: "buy milk", want: Task{Title: "buy milk"}},
		{name: "done", line: "x buy milk", want: Task{Title: "buy milk", Done: true}},
		{
			name: "done with date",
			line: "x 2026-08-24 buy milk",
			want: Task{Title: "buy milk", Done: true, DoneOn: day(2026, time.August, 24)},
		},
		{
			name: "window",
			line: "walk dog at:07:30-08:15",
			want: Task{Title: "walk dog", Window: Window{Start: 7*60 + 30, End: 8*60 + 15}},
		},
		{
			name: "single digit hour accepted",
			line: "walk dog at:7:30-8:15",
			want: Task{Title: "walk dog", Window: Window{Start: 7*60 + 30, End: 8*60 + 15}},
		},
		{name: "repeat days", line: "trash out on:mon,thu", want: Task{Title: "trash out", Days: days(t, "mon,thu")}},
		{name: "every day", line: "feed cat on:all", want: Task{Title: "feed cat", Days: EveryDay}},
		{
			name: "window and days",
			line: "homework at:16:00-17:00 on:mon,tue",
			want: Task{Title: "homework", Window: Window{Start: 16 * 60, End: 17 * 60}, Days: days(t, "mon,tue")},
		},
		{
			name: "annotations in either order",
			line: "homework on:sat at:16:00-17:00",
			want: Task{Title: "homework", Window: Window{Start: 16 * 60, End: 17 * 60}, Days: days(t, "sat")},
		},
		{
			name: "everything at once",
			line: "x 2026-08-24 homework at:16:00-17:00 on:sat",
			want: Task{
				Title: "homework", Done: true, DoneOn: day(2026, time.August, 24),
				Window: Window{Start: 16 * 60, End: 17 * 60}, Days: days(t, "sat"),
			},
		},
		{name: "token text mid title stays title", line: "meet at:noon cafe", want: Task{Title: "meet at:noon cafe"}},
		{name: "malformed window stays title", line: "ping at:25:00-26:00", want: Task{Title: "ping at:25:00-26:00"}},
		{name: "backwards window stays title", line: "nap at:14:00-13:00", want: Task{Title: "nap at:14:00-13:00"}},
		{name: "unknown day stays title", line: "gym on:funday", want: Task{Title: "gym on:funday"}},
		{name: "bare x is a title", line: "x", want: Task{Title: "x"}},
		{name: "date without done stays title", line: "2026-08-24 dentist", want: Task{Title: "2026-08-24 dentist"}},
		{name: "crlf stripped", line: "buy milk\r", want: Task{Title: "buy milk"}},
		{name: "padding trimmed", line: "   buy milk   ", want: Task{Title: "buy milk"}},
		{name: "extra spaces after x", line: "x   2026-08-24   buy milk", want: Task{Title: "buy milk", Done: true, DoneOn: day(2026, time.August, 24)}},
		{name: "blank", line: "", blank: true},
		{name: "spaces only", line: "   ", blank: true},
		{name: "crlf only", line: "\r", blank: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLine(tt.line)
			if tt.blank {
				if ok {
					t.Fatalf("ParseLine(%q) ok = true, want blank", tt.line)
				}
				return
			}
			if !ok {
				t.Fatalf("ParseLine(%q) ok = false, want task", tt.line)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseLine(%q) mismatch (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}

func TestParseLineDuplicateAnnotation(t *testing.T) {
	// Rightmost of each kind wins; the leftover stays in the title.
	got, ok := ParseLine("gym on:mon on:tue")
	if !ok {
		t.Fatal("ParseLine ok = false")
	}
	want := Task{Title: "gym on:mon", Days: days(t, "tue")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatLine(t *testing.T) {
	tests := []struct {
		name string
		task Task
		want string
	}{
		{"plain", Task{Title: "buy milk"}, "buy milk"},
		{"done without date", Task{Title: "buy milk", Done: true}, "x buy milk"},
		{"done with date", Task{Title: "buy milk", Done: true, DoneOn: day(2026, time.August, 24)}, "x 2026-08-24 buy milk"},
		{"window", Task{Title: "walk dog", Window: Window{Start: 7*60 + 30, End: 8*60 + 15}}, "walk dog at:07:30-08:15"},
		{"every day", Task{Title: "feed cat", Days: EveryDay}, "feed cat on:all"},
		{
			"everything",
			Task{Title: "homework", Done: true, DoneOn: day(2026, time.August, 24), Window: Window{Start: 16 * 60, End: 17 * 60}, Days: days(t, "mon,tue")},
			"x 2026-08-24 homework at:16:00-17:00 on:mon,tue",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatLine(tt.task); got != tt.want {
				t.Errorf("FormatLine = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLineRoundTrip(t *testing.T) {
	lines := []string{
		"buy milk",
		"x buy milk",
		"x 2026-08-24 walk dog at:07:30-08:15 on:mon,wed",
		"feed cat on:all",
		"practice piano at:16:00-16:30",
	}
	for _, line := range lines {
		got, ok := ParseLine(line)
		if !ok {
			t.Fatalf("ParseLine(%q) ok = false", line)
		}
		if out := FormatLine(got); out != line {
			t.Errorf("round trip: %q became %q", line, out)
		}
	}
}
