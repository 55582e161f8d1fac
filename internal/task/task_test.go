package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-08-24 is a Monday.
func monday(hour, min int) time.Time {
	return time.Date(2026, time.August, 24, hour, min, 0, 0, time.Local)
}

func TestStateAt(t *testing.T) {
	window := Window{Start: 10 * 60, End: 11 * 60}

	t.Run("no window is pending", func(t *testing.T) {
		tk := Task{Title: "read"}
		assert.Equal(t, Pending, tk.StateAt(monday(9, 30)))
	})

	t.Run("before window", func(t *testing.T) {
		tk := Task{Title: "read", Window: window}
		assert.Equal(t, Pending, tk.StateAt(monday(9, 59)))
	})

	t.Run("inside window", func(t *testing.T) {
		tk := Task{Title: "read", Window: window}
		assert.Equal(t, Active, tk.StateAt(monday(10, 0)))
		assert.Equal(t, Active, tk.StateAt(monday(10, 59)))
	})

	t.Run("window end is exclusive", func(t *testing.T) {
		tk := Task{Title: "read", Window: window}
		assert.Equal(t, Overdue, tk.StateAt(monday(11, 0)))
	})

	t.Run("done wins over window", func(t *testing.T) {
		tk := Task{Title: "read", Done: true, Window: window}
		assert.Equal(t, Done, tk.StateAt(monday(12, 0)))
	})

	t.Run("repeating task reopens the next day", func(t *testing.T) {
		sunday := day(2026, time.August, 23)
		tk := Task{Title: "read", Done: true, DoneOn: sunday, Days: EveryDay, Window: window}
		assert.Equal(t, Overdue, tk.StateAt(monday(12, 0)))
		assert.Equal(t, Done, tk.StateAt(sunday.Add(20*time.Hour)))
	})
}

func TestDoneAt(t *testing.T) {
	t.Run("sticky without repeat days", func(t *testing.T) {
		tk := Task{Title: "a", Done: true, DoneOn: day(2020, time.January, 1)}
		assert.True(t, tk.DoneAt(monday(9, 0)))
	})

	t.Run("repeating counts only on the completion day", func(t *testing.T) {
		tk := Task{Title: "a", Done: true, DoneOn: day(2026, time.August, 24), Days: EveryDay}
		assert.True(t, tk.DoneAt(monday(23, 59)))
		assert.False(t, tk.DoneAt(monday(23, 59).Add(time.Minute)))
	})

	t.Run("repeating with no recorded day never counts", func(t *testing.T) {
		tk := Task{Title: "a", Done: true, Days: EveryDay}
		assert.False(t, tk.DoneAt(monday(9, 0)))
	})
}

func TestToggle(t *testing.T) {
	now := monday(9, 30)

	t.Run("marks done and records the day", func(t *testing.T) {
		tk := Task{Title: "a"}
		tk.Toggle(now)
		require.True(t, tk.Done)
		assert.Equal(t, day(2026, time.August, 24), tk.DoneOn)
	})

	t.Run("clears done and the day", func(t *testing.T) {
		tk := Task{Title: "a", Done: true, DoneOn: day(2026, time.August, 24)}
		tk.Toggle(now)
		assert.False(t, tk.Done)
		assert.True(t, tk.DoneOn.IsZero())
	})

	t.Run("stale repeating completion toggles to done today", func(t *testing.T) {
		tk := Task{Title: "a", Done: true, DoneOn: day(2026, time.August, 23), Days: EveryDay}
		tk.Toggle(now)
		require.True(t, tk.Done)
		assert.Equal(t, day(2026, time.August, 24), tk.DoneOn)
	})
}

func TestSchedule(t *testing.T) {
	window := Window{Start: 7 * 60, End: 8 * 60}
	assert.Equal(t, "", Task{Title: "a"}.Schedule())
	assert.Equal(t, "07:00-08:00", Task{Window: window}.Schedule())
	assert.Equal(t, "mon,fri", Task{Days: days(t, "mon,fri")}.Schedule())
	assert.Equal(t, "07:00-08:00 all", Task{Window: window, Days: EveryDay}.Schedule())
}

func TestRewrite(t *testing.T) {
	t.Run("replaces title and schedule", func(t *testing.T) {
		tk := Task{Title: "gym", Window: Window{Start: 7 * 60, End: 8 * 60}}
		got, ok := tk.Rewrite("swim on:tue,thu")
		require.True(t, ok)
		assert.Equal(t, "swim", got.Title)
		assert.True(t, got.Window.IsZero(), "dropped annotation should not survive")
		assert.Equal(t, days(t, "tue,thu"), got.Days)
	})

	t.Run("keeps completion state", func(t *testing.T) {
		tk := Task{Title: "gym", Done: true, DoneOn: day(2026, time.August, 24)}
		got, ok := tk.Rewrite("swim")
		require.True(t, ok)
		assert.True(t, got.Done)
		assert.Equal(t, day(2026, time.August, 24), got.DoneOn)
	})

	t.Run("body marker overrides completion", func(t *testing.T) {
		tk := Task{Title: "gym"}
		got, ok := tk.Rewrite("x 2026-08-23 gym")
		require.True(t, ok)
		assert.True(t, got.Done)
		assert.Equal(t, day(2026, time.August, 23), got.DoneOn)
	})

	t.Run("blank body keeps the task", func(t *testing.T) {
		tk := Task{Title: "gym"}
		got, ok := tk.Rewrite("   ")
		assert.False(t, ok)
		assert.Equal(t, tk, got)
	})
}

func TestScheduledOn(t *testing.T) {
	tue := monday(0, 0).AddDate(0, 0, 1)

	tk := Task{Title: "a", Days: days(t, "mon,wed")}
	assert.True(t, tk.ScheduledOn(monday(12, 0)))
	assert.False(t, tk.ScheduledOn(tue))

	unscheduled := Task{Title: "b"}
	assert.True(t, unscheduled.ScheduledOn(tue))
}

func TestListStats(t *testing.T) {
	now := monday(12, 0)
	l := List{
		{Title: "done today", Done: true, DoneOn: day(2026, time.August, 24)},
		{Title: "open"},
		{Title: "stale repeat", Done: true, DoneOn: day(2026, time.August, 20), Days: EveryDay},
	}
	done, pending := l.Stats(now)
	assert.Equal(t, 1, done)
	assert.Equal(t, 2, pending)
}

func TestListNormalize(t *testing.T) {
	now := monday(12, 0)
	l := List{
		{Title: "keep sticky", Done: true, DoneOn: day(2020, time.January, 1)},
		{Title: "keep today", Done: true, DoneOn: day(2026, time.August, 24), Days: EveryDay},
		{Title: "reopen", Done: true, DoneOn: day(2026, time.August, 23), Days: EveryDay},
		{Title: "untouched"},
	}
	got := l.Normalize(now)

	require.Len(t, got, 4)
	assert.True(t, got[0].Done)
	assert.True(t, got[1].Done)
	assert.False(t, got[2].Done, "stale repeating completion should reopen")
	assert.True(t, got[2].DoneOn.IsZero())
	assert.False(t, got[3].Done)

	// The input list stays as loaded.
	assert.True(t, l[2].Done)
}

func TestParseWindow(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		w, err := ParseWindow("07:30-08:15")
		require.NoError(t, err)
		assert.Equal(t, Window{Start: 7*60 + 30, End: 8*60 + 15}, w)
		assert.Equal(t, "07:30-08:15", w.String())
	})

	t.Run("invalid", func(t *testing.T) {
		for _, s := range []string{"", "0730-0815", "07:30", "24:00-25:00", "07:60-08:00", "09:00-08:00", "09:00-09:00", "aa:bb-cc:dd"} {
			_, err := ParseWindow(s)
			assert.Error(t, err, "input %q", s)
		}
	})
}

func TestParseDays(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		d, err := ParseDays("Mon,FRI")
		require.NoError(t, err)
		assert.True(t, d.Has(time.Monday))
		assert.True(t, d.Has(time.Friday))
		assert.False(t, d.Has(time.Sunday))
		assert.Equal(t, "mon,fri", d.String())
	})

	t.Run("all", func(t *testing.T) {
		d, err := ParseDays("ALL")
		require.NoError(t, err)
		assert.Equal(t, EveryDay, d)
		assert.Equal(t, "all", d.String())
	})

	t.Run("canonical order", func(t *testing.T) {
		d, err := ParseDays("sun,sat,mon")
		require.NoError(t, err)
		assert.Equal(t, "mon,sat,sun", d.String())
	})

	t.Run("invalid", func(t *testing.T) {
		for _, s := range []string{"", "funday", "mon,,fri", "mon;fri"} {
			_, err := ParseDays(s)
			assert.Error(t, err, "input %q", s)
		}
	})
}

func TestWindowContains(t *testing.T) {
	w := Window{Start: 10 * 60, End: 11 * 60}
	assert.False(t, w.Contains(monday(9, 59)))
	assert.True(t, w.Contains(monday(10, 0)))
	assert.False(t, w.Contains(monday(11, 0)))
}
