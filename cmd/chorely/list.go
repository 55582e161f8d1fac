package main

import (
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"chorely/internal/task"
	"chorely/internal/ui"
)

var (
	groupFlag bool
	allFlag   bool
)

func init() {
	lsCmd.Flags().BoolVar(&groupFlag, "group", false, "Group pending before done")
	lsCmd.Flags().BoolVar(&allFlag, "all", false, "Include tasks not scheduled today")
}

// row pairs a task with its position in the file, so the printed
// indexes stay valid for done/rm/edit even when some rows are hidden.
type row struct {
	pos int
	t   task.Task
}

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "Print the list",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		_, tasks, err := loadTasks(cfg)
		if err != nil {
			return err
		}

		now := time.Now()
		rows := make([]row, 0, len(tasks))
		hidden := 0
		for i, t := range tasks {
			if !allFlag && !t.ScheduledOn(now) {
				hidden++
				continue
			}
			rows = append(rows, row{pos: i, t: t})
		}

		d, p := tasks.Stats(now)
		header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
			ui.C(ui.Current().Title, "Chorely"),
			ui.C(ui.Current().Success, "✔"), d,
			ui.C(ui.Current().Pending, "•"), p,
			ui.C(ui.Current().Accent, "Total"), len(tasks),
		)

		var lines []string
		lines = append(lines, header)
		lines = append(lines, ui.C(ui.Current().Muted, ui.ProgressBar(d, d+p, 28)))
		lines = append(lines, "")

		if groupFlag {
			lines = append(lines, groupLines(rows, now)...)
		} else {
			lines = append(lines, flatLines(rows, now)...)
		}
		if hidden > 0 {
			lines = append(lines, "")
			lines = append(lines, ui.C(ui.Current().Muted,
				fmt.Sprintf("%d not scheduled today (use --all)", hidden)))
		}
		lines = append(lines, "")
		lines = append(lines, ui.C(ui.Current().Muted, "Tip: add with `chorely add \"water plants\"`"))
		ui.Panel(lines)
		return nil
	},
}

func flatLines(rows []row, now time.Time) []string {
	if len(rows) == 0 {
		return []string{ui.C(ui.Current().Muted, "no tasks")}
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		idx := fmt.Sprintf("%2d.", r.pos+1)
		box := ui.Current().BoxUnchecked
		color := ui.Current().Muted
		switch r.t.StateAt(now) {
		case task.Done:
			box, color = ui.Current().BoxChecked, ui.Current().Success
		case task.Active:
			color = ui.Current().Pending
		case task.Overdue:
			color = ui.Current().Error
		}
		line := fmt.Sprintf("%s %s %s",
			ui.C("\033[2m", idx), ui.C(color, box), runewidth.Truncate(r.t.Title, 77, "..."))
		if note := r.t.Schedule(); note != "" {
			line += " " + ui.C(ui.Current().Muted, "("+note+")")
		}
		out = append(out, line)
	}
	return out
}

func groupLines(rows []row, now time.Time) []string {
	var pend, done []row
	for _, r := range rows {
		if r.t.DoneAt(now) {
			done = append(done, r)
		} else {
			pend = append(pend, r)
		}
	}
	var lines []string
	lines = append(lines, ui.C(ui.Current().Accent, "Pending"))
	if len(pend) == 0 {
		lines = append(lines, ui.C(ui.Current().Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(pend, now)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(ui.Current().Accent, "Done"))
	if len(done) == 0 {
		lines = append(lines, ui.C(ui.Current().Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(done, now)...)
	}
	return lines
}
