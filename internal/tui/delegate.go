package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"chorely/internal/task"
)

// listItem adapts a task for bubbles/list, remembering its position in
// the backing list so a filtered view still mutates the right entry.
type listItem struct {
	task task.Task
	pos  int
}

func (i listItem) Title() string       { return i.task.Title }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.task.Title }

// itemDelegate renders one task per line, colored by its state at
// render time.
type itemDelegate struct {
	styles Styles
	now    func() time.Time
}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}

	box := d.styles.Muted.Render(boxUnchecked)
	text := it.task.Title
	switch it.task.StateAt(d.now()) {
	case task.Done:
		box = d.styles.Success.Render(boxChecked)
		text = d.styles.Done.Render(text)
	case task.Active:
		text = d.styles.Active.Render(text)
	case task.Overdue:
		box = d.styles.Overdue.Render(boxUnchecked)
		text = d.styles.Overdue.Render(text)
	}

	if note := it.task.Schedule(); note != "" {
		text += " " + d.styles.Muted.Render("("+note+")")
	}

	line := fmt.Sprintf("%s %s", box, text)
	prefix := "  "
	if index == m.Index() {
		prefix = d.styles.Selected.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}
