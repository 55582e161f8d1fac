// Package tui runs the interactive task list: a Bubble Tea program
// with inline add and edit, per-mutation saves and live reload when
// the task file changes on disk.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"chorely/internal/config"
	"chorely/internal/store/textstore"
	"chorely/internal/task"
	"chorely/internal/ui"
	"chorely/internal/watch"
)

type tickMsg time.Time

type fileChangedMsg struct{}

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
	modePIN
)

// suppressWindow swallows watcher notifications right after our own
// saves, so the view does not reload what it just wrote.
const suppressWindow = 2 * time.Second

// Model drives the interactive list. The backing task list is the
// source of truth; the visible list holds only tasks scheduled for
// today, and every mutation is written to the task file before the
// next frame.
type Model struct {
	list   list.Model
	input  textinput.Model
	keys   KeyMap
	styles Styles

	store   *textstore.Store
	cfg     *config.Config
	cfgPath string
	tasks   task.List
	profile string

	mode      mode
	editIndex int
	inputErr  string
	notice    string

	canUndo   bool
	undoIndex int
	undoTask  task.Task

	pinIndex int

	watcher  *watch.Watcher // nil when watching is unavailable
	now      time.Time
	lastSave time.Time
	dirty    bool // last save failed; retry before quitting

	width  int
	height int
}

// NewModel assembles the interactive list for an already loaded store.
// The watcher may be nil.
func NewModel(st *textstore.Store, cfg *config.Config, cfgPath string, tasks task.List, w *watch.Watcher) Model {
	now := time.Now()
	styles := NewStyles(ColorsByName(cfg.Theme))
	keys := DefaultKeyMap()

	l := list.New(nil, itemDelegate{styles: styles, now: time.Now}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(true)
	l.Styles.HelpStyle = styles.Help
	l.Styles.PaginationStyle = styles.Help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Add, keys.Edit, keys.Delete, keys.Undo}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{
			keys.Toggle, keys.Add, keys.Edit, keys.Delete, keys.Undo,
			keys.Theme, keys.Reload, keys.Profile,
		}
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New task..."
	ti.CharLimit = 200

	m := Model{
		list:      l,
		input:     ti,
		keys:      keys,
		styles:    styles,
		store:     st,
		cfg:       cfg,
		cfgPath:   cfgPath,
		tasks:     tasks.Normalize(now),
		profile:   cfg.ProfileFor(st.Path()),
		editIndex: -1,
		pinIndex:  -1,
		watcher:   w,
		now:       now,
	}
	m.syncList()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.waitForChange())
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// waitForChange blocks on the watcher until the task file changes on
// disk. Re-armed after every delivery.
func (m Model) waitForChange() tea.Cmd {
	w := m.watcher
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-w.Changes(); !ok {
			return nil
		}
		return fileChangedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(m.width-6, m.listHeight(m.height))
		return m, nil

	case tickMsg:
		prev := m.now
		m.now = time.Time(msg)
		if m.now.YearDay() != prev.YearDay() || m.now.Year() != prev.Year() {
			// Midnight: repeating tasks reopen and the day plan changes.
			m.tasks = m.tasks.Normalize(m.now)
			m.syncList()
		}
		return m, tickCmd()

	case fileChangedMsg:
		if time.Since(m.lastSave) > suppressWindow {
			m.reload()
			m.notice = "file changed on disk, reloaded"
		}
		return m, m.waitForChange()
	}

	switch m.mode {
	case modeAdd:
		return m.updateAdd(msg)
	case modeEdit:
		return m.updateEdit(msg)
	case modePIN:
		return m.updatePIN(msg)
	}
	return m.updateList(msg)
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, isKey := msg.(tea.KeyMsg); isKey && m.list.FilterState() != list.Filtering {
		m.notice = ""
		switch {
		case key.Matches(keyMsg, m.keys.Quit):
			if keyMsg.String() == "esc" && m.list.FilterState() == list.FilterApplied {
				break // esc clears the filter first
			}
			if m.dirty {
				m.save()
			}
			return m, tea.Quit

		case key.Matches(keyMsg, m.keys.Toggle):
			if pos, ok := m.selected(); ok {
				m.tasks[pos].Toggle(m.now)
				m.save()
				m.syncList()
			}
			return m, nil

		case key.Matches(keyMsg, m.keys.Delete):
			pos, ok := m.selected()
			if !ok {
				return m, nil
			}
			if m.cfg.HasPIN() {
				m.mode = modePIN
				m.pinIndex = pos
				m.input.SetValue("")
				m.input.Placeholder = "PIN"
				m.input.EchoMode = textinput.EchoPassword
				return m, m.input.Focus()
			}
			m.deleteAt(pos)
			return m, nil

		case key.Matches(keyMsg, m.keys.Add):
			m.mode = modeAdd
			m.inputErr = ""
			m.input.SetValue("")
			m.input.Placeholder = "New task..."
			m.input.EchoMode = textinput.EchoNormal
			return m, m.input.Focus()

		case key.Matches(keyMsg, m.keys.Edit):
			pos, ok := m.selected()
			if !ok {
				return m, nil
			}
			m.mode = modeEdit
			m.editIndex = pos
			m.inputErr = ""
			body := m.tasks[pos]
			body.Done = false
			body.DoneOn = time.Time{}
			m.input.SetValue(task.FormatLine(body))
			m.input.CursorEnd()
			m.input.Placeholder = "Edit task..."
			m.input.EchoMode = textinput.EchoNormal
			return m, m.input.Focus()

		case key.Matches(keyMsg, m.keys.Undo):
			if m.canUndo {
				idx := m.undoIndex
				if idx > len(m.tasks) {
					idx = len(m.tasks)
				}
				m.tasks = append(m.tasks[:idx], append(task.List{m.undoTask}, m.tasks[idx:]...)...)
				m.canUndo = false
				m.save()
				m.syncList()
			}
			return m, nil

		case key.Matches(keyMsg, m.keys.Theme):
			m.toggleTheme()
			return m, nil

		case key.Matches(keyMsg, m.keys.Reload):
			m.reload()
			m.notice = "reloaded"
			return m, nil

		case key.Matches(keyMsg, m.keys.Profile):
			return m, m.nextProfile()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			t, ok := task.ParseLine(m.input.Value())
			if !ok || t.Title == "" {
				m.inputErr = "Title cannot be empty"
				return m, nil
			}
			pos := len(m.tasks)
			if cur, found := m.selected(); found {
				pos = cur + 1
			}
			m.tasks = append(m.tasks[:pos], append(task.List{t}, m.tasks[pos:]...)...)
			m.closeInput()
			m.save()
			m.syncList()
			return m, nil
		case "esc":
			m.closeInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			pos := m.editIndex
			if pos < 0 || pos >= len(m.tasks) {
				m.closeInput()
				return m, nil
			}
			edited, ok := m.tasks[pos].Rewrite(m.input.Value())
			if !ok {
				m.inputErr = "Title cannot be empty"
				return m, nil
			}
			m.tasks[pos] = edited
			m.closeInput()
			m.save()
			m.syncList()
			return m, nil
		case "esc":
			m.closeInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updatePIN(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			if m.cfg.CheckPIN(m.input.Value()) {
				pos := m.pinIndex
				m.closeInput()
				m.deleteAt(pos)
			} else {
				m.inputErr = "Wrong PIN"
				m.input.SetValue("")
			}
			return m, nil
		case "esc":
			m.closeInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// selected resolves the cursor to a position in the backing list,
// which differs from the cursor index under a filter or a day plan.
func (m *Model) selected() (int, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return 0, false
	}
	return it.pos, true
}

// syncList rebuilds the visible items from the backing list. Tasks
// scheduled for other days stay hidden.
func (m *Model) syncList() {
	items := make([]list.Item, 0, len(m.tasks))
	for i, t := range m.tasks {
		if !t.ScheduledOn(m.now) {
			continue
		}
		items = append(items, listItem{task: t, pos: i})
	}
	m.list.SetItems(items)
	if n := len(items); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}
}

func (m *Model) deleteAt(pos int) {
	if pos < 0 || pos >= len(m.tasks) {
		return
	}
	m.undoTask = m.tasks[pos]
	m.undoIndex = pos
	m.canUndo = true
	m.tasks = append(m.tasks[:pos], m.tasks[pos+1:]...)
	m.save()
	m.syncList()
}

// save writes the backing list to disk immediately. A failure keeps
// the list dirty so quitting retries once.
func (m *Model) save() {
	m.tasks = m.tasks.Normalize(m.now)
	if err := m.store.Save(m.tasks); err != nil {
		m.dirty = true
		m.notice = "save failed: " + err.Error()
		return
	}
	m.dirty = false
	m.lastSave = time.Now()
}

func (m *Model) reload() {
	tasks, err := m.store.Load()
	if err != nil {
		m.notice = "reload failed: " + err.Error()
		return
	}
	m.tasks = tasks.Normalize(m.now)
	m.canUndo = false
	m.syncList()
}

func (m *Model) closeInput() {
	m.mode = modeList
	m.editIndex = -1
	m.pinIndex = -1
	m.inputErr = ""
	m.input.SetValue("")
	m.input.Blur()
}

// toggleTheme flips dark and light and persists the choice. Auto
// resolves against the terminal first, so the flip is always visible.
func (m *Model) toggleTheme() {
	if ColorsByName(m.cfg.Theme).IsDark {
		m.cfg.Theme = "light"
	} else {
		m.cfg.Theme = "dark"
	}
	m.styles = NewStyles(ColorsByName(m.cfg.Theme))
	m.list.SetDelegate(itemDelegate{styles: m.styles, now: time.Now})
	m.list.Styles.HelpStyle = m.styles.Help
	m.list.Styles.PaginationStyle = m.styles.Help
	if err := m.cfg.Save(m.cfgPath); err != nil {
		m.notice = "theme not saved: " + err.Error()
	} else {
		m.notice = "theme: " + m.cfg.Theme
	}
}

// nextProfile switches to the next configured task file, cycling in
// config order, and moves the watcher along.
func (m *Model) nextProfile() tea.Cmd {
	next, ok := m.cfg.NextProfile(m.store.Path())
	if !ok {
		return nil
	}
	st, err := textstore.New(next.File)
	if err != nil {
		m.notice = err.Error()
		return nil
	}
	tasks, err := st.Load()
	if err != nil {
		m.notice = "switch profile: " + err.Error()
		return nil
	}
	m.store = st
	m.tasks = tasks.Normalize(m.now)
	m.profile = next.Name
	m.canUndo = false
	m.notice = "profile: " + next.Name
	m.syncList()

	if m.watcher != nil {
		m.watcher.Stop()
		m.watcher = nil
		if w, err := watch.New(st.Path(), zap.NewNop()); err == nil {
			if err := w.Start(context.Background()); err == nil {
				m.watcher = w
			} else {
				w.Stop()
			}
		}
	}
	return m.waitForChange()
}

func (m Model) listHeight(h int) int {
	lh := h - 7
	if m.mode != modeList {
		lh -= 4
	}
	if lh < 3 {
		lh = 3
	}
	return lh
}

func (m Model) View() string {
	w, h := m.width, m.height
	if w == 0 {
		w, h = 80, 24
	}
	m.list.SetSize(w-6, m.listHeight(h))

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.list.View())
	if m.mode != modeList {
		b.WriteString("\n")
		b.WriteString(m.inputView())
	}
	b.WriteString("\n")
	b.WriteString(m.footerView())
	return m.styles.Panel.Render(b.String())
}

func (m Model) headerView() string {
	title := "Chorely"
	if m.profile != "" {
		title += " [" + m.profile + "]"
	}
	dn, pn := m.tasks.Stats(m.now)
	head := fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		m.styles.Title.Render(title),
		m.styles.Success.Render("✔"), dn,
		m.styles.Pending.Render("•"), pn,
		m.styles.Accent.Render("Total"), dn+pn,
	)
	return head + "\n" + m.styles.Clock.Render(m.clockLine())
}

func (m Model) clockLine() string {
	layout := "03:04:05 PM Monday, January-02-2006"
	if m.cfg.Clock == "24" {
		layout = "15:04:05 Monday, January-02-2006"
	}
	return m.now.Format(layout)
}

func (m Model) footerView() string {
	dn, pn := m.tasks.Stats(m.now)
	out := m.styles.Muted.Render(ui.ProgressBar(dn, dn+pn, 24))
	if m.notice != "" {
		out += "  " + m.styles.Help.Render(m.notice)
	}
	return out
}

func (m Model) inputView() string {
	title := "Add new task"
	switch m.mode {
	case modeEdit:
		title = "Edit task"
	case modePIN:
		title = "Enter PIN to delete"
	}
	if m.inputErr != "" {
		title += "  " + m.styles.Error.Render(m.inputErr)
	}
	return m.styles.Input.Render(title + "\n" + m.input.View())
}

// Run opens the interactive list on the given task file and blocks
// until the user quits.
func Run(st *textstore.Store, cfg *config.Config, cfgPath string) error {
	tasks, err := st.Load()
	if err != nil {
		return err
	}

	// Run without live reload when the watcher cannot start.
	var w *watch.Watcher
	if nw, err := watch.New(st.Path(), zap.NewNop()); err == nil {
		if err := nw.Start(context.Background()); err == nil {
			w = nw
		} else {
			nw.Stop()
		}
	}

	p := tea.NewProgram(NewModel(st, cfg, cfgPath, tasks, w), tea.WithAltScreen())
	final, err := p.Run()
	if fm, ok := final.(Model); ok && fm.watcher != nil {
		fm.watcher.Stop()
	}
	return err
}
