package ui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskflow/internal/config"
	"taskflow/internal/task"
	"taskflow/internal/view"
)

type mode int

const (
	modeList mode = iota
	modeSearch
	modeForm
)

type screen int

const (
	screenTasks screen = iota
	screenStats
	screenCalendar
)

type Model struct {
	store    *task.Store
	cfg      config.Config
	now      func() time.Time
	criteria view.Criteria
	sortKey  view.SortKey

	// tasks holds the visible rows: open tasks first, then completed ones.
	tasks     []task.Task
	openCount int
	all       []task.Task

	cursor     int
	mode       mode
	screen     screen
	month      time.Time
	input      textinput.Model
	status     string
	confirmDel bool
	pendingDel *task.Task
	form       *formState
}

func New(store *task.Store, cfg config.Config) Model {
	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.CharLimit = 256
	ti.Width = 40

	m := Model{
		store: store,
		cfg:   cfg,
		now:   time.Now,
		criteria: view.Criteria{
			Category: cfg.DefaultCategory,
			Priority: cfg.DefaultPriority,
		},
		sortKey: cfg.DefaultSort,
		input:   ti,
		mode:    modeList,
		status:  fmt.Sprintf("Press '%s' to add, '%s' to toggle, '%s' to delete.", cfg.Keys.Add, keyName(cfg.Keys.Toggle), cfg.Keys.Delete),
	}
	m.month = firstOfMonth(m.now())
	m.refresh()
	return m
}

func Run(store *task.Store, cfg config.Config) error {
	program := tea.NewProgram(New(store, cfg))
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.form != nil {
			return m.updateFormMode(msg.String(), msg)
		}
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if m.mode == modeSearch {
		return m.updateSearchMode(key, msg)
	}
	switch m.screen {
	case screenStats, screenCalendar:
		return m.updateSideScreen(key)
	}
	return m.updateListMode(key)
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	switch key {
	case "ctrl+c", k.Quit:
		return m, tea.Quit
	case k.Down, "down":
		if len(m.tasks) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(m.tasks))
	case k.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.tasks))
		}
	case k.Add:
		return m.startForm(newForm(m.formDefaults()))
	case k.Toggle:
		if len(m.tasks) == 0 {
			return m, nil
		}
		t, err := m.store.ToggleComplete(m.tasks[m.cursor].ID)
		if err != nil {
			m.status = fmt.Sprintf("toggle failed: %v", err)
			return m, nil
		}
		m.refresh()
		if t.Completed {
			m.status = "Completed " + quoteTitle(t.Title)
		} else {
			m.status = "Reopened " + quoteTitle(t.Title)
		}
	case k.Delete:
		if len(m.tasks) == 0 {
			return m, nil
		}
		t := m.tasks[m.cursor]
		m.confirmDel = true
		m.pendingDel = &t
		m.status = fmt.Sprintf("Delete %s? y/n", quoteTitle(t.Title))
	case k.Detail:
		if len(m.tasks) == 0 {
			m.status = "No tasks"
			return m, nil
		}
		m.status = detailLine(m.tasks[m.cursor], m.now())
	case k.Edit:
		if len(m.tasks) == 0 {
			m.status = "No tasks to edit"
			return m, nil
		}
		return m.startForm(editForm(m.tasks[m.cursor], m.now().Location()))
	case k.Search:
		m.mode = modeSearch
		m.input.Placeholder = "Search title or description"
		m.setInput(m.criteria.Search)
		m.input.Focus()
		m.status = "Type to search, Enter to keep, Esc to clear"
	case k.Category:
		m.criteria.Category = cycle(append([]task.Category{view.AllCategories}, task.Categories()...), m.criteria.Category)
		m.refresh()
		m.status = "Category: " + string(orAll(m.criteria.Category))
	case k.Priority:
		m.criteria.Priority = cycle(append([]task.Priority{view.AllPriorities}, task.Priorities()...), m.criteria.Priority)
		m.refresh()
		m.status = "Priority: " + string(orAll(m.criteria.Priority))
	case k.SortDue:
		m.setSort(view.SortDue)
	case k.SortPriority:
		m.setSort(view.SortPriority)
	case k.SortCreated:
		m.setSort(view.SortCreated)
	case k.Stats:
		m.screen = screenStats
		m.status = ""
	case k.Calendar:
		m.screen = screenCalendar
		m.month = firstOfMonth(m.now())
		m.status = ""
	}
	return m, nil
}

func (m Model) updateSearchMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.criteria.Search = ""
		m.setInput("")
		m.leaveInput()
		m.refresh()
		m.status = "Search cleared"
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		m.leaveInput()
		m.status = fmt.Sprintf("%d matching tasks", len(m.tasks))
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.criteria.Search = strings.TrimSpace(m.input.Value())
		m.refresh()
		return m, cmd
	}
}

func (m Model) updateSideScreen(key string) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	switch key {
	case "ctrl+c", k.Quit:
		return m, tea.Quit
	case k.Cancel, "esc":
		m.screen = screenTasks
	case k.Stats:
		if m.screen == screenStats {
			m.screen = screenTasks
		} else {
			m.screen = screenStats
		}
	case k.Calendar:
		if m.screen == screenCalendar {
			m.screen = screenTasks
		} else {
			m.screen = screenCalendar
			m.month = firstOfMonth(m.now())
		}
	case k.PrevMonth:
		if m.screen == screenCalendar {
			m.month = m.month.AddDate(0, -1, 0)
		}
	case k.NextMonth:
		if m.screen == screenCalendar {
			m.month = m.month.AddDate(0, 1, 0)
		}
	}
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", "esc":
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			m.confirmDel = false
			return m, nil
		}
		if err := m.store.Delete(m.pendingDel.ID); err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
		} else {
			m.refresh()
			m.status = "Deleted " + quoteTitle(m.pendingDel.Title)
		}
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) startForm(f *formState) (tea.Model, tea.Cmd) {
	m.form = f
	m.mode = modeForm
	m.showField()
	m.input.Focus()
	m.status = m.formPrompt()
	return m, nil
}

func (m Model) updateFormMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.form = nil
		m.leaveInput()
		m.status = "Edit cancelled"
		return m, nil
	case "tab", "down":
		m.form.setCurrentValue(m.input.Value())
		m.form.index = wrapIndex(m.form.index+1, fieldCount)
		m.showField()
		m.status = m.formPrompt()
		return m, nil
	case "shift+tab", "up":
		m.form.setCurrentValue(m.input.Value())
		m.form.index = wrapIndex(m.form.index-1, fieldCount)
		m.showField()
		m.status = m.formPrompt()
		return m, nil
	case "ctrl+s":
		m.form.setCurrentValue(m.input.Value())
		return m.saveForm()
	case m.cfg.Keys.Confirm, "enter":
		m.form.setCurrentValue(m.input.Value())
		if m.form.last() {
			return m.saveForm()
		}
		m.form.index++
		m.showField()
		m.status = m.formPrompt()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) saveForm() (tea.Model, tea.Cmd) {
	loc := m.now().Location()
	var (
		saved task.Task
		err   error
		verb  string
	)
	if m.form.taskID == "" {
		var in task.Input
		if in, err = m.form.input(loc); err == nil {
			saved, err = m.store.Create(in)
		}
		verb = "Added"
	} else {
		var p task.Patch
		if p, err = m.form.patch(loc); err == nil {
			saved, err = m.store.Update(m.form.taskID, p)
		}
		verb = "Saved"
	}
	if err != nil {
		m.status = fmt.Sprintf("save failed: %v", err)
		return m, nil
	}

	m.form = nil
	m.leaveInput()
	m.refresh()
	m.selectID(saved.ID)
	m.status = verb + " " + quoteTitle(saved.Title)
	return m, nil
}

func (m *Model) showField() {
	m.input.Placeholder = m.form.currentLabel()
	m.setInput(m.form.currentValue())
}

func (m *Model) setInput(v string) {
	m.input.SetValue(v)
	m.input.CursorEnd()
}

func (m *Model) leaveInput() {
	m.mode = modeList
	m.input.Blur()
}

func (m Model) formPrompt() string {
	if m.form == nil {
		return ""
	}
	return fmt.Sprintf("Editing %s (field %d of %d). Enter to advance, ctrl+s to save, Esc to cancel.",
		m.form.currentLabel(), m.form.index+1, fieldCount)
}

// formDefaults prefills a new task from the active filters.
func (m Model) formDefaults() (task.Category, task.Priority) {
	category, priority := task.CategoryPersonal, task.PriorityMedium
	if m.criteria.Category.Valid() {
		category = m.criteria.Category
	}
	if m.criteria.Priority.Valid() {
		priority = m.criteria.Priority
	}
	return category, priority
}

func (m *Model) setSort(key view.SortKey) {
	m.sortKey = key
	m.refresh()
	m.status = "Sorted by " + string(key)
}

// refresh reloads the store snapshot and rebuilds the visible rows.
func (m *Model) refresh() {
	m.all = m.store.LoadAll()
	visible := view.Sort(view.Filter(m.all, m.criteria), m.sortKey)
	open, done := view.Partition(visible)
	m.openCount = len(open)
	m.tasks = append(open, done...)
	m.cursor = clampCursor(m.cursor, len(m.tasks))
}

func (m *Model) selectID(id string) {
	for i, t := range m.tasks {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

func cycle[T comparable](options []T, cur T) T {
	i := slices.Index(options, cur)
	return options[wrapIndex(i+1, len(options))]
}

func orAll[T ~string](v T) T {
	if v == "" {
		return "all"
	}
	return v
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
