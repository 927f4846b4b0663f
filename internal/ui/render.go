package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"taskflow/internal/config"
	"taskflow/internal/task"
	"taskflow/internal/view"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	overdueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	todayStyle = lipgloss.NewStyle().
			Bold(true).
			Reverse(true)
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("taskflow"))
	b.WriteString("  ")
	b.WriteString(m.filterLine())
	b.WriteString("\n\n")

	switch m.screen {
	case screenStats:
		b.WriteString(m.renderStats())
	case screenCalendar:
		b.WriteString(m.renderCalendar())
	default:
		b.WriteString(m.renderTasksScreen())
	}

	b.WriteString("\n\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(renderHelp(m.cfg.Keys, m.screen)))

	return b.String()
}

func (m Model) filterLine() string {
	parts := []string{
		"category:" + string(orAll(m.criteria.Category)),
		"priority:" + string(orAll(m.criteria.Priority)),
		"sort:" + string(m.sortKey),
	}
	if m.criteria.Search != "" {
		parts = append(parts, "search:"+m.criteria.Search)
	}
	return strings.Join(parts, " • ")
}

func (m Model) renderTasksScreen() string {
	var b strings.Builder
	if len(m.all) == 0 {
		b.WriteString(fmt.Sprintf("No tasks yet. Press '%s' to add one.", m.cfg.Keys.Add))
	} else if len(m.tasks) == 0 {
		b.WriteString("No tasks match the current filters.")
	} else {
		b.WriteString(m.renderTaskList())
	}

	b.WriteString("\n---\n")

	switch {
	case m.form != nil:
		b.WriteString("Task editor (tab/shift+tab to move, enter to advance, ctrl+s to save, esc to cancel)")
		b.WriteString("\n\n")
		b.WriteString(m.renderFormBox())
		b.WriteString("\n")
		b.WriteString("Field: " + m.form.currentLabel())
		b.WriteString("\n")
		b.WriteString(m.input.View())
	case m.mode == modeSearch:
		b.WriteString("Search\n")
		b.WriteString(m.input.View())
	default:
		b.WriteString(m.renderDetailPanel())
	}
	return b.String()
}

func (m Model) renderTaskList() string {
	now := m.now()
	var b strings.Builder
	b.WriteString(sectionStyle.Render(fmt.Sprintf("Open (%d)", m.openCount)))
	b.WriteString("\n")
	for i, t := range m.tasks {
		if i == m.openCount {
			b.WriteString("\n")
			b.WriteString(sectionStyle.Render(fmt.Sprintf("Completed (%d)", len(m.tasks)-m.openCount)))
			b.WriteString("\n")
		}

		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = ">"
		}

		body := fmt.Sprintf("%s %s %s", checkmark(t.Completed), t.Title, badges(t, now.Location()))
		switch {
		case t.Completed:
			body = doneStyle.Render(body)
		case t.Overdue(now):
			body = overdueStyle.Render(body + " (overdue)")
		}

		b.WriteString(cursor + " " + body)
		b.WriteString("\n")
	}
	return b.String()
}

func badges(t task.Task, loc *time.Location) string {
	parts := []string{"[" + string(t.Priority) + "]", "#" + string(t.Category)}
	if t.DueDate != nil {
		parts = append(parts, "due "+formatDate(t.DueDate, loc))
	}
	if t.Recurring != nil {
		parts = append(parts, "↻ "+t.Recurring.String())
	}
	return strings.Join(parts, " ")
}

func (m Model) renderFormBox() string {
	var b strings.Builder
	for i, name := range formFields() {
		prefix := " "
		if i == m.form.index {
			prefix = ">"
		}
		val := m.form.values[i]
		if strings.TrimSpace(val) == "" {
			val = "(empty)"
		}
		b.WriteString(fmt.Sprintf("%s %-36s : %s\n", prefix, name, val))
	}
	return b.String()
}

func (m Model) renderDetailPanel() string {
	if len(m.tasks) == 0 {
		return "No task selected"
	}
	t := m.tasks[clampCursor(m.cursor, len(m.tasks))]
	loc := m.now().Location()
	var b strings.Builder
	b.WriteString("Details\n")
	b.WriteString(fmt.Sprintf("Title       : %s\n", t.Title))
	b.WriteString(fmt.Sprintf("Description : %s\n", emptyPlaceholder(t.Description)))
	b.WriteString(fmt.Sprintf("Status      : %s\n", humanDone(t.Completed)))
	b.WriteString(fmt.Sprintf("Category    : %s\n", t.Category))
	b.WriteString(fmt.Sprintf("Priority    : %s\n", t.Priority))
	b.WriteString(fmt.Sprintf("Due         : %s\n", emptyPlaceholder(formatDate(t.DueDate, loc))))
	b.WriteString(fmt.Sprintf("Recurring   : %s\n", emptyPlaceholder(t.Recurring.String())))
	b.WriteString(fmt.Sprintf("Tags        : %s\n", emptyPlaceholder(strings.Join(t.Tags, ", "))))
	b.WriteString(fmt.Sprintf("Assignees   : %s\n", emptyPlaceholder(strings.Join(t.Assignees, ", "))))
	return b.String()
}

func (m Model) renderStats() string {
	now := m.now()
	s := view.Summarize(m.all, now)

	var b strings.Builder
	b.WriteString(sectionStyle.Render("Summary"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Total %d • Completed %d • Pending %d • Overdue %d • Due today %d • Completion %d%%\n",
		s.Total, s.Completed, s.Pending, s.Overdue, s.DueToday, s.CompletionRate))

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("By category"))
	b.WriteString("\n")
	categories := view.ByCategory(m.all)
	for _, c := range task.Categories() {
		b.WriteString(fmt.Sprintf("  %-10s %3d\n", c, categories[c]))
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("By priority"))
	b.WriteString("\n")
	priorities := view.ByPriority(m.all)
	for _, p := range task.Priorities() {
		b.WriteString(fmt.Sprintf("  %-10s %3d\n", p, priorities[p]))
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Weekly trend"))
	b.WriteString("\n")
	for _, w := range view.WeeklyTrend(m.all, now, m.cfg.TrendWeeks) {
		b.WriteString(fmt.Sprintf("  %-8s %s  %-10s %3d%% (%d/%d)\n",
			w.Label, w.Start.Format("Jan 02"), strings.Repeat("█", w.Rate()/10), w.Rate(), w.Completed, w.Total))
	}

	st := view.Streaks(m.all, now)
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Streaks"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  current %d days • longest %d days • %d completed\n", st.Current, st.Longest, st.CompletedTotal))
	return b.String()
}

func (m Model) renderCalendar() string {
	now := m.now()
	grid := view.Month(m.all, m.month.Year(), m.month.Month(), now.Location())

	var b strings.Builder
	b.WriteString(sectionStyle.Render(fmt.Sprintf("%s %d", grid.Month, grid.Year)))
	b.WriteString("\n")
	b.WriteString(" Sun  Mon  Tue  Wed  Thu  Fri  Sat\n")
	for _, row := range grid.Weeks() {
		for _, day := range row {
			if day == nil {
				b.WriteString("     ")
				continue
			}
			cell := fmt.Sprintf("%3d", day.Date.Day())
			if n := len(day.Tasks); n > 0 {
				cell += fmt.Sprintf("%-2s", fmt.Sprintf("•%d", n))
			} else {
				cell += "  "
			}
			if task.SameDay(day.Date, now) {
				cell = todayStyle.Render(cell)
			}
			b.WriteString(cell)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	empty := true
	for _, day := range grid.Days {
		for _, t := range day.Tasks {
			empty = false
			line := fmt.Sprintf("  %s  %s %s", day.Date.Format("Jan 02"), checkmark(t.Completed), t.Title)
			if t.Overdue(now) {
				line = overdueStyle.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	if empty {
		b.WriteString("  Nothing due this month.\n")
	}
	return b.String()
}

func renderHelp(k config.Keymap, s screen) string {
	switch s {
	case screenStats:
		return fmt.Sprintf("%s back • %s calendar • %s quit", k.Cancel, k.Calendar, k.Quit)
	case screenCalendar:
		return fmt.Sprintf("%s/%s month • %s back • %s stats • %s quit", k.PrevMonth, k.NextMonth, k.Cancel, k.Stats, k.Quit)
	}
	return fmt.Sprintf("%s/%s move • %s add • %s detail • %s toggle • %s delete • %s edit • %s search • %s/%s filter • %s/%s/%s sort • %s stats • %s calendar • %s quit",
		k.Up, k.Down, k.Add, k.Detail, keyName(k.Toggle), k.Delete, k.Edit, k.Search, k.Category, k.Priority,
		k.SortCreated, k.SortDue, k.SortPriority, k.Stats, k.Calendar, k.Quit)
}

func detailLine(t task.Task, now time.Time) string {
	info := fmt.Sprintf("%s • %s • %s • %s", t.Title, humanDone(t.Completed), t.Category, t.Priority)
	if t.DueDate != nil {
		info += " • due:" + formatDate(t.DueDate, now.Location())
		if t.Overdue(now) {
			info += " (overdue)"
		}
	}
	if len(t.Tags) > 0 {
		info += " • tags:" + strings.Join(t.Tags, ",")
	}
	if len(t.Assignees) > 0 {
		info += " • assignees:" + strings.Join(t.Assignees, ",")
	}
	if t.Recurring != nil {
		info += " • every " + t.Recurring.String()
	}
	return info
}

func keyName(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func quoteTitle(s string) string {
	return fmt.Sprintf("%q", s)
}

func checkmark(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func emptyPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(empty)"
	}
	return v
}

func humanDone(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}
