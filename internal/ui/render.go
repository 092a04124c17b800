package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"daily/internal/motivation"
	"daily/internal/task"
	"daily/internal/view"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headingStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	faintStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#B0B7C3"})
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	cursorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	doneStyle      = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))
	todayStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	celebrateStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	boxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1)
	tabStyle       = lipgloss.NewStyle().Padding(0, 1)
)

var priorityColors = map[task.Priority]lipgloss.Color{
	task.High:   lipgloss.Color("9"),
	task.Medium: lipgloss.Color("11"),
	task.Low:    lipgloss.Color("10"),
}

var categoryColors = map[task.Category]lipgloss.Color{
	task.Work:     lipgloss.Color("12"),
	task.Personal: lipgloss.Color("13"),
	task.Health:   lipgloss.Color("10"),
	task.Learning: lipgloss.Color("14"),
	task.Errands:  lipgloss.Color("11"),
}

const progressWidth = 24

func (m Model) renderHeader() string {
	now := m.now()
	var who string
	if m.auth.User != nil {
		who = faintStyle.Render("  signed in as " + m.auth.User.Email)
	}
	return titleStyle.Render("Daily Planner") + who + "\n" + faintStyle.Render(now.Format("Monday, January 2, 2006"))
}

func (m Model) renderMotivation() string {
	day := m.now()
	q := motivation.QuoteFor(day)
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%q - %s\n", q.Text, q.Author))
	b.WriteString(faintStyle.Render("Affirmation: " + motivation.AffirmationFor(day)))
	b.WriteString("\n")
	b.WriteString(faintStyle.Render("Tip: " + motivation.TipFor(day)))
	b.WriteString("\n")
	b.WriteString(faintStyle.Render("This week: " + strings.Join(motivation.WeeklyGoals(), " • ")))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderProgress() string {
	p := task.Summarize(m.tasks.Tasks())
	filled := p.Percent() * progressWidth / 100
	bar := celebrateStyle.Render(strings.Repeat("█", filled)) + faintStyle.Render(strings.Repeat("░", progressWidth-filled))

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %d/%d done (%d%%)", bar, p.Completed, p.Total, p.Percent()))
	if p.HighRemaining > 0 {
		b.WriteString(errorStyle.Render(fmt.Sprintf("  %d high priority left", p.HighRemaining)))
	}
	b.WriteString("\n")
	b.WriteString(motivation.Encouragement(p))
	if m.celebrate {
		b.WriteString("\n")
		b.WriteString(celebrateStyle.Render("🎉 All tasks complete! Great work today."))
	}
	return b.String()
}

func (m Model) renderTabs() string {
	var tabs []string
	for _, md := range view.Modes() {
		if md == m.selector.Mode {
			tabs = append(tabs, activeTabStyle.Render(md.Title()))
		} else {
			tabs = append(tabs, tabStyle.Render(md.Title()))
		}
	}
	filters := fmt.Sprintf("status: %s • category: %s", m.selector.Status, categoryFilterLabel(m.selector.Category))
	if label := m.periodLabel(); label != "" {
		filters += " • " + label
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n" + faintStyle.Render(filters)
}

// periodLabel names what the dated views are showing; empty otherwise.
func (m Model) periodLabel() string {
	a := m.selector.Anchor
	switch m.selector.Mode {
	case view.Timetable:
		return a.Format("Mon Jan 2, 2006")
	case view.Week:
		start := task.StartOfWeek(a, m.selector.WeekStart)
		return start.Format("Jan 2") + " - " + start.AddDate(0, 0, 6).Format("Jan 2, 2006")
	case view.Month:
		return a.Format("January 2006")
	}
	return ""
}

func (m Model) renderView() string {
	if m.tasks.Len() == 0 {
		return fmt.Sprintf("No tasks yet. Press '%s' to add one.", m.cfg.Keys.Add)
	}
	sel, _ := m.selected()
	r := m.result
	switch r.Mode {
	case view.Matrix:
		return m.renderMatrix(r, sel.ID)
	case view.Timetable:
		return m.renderTimetable(r, sel.ID)
	case view.Week:
		return m.renderWeek(r, sel.ID)
	case view.Month:
		return m.renderMonth(r, sel.ID)
	}
	if len(r.Tasks) == 0 {
		return faintStyle.Render("No tasks match the current filters.")
	}
	var b strings.Builder
	for _, t := range r.Tasks {
		b.WriteString(renderTask(t, t.ID == sel.ID, true))
		b.WriteString("\n")
	}
	return b.String()
}

func renderTask(t task.Task, selected, showDate bool) string {
	cursor := " "
	if selected {
		cursor = cursorStyle.Render(">")
	}
	checkbox := "[ ]"
	text := t.Text
	if t.Completed {
		checkbox = "[x]"
		text = doneStyle.Render(text)
	}
	cat := lipgloss.NewStyle().Foreground(categoryColors[t.Category]).Render(t.Category.Label())
	prio := lipgloss.NewStyle().Foreground(priorityColors[t.Priority]).Render(t.Priority.Label())

	line := fmt.Sprintf("%s %s %s  %s · %s", cursor, checkbox, text, cat, prio)
	if when := scheduleLabel(t, showDate); when != "" {
		line += faintStyle.Render("  " + when)
	}
	return line
}

func scheduleLabel(t task.Task, showDate bool) string {
	var parts []string
	if showDate {
		if d, ok := t.Date(time.Local); ok {
			parts = append(parts, d.Format("Mon Jan 2"))
		}
	}
	if span := timeSpan(t); span != "" {
		parts = append(parts, span)
	}
	return strings.Join(parts, " ")
}

func timeSpan(t task.Task) string {
	switch t.Kind() {
	case task.KindBlock:
		return t.StartTime + "-" + t.EndTime
	case task.KindReminder:
		return t.ScheduledTime
	}
	return ""
}

func (m Model) renderMatrix(r view.Result, selID string) string {
	w := 36
	if m.width > 0 {
		w = max((m.width-6)/2, 24)
	}
	cell := func(q task.Quadrant) string {
		var b strings.Builder
		b.WriteString(headingStyle.Render(q.String()))
		b.WriteString("\n")
		if len(r.Matrix[q]) == 0 {
			b.WriteString(faintStyle.Render("nothing here"))
		}
		for i, t := range r.Matrix[q] {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(renderTask(t, t.ID == selID, true))
		}
		return boxStyle.Width(w).Render(b.String())
	}
	top := lipgloss.JoinHorizontal(lipgloss.Top, cell(task.DoFirst), cell(task.Schedule))
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, cell(task.Delegate), cell(task.Eliminate))
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}

func (m Model) renderTimetable(r view.Result, selID string) string {
	var b strings.Builder
	day := r.Days[0]
	b.WriteString(m.dayHeading(day.Date, "Monday, January 2"))
	b.WriteString("\n")
	if len(day.Tasks) == 0 {
		b.WriteString(faintStyle.Render("  nothing scheduled"))
		b.WriteString("\n")
	}
	for _, t := range day.Tasks {
		slot := timeSpan(t)
		if slot == "" {
			slot = "anytime"
		}
		b.WriteString(fmt.Sprintf("%-11s %s\n", slot, renderTask(t, t.ID == selID, false)))
	}
	b.WriteString(renderBacklog(r.Backlog, selID))
	return b.String()
}

func (m Model) renderWeek(r view.Result, selID string) string {
	var b strings.Builder
	for _, d := range r.Days {
		b.WriteString(m.dayHeading(d.Date, "Mon Jan 2"))
		b.WriteString("\n")
		if len(d.Tasks) == 0 {
			b.WriteString(faintStyle.Render("  nothing planned"))
			b.WriteString("\n")
		}
		for _, t := range d.Tasks {
			b.WriteString(renderTask(t, t.ID == selID, false))
			b.WriteString("\n")
		}
	}
	b.WriteString(renderBacklog(r.Backlog, selID))
	return b.String()
}

func (m Model) renderMonth(r view.Result, selID string) string {
	var b strings.Builder
	b.WriteString(m.monthGrid(r.Days))
	b.WriteString("\n")
	for _, d := range r.Days {
		if len(d.Tasks) == 0 {
			continue
		}
		b.WriteString(m.dayHeading(d.Date, "Mon Jan 2"))
		b.WriteString("\n")
		for _, t := range d.Tasks {
			b.WriteString(renderTask(t, t.ID == selID, false))
			b.WriteString("\n")
		}
	}
	b.WriteString(renderBacklog(r.Backlog, selID))
	return b.String()
}

// monthGrid draws the calendar with a dot on days that have tasks.
func (m Model) monthGrid(days []task.DayBucket) string {
	if len(days) == 0 {
		return ""
	}
	var b strings.Builder
	first := m.selector.WeekStart
	for i := 0; i < 7; i++ {
		b.WriteString(fmt.Sprintf("%-4s", time.Weekday((int(first)+i)%7).String()[:2]))
	}
	b.WriteString("\n")

	lead := (int(days[0].Date.Weekday()) - int(first) + 7) % 7
	b.WriteString(strings.Repeat("    ", lead))
	today := m.now().Format(task.DateLayout)
	col := lead
	for _, d := range days {
		mark := " "
		if len(d.Tasks) > 0 {
			mark = "•"
		}
		cell := fmt.Sprintf("%2d%s", d.Date.Day(), mark)
		if d.Key() == today {
			cell = todayStyle.Render(cell)
		}
		b.WriteString(cell + " ")
		col++
		if col == 7 {
			b.WriteString("\n")
			col = 0
		}
	}
	if col != 0 {
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) dayHeading(d time.Time, layout string) string {
	label := d.Format(layout)
	if d.Format(task.DateLayout) == m.now().Format(task.DateLayout) {
		return todayStyle.Render(label + " (today)")
	}
	return headingStyle.Render(label)
}

func renderBacklog(tasks []task.Task, selID string) string {
	if len(tasks) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(headingStyle.Render("Unscheduled"))
	b.WriteString("\n")
	for _, t := range tasks {
		b.WriteString(renderTask(t, t.ID == selID, false))
		b.WriteString("\n")
	}
	return b.String()
}
