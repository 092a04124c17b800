package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"daily/internal/form"
	"daily/internal/task"
)

type field int

const (
	fieldText field = iota
	fieldCategory
	fieldPriority
	fieldDate
	fieldTime
	fieldRange
	fieldStart
	fieldEnd
)

func (f field) label() string {
	switch f {
	case fieldText:
		return "task"
	case fieldCategory:
		return "category"
	case fieldPriority:
		return "priority"
	case fieldDate:
		return "date (YYYY-MM-DD)"
	case fieldTime:
		return "time (HH:MM)"
	case fieldRange:
		return "time range"
	case fieldStart:
		return "start (HH:MM)"
	case fieldEnd:
		return "end (HH:MM)"
	}
	return ""
}

// choice fields are changed with left/right/space instead of typing.
func (f field) choice() bool {
	return f == fieldCategory || f == fieldPriority || f == fieldRange
}

// formFields lists the editable fields; start and end only exist while
// the range toggle is on.
func formFields(d form.Draft) []field {
	fs := []field{fieldText, fieldCategory, fieldPriority, fieldDate, fieldTime, fieldRange}
	if d.RangeEnabled {
		fs = append(fs, fieldStart, fieldEnd)
	}
	return fs
}

func draftValue(d form.Draft, f field) string {
	switch f {
	case fieldText:
		return d.Text
	case fieldCategory:
		return d.Category.Label()
	case fieldPriority:
		return d.Priority.Label()
	case fieldDate:
		return d.ScheduledDate
	case fieldTime:
		return d.ScheduledTime
	case fieldRange:
		if d.RangeEnabled {
			return "on"
		}
		return "off"
	case fieldStart:
		return d.StartTime
	case fieldEnd:
		return d.EndTime
	}
	return ""
}

func setDraftValue(c *form.Controller, f field, v string) {
	switch f {
	case fieldText:
		c.SetText(v)
	case fieldDate:
		c.SetScheduledDate(v)
	case fieldTime:
		c.SetScheduledTime(v)
	case fieldStart:
		c.SetStartTime(v)
	case fieldEnd:
		c.SetEndTime(v)
	}
}

func (m Model) currentField() field {
	fs := formFields(m.form.Draft())
	return fs[clampCursor(m.fieldIdx, len(fs))]
}

func (m *Model) loadField() {
	f := m.currentField()
	m.input.SetValue(draftValue(m.form.Draft(), f))
	m.input.Placeholder = f.label()
	if f.choice() {
		m.input.Blur()
	} else {
		m.input.Focus()
	}
}

func (m *Model) storeField() {
	if f := m.currentField(); !f.choice() {
		setDraftValue(m.form, f, m.input.Value())
	}
}

// openForm starts the form in edit mode for t, or in create mode when t
// is nil.
func (m Model) openForm(t *task.Task) Model {
	if t != nil {
		m.form.StartEdit(*t)
	} else {
		m.form.Cancel()
	}
	m.mode = modeForm
	m.fieldIdx = 0
	m.loadField()
	m.status = m.formPrompt()
	return m
}

func (m Model) closeForm() Model {
	m.mode = modeList
	m.input.SetValue("")
	m.input.Blur()
	return m
}

func (m Model) updateFormMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(formFields(m.form.Draft()))
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.form.Cancel()
		m = m.closeForm()
		m.status = "Cancelled"
		return m, nil
	case "tab", "down":
		m.storeField()
		m.fieldIdx = wrapIndex(m.fieldIdx+1, n)
		m.loadField()
		m.status = m.formPrompt()
		return m, nil
	case "shift+tab", "up":
		m.storeField()
		m.fieldIdx = wrapIndex(m.fieldIdx-1, n)
		m.loadField()
		m.status = m.formPrompt()
		return m, nil
	case "ctrl+s":
		return m.submitForm()
	case m.cfg.Keys.Confirm, "enter":
		m.storeField()
		if m.fieldIdx >= n-1 {
			return m.submitForm()
		}
		m.fieldIdx++
		m.loadField()
		m.status = m.formPrompt()
		return m, nil
	}

	if f := m.currentField(); f.choice() {
		step := 0
		switch key {
		case "left", "h":
			step = -1
		case "right", "l", " ":
			step = 1
		}
		if step == 0 {
			return m, nil
		}
		switch f {
		case fieldCategory:
			m.form.CycleCategory(step)
		case fieldPriority:
			m.form.CyclePriority(step)
		case fieldRange:
			m.form.ToggleRange()
		}
		m.loadField()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitForm saves the draft. Validation errors keep the form open; an
// edit whose task vanished closes it silently.
func (m Model) submitForm() (tea.Model, tea.Cmd) {
	m.storeField()
	editing := m.form.Mode() == form.ModeEdit

	id, err := m.form.Submit(m.tasks)
	switch {
	case errors.Is(err, task.ErrEmptyText):
		m.status = "Task text cannot be empty"
		return m, nil
	case errors.Is(err, form.ErrInvalidDate), errors.Is(err, form.ErrInvalidTime),
		errors.Is(err, form.ErrIncompleteRange),
		errors.Is(err, task.ErrInvalidCategory), errors.Is(err, task.ErrInvalidPriority):
		m.status = err.Error()
		return m, nil
	case errors.Is(err, task.ErrNotFound):
		m.form.Cancel()
		m.status = ""
	case err != nil:
		m.form.Cancel()
		m.status = fmt.Sprintf("save failed: %v", err)
	case editing:
		m.status = "Updated task"
	default:
		m.status = "Added task"
	}

	m.celebrate = m.celebrate && task.Summarize(m.tasks.Tasks()).AllDone()
	m = m.closeForm()
	m.refresh()
	if id != "" {
		m.selectID(id)
	}
	return m, nil
}

func (m Model) formPrompt() string {
	fs := formFields(m.form.Draft())
	return fmt.Sprintf("%s: editing %s (field %d of %d)", m.form.Mode(), m.currentField().label(), clampCursor(m.fieldIdx, len(fs))+1, len(fs))
}

func (m Model) renderForm() string {
	d := m.form.Draft()
	cur := m.currentField()
	var b strings.Builder
	b.WriteString(headingStyle.Render(m.form.Mode().String()))
	b.WriteString("\n\n")
	for _, f := range formFields(d) {
		prefix := " "
		if f == cur {
			prefix = ">"
		}
		val := draftValue(d, f)
		if f == cur && !f.choice() {
			val = m.input.View()
		} else if f.choice() {
			val = "‹ " + val + " ›"
		} else if strings.TrimSpace(val) == "" {
			val = faintStyle.Render("(empty)")
		}
		b.WriteString(fmt.Sprintf("%s %-18s : %s\n", prefix, f.label(), val))
	}
	if !m.form.CanSubmit() {
		b.WriteString(faintStyle.Render("Enter a task to enable saving."))
		b.WriteString("\n")
	}
	return b.String()
}
