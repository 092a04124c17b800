// Package form stages a draft task before it reaches the task model.
package form

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"daily/internal/task"
)

var (
	ErrInvalidDate     = errors.New("date must be YYYY-MM-DD")
	ErrInvalidTime     = errors.New("time must be HH:MM")
	// ErrIncompleteRange means only one end of a time range was given.
	ErrIncompleteRange = errors.New("time range needs both start and end")
)

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "Edit Task"
	}
	return "Add New Task"
}

// Sink receives submitted drafts. *task.Model satisfies it.
type Sink interface {
	Create(in task.Input) (task.Task, error)
	Update(id string, in task.Input) error
}

// Draft is the form's working copy. Times are kept as typed so that
// toggling the range off and on again does not lose them.
type Draft struct {
	Text          string
	Category      task.Category
	Priority      task.Priority
	ScheduledDate string
	ScheduledTime string
	StartTime     string
	EndTime       string
	RangeEnabled  bool
}

func emptyDraft() Draft {
	return Draft{Category: task.Work, Priority: task.Medium}
}

type Controller struct {
	mode    Mode
	editing string
	draft   Draft
}

func New() *Controller {
	return &Controller{draft: emptyDraft()}
}

func (c *Controller) Mode() Mode       { return c.mode }
func (c *Controller) EditingID() string { return c.editing }
func (c *Controller) Draft() Draft      { return c.draft }

// StartEdit loads t into the draft and switches to edit mode. The range
// toggle is on only when both ends were set.
func (c *Controller) StartEdit(t task.Task) {
	c.mode = ModeEdit
	c.editing = t.ID
	c.draft = Draft{
		Text:          t.Text,
		Category:      t.Category,
		Priority:      t.Priority,
		ScheduledDate: t.ScheduledDate,
		ScheduledTime: t.ScheduledTime,
		StartTime:     t.StartTime,
		EndTime:       t.EndTime,
		RangeEnabled:  t.StartTime != "" && t.EndTime != "",
	}
}

func (c *Controller) Cancel() {
	c.reset()
}

func (c *Controller) reset() {
	c.mode = ModeCreate
	c.editing = ""
	c.draft = emptyDraft()
}

func (c *Controller) SetText(v string)          { c.draft.Text = v }
func (c *Controller) SetScheduledDate(v string) { c.draft.ScheduledDate = strings.TrimSpace(v) }
func (c *Controller) SetScheduledTime(v string) { c.draft.ScheduledTime = strings.TrimSpace(v) }
func (c *Controller) SetStartTime(v string)     { c.draft.StartTime = strings.TrimSpace(v) }
func (c *Controller) SetEndTime(v string)       { c.draft.EndTime = strings.TrimSpace(v) }
func (c *Controller) SetRangeEnabled(on bool)   { c.draft.RangeEnabled = on }
func (c *Controller) ToggleRange()              { c.draft.RangeEnabled = !c.draft.RangeEnabled }

func (c *Controller) SetCategory(v string) error {
	cat, err := task.ParseCategory(v)
	if err != nil {
		return err
	}
	c.draft.Category = cat
	return nil
}

func (c *Controller) SetPriority(v string) error {
	p, err := task.ParsePriority(v)
	if err != nil {
		return err
	}
	c.draft.Priority = p
	return nil
}

func (c *Controller) CycleCategory(step int) {
	c.draft.Category = cycle(task.Categories(), c.draft.Category, step)
}

func (c *Controller) CyclePriority(step int) {
	c.draft.Priority = cycle(task.Priorities(), c.draft.Priority, step)
}

func cycle[T comparable](all []T, cur T, step int) T {
	i := slices.Index(all, cur)
	if i < 0 {
		return all[0]
	}
	n := len(all)
	return all[((i+step)%n+n)%n]
}

// CanSubmit mirrors the disabled state of the submit control.
func (c *Controller) CanSubmit() bool {
	return strings.TrimSpace(c.draft.Text) != ""
}

// Payload builds the input the model receives. With the range disabled
// start and end are dropped even if typed; empty values mean absent.
func (c *Controller) Payload() (task.Input, error) {
	d := c.draft
	if !c.CanSubmit() {
		return task.Input{}, task.ErrEmptyText
	}
	in := task.Input{
		Text:          d.Text,
		Category:      d.Category,
		Priority:      d.Priority,
		ScheduledDate: d.ScheduledDate,
		ScheduledTime: d.ScheduledTime,
	}
	if d.RangeEnabled {
		in.StartTime = d.StartTime
		in.EndTime = d.EndTime
	}
	if err := validDate(in.ScheduledDate); err != nil {
		return task.Input{}, err
	}
	for _, v := range []string{in.ScheduledTime, in.StartTime, in.EndTime} {
		if err := validTime(v); err != nil {
			return task.Input{}, err
		}
	}
	if (in.StartTime == "") != (in.EndTime == "") {
		return task.Input{}, ErrIncompleteRange
	}
	return in, nil
}

// Submit hands the draft to sink and returns the id of the created or
// updated task. Nothing reaches sink when the text is blank. Create mode
// clears the draft; edit mode returns to create mode.
func (c *Controller) Submit(sink Sink) (string, error) {
	in, err := c.Payload()
	if err != nil {
		return "", err
	}
	if c.mode == ModeEdit {
		id := c.editing
		if err := sink.Update(id, in); err != nil {
			return "", err
		}
		c.reset()
		return id, nil
	}
	t, err := sink.Create(in)
	if err != nil {
		return "", err
	}
	c.reset()
	return t.ID, nil
}

func validDate(v string) error {
	if v == "" {
		return nil
	}
	if _, err := time.Parse(task.DateLayout, v); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, v)
	}
	return nil
}

func validTime(v string) error {
	if v == "" {
		return nil
	}
	if _, err := time.Parse(task.TimeLayout, v); err != nil || len(v) != len(task.TimeLayout) {
		return fmt.Errorf("%w: %q", ErrInvalidTime, v)
	}
	return nil
}
