// Package task owns the to-do collection and every view derived from it.
package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	ErrEmptyText       = errors.New("task text is empty")
	ErrNotFound        = errors.New("task not found")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidPriority = errors.New("invalid priority")
)

type Category string

const (
	Work     Category = "work"
	Personal Category = "personal"
	Health   Category = "health"
	Learning Category = "learning"
	Errands  Category = "errands"
)

// Categories lists every category in form order.
func Categories() []Category {
	return []Category{Work, Personal, Health, Learning, Errands}
}

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

func (c Category) Valid() bool {
	switch c {
	case Work, Personal, Health, Learning, Errands:
		return true
	}
	return false
}

func (c Category) Label() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

type Priority string

const (
	High   Priority = "high"
	Medium Priority = "medium"
	Low    Priority = "low"
)

func Priorities() []Priority {
	return []Priority{High, Medium, Low}
}

func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	return p, nil
}

func (p Priority) Valid() bool {
	switch p {
	case High, Medium, Low:
		return true
	}
	return false
}

func (p Priority) Label() string {
	if p == "" {
		return ""
	}
	return strings.ToUpper(string(p[:1])) + string(p[1:])
}

// Task is the only persisted entity. Optional schedule fields are empty
// when absent; StartTime and EndTime are set together or not at all.
type Task struct {
	ID            string    `json:"id"`
	Text          string    `json:"text"`
	Completed     bool      `json:"completed"`
	Category      Category  `json:"category"`
	Priority      Priority  `json:"priority"`
	CreatedAt     time.Time `json:"createdAt"`
	ScheduledDate string    `json:"scheduledDate,omitempty"`
	ScheduledTime string    `json:"scheduledTime,omitempty"`
	StartTime     string    `json:"startTime,omitempty"`
	EndTime       string    `json:"endTime,omitempty"`
}

// Kind tells how a task is scheduled.
type Kind int

const (
	KindBacklog  Kind = iota // no date, no time
	KindFloating             // date only
	KindReminder             // single time of day
	KindBlock                // start/end range
)

func (t Task) Kind() Kind {
	switch {
	case t.StartTime != "" && t.EndTime != "":
		return KindBlock
	case t.ScheduledTime != "":
		return KindReminder
	case t.ScheduledDate != "":
		return KindFloating
	default:
		return KindBacklog
	}
}

// Date parses ScheduledDate in loc.
func (t Task) Date(loc *time.Location) (time.Time, bool) {
	if t.ScheduledDate == "" {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(DateLayout, t.ScheduledDate, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// TimeKey is the time of day used to order a task inside its day: the
// range start when present, else the reminder time.
func (t Task) TimeKey() string {
	if t.StartTime != "" {
		return t.StartTime
	}
	return t.ScheduledTime
}

// Input carries the mutable fields for create and update.
type Input struct {
	Text          string
	Category      Category
	Priority      Priority
	ScheduledDate string
	ScheduledTime string
	StartTime     string
	EndTime       string
}

func (in Input) validate() error {
	if strings.TrimSpace(in.Text) == "" {
		return ErrEmptyText
	}
	if !in.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, in.Category)
	}
	if !in.Priority.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, in.Priority)
	}
	return nil
}

func (in Input) apply(t *Task) {
	t.Text = strings.TrimSpace(in.Text)
	t.Category = in.Category
	t.Priority = in.Priority
	t.ScheduledDate = strings.TrimSpace(in.ScheduledDate)
	t.ScheduledTime = strings.TrimSpace(in.ScheduledTime)
	t.StartTime = strings.TrimSpace(in.StartTime)
	t.EndTime = strings.TrimSpace(in.EndTime)
}

// InputOf returns the editable fields of t.
func InputOf(t Task) Input {
	return Input{
		Text:          t.Text,
		Category:      t.Category,
		Priority:      t.Priority,
		ScheduledDate: t.ScheduledDate,
		ScheduledTime: t.ScheduledTime,
		StartTime:     t.StartTime,
		EndTime:       t.EndTime,
	}
}
