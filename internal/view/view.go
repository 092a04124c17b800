// Package view holds which presentation is active and hands it the
// filtered and bucketed tasks it needs.
package view

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"daily/internal/auth"
	"daily/internal/task"
)

type Mode string

const (
	List      Mode = "list"
	Matrix    Mode = "matrix"
	Timetable Mode = "timetable"
	Week      Mode = "week"
	Month     Mode = "month"
)

func Modes() []Mode {
	return []Mode{List, Matrix, Timetable, Week, Month}
}

func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if m == "" {
		return List, nil
	}
	if !slices.Contains(Modes(), m) {
		return "", fmt.Errorf("unknown view %q", s)
	}
	return m, nil
}

func (m Mode) Title() string {
	switch m {
	case Matrix:
		return "Eisenhower Matrix"
	case Timetable:
		return "Daily Timetable"
	case Week:
		return "Week Schedule"
	case Month:
		return "Month Schedule"
	}
	return "Task List"
}

// Selector is the view mode plus the two active filters. Anchor is the
// day the dated views are centered on.
type Selector struct {
	Mode      Mode
	Status    task.Status
	Category  task.CategoryFilter
	Anchor    time.Time
	WeekStart time.Weekday
	// UrgencyDays is the matrix lookahead; see task.IsUrgent.
	UrgencyDays int
}

func NewSelector(now time.Time) Selector {
	return Selector{
		Mode:        List,
		Status:      task.StatusAll,
		Category:    task.AllCategories,
		Anchor:      task.Midnight(now),
		WeekStart:   time.Monday,
		UrgencyDays: 1,
	}
}

// Result holds what the active Mode renders; the other fields stay empty.
type Result struct {
	Mode     Mode
	Tasks    []Task
	Matrix   task.Matrix
	Days     []task.DayBucket
	Backlog  []Task
	Filtered int
}

type Task = task.Task

// Route filters tasks by status then category and derives the data the
// active mode renders. Backlog holds filtered tasks without a date for the
// dated views.
func (s Selector) Route(tasks []Task, now time.Time) Result {
	filtered := task.FilterByCategory(task.FilterByStatus(tasks, s.Status), s.Category)
	r := Result{Mode: s.Mode, Filtered: len(filtered)}
	switch s.Mode {
	case Matrix:
		r.Matrix = task.BucketByQuadrant(filtered, now, s.UrgencyDays)
	case Timetable:
		r.Days = []task.DayBucket{{Date: s.Anchor, Tasks: task.BucketByDay(filtered, s.Anchor)}}
		r.Backlog = backlog(filtered)
	case Week:
		r.Days = task.BucketByWeek(filtered, task.StartOfWeek(s.Anchor, s.WeekStart))
		r.Backlog = backlog(filtered)
	case Month:
		r.Days = task.BucketByMonth(filtered, s.Anchor)
		r.Backlog = backlog(filtered)
	default:
		r.Mode = List
		r.Tasks = filtered
	}
	return r
}

func backlog(tasks []Task) []Task {
	var out []Task
	for _, t := range tasks {
		if t.ScheduledDate == "" {
			out = append(out, t)
		}
	}
	return out
}

func (s *Selector) Next() { s.Cycle(1) }
func (s *Selector) Prev() { s.Cycle(-1) }

// Cycle moves step modes forward, wrapping at both ends.
func (s *Selector) Cycle(step int) {
	s.Mode = cycle(Modes(), s.Mode, step)
}

func (s *Selector) CycleStatus() {
	s.Status = cycle(task.Statuses(), s.Status, 1)
}

func (s *Selector) CycleCategory() {
	s.Category = cycle(task.CategoryFilters(), s.Category, 1)
}

// Shift moves the anchor by n days, weeks or months depending on the mode.
func (s *Selector) Shift(n int) {
	switch s.Mode {
	case Week:
		s.Anchor = s.Anchor.AddDate(0, 0, 7*n)
	case Month:
		first := time.Date(s.Anchor.Year(), s.Anchor.Month(), 1, 0, 0, 0, 0, s.Anchor.Location())
		s.Anchor = first.AddDate(0, n, 0)
	default:
		s.Anchor = s.Anchor.AddDate(0, 0, n)
	}
}

func (s *Selector) Today(now time.Time) {
	s.Anchor = task.Midnight(now)
}

func cycle[T comparable](all []T, cur T, step int) T {
	i := slices.Index(all, cur)
	if i < 0 {
		return all[0]
	}
	n := len(all)
	return all[((i+step)%n+n)%n]
}

type Screen int

const (
	ScreenLoading Screen = iota
	ScreenLogin
	ScreenTasks
)

// Gate decides what the app may show for an auth state: nothing but a
// waiting screen while loading, only the login surface without a user.
func Gate(st auth.State) Screen {
	switch {
	case st.Loading:
		return ScreenLoading
	case st.User == nil:
		return ScreenLogin
	default:
		return ScreenTasks
	}
}
