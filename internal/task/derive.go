package task

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

func Statuses() []Status {
	return []Status{StatusAll, StatusActive, StatusCompleted}
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusAll, StatusActive, StatusCompleted:
		return st, nil
	case "":
		return StatusAll, nil
	}
	return "", fmt.Errorf("unknown status filter %q", s)
}

// CategoryFilter is either AllCategories or one Category.
type CategoryFilter string

const AllCategories CategoryFilter = "all"

func ParseCategoryFilter(s string) (CategoryFilter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == string(AllCategories) {
		return AllCategories, nil
	}
	c, err := ParseCategory(s)
	if err != nil {
		return "", err
	}
	return CategoryFilter(c), nil
}

// CategoryFilters lists "all" followed by every category.
func CategoryFilters() []CategoryFilter {
	out := []CategoryFilter{AllCategories}
	for _, c := range Categories() {
		out = append(out, CategoryFilter(c))
	}
	return out
}

func FilterByStatus(tasks []Task, status Status) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		switch status {
		case StatusActive:
			if t.Completed {
				continue
			}
		case StatusCompleted:
			if !t.Completed {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

func FilterByCategory(tasks []Task, filter CategoryFilter) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if filter == AllCategories || filter == "" || Category(filter) == t.Category {
			out = append(out, t)
		}
	}
	return out
}

type Quadrant int

const (
	DoFirst   Quadrant = iota // urgent and important
	Schedule                  // important, not urgent
	Delegate                  // urgent, not important
	Eliminate                 // neither
)

func Quadrants() []Quadrant {
	return []Quadrant{DoFirst, Schedule, Delegate, Eliminate}
}

func (q Quadrant) String() string {
	switch q {
	case DoFirst:
		return "Urgent & Important"
	case Schedule:
		return "Important, Not Urgent"
	case Delegate:
		return "Urgent, Not Important"
	case Eliminate:
		return "Neither"
	}
	return "unknown"
}

// Matrix holds the tasks of each quadrant, indexed by Quadrant.
type Matrix [4][]Task

// IsUrgent reports whether t is due within window days of now, or overdue
// and still open. Tasks without a date are never urgent.
func IsUrgent(t Task, now time.Time, window int) bool {
	if t.ScheduledDate == "" {
		return false
	}
	today := now.Format(DateLayout)
	if t.ScheduledDate < today {
		return !t.Completed
	}
	return t.ScheduledDate <= now.AddDate(0, 0, window).Format(DateLayout)
}

func IsImportant(t Task) bool {
	return t.Priority == High
}

func QuadrantOf(t Task, now time.Time, window int) Quadrant {
	urgent, important := IsUrgent(t, now, window), IsImportant(t)
	switch {
	case urgent && important:
		return DoFirst
	case important:
		return Schedule
	case urgent:
		return Delegate
	default:
		return Eliminate
	}
}

func BucketByQuadrant(tasks []Task, now time.Time, window int) Matrix {
	var m Matrix
	for _, t := range tasks {
		q := QuadrantOf(t, now, window)
		m[q] = append(m[q], t)
	}
	return m
}

// DayBucket is one calendar day and its ordered tasks.
type DayBucket struct {
	Date  time.Time
	Tasks []Task
}

func (b DayBucket) Key() string { return b.Date.Format(DateLayout) }

// BucketByDay returns the tasks scheduled on date's calendar day, timed
// tasks first by time of day, untimed last, ties by creation time.
func BucketByDay(tasks []Task, date time.Time) []Task {
	key := date.Format(DateLayout)
	var out []Task
	for _, t := range tasks {
		if t.ScheduledDate == key {
			out = append(out, t)
		}
	}
	sortDay(out)
	return out
}

// BucketByWeek returns seven day buckets starting at weekStart.
func BucketByWeek(tasks []Task, weekStart time.Time) []DayBucket {
	return bucketRange(tasks, Midnight(weekStart), 7)
}

// BucketByMonth returns one bucket for every day of month's calendar month.
func BucketByMonth(tasks []Task, month time.Time) []DayBucket {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	days := first.AddDate(0, 1, -1).Day()
	return bucketRange(tasks, first, days)
}

func bucketRange(tasks []Task, start time.Time, days int) []DayBucket {
	byDate := make(map[string][]Task)
	for _, t := range tasks {
		if t.ScheduledDate != "" {
			byDate[t.ScheduledDate] = append(byDate[t.ScheduledDate], t)
		}
	}
	out := make([]DayBucket, 0, days)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		day := byDate[d.Format(DateLayout)]
		sortDay(day)
		out = append(out, DayBucket{Date: d, Tasks: day})
	}
	return out
}

func sortDay(tasks []Task) {
	slices.SortStableFunc(tasks, func(a, b Task) int {
		ak, bk := a.TimeKey(), b.TimeKey()
		switch {
		case ak == "" && bk != "":
			return 1
		case ak != "" && bk == "":
			return -1
		case ak != bk:
			return strings.Compare(ak, bk)
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
}

// Midnight truncates t to the start of its calendar day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns the midnight of the most recent first weekday on or
// before t.
func StartOfWeek(t time.Time, first time.Weekday) time.Time {
	day := Midnight(t)
	offset := (int(day.Weekday()) - int(first) + 7) % 7
	return day.AddDate(0, 0, -offset)
}
