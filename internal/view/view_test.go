package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily/internal/auth"
	"daily/internal/task"
)

var now = time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC) // a Wednesday

func sample() []Task {
	return []Task{
		{ID: "a", Text: "ship", Category: task.Work, Priority: task.High, ScheduledDate: "2024-06-12", StartTime: "10:00", EndTime: "11:00"},
		{ID: "b", Text: "run", Category: task.Health, Priority: task.Low, ScheduledDate: "2024-06-12", ScheduledTime: "07:30", Completed: true},
		{ID: "c", Text: "read", Category: task.Learning, Priority: task.Medium},
		{ID: "d", Text: "groceries", Category: task.Errands, Priority: task.High, ScheduledDate: "2024-06-30"},
	}
}

func ids(ts []Task) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.ID)
	}
	return out
}

func TestRoute_ListAppliesBothFilters(t *testing.T) {
	s := NewSelector(now)
	r := s.Route(sample(), now)
	assert.Equal(t, List, r.Mode)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(r.Tasks))

	s.Status = task.StatusActive
	s.Category = task.CategoryFilter(task.Work)
	r = s.Route(sample(), now)
	assert.Equal(t, []string{"a"}, ids(r.Tasks))
	assert.Equal(t, 1, r.Filtered)
}

func TestRoute_Matrix(t *testing.T) {
	s := NewSelector(now)
	s.Mode = Matrix
	r := s.Route(sample(), now)
	assert.Empty(t, r.Tasks)
	assert.Equal(t, []string{"a"}, ids(r.Matrix[task.DoFirst]))
	assert.Equal(t, []string{"d"}, ids(r.Matrix[task.Schedule]))
	assert.Equal(t, []string{"b"}, ids(r.Matrix[task.Delegate]))
	assert.Equal(t, []string{"c"}, ids(r.Matrix[task.Eliminate]))
}

func TestRoute_TimetableUsesAnchor(t *testing.T) {
	s := NewSelector(now)
	s.Mode = Timetable
	r := s.Route(sample(), now)
	require.Len(t, r.Days, 1)
	assert.Equal(t, []string{"b", "a"}, ids(r.Days[0].Tasks))
	assert.Equal(t, []string{"c"}, ids(r.Backlog))

	s.Shift(1)
	r = s.Route(sample(), now)
	assert.Empty(t, r.Days[0].Tasks)
	assert.Equal(t, "2024-06-13", r.Days[0].Key())
}

func TestRoute_WeekStartsOnConfiguredDay(t *testing.T) {
	s := NewSelector(now)
	s.Mode = Week
	r := s.Route(sample(), now)
	require.Len(t, r.Days, 7)
	assert.Equal(t, "2024-06-10", r.Days[0].Key())
	assert.Equal(t, []string{"b", "a"}, ids(r.Days[2].Tasks))

	s.WeekStart = time.Sunday
	r = s.Route(sample(), now)
	assert.Equal(t, "2024-06-09", r.Days[0].Key())
}

func TestRoute_Month(t *testing.T) {
	s := NewSelector(now)
	s.Mode = Month
	r := s.Route(sample(), now)
	require.Len(t, r.Days, 30)
	assert.Equal(t, []string{"d"}, ids(r.Days[29].Tasks))

	s.Shift(1)
	assert.Equal(t, "2024-07-01", s.Anchor.Format(task.DateLayout))
	r = s.Route(sample(), now)
	assert.Len(t, r.Days, 31)
}

func TestShiftWeekAndToday(t *testing.T) {
	s := NewSelector(now)
	s.Mode = Week
	s.Shift(-1)
	assert.Equal(t, "2024-06-05", s.Anchor.Format(task.DateLayout))
	s.Today(now)
	assert.Equal(t, "2024-06-12", s.Anchor.Format(task.DateLayout))
}

func TestCycleWraps(t *testing.T) {
	s := NewSelector(now)
	s.Prev()
	assert.Equal(t, Month, s.Mode)
	s.Next()
	assert.Equal(t, List, s.Mode)
	s.Cycle(7)
	assert.Equal(t, Timetable, s.Mode)

	s.CycleStatus()
	assert.Equal(t, task.StatusActive, s.Status)
	s.CycleStatus()
	s.CycleStatus()
	assert.Equal(t, task.StatusAll, s.Status)

	s.CycleCategory()
	assert.Equal(t, task.CategoryFilter(task.Work), s.Category)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" Week ")
	require.NoError(t, err)
	assert.Equal(t, Week, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, List, m)

	_, err = ParseMode("kanban")
	assert.Error(t, err)
}

func TestGate(t *testing.T) {
	assert.Equal(t, ScreenLoading, Gate(auth.State{Loading: true, User: &auth.User{ID: "u"}}))
	assert.Equal(t, ScreenLogin, Gate(auth.State{}))
	assert.Equal(t, ScreenTasks, Gate(auth.State{User: &auth.User{ID: "u"}}))
}
