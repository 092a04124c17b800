package ui

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily/internal/auth"
	"daily/internal/config"
	"daily/internal/form"
	"daily/internal/storage"
	"daily/internal/task"
	"daily/internal/view"
)

var (
	quiet   = log.New(io.Discard, "", 0)
	fixedAt = time.Date(2024, 6, 12, 9, 0, 0, 0, time.Local)
	ada     = &auth.User{ID: "u-1", Email: "ada@example.com"}
)

type fakeGateway struct {
	signInErr error
	signUp    auth.SignUpResult
	signOuts  int
}

type noopSub struct{}

func (noopSub) Unsubscribe() {}

func (f *fakeGateway) GetSession(context.Context) (*auth.Session, error) { return nil, nil }
func (f *fakeGateway) GetUser(context.Context) (*auth.User, error)       { return nil, nil }
func (f *fakeGateway) SignIn(context.Context, string, string) error      { return f.signInErr }
func (f *fakeGateway) SignUp(context.Context, string, string) (auth.SignUpResult, error) {
	return f.signUp, nil
}
func (f *fakeGateway) SignOut(context.Context) error {
	f.signOuts++
	return nil
}
func (f *fakeGateway) OnAuthStateChange(func(auth.Event, *auth.Session)) auth.Subscription {
	return noopSub{}
}

func newTestModel(t *testing.T, gw auth.Gateway) Model {
	t.Helper()
	tasks, err := task.Load(storage.NewMemory(), quiet)
	require.NoError(t, err)
	n := 0
	tasks.Now = func() time.Time { n++; return fixedAt.Add(time.Duration(n) * time.Second) }

	cfg, err := config.LoadOrCreate(t.TempDir() + "/config.toml")
	require.NoError(t, err)

	p := auth.NewProvider(gw, quiet)
	t.Cleanup(p.Close)
	return New(context.Background(), Deps{
		Tasks:  tasks,
		Auth:   p,
		Config: cfg,
		Logger: quiet,
		Now:    func() time.Time { return fixedAt },
	})
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func key(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		m, _ = send(m, key(k))
	}
	return m
}

func signedIn(t *testing.T) Model {
	m := newTestModel(t, &fakeGateway{})
	m, _ = send(m, authStateMsg{state: auth.State{User: ada, Session: &auth.Session{AccessToken: "tok"}}})
	return m
}

func TestGate_LoadingIgnoresKeys(t *testing.T) {
	m := newTestModel(t, &fakeGateway{})
	assert.Contains(t, m.View(), "Loading")

	m = press(m, "a")
	assert.Equal(t, modeList, m.mode)
	assert.Contains(t, m.View(), "Loading")
}

func TestGate_NoUserShowsOnlyLogin(t *testing.T) {
	m := newTestModel(t, &fakeGateway{})
	m, _ = send(m, authStateMsg{state: auth.State{}})

	out := m.View()
	assert.Contains(t, out, "Sign in to your account")
	assert.NotContains(t, out, "Task List")

	m = press(m, "a")
	assert.Equal(t, modeList, m.mode, "task keys do nothing on the login screen")
}

func TestLogin_ErrorMessageShown(t *testing.T) {
	gw := &fakeGateway{signInErr: &auth.Error{Status: 400, Message: "Invalid login credentials"}}
	m := newTestModel(t, gw)
	m, _ = send(m, authStateMsg{state: auth.State{}})

	m = press(m, "ada@example.com", "tab", "secret")
	m, cmd := send(m, key("enter"))
	require.NotNil(t, cmd)
	assert.True(t, m.login.state.Pending)
	assert.Contains(t, m.View(), "Signing in...")

	_, again := send(m, key("enter"))
	assert.Nil(t, again, "second submit while pending is ignored")

	m, _ = send(m, cmd())
	assert.False(t, m.login.state.Pending)
	assert.Contains(t, m.View(), "Invalid login credentials")
}

func TestLogin_RequiresBothFields(t *testing.T) {
	m := newTestModel(t, &fakeGateway{})
	m, _ = send(m, authStateMsg{state: auth.State{}})
	m, cmd := send(m, key("enter"))
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Email and password are required")
}

func TestLogin_SignUpConfirmation(t *testing.T) {
	gw := &fakeGateway{signUp: auth.SignUpResult{EmailConfirmationRequired: true}}
	m := newTestModel(t, gw)
	m, _ = send(m, authStateMsg{state: auth.State{}})

	m = press(m, "ctrl+s")
	assert.Contains(t, m.View(), "Create your account")

	m = press(m, "new@example.com", "tab", "secret")
	m, cmd := send(m, key("enter"))
	require.NotNil(t, cmd)
	m, _ = send(m, cmd())

	out := m.View()
	assert.Contains(t, out, "Check your email")
	assert.Contains(t, out, "new@example.com")

	m = press(m, "enter")
	assert.Contains(t, m.View(), "Sign in to your account")
}

func TestTasks_AddThroughForm(t *testing.T) {
	m := signedIn(t)
	assert.Contains(t, m.View(), "No tasks yet")
	assert.Contains(t, m.View(), "This week:")

	m = press(m, "a")
	require.Equal(t, modeForm, m.mode)
	assert.Contains(t, m.View(), "Add New Task")

	m = press(m, "ctrl+s")
	assert.Equal(t, modeForm, m.mode, "blank text keeps the form open")
	assert.Equal(t, "Task text cannot be empty", m.status)
	assert.Zero(t, m.tasks.Len())

	m = press(m, "Write report", "tab", "right", "tab", "left", "tab", "2024-06-12", "ctrl+s")
	assert.Equal(t, modeList, m.mode)
	require.Equal(t, 1, m.tasks.Len())
	got := m.tasks.Tasks()[0]
	assert.Equal(t, "Write report", got.Text)
	assert.Equal(t, task.Personal, got.Category)
	assert.Equal(t, task.High, got.Priority)
	assert.Equal(t, "2024-06-12", got.ScheduledDate)
	assert.Contains(t, m.View(), "Write report")
}

func TestTasks_HalfRangeKeepsFormOpen(t *testing.T) {
	m := signedIn(t)
	m = press(m, "a", "Standup", "tab", "tab", "tab", "tab", "tab", "right", "tab", "09:00", "ctrl+s")
	assert.Equal(t, modeForm, m.mode)
	assert.Equal(t, form.ErrIncompleteRange.Error(), m.status)
	assert.Zero(t, m.tasks.Len())

	m = press(m, "tab", "10:00", "ctrl+s")
	assert.Equal(t, modeList, m.mode)
	require.Equal(t, 1, m.tasks.Len())
	got := m.tasks.Tasks()[0]
	assert.Equal(t, "09:00", got.StartTime)
	assert.Equal(t, "10:00", got.EndTime)
}

func TestTasks_ToggleVanishedTaskIsSilent(t *testing.T) {
	m := signedIn(t)
	created, err := m.tasks.Create(task.Input{Text: "gone", Category: task.Work, Priority: task.Low})
	require.NoError(t, err)
	m.refresh()
	require.NoError(t, m.tasks.Delete(created.ID))
	m.status = ""

	m = press(m, " ")
	assert.Empty(t, m.status)
	assert.Empty(t, m.visible)
}

func TestTasks_EditKeepsCompletion(t *testing.T) {
	m := signedIn(t)
	_, err := m.tasks.Create(task.Input{Text: "old", Category: task.Work, Priority: task.Low})
	require.NoError(t, err)
	m.refresh()

	m = press(m, " ")
	m = press(m, "e")
	require.Equal(t, modeForm, m.mode)
	assert.Contains(t, m.View(), "Edit Task")

	m.input.SetValue("new")
	m = press(m, "ctrl+s")
	got := m.tasks.Tasks()[0]
	assert.Equal(t, "new", got.Text)
	assert.True(t, got.Completed)
	assert.Equal(t, "Updated task", m.status)
}

func TestTasks_ToggleCelebratesLastOne(t *testing.T) {
	m := signedIn(t)
	for _, text := range []string{"one", "two"} {
		_, err := m.tasks.Create(task.Input{Text: text, Category: task.Work, Priority: task.Medium})
		require.NoError(t, err)
	}
	m.refresh()

	m = press(m, " ")
	assert.False(t, m.celebrate)
	m = press(m, "j", " ")
	assert.True(t, m.celebrate)
	assert.Contains(t, m.View(), "All tasks complete")

	m = press(m, " ")
	assert.False(t, m.celebrate)
}

func TestTasks_DeleteNeedsConfirmation(t *testing.T) {
	m := signedIn(t)
	_, err := m.tasks.Create(task.Input{Text: "gone", Category: task.Work, Priority: task.Medium})
	require.NoError(t, err)
	m.refresh()

	m = press(m, "d")
	assert.True(t, m.confirmDel)
	m = press(m, "n")
	assert.Equal(t, 1, m.tasks.Len())

	m = press(m, "d", "y")
	assert.Zero(t, m.tasks.Len())
	assert.Equal(t, "Deleted task", m.status)
}

func TestTasks_ViewAndFilterKeys(t *testing.T) {
	m := signedIn(t)
	_, err := m.tasks.Create(task.Input{Text: "ship", Category: task.Work, Priority: task.High, ScheduledDate: "2024-06-12"})
	require.NoError(t, err)
	_, err = m.tasks.Create(task.Input{Text: "walk", Category: task.Health, Priority: task.Low})
	require.NoError(t, err)
	m.refresh()

	m = press(m, "v")
	assert.Equal(t, view.Matrix, m.selector.Mode)
	assert.Contains(t, m.View(), "Urgent & Important")

	m = press(m, "v")
	assert.Equal(t, view.Timetable, m.selector.Mode)
	assert.Contains(t, m.View(), "Unscheduled")

	m = press(m, "]")
	assert.Equal(t, "2024-06-13", m.selector.Anchor.Format(task.DateLayout))
	m = press(m, "t")
	assert.Equal(t, "2024-06-12", m.selector.Anchor.Format(task.DateLayout))

	m = press(m, "V", "V")
	assert.Equal(t, view.List, m.selector.Mode)

	m = press(m, "c")
	assert.Equal(t, task.CategoryFilter(task.Work), m.selector.Category)
	require.Len(t, m.visible, 1)
	assert.Equal(t, "ship", m.visible[0].Text)

	m = press(m, "f", "f")
	assert.Equal(t, task.StatusCompleted, m.selector.Status)
	assert.Contains(t, m.View(), "No tasks match")
}

func TestSignOutReturnsToLogin(t *testing.T) {
	gw := &fakeGateway{}
	m := newTestModel(t, gw)
	m, _ = send(m, authStateMsg{state: auth.State{User: ada}})
	m = press(m, "a", "esc")

	m, cmd := send(m, key("O"))
	require.NotNil(t, cmd)
	_, isSignOut := cmd().(signedOutMsg)
	assert.True(t, isSignOut)
	assert.Equal(t, 1, gw.signOuts)

	m, _ = send(m, authStateMsg{state: auth.State{}})
	assert.Equal(t, modeList, m.mode)
	assert.Contains(t, m.View(), "Sign in to your account")
}

func TestOrderedMatchesRenderOrder(t *testing.T) {
	r := view.Result{Mode: view.Week, Days: []task.DayBucket{
		{Tasks: []task.Task{{ID: "a"}}},
		{Tasks: []task.Task{{ID: "b"}, {ID: "c"}}},
	}, Backlog: []task.Task{{ID: "z"}}}
	var got []string
	for _, t := range ordered(r) {
		got = append(got, t.ID)
	}
	assert.Equal(t, []string{"a", "b", "c", "z"}, got)
}
