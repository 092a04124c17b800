package ui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"daily/internal/auth"
	"daily/internal/config"
	"daily/internal/form"
	"daily/internal/motivation"
	"daily/internal/task"
	"daily/internal/view"
)

type mode int

const (
	modeList mode = iota
	modeForm
)

// Deps are the services the program runs on. Tasks and Auth are required.
type Deps struct {
	Tasks  *task.Model
	Auth   *auth.Provider
	Config config.Config
	Logger *log.Logger
	Now    func() time.Time
}

type Model struct {
	ctx    context.Context
	cfg    config.Config
	logger *log.Logger
	now    func() time.Time

	tasks    *task.Model
	provider *auth.Provider
	auth     auth.State

	spinner  spinner.Model
	login    loginScreen
	selector view.Selector
	result   view.Result
	visible  []task.Task
	cursor   int
	mode     mode
	form     *form.Controller
	fieldIdx int
	input    textinput.Model
	status   string
	width    int

	confirmDel bool
	pendingDel *task.Task
	celebrate  bool
}

type authStateMsg struct{ state auth.State }

type loginResultMsg struct{ result auth.Result }

type signedOutMsg struct{ err error }

func New(ctx context.Context, d Deps) Model {
	if d.Logger == nil {
		d.Logger = log.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:      ctx,
		cfg:      d.Config,
		logger:   d.Logger,
		now:      d.Now,
		tasks:    d.Tasks,
		provider: d.Auth,
		auth:     d.Auth.State(),
		spinner:  sp,
		login:    newLoginScreen(),
		selector: selectorFromConfig(d.Config, d.Now()),
		form:     form.New(),
		input:    ti,
		mode:     modeList,
		status:   fmt.Sprintf("Press '%s' to add, '%s' to toggle, '%s' to switch view.", d.Config.Keys.Add, keyName(d.Config.Keys.Toggle), d.Config.Keys.NextView),
	}
	m.refresh()
	return m
}

func selectorFromConfig(cfg config.Config, now time.Time) view.Selector {
	sel := view.NewSelector(now)
	if md, err := view.ParseMode(cfg.DefaultView); err == nil {
		sel.Mode = md
	}
	if st, err := task.ParseStatus(cfg.DefaultFilter); err == nil {
		sel.Status = st
	}
	if cf, err := task.ParseCategoryFilter(cfg.DefaultCategory); err == nil {
		sel.Category = cf
	}
	sel.WeekStart = cfg.FirstWeekday()
	sel.UrgencyDays = cfg.UrgencyDays
	return sel
}

func Run(ctx context.Context, d Deps) error {
	program := tea.NewProgram(New(ctx, d))
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		startAuth(m.ctx, m.provider),
		waitForAuth(m.provider.Updates()),
	)
}

// startAuth probes the stored session; the result arrives via Updates.
func startAuth(ctx context.Context, p *auth.Provider) tea.Cmd {
	return func() tea.Msg {
		p.Start(ctx)
		return nil
	}
}

func waitForAuth(ch <-chan auth.State) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return nil
		}
		return authStateMsg{state: st}
	}
}

func signOut(ctx context.Context, gw auth.Gateway) tea.Cmd {
	return func() tea.Msg {
		return signedOutMsg{err: gw.SignOut(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case authStateMsg:
		m = m.applyAuth(msg.state)
		return m, waitForAuth(m.provider.Updates())
	case loginResultMsg:
		m.login.state.Finish(msg.result)
		return m, nil
	case signedOutMsg:
		if msg.err != nil {
			m.logger.Printf("sign out: %v", msg.err)
			m.status = fmt.Sprintf("sign out failed: %v", msg.err)
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - 10
		m.login.resize(msg.Width)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch view.Gate(m.auth) {
		case view.ScreenLoading:
			return m, nil
		case view.ScreenLogin:
			return m.updateLogin(msg)
		}
		if m.mode == modeForm {
			return m.updateFormMode(msg.String(), msg)
		}
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		return m.updateListMode(msg.String())
	}
	return m, nil
}

// applyAuth switches screens on sign-in and sign-out. Task state is
// dropped on sign-out so nothing from the previous session stays visible.
func (m Model) applyAuth(st auth.State) Model {
	was := m.auth.SignedIn()
	m.auth = st
	switch {
	case st.SignedIn() && !was:
		m.login = newLoginScreen()
		m.login.resize(m.width)
		m.status = "Signed in as " + st.User.Email
		m.refresh()
	case !st.SignedIn() && was:
		m.form.Cancel()
		m.mode = modeList
		m.input.Blur()
		m.confirmDel = false
		m.pendingDel = nil
		m.celebrate = false
		m.status = ""
	}
	return m
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		if len(m.visible) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(m.visible))
	case m.cfg.Keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.visible))
		}
	case m.cfg.Keys.Add:
		return m.openForm(nil), nil
	case m.cfg.Keys.Edit:
		t, ok := m.selected()
		if !ok {
			m.status = "No tasks to edit"
			return m, nil
		}
		return m.openForm(&t), nil
	case m.cfg.Keys.Toggle:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		before := task.Summarize(m.tasks.Tasks())
		err := m.tasks.ToggleCompleted(t.ID)
		switch {
		case errors.Is(err, task.ErrNotFound):
		case err != nil:
			m.status = fmt.Sprintf("toggle failed: %v", err)
		case t.Completed:
			m.status = "Reopened task"
		default:
			m.status = "Completed task"
		}
		m.celebrate = motivation.Celebrate(before, task.Summarize(m.tasks.Tasks()))
		m.refresh()
		m.selectID(t.ID)
	case m.cfg.Keys.Delete:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.confirmDel = true
		m.pendingDel = &t
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Text)
	case m.cfg.Keys.NextView:
		m.selector.Next()
		m.cursor = 0
		m.refresh()
		m.status = m.selector.Mode.Title()
	case m.cfg.Keys.PrevView:
		m.selector.Prev()
		m.cursor = 0
		m.refresh()
		m.status = m.selector.Mode.Title()
	case m.cfg.Keys.StatusFilter:
		m.selector.CycleStatus()
		m.refresh()
		m.status = fmt.Sprintf("Showing %s tasks", m.selector.Status)
	case m.cfg.Keys.CategoryFilter:
		m.selector.CycleCategory()
		m.refresh()
		m.status = "Category: " + categoryFilterLabel(m.selector.Category)
	case m.cfg.Keys.PeriodForward:
		m.selector.Shift(1)
		m.refresh()
		m.status = m.periodLabel()
	case m.cfg.Keys.PeriodBack:
		m.selector.Shift(-1)
		m.refresh()
		m.status = m.periodLabel()
	case m.cfg.Keys.Today:
		m.selector.Today(m.now())
		m.refresh()
		m.status = m.periodLabel()
	case m.cfg.Keys.SignOut:
		m.status = "Signing out..."
		return m, signOut(m.ctx, m.provider.Gateway())
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
		err := m.tasks.Delete(m.pendingDel.ID)
		switch {
		case err == nil, errors.Is(err, task.ErrNotFound):
			m.status = "Deleted task"
		default:
			m.status = fmt.Sprintf("delete failed: %v", err)
		}
		m.confirmDel = false
		m.pendingDel = nil
		m.refresh()
		return m, nil
	default:
		return m, nil
	}
}

// refresh re-routes the collection through the selector. It runs after
// every mutation and every selector change.
func (m *Model) refresh() {
	m.result = m.selector.Route(m.tasks.Tasks(), m.now())
	m.visible = ordered(m.result)
	m.cursor = clampCursor(m.cursor, len(m.visible))
}

// ordered flattens a result in the order the renderers draw it, so the
// cursor index lines up with what is on screen.
func ordered(r view.Result) []task.Task {
	var out []task.Task
	switch r.Mode {
	case view.Matrix:
		for _, q := range task.Quadrants() {
			out = append(out, r.Matrix[q]...)
		}
	case view.Timetable, view.Week, view.Month:
		for _, d := range r.Days {
			out = append(out, d.Tasks...)
		}
		out = append(out, r.Backlog...)
	default:
		out = append(out, r.Tasks...)
	}
	return out
}

func (m Model) selected() (task.Task, bool) {
	if len(m.visible) == 0 {
		return task.Task{}, false
	}
	return m.visible[clampCursor(m.cursor, len(m.visible))], true
}

func (m *Model) selectID(id string) {
	for i, t := range m.visible {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
	m.cursor = clampCursor(m.cursor, len(m.visible))
}

func (m Model) View() string {
	switch view.Gate(m.auth) {
	case view.ScreenLoading:
		return fmt.Sprintf("\n %s Loading...\n", m.spinner.View())
	case view.ScreenLogin:
		return m.viewLogin()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderMotivation())
	b.WriteString("\n")
	b.WriteString(m.renderProgress())
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(m.renderView())

	b.WriteString("\n---\n")

	if m.mode == modeForm {
		b.WriteString(m.renderForm())
	} else {
		b.WriteString(m.renderDetail())
	}

	b.WriteString("\n\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(faintStyle.Render(m.renderHelp()))

	return b.String()
}

func (m Model) renderHelp() string {
	k := m.cfg.Keys
	if m.mode == modeForm {
		return "tab/shift+tab move • ←/→ or space change choice • enter next/save • ctrl+s save • esc cancel"
	}
	return fmt.Sprintf("%s/%s move • %s add • %s edit • %s toggle • %s delete • %s/%s view • %s status • %s category • %s/%s period • %s today • %s sign out • %s quit",
		k.Up, k.Down, k.Add, k.Edit, keyName(k.Toggle), k.Delete, k.NextView, k.PrevView,
		k.StatusFilter, k.CategoryFilter, k.PeriodBack, k.PeriodForward, k.Today, k.SignOut, k.Quit)
}

func (m Model) renderDetail() string {
	t, ok := m.selected()
	if !ok {
		return "No task selected"
	}
	var b strings.Builder
	b.WriteString("Details\n")
	b.WriteString(fmt.Sprintf("Task      : %s\n", t.Text))
	b.WriteString(fmt.Sprintf("Status    : %s\n", humanDone(t.Completed)))
	b.WriteString(fmt.Sprintf("Category  : %s\n", t.Category.Label()))
	b.WriteString(fmt.Sprintf("Priority  : %s\n", t.Priority.Label()))
	b.WriteString(fmt.Sprintf("Date      : %s\n", emptyPlaceholder(t.ScheduledDate)))
	b.WriteString(fmt.Sprintf("Time      : %s\n", emptyPlaceholder(timeSpan(t))))
	b.WriteString(fmt.Sprintf("Quadrant  : %s\n", task.QuadrantOf(t, m.now(), m.selector.UrgencyDays)))
	return b.String()
}

func keyName(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func categoryFilterLabel(f task.CategoryFilter) string {
	if f == task.AllCategories {
		return "All"
	}
	return task.Category(f).Label()
}

func emptyPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(none)"
	}
	return v
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

func humanDone(done bool) string {
	if done {
		return "done"
	}
	return "active"
}
