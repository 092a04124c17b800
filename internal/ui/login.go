package ui

import (
	"context"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"daily/internal/auth"
)

// loginScreen is the only surface reachable without a user.
type loginScreen struct {
	state    auth.Login
	email    textinput.Model
	password textinput.Model
	focus    int
}

func newLoginScreen() loginScreen {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254
	email.Width = 40
	email.Focus()

	pw := textinput.New()
	pw.Placeholder = "password"
	pw.CharLimit = 128
	pw.Width = 40
	pw.EchoMode = textinput.EchoPassword
	pw.EchoCharacter = '•'

	return loginScreen{email: email, password: pw}
}

func (l *loginScreen) resize(width int) {
	if width <= 0 {
		return
	}
	w := min(width-10, 40)
	l.email.Width = w
	l.password.Width = w
}

func (l *loginScreen) focusField(i int) {
	l.focus = i
	if i == 0 {
		l.email.Focus()
		l.password.Blur()
		return
	}
	l.password.Focus()
	l.email.Blur()
}

func attemptLogin(ctx context.Context, gw auth.Gateway, req auth.Request, logger *log.Logger) tea.Cmd {
	return func() tea.Msg {
		return loginResultMsg{result: auth.Attempt(ctx, gw, req, logger)}
	}
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	l := &m.login
	key := msg.String()

	if l.state.ConfirmationSent {
		if key == "enter" || key == "esc" {
			l.state.BackToSignIn()
			l.password.SetValue("")
			l.focusField(0)
		}
		return m, nil
	}
	if l.state.Pending {
		return m, nil
	}

	switch key {
	case "tab", "shift+tab", "up", "down":
		l.focusField(1 - l.focus)
		return m, nil
	case "ctrl+s":
		l.state.ToggleMode()
		return m, nil
	case "enter":
		l.state.Email = l.email.Value()
		l.state.Password = l.password.Value()
		if strings.TrimSpace(l.state.Email) == "" || l.state.Password == "" {
			l.state.Message = "Email and password are required"
			return m, nil
		}
		req, ok := l.state.Begin()
		if !ok {
			return m, nil
		}
		return m, attemptLogin(m.ctx, m.provider.Gateway(), req, m.logger)
	}

	var cmd tea.Cmd
	if l.focus == 0 {
		l.email, cmd = l.email.Update(msg)
	} else {
		l.password, cmd = l.password.Update(msg)
	}
	return m, cmd
}

func (m Model) viewLogin() string {
	l := m.login
	var b strings.Builder
	b.WriteString(titleStyle.Render("Daily Planner"))
	b.WriteString("\n\n")

	if l.state.ConfirmationSent {
		b.WriteString(headingStyle.Render("Check your email"))
		b.WriteString("\n\n")
		b.WriteString(auth.ConfirmationText(strings.TrimSpace(l.email.Value())))
		b.WriteString("\n\n")
		b.WriteString(faintStyle.Render("enter back to sign in • ctrl+c quit"))
		return boxStyle.Render(b.String()) + "\n"
	}

	heading, toggle, pending := "Sign in to your account", "Don't have an account? ctrl+s to sign up", "Signing in..."
	if l.state.SignUp {
		heading, toggle, pending = "Create your account", "Already have an account? ctrl+s to sign in", "Creating account..."
	}
	b.WriteString(headingStyle.Render(heading))
	b.WriteString("\n\n")
	b.WriteString("Email\n")
	b.WriteString(l.email.View())
	b.WriteString("\n\nPassword\n")
	b.WriteString(l.password.View())
	b.WriteString("\n\n")

	switch {
	case l.state.Pending:
		b.WriteString(m.spinner.View() + " " + pending)
	case l.state.Message != "":
		b.WriteString(errorStyle.Render(l.state.Message))
	}
	b.WriteString("\n\n")
	b.WriteString(faintStyle.Render(toggle))
	b.WriteString("\n")
	b.WriteString(faintStyle.Render("tab switch field • enter submit • ctrl+c quit"))
	return boxStyle.Render(b.String()) + "\n"
}
