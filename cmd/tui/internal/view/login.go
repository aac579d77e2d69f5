package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/chama/internal/apperror"
	"github.com/MrJamesThe3rd/chama/internal/auth"
)

// LoggedInMsg carries the treasurer every other screen acts as.
type LoggedInMsg struct {
	Actor auth.Actor
}

type LoginModel struct {
	authService *auth.Service

	form       *huh.Form
	submitting bool
	status     string
}

func NewLoginModel(authSvc *auth.Service) LoginModel {
	return LoginModel{authService: authSvc, form: buildLoginForm("")}
}

func (m LoginModel) Title() string     { return "Treasurer Login" }
func (m LoginModel) ShortHelp() string { return "Enter: next | Ctrl+C: quit" }

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(loginResultMsg); ok {
		m.submitting = false

		if res.err != nil {
			m.status = apperror.Message(res.err)
			m.form = buildLoginForm(res.phoneNumber)

			return m, m.form.Init()
		}

		return m, func() tea.Msg { return LoggedInMsg{Actor: res.actor} }
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted || m.submitting {
		return m, cmd
	}

	m.submitting = true

	return m, m.loginCmd()
}

func (m LoginModel) View() string {
	content := fmt.Sprintf("Chama Treasury\n\n%s", m.form.View())
	if m.status != "" {
		content += "\n" + errorStyle(m.status)
	}

	return lipgloss.NewStyle().Padding(2).Render(content)
}

// buildLoginForm keeps the phone number across failed attempts.
func buildLoginForm(phoneNumber string) *huh.Form {
	password := ""

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("phoneNumber").
				Title("Phone number").
				Placeholder("0712345678").
				Value(&phoneNumber),

			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&password),
		),
	).WithWidth(40).WithShowHelp(false)
}

type loginResultMsg struct {
	actor       auth.Actor
	phoneNumber string
	err         error
}

func (m LoginModel) loginCmd() tea.Cmd {
	phoneNumber := m.form.GetString("phoneNumber")
	password := m.form.GetString("password")

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, t, err := m.authService.Login(ctx, phoneNumber, password)
		if err != nil {
			return loginResultMsg{phoneNumber: phoneNumber, err: err}
		}

		return loginResultMsg{actor: auth.Actor{ID: t.ID, Name: t.FullName(), Position: t.Position}}
	}
}
