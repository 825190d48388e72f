package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"credikhaata/internal/session"
)

type LoginModel struct {
	CommonModel
	guard  *session.Guard
	styles Styles

	form *huh.Form

	formEmail    string
	formPassword string

	errText string
}

func NewLoginModel(guard *session.Guard, st Styles) LoginModel {
	m := LoginModel{guard: guard, styles: st}
	m.form = m.newForm()
	return m
}

func (m LoginModel) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("email").
				Title("Email").
				Placeholder("shopkeeper@test.com").
				Value(&m.formEmail).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("email is required")
					}
					return nil
				}),

			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.formPassword).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("password is required")
					}
					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m LoginModel) Title() string     { return "CrediKhaata Login" }
func (m LoginModel) ShortHelp() string { return "Enter: submit | Ctrl+C: quit" }

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(loginFailedMsg); ok {
		m.errText = "Invalid email or password."
		m.formPassword = ""
		m.form = m.newForm()
		return m, m.form.Init()
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	email := m.form.GetString("email")
	password := m.form.GetString("password")

	return m, m.loginCmd(email, password)
}

func (m LoginModel) View() string {
	title := m.styles.Title.Render("CrediKhaata")
	sub := m.styles.Faint.Render("Sign in to your khaata")

	content := lipgloss.JoinVertical(lipgloss.Left, title, sub, "", m.form.View())

	if m.errText != "" {
		content = lipgloss.JoinVertical(lipgloss.Left,
			content,
			m.styles.Error.Render(m.errText),
		)
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

// Messages

type loginFailedMsg struct{}

func (m LoginModel) loginCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := storeCtx()
		defer cancel()

		if !m.guard.Login(ctx, email, password) {
			return loginFailedMsg{}
		}

		return LoginSuccessMsg{}
	}
}
