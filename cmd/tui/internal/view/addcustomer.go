package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"credikhaata/internal/ledger"
)

type AddCustomerModel struct {
	CommonModel
	ledger *ledger.Service
	styles Styles

	form *huh.Form

	formName  string
	formEmail string
	formPhone string
}

func NewAddCustomerModel(l *ledger.Service, st Styles) AddCustomerModel {
	m := AddCustomerModel{ledger: l, styles: st}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&m.formName).
				Validate(func(s string) error {
					return ledger.ValidateCustomerInput(s, "")
				}),

			huh.NewInput().
				Key("email").
				Title("Email (optional)").
				Placeholder("name@example.com").
				Value(&m.formEmail),

			huh.NewInput().
				Key("phone").
				Title("Phone (optional)").
				Placeholder("9876543210").
				Value(&m.formPhone).
				Validate(ledger.ValidatePhone),
		),
	).WithWidth(45).WithShowHelp(false)

	return m
}

func (m AddCustomerModel) Title() string     { return "Add Customer" }
func (m AddCustomerModel) ShortHelp() string { return "Navigate form | Esc: cancel" }

func (m AddCustomerModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m AddCustomerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Navigate(PageDashboard)
		}
	}

	if msg, ok := msg.(customerSavedMsg); ok {
		if msg.err != nil {
			return m, Error(fmt.Sprintf("Could not save customer: %v", msg.err))
		}
		return m, tea.Batch(Navigate(PageDashboard), Success(msg.name+" added"))
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m AddCustomerModel) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render("Add Customer"),
		"",
		m.form.View(),
	)

	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

// Messages

type customerSavedMsg struct {
	name string
	err  error
}

func (m AddCustomerModel) saveCmd() tea.Cmd {
	name := m.form.GetString("name")
	email := m.form.GetString("email")
	phone := m.form.GetString("phone")

	return func() tea.Msg {
		ctx, cancel := storeCtx()
		defer cancel()

		c, err := m.ledger.AddCustomer(ctx, name, email, phone)
		return customerSavedMsg{name: c.Name, err: err}
	}
}
