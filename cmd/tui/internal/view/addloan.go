package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"credikhaata/internal/ledger"
)

type AddLoanModel struct {
	CommonModel
	ledger *ledger.Service
	styles Styles

	// customerID is fixed when the form was opened from a customer's
	// detail page; zero means the form asks which customer.
	customerID uuid.UUID

	form *huh.Form

	formCustomer string
	formItem     string
	formAmount   string
	formDueDate  string
}

func NewAddLoanModel(l *ledger.Service, customerID uuid.UUID, st Styles) AddLoanModel {
	m := AddLoanModel{ledger: l, styles: st, customerID: customerID}

	fields := []huh.Field{}

	if customerID == uuid.Nil {
		customers := l.Customers()
		opts := make([]huh.Option[string], 0, len(customers))
		for _, c := range customers {
			opts = append(opts, huh.NewOption(c.Name, c.ID.String()))
		}

		fields = append(fields,
			huh.NewSelect[string]().
				Key("customer").
				Title("Customer").
				Options(opts...).
				Value(&m.formCustomer),
		)
	}

	fields = append(fields,
		huh.NewInput().
			Key("item").
			Title("Item or service").
			Placeholder("Groceries").
			Value(&m.formItem).
			Validate(ledger.ValidateLoanInput),

		huh.NewInput().
			Key("amount").
			Title("Amount (INR)").
			Placeholder("500.00").
			Value(&m.formAmount).
			Validate(func(s string) error {
				_, err := ledger.ParseAmount(s)
				return err
			}),

		huh.NewInput().
			Key("due_date").
			Title("Due date").
			Placeholder("2026-09-15").
			Value(&m.formDueDate).
			Validate(func(s string) error {
				_, err := ledger.ParseDate(s)
				return err
			}),
	)

	m.form = huh.NewForm(huh.NewGroup(fields...)).WithWidth(45).WithShowHelp(false)

	return m
}

func (m AddLoanModel) Title() string     { return "Add Loan" }
func (m AddLoanModel) ShortHelp() string { return "Navigate form | Esc: cancel" }

func (m AddLoanModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m AddLoanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, m.backCmd()
		}
	}

	if msg, ok := msg.(loanSavedMsg); ok {
		if msg.err != nil {
			return m, Error(fmt.Sprintf("Could not save loan: %v", msg.err))
		}
		return m, tea.Batch(
			NavigateCustomer(PageCustomerDetail, msg.customerID),
			Success("Loan recorded"),
		)
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

func (m AddLoanModel) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render("Add Loan"),
		"",
		m.form.View(),
	)

	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

func (m AddLoanModel) backCmd() tea.Cmd {
	if m.customerID == uuid.Nil {
		return Navigate(PageDashboard)
	}
	return NavigateCustomer(PageCustomerDetail, m.customerID)
}

// Messages

type loanSavedMsg struct {
	customerID uuid.UUID
	err        error
}

func (m AddLoanModel) saveCmd() tea.Cmd {
	customerID := m.customerID
	if customerID == uuid.Nil {
		id, err := uuid.Parse(m.form.GetString("customer"))
		if err != nil {
			return Error("Select a customer first")
		}
		customerID = id
	}

	item := m.form.GetString("item")
	amount, err := ledger.ParseAmount(m.form.GetString("amount"))
	if err != nil {
		return Error(err.Error())
	}
	dueDate, err := ledger.ParseDate(m.form.GetString("due_date"))
	if err != nil {
		return Error(err.Error())
	}

	return func() tea.Msg {
		ctx, cancel := storeCtx()
		defer cancel()

		_, err := m.ledger.AddLoan(ctx, customerID, item, amount, dueDate)
		return loanSavedMsg{customerID: customerID, err: err}
	}
}
