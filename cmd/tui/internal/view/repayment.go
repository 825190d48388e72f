package view

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"credikhaata/internal/ledger"
)

type RepaymentModel struct {
	CommonModel
	ledger *ledger.Service
	styles Styles

	customerID uuid.UUID
	loanID     uuid.UUID
	loan       ledger.LoanView
	balance    decimal.Decimal

	form *huh.Form

	formAmount string
	formDate   string

	err error
}

func NewRepaymentModel(l *ledger.Service, customerID, loanID uuid.UUID, st Styles) RepaymentModel {
	m := RepaymentModel{
		ledger:     l,
		styles:     st,
		customerID: customerID,
		loanID:     loanID,
	}

	lv, err := l.LoanView(loanID)
	if err != nil {
		m.err = err
		return m
	}
	m.loan = lv
	m.balance = lv.Balance
	m.formDate = time.Now().Format(time.DateOnly)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title("Repayment amount (INR)").
				Placeholder(m.balance.String()).
				Value(&m.formAmount).
				Validate(func(s string) error {
					amount, err := ledger.ParseAmount(s)
					if err != nil {
						return err
					}
					return ledger.CheckRepayment(amount, m.balance)
				}),

			huh.NewInput().
				Key("date").
				Title("Repayment date").
				Value(&m.formDate).
				Validate(func(s string) error {
					_, err := ledger.ParseDate(s)
					return err
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	return m
}

func (m RepaymentModel) Title() string     { return "Record Repayment" }
func (m RepaymentModel) ShortHelp() string { return "Enter: save | Esc: cancel" }

func (m RepaymentModel) Init() tea.Cmd {
	if m.form == nil {
		return nil
	}
	return m.form.Init()
}

func (m RepaymentModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, NavigateCustomer(PageCustomerDetail, m.customerID)
		}
	}

	if m.form == nil {
		return m, nil
	}

	if msg, ok := msg.(repaymentSavedMsg); ok {
		if msg.err != nil {
			return m, Error(fmt.Sprintf("Could not record repayment: %v", msg.err))
		}
		return m, tea.Batch(
			NavigateCustomer(PageCustomerDetail, m.customerID),
			Success("Repayment recorded"),
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

func (m RepaymentModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v\n\n(Esc to go back)", m.err))
	}

	info := fmt.Sprintf("%s\nRemaining balance: %s",
		m.loan.Item,
		FormatAmount(m.balance),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render("Record Repayment"),
		m.styles.Faint.Render(info),
		"",
		m.form.View(),
	)

	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

// Messages

type repaymentSavedMsg struct {
	err error
}

func (m RepaymentModel) saveCmd() tea.Cmd {
	amount, err := ledger.ParseAmount(m.form.GetString("amount"))
	if err != nil {
		return Error(err.Error())
	}

	date, err := ledger.ParseDate(m.form.GetString("date"))
	if err != nil {
		return Error(err.Error())
	}

	return func() tea.Msg {
		ctx, cancel := storeCtx()
		defer cancel()

		_, err := m.ledger.AddRepayment(ctx, m.loanID, amount, date)
		return repaymentSavedMsg{err: err}
	}
}
