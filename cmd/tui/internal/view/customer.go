package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"credikhaata/internal/ledger"
	"credikhaata/internal/statement"
)

type customerState int

const (
	customerStateBrowse customerState = iota
	customerStateConfirmDelete
	customerStatePreview
)

// detailRow points at either a loan or one of its repayments, so a single
// cursor can walk the whole ledger of one customer.
type detailRow struct {
	loanID      uuid.UUID
	repaymentID uuid.UUID
	isRepayment bool
}

type CustomerModel struct {
	CommonModel
	ledger     *ledger.Service
	statements *statement.Service
	styles     Styles

	customerID uuid.UUID

	state  customerState
	view   ledger.CustomerView
	loans  []ledger.LoanView
	rows   []detailRow
	cursor int

	form          *huh.Form
	confirmDelete bool

	preview string
	err     error
}

func NewCustomerModel(l *ledger.Service, stmts *statement.Service, customerID uuid.UUID, st Styles) CustomerModel {
	return CustomerModel{
		ledger:     l,
		statements: stmts,
		styles:     st,
		customerID: customerID,
	}
}

func (m CustomerModel) Title() string { return "Customer" }
func (m CustomerModel) ShortHelp() string {
	switch m.state {
	case customerStateConfirmDelete:
		return "Confirm deletion | Esc: cancel"
	case customerStatePreview:
		return "Esc: close preview"
	}
	return "Esc: back | n: add loan | p: repay | d: delete entry | s: export statement | v: preview | r: refresh"
}

func (m CustomerModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m CustomerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadCustomerMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.view = msg.view
		m.loans = msg.loans
		m.rebuildRows()
		return m, nil

	case entryDeletedMsg:
		m.state = customerStateBrowse
		m.form = nil
		if msg.err != nil {
			return m, tea.Batch(m.loadCmd(), Error(fmt.Sprintf("Could not delete: %v", msg.err)))
		}
		return m, tea.Batch(m.loadCmd(), Success(msg.what+" deleted"))

	case statementExportedMsg:
		if msg.err != nil {
			return m, Error(fmt.Sprintf("Could not export statement: %v", msg.err))
		}
		return m, Success("Statement saved to " + msg.path)

	case statementPreviewMsg:
		if msg.err != nil {
			return m, Error(fmt.Sprintf("Could not render statement: %v", msg.err))
		}
		m.state = customerStatePreview
		m.preview = msg.rendered
		return m, nil
	}

	switch m.state {
	case customerStateBrowse:
		return m.updateBrowse(msg)
	case customerStateConfirmDelete:
		return m.updateConfirmDelete(msg)
	case customerStatePreview:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			if keyMsg.Type == tea.KeyEsc || keyMsg.String() == "q" {
				m.state = customerStateBrowse
				m.preview = ""
			}
		}
		return m, nil
	}

	return m, nil
}

func (m CustomerModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Navigate(PageDashboard)
	case "r":
		return m, m.loadCmd()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "n":
		return m, NavigateCustomer(PageAddLoan, m.customerID)
	case "p":
		if row, ok := m.selected(); ok {
			return m, NavigateLoan(PageRecordRepayment, m.customerID, row.loanID)
		}
	case "d":
		return m.enterConfirmDelete()
	case "s":
		return m, m.exportCmd()
	case "v":
		return m, m.previewCmd()
	}

	return m, nil
}

func (m CustomerModel) enterConfirmDelete() (tea.Model, tea.Cmd) {
	row, ok := m.selected()
	if !ok {
		return m, nil
	}

	title := "Delete this loan?"
	desc := "Its repayment history will be removed as well."
	if row.isRepayment {
		title = "Delete this repayment?"
		desc = "The amount will be added back to the loan's balance."
	}

	m.confirmDelete = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(title).
				Description(desc).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&m.confirmDelete),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = customerStateConfirmDelete
	return m, m.form.Init()
}

func (m CustomerModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = customerStateBrowse
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	row, ok := m.selected()
	if !ok || !m.form.GetBool("confirm") {
		m.state = customerStateBrowse
		m.form = nil
		return m, nil
	}

	return m, m.deleteCmd(row)
}

func (m CustomerModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	if m.state == customerStatePreview {
		return lipgloss.NewStyle().Padding(1).Render(m.preview)
	}

	header := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render(m.view.Name),
		m.contactLine(),
		fmt.Sprintf("Outstanding: %s  %s",
			FormatAmount(m.view.OutstandingBalance),
			m.styles.StatusStyle(string(m.view.Status)).Render(string(m.view.Status)),
		),
	)

	var cards []string
	idx := 0
	for _, lv := range m.loans {
		cards = append(cards, m.renderLoan(lv, &idx))
	}

	body := m.styles.Faint.Render("No loans recorded for this customer yet. Press 'n' to add one.")
	if len(cards) > 0 {
		body = lipgloss.JoinVertical(lipgloss.Left, cards...)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, header, "", body)

	if m.state == customerStateConfirmDelete && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m CustomerModel) contactLine() string {
	parts := make([]string, 0, 2)
	if m.view.Email != "" {
		parts = append(parts, m.view.Email)
	}
	if m.view.Phone != "" {
		parts = append(parts, m.view.Phone)
	}
	if len(parts) == 0 {
		return m.styles.Faint.Render("No contact details")
	}
	return m.styles.Faint.Render(strings.Join(parts, " | "))
}

func (m CustomerModel) renderLoan(lv ledger.LoanView, idx *int) string {
	cursor := func(i int) string {
		if i == m.cursor {
			return "> "
		}
		return "  "
	}

	status := m.styles.StatusStyle(string(lv.Status)).Render(string(lv.Status))
	head := fmt.Sprintf("%s%s  %s  %s", cursor(*idx), lv.Item, FormatAmount(lv.Amount), status)
	meta := fmt.Sprintf("  taken %s, due %s, balance %s",
		FormatDate(lv.Date), FormatDate(lv.DueDate), FormatAmount(lv.Balance))

	lines := []string{head, m.styles.Faint.Render(meta)}
	*idx++

	for _, rp := range lv.Repayments {
		line := fmt.Sprintf("%s  repaid %s on %s", cursor(*idx), FormatAmount(rp.Amount), FormatDate(rp.Date))
		lines = append(lines, m.styles.Success.Render(line))
		*idx++
	}

	card := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return m.styles.Border.Padding(0, 1).Render(card)
}

func (m CustomerModel) selected() (detailRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return detailRow{}, false
	}
	return m.rows[m.cursor], true
}

func (m *CustomerModel) rebuildRows() {
	m.rows = m.rows[:0]
	for _, lv := range m.loans {
		m.rows = append(m.rows, detailRow{loanID: lv.ID})
		for _, rp := range lv.Repayments {
			m.rows = append(m.rows, detailRow{loanID: lv.ID, repaymentID: rp.ID, isRepayment: true})
		}
	}

	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Messages

type loadCustomerMsg struct {
	view  ledger.CustomerView
	loans []ledger.LoanView
	err   error
}

func (m CustomerModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		cv, err := m.ledger.CustomerView(m.customerID)
		if err != nil {
			return loadCustomerMsg{err: err}
		}
		return loadCustomerMsg{view: cv, loans: m.ledger.CustomerLoans(m.customerID)}
	}
}

type entryDeletedMsg struct {
	what string
	err  error
}

func (m CustomerModel) deleteCmd(row detailRow) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := storeCtx()
		defer cancel()

		if row.isRepayment {
			return entryDeletedMsg{what: "Repayment", err: m.ledger.DeleteRepayment(ctx, row.repaymentID)}
		}
		return entryDeletedMsg{what: "Loan", err: m.ledger.DeleteLoan(ctx, row.loanID)}
	}
}

type statementExportedMsg struct {
	path string
	err  error
}

func (m CustomerModel) exportCmd() tea.Cmd {
	return func() tea.Msg {
		path, err := m.statements.Export(m.customerID)
		return statementExportedMsg{path: path, err: err}
	}
}

type statementPreviewMsg struct {
	rendered string
	err      error
}

func (m CustomerModel) previewCmd() tea.Cmd {
	style := "dark"
	if !m.styles.Dark {
		style = "light"
	}

	return func() tea.Msg {
		md, err := m.statements.Render(m.customerID)
		if err != nil {
			return statementPreviewMsg{err: err}
		}

		out, err := glamour.Render(md, style)
		return statementPreviewMsg{rendered: out, err: err}
	}
}
