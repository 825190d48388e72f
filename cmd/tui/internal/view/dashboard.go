package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"credikhaata/internal/ledger"
)

type dashboardState int

const (
	dashboardStateBrowse dashboardState = iota
	dashboardStateConfirmDelete
)

type DashboardModel struct {
	CommonModel
	ledger *ledger.Service
	styles Styles

	state dashboardState
	table table.Model
	views []ledger.CustomerView
	form  *huh.Form

	confirmDelete bool
	err           error
}

func NewDashboardModel(l *ledger.Service, st Styles) DashboardModel {
	columns := []table.Column{
		{Title: "Customer", Width: 24},
		{Title: "Outstanding", Width: 14},
		{Title: "Next Due", Width: 12},
		{Title: "Status", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = st.TableHeader.Bold(false)
	s.Selected = st.TableSelected.Bold(false)
	t.SetStyles(s)

	return DashboardModel{
		ledger: l,
		styles: st,
		table:  t,
	}
}

func (m DashboardModel) Title() string { return "Dashboard" }
func (m DashboardModel) ShortHelp() string {
	if m.state == dashboardStateConfirmDelete {
		return "Confirm deletion | Esc: cancel"
	}
	return "Enter: open | a: add customer | n: add loan | d: delete | t: theme | l: logout | r: refresh | q: quit"
}

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDashboardMsg:
		m.views = msg.views
		m.refreshTable()
		return m, nil

	case customerDeletedMsg:
		m.state = dashboardStateBrowse
		m.form = nil
		m.table.Focus()
		if msg.err != nil {
			return m, tea.Batch(m.loadCmd(), Error(fmt.Sprintf("Could not delete customer: %v", msg.err)))
		}
		return m, tea.Batch(m.loadCmd(), Success(fmt.Sprintf("Deleted %s and their loans", msg.name)))

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case dashboardStateBrowse:
		return m.updateBrowse(msg)
	case dashboardStateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	return m, nil
}

func (m DashboardModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.loadCmd()
		case "enter":
			if cv, ok := m.selected(); ok {
				return m, NavigateCustomer(PageCustomerDetail, cv.ID)
			}
		case "a":
			return m, Navigate(PageAddCustomer)
		case "n":
			return m, Navigate(PageAddLoan)
		case "d":
			return m.enterConfirmDelete()
		case "t":
			return m, func() tea.Msg { return ToggleThemeMsg{} }
		case "l":
			return m, func() tea.Msg { return LogoutMsg{} }
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m DashboardModel) enterConfirmDelete() (tea.Model, tea.Cmd) {
	cv, ok := m.selected()
	if !ok {
		return m, nil
	}

	m.confirmDelete = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Delete %s?", cv.Name)).
				Description("All of their loans and repayments will be removed as well.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(&m.confirmDelete),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = dashboardStateConfirmDelete
	m.table.Blur()
	return m, m.form.Init()
}

func (m DashboardModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = dashboardStateBrowse
			m.form = nil
			m.table.Focus()
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

	if !m.form.GetBool("confirm") {
		m.state = dashboardStateBrowse
		m.form = nil
		m.table.Focus()
		return m, nil
	}

	cv, ok := m.selected()
	if !ok {
		m.state = dashboardStateBrowse
		m.form = nil
		m.table.Focus()
		return m, nil
	}

	return m, m.deleteCmd(cv)
}

func (m DashboardModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Border.Render(m.table.View()),
	)

	if len(m.views) == 0 {
		content = lipgloss.JoinVertical(lipgloss.Left,
			content,
			m.styles.Faint.Render("No customers yet. Press 'a' to add your first customer."),
		)
	}

	if m.state == dashboardStateConfirmDelete && m.form != nil {
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

func (m DashboardModel) selected() (ledger.CustomerView, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.views) {
		return ledger.CustomerView{}, false
	}
	return m.views[idx], true
}

func (m *DashboardModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.views))
	for _, cv := range m.views {
		rows = append(rows, table.Row{
			cv.Name,
			FormatAmount(cv.OutstandingBalance),
			FormatDuePtr(cv.NextDueDate),
			string(cv.Status),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadDashboardMsg struct {
	views []ledger.CustomerView
}

func (m DashboardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return loadDashboardMsg{views: m.ledger.AllCustomerViews()}
	}
}

type customerDeletedMsg struct {
	name string
	err  error
}

func (m DashboardModel) deleteCmd(cv ledger.CustomerView) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := storeCtx()
		defer cancel()

		err := m.ledger.DeleteCustomer(ctx, cv.ID)
		return customerDeletedMsg{name: cv.Name, err: err}
	}
}
