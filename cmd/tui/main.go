package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"credikhaata/cmd/tui/internal/view"
	"credikhaata/internal/config"
	"credikhaata/internal/ledger"
	"credikhaata/internal/session"
	"credikhaata/internal/statement"
	"credikhaata/internal/storage"
	"credikhaata/internal/storage/file"
	"credikhaata/internal/storage/postgres"
)

type model struct {
	port             storage.Port
	guard            *session.Guard
	ledgerService    *ledger.Service
	statementService *statement.Service

	styles view.Styles

	currentPage view.Page
	loggedIn    bool

	loginView     view.LoginModel
	dashboardView view.DashboardModel
	customerView  view.CustomerModel
	addCustomer   view.AddCustomerModel
	addLoan       view.AddLoanModel
	repayment     view.RepaymentModel

	// Toast state. gen guards against a stale clear tick dismissing a
	// newer toast.
	toast     string
	toastKind view.ToastKind
	toastGen  int

	width  int
	height int
}

type clearToastMsg struct {
	gen int
}

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	port, err := openStorage(cfg)
	if err != nil {
		slog.Error("failed to open storage", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	ledgerService, err := ledger.New(ctx, port)
	if err != nil {
		slog.Error("failed to load ledger", "error", err)
		os.Exit(1)
	}

	guard := session.New(ctx, port, session.Credentials{Email: cfg.Auth.Email, Password: cfg.Auth.Password}, cfg.Auth.JWTSecret)
	statementService := statement.NewService(ledgerService, cfg.Statement.OutputDir)

	styles := view.DarkStyles()
	if loadTheme(ctx, port, cfg.UI.Theme) == "light" {
		styles = view.LightStyles()
	}

	m := model{
		port:             port,
		guard:            guard,
		ledgerService:    ledgerService,
		statementService: statementService,
		styles:           styles,
		currentPage:      view.PageDashboard,
		loggedIn:         guard.Authenticated(),
	}
	m.loginView = view.NewLoginModel(guard, styles)
	m.dashboardView = view.NewDashboardModel(ledgerService, styles)

	return m
}

func openStorage(cfg *config.Config) (storage.Port, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		return postgres.New(cfg.ConnectionString())
	case "file":
		dir, err := cfg.DataDir()
		if err != nil {
			return nil, err
		}

		return file.New(dir)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}
}

// loadTheme prefers the persisted choice over the configured default.
func loadTheme(ctx context.Context, port storage.Port, fallback string) string {
	raw, ok, err := port.Load(ctx, storage.KeyTheme)
	if err != nil || !ok {
		return fallback
	}

	theme := string(raw)
	if theme != "dark" && theme != "light" {
		return fallback
	}

	return theme
}

func (m model) Init() tea.Cmd {
	if !m.loggedIn {
		return m.loginView.Init()
	}
	return m.dashboardView.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case view.LoginSuccessMsg:
		m.loggedIn = true
		m.currentPage = view.PageDashboard
		m.dashboardView = view.NewDashboardModel(m.ledgerService, m.styles)
		return m, m.dashboardView.Init()

	case view.LogoutMsg:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		m.guard.Logout(ctx)
		cancel()

		m.loggedIn = false
		m.loginView = view.NewLoginModel(m.guard, m.styles)
		return m, m.loginView.Init()

	case view.ToggleThemeMsg:
		return m.toggleTheme()

	case view.NavigateMsg:
		return m.navigate(msg)

	case view.ToastMsg:
		m.toast = msg.Text
		m.toastKind = msg.Kind
		m.toastGen++

		gen := m.toastGen
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearToastMsg{gen: gen}
		})

	case clearToastMsg:
		if msg.gen == m.toastGen {
			m.toast = ""
		}
		return m, nil
	}

	return m.updateCurrent(msg)
}

func (m model) navigate(msg view.NavigateMsg) (tea.Model, tea.Cmd) {
	m.currentPage = msg.Page

	switch msg.Page {
	case view.PageDashboard:
		m.dashboardView = view.NewDashboardModel(m.ledgerService, m.styles)
		return m, m.dashboardView.Init()
	case view.PageCustomerDetail:
		m.customerView = view.NewCustomerModel(m.ledgerService, m.statementService, msg.CustomerID, m.styles)
		return m, m.customerView.Init()
	case view.PageAddCustomer:
		m.addCustomer = view.NewAddCustomerModel(m.ledgerService, m.styles)
		return m, m.addCustomer.Init()
	case view.PageAddLoan:
		m.addLoan = view.NewAddLoanModel(m.ledgerService, msg.CustomerID, m.styles)
		return m, m.addLoan.Init()
	case view.PageRecordRepayment:
		m.repayment = view.NewRepaymentModel(m.ledgerService, msg.CustomerID, msg.LoanID, m.styles)
		return m, m.repayment.Init()
	}

	return m, nil
}

func (m model) toggleTheme() (tea.Model, tea.Cmd) {
	theme := "light"
	if m.styles.Dark {
		m.styles = view.LightStyles()
	} else {
		m.styles = view.DarkStyles()
		theme = "dark"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	_ = m.port.Save(ctx, storage.KeyTheme, []byte(theme))
	cancel()

	// Rebuild the current page so it picks up the new palette.
	return m.navigate(view.NavigateMsg{Page: m.currentPage})
}

func (m model) updateCurrent(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if !m.loggedIn {
		var newModel tea.Model
		newModel, cmd = m.loginView.Update(msg)
		m.loginView = newModel.(view.LoginModel)
		return m, cmd
	}

	switch m.currentPage {
	case view.PageDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case view.PageCustomerDetail:
		var newModel tea.Model
		newModel, cmd = m.customerView.Update(msg)
		m.customerView = newModel.(view.CustomerModel)
	case view.PageAddCustomer:
		var newModel tea.Model
		newModel, cmd = m.addCustomer.Update(msg)
		m.addCustomer = newModel.(view.AddCustomerModel)
	case view.PageAddLoan:
		var newModel tea.Model
		newModel, cmd = m.addLoan.Update(msg)
		m.addLoan = newModel.(view.AddLoanModel)
	case view.PageRecordRepayment:
		var newModel tea.Model
		newModel, cmd = m.repayment.Update(msg)
		m.repayment = newModel.(view.RepaymentModel)
	}

	return m, cmd
}

func (m model) View() string {
	var body, help string

	if !m.loggedIn {
		body = m.loginView.View()
		help = m.loginView.ShortHelp()
	} else {
		switch m.currentPage {
		case view.PageDashboard:
			body = m.dashboardView.View()
			help = m.dashboardView.ShortHelp()
		case view.PageCustomerDetail:
			body = m.customerView.View()
			help = m.customerView.ShortHelp()
		case view.PageAddCustomer:
			body = m.addCustomer.View()
			help = m.addCustomer.ShortHelp()
		case view.PageAddLoan:
			body = m.addLoan.View()
			help = m.addLoan.ShortHelp()
		case view.PageRecordRepayment:
			body = m.repayment.View()
			help = m.repayment.ShortHelp()
		}
	}

	if m.toast != "" {
		style := m.styles.Success
		if m.toastKind == view.ToastError {
			style = m.styles.Error
		}
		body = lipgloss.JoinVertical(lipgloss.Left, style.Padding(0, 1).Render(m.toast), body)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		body,
		m.styles.Faint.Padding(0, 1).Render(help),
	)
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
