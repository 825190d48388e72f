package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// Page identifies one of the app's screens.
type Page int

const (
	PageDashboard Page = iota
	PageCustomerDetail
	PageAddCustomer
	PageAddLoan
	PageRecordRepayment
)

// CommonModel is embedded by all views.
type CommonModel struct {
	Width  int
	Height int
}

// NavigateMsg replaces the current page unconditionally. CustomerID and
// LoanID carry the typed params pages need; zero when irrelevant.
type NavigateMsg struct {
	Page       Page
	CustomerID uuid.UUID
	LoanID     uuid.UUID
}

// Navigate returns a command that switches to the given page.
func Navigate(page Page) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Page: page}
	}
}

// NavigateCustomer switches to a page scoped to one customer.
func NavigateCustomer(page Page, customerID uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Page: page, CustomerID: customerID}
	}
}

// NavigateLoan switches to a page scoped to one loan of a customer.
func NavigateLoan(page Page, customerID, loanID uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Page: page, CustomerID: customerID, LoanID: loanID}
	}
}

// ToastKind distinguishes the two notification colors.
type ToastKind int

const (
	ToastSuccess ToastKind = iota
	ToastError
)

// ToastMsg asks the root model to show a transient notification. Only the
// most recent toast is visible; it clears itself after three seconds.
type ToastMsg struct {
	Text string
	Kind ToastKind
}

// Success returns a command that raises a success toast.
func Success(text string) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{Text: text, Kind: ToastSuccess}
	}
}

// Error returns a command that raises an error toast.
func Error(text string) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{Text: text, Kind: ToastError}
	}
}

// LoginSuccessMsg is emitted by the login view once the guard accepts the
// credentials.
type LoginSuccessMsg struct{}

// LogoutMsg asks the root model to log out and return to the login view.
type LogoutMsg struct{}

// ToggleThemeMsg asks the root model to flip between dark and light styles.
type ToggleThemeMsg struct{}
