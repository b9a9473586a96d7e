// Package domain holds the canonical entities of the Dompet Kita client.
// All remote entities are transient, re-fetchable copies; the server stays
// authoritative for every amount it returns.
package domain

import "time"

// SavingsGoal is a shared target amount tracked by a group of members.
// Current is never computed locally; it is whatever the last successful
// fetch returned, even when it exceeds Target.
type SavingsGoal struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Target      int64      `json:"target"`
	Current     int64      `json:"current"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Members     []Member   `json:"members"`
}

// ProgressPercent returns 100*Current/Target, unclamped.
// A target of zero (or less) yields 0 so callers never divide by zero.
func (g SavingsGoal) ProgressPercent() float64 {
	return progressPercent(g.Current, g.Target)
}

// DisplayPercent is ProgressPercent clamped to 100 for progress bars.
// The raw Current amount stays unclamped everywhere else.
func (g SavingsGoal) DisplayPercent() float64 {
	p := g.ProgressPercent()
	if p > 100 {
		return 100
	}
	return p
}

func progressPercent(current, target int64) float64 {
	if target <= 0 {
		return 0
	}
	return 100 * float64(current) / float64(target)
}

// Member is a read-only projection of a group participant. It exists only
// in the context of a goal; the client never mutates it.
type Member struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	Role             string    `json:"role"` // "admin" | "member"
	TotalContributed int64     `json:"total_contributed"`
	LastActivity     time.Time `json:"last_activity,omitempty"`
}

// IsAdmin reports whether the member administers the group.
func (m Member) IsAdmin() bool { return m.Role == "admin" }

// Budget is a spending allotment for a period. Budgets are client-local in
// this iteration: they are never sent to the remote API and live only for
// the lifetime of the process.
type Budget struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Total  int64  `json:"total"`
	Spent  int64  `json:"spent"`
	Period string `json:"period"`
}

// Remaining is derived on every call and never stored.
func (b Budget) Remaining() int64 { return b.Total - b.Spent }

// SpentPercent returns 100*Spent/Total, unclamped, guarded against a zero total.
func (b Budget) SpentPercent() float64 {
	return progressPercent(b.Spent, b.Total)
}

// Transaction kinds.
const (
	TransactionSavings = "savings"
	TransactionExpense = "expense"
)

// Transaction is a display-only ledger entry. Savings entries mirror
// successful deposits; expense entries are recorded locally.
type Transaction struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"` // TransactionSavings | TransactionExpense
	Amount      int64     `json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	User        string    `json:"user"`
	Category    string    `json:"category,omitempty"`
}

// DropdownOption is the minimal {id, title} projection used to populate
// selection controls.
type DropdownOption struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Session is the payload returned by a successful login or registration.
type Session struct {
	Token string `json:"token"`
}

// GoalInput is the payload for creating or updating a savings goal.
// The deadline collected by the form is display-only and deliberately
// not part of the payload.
type GoalInput struct {
	Title       string   `json:"title"`
	Target      int64    `json:"target"`
	Description string   `json:"description,omitempty"`
	Members     []string `json:"members"`
}

// ReceiptExtraction is what a receipt scan yields: the fields a user would
// otherwise type into the expense form.
type ReceiptExtraction struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Merchant    string `json:"merchant,omitempty"`
}
