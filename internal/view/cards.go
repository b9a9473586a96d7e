package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/SatrioUtomo13/joint-stash-scan/internal/domain"
)

// GoalCard is the dashboard/manage rendering of a single savings goal.
type GoalCard struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	BarPercent     float64 `json:"bar_percent"`      // clamped at 100 for the progress bar
	ProgressLabel  string  `json:"progress_label"`   // unclamped, "112.5%"
	Current        string  `json:"current"`          // formatted, raw amount unclamped
	Target         string  `json:"target"`
	CurrentRaw     int64   `json:"current_raw"`
	TargetRaw      int64   `json:"target_raw"`
	Contributors   int     `json:"contributors"`
	Deadline       string  `json:"deadline,omitempty"`
}

// NewGoalCard builds a card from a goal. Division by a zero target never
// happens; such a goal shows 0% until the server fixes it.
func NewGoalCard(g domain.SavingsGoal) GoalCard {
	card := GoalCard{
		ID:            g.ID,
		Title:         g.Title,
		BarPercent:    g.DisplayPercent(),
		ProgressLabel: fmt.Sprintf("%.1f%%", g.ProgressPercent()),
		Current:       FormatIDR(g.Current),
		Target:        FormatIDR(g.Target),
		CurrentRaw:    g.Current,
		TargetRaw:     g.Target,
		Contributors:  len(g.Members),
	}
	if g.Deadline != nil {
		card.Deadline = FormatDate(*g.Deadline)
	}
	return card
}

// NewGoalCards maps a goal list in order.
func NewGoalCards(goals []domain.SavingsGoal) []GoalCard {
	cards := make([]GoalCard, 0, len(goals))
	for _, g := range goals {
		cards = append(cards, NewGoalCard(g))
	}
	return cards
}

// BudgetCard is the rendering of a budget with its derived remaining amount.
type BudgetCard struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	BarPercent   float64 `json:"bar_percent"` // clamped at 100
	SpentLabel   string  `json:"spent_label"` // unclamped percent
	Spent        string  `json:"spent"`
	Remaining    string  `json:"remaining"`
	Overspent    bool    `json:"overspent"`  // spent > total
	NearLimit    bool    `json:"near_limit"` // spent > 80% of total
	Period       string  `json:"period"`
}

// NewBudgetCard derives remaining = total − spent on every build; nothing is
// persisted.
func NewBudgetCard(b domain.Budget) BudgetCard {
	pct := b.SpentPercent()
	bar := pct
	if bar > 100 {
		bar = 100
	}
	return BudgetCard{
		ID:         b.ID,
		Title:      b.Title,
		BarPercent: bar,
		SpentLabel: fmt.Sprintf("%.1f%%", pct),
		Spent:      FormatIDR(b.Spent),
		Remaining:  FormatIDR(b.Remaining()),
		Overspent:  pct > 100,
		NearLimit:  pct > 80,
		Period:     b.Period,
	}
}

// NewBudgetCards maps a budget list in order.
func NewBudgetCards(budgets []domain.Budget) []BudgetCard {
	cards := make([]BudgetCard, 0, len(budgets))
	for _, b := range budgets {
		cards = append(cards, NewBudgetCard(b))
	}
	return cards
}

// MemberItem is one row of a goal's member list.
type MemberItem struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Initials    string `json:"initials"`
	Role        string `json:"role"`
	Admin       bool   `json:"admin"`
	Contributed string `json:"contributed"` // compact notation
}

// NewMemberList maps members in server order (the server decides ranking).
func NewMemberList(members []domain.Member) []MemberItem {
	items := make([]MemberItem, 0, len(members))
	for _, m := range members {
		items = append(items, MemberItem{
			ID:          m.ID,
			Username:    m.Username,
			Email:       m.Email,
			Initials:    Initials(m.Username),
			Role:        m.Role,
			Admin:       m.IsAdmin(),
			Contributed: FormatIDRCompact(m.TotalContributed),
		})
	}
	return items
}

// TransactionItem is one row of the recent-transactions feed.
type TransactionItem struct {
	ID          string `json:"id"`
	Incoming    bool   `json:"incoming"` // savings deposits point up
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Date        string `json:"date"`
	User        string `json:"user"`
	Category    string `json:"category,omitempty"`
}

// NewTransactionList maps transactions in feed order.
func NewTransactionList(transactions []domain.Transaction) []TransactionItem {
	items := make([]TransactionItem, 0, len(transactions))
	for _, tx := range transactions {
		items = append(items, TransactionItem{
			ID:          tx.ID,
			Incoming:    tx.Kind == domain.TransactionSavings,
			Amount:      FormatIDR(tx.Amount),
			Description: tx.Description,
			Date:        FormatDate(tx.Date),
			User:        tx.User,
			Category:    tx.Category,
		})
	}
	return items
}

// Initials returns up to the first letters of the first two words,
// uppercased: "John Doe" → "JD".
func Initials(name string) string {
	var b strings.Builder
	for i, word := range strings.Fields(name) {
		if i == 2 {
			break
		}
		r := []rune(word)[0]
		b.WriteString(strings.ToUpper(string(r)))
	}
	return b.String()
}

// FormatDate renders the id-ID short date the transaction feed uses:
// "15 Jan 2024".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), indonesianMonths[t.Month()-1], t.Year())
}
