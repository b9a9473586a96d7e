package view_test

import (
	"testing"
	"time"

	"github.com/SatrioUtomo13/joint-stash-scan/internal/domain"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/view"
)

func TestNewGoalCard(t *testing.T) {
	g := domain.SavingsGoal{
		ID:      "g-1",
		Title:   "Dream House Fund",
		Current: 45_000_000,
		Target:  100_000_000,
		Members: []domain.Member{{Username: "John"}, {Username: "Jane"}},
	}

	card := view.NewGoalCard(g)

	if card.BarPercent != 45 {
		t.Errorf("expected bar percent 45, got %f", card.BarPercent)
	}
	if card.ProgressLabel != "45.0%" {
		t.Errorf("unexpected progress label %q", card.ProgressLabel)
	}
	if card.Current != "Rp45.000.000" {
		t.Errorf("unexpected current %q", card.Current)
	}
	if card.Contributors != 2 {
		t.Errorf("expected 2 contributors, got %d", card.Contributors)
	}
}

func TestNewGoalCard_OverTarget(t *testing.T) {
	g := domain.SavingsGoal{Current: 120, Target: 100}
	card := view.NewGoalCard(g)

	if card.BarPercent != 100 {
		t.Errorf("expected bar clamped at 100, got %f", card.BarPercent)
	}
	if card.ProgressLabel != "120.0%" {
		t.Errorf("expected unclamped label, got %q", card.ProgressLabel)
	}
	if card.CurrentRaw != 120 {
		t.Errorf("expected raw amount unclamped, got %d", card.CurrentRaw)
	}
}

func TestNewGoalCard_ZeroTarget(t *testing.T) {
	card := view.NewGoalCard(domain.SavingsGoal{Current: 500, Target: 0})
	if card.BarPercent != 0 {
		t.Errorf("expected 0%% for zero target, got %f", card.BarPercent)
	}
}

func TestNewBudgetCard_Thresholds(t *testing.T) {
	normal := view.NewBudgetCard(domain.Budget{Total: 100, Spent: 50})
	if normal.NearLimit || normal.Overspent {
		t.Error("expected neither flag at 50%")
	}

	near := view.NewBudgetCard(domain.Budget{Total: 100, Spent: 85})
	if !near.NearLimit || near.Overspent {
		t.Errorf("expected near-limit only at 85%%, got %+v", near)
	}

	over := view.NewBudgetCard(domain.Budget{Total: 100, Spent: 120})
	if !over.Overspent || !over.NearLimit {
		t.Errorf("expected both flags at 120%%, got %+v", over)
	}
	if over.BarPercent != 100 {
		t.Errorf("expected bar clamped, got %f", over.BarPercent)
	}
	if over.Remaining != "-Rp20" {
		t.Errorf("expected negative remaining shown, got %q", over.Remaining)
	}
}

func TestNewMemberList(t *testing.T) {
	members := []domain.Member{
		{ID: "1", Username: "John Doe", Email: "john@example.com", Role: "admin", TotalContributed: 15_000_000},
		{ID: "2", Username: "Jane Smith", Role: "member", TotalContributed: 12_500_000},
	}

	items := view.NewMemberList(members)

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Initials != "JD" || !items[0].Admin {
		t.Errorf("unexpected first item %+v", items[0])
	}
	if items[1].Contributed != "Rp12,5 jt" {
		t.Errorf("expected compact contribution, got %q", items[1].Contributed)
	}
}

func TestInitials(t *testing.T) {
	cases := map[string]string{
		"John Doe":        "JD",
		"jane":            "J",
		"Sarah Jane Wilson": "SJ",
		"":                "",
	}
	for in, want := range cases {
		if got := view.Initials(in); got != want {
			t.Errorf("Initials(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewTransactionList(t *testing.T) {
	date := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	txs := []domain.Transaction{
		{ID: "t1", Kind: domain.TransactionSavings, Amount: 2_500_000, Description: "Monthly savings", Date: date, User: "John Doe"},
		{ID: "t2", Kind: domain.TransactionExpense, Amount: 450_000, Description: "Groceries", Date: date, User: "Jane Smith", Category: "Food"},
	}

	items := view.NewTransactionList(txs)

	if !items[0].Incoming {
		t.Error("expected savings transaction marked incoming")
	}
	if items[1].Incoming {
		t.Error("expected expense transaction not incoming")
	}
	if items[0].Date != "15 Jan 2024" {
		t.Errorf("unexpected date %q", items[0].Date)
	}
	if items[1].Amount != "Rp450.000" {
		t.Errorf("unexpected amount %q", items[1].Amount)
	}
}
