package domain_test

import (
	"testing"

	"github.com/SatrioUtomo13/joint-stash-scan/internal/domain"
)

func TestProgressPercent(t *testing.T) {
	g := domain.SavingsGoal{Current: 45_000_000, Target: 100_000_000}
	if got := g.ProgressPercent(); got != 45 {
		t.Errorf("expected 45, got %f", got)
	}
}

func TestProgressPercent_ZeroTarget(t *testing.T) {
	g := domain.SavingsGoal{Current: 1000, Target: 0}
	if got := g.ProgressPercent(); got != 0 {
		t.Errorf("expected 0 for zero target, got %f", got)
	}
}

func TestDisplayPercent_ClampsOverTarget(t *testing.T) {
	g := domain.SavingsGoal{Current: 150, Target: 100}
	if got := g.DisplayPercent(); got != 100 {
		t.Errorf("expected display percent clamped to 100, got %f", got)
	}
	// The raw percent stays unclamped.
	if got := g.ProgressPercent(); got != 150 {
		t.Errorf("expected raw percent 150, got %f", got)
	}
}

func TestBudgetRemaining(t *testing.T) {
	b := domain.Budget{Total: 5_000_000, Spent: 3_250_000}
	if got := b.Remaining(); got != 1_750_000 {
		t.Errorf("expected 1750000, got %d", got)
	}

	over := domain.Budget{Total: 1_000_000, Spent: 1_200_000}
	if got := over.Remaining(); got != -200_000 {
		t.Errorf("expected negative remaining, got %d", got)
	}
}

func TestBudgetSpentPercent_ZeroTotal(t *testing.T) {
	b := domain.Budget{Total: 0, Spent: 500}
	if got := b.SpentPercent(); got != 0 {
		t.Errorf("expected 0 for zero total, got %f", got)
	}
}

func TestMemberIsAdmin(t *testing.T) {
	if !(domain.Member{Role: "admin"}).IsAdmin() {
		t.Error("expected admin role to report admin")
	}
	if (domain.Member{Role: "member"}).IsAdmin() {
		t.Error("expected member role to not report admin")
	}
}
