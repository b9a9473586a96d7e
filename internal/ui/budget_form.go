package ui

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/SatrioUtomo13/joint-stash-scan/internal/domain"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/view"
)

// BudgetForm is the create-budget modal. Budgets never leave the process,
// so Submit is purely local: validate, mint an ID, hand the budget to the
// owning container.
type BudgetForm struct {
	mu sync.Mutex

	phase Phase

	Title     string
	TotalText string
	Period    string

	lastErr error

	onCreate func(domain.Budget)
}

func NewBudgetForm(onCreate func(domain.Budget)) *BudgetForm {
	return &BudgetForm{onCreate: onCreate}
}

func (f *BudgetForm) Open() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
	f.phase = PhaseOpen
}

func (f *BudgetForm) SetFields(title, total, period string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Title = title
	f.TotalText = total
	f.Period = period
}

func (f *BudgetForm) Submit() error {
	f.mu.Lock()
	if f.phase != PhaseOpen {
		f.mu.Unlock()
		return &domain.ErrValidation{Field: "form", Message: "form is not open"}
	}

	title := strings.TrimSpace(f.Title)
	if title == "" {
		err := &domain.ErrValidation{Field: "title", Message: "title is required"}
		f.lastErr = err
		f.mu.Unlock()
		return err
	}
	total, err := view.ParseAmount(f.TotalText)
	if err != nil {
		f.lastErr = err
		f.mu.Unlock()
		return err
	}
	if strings.TrimSpace(f.Period) == "" {
		verr := &domain.ErrValidation{Field: "period", Message: "period is required"}
		f.lastErr = verr
		f.mu.Unlock()
		return verr
	}

	budget := domain.Budget{
		ID:     uuid.NewString(),
		Title:  title,
		Total:  total,
		Period: strings.TrimSpace(f.Period),
	}
	f.reset()
	f.mu.Unlock()

	if f.onCreate != nil {
		f.onCreate(budget)
	}
	return nil
}

func (f *BudgetForm) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
}

func (f *BudgetForm) Phase() Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

func (f *BudgetForm) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// reset requires f.mu held.
func (f *BudgetForm) reset() {
	f.phase = PhaseClosed
	f.Title = ""
	f.TotalText = ""
	f.Period = ""
	f.lastErr = nil
}
