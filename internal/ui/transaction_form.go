package ui

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SatrioUtomo13/joint-stash-scan/internal/domain"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/port"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/view"
)

// TransactionForm is the add-transaction modal. In savings mode a submit
// issues exactly one deposit request and, on success, exactly one list
// refresh through the container callback. In expense mode nothing leaves
// the process: the entry is recorded in the local feed only.
type TransactionForm struct {
	mu  sync.Mutex
	gen uint64

	phase Phase
	kind  string

	GoalID      string
	AmountText  string
	Description string
	Category    string

	options []domain.DropdownOption
	lastErr error

	goals     port.GoalDirectory
	onRefresh func()
	onRecord  func(domain.Transaction)
	now       func() time.Time
	logger    *zap.Logger
}

func NewTransactionForm(goals port.GoalDirectory, onRefresh func(), onRecord func(domain.Transaction), logger *zap.Logger) *TransactionForm {
	return &TransactionForm{
		goals:     goals,
		onRefresh: onRefresh,
		onRecord:  onRecord,
		now:       time.Now,
		logger:    logger,
	}
}

// Open resets the form for the given kind. In savings mode the goal
// dropdown options are fetched fresh on every open; a fetch failure is
// logged and leaves the dropdown empty rather than blocking the modal.
func (f *TransactionForm) Open(ctx context.Context, kind string) {
	if kind != domain.TransactionSavings && kind != domain.TransactionExpense {
		kind = domain.TransactionExpense
	}

	var options []domain.DropdownOption
	if kind == domain.TransactionSavings {
		var err error
		options, err = f.goals.DropdownOptions(ctx)
		if err != nil {
			f.logger.Warn("dropdown options fetch failed", zap.Error(err))
			options = nil
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
	f.phase = PhaseOpen
	f.kind = kind
	f.options = options
}

func (f *TransactionForm) SetFields(goalID, amount, description, category string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GoalID = goalID
	f.AmountText = amount
	f.Description = description
	f.Category = category
}

// Prefill loads scanned receipt data into an open expense form.
func (f *TransactionForm) Prefill(ex domain.ReceiptExtraction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.AmountText = view.FormatAmountInput(ex.Amount)
	f.Description = ex.Description
}

// Submit validates locally and then performs the kind-specific effect.
// Validation failures never reach the network; remote failures keep every
// field so a retry needs no re-typing.
func (f *TransactionForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.phase != PhaseOpen {
		f.mu.Unlock()
		return &domain.ErrValidation{Field: "form", Message: "form is not open"}
	}

	amount, err := view.ParseAmount(f.AmountText)
	if err != nil {
		f.lastErr = err
		f.mu.Unlock()
		return err
	}
	if amount <= 0 {
		verr := &domain.ErrValidation{Field: "amount", Message: "amount must be greater than zero"}
		f.lastErr = verr
		f.mu.Unlock()
		return verr
	}

	kind := f.kind
	switch kind {
	case domain.TransactionSavings:
		if f.GoalID == "" {
			verr := &domain.ErrValidation{Field: "goal", Message: "choose a savings goal"}
			f.lastErr = verr
			f.mu.Unlock()
			return verr
		}
	default:
		if strings.TrimSpace(f.Description) == "" {
			verr := &domain.ErrValidation{Field: "description", Message: "description is required"}
			f.lastErr = verr
			f.mu.Unlock()
			return verr
		}
	}

	goalID := f.GoalID
	description := strings.TrimSpace(f.Description)
	category := f.Category
	gen := f.gen
	f.phase = PhaseSubmitting
	f.lastErr = nil
	f.mu.Unlock()

	if kind == domain.TransactionSavings {
		if _, err := f.goals.Deposit(ctx, goalID, amount); err != nil {
			f.mu.Lock()
			if f.gen == gen {
				f.phase = PhaseOpen
				f.lastErr = err
			}
			f.mu.Unlock()
			return err
		}
	}

	if description == "" {
		description = "Savings deposit"
	}
	tx := domain.Transaction{
		ID:          uuid.NewString(),
		Kind:        kind,
		Amount:      amount,
		Description: description,
		Date:        f.now(),
		User:        "You",
		Category:    category,
	}

	f.mu.Lock()
	superseded := f.gen != gen
	if !superseded {
		f.reset()
	}
	f.mu.Unlock()
	if superseded {
		return nil
	}

	if f.onRecord != nil {
		f.onRecord(tx)
	}
	if kind == domain.TransactionSavings && f.onRefresh != nil {
		f.onRefresh()
	}
	return nil
}

func (f *TransactionForm) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
}

func (f *TransactionForm) Phase() Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

func (f *TransactionForm) Kind() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.kind
}

// Options returns the dropdown choices fetched on Open.
func (f *TransactionForm) Options() []domain.DropdownOption {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.DropdownOption(nil), f.options...)
}

func (f *TransactionForm) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// reset requires f.mu held.
func (f *TransactionForm) reset() {
	f.gen++
	f.phase = PhaseClosed
	f.kind = ""
	f.GoalID = ""
	f.AmountText = ""
	f.Description = ""
	f.Category = ""
	f.options = nil
	f.lastErr = nil
}
