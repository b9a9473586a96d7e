package ui

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/SatrioUtomo13/joint-stash-scan/internal/domain"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/port"
)

// ReceiptForm is the scan-receipt modal: the user uploads an image, the
// scanner extracts expense fields, and the result can be assigned to a
// budget or handed to the expense form. Uploading again discards the
// previous extraction.
type ReceiptForm struct {
	mu  sync.Mutex
	gen uint64

	phase      Phase
	extraction *domain.ReceiptExtraction
	budgetID   string
	lastErr    error

	scanner port.ReceiptScanner
	logger  *zap.Logger
}

func NewReceiptForm(scanner port.ReceiptScanner, logger *zap.Logger) *ReceiptForm {
	return &ReceiptForm{scanner: scanner, logger: logger}
}

func (f *ReceiptForm) Open() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
	f.phase = PhaseOpen
}

// Process runs the scanner on the uploaded image. The form shows the
// submitting phase for the duration; a scan started on a since-closed
// form has its result dropped.
func (f *ReceiptForm) Process(ctx context.Context, filename string, image []byte) (*domain.ReceiptExtraction, error) {
	f.mu.Lock()
	if f.phase == PhaseClosed {
		f.mu.Unlock()
		return nil, &domain.ErrValidation{Field: "form", Message: "form is not open"}
	}
	gen := f.gen
	f.phase = PhaseSubmitting
	f.extraction = nil
	f.lastErr = nil
	f.mu.Unlock()

	ex, err := f.scanner.Extract(ctx, filename, image)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gen != gen {
		return nil, err
	}
	f.phase = PhaseOpen
	if err != nil {
		f.lastErr = err
		f.logger.Warn("receipt scan failed", zap.String("filename", filename), zap.Error(err))
		return nil, err
	}
	f.extraction = ex
	return ex, nil
}

// AssignBudget tags the extraction with a budget. It requires a completed
// scan.
func (f *ReceiptForm) AssignBudget(budgetID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.extraction == nil {
		return &domain.ErrValidation{Field: "receipt", Message: "scan a receipt first"}
	}
	f.budgetID = budgetID
	return nil
}

// Extraction returns the latest scan result, nil until a scan completes.
func (f *ReceiptForm) Extraction() *domain.ReceiptExtraction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.extraction
}

func (f *ReceiptForm) BudgetID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.budgetID
}

func (f *ReceiptForm) Phase() Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

func (f *ReceiptForm) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

func (f *ReceiptForm) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
}

// reset requires f.mu held.
func (f *ReceiptForm) reset() {
	f.gen++
	f.phase = PhaseClosed
	f.extraction = nil
	f.budgetID = ""
	f.lastErr = nil
}
