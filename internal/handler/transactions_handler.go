package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/SatrioUtomo13/joint-stash-scan/internal/domain"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/ui"

	"go.uber.org/zap"
)

// ============================================================
// Transactions (dashboard page)
// ============================================================

type transactionOpenRequest struct {
	Kind string `json:"kind"` // "savings" | "expense"
}

type transactionSubmitRequest struct {
	GoalID      string `json:"goal_id"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func transactionOpenHandler(dash *ui.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/dashboard/transactions/form")
		defer span.End()

		var req transactionOpenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		dash.OpenTransactionModal(ctx, req.Kind)
		writeJSON(w, http.StatusOK, map[string]any{
			"kind":    dash.Transactions.Kind(),
			"options": dash.Transactions.Options(),
		})
	}
}

func transactionSubmitHandler(dash *ui.Dashboard, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/dashboard/transactions")
		defer span.End()

		var req transactionSubmitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		form := dash.Transactions
		form.SetFields(req.GoalID, req.Amount, req.Description, req.Category)

		if err := form.Submit(ctx); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
	}
}

// ============================================================
// Receipt scanning (dashboard page)
// ============================================================

// maxReceiptSize bounds receipt uploads at 10 MiB.
const maxReceiptSize = 10 << 20

func receiptOpenHandler(dash *ui.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /v1/dashboard/receipts/form")
		defer span.End()

		dash.OpenReceiptModal()
		writeJSON(w, http.StatusOK, dash.State())
	}
}

func receiptScanHandler(dash *ui.Dashboard, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/dashboard/receipts/scan")
		defer span.End()

		if err := r.ParseMultipartForm(maxReceiptSize); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart body")
			return
		}
		file, header, err := r.FormFile("receipt")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing receipt file")
			return
		}
		defer file.Close()

		image, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unreadable receipt file")
			return
		}

		extraction, err := dash.Receipt.Process(ctx, header.Filename, image)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, extraction)
	}
}

type receiptAssignRequest struct {
	BudgetID string `json:"budget_id"`
}

func receiptAssignHandler(dash *ui.Dashboard, manage *ui.Manage, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /v1/dashboard/receipts/assign")
		defer span.End()

		var req receiptAssignRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := dash.Receipt.AssignBudget(req.BudgetID); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		ex := dash.Receipt.Extraction()
		if req.BudgetID != "" && !manage.RecordSpend(req.BudgetID, ex.Amount) {
			handleServiceError(w, &domain.ErrNotFound{Resource: "budget", ID: req.BudgetID}, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "assigned"})
	}
}

// receiptUseHandler hands the extraction to an expense form so the user
// reviews the fields before anything is recorded.
func receiptUseHandler(dash *ui.Dashboard, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/dashboard/receipts/use")
		defer span.End()

		ex := dash.Receipt.Extraction()
		if ex == nil {
			handleServiceError(w, &domain.ErrValidation{Field: "receipt", Message: "scan a receipt first"}, logger)
			return
		}

		dash.OpenTransactionModal(ctx, domain.TransactionExpense)
		dash.Transactions.Prefill(*ex)
		writeJSON(w, http.StatusOK, map[string]string{
			"amount":      dash.Transactions.AmountText,
			"description": dash.Transactions.Description,
		})
	}
}
