package handler

import (
	"encoding/json"
	"net/http"

	"github.com/SatrioUtomo13/joint-stash-scan/internal/ui"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/view"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Budgets (client-local, manage page)
// ============================================================

type budgetFormRequest struct {
	Title  string `json:"title"`
	Total  string `json:"total"`
	Period string `json:"period"`
}

func budgetListHandler(manage *ui.Manage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/manage/budgets")
		defer span.End()

		writeJSON(w, http.StatusOK, view.NewBudgetCards(manage.Budgets()))
	}
}

func budgetFormOpenHandler(manage *ui.Manage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /v1/manage/budgets/form")
		defer span.End()

		manage.OpenBudgetForm()
		writeJSON(w, http.StatusOK, manage.State())
	}
}

func budgetSubmitHandler(manage *ui.Manage, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /v1/manage/budgets")
		defer span.End()

		var req budgetFormRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		form := manage.BudgetForm
		form.SetFields(req.Title, req.Total, req.Period)

		if err := form.Submit(); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, view.NewBudgetCards(manage.Budgets()))
	}
}

func budgetDeleteHandler(manage *ui.Manage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "DELETE /v1/manage/budgets/{budgetId}")
		defer span.End()

		manage.DeleteBudget(chi.URLParam(r, "budgetId"))
		w.WriteHeader(http.StatusNoContent)
	}
}
