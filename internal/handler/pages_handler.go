package handler

import (
	"net/http"

	"github.com/SatrioUtomo13/joint-stash-scan/internal/ui"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Page containers
// ============================================================

func dashboardStateHandler(dash *ui.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/dashboard")
		defer span.End()

		writeJSON(w, http.StatusOK, dash.State())
	}
}

func dashboardRefreshHandler(dash *ui.Dashboard, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/dashboard/refresh")
		defer span.End()

		if err := dash.Refresh(ctx); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, dash.State())
	}
}

func dashboardFocusHandler(dash *ui.Dashboard, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/dashboard/focus/{goalId}")
		defer span.End()

		goalID := chi.URLParam(r, "goalId")
		if _, err := dash.FocusGoal(ctx, goalID); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, dash.State())
	}
}

func dashboardBlurHandler(dash *ui.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /v1/dashboard/blur")
		defer span.End()

		dash.Blur()
		writeJSON(w, http.StatusOK, dash.State())
	}
}

func dashboardCloseModalsHandler(dash *ui.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /v1/dashboard/modals/close")
		defer span.End()

		dash.CloseModals()
		writeJSON(w, http.StatusOK, dash.State())
	}
}

func manageStateHandler(manage *ui.Manage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/manage")
		defer span.End()

		writeJSON(w, http.StatusOK, manage.State())
	}
}

func manageRefreshHandler(manage *ui.Manage, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/manage/refresh")
		defer span.End()

		if err := manage.Refresh(ctx); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, manage.State())
	}
}

func manageCloseModalsHandler(manage *ui.Manage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /v1/manage/modals/close")
		defer span.End()

		manage.CloseModals()
		writeJSON(w, http.StatusOK, manage.State())
	}
}
