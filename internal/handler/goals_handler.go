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
// Savings goals (manage page)
// ============================================================

type goalFormRequest struct {
	Title       string   `json:"title"`
	Target      string   `json:"target"`
	Description string   `json:"description"`
	Members     []string `json:"members"`
}

func goalFormOpenHandler(manage *ui.Manage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /v1/manage/goals/form")
		defer span.End()

		manage.OpenGoalForm()
		writeJSON(w, http.StatusOK, manage.State())
	}
}

func goalEditOpenHandler(manage *ui.Manage, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/manage/goals/{goalId}/edit")
		defer span.End()

		goalID := chi.URLParam(r, "goalId")
		if err := manage.OpenGoalEdit(ctx, goalID); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"title":       manage.GoalForm.Title,
			"target":      manage.GoalForm.TargetText,
			"description": manage.GoalForm.Description,
			"members":     manage.GoalForm.Members,
		})
	}
}

// goalSubmitHandler drives the open goal form: it loads the request fields
// into the form and submits. Create versus update is decided by how the
// form was opened, exactly as the modal works.
func goalSubmitHandler(manage *ui.Manage, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/manage/goals")
		defer span.End()

		var req goalFormRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		form := manage.GoalForm
		form.SetFields(req.Title, req.Target, req.Description)
		for _, m := range req.Members {
			form.AddMember(m)
		}

		if err := form.Submit(ctx); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"status": "saved"})
	}
}

func goalDeleteHandler(manage *ui.Manage, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/manage/goals/{goalId}")
		defer span.End()

		goalID := chi.URLParam(r, "goalId")
		if err := manage.DeleteGoal(ctx, goalID); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, manage.State())
	}
}

func goalMembersHandler(manage *ui.Manage, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/manage/goals/{goalId}/members")
		defer span.End()

		goalID := chi.URLParam(r, "goalId")
		members, err := manage.OpenMembers(ctx, goalID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, view.NewMemberList(members))
	}
}
