package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/SatrioUtomo13/joint-stash-scan/internal/port"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/session"

	"go.uber.org/zap"
)

// ============================================================
// Authentication
// ============================================================

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Subject       string `json:"subject,omitempty"`
	ExpiresAt     string `json:"expires_at,omitempty"`
}

func authLoginHandler(authSvc port.Authenticator, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/auth/login")
		defer span.End()

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		if _, err := authSvc.Login(ctx, req.Email, req.Password); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, map[string]bool{"authenticated": true})
	}
}

func authRegisterHandler(authSvc port.Authenticator, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/auth/register")
		defer span.End()

		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Name == "" || req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "name, email and password are required")
			return
		}

		if _, err := authSvc.Register(ctx, req.Name, req.Email, req.Password); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]bool{"authenticated": true})
	}
}

func authLogoutHandler(authSvc port.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /v1/auth/logout")
		defer span.End()

		authSvc.Logout()
		w.WriteHeader(http.StatusNoContent)
	}
}

// authSessionHandler reports whether a token is stored and, when it parses
// as a JWT, its subject and expiry. The token itself never leaves the
// process.
func authSessionHandler(store *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/auth/session")
		defer span.End()

		resp := sessionResponse{Authenticated: store.Authenticated()}
		if claims, ok := store.Inspect(); ok {
			resp.Subject = claims.Subject
			if !claims.ExpiresAt.IsZero() {
				resp.ExpiresAt = claims.ExpiresAt.Format(time.RFC3339)
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
