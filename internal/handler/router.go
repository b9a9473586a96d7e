package handler

import (
	"net/http"
	"time"

	"github.com/SatrioUtomo13/joint-stash-scan/internal/infra/observability"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/port"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/session"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/ui"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router serving the Dompet Kita front end. Every
// route drives a container or modal the same way a UI event would, so the
// page state the front end reads is always the state those components own.
func NewRouter(dash *ui.Dashboard, manage *ui.Manage, authSvc port.Authenticator, store *session.Store, metrics *observability.Metrics, logger *zap.Logger, frontendOrigin string) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(store))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// Dashboard page
		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/", dashboardStateHandler(dash))
			r.Post("/refresh", dashboardRefreshHandler(dash, logger))
			r.Post("/focus/{goalId}", dashboardFocusHandler(dash, logger))
			r.Post("/blur", dashboardBlurHandler(dash))
			r.Post("/modals/close", dashboardCloseModalsHandler(dash))

			r.Post("/transactions/form", transactionOpenHandler(dash))
			r.Post("/transactions", transactionSubmitHandler(dash, logger))

			r.Post("/receipts/form", receiptOpenHandler(dash))
			r.Post("/receipts/scan", receiptScanHandler(dash, logger))
			r.Post("/receipts/assign", receiptAssignHandler(dash, manage, logger))
			r.Post("/receipts/use", receiptUseHandler(dash, logger))
		})

		// Manage page
		r.Route("/manage", func(r chi.Router) {
			r.Get("/", manageStateHandler(manage))
			r.Post("/refresh", manageRefreshHandler(manage, logger))
			r.Post("/modals/close", manageCloseModalsHandler(manage))

			r.Post("/goals/form", goalFormOpenHandler(manage))
			r.Post("/goals/{goalId}/edit", goalEditOpenHandler(manage, logger))
			r.Post("/goals", goalSubmitHandler(manage, logger))
			r.Delete("/goals/{goalId}", goalDeleteHandler(manage, logger))
			r.Get("/goals/{goalId}/members", goalMembersHandler(manage, logger))

			r.Get("/budgets", budgetListHandler(manage))
			r.Post("/budgets/form", budgetFormOpenHandler(manage))
			r.Post("/budgets", budgetSubmitHandler(manage, logger))
			r.Delete("/budgets/{budgetId}", budgetDeleteHandler(manage))
		})

		// Authentication
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authLoginHandler(authSvc, logger))
			r.Post("/register", authRegisterHandler(authSvc, logger))
			r.Post("/logout", authLogoutHandler(authSvc))
			r.Get("/session", authSessionHandler(store))
		})

		// Sync metrics for the debug panel
		r.Get("/metrics/sync", syncMetricsHandler(metrics))
	})

	return r
}

// ============================================================
// Metrics & probes
// ============================================================

func syncMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/metrics/sync")
		defer span.End()

		writeJSON(w, http.StatusOK, metrics.GetSyncSnapshot())
	}
}

func healthzHandler(store *session.Store) http.HandlerFunc {
	started := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":        "healthy",
			"uptime":        time.Since(started).Round(time.Second).String(),
			"authenticated": store.Authenticated(),
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
