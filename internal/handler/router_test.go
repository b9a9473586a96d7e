package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/SatrioUtomo13/joint-stash-scan/internal/domain"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/handler"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/infra/api"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/infra/cache"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/infra/observability"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/infra/resilience"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/ocr"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/service"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/session"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/ui"
)

// newTestStack wires the full gateway against a fake remote API and returns
// the router plus the session store for auth assertions.
func newTestStack(t *testing.T, remote http.HandlerFunc) (http.Handler, *session.Store) {
	t.Helper()

	upstream := httptest.NewServer(remote)
	t.Cleanup(upstream.Close)

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	store := session.NewStore()

	client := api.NewClient(upstream.Client(), upstream.URL, store, func() {}, resilience.NewCircuitBreaker("test"), logger)
	goalSvc := service.NewGoalService(client, metrics, logger)
	authSvc := service.NewAuthService(client, store, metrics, logger)

	members := cache.New[[]domain.Member](time.Minute)
	t.Cleanup(members.Stop)

	scanner := ocr.NewMockScanner(0, logger)
	dash := ui.NewDashboard(goalSvc, members, scanner, metrics, logger)
	manage := ui.NewManage(goalSvc, members, metrics, logger)

	return handler.NewRouter(dash, manage, authSvc, store, metrics, logger, "http://localhost:5173"), store
}

func multipartReceipt(t *testing.T, filename string, image []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("receipt", filename)
	if err != nil {
		t.Fatalf("multipart setup: %v", err)
	}
	fw.Write(image)
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestHealthz(t *testing.T) {
	router, _ := newTestStack(t, func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestReadyz(t *testing.T) {
	router, _ := newTestStack(t, func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestStack(t, func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestDashboardRefreshAndState(t *testing.T) {
	router, _ := newTestStack(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/goals/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"id": "g1", "title": "Holiday", "target": 2000000, "current_target": 500000, "members": []}]`))
			return
		}
		http.NotFound(w, r)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/dashboard/refresh", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/dashboard/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var state struct {
		Goals []struct {
			ID         string  `json:"id"`
			BarPercent float64 `json:"bar_percent"`
		} `json:"goals"`
		TotalSaved string `json:"total_saved"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatalf("invalid state payload: %v", err)
	}
	if len(state.Goals) != 1 || state.Goals[0].ID != "g1" {
		t.Fatalf("unexpected goals: %+v", state.Goals)
	}
	if state.Goals[0].BarPercent != 25 {
		t.Errorf("expected 25%% bar, got %v", state.Goals[0].BarPercent)
	}
	if state.TotalSaved != "Rp500.000" {
		t.Errorf("unexpected total: %q", state.TotalSaved)
	}
}

func TestGoalSubmit_ValidationIsLocal(t *testing.T) {
	remoteCalls := 0
	router, _ := newTestStack(t, func(w http.ResponseWriter, r *http.Request) {
		remoteCalls++
	})

	// Open the form, then submit without a title.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/manage/goals/form", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := strings.NewReader(`{"title": "", "target": "100000"}`)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/manage/goals", body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if remoteCalls != 0 {
		t.Errorf("expected no remote call on local validation failure, got %d", remoteCalls)
	}
}

func TestGoalSubmit_CreatesRemotely(t *testing.T) {
	var createdPayload map[string]any
	router, _ := newTestStack(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/api/goals/" && r.Method == http.MethodPost {
			json.NewDecoder(r.Body).Decode(&createdPayload)
			w.Write([]byte(`{"id": "g9", "title": "Holiday", "target": 100000, "current_target": 0, "members": []}`))
			return
		}
		w.Write([]byte(`[]`))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/manage/goals/form", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := strings.NewReader(`{"title": "Holiday", "target": "100.000", "members": ["friend@example.com"]}`)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/manage/goals", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if createdPayload["title"] != "Holiday" {
		t.Errorf("unexpected payload: %+v", createdPayload)
	}
	if createdPayload["target"] != float64(100_000) {
		t.Errorf("expected digit-only parsed target, got %v", createdPayload["target"])
	}
}

func TestGoalDelete_GoneGoalReturns404(t *testing.T) {
	router, _ := newTestStack(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			http.Error(w, `{"detail": "not found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/manage/goals/g1", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTransactionDeposit_EndToEnd(t *testing.T) {
	depositCalls := 0
	listCalls := 0
	router, _ := newTestStack(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/dropdown/goals":
			w.Write([]byte(`[{"id": "g1", "title": "Holiday"}]`))
		case r.URL.Path == "/api/goals/g1/deposit":
			depositCalls++
			w.Write([]byte(`{"id": "g1", "title": "Holiday", "target": 2000000, "current_target": 650000, "members": []}`))
		case r.URL.Path == "/api/goals/":
			listCalls++
			w.Write([]byte(`[]`))
		default:
			http.NotFound(w, r)
		}
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/dashboard/transactions/form",
		strings.NewReader(`{"kind": "savings"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/dashboard/transactions",
		strings.NewReader(`{"goal_id": "g1", "amount": "150000"}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if depositCalls != 1 {
		t.Errorf("expected exactly one deposit, got %d", depositCalls)
	}

	// The refresh fires in the background; give it a moment.
	deadline := time.After(time.Second)
	for listCalls == 0 {
		select {
		case <-deadline:
			t.Fatal("expected a background refresh after the deposit")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
}

func TestBudgets_LocalLifecycle(t *testing.T) {
	remoteCalls := 0
	router, _ := newTestStack(t, func(w http.ResponseWriter, r *http.Request) {
		remoteCalls++
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/manage/budgets/form", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/manage/budgets",
		strings.NewReader(`{"title": "Food", "total": "2000000", "period": "monthly"}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var cards []struct {
		ID        string `json:"id"`
		Remaining string `json:"remaining"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&cards); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if len(cards) != 1 || cards[0].Remaining != "Rp2.000.000" {
		t.Fatalf("unexpected cards: %+v", cards)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/manage/budgets/"+cards[0].ID, nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	if remoteCalls != 0 {
		t.Errorf("expected budgets to stay local, got %d remote calls", remoteCalls)
	}
}

func TestReceiptScan_ReturnsMockedExtraction(t *testing.T) {
	router, _ := newTestStack(t, func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/dashboard/receipts/form", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body, contentType := multipartReceipt(t, "receipt.jpg", []byte{0xff, 0xd8, 0xff})
	req := httptest.NewRequest(http.MethodPost, "/v1/dashboard/receipts/scan", body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var extraction struct {
		Amount      int64  `json:"amount"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&extraction); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if extraction.Amount == 0 || extraction.Description == "" {
		t.Errorf("expected populated extraction, got %+v", extraction)
	}
}

func TestAuthLogin_StoresToken(t *testing.T) {
	router, store := newTestStack(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/login" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"token": "abc123"}`))
			return
		}
		http.NotFound(w, r)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/login",
		strings.NewReader(`{"email": "a@b.c", "password": "secret"}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if store.Token() != "abc123" {
		t.Errorf("expected token stored, got %q", store.Token())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if store.Authenticated() {
		t.Error("expected session cleared after logout")
	}
}

func TestAuthLogin_MissingFieldsRejected(t *testing.T) {
	remoteCalls := 0
	router, _ := newTestStack(t, func(w http.ResponseWriter, r *http.Request) {
		remoteCalls++
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/login",
		strings.NewReader(`{"email": "a@b.c"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if remoteCalls != 0 {
		t.Errorf("expected no remote call, got %d", remoteCalls)
	}
}

func TestSyncMetrics(t *testing.T) {
	router, _ := newTestStack(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/manage/refresh", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/metrics/sync", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var snap struct {
		ManageRefreshes float64 `json:"manage_refreshes"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if snap.ManageRefreshes != 1 {
		t.Errorf("expected 1 manage refresh, got %v", snap.ManageRefreshes)
	}
}
