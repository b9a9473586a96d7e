package service

import (
	"context"
	"encoding/json"

	"github.com/SatrioUtomo13/joint-stash-scan/internal/domain"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/infra/observability"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/port"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/session"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var authTracer = otel.Tracer("service/auth")

// AuthService implements port.Authenticator. On success it stores the
// returned token in the session store; issuance and validation of that
// token are entirely the server's business.
type AuthService struct {
	api     port.Requester
	store   *session.Store
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewAuthService creates the auth service.
func NewAuthService(api port.Requester, store *session.Store, metrics *observability.Metrics, logger *zap.Logger) *AuthService {
	return &AuthService{api: api, store: store, metrics: metrics, logger: logger}
}

// Login exchanges credentials for a session. POST /auth/login
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Login")
	defer span.End()

	payload := map[string]string{"email": email, "password": password}
	body, err := s.api.Do(ctx, "POST", "/auth/login", payload, false)
	if err != nil {
		s.metrics.IncrRemoteError(errClass(err))
		return nil, err
	}
	return s.acceptSession(body, "login")
}

// Register creates an account and logs in. POST /users/
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.Session, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.Register")
	defer span.End()

	payload := map[string]string{"name": name, "email": email, "password": password}
	body, err := s.api.Do(ctx, "POST", "/users/", payload, false)
	if err != nil {
		s.metrics.IncrRemoteError(errClass(err))
		return nil, err
	}
	return s.acceptSession(body, "register")
}

// Logout clears the local session. The remote API keeps no client-visible
// session state to tear down.
func (s *AuthService) Logout() {
	s.store.Clear()
	s.metrics.IncrSessionEvent("logout")
	s.logger.Info("session: logged out")
}

func (s *AuthService) acceptSession(body []byte, event string) (*domain.Session, error) {
	var wire wireSession
	if err := json.Unmarshal(body, &wire); err != nil || wire.token() == "" {
		return nil, &domain.ErrServer{Status: 200, Detail: "session payload missing token"}
	}

	s.store.Set(wire.token())
	s.metrics.IncrSessionEvent(event)
	s.logger.Info("session: established", zap.String("via", event))
	return &domain.Session{Token: wire.token()}, nil
}
