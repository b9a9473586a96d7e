// Package service holds the domain service functions: one method per remote
// operation. Each constructs a path, issues exactly one adapter request and
// decodes the payload. Validation belongs to the calling form; errors are
// re-raised unchanged apart from naming the resource on a 404.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/SatrioUtomo13/joint-stash-scan/internal/domain"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/infra/observability"
	"github.com/SatrioUtomo13/joint-stash-scan/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("service/goal")

// GoalService implements port.GoalDirectory against the remote API.
type GoalService struct {
	api     port.Requester
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewGoalService creates the goal service with all dependencies injected.
func NewGoalService(api port.Requester, metrics *observability.Metrics, logger *zap.Logger) *GoalService {
	return &GoalService{api: api, metrics: metrics, logger: logger}
}

// List fetches all savings goals. GET /api/goals/
func (s *GoalService) List(ctx context.Context) ([]domain.SavingsGoal, error) {
	ctx, span := tracer.Start(ctx, "GoalService.List")
	defer span.End()

	body, err := s.observe(ctx, "list_goals", func(ctx context.Context) ([]byte, error) {
		return s.api.Do(ctx, "GET", "/api/goals/", nil, true)
	})
	if err != nil {
		return nil, err
	}

	var wires []wireGoal
	if err := json.Unmarshal(body, &wires); err != nil {
		return nil, &domain.ErrServer{Status: 200, Detail: "unexpected goal list payload: " + err.Error()}
	}
	goals := make([]domain.SavingsGoal, 0, len(wires))
	for _, w := range wires {
		goals = append(goals, w.toDomain())
	}
	return goals, nil
}

// Get fetches a single goal with expanded members. GET /api/goals/{id}
func (s *GoalService) Get(ctx context.Context, id string) (*domain.SavingsGoal, error) {
	ctx, span := tracer.Start(ctx, "GoalService.Get")
	defer span.End()
	span.SetAttributes(attribute.String("goal.id", id))

	body, err := s.observe(ctx, "get_goal", func(ctx context.Context) ([]byte, error) {
		return s.api.Do(ctx, "GET", goalPath(id), nil, true)
	})
	if err != nil {
		return nil, nameNotFound(err, "goal", id)
	}
	return decodeGoal(body)
}

// Create creates a goal. POST /api/goals/
func (s *GoalService) Create(ctx context.Context, input domain.GoalInput) (*domain.SavingsGoal, error) {
	ctx, span := tracer.Start(ctx, "GoalService.Create")
	defer span.End()

	body, err := s.observe(ctx, "create_goal", func(ctx context.Context) ([]byte, error) {
		return s.api.Do(ctx, "POST", "/api/goals/", input, true)
	})
	if err != nil {
		return nil, err
	}
	return decodeGoal(body)
}

// Update replaces a goal's editable fields. PUT /api/goals/{id}
func (s *GoalService) Update(ctx context.Context, id string, input domain.GoalInput) (*domain.SavingsGoal, error) {
	ctx, span := tracer.Start(ctx, "GoalService.Update")
	defer span.End()
	span.SetAttributes(attribute.String("goal.id", id))

	body, err := s.observe(ctx, "update_goal", func(ctx context.Context) ([]byte, error) {
		return s.api.Do(ctx, "PUT", goalPath(id), input, true)
	})
	if err != nil {
		return nil, nameNotFound(err, "goal", id)
	}
	return decodeGoal(body)
}

// Delete removes a goal. DELETE /api/goals/{id}
// Deleting an already-deleted goal surfaces NotFound; it is not success.
func (s *GoalService) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "GoalService.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("goal.id", id))

	_, err := s.observe(ctx, "delete_goal", func(ctx context.Context) ([]byte, error) {
		return s.api.Do(ctx, "DELETE", goalPath(id), nil, true)
	})
	return nameNotFound(err, "goal", id)
}

// Deposit records an amount against a goal. POST /api/goals/{id}/deposit
// The amount has already been coerced to a positive integer by the form.
// The server may answer with the updated goal or a bare confirmation; a
// non-goal body yields a nil goal with no error.
func (s *GoalService) Deposit(ctx context.Context, id string, amount int64) (*domain.SavingsGoal, error) {
	ctx, span := tracer.Start(ctx, "GoalService.Deposit")
	defer span.End()
	span.SetAttributes(
		attribute.String("goal.id", id),
		attribute.Int64("deposit.amount", amount),
	)

	payload := map[string]int64{"amount": amount}
	body, err := s.observe(ctx, "deposit", func(ctx context.Context) ([]byte, error) {
		return s.api.Do(ctx, "POST", goalPath(id)+"/deposit", payload, true)
	})
	if err != nil {
		return nil, nameNotFound(err, "goal", id)
	}

	var wire wireGoal
	if err := json.Unmarshal(body, &wire); err != nil || wire.ID == "" {
		return nil, nil // confirmation-only response
	}
	goal := wire.toDomain()
	return &goal, nil
}

// Members fetches a goal's member list. GET /api/goals/{id}/members
func (s *GoalService) Members(ctx context.Context, id string) ([]domain.Member, error) {
	ctx, span := tracer.Start(ctx, "GoalService.Members")
	defer span.End()
	span.SetAttributes(attribute.String("goal.id", id))

	body, err := s.observe(ctx, "goal_members", func(ctx context.Context) ([]byte, error) {
		return s.api.Do(ctx, "GET", goalPath(id)+"/members", nil, true)
	})
	if err != nil {
		return nil, nameNotFound(err, "goal", id)
	}

	var wires []wireMember
	if err := json.Unmarshal(body, &wires); err != nil {
		return nil, &domain.ErrServer{Status: 200, Detail: "unexpected member list payload: " + err.Error()}
	}
	members := make([]domain.Member, 0, len(wires))
	for _, w := range wires {
		members = append(members, w.toDomain())
	}
	return members, nil
}

// DropdownOptions fetches the {id, title} projection for selection controls.
// GET /api/dropdown/goals
func (s *GoalService) DropdownOptions(ctx context.Context) ([]domain.DropdownOption, error) {
	ctx, span := tracer.Start(ctx, "GoalService.DropdownOptions")
	defer span.End()

	body, err := s.observe(ctx, "dropdown_goals", func(ctx context.Context) ([]byte, error) {
		return s.api.Do(ctx, "GET", "/api/dropdown/goals", nil, true)
	})
	if err != nil {
		return nil, err
	}

	var wires []wireOption
	if err := json.Unmarshal(body, &wires); err != nil {
		return nil, &domain.ErrServer{Status: 200, Detail: "unexpected dropdown payload: " + err.Error()}
	}
	options := make([]domain.DropdownOption, 0, len(wires))
	for _, w := range wires {
		options = append(options, domain.DropdownOption{ID: string(w.ID), Title: w.Title})
	}
	return options, nil
}

// observe wraps one adapter call with duration and error-class metrics.
func (s *GoalService) observe(ctx context.Context, operation string, fn func(context.Context) ([]byte, error)) ([]byte, error) {
	start := time.Now()
	body, err := fn(ctx)
	s.metrics.RecordRequestDuration(operation, time.Since(start))
	if err != nil {
		s.metrics.IncrRemoteError(errClass(err))
		s.logger.Warn("goal service: remote call failed",
			zap.String("operation", operation),
			zap.Error(err),
		)
	}
	return body, err
}

// nameNotFound fills in resource and id on a bare adapter 404 so the caller
// sees "goal not found: <id>" instead of an anonymous miss.
func nameNotFound(err error, resource, id string) error {
	var notFound *domain.ErrNotFound
	if errors.As(err, &notFound) && notFound.Resource == "" {
		return &domain.ErrNotFound{Resource: resource, ID: id}
	}
	return err
}

// errClass buckets a domain error for the remote-error metric.
func errClass(err error) string {
	var (
		validation   *domain.ErrValidation
		unauthorized *domain.ErrUnauthorized
		notFound     *domain.ErrNotFound
		server       *domain.ErrServer
		network      *domain.ErrNetwork
		circuitOpen  *domain.ErrCircuitOpen
	)
	switch {
	case errors.As(err, &validation):
		return "validation"
	case errors.As(err, &unauthorized):
		return "unauthorized"
	case errors.As(err, &notFound):
		return "not_found"
	case errors.As(err, &server):
		return "server"
	case errors.As(err, &network):
		return "network"
	case errors.As(err, &circuitOpen):
		return "circuit_open"
	default:
		return "other"
	}
}
