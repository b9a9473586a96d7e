// Package api wraps HTTP calls to the remote Dompet Kita API.
//
// The adapter owns exactly three concerns: bearer-token attachment (read
// from the session store at call time, never cached), translation of HTTP
// failures into the domain error taxonomy, and the 401 side effect of
// clearing the session. Path construction and payload decoding belong to
// the service layer.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/SatrioUtomo13/joint-stash-scan/internal/domain"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("infra/api")

// TokenSource supplies the bearer token for authenticated calls and clears
// it when the server rejects the session. Implemented by session.Store.
type TokenSource interface {
	Token() string
	Clear()
}

// Client issues requests against the remote API base URL.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	tokens         TokenSource
	onUnauthorized func()
	cb             *gobreaker.CircuitBreaker
	logger         *zap.Logger
}

// NewClient creates an adapter. onUnauthorized is invoked after a 401 has
// cleared the session; callers decide what navigation, if any, follows.
func NewClient(httpClient *http.Client, baseURL string, tokens TokenSource, onUnauthorized func(), cb *gobreaker.CircuitBreaker, logger *zap.Logger) *Client {
	if onUnauthorized == nil {
		onUnauthorized = func() {}
	}
	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		tokens:         tokens,
		onUnauthorized: onUnauthorized,
		cb:             cb,
		logger:         logger,
	}
}

type response struct {
	status int
	body   []byte
}

// Do issues one request and returns the raw response body, or a typed error
// from the domain taxonomy. Bodies are JSON-encoded. There is no retry:
// a failure here is terminal for the attempt.
func (c *Client) Do(ctx context.Context, method, path string, body any, authed bool) ([]byte, error) {
	ctx, span := tracer.Start(ctx, fmt.Sprintf("api.%s %s", method, path))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
	)

	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if authed {
		// Read at call time so requests issued after a login pick up the
		// fresh token; a token cached at construction would go stale.
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	// Only transport failures and 5xx count against the breaker; a 404 or a
	// validation rejection says nothing about the remote being down.
	result, err := c.cb.Execute(func() (any, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, &domain.ErrNetwork{Err: err}
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &domain.ErrNetwork{Err: err}
		}

		if resp.StatusCode >= 500 {
			return nil, &domain.ErrServer{Status: resp.StatusCode, Detail: extractDetail(raw)}
		}
		return response{status: resp.StatusCode, body: raw}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.logger.Warn("api: circuit open",
				zap.String("method", method),
				zap.String("path", path),
			)
			return nil, &domain.ErrCircuitOpen{Service: "dompet-api"}
		}
		c.logger.Error("api: request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, err
	}

	resp := result.(response)
	switch {
	case resp.status == http.StatusUnauthorized:
		// Session is gone regardless of which call tripped it.
		c.tokens.Clear()
		c.onUnauthorized()
		c.logger.Warn("api: session rejected",
			zap.String("method", method),
			zap.String("path", path),
		)
		return nil, &domain.ErrUnauthorized{Message: extractDetail(resp.body)}

	case resp.status == http.StatusNotFound:
		// The calling service knows which resource this was.
		return nil, &domain.ErrNotFound{}

	case resp.status == http.StatusBadRequest || resp.status == http.StatusUnprocessableEntity:
		return nil, &domain.ErrValidation{Field: "request", Message: extractDetail(resp.body)}

	case resp.status < 200 || resp.status >= 300:
		c.logger.Warn("api: unexpected status",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.status),
		)
		return nil, &domain.ErrServer{Status: resp.status, Detail: extractDetail(resp.body)}
	}

	c.logger.Debug("api: request OK",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.status),
	)

	if resp.status == http.StatusNoContent {
		return nil, nil
	}
	return resp.body, nil
}

// extractDetail pulls a human-readable message out of an error payload.
// The remote API uses {"detail": ...}; fall back to other common keys, then
// to the raw body.
func extractDetail(body []byte) string {
	var shape struct {
		Detail  string `json:"detail"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &shape); err == nil {
		switch {
		case shape.Detail != "":
			return shape.Detail
		case shape.Error != "":
			return shape.Error
		case shape.Message != "":
			return shape.Message
		}
	}
	const max = 200
	if len(body) > max {
		body = body[:max]
	}
	return string(body)
}
