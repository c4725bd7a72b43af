package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/jsamuelsen/quotesync/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotesync/internal/platform/config"
	"github.com/jsamuelsen/quotesync/internal/platform/logging"
)

// Config configures a Client.
type Config struct {
	// BaseURL prefixes every request path, e.g. "https://quotes.example.com".
	BaseURL string

	// ServiceName names the remote in logs, spans and metrics. Required.
	ServiceName string

	// UserAgent is sent on every request when set.
	UserAgent string

	// Timeout bounds one attempt. Retries and backoff come on top.
	Timeout time.Duration

	Retry     config.RetryConfig
	Circuit   config.CircuitBreakerConfig
	Transport config.TransportConfig

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Clock drives retry backoff and the circuit breaker cool-down.
	Clock clockwork.Clock
}

// Client talks to one remote service. Each call passes through the circuit
// breaker, is retried on transient failures with jittered exponential
// backoff, carries the caller's request and correlation IDs, and is traced.
type Client struct {
	http      *http.Client
	baseURL   string
	service   string
	userAgent string
	attempts  int
	backoff   backoffPolicy
	breaker   *CircuitBreaker
	clock     clockwork.Clock
	logger    *slog.Logger
	inst      *instruments
}

// New builds a Client from cfg, filling zero settings with defaults.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	if cfg.ServiceName == "" {
		return nil, errors.New("service name is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultClientTimeout
	}

	attempts := max(cfg.Retry.MaxAttempts, 1)

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(
		slog.String("component", "clients.Client"),
		slog.String("downstream", cfg.ServiceName),
	)

	inst, err := newInstruments(cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	breaker := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:   cfg.Circuit.MaxFailures,
		Timeout:       cfg.Circuit.Timeout,
		HalfOpenLimit: cfg.Circuit.HalfOpenLimit,
		Clock:         clock,
	})
	breaker.OnStateChange(func(from, to State) {
		logger.Warn("circuit breaker state changed",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	})

	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: newTransport(cfg.Transport),
		},
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		service:   cfg.ServiceName,
		userAgent: cfg.UserAgent,
		attempts:  attempts,
		backoff:   newBackoffPolicy(cfg.Retry),
		breaker:   breaker,
		clock:     clock,
		logger:    logger,
		inst:      inst,
	}, nil
}

// Do sends req. A response means the remote answered; 4xx answers are
// returned as-is for the caller to interpret. 5xx and 429 answers and
// transient transport errors are retried; once attempts run out the error
// wraps ErrMaxRetriesExceeded. An open circuit fails fast with ErrCircuitOpen.
//
// Requests with a body are only retried if req.GetBody is set.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	started := c.clock.Now()
	logger := logging.FromContextOr(ctx, c.logger).With(
		slog.String("downstream", c.service),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
	)

	if !c.breaker.Allow() {
		c.inst.finish(ctx, nil, req.Method, 0, outcomeCircuitOpen, ErrCircuitOpen, 0)
		logger.Warn("request rejected by open circuit")

		return nil, ErrCircuitOpen
	}

	c.decorate(ctx, req)

	ctx, span := c.inst.start(ctx, req)

	resp, err := c.attempt(ctx, req, logger)
	elapsed := c.clock.Since(started)

	switch {
	case err == nil:
		c.breaker.RecordSuccess()
		c.inst.finish(ctx, span, req.Method, resp.StatusCode, statusOutcome(resp.StatusCode), nil, elapsed)
		logger.Debug("request completed",
			slog.Int("status", resp.StatusCode),
			slog.Duration("duration", elapsed),
		)

		return resp, nil

	case ctx.Err() != nil:
		// A caller that went away says nothing about the remote; a deadline
		// that ran out does.
		if !errors.Is(ctx.Err(), context.Canceled) {
			c.breaker.RecordFailure()
		}

		c.inst.finish(ctx, span, req.Method, 0, outcomeCanceled, err, elapsed)

		return nil, err

	default:
		c.breaker.RecordFailure()
		c.inst.finish(ctx, span, req.Method, 0, outcomeError, err, elapsed)
		logger.Error("request failed",
			slog.Duration("duration", elapsed),
			slog.Any("error", err),
		)

		return nil, fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, err)
	}
}

// attempt runs the retry loop. It returns a response only for an answer
// that should not be retried.
func (c *Client) attempt(ctx context.Context, req *http.Request, logger *slog.Logger) (*http.Response, error) {
	var lastErr error

	for n := range c.attempts {
		if n > 0 {
			if err := c.pause(ctx, n, logger); err != nil {
				return nil, err
			}

			if err := rewind(req); err != nil {
				return nil, err
			}
		}

		resp, err := c.http.Do(req.WithContext(ctx))

		switch {
		case err != nil:
			if !retryableError(err) || ctx.Err() != nil {
				return nil, err
			}

			lastErr = err

		case retryableStatus(resp.StatusCode):
			drain(resp, logger)
			lastErr = fmt.Errorf("remote answered %d", resp.StatusCode)

		default:
			return resp, nil
		}

		logger.Debug("attempt failed",
			slog.Int("attempt", n+1),
			slog.Int("of", c.attempts),
			slog.Any("error", lastErr),
		)
	}

	return nil, lastErr
}

func (c *Client) pause(ctx context.Context, n int, logger *slog.Logger) error {
	wait := c.backoff.wait(n)
	logger.Debug("backing off", slog.Duration("wait", wait))

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.clock.After(wait):
		return nil
	}
}

func rewind(req *http.Request) error {
	if req.GetBody == nil {
		return nil
	}

	body, err := req.GetBody()
	if err != nil {
		return fmt.Errorf("rewinding request body: %w", err)
	}

	req.Body = body

	return nil
}

func drain(resp *http.Response, logger *slog.Logger) {
	if err := resp.Body.Close(); err != nil {
		logger.Debug("closing discarded response body", slog.Any("error", err))
	}
}

// decorate sets the identity headers carried from the inbound request.
func (c *Client) decorate(ctx context.Context, req *http.Request) {
	if id := middleware.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderRequestID, id)
	}

	if id := middleware.CorrelationIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderCorrelationID, id)
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
}

// Get sends a GET for path.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(path), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	return c.Do(ctx, req)
}

// PostJSON sends payload as a JSON POST to path. The body can be replayed,
// so the call is retried like a GET.
func (c *Client) PostJSON(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(path), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	return c.Do(ctx, req)
}

// ServiceName names the remote.
func (c *Client) ServiceName() string {
	return c.service
}

// CircuitState reports the breaker's current state.
func (c *Client) CircuitState() State {
	return c.breaker.State()
}

func (c *Client) buildURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return c.baseURL + path
}
