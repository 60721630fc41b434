package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/yungbote/mongoarchitect-backend/internal/observability"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/httpx"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/logger"
)

type backend interface {
	provider() string
	chat(ctx context.Context, system string, history []Message, opts []CallOption) (string, error)
}

type client struct {
	log        *logger.Logger
	backend    backend
	limiter    *rate.Limiter
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
	metrics    *observability.Metrics
}

// New builds the client for cfg.Provider. ProviderNone yields a client that
// fails every call with ErrDisabled.
func New(cfg Config, log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	cfg = cfg.withDefaults()
	var b backend
	switch cfg.Provider {
	case ProviderNone:
		return Disabled{}, nil
	case ProviderGroq, ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%s: %w", cfg.Provider, ErrMissingAPIKey)
		}
		b = newOpenAIBackend(cfg)
	case ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%s: %w", cfg.Provider, ErrMissingAPIKey)
		}
		b = newAnthropicBackend(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	return newClient(b, cfg, log), nil
}

func newClient(b backend, cfg Config, log *logger.Logger) *client {
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	return &client{
		log:        log.With("service", "LLMClient", "provider", b.provider()),
		backend:    b,
		limiter:    rate.NewLimiter(limit, cfg.Burst),
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Second,
		metrics:    observability.Current(),
	}
}

func (c *client) Provider() string { return c.backend.provider() }

// Complete makes exactly one backend call. Callers that retry own their
// attempt count.
func (c *client) Complete(ctx context.Context, prompt string, opts ...CallOption) (string, error) {
	return c.call(ctx, "", []Message{{Role: RoleUser, Content: prompt}}, opts, 0)
}

// Chat retries retryable provider failures up to the configured limit.
func (c *client) Chat(ctx context.Context, system string, history []Message, opts ...CallOption) (string, error) {
	return c.call(ctx, system, history, opts, c.maxRetries)
}

func (c *client) call(ctx context.Context, system string, history []Message, opts []CallOption, maxRetries int) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		start := time.Now()
		out, err := c.once(ctx, system, history, opts)
		if err == nil {
			c.metrics.ObserveLLMCall(c.Provider(), "ok", time.Since(start))
			return out, nil
		}
		c.metrics.ObserveLLMCall(c.Provider(), outcome(err), time.Since(start))

		if !httpx.IsRetryableError(err) || attempt == maxRetries || ctx.Err() != nil {
			return "", err
		}
		sleepFor := httpx.Backoff(c.backoff, 10*time.Second, attempt)
		c.log.Warn("LLM request retrying",
			"attempt", attempt+1,
			"max_retries", maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		if err := httpx.Sleep(ctx, sleepFor); err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("unreachable retry loop")
}

func (c *client) once(ctx context.Context, system string, history []Message, opts []CallOption) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.backend.chat(ctx, system, history, opts)
}

func outcome(err error) string {
	var sc httpx.HTTPStatusCoder
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.As(err, &sc):
		return fmt.Sprintf("http_%d", sc.HTTPStatusCode())
	default:
		return "error"
	}
}

// Disabled is the client installed when no provider is configured.
type Disabled struct{}

func (Disabled) Provider() string { return ProviderNone }

func (Disabled) Complete(context.Context, string, ...CallOption) (string, error) {
	return "", ErrDisabled
}

func (Disabled) Chat(context.Context, string, []Message, ...CallOption) (string, error) {
	return "", ErrDisabled
}
