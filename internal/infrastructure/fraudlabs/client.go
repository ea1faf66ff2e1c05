// Package fraudlabs adapts the FraudLabs Pro order-screening API to the
// evaluator's FraudScreeningClient port.
package fraudlabs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/bibbank/finboard/internal/domain/port"
	"github.com/bibbank/finboard/internal/infrastructure/circuitbreaker"
)

// ErrUnavailable wraps every reason the remote screening could not be used.
var ErrUnavailable = errors.New("fraudlabs: screening unavailable")

const (
	breakerKey   = "fraudlabs"
	maxBodyBytes = 1 << 20
)

// Config configures the Client.
type Config struct {
	APIKey              string
	BaseURL             string
	Timeout             time.Duration
	RateLimit           float64
	CacheTTL            time.Duration
	BreakerThreshold    int
	BreakerOpenDuration time.Duration

	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client screens transactions against FraudLabs Pro. It performs at most
// one HTTP request per Screen call and never retries.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	breaker *circuitbreaker.Breaker
	cache   *gocache.Cache
	tracer  trace.Tracer
	logger  *slog.Logger
}

var _ port.FraudScreeningClient = (*Client)(nil)

// NewClient creates a Client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	limit := rate.Inf
	burst := 1
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
		burst = max(1, int(cfg.RateLimit))
	}
	var cache *gocache.Cache
	if cfg.CacheTTL > 0 {
		cache = gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, burst),
		breaker: circuitbreaker.New(cfg.BreakerThreshold, cfg.BreakerOpenDuration),
		cache:   cache,
		tracer:  otel.Tracer("finboard/fraudlabs"),
		logger:  logger,
	}
}

// Screen implements port.FraudScreeningClient. Every failure wraps
// ErrUnavailable.
func (c *Client) Screen(ctx context.Context, q port.ScreeningQuery) (port.ScreeningResult, error) {
	if c.apiKey == "" {
		return port.ScreeningResult{}, fmt.Errorf("%w: api key not configured", ErrUnavailable)
	}

	key := cacheKey(q)
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			return v.(port.ScreeningResult), nil
		}
	}

	if !c.breaker.Allow(breakerKey) {
		return port.ScreeningResult{}, fmt.Errorf("%w: circuit open", ErrUnavailable)
	}
	if !c.limiter.Allow() {
		c.breaker.Release(breakerKey)
		return port.ScreeningResult{}, fmt.Errorf("%w: rate limited", ErrUnavailable)
	}

	ctx, span := c.tracer.Start(ctx, "fraudlabs.Screen", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	result, err := c.do(ctx, q)
	if err != nil {
		if ctx.Err() != nil {
			// Caller cancellation says nothing about the provider.
			c.breaker.Release(breakerKey)
		} else {
			c.breaker.RecordFailure(breakerKey)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return port.ScreeningResult{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	c.breaker.RecordSuccess(breakerKey)
	span.SetAttributes(attribute.Float64("fraudlabs.risk_score", result.RiskScore))
	if c.cache != nil {
		c.cache.SetDefault(key, result)
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, q port.ScreeningQuery) (port.ScreeningResult, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("ip", q.IPAddress)
	params.Set("email", q.Email)
	params.Set("amount", q.Amount.String())
	params.Set("currency", q.Currency)
	params.Set("user_agent", q.UserAgent)
	params.Set("accept_language", q.AcceptLanguage)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return port.ScreeningResult{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return port.ScreeningResult{}, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return port.ScreeningResult{}, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return port.ScreeningResult{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var sr screenResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return port.ScreeningResult{}, fmt.Errorf("decode response: %w", err)
	}
	if sr.RiskScore == nil {
		return port.ScreeningResult{}, errors.New("response has no risk_score")
	}

	c.logger.DebugContext(ctx, "fraudlabs screening complete", "risk_score", *sr.RiskScore)

	return port.ScreeningResult{
		RiskScore:       *sr.RiskScore,
		Proxy:           bool(sr.Proxy),
		Tor:             bool(sr.Tor),
		DisposableEmail: bool(sr.DisposableEmail),
		HighRiskCountry: bool(sr.HighRiskCountry),
		ShipForward:     bool(sr.ShipForward),
		IPRisk:          sr.IPRisk,
		EmailRisk:       sr.EmailRisk,
	}, nil
}

func cacheKey(q port.ScreeningQuery) string {
	return strings.Join([]string{
		q.IPAddress, q.Email, q.Amount.String(), q.Currency, q.UserAgent, q.AcceptLanguage,
	}, "\x1f")
}
