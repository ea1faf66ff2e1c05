// Package dwolla implements openbanking.PaymentRailsClient over the Dwolla
// REST API.
package dwolla

import (
	"bytes"
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

	"github.com/bibbank/finboard/pkg/openbanking"
)

// ErrNotConfigured is returned by every call when credentials are missing.
var ErrNotConfigured = errors.New("dwolla: client credentials not configured")

const (
	mediaType    = "application/vnd.dwolla.v1.hal+json"
	maxBodyBytes = 1 << 20
	tokenKey     = "access_token"
	tokenSkew    = 30 * time.Second
)

// APIError is an error payload returned by Dwolla.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dwolla: %s (status %d): %s", e.Code, e.StatusCode, e.Message)
}

// Client submits transfers with an OAuth client-credentials token, which it
// caches until shortly before expiry.
type Client struct {
	cfg     openbanking.RailsConfig
	baseURL string
	http    *http.Client
	tokens  *gocache.Cache
	tracer  trace.Tracer
	logger  *slog.Logger
}

var _ openbanking.PaymentRailsClient = (*Client)(nil)

// NewClient creates a Client. A nil httpClient gets a 10s timeout default.
// It fails only when the environment is unknown and no BaseURL is set.
func NewClient(cfg openbanking.RailsConfig, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	base, err := cfg.ResolvedBaseURL()
	if err != nil {
		return nil, fmt.Errorf("dwolla: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		cfg:     cfg,
		baseURL: strings.TrimRight(base, "/"),
		http:    httpClient,
		tokens:  gocache.New(time.Hour, 10*time.Minute),
		tracer:  otel.Tracer("finboard/dwolla"),
		logger:  logger,
	}, nil
}

type link struct {
	Href string `json:"href"`
}

type transferRequest struct {
	Links struct {
		Source      link `json:"source"`
		Destination link `json:"destination"`
	} `json:"_links"`
	Amount struct {
		Currency string `json:"currency"`
		Value    string `json:"value"`
	} `json:"amount"`
}

// CreateTransfer implements openbanking.PaymentRailsClient. The reference is
// the transfer URL from the Location header.
func (c *Client) CreateTransfer(ctx context.Context, order openbanking.TransferOrder) (string, error) {
	if !c.cfg.Configured() {
		return "", ErrNotConfigured
	}

	ctx, span := c.tracer.Start(ctx, "dwolla/transfers", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	location, err := c.createTransfer(ctx, order)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			span.SetAttributes(attribute.String("dwolla.error_code", apiErr.Code))
			if apiErr.StatusCode == http.StatusUnauthorized {
				c.tokens.Delete(tokenKey)
			}
		}
		c.logger.DebugContext(ctx, "dwolla transfer failed", "error", err)
		return "", err
	}
	span.SetAttributes(attribute.String("dwolla.transfer", location))
	return location, nil
}

func (c *Client) createTransfer(ctx context.Context, order openbanking.TransferOrder) (string, error) {
	token, err := c.token(ctx)
	if err != nil {
		return "", err
	}

	var body transferRequest
	body.Links.Source.Href = c.fundingSourceURL(order.SourceFundingSource)
	body.Links.Destination.Href = c.fundingSourceURL(order.DestinationFundingSource)
	body.Amount.Currency = order.Currency
	body.Amount.Value = order.Amount.StringFixed(2)

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("dwolla: marshal transfer: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transfers", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("dwolla: build request: %w", err)
	}
	req.Header.Set("Content-Type", mediaType)
	req.Header.Set("Accept", mediaType)
	req.Header.Set("Authorization", "Bearer "+token)
	if order.IdempotencyKey != "" {
		req.Header.Set("Idempotency-Key", order.IdempotencyKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("dwolla: request /transfers: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("dwolla: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apiError(resp.StatusCode, raw)
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", errors.New("dwolla: no transfer location returned")
	}
	return location, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (c *Client) token(ctx context.Context) (string, error) {
	if v, ok := c.tokens.Get(tokenKey); ok {
		return v.(string), nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("dwolla: build token request: %w", err)
	}
	req.SetBasicAuth(c.cfg.Key, c.cfg.Secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("dwolla: request /token: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("dwolla: read token body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apiError(resp.StatusCode, raw)
	}

	var tr tokenResponse
	if err := json.Unmarshal(raw, &tr); err != nil {
		return "", fmt.Errorf("dwolla: decode token: %w", err)
	}
	if tr.AccessToken == "" {
		return "", errors.New("dwolla: token response has no access_token")
	}

	ttl := time.Duration(tr.ExpiresIn)*time.Second - tokenSkew
	if ttl > 0 {
		c.tokens.Set(tokenKey, tr.AccessToken, ttl)
	}
	return tr.AccessToken, nil
}

func (c *Client) fundingSourceURL(id string) string {
	if strings.HasPrefix(id, "https://") || strings.HasPrefix(id, "http://") {
		return id
	}
	return c.baseURL + "/funding-sources/" + url.PathEscape(id)
}

func apiError(status int, raw []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = "Unknown"
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
