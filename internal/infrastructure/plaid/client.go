// Package plaid implements openbanking.PlaidClient over the Plaid REST API.
package plaid

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bibbank/finboard/pkg/openbanking"
)

// ErrNotConfigured is returned by every call when credentials are missing.
var ErrNotConfigured = errors.New("plaid: client credentials not configured")

const maxBodyBytes = 4 << 20

// APIError is an error payload returned by Plaid.
type APIError struct {
	StatusCode int    `json:"-"`
	Type       string `json:"error_type"`
	Code       string `json:"error_code"`
	Message    string `json:"error_message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("plaid: %s/%s (status %d): %s", e.Type, e.Code, e.StatusCode, e.Message)
}

// Client talks to Plaid with client_id/secret body authentication.
type Client struct {
	cfg    openbanking.PlaidConfig
	http   *http.Client
	tracer trace.Tracer
	logger *slog.Logger
}

var _ openbanking.PlaidClient = (*Client)(nil)

// NewClient creates a Client. A nil httpClient gets a 10s timeout default.
func NewClient(cfg openbanking.PlaidConfig, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = openbanking.DefaultPlaidConfig().BaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg:    cfg,
		http:   httpClient,
		tracer: otel.Tracer("finboard/plaid"),
		logger: logger,
	}
}

type linkTokenUser struct {
	ClientUserID string `json:"client_user_id"`
}

type linkTokenRequest struct {
	ClientName   string        `json:"client_name"`
	Language     string        `json:"language"`
	CountryCodes []string      `json:"country_codes"`
	Products     []string      `json:"products"`
	User         linkTokenUser `json:"user"`
}

type linkTokenResponse struct {
	LinkToken  string    `json:"link_token"`
	Expiration time.Time `json:"expiration"`
	RequestID  string    `json:"request_id"`
}

// CreateLinkToken implements openbanking.PlaidClient.
func (c *Client) CreateLinkToken(ctx context.Context, userID, clientName string) (openbanking.LinkTokenResponse, error) {
	req := linkTokenRequest{
		ClientName:   clientName,
		Language:     c.cfg.Language,
		CountryCodes: c.cfg.CountryCodes,
		Products:     c.cfg.Products,
		User:         linkTokenUser{ClientUserID: userID},
	}
	var resp linkTokenResponse
	if err := c.call(ctx, "/link/token/create", req, &resp); err != nil {
		return openbanking.LinkTokenResponse{}, err
	}
	return openbanking.LinkTokenResponse{
		LinkToken:  resp.LinkToken,
		Expiration: resp.Expiration,
		RequestID:  resp.RequestID,
	}, nil
}

// ExchangePublicToken implements openbanking.PlaidClient.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (openbanking.ItemAccessResponse, error) {
	var resp struct {
		AccessToken string `json:"access_token"`
		ItemID      string `json:"item_id"`
	}
	if err := c.call(ctx, "/item/public_token/exchange", map[string]string{"public_token": publicToken}, &resp); err != nil {
		return openbanking.ItemAccessResponse{}, err
	}
	return openbanking.ItemAccessResponse{AccessToken: resp.AccessToken, ItemID: resp.ItemID}, nil
}

// GetAccounts implements openbanking.PlaidClient.
func (c *Client) GetAccounts(ctx context.Context, accessToken string) (openbanking.AccountsResult, error) {
	var resp accountsResponse
	if err := c.call(ctx, "/accounts/get", map[string]string{"access_token": accessToken}, &resp); err != nil {
		return openbanking.AccountsResult{}, err
	}

	accounts := make([]openbanking.BankAccount, 0, len(resp.Accounts))
	for _, a := range resp.Accounts {
		accounts = append(accounts, a.toDomain())
	}
	return openbanking.AccountsResult{
		ItemID:        resp.Item.ItemID,
		InstitutionID: resp.Item.InstitutionID,
		Accounts:      accounts,
	}, nil
}

// GetInstitution implements openbanking.PlaidClient.
func (c *Client) GetInstitution(ctx context.Context, institutionID string) (openbanking.Institution, error) {
	req := struct {
		InstitutionID string   `json:"institution_id"`
		CountryCodes  []string `json:"country_codes"`
	}{InstitutionID: institutionID, CountryCodes: c.cfg.CountryCodes}

	var resp struct {
		Institution institution `json:"institution"`
	}
	if err := c.call(ctx, "/institutions/get_by_id", req, &resp); err != nil {
		return openbanking.Institution{}, err
	}
	i := resp.Institution
	return openbanking.Institution{
		InstitutionID: i.InstitutionID,
		Name:          i.Name,
		CountryCodes:  i.CountryCodes,
		Products:      i.Products,
		URL:           i.URL,
		PrimaryColor:  i.PrimaryColor,
	}, nil
}

// SyncTransactions implements openbanking.PlaidClient.
func (c *Client) SyncTransactions(ctx context.Context, accessToken, cursor string) (openbanking.TransactionSyncResult, error) {
	req := map[string]string{"access_token": accessToken}
	if cursor != "" {
		req["cursor"] = cursor
	}

	var resp syncResponse
	if err := c.call(ctx, "/transactions/sync", req, &resp); err != nil {
		return openbanking.TransactionSyncResult{}, err
	}

	result := openbanking.TransactionSyncResult{
		Added:      make([]openbanking.Transaction, 0, len(resp.Added)),
		Modified:   make([]openbanking.Transaction, 0, len(resp.Modified)),
		Removed:    make([]string, 0, len(resp.Removed)),
		NextCursor: resp.NextCursor,
		HasMore:    resp.HasMore,
	}
	for _, t := range resp.Added {
		result.Added = append(result.Added, t.toDomain())
	}
	for _, t := range resp.Modified {
		result.Modified = append(result.Modified, t.toDomain())
	}
	for _, r := range resp.Removed {
		result.Removed = append(result.Removed, r.TransactionID)
	}
	return result, nil
}

// call POSTs body, with credentials merged in, to path and decodes the
// response into out.
func (c *Client) call(ctx context.Context, path string, body any, out any) error {
	if !c.cfg.Configured() {
		return ErrNotConfigured
	}

	ctx, span := c.tracer.Start(ctx, "plaid"+path, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	err := c.do(ctx, path, body, out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			span.SetAttributes(attribute.String("plaid.error_code", apiErr.Code))
		}
		c.logger.DebugContext(ctx, "plaid call failed", "path", path, "error", err)
		return err
	}
	return nil
}

func (c *Client) do(ctx context.Context, path string, body any, out any) error {
	payload, err := c.withCredentials(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("plaid: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("plaid: request %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("plaid: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if jsonErr := json.Unmarshal(raw, apiErr); jsonErr != nil || apiErr.Code == "" {
			apiErr.Type = "API_ERROR"
			apiErr.Code = "UNKNOWN"
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("plaid: decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) withCredentials(body any) ([]byte, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("plaid: marshal request: %w", err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(encoded, &fields); err != nil {
		return nil, fmt.Errorf("plaid: request body must be an object: %w", err)
	}
	clientID, _ := json.Marshal(c.cfg.ClientID)
	secret, _ := json.Marshal(c.cfg.Secret)
	fields["client_id"] = clientID
	fields["secret"] = secret
	return json.Marshal(fields)
}
