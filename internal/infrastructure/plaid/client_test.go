package plaid

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/finboard/pkg/openbanking"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := openbanking.DefaultPlaidConfig()
	cfg.ClientID = "client-id"
	cfg.Secret = "secret"
	cfg.BaseURL = srv.URL
	return NewClient(cfg, srv.Client(), slog.Default())
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func TestClient_NotConfigured(t *testing.T) {
	c := NewClient(openbanking.DefaultPlaidConfig(), nil, slog.Default())

	_, err := c.GetAccounts(context.Background(), "access")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestClient_CreateLinkToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/link/token/create", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		body := decodeBody(t, r)
		assert.Equal(t, "client-id", body["client_id"])
		assert.Equal(t, "secret", body["secret"])
		assert.Equal(t, "finboard", body["client_name"])
		assert.Equal(t, map[string]any{"client_user_id": "user-1"}, body["user"])

		_, _ = w.Write([]byte(`{"link_token":"link-sandbox-1","expiration":"2026-10-19T12:00:00Z","request_id":"req-1"}`))
	})

	resp, err := c.CreateLinkToken(context.Background(), "user-1", "finboard")
	require.NoError(t, err)
	assert.Equal(t, "link-sandbox-1", resp.LinkToken)
	assert.Equal(t, time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC), resp.Expiration)
}

func TestClient_ExchangePublicToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "public-sandbox-1", decodeBody(t, r)["public_token"])
		_, _ = w.Write([]byte(`{"access_token":"access-sandbox-1","item_id":"item-1"}`))
	})

	resp, err := c.ExchangePublicToken(context.Background(), "public-sandbox-1")
	require.NoError(t, err)
	assert.Equal(t, "access-sandbox-1", resp.AccessToken)
	assert.Equal(t, "item-1", resp.ItemID)
}

func TestClient_GetAccounts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"accounts":[{"account_id":"acc-1","name":"Plaid Checking","type":"depository","subtype":"checking","mask":"0000",
				"balances":{"available":100,"current":110.5,"iso_currency_code":"USD"}}],
			"item":{"item_id":"item-1","institution_id":"ins_109508"}}`))
	})

	res, err := c.GetAccounts(context.Background(), "access")
	require.NoError(t, err)
	assert.Equal(t, "ins_109508", res.InstitutionID)
	require.Len(t, res.Accounts, 1)
	acc := res.Accounts[0]
	assert.Equal(t, "acc-1", acc.AccountID)
	assert.Equal(t, "110.5", acc.Balances.Current.String())
	assert.Equal(t, "USD", acc.Balances.Currency)
}

func TestClient_GetInstitution(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ins_1", decodeBody(t, r)["institution_id"])
		_, _ = w.Write([]byte(`{"institution":{"institution_id":"ins_1","name":"First Platypus Bank","url":"https://fpb.example"}}`))
	})

	inst, err := c.GetInstitution(context.Background(), "ins_1")
	require.NoError(t, err)
	assert.Equal(t, "First Platypus Bank", inst.Name)
	assert.Equal(t, "https://fpb.example", inst.URL)
}

func TestClient_SyncTransactions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "cursor-1", decodeBody(t, r)["cursor"])
		_, _ = w.Write([]byte(`{
			"added":[{"transaction_id":"tx-1","account_id":"acc-1","amount":12.34,"iso_currency_code":"USD",
				"date":"2026-10-01","name":"Coffee","personal_finance_category":{"primary":"FOOD_AND_DRINK"}},
				{"transaction_id":"tx-2","account_id":"acc-1","amount":-500,"date":"2026-10-02",
				"merchant_name":"Payroll","category":["Transfer","Payroll"]}],
			"removed":[{"transaction_id":"tx-0"}],
			"next_cursor":"cursor-2","has_more":true}`))
	})

	res, err := c.SyncTransactions(context.Background(), "access", "cursor-1")
	require.NoError(t, err)
	require.Len(t, res.Added, 2)
	assert.Equal(t, "FOOD_AND_DRINK", res.Added[0].Category)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), res.Added[0].Date)
	assert.Equal(t, "Payroll", res.Added[1].Name)
	assert.Equal(t, "Transfer > Payroll", res.Added[1].Category)
	assert.True(t, res.Added[1].Amount.IsNegative())
	assert.Equal(t, []string{"tx-0"}, res.Removed)
	assert.Equal(t, "cursor-2", res.NextCursor)
	assert.True(t, res.HasMore)
}

func TestClient_InitialSyncOmitsCursor(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, ok := decodeBody(t, r)["cursor"]
		assert.False(t, ok)
		_, _ = w.Write([]byte(`{"next_cursor":"c1"}`))
	})

	res, err := c.SyncTransactions(context.Background(), "access", "")
	require.NoError(t, err)
	assert.Empty(t, res.Added)
	assert.Equal(t, "c1", res.NextCursor)
}

func TestClient_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error_type":"ITEM_ERROR","error_code":"ITEM_LOGIN_REQUIRED","error_message":"login required"}`))
	})

	_, err := c.GetAccounts(context.Background(), "access")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "ITEM_LOGIN_REQUIRED", apiErr.Code)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestClient_NonJSONError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := c.GetInstitution(context.Background(), "ins_1")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "UNKNOWN", apiErr.Code)
	assert.Equal(t, "bad gateway", apiErr.Message)
}
