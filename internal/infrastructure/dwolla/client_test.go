package dwolla

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/finboard/pkg/openbanking"
)

type fakeRails struct {
	tokenCalls    atomic.Int32
	transferCalls atomic.Int32
	transfer      http.HandlerFunc
	expiresIn     int
}

func (f *fakeRails) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/token":
		f.tokenCalls.Add(1)
		key, secret, ok := r.BasicAuth()
		if !ok || key != "key" || secret != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":"InvalidCredentials","message":"bad key"}`))
			return
		}
		_ = r.ParseForm()
		if r.PostForm.Get("grant_type") != "client_credentials" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "token-1", "expires_in": f.expiresIn})
	case "/transfers":
		f.transferCalls.Add(1)
		f.transfer(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, rails *fakeRails) (*Client, string) {
	t.Helper()
	if rails.expiresIn == 0 {
		rails.expiresIn = 3600
	}
	srv := httptest.NewServer(rails)
	t.Cleanup(srv.Close)

	c, err := NewClient(openbanking.RailsConfig{Key: "key", Secret: "secret", BaseURL: srv.URL}, srv.Client(), slog.Default())
	require.NoError(t, err)
	return c, srv.URL
}

func testOrder() openbanking.TransferOrder {
	return openbanking.TransferOrder{
		SourceFundingSource:      "acc-src",
		DestinationFundingSource: "https://rails.example/funding-sources/dest-1",
		Amount:                   decimal.RequireFromString("100"),
		Currency:                 "USD",
		IdempotencyKey:           "transfer-1",
	}
}

func TestNewClient_Environment(t *testing.T) {
	c, err := NewClient(openbanking.RailsConfig{Environment: openbanking.RailsSandbox}, nil, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, "https://api-sandbox.dwolla.com", c.baseURL)

	c, err = NewClient(openbanking.RailsConfig{Environment: openbanking.RailsProduction}, nil, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, "https://api.dwolla.com", c.baseURL)

	_, err = NewClient(openbanking.RailsConfig{Environment: "staging"}, nil, slog.Default())
	require.Error(t, err)
}

func TestCreateTransfer_NotConfigured(t *testing.T) {
	c, err := NewClient(openbanking.RailsConfig{Environment: openbanking.RailsSandbox}, nil, slog.Default())
	require.NoError(t, err)

	_, err = c.CreateTransfer(context.Background(), testOrder())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestCreateTransfer_Success(t *testing.T) {
	var base string
	rails := &fakeRails{}
	rails.transfer = func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		assert.Equal(t, mediaType, r.Header.Get("Content-Type"))
		assert.Equal(t, "transfer-1", r.Header.Get("Idempotency-Key"))

		var body map[string]any
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
			return
		}
		links := body["_links"].(map[string]any)
		assert.Equal(t, base+"/funding-sources/acc-src", links["source"].(map[string]any)["href"])
		assert.Equal(t, "https://rails.example/funding-sources/dest-1", links["destination"].(map[string]any)["href"])
		assert.Equal(t, map[string]any{"currency": "USD", "value": "100.00"}, body["amount"])

		w.Header().Set("Location", base+"/transfers/tr-1")
		w.WriteHeader(http.StatusCreated)
	}
	c, url := newTestClient(t, rails)
	base = url

	ref, err := c.CreateTransfer(context.Background(), testOrder())
	require.NoError(t, err)
	assert.Equal(t, base+"/transfers/tr-1", ref)

	_, err = c.CreateTransfer(context.Background(), testOrder())
	require.NoError(t, err)
	assert.Equal(t, int32(1), rails.tokenCalls.Load(), "token is cached")
	assert.Equal(t, int32(2), rails.transferCalls.Load())
}

func TestCreateTransfer_ShortLivedTokenIsNotCached(t *testing.T) {
	rails := &fakeRails{expiresIn: 10}
	rails.transfer = func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Location", "https://rails.example/transfers/tr-1")
		w.WriteHeader(http.StatusCreated)
	}
	c, _ := newTestClient(t, rails)

	for range 2 {
		_, err := c.CreateTransfer(context.Background(), testOrder())
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), rails.tokenCalls.Load())
}

func TestCreateTransfer_Failures(t *testing.T) {
	tests := []struct {
		name     string
		transfer http.HandlerFunc
		code     string
	}{
		{
			name: "validation error",
			transfer: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"code":"ValidationError","message":"Validation error(s) present."}`))
			},
			code: "ValidationError",
		},
		{
			name: "non-json error",
			transfer: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte("upstream down"))
			},
			code: "Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, &fakeRails{transfer: tt.transfer})

			_, err := c.CreateTransfer(context.Background(), testOrder())
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.code, apiErr.Code)
		})
	}

	t.Run("missing location", func(t *testing.T) {
		c, _ := newTestClient(t, &fakeRails{transfer: func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}})

		_, err := c.CreateTransfer(context.Background(), testOrder())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no transfer location")
	})
}

func TestCreateTransfer_UnauthorizedDropsCachedToken(t *testing.T) {
	var reject atomic.Bool
	rails := &fakeRails{}
	rails.transfer = func(w http.ResponseWriter, _ *http.Request) {
		if reject.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":"ExpiredAccessToken","message":"expired"}`))
			return
		}
		w.Header().Set("Location", "https://rails.example/transfers/tr-1")
		w.WriteHeader(http.StatusCreated)
	}
	c, _ := newTestClient(t, rails)

	_, err := c.CreateTransfer(context.Background(), testOrder())
	require.NoError(t, err)

	reject.Store(true)
	_, err = c.CreateTransfer(context.Background(), testOrder())
	require.Error(t, err)

	reject.Store(false)
	_, err = c.CreateTransfer(context.Background(), testOrder())
	require.NoError(t, err)
	assert.Equal(t, int32(2), rails.tokenCalls.Load())
}

func TestCreateTransfer_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(&fakeRails{expiresIn: 3600})
	t.Cleanup(srv.Close)
	c, err := NewClient(openbanking.RailsConfig{Key: "key", Secret: "wrong", BaseURL: srv.URL}, srv.Client(), slog.Default())
	require.NoError(t, err)

	_, err = c.CreateTransfer(context.Background(), testOrder())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "InvalidCredentials", apiErr.Code)
}
