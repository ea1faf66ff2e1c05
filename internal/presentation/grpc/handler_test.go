package grpc

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/bibbank/finboard/internal/application/usecase"
	"github.com/bibbank/finboard/internal/domain/service"
	"github.com/bibbank/finboard/internal/infrastructure/memory"
	"github.com/bibbank/finboard/pkg/auth"
	"github.com/bibbank/finboard/pkg/events"
)

// --- Mock implementations ---

type mockEventPublisher struct {
	publishErr error
	published  []events.DomainEvent
}

func (m *mockEventPublisher) Publish(_ context.Context, evts ...events.DomainEvent) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.published = append(m.published, evts...)
	return nil
}

// --- Helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func contextWithClaims(userID uuid.UUID, roles ...string) context.Context {
	claims := &auth.Claims{UserID: userID, Roles: roles}
	return auth.ContextWithClaims(context.Background(), claims)
}

func buildTestHandler(publisher *mockEventPublisher) *FraudServiceHandler {
	repo := memory.NewAssessmentRepository()
	evaluator := service.NewEvaluator(nil, service.NewHeuristicScorer(service.NewSeededRandom(7)), nil, testLogger())
	return NewFraudServiceHandler(
		usecase.NewEvaluateTransaction(evaluator, repo, publisher, testLogger()),
		usecase.NewGetAssessment(repo),
		usecase.NewListAssessments(repo),
		usecase.NewClassifyScore(),
		testLogger(),
	)
}

func validRequest() *EvaluateTransactionRequest {
	return &EvaluateTransactionRequest{
		Amount:    "2500.00",
		Currency:  "USD",
		IPAddress: "203.0.113.7",
		Email:     "jane@tempmail.com",
	}
}

// --- Tests ---

func TestEvaluateTransaction(t *testing.T) {
	publisher := &mockEventPublisher{}
	h := buildTestHandler(publisher)
	userID := uuid.New()

	resp, err := h.EvaluateTransaction(contextWithClaims(userID, auth.RoleCustomer), validRequest())
	require.NoError(t, err)
	require.NotNil(t, resp.Assessment)

	a := resp.Assessment
	assert.Equal(t, userID.String(), a.UserID)
	assert.Equal(t, "LOCAL", a.Source)
	assert.GreaterOrEqual(t, a.RiskScore, int32(5))
	assert.LessOrEqual(t, a.RiskScore, int32(100))
	assert.NotEmpty(t, a.Factors)
	assert.Contains(t, []string{"APPROVE", "REVIEW", "BLOCK"}, a.Decision)
	assert.NotEmpty(t, publisher.published)
}

func TestEvaluateTransaction_Errors(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		req  *EvaluateTransactionRequest
		pub  *mockEventPublisher
		code codes.Code
	}{
		{
			name: "no claims",
			ctx:  context.Background(),
			req:  validRequest(),
			pub:  &mockEventPublisher{},
			code: codes.Unauthenticated,
		},
		{
			name: "missing role",
			ctx:  contextWithClaims(uuid.New(), "auditor"),
			req:  validRequest(),
			pub:  &mockEventPublisher{},
			code: codes.PermissionDenied,
		},
		{
			name: "nil request",
			ctx:  contextWithClaims(uuid.New(), auth.RoleCustomer),
			pub:  &mockEventPublisher{},
			code: codes.InvalidArgument,
		},
		{
			name: "bad amount",
			ctx:  contextWithClaims(uuid.New(), auth.RoleCustomer),
			req:  &EvaluateTransactionRequest{Amount: "lots", Currency: "USD", IPAddress: "1.2.3.4"},
			pub:  &mockEventPublisher{},
			code: codes.InvalidArgument,
		},
		{
			name: "non-positive amount",
			ctx:  contextWithClaims(uuid.New(), auth.RoleCustomer),
			req:  &EvaluateTransactionRequest{Amount: "0", Currency: "USD", IPAddress: "1.2.3.4"},
			pub:  &mockEventPublisher{},
			code: codes.InvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildTestHandler(tt.pub).EvaluateTransaction(tt.ctx, tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.code, status.Code(err))
		})
	}
}

func TestEvaluateTransaction_PublishFailureStillSucceeds(t *testing.T) {
	h := buildTestHandler(&mockEventPublisher{publishErr: errors.New("broker down")})
	ctx := contextWithClaims(uuid.New(), auth.RoleCustomer)

	created, err := h.EvaluateTransaction(ctx, validRequest())
	require.NoError(t, err)

	got, err := h.GetAssessment(ctx, &GetAssessmentRequest{ID: created.Assessment.ID})
	require.NoError(t, err)
	assert.Equal(t, created.Assessment.RiskScore, got.Assessment.RiskScore)
}

func TestGetAssessment(t *testing.T) {
	h := buildTestHandler(&mockEventPublisher{})
	owner := uuid.New()
	ctx := contextWithClaims(owner, auth.RoleCustomer)

	created, err := h.EvaluateTransaction(ctx, validRequest())
	require.NoError(t, err)

	t.Run("owner can read", func(t *testing.T) {
		got, err := h.GetAssessment(ctx, &GetAssessmentRequest{ID: created.Assessment.ID})
		require.NoError(t, err)
		assert.Equal(t, created.Assessment.RiskScore, got.Assessment.RiskScore)
	})

	t.Run("other user gets not found", func(t *testing.T) {
		_, err := h.GetAssessment(contextWithClaims(uuid.New(), auth.RoleCustomer), &GetAssessmentRequest{ID: created.Assessment.ID})
		assert.Equal(t, codes.NotFound, status.Code(err))
	})

	t.Run("invalid id", func(t *testing.T) {
		_, err := h.GetAssessment(ctx, &GetAssessmentRequest{ID: "nope"})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})
}

func TestListAssessments(t *testing.T) {
	h := buildTestHandler(&mockEventPublisher{})
	ctx := contextWithClaims(uuid.New(), auth.RoleAnalyst)

	for range 3 {
		_, err := h.EvaluateTransaction(ctx, validRequest())
		require.NoError(t, err)
	}

	resp, err := h.ListAssessments(ctx, &ListAssessmentsRequest{Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 2, resp.Count)
	assert.Len(t, resp.Assessments, 2)

	resp, err = h.ListAssessments(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, resp.Count)
}

func TestClassifyScore(t *testing.T) {
	h := buildTestHandler(&mockEventPublisher{})
	ctx := contextWithClaims(uuid.New(), auth.RoleCustomer)

	tests := []struct {
		score    int32
		decision string
		message  string
	}{
		{score: 20, decision: "APPROVE", message: "Low Risk - Transaction Approved"},
		{score: 21, decision: "REVIEW", message: "Medium Risk - Manual Review Required"},
		{score: 51, decision: "BLOCK", message: "High Risk - Transaction Blocked"},
	}
	for _, tt := range tests {
		resp, err := h.ClassifyScore(ctx, &ClassifyScoreRequest{Score: tt.score})
		require.NoError(t, err)
		assert.Equal(t, tt.decision, resp.Decision)
		assert.Equal(t, tt.message, resp.Message)
	}
}

func TestServer_OverBufconn(t *testing.T) {
	jwtSvc, err := auth.NewJWTService(auth.JWTConfig{
		Secret:     "grpc-test-secret",
		Issuer:     "finboard-test",
		Expiration: time.Minute,
	})
	require.NoError(t, err)

	srv, err := NewServer(buildTestHandler(&mockEventPublisher{}), ServerConfig{}, testLogger(), jwtSvc)
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpclib.NewClient("passthrough:///bufnet",
		grpclib.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpclib.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	t.Run("health is unauthenticated", func(t *testing.T) {
		resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: FraudServiceName})
		require.NoError(t, err)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
	})

	t.Run("missing token is rejected", func(t *testing.T) {
		var out ClassifyScoreResponse
		err := conn.Invoke(ctx, "/"+FraudServiceName+"/ClassifyScore", &ClassifyScoreRequest{Score: 10}, &out,
			grpclib.CallContentSubtype(CodecName))
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("json call with token", func(t *testing.T) {
		token, err := jwtSvc.GenerateToken(uuid.New(), "jane@example.com", []string{auth.RoleCustomer})
		require.NoError(t, err)
		authCtx := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)

		var out EvaluateTransactionResponse
		err = conn.Invoke(authCtx, "/"+FraudServiceName+"/EvaluateTransaction", validRequest(), &out,
			grpclib.CallContentSubtype(CodecName))
		require.NoError(t, err)
		require.NotNil(t, out.Assessment)
		assert.Equal(t, "LOCAL", out.Assessment.Source)
	})
}
