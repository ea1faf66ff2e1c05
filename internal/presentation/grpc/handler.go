package grpc

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/finboard/internal/application/dto"
	"github.com/bibbank/finboard/internal/application/usecase"
	"github.com/bibbank/finboard/internal/domain/port"
	"github.com/bibbank/finboard/pkg/auth"
)

var fraudRoles = []string{auth.RoleAdmin, auth.RoleAnalyst, auth.RoleCustomer}

// requireRole checks that the caller has at least one of the given roles.
func requireRole(ctx context.Context, roles ...string) (*auth.Claims, error) {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "authentication required")
	}
	if !claims.HasAnyRole(roles...) {
		return nil, status.Error(codes.PermissionDenied, "insufficient permissions")
	}
	return claims, nil
}

// toStatus maps use case errors onto gRPC codes. Unknown errors are
// reported as Internal without detail.
func toStatus(err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, port.ErrNotFound):
		return status.Error(codes.NotFound, "assessment not found")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// Compile-time assertion that FraudServiceHandler implements FraudServiceServer.
var _ FraudServiceServer = (*FraudServiceHandler)(nil)

// FraudServiceHandler implements the gRPC FraudServiceServer interface.
type FraudServiceHandler struct {
	UnimplementedFraudServiceServer
	evaluate *usecase.EvaluateTransaction
	get      *usecase.GetAssessment
	list     *usecase.ListAssessments
	classify *usecase.ClassifyScore
	logger   *slog.Logger
}

// NewFraudServiceHandler creates a new gRPC handler.
func NewFraudServiceHandler(
	evaluate *usecase.EvaluateTransaction,
	get *usecase.GetAssessment,
	list *usecase.ListAssessments,
	classify *usecase.ClassifyScore,
	logger *slog.Logger,
) *FraudServiceHandler {
	return &FraudServiceHandler{
		evaluate: evaluate,
		get:      get,
		list:     list,
		classify: classify,
		logger:   logger,
	}
}

// EvaluateTransaction scores a transaction for the calling user.
func (h *FraudServiceHandler) EvaluateTransaction(ctx context.Context, req *EvaluateTransactionRequest) (*EvaluateTransactionResponse, error) {
	claims, err := requireRole(ctx, fraudRoles...)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid amount: %v", err)
	}

	result, err := h.evaluate.Execute(ctx, dto.EvaluateTransactionRequest{
		UserID:         claims.UserID,
		Amount:         amount,
		Currency:       req.Currency,
		IPAddress:      req.IPAddress,
		Email:          req.Email,
		Phone:          req.Phone,
		UserAgent:      req.UserAgent,
		AcceptLanguage: req.AcceptLanguage,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to evaluate transaction",
			slog.String("user_id", claims.UserID.String()),
			slog.String("error", err.Error()),
		)
		return nil, toStatus(err)
	}

	return &EvaluateTransactionResponse{Assessment: toAssessmentMsg(result)}, nil
}

// GetAssessment returns one of the caller's assessments.
func (h *FraudServiceHandler) GetAssessment(ctx context.Context, req *GetAssessmentRequest) (*GetAssessmentResponse, error) {
	claims, err := requireRole(ctx, fraudRoles...)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id: %v", err)
	}

	result, err := h.get.Execute(ctx, dto.GetAssessmentRequest{UserID: claims.UserID, AssessmentID: id})
	if err != nil {
		return nil, toStatus(err)
	}
	return &GetAssessmentResponse{Assessment: toAssessmentMsg(result)}, nil
}

// ListAssessments pages through the caller's assessments.
func (h *FraudServiceHandler) ListAssessments(ctx context.Context, req *ListAssessmentsRequest) (*ListAssessmentsResponse, error) {
	claims, err := requireRole(ctx, fraudRoles...)
	if err != nil {
		return nil, err
	}
	if req == nil {
		req = &ListAssessmentsRequest{}
	}

	result, err := h.list.Execute(ctx, dto.ListAssessmentsRequest{
		UserID: claims.UserID,
		Limit:  int(req.Limit),
		Offset: int(req.Offset),
	})
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &ListAssessmentsResponse{
		Assessments: make([]*AssessmentMsg, 0, len(result.Assessments)),
		Count:       int32(result.Count),
	}
	for _, a := range result.Assessments {
		resp.Assessments = append(resp.Assessments, toAssessmentMsg(a))
	}
	return resp, nil
}

// ClassifyScore returns the advisory for a bare score.
func (h *FraudServiceHandler) ClassifyScore(ctx context.Context, req *ClassifyScoreRequest) (*ClassifyScoreResponse, error) {
	if _, err := requireRole(ctx, fraudRoles...); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result := h.classify.Execute(int(req.Score))
	return &ClassifyScoreResponse{
		Score:    int32(result.Score),
		Decision: result.Decision,
		Message:  result.Message,
	}, nil
}
