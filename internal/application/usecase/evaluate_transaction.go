package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/finboard/internal/application/dto"
	"github.com/bibbank/finboard/internal/domain/model"
	"github.com/bibbank/finboard/internal/domain/port"
	"github.com/bibbank/finboard/internal/domain/service"
)

// EvaluateTransaction scores a transaction, records the assessment, and
// publishes its events.
type EvaluateTransaction struct {
	evaluator *service.Evaluator
	repo      port.AssessmentRepository
	publisher port.EventPublisher
	logger    *slog.Logger
}

// NewEvaluateTransaction creates a new EvaluateTransaction use case.
func NewEvaluateTransaction(
	evaluator *service.Evaluator,
	repo port.AssessmentRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *EvaluateTransaction {
	return &EvaluateTransaction{
		evaluator: evaluator,
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Execute evaluates the request. Scoring itself cannot fail; only validation
// and persistence errors are returned. Events are published at most once.
func (uc *EvaluateTransaction) Execute(ctx context.Context, req dto.EvaluateTransactionRequest) (dto.AssessmentResponse, error) {
	signal := model.NewTransactionSignal(
		req.Amount, req.Currency, req.IPAddress, req.Email, req.Phone, req.UserAgent, req.AcceptLanguage,
	)
	if err := signal.Validate(); err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	result := uc.evaluator.Evaluate(ctx, signal)

	assessment, err := model.NewAssessment(req.UserID, signal, result)
	if err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := uc.repo.Save(ctx, assessment); err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("failed to save assessment: %w", err)
	}

	// The assessment is already stored; a lost event must not fail the call.
	if err := assessment.PublishEvents(ctx, uc.publisher.Publish); err != nil {
		uc.logger.ErrorContext(ctx, "failed to publish assessment events",
			slog.String("assessment_id", assessment.ID().String()),
			"error", err,
		)
	}

	uc.logger.InfoContext(ctx, "transaction evaluated",
		slog.String("assessment_id", assessment.ID().String()),
		slog.Int("score", result.Score),
		slog.String("level", result.Level.String()),
		slog.String("source", result.Source.String()),
	)

	return dto.FromModel(assessment), nil
}
