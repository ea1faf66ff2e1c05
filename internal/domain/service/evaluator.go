// Package service holds the fraud evaluation domain services.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/bibbank/finboard/internal/domain/model"
	"github.com/bibbank/finboard/internal/domain/port"
)

// Fallback reasons reported to the observer.
const (
	FallbackNoClient     = "no_client"
	FallbackCanceled     = "canceled"
	FallbackRemoteFailed = "remote_failed"
)

// Evaluator scores transactions with the remote screener, falling back to
// the local heuristic whenever the remote path is unavailable.
type Evaluator struct {
	client    port.FraudScreeningClient
	heuristic *HeuristicScorer
	observer  port.EvaluationObserver
	logger    *slog.Logger
}

// NewEvaluator creates an Evaluator. client and observer may be nil.
func NewEvaluator(
	client port.FraudScreeningClient,
	heuristic *HeuristicScorer,
	observer port.EvaluationObserver,
	logger *slog.Logger,
) *Evaluator {
	if heuristic == nil {
		heuristic = NewHeuristicScorer(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{
		client:    client,
		heuristic: heuristic,
		observer:  observer,
		logger:    logger,
	}
}

// Evaluate always produces an assessment. It makes at most one remote call
// and inherits its deadline from ctx.
func (e *Evaluator) Evaluate(ctx context.Context, signal model.TransactionSignal) model.RiskAssessment {
	result, ok := e.remote(ctx, signal)
	if !ok {
		result = e.heuristic.Score(signal)
	}

	if e.observer != nil {
		e.observer.ObserveEvaluation(ctx, result)
	}
	return result
}

func (e *Evaluator) remote(ctx context.Context, signal model.TransactionSignal) (model.RiskAssessment, bool) {
	if e.client == nil {
		e.fallback(ctx, FallbackNoClient, nil)
		return model.RiskAssessment{}, false
	}

	start := time.Now()
	screening, err := e.client.Screen(ctx, port.ScreeningQuery{
		IPAddress:      signal.IPAddress,
		Email:          signal.Email,
		Amount:         signal.Amount,
		Currency:       signal.Currency,
		UserAgent:      signal.UserAgent,
		AcceptLanguage: signal.AcceptLanguage,
	})
	if e.observer != nil {
		e.observer.ObserveRemoteCall(ctx, time.Since(start), err)
	}
	if err != nil {
		reason := FallbackRemoteFailed
		if ctx.Err() != nil {
			reason = FallbackCanceled
		}
		e.fallback(ctx, reason, err)
		return model.RiskAssessment{}, false
	}

	result := RemoteAssessment(screening)
	e.logger.DebugContext(ctx, "remote fraud screening succeeded",
		"score", result.Score,
		"level", result.Level.String(),
	)
	return result, true
}

func (e *Evaluator) fallback(ctx context.Context, reason string, err error) {
	if reason == FallbackNoClient {
		e.logger.DebugContext(ctx, "no fraud screening client configured, using local heuristic")
	} else {
		e.logger.WarnContext(ctx, "remote fraud screening unavailable, using local heuristic",
			"reason", reason,
			"error", err,
		)
	}
	if e.observer != nil {
		e.observer.ObserveFallback(ctx, reason)
	}
}
