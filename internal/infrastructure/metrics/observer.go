// Package metrics records fraud evaluation telemetry with OpenTelemetry
// instruments.
package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/bibbank/finboard/internal/domain/model"
	"github.com/bibbank/finboard/internal/domain/port"
)

const meterName = "github.com/bibbank/finboard/fraud"

// Observer implements port.EvaluationObserver.
type Observer struct {
	evaluations metric.Int64Counter
	fallbacks   metric.Int64Counter
	scores      metric.Int64Histogram
	remoteCalls metric.Float64Histogram
}

var _ port.EvaluationObserver = (*Observer)(nil)

// NewObserver creates the evaluation instruments on the given provider.
func NewObserver(provider metric.MeterProvider) (*Observer, error) {
	meter := provider.Meter(meterName)

	evaluations, err := meter.Int64Counter("finboard_fraud_evaluations_total",
		metric.WithDescription("Fraud evaluations by assessment source and risk level."))
	if err != nil {
		return nil, fmt.Errorf("evaluations counter: %w", err)
	}

	fallbacks, err := meter.Int64Counter("finboard_fraud_fallbacks_total",
		metric.WithDescription("Evaluations that fell back to the local heuristic, by reason."))
	if err != nil {
		return nil, fmt.Errorf("fallbacks counter: %w", err)
	}

	scores, err := meter.Int64Histogram("finboard_fraud_risk_score",
		metric.WithDescription("Distribution of reported risk scores."),
		metric.WithExplicitBucketBoundaries(10, 20, 25, 35, 50, 65, 75, 90, 100))
	if err != nil {
		return nil, fmt.Errorf("score histogram: %w", err)
	}

	remoteCalls, err := meter.Float64Histogram("finboard_fraud_provider_duration_seconds",
		metric.WithDescription("Latency of remote screening calls."),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("provider histogram: %w", err)
	}

	return &Observer{
		evaluations: evaluations,
		fallbacks:   fallbacks,
		scores:      scores,
		remoteCalls: remoteCalls,
	}, nil
}

func (o *Observer) ObserveEvaluation(ctx context.Context, result model.RiskAssessment) {
	o.evaluations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", result.Source.String()),
		attribute.String("level", result.Level.String()),
	))
	o.scores.Record(ctx, int64(result.Score), metric.WithAttributes(
		attribute.String("source", result.Source.String()),
	))
}

func (o *Observer) ObserveFallback(ctx context.Context, reason string) {
	o.fallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func (o *Observer) ObserveRemoteCall(ctx context.Context, elapsed time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	o.remoteCalls.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("outcome", outcome)))
}
