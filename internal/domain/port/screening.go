package port

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/finboard/internal/domain/model"
)

// ScreeningQuery is what the evaluator sends to a remote fraud screener.
type ScreeningQuery struct {
	IPAddress      string
	Email          string
	Amount         decimal.Decimal
	Currency       string
	UserAgent      string
	AcceptLanguage string
}

// ScreeningResult is a successful remote screening.
type ScreeningResult struct {
	RiskScore       float64
	Proxy           bool
	Tor             bool
	DisposableEmail bool
	HighRiskCountry bool
	ShipForward     bool
	// IPRisk and EmailRisk are nil when the provider omits them.
	IPRisk    *float64
	EmailRisk *float64
}

// FraudScreeningClient is the remote fraud-scoring provider. Any error means
// the remote path is unavailable for this call.
type FraudScreeningClient interface {
	Screen(ctx context.Context, q ScreeningQuery) (ScreeningResult, error)
}

// EvaluationObserver receives telemetry about evaluations. Implementations
// must be safe for concurrent use.
type EvaluationObserver interface {
	ObserveEvaluation(ctx context.Context, result model.RiskAssessment)
	ObserveFallback(ctx context.Context, reason string)
	ObserveRemoteCall(ctx context.Context, elapsed time.Duration, err error)
}
