package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bibbank/finboard/internal/domain/model"
	"github.com/bibbank/finboard/internal/domain/valueobject"
)

const (
	minLocalScore = 5
	maxLocalScore = 100

	// Jitter is drawn from [jitterOffset, jitterOffset+jitterSpan), i.e. [-5, 4].
	jitterSpan   = 10
	jitterOffset = -5
)

var (
	highAmountThreshold   = decimal.NewFromInt(1000)
	mediumAmountThreshold = decimal.NewFromInt(500)
)

// Local factor labels.
const (
	FactorHighAmount     = "High transaction amount (>$1000)"
	FactorMediumAmount   = "Medium transaction amount ($500-$1000)"
	FactorLocalNetworkIP = "Local network IP address"
	FactorPublicDNSIP    = "Public DNS IP (Google)"
	FactorPrivateRangeIP = "Private network IP range"
	FactorDemoEmail      = "Demo/test email detected"
	FactorTempEmail      = "Temporary/fake email detected"
	FactorNonUSDCurrency = "Non-USD currency transaction"
)

// HeuristicScorer is the local fallback scorer. Every rule is independent;
// all matching rules contribute points and a factor.
type HeuristicScorer struct {
	rnd RandomSource
}

// NewHeuristicScorer creates a HeuristicScorer. A nil source uses DefaultRandom.
func NewHeuristicScorer(rnd RandomSource) *HeuristicScorer {
	if rnd == nil {
		rnd = DefaultRandom()
	}
	return &HeuristicScorer{rnd: rnd}
}

// Subtotal returns the deterministic pre-jitter score and the factors that
// produced it, in rule order.
func (h *HeuristicScorer) Subtotal(signal model.TransactionSignal) (int, []string) {
	score := 0
	factors := make([]string, 0, 4)

	switch {
	case signal.Amount.GreaterThan(highAmountThreshold):
		score += 25
		factors = append(factors, FactorHighAmount)
	case signal.Amount.GreaterThan(mediumAmountThreshold):
		score += 15
		factors = append(factors, FactorMediumAmount)
	}

	// Exact matches win over the substring test, which also matches
	// addresses like "110.1.1.1".
	switch {
	case signal.IPAddress == "192.168.1.1":
		score += 20
		factors = append(factors, FactorLocalNetworkIP)
	case signal.IPAddress == "8.8.8.8":
		score += 5
		factors = append(factors, FactorPublicDNSIP)
	case strings.Contains(signal.IPAddress, "10.") || strings.Contains(signal.IPAddress, "172."):
		score += 15
		factors = append(factors, FactorPrivateRangeIP)
	}

	if signal.Email != "" {
		if strings.Contains(signal.Email, "demo") || strings.Contains(signal.Email, "test") {
			score += 15
			factors = append(factors, FactorDemoEmail)
		}
		if strings.Contains(signal.Email, "temp") || strings.Contains(signal.Email, "fake") {
			score += 20
			factors = append(factors, FactorTempEmail)
		}
	}

	if signal.Currency != "USD" {
		score += 10
		factors = append(factors, FactorNonUSDCurrency)
	}

	return score, factors
}

// Score runs the local heuristic. The result is always within [5, 100].
func (h *HeuristicScorer) Score(signal model.TransactionSignal) model.RiskAssessment {
	subtotal, factors := h.Subtotal(signal)

	score := clamp(subtotal+h.rnd.IntN(jitterSpan)+jitterOffset, minLocalScore, maxLocalScore)

	return model.RiskAssessment{
		Score:     score,
		Level:     valueobject.LocalRiskLevelFromScore(score),
		Factors:   model.FactorsOrPlaceholder(factors),
		SubScores: h.subScores(score),
		Source:    valueobject.SourceLocal,
	}
}

// subScores samples per-dimension estimates from the final score. Phone and
// address have no signal in this heuristic and are always drawn from the low
// band; treat them as placeholders.
func (h *HeuristicScorer) subScores(score int) valueobject.SubScores {
	ip := h.band(0.1, 0.3)
	if score > 30 {
		ip = h.band(0.6, 0.9)
	}
	email := h.band(0.1, 0.3)
	if score > 40 {
		email = h.band(0.5, 0.8)
	}
	return valueobject.SubScores{
		IPRisk:      ip,
		EmailRisk:   email,
		PhoneRisk:   h.band(0.1, 0.3),
		AddressRisk: h.band(0.1, 0.3),
	}
}

func (h *HeuristicScorer) band(lo, hi float64) float64 {
	return lo + h.rnd.Float64()*(hi-lo)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
