package service_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/finboard/internal/domain/model"
	"github.com/bibbank/finboard/internal/domain/service"
	"github.com/bibbank/finboard/internal/domain/valueobject"
)

// fixedRandom returns the same draw every time. intN is the raw IntN result,
// so intN=5 means zero jitter.
type fixedRandom struct {
	intN int
	f    float64
}

func (r fixedRandom) IntN(n int) int {
	if r.intN >= n {
		return n - 1
	}
	return r.intN
}

func (r fixedRandom) Float64() float64 { return r.f }

func signal(amount int64, currency, ip, email string) model.TransactionSignal {
	return model.NewTransactionSignal(decimal.NewFromInt(amount), currency, ip, email, "", "", "")
}

func TestHeuristicScorer_Rules(t *testing.T) {
	tests := []struct {
		name     string
		signal   model.TransactionSignal
		subtotal int
		factors  []string
	}{
		{
			name:     "nothing fires",
			signal:   signal(100, "USD", "203.0.113.9", ""),
			subtotal: 0,
			factors:  nil,
		},
		{
			name:     "high amount",
			signal:   signal(1001, "USD", "203.0.113.9", ""),
			subtotal: 25,
			factors:  []string{service.FactorHighAmount},
		},
		{
			name:     "amount exactly 1000 is medium",
			signal:   signal(1000, "USD", "203.0.113.9", ""),
			subtotal: 15,
			factors:  []string{service.FactorMediumAmount},
		},
		{
			name:     "amount exactly 500 adds nothing",
			signal:   signal(500, "USD", "203.0.113.9", ""),
			subtotal: 0,
		},
		{
			name:     "local network ip",
			signal:   signal(10, "USD", "192.168.1.1", ""),
			subtotal: 20,
			factors:  []string{service.FactorLocalNetworkIP},
		},
		{
			name:     "public dns ip",
			signal:   signal(10, "USD", "8.8.8.8", ""),
			subtotal: 5,
			factors:  []string{service.FactorPublicDNSIP},
		},
		{
			name:     "private 10 range",
			signal:   signal(10, "USD", "10.0.0.4", ""),
			subtotal: 15,
			factors:  []string{service.FactorPrivateRangeIP},
		},
		{
			name:     "172 substring anywhere",
			signal:   signal(10, "USD", "1.172.3.4", ""),
			subtotal: 15,
			factors:  []string{service.FactorPrivateRangeIP},
		},
		{
			name:     "both email rules fire",
			signal:   signal(10, "USD", "203.0.113.9", "test.temp@x.io"),
			subtotal: 35,
			factors:  []string{service.FactorDemoEmail, service.FactorTempEmail},
		},
		{
			name:     "fake email only",
			signal:   signal(10, "USD", "203.0.113.9", "fake@x.io"),
			subtotal: 20,
			factors:  []string{service.FactorTempEmail},
		},
		{
			name:     "non usd",
			signal:   signal(10, "usd", "203.0.113.9", ""),
			subtotal: 10,
			factors:  []string{service.FactorNonUSDCurrency},
		},
	}

	scorer := service.NewHeuristicScorer(fixedRandom{intN: 5})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subtotal, factors := scorer.Subtotal(tt.signal)
			assert.Equal(t, tt.subtotal, subtotal)
			if tt.factors == nil {
				assert.Empty(t, factors)
			} else {
				assert.Equal(t, tt.factors, factors)
			}
		})
	}
}

func TestHeuristicScorer_ScenarioHighRisk(t *testing.T) {
	s := signal(1500, "USD", "192.168.1.1", "test@demo.com")

	for _, rnd := range []service.RandomSource{
		fixedRandom{intN: 0},
		fixedRandom{intN: 9},
		service.NewSeededRandom(42),
		service.DefaultRandom(),
	} {
		got := service.NewHeuristicScorer(rnd).Score(s)

		assert.Equal(t, []string{
			service.FactorHighAmount,
			service.FactorLocalNetworkIP,
			service.FactorDemoEmail,
		}, got.Factors)
		assert.GreaterOrEqual(t, got.Score, 55)
		assert.LessOrEqual(t, got.Score, 64)
		assert.Equal(t, valueobject.RiskLevelHigh, got.Level)
		assert.Equal(t, valueobject.SourceLocal, got.Source)
	}
}

func TestHeuristicScorer_ScenarioForeignCurrency(t *testing.T) {
	s := signal(50, "EUR", "8.8.8.8", "")

	tests := []struct {
		intN  int
		score int
		level valueobject.RiskLevel
	}{
		{intN: 0, score: 10, level: valueobject.RiskLevelLow},
		{intN: 5, score: 15, level: valueobject.RiskLevelLow},
		{intN: 9, score: 19, level: valueobject.RiskLevelLow},
	}

	for _, tt := range tests {
		got := service.NewHeuristicScorer(fixedRandom{intN: tt.intN}).Score(s)
		assert.Equal(t, tt.score, got.Score)
		assert.Equal(t, tt.level, got.Level)
		assert.Equal(t, []string{service.FactorPublicDNSIP, service.FactorNonUSDCurrency}, got.Factors)
	}
}

func TestHeuristicScorer_ClampsAndPlaceholder(t *testing.T) {
	got := service.NewHeuristicScorer(fixedRandom{intN: 0}).Score(signal(1, "USD", "203.0.113.9", ""))
	assert.Equal(t, 5, got.Score, "negative jitter on zero subtotal clamps to 5")
	assert.Equal(t, []string{valueobject.PlaceholderFactor}, got.Factors)

	worst := signal(5000, "GBP", "192.168.1.1", "demo-temp@fake.test")
	sub, _ := service.NewHeuristicScorer(nil).Subtotal(worst)
	assert.Equal(t, 90, sub)
	got = service.NewHeuristicScorer(fixedRandom{intN: 9}).Score(worst)
	assert.Equal(t, 94, got.Score)
	assert.Equal(t, valueobject.RiskLevelHigh, got.Level, "local table never yields VERY HIGH RISK")
}

func TestHeuristicScorer_ScoreAlwaysInRange(t *testing.T) {
	scorer := service.NewHeuristicScorer(service.NewSeededRandom(7))
	signals := []model.TransactionSignal{
		signal(1, "USD", "", ""),
		signal(750, "JPY", "172.16.0.1", "temp@test.com"),
		signal(99999, "EUR", "192.168.1.1", "fake-demo@temp.io"),
	}

	for i := 0; i < 500; i++ {
		got := scorer.Score(signals[i%len(signals)])
		require.GreaterOrEqual(t, got.Score, 5)
		require.LessOrEqual(t, got.Score, 100)
		require.NotEmpty(t, got.Factors)
	}
}

func TestHeuristicScorer_AmountTierMonotonic(t *testing.T) {
	scorer := service.NewHeuristicScorer(nil)
	prev := -1
	for amount := int64(400); amount <= 1200; amount += 25 {
		sub, _ := scorer.Subtotal(signal(amount, "USD", "203.0.113.9", ""))
		assert.GreaterOrEqual(t, sub, prev, "amount %d", amount)
		prev = sub
	}
}

func TestHeuristicScorer_SubScoreBands(t *testing.T) {
	high := service.NewHeuristicScorer(fixedRandom{intN: 5, f: 0.5}).Score(signal(1500, "USD", "192.168.1.1", "test@demo.com"))
	assert.InDelta(t, 0.75, high.SubScores.IPRisk, 1e-9)
	assert.InDelta(t, 0.65, high.SubScores.EmailRisk, 1e-9)
	assert.InDelta(t, 0.2, high.SubScores.PhoneRisk, 1e-9)
	assert.InDelta(t, 0.2, high.SubScores.AddressRisk, 1e-9)

	// score 35: above the ip threshold, below the email one
	mid := service.NewHeuristicScorer(fixedRandom{intN: 5, f: 0}).Score(signal(10, "USD", "203.0.113.9", "test.temp@x.io"))
	require.Equal(t, 35, mid.Score)
	assert.InDelta(t, 0.6, mid.SubScores.IPRisk, 1e-9)
	assert.InDelta(t, 0.1, mid.SubScores.EmailRisk, 1e-9)

	low := service.NewHeuristicScorer(fixedRandom{intN: 5, f: 0.999}).Score(signal(10, "USD", "203.0.113.9", ""))
	assert.Less(t, low.SubScores.IPRisk, 0.3)
	assert.GreaterOrEqual(t, low.SubScores.IPRisk, 0.1)
}

func TestSeededRandom_Reproducible(t *testing.T) {
	a, b := service.NewSeededRandom(99), service.NewSeededRandom(99)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.IntN(10), b.IntN(10))
		assert.Equal(t, a.Float64(), b.Float64())
	}
}
