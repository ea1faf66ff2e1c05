package service

import (
	"math"

	"github.com/bibbank/finboard/internal/domain/model"
	"github.com/bibbank/finboard/internal/domain/port"
	"github.com/bibbank/finboard/internal/domain/valueobject"
)

// Remote factor labels, in the order they are reported.
const (
	FactorProxy           = "Proxy/VPN detected"
	FactorTor             = "Tor network detected"
	FactorDisposableEmail = "Disposable email detected"
	FactorHighRiskCountry = "High risk country"
	FactorShipForward     = "Shipping forwarding detected"
	FactorHighRiskScore   = "High risk score"
)

const highRemoteScore = 75

// RemoteAssessment maps a provider screening to a RiskAssessment. The score
// is rounded but not clamped and the level is derived from the rounded score.
// The high-score factor reads the provider's raw value. Phone and address
// risk are always zero because the provider does not report them.
func RemoteAssessment(r port.ScreeningResult) model.RiskAssessment {
	factors := make([]string, 0, 6)
	flags := []struct {
		set   bool
		label string
	}{
		{r.Proxy, FactorProxy},
		{r.Tor, FactorTor},
		{r.DisposableEmail, FactorDisposableEmail},
		{r.HighRiskCountry, FactorHighRiskCountry},
		{r.ShipForward, FactorShipForward},
		{r.RiskScore > highRemoteScore, FactorHighRiskScore},
	}
	for _, f := range flags {
		if f.set {
			factors = append(factors, f.label)
		}
	}

	var sub valueobject.SubScores
	if r.IPRisk != nil {
		sub.IPRisk = *r.IPRisk
	}
	if r.EmailRisk != nil {
		sub.EmailRisk = *r.EmailRisk
	}

	score := int(math.Round(r.RiskScore))
	return model.RiskAssessment{
		Score:     score,
		Level:     valueobject.RemoteRiskLevelFromScore(float64(score)),
		Factors:   model.FactorsOrPlaceholder(factors),
		SubScores: sub,
		Source:    valueobject.SourceRemote,
	}
}
