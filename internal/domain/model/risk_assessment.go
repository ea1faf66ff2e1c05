package model

import "github.com/bibbank/finboard/internal/domain/valueobject"

// RiskAssessment is the result of one evaluation. Factors is never empty.
type RiskAssessment struct {
	Score     int                          `json:"score"`
	Level     valueobject.RiskLevel        `json:"level"`
	Factors   []string                     `json:"factors"`
	SubScores valueobject.SubScores        `json:"sub_scores"`
	Source    valueobject.AssessmentSource `json:"source"`
}

// FactorsOrPlaceholder substitutes the placeholder for an empty factor list.
func FactorsOrPlaceholder(factors []string) []string {
	if len(factors) == 0 {
		return []string{valueobject.PlaceholderFactor}
	}
	return factors
}
