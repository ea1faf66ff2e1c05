package valueobject

import "fmt"

// AssessmentSource records which scoring path produced an assessment.
type AssessmentSource string

const (
	SourceRemote AssessmentSource = "REMOTE"
	SourceLocal  AssessmentSource = "LOCAL"
)

// AssessmentSourceFromString validates a stored source value.
func AssessmentSourceFromString(s string) (AssessmentSource, error) {
	switch AssessmentSource(s) {
	case SourceRemote, SourceLocal:
		return AssessmentSource(s), nil
	default:
		return "", fmt.Errorf("invalid assessment source: %q", s)
	}
}

func (s AssessmentSource) String() string { return string(s) }

// PlaceholderFactor stands in for an otherwise empty factor list.
const PlaceholderFactor = "No specific risk factors detected"

// SubScores are per-dimension fractional risk estimates, nominally in [0,1].
type SubScores struct {
	IPRisk      float64 `json:"ip_risk"`
	EmailRisk   float64 `json:"email_risk"`
	PhoneRisk   float64 `json:"phone_risk"`
	AddressRisk float64 `json:"address_risk"`
}
