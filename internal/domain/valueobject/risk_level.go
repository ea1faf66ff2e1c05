package valueobject

import (
	"encoding/json"
	"fmt"
)

// RiskLevel is an immutable value object representing the risk classification.
type RiskLevel struct {
	value string
}

var (
	RiskLevelLow      = RiskLevel{value: "LOW RISK"}
	RiskLevelMedium   = RiskLevel{value: "MEDIUM RISK"}
	RiskLevelHigh     = RiskLevel{value: "HIGH RISK"}
	RiskLevelVeryHigh = RiskLevel{value: "VERY HIGH RISK"}
)

// RiskLevelFromString reconstructs a RiskLevel from its string representation.
func RiskLevelFromString(s string) (RiskLevel, error) {
	switch s {
	case RiskLevelLow.value:
		return RiskLevelLow, nil
	case RiskLevelMedium.value:
		return RiskLevelMedium, nil
	case RiskLevelHigh.value:
		return RiskLevelHigh, nil
	case RiskLevelVeryHigh.value:
		return RiskLevelVeryHigh, nil
	default:
		return RiskLevel{}, fmt.Errorf("invalid risk level: %q", s)
	}
}

// RemoteRiskLevelFromScore applies the screening provider's four-band table.
func RemoteRiskLevelFromScore(score float64) RiskLevel {
	switch {
	case score < 10:
		return RiskLevelLow
	case score < 25:
		return RiskLevelMedium
	case score < 50:
		return RiskLevelHigh
	default:
		return RiskLevelVeryHigh
	}
}

// LocalRiskLevelFromScore applies the heuristic's three-band table. It never
// yields VERY HIGH RISK and its cut-offs differ from the remote table.
func LocalRiskLevelFromScore(score int) RiskLevel {
	switch {
	case score <= 20:
		return RiskLevelLow
	case score <= 50:
		return RiskLevelMedium
	default:
		return RiskLevelHigh
	}
}

// String returns the string representation.
func (r RiskLevel) String() string {
	return r.value
}

// IsZero returns true if the RiskLevel has not been set.
func (r RiskLevel) IsZero() bool {
	return r.value == ""
}

// Equal checks equality with another RiskLevel.
func (r RiskLevel) Equal(other RiskLevel) bool {
	return r.value == other.value
}

// MarshalJSON encodes the level as its label.
func (r RiskLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.value)
}

// UnmarshalJSON decodes a label produced by MarshalJSON.
func (r *RiskLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	level, err := RiskLevelFromString(s)
	if err != nil {
		return err
	}
	*r = level
	return nil
}
