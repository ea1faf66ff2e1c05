package fraudlabs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type screenResponse struct {
	RiskScore       *float64 `json:"risk_score"`
	IPRisk          *float64 `json:"ip_risk"`
	EmailRisk       *float64 `json:"email_risk"`
	Proxy           flag     `json:"proxy"`
	Tor             flag     `json:"tor"`
	DisposableEmail flag     `json:"disposable_email"`
	HighRiskCountry flag     `json:"high_risk_country"`
	ShipForward     flag     `json:"ship_forward"`
}

// flag accepts JSON booleans as well as the provider's "Y"/"N" strings and
// 0/1 numbers. Anything unrecognised is false.
type flag bool

func (f *flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = false
	case bytes.Equal(data, []byte("true")):
		*f = true
	case bytes.Equal(data, []byte("false")):
		*f = false
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		switch strings.ToUpper(strings.TrimSpace(s)) {
		case "Y", "YES", "TRUE", "1":
			*f = true
		default:
			*f = false
		}
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("invalid flag %s", data)
		}
		*f = n != 0
	}
	return nil
}
