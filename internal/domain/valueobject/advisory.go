package valueobject

import "fmt"

// Decision is the machine-readable action attached to an Advisory.
type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReview  Decision = "REVIEW"
	DecisionBlock   Decision = "BLOCK"
)

// Advisory is the display message for a risk score.
type Advisory struct {
	decision Decision
	message  string
}

var (
	AdvisoryApproved = Advisory{decision: DecisionApprove, message: "Low Risk - Transaction Approved"}
	AdvisoryReview   = Advisory{decision: DecisionReview, message: "Medium Risk - Manual Review Required"}
	AdvisoryBlocked  = Advisory{decision: DecisionBlock, message: "High Risk - Transaction Blocked"}
)

// ClassifyScore maps a score to its advisory regardless of which path
// produced the score.
func ClassifyScore(score int) Advisory {
	switch {
	case score <= 20:
		return AdvisoryApproved
	case score <= 50:
		return AdvisoryReview
	default:
		return AdvisoryBlocked
	}
}

// AdvisoryFromDecision reconstructs an advisory from its stored decision.
func AdvisoryFromDecision(d string) (Advisory, error) {
	switch Decision(d) {
	case DecisionApprove:
		return AdvisoryApproved, nil
	case DecisionReview:
		return AdvisoryReview, nil
	case DecisionBlock:
		return AdvisoryBlocked, nil
	default:
		return Advisory{}, fmt.Errorf("invalid advisory decision: %q", d)
	}
}

// Decision returns the machine-readable action.
func (a Advisory) Decision() Decision { return a.decision }

// Message returns the human-readable advisory.
func (a Advisory) Message() string { return a.message }

// String returns the message.
func (a Advisory) String() string { return a.message }

// IsBlocked reports whether the advisory blocks the transaction.
func (a Advisory) IsBlocked() bool { return a.decision == DecisionBlock }

// IsZero returns true if the advisory has not been set.
func (a Advisory) IsZero() bool { return a.decision == "" }
