package grpc

import "github.com/bibbank/finboard/internal/application/dto"

// EvaluateTransactionRequest represents the proto EvaluateTransactionRequest message.
type EvaluateTransactionRequest struct {
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
	IPAddress      string `json:"ip_address"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	UserAgent      string `json:"user_agent"`
	AcceptLanguage string `json:"accept_language"`
}

// SubScoresMsg represents the proto SubScores message.
type SubScoresMsg struct {
	IPRisk      float64 `json:"ip_risk"`
	EmailRisk   float64 `json:"email_risk"`
	PhoneRisk   float64 `json:"phone_risk"`
	AddressRisk float64 `json:"address_risk"`
}

// AssessmentMsg represents the proto Assessment message.
type AssessmentMsg struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Amount    string        `json:"amount"`
	Currency  string        `json:"currency"`
	IPAddress string        `json:"ip_address"`
	RiskScore int32         `json:"risk_score"`
	RiskLevel string        `json:"risk_level"`
	Factors   []string      `json:"factors"`
	SubScores *SubScoresMsg `json:"sub_scores"`
	Source    string        `json:"source"`
	Decision  string        `json:"decision"`
	Advisory  string        `json:"advisory"`
	CreatedAt string        `json:"created_at"`
}

// EvaluateTransactionResponse represents the proto EvaluateTransactionResponse message.
type EvaluateTransactionResponse struct {
	Assessment *AssessmentMsg `json:"assessment"`
}

// GetAssessmentRequest represents the proto GetAssessmentRequest message.
type GetAssessmentRequest struct {
	ID string `json:"id"`
}

// GetAssessmentResponse represents the proto GetAssessmentResponse message.
type GetAssessmentResponse struct {
	Assessment *AssessmentMsg `json:"assessment"`
}

// ListAssessmentsRequest represents the proto ListAssessmentsRequest message.
type ListAssessmentsRequest struct {
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

// ListAssessmentsResponse represents the proto ListAssessmentsResponse message.
type ListAssessmentsResponse struct {
	Assessments []*AssessmentMsg `json:"assessments"`
	Count       int32            `json:"count"`
}

// ClassifyScoreRequest represents the proto ClassifyScoreRequest message.
type ClassifyScoreRequest struct {
	Score int32 `json:"score"`
}

// ClassifyScoreResponse represents the proto ClassifyScoreResponse message.
type ClassifyScoreResponse struct {
	Score    int32  `json:"score"`
	Decision string `json:"decision"`
	Message  string `json:"message"`
}

func toAssessmentMsg(a dto.AssessmentResponse) *AssessmentMsg {
	return &AssessmentMsg{
		ID:        a.ID.String(),
		UserID:    a.UserID.String(),
		Amount:    a.Amount,
		Currency:  a.Currency,
		IPAddress: a.IPAddress,
		RiskScore: int32(a.Score),
		RiskLevel: a.RiskLevel,
		Factors:   a.Factors,
		SubScores: &SubScoresMsg{
			IPRisk:      a.SubScores.IPRisk,
			EmailRisk:   a.SubScores.EmailRisk,
			PhoneRisk:   a.SubScores.PhoneRisk,
			AddressRisk: a.SubScores.AddressRisk,
		},
		Source:    a.Source,
		Decision:  a.Decision,
		Advisory:  a.Advisory,
		CreatedAt: a.CreatedAt.Format("2006-01-02T15:04:05.000Z07:00"),
	}
}
