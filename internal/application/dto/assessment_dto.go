package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/finboard/internal/domain/model"
	"github.com/bibbank/finboard/internal/domain/valueobject"
)

// EvaluateTransactionRequest is the input DTO for the EvaluateTransaction use case.
type EvaluateTransactionRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	IPAddress      string          `json:"ip_address"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	UserAgent      string          `json:"user_agent"`
	AcceptLanguage string          `json:"accept_language"`
	UserID         uuid.UUID       `json:"-"`
}

// AssessmentResponse is the output DTO for a stored assessment.
type AssessmentResponse struct {
	CreatedAt      time.Time             `json:"created_at"`
	SubScores      valueobject.SubScores `json:"sub_scores"`
	Factors        []string              `json:"factors"`
	ID             uuid.UUID             `json:"id"`
	UserID         uuid.UUID             `json:"user_id"`
	Amount         string                `json:"amount"`
	Currency       string                `json:"currency"`
	IPAddress      string                `json:"ip_address"`
	Email          string                `json:"email,omitempty"`
	RiskLevel      string                `json:"risk_level"`
	Source         string                `json:"source"`
	Decision       string                `json:"decision"`
	Advisory       string                `json:"advisory"`
	Score          int                   `json:"score"`
}

// GetAssessmentRequest is the input DTO for retrieving an assessment.
type GetAssessmentRequest struct {
	UserID       uuid.UUID `json:"-"`
	AssessmentID uuid.UUID `json:"assessment_id"`
}

// ListAssessmentsRequest pages through a user's assessments.
type ListAssessmentsRequest struct {
	UserID uuid.UUID `json:"-"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
}

// ListAssessmentsResponse is one page of assessments, newest first.
type ListAssessmentsResponse struct {
	Assessments []AssessmentResponse `json:"assessments"`
	Count       int                  `json:"count"`
}

// ClassifyResponse is the advisory for a bare score.
type ClassifyResponse struct {
	Decision string `json:"decision"`
	Message  string `json:"message"`
	Score    int    `json:"score"`
}

// FromModel maps a domain model to the response DTO.
func FromModel(a *model.Assessment) AssessmentResponse {
	result := a.Result()
	signal := a.Signal()
	return AssessmentResponse{
		ID:        a.ID(),
		UserID:    a.UserID(),
		Amount:    signal.Amount.String(),
		Currency:  signal.Currency,
		IPAddress: signal.IPAddress,
		Email:     signal.Email,
		Score:     result.Score,
		RiskLevel: result.Level.String(),
		Factors:   result.Factors,
		SubScores: result.SubScores,
		Source:    result.Source.String(),
		Decision:  string(a.Advisory().Decision()),
		Advisory:  a.Advisory().Message(),
		CreatedAt: a.CreatedAt(),
	}
}
