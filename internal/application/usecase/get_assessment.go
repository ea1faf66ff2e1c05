package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/finboard/internal/application/dto"
	"github.com/bibbank/finboard/internal/domain/port"
	"github.com/bibbank/finboard/internal/domain/valueobject"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// GetAssessment is the use case for retrieving an existing assessment.
type GetAssessment struct {
	repo port.AssessmentRepository
}

// NewGetAssessment creates a new GetAssessment use case.
func NewGetAssessment(repo port.AssessmentRepository) *GetAssessment {
	return &GetAssessment{repo: repo}
}

// Execute retrieves one of the caller's assessments by ID.
func (uc *GetAssessment) Execute(ctx context.Context, req dto.GetAssessmentRequest) (dto.AssessmentResponse, error) {
	assessment, err := uc.repo.FindByID(ctx, req.UserID, req.AssessmentID)
	if err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("failed to find assessment %s: %w", req.AssessmentID, err)
	}
	return dto.FromModel(assessment), nil
}

// ListAssessments pages through the caller's assessments, newest first.
type ListAssessments struct {
	repo port.AssessmentRepository
}

// NewListAssessments creates a new ListAssessments use case.
func NewListAssessments(repo port.AssessmentRepository) *ListAssessments {
	return &ListAssessments{repo: repo}
}

// Execute returns one page. Limit defaults to 20 and is capped at 100.
func (uc *ListAssessments) Execute(ctx context.Context, req dto.ListAssessmentsRequest) (dto.ListAssessmentsResponse, error) {
	limit := req.Limit
	switch {
	case limit <= 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}
	offset := max(req.Offset, 0)

	assessments, err := uc.repo.ListByUser(ctx, req.UserID, limit, offset)
	if err != nil {
		return dto.ListAssessmentsResponse{}, fmt.Errorf("failed to list assessments: %w", err)
	}

	resp := dto.ListAssessmentsResponse{Assessments: make([]dto.AssessmentResponse, 0, len(assessments))}
	for _, a := range assessments {
		resp.Assessments = append(resp.Assessments, dto.FromModel(a))
	}
	resp.Count = len(resp.Assessments)
	return resp, nil
}

// ClassifyScore returns the display advisory for a score.
type ClassifyScore struct{}

// NewClassifyScore creates a new ClassifyScore use case.
func NewClassifyScore() *ClassifyScore { return &ClassifyScore{} }

// Execute classifies score.
func (uc *ClassifyScore) Execute(score int) dto.ClassifyResponse {
	adv := valueobject.ClassifyScore(score)
	return dto.ClassifyResponse{
		Score:    score,
		Decision: string(adv.Decision()),
		Message:  adv.Message(),
	}
}
