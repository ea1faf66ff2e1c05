// Package postgres implements the finboard repositories on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bibbank/finboard/internal/domain/model"
	"github.com/bibbank/finboard/internal/domain/port"
	"github.com/bibbank/finboard/internal/domain/valueobject"
)

// AssessmentRepository implements port.AssessmentRepository using PostgreSQL.
type AssessmentRepository struct {
	pool *pgxpool.Pool
}

var _ port.AssessmentRepository = (*AssessmentRepository)(nil)

// NewAssessmentRepository creates a new PostgreSQL-backed assessment repository.
func NewAssessmentRepository(pool *pgxpool.Pool) *AssessmentRepository {
	return &AssessmentRepository{pool: pool}
}

const assessmentColumns = `
	id, user_id,
	amount, currency, ip_address, email, phone, user_agent, accept_language,
	risk_score, risk_level, factors,
	ip_risk, email_risk, phone_risk, address_risk,
	source, decision, created_at`

// Save persists an assessment. Assessments are immutable once written.
func (r *AssessmentRepository) Save(ctx context.Context, a *model.Assessment) error {
	signal := a.Signal()
	result := a.Result()

	query := `INSERT INTO assessments (` + assessmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	_, err := r.pool.Exec(ctx, query,
		a.ID(), a.UserID(),
		signal.Amount, signal.Currency, signal.IPAddress, signal.Email, signal.Phone,
		signal.UserAgent, signal.AcceptLanguage,
		result.Score, result.Level.String(), result.Factors,
		result.SubScores.IPRisk, result.SubScores.EmailRisk,
		result.SubScores.PhoneRisk, result.SubScores.AddressRisk,
		result.Source.String(), string(a.Advisory().Decision()), a.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("postgres: save assessment: %w", err)
	}
	return nil
}

// FindByID retrieves an assessment owned by userID.
func (r *AssessmentRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*model.Assessment, error) {
	query := `SELECT ` + assessmentColumns + ` FROM assessments WHERE user_id = $1 AND id = $2`

	a, err := scanAssessment(r.pool.QueryRow(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, port.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// ListByUser returns a user's assessments, newest first.
func (r *AssessmentRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Assessment, error) {
	query := `SELECT ` + assessmentColumns + ` FROM assessments
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("postgres: query assessments: %w", err)
	}
	defer rows.Close()

	assessments := make([]*model.Assessment, 0)
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		assessments = append(assessments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate assessments: %w", err)
	}
	return assessments, nil
}

// scanAssessment reads one row; pgx.Rows satisfies pgx.Row.
func scanAssessment(row pgx.Row) (*model.Assessment, error) {
	var (
		id, userID                       uuid.UUID
		amount                           decimal.Decimal
		currency, ip, email, phone       string
		userAgent, acceptLanguage        string
		score                            int
		levelStr, sourceStr, decisionStr string
		factors                          []string
		subScores                        valueobject.SubScores
		createdAt                        time.Time
	)

	err := row.Scan(
		&id, &userID,
		&amount, &currency, &ip, &email, &phone, &userAgent, &acceptLanguage,
		&score, &levelStr, &factors,
		&subScores.IPRisk, &subScores.EmailRisk, &subScores.PhoneRisk, &subScores.AddressRisk,
		&sourceStr, &decisionStr, &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("postgres: scan assessment: %w", err)
	}

	level, err := valueobject.RiskLevelFromString(levelStr)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse risk level: %w", err)
	}
	source, err := valueobject.AssessmentSourceFromString(sourceStr)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse source: %w", err)
	}
	advisory, err := valueobject.AdvisoryFromDecision(decisionStr)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse decision: %w", err)
	}

	signal := model.TransactionSignal{
		Amount:         amount,
		Currency:       currency,
		IPAddress:      ip,
		Email:          email,
		Phone:          phone,
		UserAgent:      userAgent,
		AcceptLanguage: acceptLanguage,
	}
	result := model.RiskAssessment{
		Score:     score,
		Level:     level,
		Factors:   model.FactorsOrPlaceholder(factors),
		SubScores: subScores,
		Source:    source,
	}

	return model.Reconstruct(id, userID, signal, result, advisory, createdAt.UTC()), nil
}
