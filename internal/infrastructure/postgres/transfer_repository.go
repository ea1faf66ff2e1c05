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

// TransferRepository implements port.TransferRepository using PostgreSQL.
type TransferRepository struct {
	pool *pgxpool.Pool
}

var _ port.TransferRepository = (*TransferRepository)(nil)

// NewTransferRepository creates a new PostgreSQL-backed transfer repository.
func NewTransferRepository(pool *pgxpool.Pool) *TransferRepository {
	return &TransferRepository{pool: pool}
}

const transferColumns = `
	id, sender_id, sender_bank_id, receiver_id, receiver_bank_id,
	name, email, amount, currency, status, reference, created_at`

// Save inserts a transfer, or updates its status and reference if it exists.
func (r *TransferRepository) Save(ctx context.Context, t *model.Transfer) error {
	query := `INSERT INTO transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, reference = EXCLUDED.reference`

	_, err := r.pool.Exec(ctx, query,
		t.ID(), t.SenderID(), t.SenderBankID(), t.ReceiverID(), t.ReceiverBankID(),
		t.Name(), t.Email(), t.Amount(), t.Currency(), t.Status().String(), t.Reference(), t.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("postgres: save transfer: %w", err)
	}
	return nil
}

// FindByID retrieves a transfer userID sent or received.
func (r *TransferRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*model.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers
		WHERE id = $2 AND (sender_id = $1 OR receiver_id = $1)`

	t, err := scanTransfer(r.pool.QueryRow(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, port.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// ListByBank returns the transfers into or out of bankID, newest first.
func (r *TransferRepository) ListByBank(ctx context.Context, bankID uuid.UUID) ([]*model.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers
		WHERE sender_bank_id = $1 OR receiver_bank_id = $1
		ORDER BY created_at DESC, id`

	rows, err := r.pool.Query(ctx, query, bankID)
	if err != nil {
		return nil, fmt.Errorf("postgres: query transfers: %w", err)
	}
	defer rows.Close()

	transfers := make([]*model.Transfer, 0)
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate transfers: %w", err)
	}
	return transfers, nil
}

func scanTransfer(row pgx.Row) (*model.Transfer, error) {
	var (
		id, senderID, senderBankID, receiverID, receiverBankID uuid.UUID
		name, email, currency, statusStr, reference            string
		amount                                                 decimal.Decimal
		createdAt                                              time.Time
	)
	err := row.Scan(
		&id, &senderID, &senderBankID, &receiverID, &receiverBankID,
		&name, &email, &amount, &currency, &statusStr, &reference, &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("postgres: scan transfer: %w", err)
	}

	status, err := valueobject.TransferStatusFromString(statusStr)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse transfer status: %w", err)
	}

	return model.ReconstructTransfer(
		id, senderID, senderBankID, receiverID, receiverBankID,
		amount, currency, name, email, status, reference, createdAt.UTC(),
	), nil
}
