package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bibbank/finboard/internal/domain/model"
	"github.com/bibbank/finboard/internal/domain/port"
	pkgpostgres "github.com/bibbank/finboard/pkg/postgres"
)

// BankRepository implements port.BankRepository using PostgreSQL.
type BankRepository struct {
	pool *pgxpool.Pool
}

var _ port.BankRepository = (*BankRepository)(nil)

// NewBankRepository creates a new PostgreSQL-backed linked bank repository.
func NewBankRepository(pool *pgxpool.Pool) *BankRepository {
	return &BankRepository{pool: pool}
}

const bankColumns = `id, user_id, item_id, access_token, institution_id, primary_account_id, shareable_id, created_at`

// Save persists a linked bank. Re-linking an item the user already linked
// replaces its token and b takes over the stored identity.
func (r *BankRepository) Save(ctx context.Context, b *model.LinkedBank) error {
	err := pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		existing, err := scanBank(tx.QueryRow(ctx,
			`SELECT `+bankColumns+` FROM linked_banks WHERE user_id = $1 AND item_id = $2 FOR UPDATE`,
			b.UserID(), b.ItemID(),
		))
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			_, err = tx.Exec(ctx,
				`INSERT INTO linked_banks (`+bankColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				b.ID(), b.UserID(), b.ItemID(), b.AccessToken(),
				b.InstitutionID(), b.PrimaryAccountID(), b.ShareableID(), b.CreatedAt(),
			)
			return err
		case err != nil:
			return err
		}

		b.AdoptIdentity(existing)
		_, err = tx.Exec(ctx,
			`UPDATE linked_banks SET access_token = $2, institution_id = $3, primary_account_id = $4 WHERE id = $1`,
			b.ID(), b.AccessToken(), b.InstitutionID(), b.PrimaryAccountID(),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("postgres: save linked bank: %w", err)
	}
	return nil
}

// FindByID retrieves a linked bank owned by userID.
func (r *BankRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*model.LinkedBank, error) {
	query := `SELECT ` + bankColumns + ` FROM linked_banks WHERE user_id = $1 AND id = $2`

	b, err := scanBank(r.pool.QueryRow(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, port.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// FindByShareableID retrieves a linked bank by the id its owner shares with
// other users. It is not scoped to an owner.
func (r *BankRepository) FindByShareableID(ctx context.Context, shareableID uuid.UUID) (*model.LinkedBank, error) {
	query := `SELECT ` + bankColumns + ` FROM linked_banks WHERE shareable_id = $1`

	b, err := scanBank(r.pool.QueryRow(ctx, query, shareableID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, port.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// ListByUser returns a user's linked banks in link order.
func (r *BankRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.LinkedBank, error) {
	query := `SELECT ` + bankColumns + ` FROM linked_banks WHERE user_id = $1 ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: query linked banks: %w", err)
	}
	defer rows.Close()

	banks := make([]*model.LinkedBank, 0)
	for rows.Next() {
		b, err := scanBank(rows)
		if err != nil {
			return nil, err
		}
		banks = append(banks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate linked banks: %w", err)
	}
	return banks, nil
}

func scanBank(row pgx.Row) (*model.LinkedBank, error) {
	var (
		id, userID, shareableID                          uuid.UUID
		itemID, accessToken, institutionID, primaryAccID string
		createdAt                                        time.Time
	)
	err := row.Scan(&id, &userID, &itemID, &accessToken, &institutionID, &primaryAccID, &shareableID, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("postgres: scan linked bank: %w", err)
	}
	return model.ReconstructLinkedBank(id, userID, itemID, accessToken, institutionID, primaryAccID, shareableID, createdAt.UTC()), nil
}
