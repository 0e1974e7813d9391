package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"seriespay/internal/domain"
	"seriespay/internal/domain/model"
	"seriespay/internal/domain/ports/repository"
)

var _ repository.CreatorRepository = (*PostgresCreatorRepo)(nil)

type PostgresCreatorRepo struct {
	db *pgxpool.Pool
}

func NewPostgresCreatorRepo(db *pgxpool.Pool) *PostgresCreatorRepo {
	return &PostgresCreatorRepo{db: db}
}

const creatorColumns = `id, email, payout_account_id, onboarding_complete, created_at`

func (r *PostgresCreatorRepo) FindByID(ctx context.Context, id string) (*model.Creator, error) {
	return r.findOne(ctx, `SELECT `+creatorColumns+` FROM creators WHERE id=$1`, id)
}

func (r *PostgresCreatorRepo) FindByPayoutAccount(ctx context.Context, accountID string) (*model.Creator, error) {
	return r.findOne(ctx, `SELECT `+creatorColumns+` FROM creators WHERE payout_account_id=$1`, accountID)
}

func (r *PostgresCreatorRepo) findOne(ctx context.Context, q string, arg any) (*model.Creator, error) {
	c := new(model.Creator)
	err := r.db.QueryRow(ctx, q, arg).Scan(&c.ID, &c.Email, &c.PayoutAccountID, &c.OnboardingComplete, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return c, nil
}

func (r *PostgresCreatorRepo) SetPayoutAccount(ctx context.Context, creatorID, accountID string) error {
	cmd, err := r.db.Exec(ctx, `
		UPDATE creators SET payout_account_id=$2 WHERE id=$1
	`, creatorID, accountID)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresCreatorRepo) MarkOnboardingComplete(ctx context.Context, creatorID string) (bool, error) {
	// Conditional flip: only the trigger that wins the transition into
	// chargeable gets to run the one-time backlog batch.
	cmd, err := r.db.Exec(ctx, `
		UPDATE creators SET onboarding_complete=TRUE
		WHERE id=$1 AND onboarding_complete=FALSE
	`, creatorID)
	if err != nil {
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *PostgresCreatorRepo) ListPayoutBacklog(ctx context.Context, limit int) ([]*model.Creator, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT c.id, c.email, c.payout_account_id, c.onboarding_complete, c.created_at
		FROM creators c
		JOIN purchases p ON p.creator_id = c.id
		WHERE c.onboarding_complete = TRUE
		  AND c.payout_account_id IS NOT NULL
		  AND p.status = 'completed' AND p.transferred = FALSE AND p.charge_id IS NOT NULL
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Creator
	for rows.Next() {
		c := new(model.Creator)
		if err := rows.Scan(&c.ID, &c.Email, &c.PayoutAccountID, &c.OnboardingComplete, &c.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
