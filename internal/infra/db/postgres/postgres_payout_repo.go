package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"seriespay/internal/domain"
	"seriespay/internal/domain/model"
	"seriespay/internal/domain/ports/repository"
)

var _ repository.PayoutRecordRepository = (*PostgresPayoutRepo)(nil)

type PostgresPayoutRepo struct {
	db *pgxpool.Pool
}

func NewPostgresPayoutRepo(db *pgxpool.Pool) *PostgresPayoutRepo {
	return &PostgresPayoutRepo{db: db}
}

func (r *PostgresPayoutRepo) Save(ctx context.Context, rec *model.PayoutRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO payout_records (id, creator_id, purchase_id, transfer_id, amount, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, rec.ID, rec.CreatorID, rec.PurchaseID, rec.TransferID, rec.Amount, rec.Status, rec.CreatedAt)
	return err
}

func (r *PostgresPayoutRepo) ListByCreator(ctx context.Context, creatorID string) ([]*model.PayoutRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, creator_id, purchase_id, transfer_id, amount, status, created_at
		FROM payout_records WHERE creator_id=$1 ORDER BY created_at DESC
	`, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.PayoutRecord
	for rows.Next() {
		rec := new(model.PayoutRecord)
		if err := rows.Scan(&rec.ID, &rec.CreatorID, &rec.PurchaseID, &rec.TransferID, &rec.Amount, &rec.Status, &rec.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *PostgresPayoutRepo) SumCompleted(ctx context.Context) (int64, error) {
	var sum int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount),0) FROM payout_records WHERE status='completed'
	`).Scan(&sum)
	if err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return sum, nil
}
