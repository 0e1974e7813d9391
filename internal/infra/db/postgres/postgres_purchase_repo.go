package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"seriespay/internal/domain"
	"seriespay/internal/domain/model"
	"seriespay/internal/domain/ports/repository"
)

var _ repository.PurchaseRepository = (*PostgresPurchaseRepo)(nil)

type PostgresPurchaseRepo struct {
	db *pgxpool.Pool
}

func NewPostgresPurchaseRepo(db *pgxpool.Pool) *PostgresPurchaseRepo {
	return &PostgresPurchaseRepo{db: db}
}

const purchaseColumns = `id, user_id, season_id, series_id, creator_id, checkout_key, payment_intent_id, charge_id, amount, platform_fee, creator_share, status, transferred, transfer_id, created_at`

func (r *PostgresPurchaseRepo) Save(ctx context.Context, p *model.Purchase) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO purchases (`+purchaseColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`, p.ID, p.UserID, p.SeasonID, p.SeriesID, p.CreatorID, p.CheckoutKey, p.PaymentIntentID, p.ChargeID,
		p.Amount, p.PlatformFee, p.CreatorShare, p.Status, p.Transferred, p.TransferID, p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation on checkout_key: the session (or this
		// bundle row) was already reconciled by a concurrent trigger.
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *PostgresPurchaseRepo) ExistsByAnyCheckoutKey(ctx context.Context, keys []string) (bool, error) {
	if len(keys) == 0 {
		return false, nil
	}
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM purchases WHERE checkout_key = ANY($1))
	`, keys).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresPurchaseRepo) ListUntransferredByCreator(ctx context.Context, creatorID string) ([]*model.Purchase, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+purchaseColumns+`
		FROM purchases
		WHERE creator_id=$1 AND status='completed' AND transferred=FALSE AND charge_id IS NOT NULL
		ORDER BY created_at ASC
	`, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPurchases(rows)
}

func (r *PostgresPurchaseRepo) MarkTransferred(ctx context.Context, purchaseID, transferID string) (bool, error) {
	// Conditional claim: a concurrent batch that already flipped the flag
	// gets zero rows affected.
	cmd, err := r.db.Exec(ctx, `
		UPDATE purchases SET transferred=TRUE, transfer_id=$2
		WHERE id=$1 AND transferred=FALSE
	`, purchaseID, transferID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *PostgresPurchaseRepo) ListByUser(ctx context.Context, userID string) ([]*model.Purchase, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+purchaseColumns+`
		FROM purchases WHERE user_id=$1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPurchases(rows)
}

func (r *PostgresPurchaseRepo) HasPurchased(ctx context.Context, userID, seasonID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM purchases WHERE user_id=$1 AND season_id=$2 AND status='completed')
	`, userID, seasonID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresPurchaseRepo) SumByPeriod(ctx context.Context, period string) (int64, error) {
	var sum int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount),0) FROM purchases
		WHERE status='completed' AND created_at >= DATE_TRUNC($1, NOW())
	`, period).Scan(&sum)
	if err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return sum, nil
}

func (r *PostgresPurchaseRepo) SumFeesByPeriod(ctx context.Context, period string) (int64, error) {
	var sum int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(platform_fee),0) FROM purchases
		WHERE status='completed' AND created_at >= DATE_TRUNC($1, NOW())
	`, period).Scan(&sum)
	if err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return sum, nil
}

func scanPurchases(rows pgx.Rows) ([]*model.Purchase, error) {
	var out []*model.Purchase
	for rows.Next() {
		p := new(model.Purchase)
		if err := rows.Scan(&p.ID, &p.UserID, &p.SeasonID, &p.SeriesID, &p.CreatorID, &p.CheckoutKey,
			&p.PaymentIntentID, &p.ChargeID, &p.Amount, &p.PlatformFee, &p.CreatorShare, &p.Status,
			&p.Transferred, &p.TransferID, &p.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
