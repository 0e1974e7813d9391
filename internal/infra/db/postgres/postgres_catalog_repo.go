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

var (
	_ repository.SeasonRepository = (*PostgresSeasonRepo)(nil)
	_ repository.SeriesRepository = (*PostgresSeriesRepo)(nil)
)

type PostgresSeasonRepo struct {
	db *pgxpool.Pool
}

func NewPostgresSeasonRepo(db *pgxpool.Pool) *PostgresSeasonRepo {
	return &PostgresSeasonRepo{db: db}
}

func (r *PostgresSeasonRepo) FindByID(ctx context.Context, id string) (*model.Season, error) {
	s := new(model.Season)
	err := r.db.QueryRow(ctx, `
		SELECT id, series_id, creator_id, title, price, episode_count, created_at
		FROM seasons WHERE id=$1
	`, id).Scan(&s.ID, &s.SeriesID, &s.CreatorID, &s.Title, &s.Price, &s.EpisodeCount, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return s, nil
}

// FindPrices returns list prices aligned with the input ids; a missing or
// unpriced season contributes zero so bundle allocation can fall back to an
// equal split.
func (r *PostgresSeasonRepo) FindPrices(ctx context.Context, ids []string) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT id, price FROM seasons WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]int64, len(ids))
	for rows.Next() {
		var (
			id    string
			price *int64
		)
		if err := rows.Scan(&id, &price); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		if price != nil {
			byID[id] = *price
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = byID[id]
	}
	return out, nil
}

func (r *PostgresSeasonRepo) ListBySeries(ctx context.Context, seriesID string) ([]*model.Season, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, series_id, creator_id, title, price, episode_count, created_at
		FROM seasons WHERE series_id=$1 ORDER BY created_at ASC
	`, seriesID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Season
	for rows.Next() {
		s := new(model.Season)
		if err := rows.Scan(&s.ID, &s.SeriesID, &s.CreatorID, &s.Title, &s.Price, &s.EpisodeCount, &s.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type PostgresSeriesRepo struct {
	db *pgxpool.Pool
}

func NewPostgresSeriesRepo(db *pgxpool.Pool) *PostgresSeriesRepo {
	return &PostgresSeriesRepo{db: db}
}

func (r *PostgresSeriesRepo) FindByID(ctx context.Context, id string) (*model.Series, error) {
	s := new(model.Series)
	err := r.db.QueryRow(ctx, `
		SELECT id, creator_id, title, created_at FROM series WHERE id=$1
	`, id).Scan(&s.ID, &s.CreatorID, &s.Title, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return s, nil
}
