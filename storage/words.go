package storage

import (
	"context"
	"errors"

	"github.com/MrAsnssr/Fraud/domain"
	"github.com/jackc/pgx/v5"
)

const categoryColumns = `id, name, words, relative_pairs, price, is_free, is_daily_offer, is_weekly_guest, is_limited_time`

func scanCategory(row pgx.Row) (domain.WordCategory, error) {
	var cat domain.WordCategory
	err := row.Scan(
		&cat.ID, &cat.Name, &cat.Words, &cat.RelativePairs,
		&cat.Price, &cat.IsFree, &cat.IsDailyOffer, &cat.IsWeeklyGuest, &cat.IsLimitedTime,
	)
	return cat, err
}

func (pg *PostgresRepo) ListCategories(ctx context.Context) ([]domain.WordCategory, error) {
	rows, err := pg.pool.Query(ctx,
		`SELECT `+categoryColumns+` FROM word_categories ORDER BY id`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	return collectCategories(rows)
}

// EligibleCategories returns the packs a player may start a game with:
// free packs, the weekly guest pack, and (for authenticated players)
// owned packs. userID may be empty for guests.
func (pg *PostgresRepo) EligibleCategories(ctx context.Context, userID string) ([]domain.WordCategory, error) {
	rows, err := pg.pool.Query(ctx,
		`SELECT DISTINCT ON (wc.id) `+prefixedCategoryColumns("wc")+`
		 FROM word_categories wc
		 LEFT JOIN user_topics ut ON ut.category_id = wc.id AND ut.user_id = NULLIF($1, '')::uuid
		 WHERE wc.is_free OR wc.is_weekly_guest OR ut.user_id IS NOT NULL
		 ORDER BY wc.id`,
		userID)
	if err != nil {
		return nil, wrapDBError(err)
	}
	return collectCategories(rows)
}

func (pg *PostgresRepo) GetCategoryByName(ctx context.Context, name string) (domain.WordCategory, error) {
	row := pg.pool.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM word_categories WHERE name = $1`, name)

	cat, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.WordCategory{}, domain.ErrCategoryNotFound
		}
		return domain.WordCategory{}, wrapDBError(err)
	}
	return cat, nil
}

func collectCategories(rows pgx.Rows) ([]domain.WordCategory, error) {
	defer rows.Close()

	var categories []domain.WordCategory
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, wrapDBError(err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError(err)
	}
	return categories, nil
}

func prefixedCategoryColumns(alias string) string {
	return alias + `.id, ` + alias + `.name, ` + alias + `.words, ` + alias + `.relative_pairs, ` +
		alias + `.price, ` + alias + `.is_free, ` + alias + `.is_daily_offer, ` +
		alias + `.is_weekly_guest, ` + alias + `.is_limited_time`
}
