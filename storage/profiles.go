package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrAsnssr/Fraud/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func (pg *PostgresRepo) CreateUser(ctx context.Context, username, email, passwordHash string) (string, error) {
	row := pg.pool.QueryRow(ctx,
		`INSERT INTO profiles (username, email, password_hash) VALUES ($1, NULLIF($2, ''), $3) RETURNING id`,
		username, email, passwordHash)

	var id string
	err := row.Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			if pgErr.ConstraintName == "profiles_email_key" {
				return "", domain.ErrDuplicateEmail
			}
			return "", domain.ErrDuplicateUsername
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}

		return "", fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}

	return id, nil
}

func (pg *PostgresRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	user := domain.User{Username: username}

	row := pg.pool.QueryRow(ctx, `SELECT id, password_hash FROM profiles WHERE username = $1`, username)

	err := row.Scan(&user.Id, &user.PasswordHash)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return domain.User{}, domain.ErrUserNotFound
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return domain.User{}, err
		default:
			return domain.User{}, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
		}
	}

	return user, nil
}

func (pg *PostgresRepo) GetUserById(ctx context.Context, id string) (domain.User, error) {
	user := domain.User{Id: id}

	row := pg.pool.QueryRow(ctx, `SELECT username, password_hash FROM profiles WHERE id = $1`, id)

	err := row.Scan(&user.Username, &user.PasswordHash)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return domain.User{}, domain.ErrUserNotFound
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return domain.User{}, err
		default:
			return domain.User{}, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
		}
	}

	return user, nil
}

const profileColumns = `id, username, COALESCE(email, ''), credits, wins, last_reward_claim`

func scanProfile(row pgx.Row) (domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(&p.Id, &p.Username, &p.Email, &p.Credits, &p.Wins, &p.LastRewardClaim)
	return p, err
}

func (pg *PostgresRepo) GetProfile(ctx context.Context, id string) (domain.Profile, error) {
	row := pg.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)

	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, domain.ErrProfileNotFound
		}
		return domain.Profile{}, wrapDBError(err)
	}
	return p, nil
}

func (pg *PostgresRepo) GetProfileByEmail(ctx context.Context, email string) (domain.Profile, error) {
	row := pg.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE email = $1`, email)

	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, domain.ErrProfileNotFound
		}
		return domain.Profile{}, wrapDBError(err)
	}
	return p, nil
}

// AddCredits is a plain atomic increment, used by the payment webhook.
func (pg *PostgresRepo) AddCredits(ctx context.Context, profileID string, amount int64) error {
	tag, err := pg.pool.Exec(ctx,
		`UPDATE profiles SET credits = credits + $2 WHERE id = $1`, profileID, amount)
	if err != nil {
		return wrapDBError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

// ClaimDailyReward grants the reward at most once per 24h. The time
// gate lives in the WHERE clause, so two concurrent claims cannot both
// pass a stale read of last_reward_claim.
func (pg *PostgresRepo) ClaimDailyReward(ctx context.Context, profileID string, amount int64, now time.Time) error {
	tag, err := pg.pool.Exec(ctx,
		`UPDATE profiles SET credits = credits + $2, last_reward_claim = $3
		 WHERE id = $1 AND (last_reward_claim IS NULL OR last_reward_claim <= $3 - interval '24 hours')`,
		profileID, amount, now)
	if err != nil {
		return wrapDBError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRewardNotReady
	}
	return nil
}

func (pg *PostgresRepo) Leaderboard(ctx context.Context, limit int) ([]domain.Profile, error) {
	rows, err := pg.pool.Query(ctx,
		`SELECT `+profileColumns+` FROM profiles ORDER BY wins DESC, credits DESC, username LIMIT $1`, limit)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, wrapDBError(err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError(err)
	}
	return profiles, nil
}
