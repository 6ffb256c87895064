package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrAsnssr/Fraud/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// "23505" is the PostgreSQL error code for unique_violation
const pgUniqueViolation = "23505"

type PostgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRepo(ctx context.Context, connString string) (*PostgresRepo, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	return &PostgresRepo{pool: pool}, nil
}

func (pg *PostgresRepo) Close() {
	pg.pool.Close()
}

// wrapDBError maps driver failures onto the domain taxonomy. Context
// errors pass through untouched so callers can tell timeouts apart.
func wrapDBError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return domain.ErrConstraintViolation
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return fmt.Errorf("%w: %w", domain.ErrCollaboratorUnavailable, err)
}

const roomColumns = `code, status, game_mode,
	COALESCE(selected_topic, ''), COALESCE(civilian_word, ''), COALESCE(imposter_word, ''),
	COALESCE(imposter_id::text, ''), round, voting_round, allow_self_vote,
	COALESCE(winner_role, ''), created_at`

func scanRoom(row pgx.Row) (domain.Room, error) {
	var room domain.Room
	err := row.Scan(
		&room.Code, &room.Status, &room.GameMode,
		&room.SelectedTopic, &room.CivilianWord, &room.ImposterWord,
		&room.ImposterID, &room.Round, &room.VotingRound, &room.AllowSelfVote,
		&room.WinnerRole, &room.CreatedAt,
	)
	return room, err
}

func (pg *PostgresRepo) CreateRoom(ctx context.Context, room domain.Room) error {
	_, err := pg.pool.Exec(ctx,
		`INSERT INTO rooms (code, status, game_mode, selected_topic, allow_self_vote)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5)`,
		room.Code, domain.StatusLobby, room.GameMode, room.SelectedTopic, room.AllowSelfVote,
	)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (pg *PostgresRepo) GetRoom(ctx context.Context, code string) (domain.Room, error) {
	row := pg.pool.QueryRow(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE code = $1`, code)

	room, err := scanRoom(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Room{}, domain.ErrRoomNotFound
		}
		return domain.Room{}, wrapDBError(err)
	}
	return room, nil
}

// AddPlayer inserts the player only while the room is still in LOBBY.
// The phase check and the insert are one statement, so a racing round
// start cannot let a player slip into a running game.
func (pg *PostgresRepo) AddPlayer(ctx context.Context, player domain.Player) error {
	tag, err := pg.pool.Exec(ctx,
		`INSERT INTO players (id, room_code, nickname, is_host, user_id)
		 SELECT $1, r.code, $3, $4, NULLIF($5, '')::uuid
		 FROM rooms r WHERE r.code = $2 AND r.status = $6`,
		player.ID, player.RoomCode, player.Nickname, player.IsHost, player.UserID, domain.StatusLobby,
	)
	if err != nil {
		return wrapDBError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPhaseViolation
	}
	return nil
}

func (pg *PostgresRepo) ListPlayers(ctx context.Context, code string) ([]domain.Player, error) {
	rows, err := pg.pool.Query(ctx,
		`SELECT id, room_code, nickname, is_host, COALESCE(role, ''), COALESCE(user_id::text, ''), created_at
		 FROM players WHERE room_code = $1 ORDER BY created_at, id`, code)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		var p domain.Player
		if err := rows.Scan(&p.ID, &p.RoomCode, &p.Nickname, &p.IsHost, &p.Role, &p.UserID, &p.CreatedAt); err != nil {
			return nil, wrapDBError(err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError(err)
	}
	return players, nil
}

