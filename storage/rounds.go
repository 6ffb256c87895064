package storage

import (
	"context"

	"github.com/MrAsnssr/Fraud/domain"
	"github.com/MrAsnssr/Fraud/game"
)

// Every transition here is a conditional write: the UPDATE matches the
// expected current status (and counters), and zero affected rows means
// another caller won the race. The loser gets ErrPhaseViolation and is
// expected to re-read and no-op.

// StartRound flips LOBBY -> PLAYING_CLUES and writes the words, the
// imposter and all role assignments in one transaction, so a host
// double-tap can never re-roll a running round.
func (pg *PostgresRepo) StartRound(ctx context.Context, code string, start game.RoundStart) error {
	tx, err := pg.pool.Begin(ctx)
	if err != nil {
		return wrapDBError(err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE rooms
		 SET status = $2, selected_topic = $3, civilian_word = $4, imposter_word = $5,
		     imposter_id = $6, round = 1, voting_round = 1
		 WHERE code = $1 AND status = $7`,
		code, domain.StatusPlayingClues, start.Topic, start.CivilianWord, start.ImposterWord,
		start.ImposterID, domain.StatusLobby,
	)
	if err != nil {
		return wrapDBError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPhaseViolation
	}

	for playerID, role := range start.Roles {
		if _, err := tx.Exec(ctx,
			`UPDATE players SET role = $2 WHERE id = $1 AND room_code = $3`,
			playerID, role, code,
		); err != nil {
			return wrapDBError(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return wrapDBError(err)
	}
	return nil
}

// InsertClue stamps the clue with the room's current round inside the
// insert itself, so the round number can never come from a stale client
// snapshot. The (room, player, round) unique constraint catches
// double-tap duplicates that slipped past the precondition read.
func (pg *PostgresRepo) InsertClue(ctx context.Context, code, playerID, content string) error {
	tag, err := pg.pool.Exec(ctx,
		`INSERT INTO clues (room_code, player_id, round, content)
		 SELECT r.code, $2, r.round, $3
		 FROM rooms r WHERE r.code = $1 AND r.status = $4`,
		code, playerID, content, domain.StatusPlayingClues,
	)
	if err != nil {
		return wrapDBError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPhaseViolation
	}
	return nil
}

func (pg *PostgresRepo) ListClues(ctx context.Context, code string, round int) ([]domain.Clue, error) {
	rows, err := pg.pool.Query(ctx,
		`SELECT id, room_code, player_id, round, content, created_at
		 FROM clues WHERE room_code = $1 AND round = $2 ORDER BY created_at, id`,
		code, round)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var clues []domain.Clue
	for rows.Next() {
		var c domain.Clue
		if err := rows.Scan(&c.ID, &c.RoomCode, &c.PlayerID, &c.Round, &c.Content, &c.CreatedAt); err != nil {
			return nil, wrapDBError(err)
		}
		clues = append(clues, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError(err)
	}
	return clues, nil
}

// OpenVoting re-verifies the clue quota inside the same statement that
// flips the status, so a host acting on a stale "all submitted" count
// cannot advance the room early.
func (pg *PostgresRepo) OpenVoting(ctx context.Context, code string) error {
	tag, err := pg.pool.Exec(ctx,
		`UPDATE rooms r SET status = $2
		 WHERE r.code = $1 AND r.status = $3
		   AND (SELECT count(*) FROM clues c WHERE c.room_code = r.code AND c.round = r.round)
		       >= (SELECT count(*) FROM players p WHERE p.room_code = r.code)`,
		code, domain.StatusPlayingVoting, domain.StatusPlayingClues,
	)
	if err != nil {
		return wrapDBError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPhaseViolation
	}
	return nil
}

// RepeatRound opens one more clue round, either straight from the clues
// phase (the host skips voting entirely) or from an open ballot. Both
// counters move: the new clue round starts empty, and bumping the
// voting round orphans any current ballot so it can never be tallied.
// Matching on the caller's observed round makes a double-tap fail
// instead of skipping a round.
func (pg *PostgresRepo) RepeatRound(ctx context.Context, code string, fromRound int) error {
	tag, err := pg.pool.Exec(ctx,
		`UPDATE rooms SET status = $2, round = round + 1, voting_round = voting_round + 1
		 WHERE code = $1 AND status IN ($2, $3) AND round = $4`,
		code, domain.StatusPlayingClues, domain.StatusPlayingVoting, fromRound,
	)
	if err != nil {
		return wrapDBError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPhaseViolation
	}
	return nil
}

func (pg *PostgresRepo) InsertVote(ctx context.Context, code, voterID, targetID string) error {
	tag, err := pg.pool.Exec(ctx,
		`INSERT INTO votes (room_code, voter_id, target_id, voting_round)
		 SELECT r.code, $2, $3, r.voting_round
		 FROM rooms r WHERE r.code = $1 AND r.status = $4`,
		code, voterID, targetID, domain.StatusPlayingVoting,
	)
	if err != nil {
		return wrapDBError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPhaseViolation
	}
	return nil
}

func (pg *PostgresRepo) ListVotes(ctx context.Context, code string, votingRound int) ([]domain.Vote, error) {
	rows, err := pg.pool.Query(ctx,
		`SELECT id, room_code, voter_id, target_id, voting_round, created_at
		 FROM votes WHERE room_code = $1 AND voting_round = $2 ORDER BY created_at, id`,
		code, votingRound)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var votes []domain.Vote
	for rows.Next() {
		var v domain.Vote
		if err := rows.Scan(&v.ID, &v.RoomCode, &v.VoterID, &v.TargetID, &v.VotingRound, &v.CreatedAt); err != nil {
			return nil, wrapDBError(err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError(err)
	}
	return votes, nil
}

// BeginGuess moves PLAYING_VOTING -> PLAYING_GUESS, re-verifying that
// everyone voted in the current voting round.
func (pg *PostgresRepo) BeginGuess(ctx context.Context, code string) error {
	tag, err := pg.pool.Exec(ctx,
		`UPDATE rooms r SET status = $2
		 WHERE r.code = $1 AND r.status = $3
		   AND (SELECT count(*) FROM votes v WHERE v.room_code = r.code AND v.voting_round = r.voting_round)
		       >= (SELECT count(*) FROM players p WHERE p.room_code = r.code)`,
		code, domain.StatusPlayingGuess, domain.StatusPlayingVoting,
	)
	if err != nil {
		return wrapDBError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPhaseViolation
	}
	return nil
}

// Revote handles a tied tally: the voting round counter moves on, the
// status stays PLAYING_VOTING, and the previous round's votes are left
// behind where no future tally will read them.
func (pg *PostgresRepo) Revote(ctx context.Context, code string, fromVotingRound int) error {
	tag, err := pg.pool.Exec(ctx,
		`UPDATE rooms SET voting_round = voting_round + 1
		 WHERE code = $1 AND status = $2 AND voting_round = $3`,
		code, domain.StatusPlayingVoting, fromVotingRound,
	)
	if err != nil {
		return wrapDBError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPhaseViolation
	}
	return nil
}

// FinishRoom is the settlement gate. The credit/win award runs in the
// same transaction as the single FINISHED flip, so of two racing
// callers exactly one settles and the other mutates nothing.
func (pg *PostgresRepo) FinishRoom(ctx context.Context, code string, from domain.RoomStatus, winner domain.Role, winnerProfileIDs []string, credits int) error {
	tx, err := pg.pool.Begin(ctx)
	if err != nil {
		return wrapDBError(err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE rooms SET status = $2, winner_role = $3
		 WHERE code = $1 AND status = $4`,
		code, domain.StatusFinished, winner, from,
	)
	if err != nil {
		return wrapDBError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPhaseViolation
	}

	if len(winnerProfileIDs) > 0 {
		if _, err := tx.Exec(ctx,
			`UPDATE profiles SET credits = credits + $2, wins = wins + 1
			 WHERE id = ANY($1::uuid[])`,
			winnerProfileIDs, credits,
		); err != nil {
			return wrapDBError(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return wrapDBError(err)
	}
	return nil
}
