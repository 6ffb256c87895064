package game

import (
	"context"

	"github.com/MrAsnssr/Fraud/domain"
)

// RoundStart is everything the LOBBY -> PLAYING_CLUES transition writes
// in one transaction: the word pair, the imposter and every role.
type RoundStart struct {
	Topic        string
	CivilianWord string
	ImposterWord string
	ImposterID   string
	Roles        map[string]domain.Role
}

// GameStore is the persistence contract the state machine runs on. The
// transition methods are conditional writes: they return
// domain.ErrPhaseViolation when the expected current state no longer
// matches, and must not mutate anything in that case.
type GameStore interface {
	CreateRoom(ctx context.Context, room domain.Room) error
	GetRoom(ctx context.Context, code string) (domain.Room, error)
	AddPlayer(ctx context.Context, player domain.Player) error
	ListPlayers(ctx context.Context, code string) ([]domain.Player, error)

	StartRound(ctx context.Context, code string, start RoundStart) error
	InsertClue(ctx context.Context, code, playerID, content string) error
	ListClues(ctx context.Context, code string, round int) ([]domain.Clue, error)
	OpenVoting(ctx context.Context, code string) error
	RepeatRound(ctx context.Context, code string, fromRound int) error
	InsertVote(ctx context.Context, code, voterID, targetID string) error
	ListVotes(ctx context.Context, code string, votingRound int) ([]domain.Vote, error)
	BeginGuess(ctx context.Context, code string) error
	Revote(ctx context.Context, code string, fromVotingRound int) error
	FinishRoom(ctx context.Context, code string, from domain.RoomStatus, winner domain.Role, winnerProfileIDs []string, credits int) error
}

// WordSource serves the word catalog.
type WordSource interface {
	ListCategories(ctx context.Context) ([]domain.WordCategory, error)
	EligibleCategories(ctx context.Context, userID string) ([]domain.WordCategory, error)
	GetCategoryByName(ctx context.Context, name string) (domain.WordCategory, error)
}

// RoomCodeGenerator hands out unique short room codes and reclaims them.
type RoomCodeGenerator interface {
	Generate() string
	Dispose(code string)
}

// RoomFeed delivers wakeups for a room; every wakeup means "re-read the
// snapshot", nothing more.
type RoomFeed interface {
	Subscribe(roomCode string) (<-chan struct{}, func())
}
