package game

import (
	"context"
	"sort"

	"github.com/MrAsnssr/Fraud/domain"
)

// Snapshot is the full room view a client renders from. It is rebuilt
// from storage on every read; the feed only tells clients when to
// re-read, never what changed.
type Snapshot struct {
	Code          string           `json:"code"`
	Status        string           `json:"status"`
	GameMode      string           `json:"game_mode"`
	Topic         string           `json:"topic,omitempty"`
	Round         int              `json:"round"`
	VotingRound   int              `json:"voting_round"`
	AllowSelfVote bool             `json:"allow_self_vote"`
	Players       []PlayerView     `json:"players"`
	Clues         []ClueView       `json:"clues"`
	VotesCast     int              `json:"votes_cast"`
	You           YouView          `json:"you"`
	Reveal        *RevealView      `json:"reveal,omitempty"`
}

type PlayerView struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	IsHost   bool   `json:"is_host"`
}

type ClueView struct {
	PlayerID string `json:"player_id"`
	Content  string `json:"content"`
}

// YouView is the only place a player's own secret appears before the
// room finishes. SubmittedClue and Voted let clients render waiting
// states without guessing from counts.
type YouView struct {
	PlayerID      string `json:"player_id"`
	Role          string `json:"role,omitempty"`
	Word          string `json:"word,omitempty"`
	SubmittedClue bool   `json:"submitted_clue"`
	Voted         bool   `json:"voted"`

	// GuessOptions is the imposter's guess grid, filled only in
	// PLAYING_GUESS and only for the imposter.
	GuessOptions []string `json:"guess_options,omitempty"`
}

// RevealView is attached once the room is FINISHED.
type RevealView struct {
	WinnerRole   string `json:"winner_role"`
	ImposterID   string `json:"imposter_id"`
	CivilianWord string `json:"civilian_word"`
	ImposterWord string `json:"imposter_word"`
}

// Snapshot builds the caller's view of a room. The word pair and the
// imposter's identity stay server-side until FINISHED; each player sees
// only their own word while the round runs.
func (s *Service) Snapshot(ctx context.Context, code, playerID string) (Snapshot, error) {
	code = CanonicalCode(code)
	room, players, caller, err := s.roomAndCaller(ctx, code, playerID)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		Code:          room.Code,
		Status:        room.Status.String(),
		GameMode:      string(room.GameMode),
		Topic:         room.SelectedTopic,
		Round:         room.Round,
		VotingRound:   room.VotingRound,
		AllowSelfVote: room.AllowSelfVote,
		Players:       make([]PlayerView, 0, len(players)),
		Clues:         []ClueView{},
		You:           YouView{PlayerID: caller.ID},
	}
	for _, p := range players {
		snap.Players = append(snap.Players, PlayerView{ID: p.ID, Nickname: p.Nickname, IsHost: p.IsHost})
	}

	if room.Status != domain.StatusLobby {
		snap.You.Role = string(caller.Role)
		if caller.Role == domain.RoleImposter {
			snap.You.Word = room.ImposterWord
		} else {
			snap.You.Word = room.CivilianWord
		}

		clues, err := s.store.ListClues(ctx, code, room.Round)
		if err != nil {
			return Snapshot{}, err
		}
		for _, c := range clues {
			snap.Clues = append(snap.Clues, ClueView{PlayerID: c.PlayerID, Content: c.Content})
			if c.PlayerID == caller.ID {
				snap.You.SubmittedClue = true
			}
		}

		votes, err := s.store.ListVotes(ctx, code, room.VotingRound)
		if err != nil {
			return Snapshot{}, err
		}
		snap.VotesCast = len(votes)
		for _, v := range votes {
			if v.VoterID == caller.ID {
				snap.You.Voted = true
			}
		}

		if room.Status == domain.StatusPlayingGuess && caller.ID == room.ImposterID {
			category, err := s.words.GetCategoryByName(ctx, room.SelectedTopic)
			if err != nil {
				return Snapshot{}, err
			}
			// The live pair is always in the grid so a pairs-only
			// category still renders options; sorting hides which
			// entries were appended.
			options := dedupeWords(append(category.Words, room.CivilianWord, room.ImposterWord))
			sort.Strings(options)
			snap.You.GuessOptions = options
		}
	}

	if room.Status == domain.StatusFinished {
		snap.Reveal = &RevealView{
			WinnerRole:   string(room.WinnerRole),
			ImposterID:   room.ImposterID,
			CivilianWord: room.CivilianWord,
			ImposterWord: room.ImposterWord,
		}
	}
	return snap, nil
}
