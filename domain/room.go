package domain

import "time"

// RoomStatus is the lifecycle phase of a room. Stored as text so the
// database rows stay readable.
type RoomStatus string

const (
	StatusLobby         RoomStatus = "LOBBY"
	StatusPlayingClues  RoomStatus = "PLAYING_CLUES"
	StatusPlayingVoting RoomStatus = "PLAYING_VOTING"
	StatusPlayingGuess  RoomStatus = "PLAYING_GUESS"
	StatusFinished      RoomStatus = "FINISHED"
)

func (s RoomStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether the lifecycle graph allows moving from
// s to target. PLAYING_VOTING -> PLAYING_VOTING covers the re-vote on a
// tied tally (the voting round counter moves, the status does not).
func (s RoomStatus) CanTransitionTo(target RoomStatus) bool {
	allowed := map[RoomStatus][]RoomStatus{
		StatusLobby:         {StatusPlayingClues},
		StatusPlayingClues:  {StatusPlayingClues, StatusPlayingVoting},
		StatusPlayingVoting: {StatusPlayingClues, StatusPlayingVoting, StatusPlayingGuess, StatusFinished},
		StatusPlayingGuess:  {StatusFinished},
		StatusFinished:      {},
	}

	for _, next := range allowed[s] {
		if next == target {
			return true
		}
	}
	return false
}

// GameMode selects the word-pairing strategy at round start.
type GameMode string

const (
	ModeRelative GameMode = "relative"
	ModeRandom   GameMode = "random"
)

func (m GameMode) Valid() bool {
	return m == ModeRelative || m == ModeRandom
}

type Role string

const (
	RoleCivilian Role = "CIVILIAN"
	RoleImposter Role = "IMPOSTER"
)

// Room is one game session, keyed by a short human-enterable code
// (canonical uppercase). Words and the imposter id are set exactly once
// at round start and revealed to clients only after FINISHED.
type Room struct {
	Code          string
	Status        RoomStatus
	GameMode      GameMode
	SelectedTopic string
	CivilianWord  string
	ImposterWord  string
	ImposterID    string
	Round         int
	VotingRound   int
	AllowSelfVote bool
	WinnerRole    Role
	CreatedAt     time.Time
}
