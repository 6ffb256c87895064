package domain

import "time"

// Player is bound to a single room. Role stays empty until round start
// and is never mutated afterwards. UserID links to a persistent profile
// and is empty for anonymous guests.
type Player struct {
	ID        string
	RoomCode  string
	Nickname  string
	IsHost    bool
	Role      Role
	UserID    string
	CreatedAt time.Time
}

// Clue is an append-only per-round submission. Round is an explicit
// attribute of the row, not derived from submission counts.
type Clue struct {
	ID        string
	RoomCode  string
	PlayerID  string
	Round     int
	Content   string
	CreatedAt time.Time
}

// Vote carries the voting round it was cast in, so a re-vote after a
// tie starts from an empty set and stale votes never reach a new tally.
type Vote struct {
	ID          string
	RoomCode    string
	VoterID     string
	TargetID    string
	VotingRound int
	CreatedAt   time.Time
}
