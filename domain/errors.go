package domain

import "errors"

// Game failure taxonomy. Every state-violating call fails with one of
// these before any write happens; losing a conditional-write race
// surfaces as ErrPhaseViolation too, since the room has already moved on.
var (
	ErrPhaseViolation      = errors.New("phase-violation")
	ErrInsufficientPlayers = errors.New("insufficient-players")
	ErrInsufficientWords   = errors.New("insufficient-words")
	ErrConstraintViolation = errors.New("constraint-violation")
	ErrEmptyClue           = errors.New("empty-clue")
	ErrNotAuthorized       = errors.New("not-authorized")
	ErrSelfVoteNotAllowed  = errors.New("self-vote-not-allowed")
	ErrInvalidGameMode     = errors.New("invalid-game-mode")

	// ErrCollaboratorUnavailable wraps persistence/network failures. It
	// does NOT mean "no state change happened"; callers must treat
	// retries as at-least-once and rely on the conditional-update guards.
	ErrCollaboratorUnavailable = errors.New("collaborator-unavailable")
)

var (
	ErrRoomNotFound     = errors.New("room-not-found")
	ErrPlayerNotFound   = errors.New("player-not-found")
	ErrCategoryNotFound = errors.New("category-not-found")
	ErrProfileNotFound  = errors.New("profile-not-found")
)

var (
	ErrUserNotFound      = errors.New("user-not-found")
	ErrDuplicateUsername = errors.New("duplicate-username")
	ErrDuplicateEmail    = errors.New("duplicate-email")
	ErrRewardNotReady    = errors.New("reward-not-ready")
)

var (
	UnexpectedDatabaseError               = errors.New("unexpected-database-error")
	UnexpectedPasswordHashComparisonError = errors.New("unexpected-password-hash-comparison-error")
	UnexpectedTokenGenerationError        = errors.New("unexpected-token-generation-error")
	UnexpectedTokenVerificationError      = errors.New("unexpected-token-verification-error")
)

var (
	ErrInvalidSigningAlg     = errors.New("invalid-signing-alg")
	ErrExpiredToken          = errors.New("expired-token")
	ErrInvalidTokenSignature = errors.New("invalid-token-signature")
	ErrCorruptedToken        = errors.New("corrupted-token")
)
