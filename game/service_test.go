package game

import (
	"context"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MrAsnssr/Fraud/domain"
)

const (
	hostID = "11111111-1111-1111-1111-111111111111"
	p2ID   = "22222222-2222-2222-2222-222222222222"
	p3ID   = "33333333-3333-3333-3333-333333333333"
)

type serviceFixture struct {
	store *MockGameStore
	words *MockWordSource
	codes *MockCodeGenerator
	feed  *MockRoomFeed
	svc   *Service
}

func newServiceFixture(t *testing.T, seed int64) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		store: &MockGameStore{},
		words: &MockWordSource{},
		codes: &MockCodeGenerator{},
		feed:  &MockRoomFeed{},
	}
	f.svc = NewService(f.store, f.words, f.codes, f.feed, rand.New(rand.NewSource(seed)), zerolog.Nop())
	return f
}

func threePlayers(code string) []domain.Player {
	return []domain.Player{
		{ID: hostID, RoomCode: code, Nickname: "amira", IsHost: true, UserID: "u-host"},
		{ID: p2ID, RoomCode: code, Nickname: "badr", UserID: "u-p2"},
		{ID: p3ID, RoomCode: code, Nickname: "celine"},
	}
}

func (f *serviceFixture) expectRoom(room domain.Room, players []domain.Player) {
	f.store.On("GetRoom", mock.Anything, room.Code).Return(room, nil)
	f.store.On("ListPlayers", mock.Anything, room.Code).Return(players, nil)
}

// --- CreateRoom ---

func TestCreateRoomSeatsHost(t *testing.T) {
	f := newServiceFixture(t, 1)
	f.codes.On("Generate").Return("ABCD").Once()
	f.store.On("CreateRoom", mock.Anything, mock.MatchedBy(func(r domain.Room) bool {
		return r.Code == "ABCD" && r.Status == domain.StatusLobby && r.GameMode == domain.ModeRandom
	})).Return(nil)
	f.store.On("AddPlayer", mock.Anything, mock.MatchedBy(func(p domain.Player) bool {
		return p.RoomCode == "ABCD" && p.IsHost && p.Nickname == "amira" && p.UserID == "u-host" && p.ID != ""
	})).Return(nil)

	room, host, err := f.svc.CreateRoom(context.Background(), CreateRoomParams{
		Nickname: "amira",
		GameMode: domain.ModeRandom,
		UserID:   "u-host",
	})

	require.NoError(t, err)
	assert.Equal(t, "ABCD", room.Code)
	assert.True(t, host.IsHost)
	f.store.AssertExpectations(t)
}

func TestCreateRoomRetriesOnCodeCollision(t *testing.T) {
	f := newServiceFixture(t, 1)
	f.codes.On("Generate").Return("AAAA").Once()
	f.codes.On("Generate").Return("BBBB").Once()
	f.codes.On("Dispose", "AAAA").Once()
	f.store.On("CreateRoom", mock.Anything, mock.MatchedBy(func(r domain.Room) bool { return r.Code == "AAAA" })).
		Return(domain.ErrConstraintViolation).Once()
	f.store.On("CreateRoom", mock.Anything, mock.MatchedBy(func(r domain.Room) bool { return r.Code == "BBBB" })).
		Return(nil).Once()
	f.store.On("AddPlayer", mock.Anything, mock.Anything).Return(nil)

	room, _, err := f.svc.CreateRoom(context.Background(), CreateRoomParams{Nickname: "amira", GameMode: domain.ModeRandom})

	require.NoError(t, err)
	assert.Equal(t, "BBBB", room.Code)
	f.codes.AssertExpectations(t)
}

func TestCreateRoomRejectsUnknownMode(t *testing.T) {
	f := newServiceFixture(t, 1)

	_, _, err := f.svc.CreateRoom(context.Background(), CreateRoomParams{Nickname: "amira", GameMode: "chaos"})

	assert.ErrorIs(t, err, domain.ErrInvalidGameMode)
	f.store.AssertNotCalled(t, "CreateRoom", mock.Anything, mock.Anything)
}

func TestCreateRoomRejectsUnplayableTopic(t *testing.T) {
	f := newServiceFixture(t, 1)
	f.words.On("GetCategoryByName", mock.Anything, "Drinks").
		Return(domain.WordCategory{Name: "Drinks", Words: []string{"Coffee"}}, nil)

	_, _, err := f.svc.CreateRoom(context.Background(), CreateRoomParams{
		Nickname: "amira",
		GameMode: domain.ModeRandom,
		Topic:    "Drinks",
	})

	assert.ErrorIs(t, err, domain.ErrInsufficientWords)
}

func TestCreateRoomAcceptsWordsOnlyTopicForRelativeMode(t *testing.T) {
	f := newServiceFixture(t, 1)
	f.codes.On("Generate").Return("ABCD").Once()
	f.words.On("GetCategoryByName", mock.Anything, "Animals").
		Return(domain.WordCategory{Name: "Animals", Words: []string{"Dog", "Cat", "Bird"}}, nil)
	f.store.On("CreateRoom", mock.Anything, mock.Anything).Return(nil)
	f.store.On("AddPlayer", mock.Anything, mock.Anything).Return(nil)

	_, _, err := f.svc.CreateRoom(context.Background(), CreateRoomParams{
		Nickname: "amira",
		GameMode: domain.ModeRelative,
		Topic:    "Animals",
	})

	require.NoError(t, err)
}

// --- JoinRoom ---

func TestJoinRoomCanonicalizesCode(t *testing.T) {
	f := newServiceFixture(t, 1)
	f.store.On("GetRoom", mock.Anything, "ABCD").Return(domain.Room{Code: "ABCD", Status: domain.StatusLobby}, nil)
	f.store.On("AddPlayer", mock.Anything, mock.MatchedBy(func(p domain.Player) bool {
		return p.RoomCode == "ABCD" && !p.IsHost
	})).Return(nil)

	player, err := f.svc.JoinRoom(context.Background(), " abcd ", "badr", "")

	require.NoError(t, err)
	assert.Equal(t, "ABCD", player.RoomCode)
	f.store.AssertExpectations(t)
}

func TestJoinRoomUnknownCode(t *testing.T) {
	f := newServiceFixture(t, 1)
	f.store.On("GetRoom", mock.Anything, "ZZZZ").Return(domain.Room{}, domain.ErrRoomNotFound)

	_, err := f.svc.JoinRoom(context.Background(), "zzzz", "badr", "")

	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

// --- StartRound ---

func TestStartRoundDealsOneImposter(t *testing.T) {
	f := newServiceFixture(t, 7)
	room := domain.Room{Code: "ABCD", Status: domain.StatusLobby, GameMode: domain.ModeRelative, SelectedTopic: "Drinks"}
	f.expectRoom(room, threePlayers("ABCD"))
	f.words.On("GetCategoryByName", mock.Anything, "Drinks").
		Return(domain.WordCategory{Name: "Drinks", RelativePairs: [][2]string{{"Coffee", "Tea"}}}, nil)
	f.store.On("StartRound", mock.Anything, "ABCD", mock.MatchedBy(func(start RoundStart) bool {
		if start.Topic != "Drinks" || start.CivilianWord == start.ImposterWord {
			return false
		}
		imposters := 0
		for id, role := range start.Roles {
			if role == domain.RoleImposter {
				imposters++
				if id != start.ImposterID {
					return false
				}
			}
		}
		return imposters == 1 && len(start.Roles) == 3
	})).Return(nil)

	err := f.svc.StartRound(context.Background(), "abcd", hostID)

	require.NoError(t, err)
	f.store.AssertExpectations(t)
}

func TestStartRoundHostOnly(t *testing.T) {
	f := newServiceFixture(t, 1)
	room := domain.Room{Code: "ABCD", Status: domain.StatusLobby, GameMode: domain.ModeRandom}
	f.expectRoom(room, threePlayers("ABCD"))

	err := f.svc.StartRound(context.Background(), "ABCD", p2ID)

	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	f.store.AssertNotCalled(t, "StartRound", mock.Anything, mock.Anything, mock.Anything)
}

func TestStartRoundNeedsThreePlayers(t *testing.T) {
	f := newServiceFixture(t, 1)
	room := domain.Room{Code: "ABCD", Status: domain.StatusLobby, GameMode: domain.ModeRandom}
	f.expectRoom(room, threePlayers("ABCD")[:2])

	err := f.svc.StartRound(context.Background(), "ABCD", hostID)

	assert.ErrorIs(t, err, domain.ErrInsufficientPlayers)
}

func TestStartRoundFallsBackWhenTopicVanished(t *testing.T) {
	f := newServiceFixture(t, 1)
	room := domain.Room{Code: "ABCD", Status: domain.StatusLobby, GameMode: domain.ModeRandom, SelectedTopic: "Ghost"}
	f.expectRoom(room, threePlayers("ABCD"))
	f.words.On("GetCategoryByName", mock.Anything, "Ghost").
		Return(domain.WordCategory{}, domain.ErrCategoryNotFound)
	f.words.On("ListCategories", mock.Anything).
		Return([]domain.WordCategory{{Name: "Animals", Words: []string{"Dog", "Cat", "Bird"}}}, nil)
	f.store.On("StartRound", mock.Anything, "ABCD", mock.MatchedBy(func(start RoundStart) bool {
		return start.Topic == "Animals"
	})).Return(nil)

	err := f.svc.StartRound(context.Background(), "ABCD", hostID)

	require.NoError(t, err)
	f.store.AssertExpectations(t)
}

func TestStartRoundLosesRaceToStore(t *testing.T) {
	f := newServiceFixture(t, 1)
	room := domain.Room{Code: "ABCD", Status: domain.StatusLobby, GameMode: domain.ModeRandom}
	f.expectRoom(room, threePlayers("ABCD"))
	f.words.On("ListCategories", mock.Anything).
		Return([]domain.WordCategory{{Name: "Animals", Words: []string{"Dog", "Cat", "Bird"}}}, nil)
	f.store.On("StartRound", mock.Anything, "ABCD", mock.Anything).Return(domain.ErrPhaseViolation)

	err := f.svc.StartRound(context.Background(), "ABCD", hostID)

	assert.ErrorIs(t, err, domain.ErrPhaseViolation)
}

// --- Clues ---

func TestSubmitClueRejectsBlank(t *testing.T) {
	f := newServiceFixture(t, 1)

	err := f.svc.SubmitClue(context.Background(), "ABCD", hostID, "   ")

	assert.ErrorIs(t, err, domain.ErrEmptyClue)
	f.store.AssertNotCalled(t, "InsertClue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitClueRequiresSeat(t *testing.T) {
	f := newServiceFixture(t, 1)
	room := domain.Room{Code: "ABCD", Status: domain.StatusPlayingClues}
	f.expectRoom(room, threePlayers("ABCD"))

	err := f.svc.SubmitClue(context.Background(), "ABCD", "99999999-9999-9999-9999-999999999999", "sweet")

	assert.ErrorIs(t, err, domain.ErrPlayerNotFound)
}

func TestSubmitClueTrims(t *testing.T) {
	f := newServiceFixture(t, 1)
	room := domain.Room{Code: "ABCD", Status: domain.StatusPlayingClues, Round: 1}
	f.expectRoom(room, threePlayers("ABCD"))
	f.store.On("InsertClue", mock.Anything, "ABCD", p2ID, "sweet").Return(nil)

	err := f.svc.SubmitClue(context.Background(), "abcd", p2ID, "  sweet ")

	require.NoError(t, err)
	f.store.AssertExpectations(t)
}

// --- Votes ---

func TestCastVoteSelfVoteNeedsOptIn(t *testing.T) {
	f := newServiceFixture(t, 1)
	room := domain.Room{Code: "ABCD", Status: domain.StatusPlayingVoting}
	f.expectRoom(room, threePlayers("ABCD"))

	err := f.svc.CastVote(context.Background(), "ABCD", p2ID, p2ID)

	assert.ErrorIs(t, err, domain.ErrSelfVoteNotAllowed)
}

func TestCastVoteSelfVoteAllowedByFlag(t *testing.T) {
	f := newServiceFixture(t, 1)
	room := domain.Room{Code: "ABCD", Status: domain.StatusPlayingVoting, AllowSelfVote: true}
	f.expectRoom(room, threePlayers("ABCD"))
	f.store.On("InsertVote", mock.Anything, "ABCD", p2ID, p2ID).Return(nil)

	err := f.svc.CastVote(context.Background(), "ABCD", p2ID, p2ID)

	require.NoError(t, err)
}

func TestCastVoteTargetMustBeSeated(t *testing.T) {
	f := newServiceFixture(t, 1)
	room := domain.Room{Code: "ABCD", Status: domain.StatusPlayingVoting}
	f.expectRoom(room, threePlayers("ABCD"))

	err := f.svc.CastVote(context.Background(), "ABCD", p2ID, "99999999-9999-9999-9999-999999999999")

	assert.ErrorIs(t, err, domain.ErrPlayerNotFound)
}

// --- Advance / repeat ---

func TestRepeatRoundFromCluesPhase(t *testing.T) {
	f := newServiceFixture(t, 1)
	room := domain.Room{Code: "ABCD", Status: domain.StatusPlayingClues, GameMode: domain.ModeRandom, Round: 2}
	f.expectRoom(room, threePlayers("ABCD"))
	f.store.On("RepeatRound", mock.Anything, "ABCD", 2).Return(nil)

	err := f.svc.RepeatRound(context.Background(), "ABCD", hostID)

	require.NoError(t, err)
	f.store.AssertExpectations(t)
}

func TestRepeatRoundFromOpenBallot(t *testing.T) {
	f := newServiceFixture(t, 1)
	f.expectRoom(votingRoom("ABCD", p3ID), threePlayers("ABCD"))
	f.store.On("RepeatRound", mock.Anything, "ABCD", 1).Return(nil)

	err := f.svc.RepeatRound(context.Background(), "ABCD", hostID)

	require.NoError(t, err)
	f.store.AssertExpectations(t)
}

func TestRepeatRoundRejectsFinishedRoom(t *testing.T) {
	f := newServiceFixture(t, 1)
	room := domain.Room{Code: "ABCD", Status: domain.StatusFinished, GameMode: domain.ModeRandom, Round: 2}
	f.expectRoom(room, threePlayers("ABCD"))

	err := f.svc.RepeatRound(context.Background(), "ABCD", hostID)

	assert.ErrorIs(t, err, domain.ErrPhaseViolation)
	f.store.AssertNotCalled(t, "RepeatRound", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdvanceToVotingRejectsLobby(t *testing.T) {
	f := newServiceFixture(t, 1)
	room := domain.Room{Code: "ABCD", Status: domain.StatusLobby, GameMode: domain.ModeRandom}
	f.expectRoom(room, threePlayers("ABCD"))

	err := f.svc.AdvanceToVoting(context.Background(), "ABCD", hostID)

	assert.ErrorIs(t, err, domain.ErrPhaseViolation)
	f.store.AssertNotCalled(t, "OpenVoting", mock.Anything, mock.Anything)
}

// --- Tally ---

func votingRoom(code string, imposterID string) domain.Room {
	return domain.Room{
		Code:         code,
		Status:       domain.StatusPlayingVoting,
		GameMode:     domain.ModeRandom,
		CivilianWord: "Dog",
		ImposterWord: "Cat",
		ImposterID:   imposterID,
		Round:        1,
		VotingRound:  1,
	}
}

func TestTallyVotesTieOpensRevote(t *testing.T) {
	f := newServiceFixture(t, 1)
	f.expectRoom(votingRoom("ABCD", p3ID), threePlayers("ABCD"))
	f.store.On("ListVotes", mock.Anything, "ABCD", 1).Return([]domain.Vote{
		{VoterID: hostID, TargetID: p2ID, VotingRound: 1},
		{VoterID: p2ID, TargetID: hostID, VotingRound: 1},
		{VoterID: p3ID, TargetID: p2ID, VotingRound: 1},
		{VoterID: "x", TargetID: hostID, VotingRound: 1},
	}, nil)
	f.store.On("Revote", mock.Anything, "ABCD", 1).Return(nil)

	result, err := f.svc.TallyVotes(context.Background(), "ABCD", hostID)

	require.NoError(t, err)
	assert.True(t, result.Tied)
	f.store.AssertNotCalled(t, "FinishRoom", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.store.AssertNotCalled(t, "BeginGuess", mock.Anything, mock.Anything)
}

func TestTallyVotesImposterOutOpensGuess(t *testing.T) {
	f := newServiceFixture(t, 1)
	f.expectRoom(votingRoom("ABCD", p3ID), threePlayers("ABCD"))
	f.store.On("ListVotes", mock.Anything, "ABCD", 1).Return([]domain.Vote{
		{VoterID: hostID, TargetID: p3ID, VotingRound: 1},
		{VoterID: p2ID, TargetID: p3ID, VotingRound: 1},
		{VoterID: p3ID, TargetID: hostID, VotingRound: 1},
	}, nil)
	f.store.On("BeginGuess", mock.Anything, "ABCD").Return(nil)

	result, err := f.svc.TallyVotes(context.Background(), "ABCD", hostID)

	require.NoError(t, err)
	assert.Equal(t, p3ID, result.Eliminated)
	f.store.AssertNotCalled(t, "FinishRoom", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTallyVotesCivilianOutSettlesImposterWin(t *testing.T) {
	f := newServiceFixture(t, 1)
	// p2 is the imposter and carries a profile; a civilian gets voted out.
	f.expectRoom(votingRoom("ABCD", p2ID), threePlayers("ABCD"))
	f.store.On("ListVotes", mock.Anything, "ABCD", 1).Return([]domain.Vote{
		{VoterID: hostID, TargetID: p3ID, VotingRound: 1},
		{VoterID: p2ID, TargetID: p3ID, VotingRound: 1},
		{VoterID: p3ID, TargetID: p2ID, VotingRound: 1},
	}, nil)
	f.store.On("FinishRoom", mock.Anything, "ABCD", domain.StatusPlayingVoting, domain.RoleImposter, []string{"u-p2"}, winCredits).Return(nil)

	result, err := f.svc.TallyVotes(context.Background(), "ABCD", hostID)

	require.NoError(t, err)
	assert.Equal(t, p3ID, result.Eliminated)
	f.store.AssertExpectations(t)
}

func TestTallyVotesIncompleteRound(t *testing.T) {
	f := newServiceFixture(t, 1)
	f.expectRoom(votingRoom("ABCD", p3ID), threePlayers("ABCD"))
	f.store.On("ListVotes", mock.Anything, "ABCD", 1).Return([]domain.Vote{
		{VoterID: hostID, TargetID: p2ID, VotingRound: 1},
	}, nil)

	_, err := f.svc.TallyVotes(context.Background(), "ABCD", hostID)

	assert.ErrorIs(t, err, domain.ErrPhaseViolation)
}

func TestTallyVotesHostOnly(t *testing.T) {
	f := newServiceFixture(t, 1)
	f.expectRoom(votingRoom("ABCD", p3ID), threePlayers("ABCD"))

	_, err := f.svc.TallyVotes(context.Background(), "ABCD", p2ID)

	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
}

func TestTallyVotesSecondTallyLosesRace(t *testing.T) {
	// The second host request reads the room before the first settles;
	// the conditional write rejects it and no second payout happens.
	f := newServiceFixture(t, 1)
	f.expectRoom(votingRoom("ABCD", p2ID), threePlayers("ABCD"))
	f.store.On("ListVotes", mock.Anything, "ABCD", 1).Return([]domain.Vote{
		{VoterID: hostID, TargetID: p3ID, VotingRound: 1},
		{VoterID: p2ID, TargetID: p3ID, VotingRound: 1},
		{VoterID: p3ID, TargetID: p3ID, VotingRound: 1},
	}, nil)
	f.store.On("FinishRoom", mock.Anything, "ABCD", domain.StatusPlayingVoting, domain.RoleImposter, []string{"u-p2"}, winCredits).
		Return(nil).Once()
	f.store.On("FinishRoom", mock.Anything, "ABCD", domain.StatusPlayingVoting, domain.RoleImposter, []string{"u-p2"}, winCredits).
		Return(domain.ErrPhaseViolation).Once()

	_, err := f.svc.TallyVotes(context.Background(), "ABCD", hostID)
	require.NoError(t, err)

	_, err = f.svc.TallyVotes(context.Background(), "ABCD", hostID)
	assert.ErrorIs(t, err, domain.ErrPhaseViolation)

	f.store.AssertExpectations(t)
}

// --- Guess ---

func guessRoom(code, imposterID string) domain.Room {
	r := votingRoom(code, imposterID)
	r.Status = domain.StatusPlayingGuess
	return r
}

func TestResolveGuessExactMatchWinsForImposter(t *testing.T) {
	f := newServiceFixture(t, 1)
	f.expectRoom(guessRoom("ABCD", p2ID), threePlayers("ABCD"))
	f.store.On("FinishRoom", mock.Anything, "ABCD", domain.StatusPlayingGuess, domain.RoleImposter, []string{"u-p2"}, winCredits).Return(nil)

	winner, err := f.svc.ResolveGuess(context.Background(), "ABCD", p2ID, " Dog ")

	require.NoError(t, err)
	assert.Equal(t, domain.RoleImposter, winner)
	f.store.AssertExpectations(t)
}

func TestResolveGuessIsCaseSensitive(t *testing.T) {
	f := newServiceFixture(t, 1)
	f.expectRoom(guessRoom("ABCD", p2ID), threePlayers("ABCD"))
	f.store.On("FinishRoom", mock.Anything, "ABCD", domain.StatusPlayingGuess, domain.RoleCivilian, []string{"u-host"}, winCredits).Return(nil)

	winner, err := f.svc.ResolveGuess(context.Background(), "ABCD", p2ID, "dog")

	require.NoError(t, err)
	assert.Equal(t, domain.RoleCivilian, winner)
	f.store.AssertExpectations(t)
}

func TestResolveGuessImposterOnly(t *testing.T) {
	f := newServiceFixture(t, 1)
	f.expectRoom(guessRoom("ABCD", p2ID), threePlayers("ABCD"))

	_, err := f.svc.ResolveGuess(context.Background(), "ABCD", hostID, "Dog")

	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
}

func TestResolveGuessWrongPhase(t *testing.T) {
	f := newServiceFixture(t, 1)
	f.expectRoom(votingRoom("ABCD", p2ID), threePlayers("ABCD"))

	_, err := f.svc.ResolveGuess(context.Background(), "ABCD", p2ID, "Dog")

	assert.ErrorIs(t, err, domain.ErrPhaseViolation)
}

// --- Snapshot ---

func TestSnapshotLobbyHidesEverything(t *testing.T) {
	f := newServiceFixture(t, 1)
	room := domain.Room{Code: "ABCD", Status: domain.StatusLobby, GameMode: domain.ModeRandom}
	f.expectRoom(room, threePlayers("ABCD"))

	snap, err := f.svc.Snapshot(context.Background(), "ABCD", p2ID)

	require.NoError(t, err)
	assert.Empty(t, snap.You.Word)
	assert.Empty(t, snap.You.Role)
	assert.Nil(t, snap.Reveal)
	assert.Len(t, snap.Players, 3)
}

func TestSnapshotShowsOnlyOwnWord(t *testing.T) {
	f := newServiceFixture(t, 1)
	room := votingRoom("ABCD", p2ID)
	room.Status = domain.StatusPlayingClues
	players := threePlayers("ABCD")
	players[0].Role = domain.RoleCivilian
	players[1].Role = domain.RoleImposter
	players[2].Role = domain.RoleCivilian
	f.expectRoom(room, players)
	f.store.On("ListClues", mock.Anything, "ABCD", 1).Return([]domain.Clue{
		{PlayerID: hostID, Round: 1, Content: "barks"},
	}, nil)
	f.store.On("ListVotes", mock.Anything, "ABCD", 1).Return([]domain.Vote{}, nil)

	hostSnap, err := f.svc.Snapshot(context.Background(), "ABCD", hostID)
	require.NoError(t, err)
	imposterSnap, err := f.svc.Snapshot(context.Background(), "ABCD", p2ID)
	require.NoError(t, err)

	assert.Equal(t, "Dog", hostSnap.You.Word)
	assert.True(t, hostSnap.You.SubmittedClue)
	assert.Equal(t, "Cat", imposterSnap.You.Word)
	assert.False(t, imposterSnap.You.SubmittedClue)
	assert.Nil(t, hostSnap.Reveal)
}

func TestSnapshotServesGuessGridToImposterOnly(t *testing.T) {
	f := newServiceFixture(t, 1)
	room := guessRoom("ABCD", p2ID)
	room.SelectedTopic = "Animals"
	players := threePlayers("ABCD")
	players[1].Role = domain.RoleImposter
	f.expectRoom(room, players)
	f.store.On("ListClues", mock.Anything, "ABCD", 1).Return([]domain.Clue{}, nil)
	f.store.On("ListVotes", mock.Anything, "ABCD", 1).Return([]domain.Vote{}, nil)
	f.words.On("GetCategoryByName", mock.Anything, "Animals").
		Return(domain.WordCategory{Name: "Animals", Words: []string{"Dog", "Cat", "Bird"}}, nil)

	imposterSnap, err := f.svc.Snapshot(context.Background(), "ABCD", p2ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Bird", "Cat", "Dog"}, imposterSnap.You.GuessOptions)
	assert.Contains(t, imposterSnap.You.GuessOptions, room.CivilianWord)

	civilianSnap, err := f.svc.Snapshot(context.Background(), "ABCD", hostID)
	require.NoError(t, err)
	assert.Empty(t, civilianSnap.You.GuessOptions)
}

func TestSnapshotGuessGridCoversPairsOnlyCategory(t *testing.T) {
	f := newServiceFixture(t, 1)
	room := guessRoom("ABCD", p2ID)
	room.SelectedTopic = "Drinks"
	room.CivilianWord = "Coffee"
	room.ImposterWord = "Tea"
	players := threePlayers("ABCD")
	players[1].Role = domain.RoleImposter
	f.expectRoom(room, players)
	f.store.On("ListClues", mock.Anything, "ABCD", 1).Return([]domain.Clue{}, nil)
	f.store.On("ListVotes", mock.Anything, "ABCD", 1).Return([]domain.Vote{}, nil)
	f.words.On("GetCategoryByName", mock.Anything, "Drinks").
		Return(domain.WordCategory{Name: "Drinks", RelativePairs: [][2]string{{"Coffee", "Tea"}}}, nil)

	snap, err := f.svc.Snapshot(context.Background(), "ABCD", p2ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Coffee", "Tea"}, snap.You.GuessOptions)
}

func TestSnapshotLobbyShape(t *testing.T) {
	f := newServiceFixture(t, 1)
	room := domain.Room{Code: "ABCD", Status: domain.StatusLobby, GameMode: domain.ModeRandom, SelectedTopic: "Animals"}
	f.expectRoom(room, threePlayers("ABCD"))

	snap, err := f.svc.Snapshot(context.Background(), "ABCD", hostID)
	require.NoError(t, err)

	want := Snapshot{
		Code:     "ABCD",
		Status:   "LOBBY",
		GameMode: "random",
		Topic:    "Animals",
		Players: []PlayerView{
			{ID: hostID, Nickname: "amira", IsHost: true},
			{ID: p2ID, Nickname: "badr"},
			{ID: p3ID, Nickname: "celine"},
		},
		Clues: []ClueView{},
		You:   YouView{PlayerID: hostID},
	}
	if diff := cmp.Diff(want, snap); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotRevealsAfterFinish(t *testing.T) {
	f := newServiceFixture(t, 1)
	room := votingRoom("ABCD", p2ID)
	room.Status = domain.StatusFinished
	room.WinnerRole = domain.RoleCivilian
	players := threePlayers("ABCD")
	players[1].Role = domain.RoleImposter
	f.expectRoom(room, players)
	f.store.On("ListClues", mock.Anything, "ABCD", 1).Return([]domain.Clue{}, nil)
	f.store.On("ListVotes", mock.Anything, "ABCD", 1).Return([]domain.Vote{}, nil)

	snap, err := f.svc.Snapshot(context.Background(), "ABCD", hostID)

	require.NoError(t, err)
	require.NotNil(t, snap.Reveal)
	assert.Equal(t, "Dog", snap.Reveal.CivilianWord)
	assert.Equal(t, "Cat", snap.Reveal.ImposterWord)
	assert.Equal(t, p2ID, snap.Reveal.ImposterID)
	assert.Equal(t, string(domain.RoleCivilian), snap.Reveal.WinnerRole)
}
