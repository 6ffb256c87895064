package game

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/MrAsnssr/Fraud/domain"
)

// --- GameStore ---

type MockGameStore struct {
	mock.Mock
}

func (m *MockGameStore) CreateRoom(ctx context.Context, room domain.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockGameStore) GetRoom(ctx context.Context, code string) (domain.Room, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(domain.Room), args.Error(1)
}

func (m *MockGameStore) AddPlayer(ctx context.Context, player domain.Player) error {
	args := m.Called(ctx, player)
	return args.Error(0)
}

func (m *MockGameStore) ListPlayers(ctx context.Context, code string) ([]domain.Player, error) {
	args := m.Called(ctx, code)
	return args.Get(0).([]domain.Player), args.Error(1)
}

func (m *MockGameStore) StartRound(ctx context.Context, code string, start RoundStart) error {
	args := m.Called(ctx, code, start)
	return args.Error(0)
}

func (m *MockGameStore) InsertClue(ctx context.Context, code, playerID, content string) error {
	args := m.Called(ctx, code, playerID, content)
	return args.Error(0)
}

func (m *MockGameStore) ListClues(ctx context.Context, code string, round int) ([]domain.Clue, error) {
	args := m.Called(ctx, code, round)
	return args.Get(0).([]domain.Clue), args.Error(1)
}

func (m *MockGameStore) OpenVoting(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockGameStore) RepeatRound(ctx context.Context, code string, fromRound int) error {
	args := m.Called(ctx, code, fromRound)
	return args.Error(0)
}

func (m *MockGameStore) InsertVote(ctx context.Context, code, voterID, targetID string) error {
	args := m.Called(ctx, code, voterID, targetID)
	return args.Error(0)
}

func (m *MockGameStore) ListVotes(ctx context.Context, code string, votingRound int) ([]domain.Vote, error) {
	args := m.Called(ctx, code, votingRound)
	return args.Get(0).([]domain.Vote), args.Error(1)
}

func (m *MockGameStore) BeginGuess(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockGameStore) Revote(ctx context.Context, code string, fromVotingRound int) error {
	args := m.Called(ctx, code, fromVotingRound)
	return args.Error(0)
}

func (m *MockGameStore) FinishRoom(ctx context.Context, code string, from domain.RoomStatus, winner domain.Role, winnerProfileIDs []string, credits int) error {
	args := m.Called(ctx, code, from, winner, winnerProfileIDs, credits)
	return args.Error(0)
}

// --- WordSource ---

type MockWordSource struct {
	mock.Mock
}

func (m *MockWordSource) ListCategories(ctx context.Context) ([]domain.WordCategory, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.WordCategory), args.Error(1)
}

func (m *MockWordSource) EligibleCategories(ctx context.Context, userID string) ([]domain.WordCategory, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.WordCategory), args.Error(1)
}

func (m *MockWordSource) GetCategoryByName(ctx context.Context, name string) (domain.WordCategory, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(domain.WordCategory), args.Error(1)
}

// --- RoomCodeGenerator ---

type MockCodeGenerator struct {
	mock.Mock
}

func (m *MockCodeGenerator) Generate() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockCodeGenerator) Dispose(code string) {
	m.Called(code)
}

// --- RoomFeed ---

type MockRoomFeed struct {
	mock.Mock
}

func (m *MockRoomFeed) Subscribe(roomCode string) (<-chan struct{}, func()) {
	args := m.Called(roomCode)
	return args.Get(0).(<-chan struct{}), args.Get(1).(func())
}

// --- GameService ---

type MockGameService struct {
	mock.Mock
}

func (m *MockGameService) CreateRoom(ctx context.Context, p CreateRoomParams) (domain.Room, domain.Player, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(domain.Room), args.Get(1).(domain.Player), args.Error(2)
}

func (m *MockGameService) JoinRoom(ctx context.Context, code, nickname, userID string) (domain.Player, error) {
	args := m.Called(ctx, code, nickname, userID)
	return args.Get(0).(domain.Player), args.Error(1)
}

func (m *MockGameService) StartRound(ctx context.Context, code, playerID string) error {
	args := m.Called(ctx, code, playerID)
	return args.Error(0)
}

func (m *MockGameService) SubmitClue(ctx context.Context, code, playerID, content string) error {
	args := m.Called(ctx, code, playerID, content)
	return args.Error(0)
}

func (m *MockGameService) AdvanceToVoting(ctx context.Context, code, playerID string) error {
	args := m.Called(ctx, code, playerID)
	return args.Error(0)
}

func (m *MockGameService) RepeatRound(ctx context.Context, code, playerID string) error {
	args := m.Called(ctx, code, playerID)
	return args.Error(0)
}

func (m *MockGameService) CastVote(ctx context.Context, code, voterID, targetID string) error {
	args := m.Called(ctx, code, voterID, targetID)
	return args.Error(0)
}

func (m *MockGameService) TallyVotes(ctx context.Context, code, playerID string) (TallyResult, error) {
	args := m.Called(ctx, code, playerID)
	return args.Get(0).(TallyResult), args.Error(1)
}

func (m *MockGameService) ResolveGuess(ctx context.Context, code, playerID, guess string) (domain.Role, error) {
	args := m.Called(ctx, code, playerID, guess)
	return args.Get(0).(domain.Role), args.Error(1)
}

func (m *MockGameService) Snapshot(ctx context.Context, code, playerID string) (Snapshot, error) {
	args := m.Called(ctx, code, playerID)
	return args.Get(0).(Snapshot), args.Error(1)
}
