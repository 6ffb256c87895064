package game

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/MrAsnssr/Fraud/domain"
)

// winCredits is added to each winning player's vault on settlement,
// alongside one win. Applied in the same transaction that flips the
// room to FINISHED, so a settled room pays exactly once.
const winCredits = 20

const minPlayers = 3

// Service owns every room state transition. Clients never mutate state
// themselves; they post actions here and re-read snapshots when the
// feed wakes them up.
type Service struct {
	store GameStore
	words WordSource
	codes RoomCodeGenerator
	feed  RoomFeed
	log   zerolog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewService(store GameStore, words WordSource, codes RoomCodeGenerator, feed RoomFeed, rng *rand.Rand, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		words: words,
		codes: codes,
		feed:  feed,
		rng:   rng,
		log:   log,
	}
}

type CreateRoomParams struct {
	Nickname      string
	GameMode      domain.GameMode
	Topic         string
	AllowSelfVote bool
	UserID        string
}

// CreateRoom opens a LOBBY room and seats the creator as host. The
// chosen topic must be able to sustain at least one round in the chosen
// mode; an unplayable topic fails here rather than at round start.
func (s *Service) CreateRoom(ctx context.Context, p CreateRoomParams) (domain.Room, domain.Player, error) {
	if !p.GameMode.Valid() {
		return domain.Room{}, domain.Player{}, domain.ErrInvalidGameMode
	}
	if p.Topic != "" {
		category, err := s.words.GetCategoryByName(ctx, p.Topic)
		if err != nil {
			return domain.Room{}, domain.Player{}, err
		}
		if !categoryPlayable(category, p.GameMode) {
			return domain.Room{}, domain.Player{}, domain.ErrInsufficientWords
		}
	}

	var room domain.Room
	for {
		code := s.codes.Generate()
		room = domain.Room{
			Code:          code,
			Status:        domain.StatusLobby,
			GameMode:      p.GameMode,
			SelectedTopic: p.Topic,
			AllowSelfVote: p.AllowSelfVote,
		}
		err := s.store.CreateRoom(ctx, room)
		if err == nil {
			break
		}
		s.codes.Dispose(code)
		// A code collision with a room from a previous process shows up
		// as a primary-key violation; draw again.
		if errors.Is(err, domain.ErrConstraintViolation) {
			continue
		}
		return domain.Room{}, domain.Player{}, err
	}

	host := domain.Player{
		ID:       uuid.NewString(),
		RoomCode: room.Code,
		Nickname: p.Nickname,
		IsHost:   true,
		UserID:   p.UserID,
	}
	if err := s.store.AddPlayer(ctx, host); err != nil {
		return domain.Room{}, domain.Player{}, err
	}

	s.log.Info().Str("room", room.Code).Str("mode", string(room.GameMode)).Msg("room created")
	return room, host, nil
}

// JoinRoom seats a new player. Codes are canonicalized to uppercase so
// typed-in lowercase codes still land. Joining is only possible while
// the room sits in LOBBY; the store enforces that atomically.
func (s *Service) JoinRoom(ctx context.Context, code, nickname, userID string) (domain.Player, error) {
	code = CanonicalCode(code)
	if _, err := s.store.GetRoom(ctx, code); err != nil {
		return domain.Player{}, err
	}

	player := domain.Player{
		ID:       uuid.NewString(),
		RoomCode: code,
		Nickname: nickname,
		UserID:   userID,
	}
	if err := s.store.AddPlayer(ctx, player); err != nil {
		return domain.Player{}, err
	}
	return player, nil
}

// StartRound moves LOBBY -> PLAYING_CLUES: draws the word pair, picks
// the imposter and deals roles, all in one conditional write. Host only,
// and never with fewer than three players.
func (s *Service) StartRound(ctx context.Context, code, playerID string) error {
	code = CanonicalCode(code)
	room, players, caller, err := s.roomAndCaller(ctx, code, playerID)
	if err != nil {
		return err
	}
	if !caller.IsHost {
		return domain.ErrNotAuthorized
	}
	if len(players) < minPlayers {
		return domain.ErrInsufficientPlayers
	}

	category, err := s.pickCategory(ctx, room)
	if err != nil {
		return err
	}

	s.rngMu.Lock()
	pair, err := pickWords(s.rng, category, room.GameMode)
	var imposterIdx int
	if err == nil {
		imposterIdx = s.rng.Intn(len(players))
	}
	s.rngMu.Unlock()
	if err != nil {
		return err
	}

	start := RoundStart{
		Topic:        category.Name,
		CivilianWord: pair.Civilian,
		ImposterWord: pair.Imposter,
		ImposterID:   players[imposterIdx].ID,
		Roles:        make(map[string]domain.Role, len(players)),
	}
	for i, pl := range players {
		if i == imposterIdx {
			start.Roles[pl.ID] = domain.RoleImposter
		} else {
			start.Roles[pl.ID] = domain.RoleCivilian
		}
	}

	if err := s.store.StartRound(ctx, code, start); err != nil {
		return err
	}
	s.log.Info().Str("room", code).Str("topic", category.Name).Msg("round started")
	return nil
}

func (s *Service) pickCategory(ctx context.Context, room domain.Room) (domain.WordCategory, error) {
	if room.SelectedTopic != "" {
		category, err := s.words.GetCategoryByName(ctx, room.SelectedTopic)
		if err == nil && categoryPlayable(category, room.GameMode) {
			return category, nil
		}
		if err != nil && !errors.Is(err, domain.ErrCategoryNotFound) {
			return domain.WordCategory{}, err
		}
		// The topic validated at creation has since vanished or lost
		// its words; fall through to a random playable category.
	}

	categories, err := s.words.ListCategories(ctx)
	if err != nil {
		return domain.WordCategory{}, err
	}
	playable := categories[:0]
	for _, c := range categories {
		if categoryPlayable(c, room.GameMode) {
			playable = append(playable, c)
		}
	}
	if len(playable) == 0 {
		return domain.WordCategory{}, domain.ErrInsufficientWords
	}

	s.rngMu.Lock()
	picked := playable[s.rng.Intn(len(playable))]
	s.rngMu.Unlock()
	return picked, nil
}

// SubmitClue records one clue for the caller in the current round. One
// clue per player per round; the store's unique index closes the race
// between duplicate submissions.
func (s *Service) SubmitClue(ctx context.Context, code, playerID, content string) error {
	code = CanonicalCode(code)
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.ErrEmptyClue
	}
	if _, _, _, err := s.roomAndCaller(ctx, code, playerID); err != nil {
		return err
	}
	return s.store.InsertClue(ctx, code, playerID, content)
}

// AdvanceToVoting moves PLAYING_CLUES -> PLAYING_VOTING once every
// seated player has submitted a clue for the current round. The
// completeness check runs inside the conditional write.
func (s *Service) AdvanceToVoting(ctx context.Context, code, playerID string) error {
	code = CanonicalCode(code)
	room, _, caller, err := s.roomAndCaller(ctx, code, playerID)
	if err != nil {
		return err
	}
	if !caller.IsHost {
		return domain.ErrNotAuthorized
	}
	if !room.Status.CanTransitionTo(domain.StatusPlayingVoting) {
		return domain.ErrPhaseViolation
	}
	return s.store.OpenVoting(ctx, code)
}

// RepeatRound opens one more clue round with the same words and roles.
// The host can repeat straight from the clues phase instead of opening
// a ballot, or from PLAYING_VOTING to abandon one. Host only.
func (s *Service) RepeatRound(ctx context.Context, code, playerID string) error {
	code = CanonicalCode(code)
	room, _, caller, err := s.roomAndCaller(ctx, code, playerID)
	if err != nil {
		return err
	}
	if !caller.IsHost {
		return domain.ErrNotAuthorized
	}
	if !room.Status.CanTransitionTo(domain.StatusPlayingClues) {
		return domain.ErrPhaseViolation
	}
	return s.store.RepeatRound(ctx, code, room.Round)
}

// CastVote records the caller's vote for the current voting round. The
// target must be seated in the same room, and voting for yourself needs
// the room's opt-in flag.
func (s *Service) CastVote(ctx context.Context, code, voterID, targetID string) error {
	code = CanonicalCode(code)
	room, players, _, err := s.roomAndCaller(ctx, code, voterID)
	if err != nil {
		return err
	}
	if voterID == targetID && !room.AllowSelfVote {
		return domain.ErrSelfVoteNotAllowed
	}
	if !playerSeated(players, targetID) {
		return domain.ErrPlayerNotFound
	}
	return s.store.InsertVote(ctx, code, voterID, targetID)
}

// TallyVotes counts the completed voting round and advances the room.
// A tie opens a fresh voting round; voting the imposter out opens the
// guess phase; voting anyone else out ends the game with an imposter
// win, settled in the same write. Host only.
//
// Two concurrent tallies of the same round race on the conditional
// update; the loser comes back with ErrPhaseViolation and no second
// settlement ever happens.
func (s *Service) TallyVotes(ctx context.Context, code, playerID string) (TallyResult, error) {
	code = CanonicalCode(code)
	room, players, caller, err := s.roomAndCaller(ctx, code, playerID)
	if err != nil {
		return TallyResult{}, err
	}
	if !caller.IsHost {
		return TallyResult{}, domain.ErrNotAuthorized
	}
	if room.Status != domain.StatusPlayingVoting {
		return TallyResult{}, domain.ErrPhaseViolation
	}

	votes, err := s.store.ListVotes(ctx, code, room.VotingRound)
	if err != nil {
		return TallyResult{}, err
	}
	if len(votes) < len(players) {
		return TallyResult{}, domain.ErrPhaseViolation
	}

	result := CountVotes(votes)
	switch {
	case result.Tied:
		err = s.store.Revote(ctx, code, room.VotingRound)

	case result.Eliminated == room.ImposterID:
		err = s.store.BeginGuess(ctx, code)

	default:
		// A civilian was voted out; the imposter survives and wins.
		winners := profileIDs(players, func(p domain.Player) bool {
			return p.ID == room.ImposterID
		})
		err = s.store.FinishRoom(ctx, code, domain.StatusPlayingVoting, domain.RoleImposter, winners, winCredits)
	}
	if err != nil {
		return TallyResult{}, err
	}

	s.log.Info().Str("room", code).Bool("tied", result.Tied).Str("eliminated", result.Eliminated).Msg("votes tallied")
	return result, nil
}

// ResolveGuess ends the guess phase. Only the imposter may guess, and
// only the exact civilian word wins; comparison is byte-exact after
// whitespace trimming.
func (s *Service) ResolveGuess(ctx context.Context, code, playerID, guess string) (domain.Role, error) {
	code = CanonicalCode(code)
	room, players, _, err := s.roomAndCaller(ctx, code, playerID)
	if err != nil {
		return "", err
	}
	if room.Status != domain.StatusPlayingGuess {
		return "", domain.ErrPhaseViolation
	}
	if playerID != room.ImposterID {
		return "", domain.ErrNotAuthorized
	}

	winner := domain.RoleCivilian
	if strings.TrimSpace(guess) == room.CivilianWord {
		winner = domain.RoleImposter
	}

	winners := profileIDs(players, func(p domain.Player) bool {
		if winner == domain.RoleImposter {
			return p.ID == room.ImposterID
		}
		return p.ID != room.ImposterID
	})
	if err := s.store.FinishRoom(ctx, code, domain.StatusPlayingGuess, winner, winners, winCredits); err != nil {
		return "", err
	}

	s.log.Info().Str("room", code).Str("winner", string(winner)).Msg("guess resolved")
	return winner, nil
}

func (s *Service) roomAndCaller(ctx context.Context, code, playerID string) (domain.Room, []domain.Player, domain.Player, error) {
	room, err := s.store.GetRoom(ctx, code)
	if err != nil {
		return domain.Room{}, nil, domain.Player{}, err
	}
	players, err := s.store.ListPlayers(ctx, code)
	if err != nil {
		return domain.Room{}, nil, domain.Player{}, err
	}
	for _, p := range players {
		if p.ID == playerID {
			return room, players, p, nil
		}
	}
	return domain.Room{}, nil, domain.Player{}, domain.ErrPlayerNotFound
}

func playerSeated(players []domain.Player, id string) bool {
	for _, p := range players {
		if p.ID == id {
			return true
		}
	}
	return false
}

func profileIDs(players []domain.Player, keep func(domain.Player) bool) []string {
	var ids []string
	for _, p := range players {
		if p.UserID != "" && keep(p) {
			ids = append(ids, p.UserID)
		}
	}
	return ids
}

// CanonicalCode is the single place room codes get normalized.
func CanonicalCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
