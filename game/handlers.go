package game

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MrAsnssr/Fraud/domain"
	"github.com/MrAsnssr/Fraud/monitor"
)

// GameService is the handler-facing surface of the state machine,
// narrowed to an interface so handler tests can mock it.
type GameService interface {
	CreateRoom(ctx context.Context, p CreateRoomParams) (domain.Room, domain.Player, error)
	JoinRoom(ctx context.Context, code, nickname, userID string) (domain.Player, error)
	StartRound(ctx context.Context, code, playerID string) error
	SubmitClue(ctx context.Context, code, playerID, content string) error
	AdvanceToVoting(ctx context.Context, code, playerID string) error
	RepeatRound(ctx context.Context, code, playerID string) error
	CastVote(ctx context.Context, code, voterID, targetID string) error
	TallyVotes(ctx context.Context, code, playerID string) (TallyResult, error)
	ResolveGuess(ctx context.Context, code, playerID, guess string) (domain.Role, error)
	Snapshot(ctx context.Context, code, playerID string) (Snapshot, error)
}

type GameHandler struct {
	service GameService
	words   WordSource
	feed    RoomFeed
	metrics *monitor.Metrics
}

func NewGameHandler(service GameService, words WordSource, feed RoomFeed, metrics *monitor.Metrics) *GameHandler {
	return &GameHandler{service: service, words: words, feed: feed, metrics: metrics}
}

func (h *GameHandler) Register(r gin.IRouter) {
	r.GET("/categories", h.ListCategoriesHandler)

	rooms := r.Group("/rooms")
	rooms.POST("", h.CreateRoomHandler)
	rooms.POST("/:code/join", h.JoinRoomHandler)
	rooms.POST("/:code/start", h.StartRoundHandler)
	rooms.POST("/:code/clues", h.SubmitClueHandler)
	rooms.POST("/:code/voting", h.AdvanceToVotingHandler)
	rooms.POST("/:code/repeat", h.RepeatRoundHandler)
	rooms.POST("/:code/votes", h.CastVoteHandler)
	rooms.POST("/:code/tally", h.TallyVotesHandler)
	rooms.POST("/:code/guess", h.ResolveGuessHandler)
	rooms.GET("/:code/snapshot", h.SnapshotHandler)
	rooms.GET("/:code/watch", h.WatchHandler)
}

type createRoomRequest struct {
	Nickname      string `json:"nickname" binding:"required,max=24"`
	GameMode      string `json:"game_mode" binding:"required"`
	Topic         string `json:"topic"`
	AllowSelfVote bool   `json:"allow_self_vote"`
}

func (h *GameHandler) CreateRoomHandler(ctx *gin.Context) {
	req := createRoomRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid-request"})
		return
	}

	room, host, err := h.service.CreateRoom(ctx.Request.Context(), CreateRoomParams{
		Nickname:      req.Nickname,
		GameMode:      domain.GameMode(req.GameMode),
		Topic:         req.Topic,
		AllowSelfVote: req.AllowSelfVote,
		UserID:        ctx.GetString("id"),
	})
	if err != nil {
		abortWithGameError(ctx, err)
		return
	}

	h.metrics.RoomsCreated.Inc()
	ctx.JSON(http.StatusCreated, gin.H{
		"code":      room.Code,
		"player_id": host.ID,
	})
}

type joinRoomRequest struct {
	Nickname string `json:"nickname" binding:"required,max=24"`
}

func (h *GameHandler) JoinRoomHandler(ctx *gin.Context) {
	req := joinRoomRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid-request"})
		return
	}

	player, err := h.service.JoinRoom(ctx.Request.Context(), ctx.Param("code"), req.Nickname, ctx.GetString("id"))
	if err != nil {
		abortWithGameError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"player_id": player.ID})
}

type playerActionRequest struct {
	PlayerID string `json:"player_id" binding:"required,uuid"`
}

func (h *GameHandler) StartRoundHandler(ctx *gin.Context) {
	h.playerAction(ctx, domain.StatusPlayingClues, h.service.StartRound)
}

func (h *GameHandler) AdvanceToVotingHandler(ctx *gin.Context) {
	h.playerAction(ctx, domain.StatusPlayingVoting, h.service.AdvanceToVoting)
}

func (h *GameHandler) RepeatRoundHandler(ctx *gin.Context) {
	h.playerAction(ctx, domain.StatusPlayingClues, h.service.RepeatRound)
}

func (h *GameHandler) playerAction(ctx *gin.Context, to domain.RoomStatus, action func(context.Context, string, string) error) {
	req := playerActionRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid-request"})
		return
	}

	if err := action(ctx.Request.Context(), ctx.Param("code"), req.PlayerID); err != nil {
		abortWithGameError(ctx, err)
		return
	}

	h.metrics.Transitions.WithLabelValues(to.String()).Inc()
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

type submitClueRequest struct {
	PlayerID string `json:"player_id" binding:"required,uuid"`
	Content  string `json:"content" binding:"required,max=64"`
}

func (h *GameHandler) SubmitClueHandler(ctx *gin.Context) {
	req := submitClueRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid-request"})
		return
	}

	if err := h.service.SubmitClue(ctx.Request.Context(), ctx.Param("code"), req.PlayerID, req.Content); err != nil {
		abortWithGameError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"ok": true})
}

type castVoteRequest struct {
	PlayerID string `json:"player_id" binding:"required,uuid"`
	TargetID string `json:"target_id" binding:"required,uuid"`
}

func (h *GameHandler) CastVoteHandler(ctx *gin.Context) {
	req := castVoteRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid-request"})
		return
	}

	if err := h.service.CastVote(ctx.Request.Context(), ctx.Param("code"), req.PlayerID, req.TargetID); err != nil {
		abortWithGameError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"ok": true})
}

func (h *GameHandler) TallyVotesHandler(ctx *gin.Context) {
	req := playerActionRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid-request"})
		return
	}

	result, err := h.service.TallyVotes(ctx.Request.Context(), ctx.Param("code"), req.PlayerID)
	if err != nil {
		abortWithGameError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"counts":     result.Counts,
		"tied":       result.Tied,
		"eliminated": result.Eliminated,
	})
}

type resolveGuessRequest struct {
	PlayerID string `json:"player_id" binding:"required,uuid"`
	Guess    string `json:"guess" binding:"required,max=64"`
}

func (h *GameHandler) ResolveGuessHandler(ctx *gin.Context) {
	req := resolveGuessRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid-request"})
		return
	}

	winner, err := h.service.ResolveGuess(ctx.Request.Context(), ctx.Param("code"), req.PlayerID, req.Guess)
	if err != nil {
		abortWithGameError(ctx, err)
		return
	}

	h.metrics.Settlements.Inc()
	ctx.JSON(http.StatusOK, gin.H{"winner_role": string(winner)})
}

func (h *GameHandler) SnapshotHandler(ctx *gin.Context) {
	playerID := ctx.Query("player_id")
	if playerID == "" {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing-player-id"})
		return
	}

	snap, err := h.service.Snapshot(ctx.Request.Context(), ctx.Param("code"), playerID)
	if err != nil {
		abortWithGameError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, snap)
}

func (h *GameHandler) ListCategoriesHandler(ctx *gin.Context) {
	categories, err := h.words.EligibleCategories(ctx.Request.Context(), ctx.GetString("id"))
	if err != nil {
		abortWithGameError(ctx, err)
		return
	}

	out := make([]gin.H, 0, len(categories))
	for _, c := range categories {
		out = append(out, gin.H{
			"id":         c.ID,
			"name":       c.Name,
			"price":      c.Price,
			"is_free":    c.IsFree,
			"is_weekly":  c.IsWeeklyGuest,
			"is_daily":   c.IsDailyOffer,
			"is_limited": c.IsLimitedTime,
		})
	}
	ctx.JSON(http.StatusOK, gin.H{"categories": out})
}

// gameErrorStatus maps each sentinel to its HTTP status. Anything
// outside the taxonomy is a 500 with an opaque message, so wrapped
// collaborator detail never reaches clients.
var gameErrorStatus = map[error]int{
	domain.ErrPhaseViolation:      http.StatusConflict,
	domain.ErrConstraintViolation: http.StatusConflict,
	domain.ErrEmptyClue:           http.StatusBadRequest,
	domain.ErrInsufficientPlayers: http.StatusBadRequest,
	domain.ErrInsufficientWords:   http.StatusBadRequest,
	domain.ErrInvalidGameMode:     http.StatusBadRequest,
	domain.ErrSelfVoteNotAllowed:  http.StatusBadRequest,
	domain.ErrNotAuthorized:       http.StatusForbidden,
	domain.ErrRoomNotFound:        http.StatusNotFound,
	domain.ErrPlayerNotFound:      http.StatusNotFound,
	domain.ErrCategoryNotFound:    http.StatusNotFound,
}

func abortWithGameError(ctx *gin.Context, err error) {
	for sentinel, status := range gameErrorStatus {
		if errors.Is(err, sentinel) {
			ctx.AbortWithStatusJSON(status, gin.H{"error": sentinel.Error()})
			return
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		ctx.AbortWithStatusJSON(http.StatusGatewayTimeout, gin.H{"error": "timeout"})
		return
	}
	ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unknown-error"})
}
