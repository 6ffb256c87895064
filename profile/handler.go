// Package profile serves the vault, daily reward and leaderboard.
package profile

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/MrAsnssr/Fraud/domain"
)

// dailyRewardCredits is granted at most once per 24 hours; the storage
// layer enforces the gate atomically.
const dailyRewardCredits = 50

const leaderboardSize = 20

type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (domain.Profile, error)
	ClaimDailyReward(ctx context.Context, profileID string, amount int64, now time.Time) error
	Leaderboard(ctx context.Context, limit int) ([]domain.Profile, error)
}

type ProfileHandler struct {
	store ProfileStore
	now   func() time.Time
	log   zerolog.Logger
}

func NewProfileHandler(store ProfileStore, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{store: store, now: time.Now, log: log}
}

// Register wires the routes. requireAuth guards the personal endpoints;
// the leaderboard is public.
func (h *ProfileHandler) Register(r gin.IRouter, requireAuth gin.HandlerFunc) {
	r.GET("/leaderboard", h.LeaderboardHandler)

	group := r.Group("/profile", requireAuth)
	group.GET("", h.GetProfileHandler)
	group.POST("/reward", h.ClaimRewardHandler)
}

func (h *ProfileHandler) GetProfileHandler(ctx *gin.Context) {
	profile, err := h.store.GetProfile(ctx.Request.Context(), ctx.GetString("id"))
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "profile-not-found"})
			return
		}
		h.log.Error().Err(err).Msg("profile lookup failed")
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unknown-error"})
		return
	}

	resp := gin.H{
		"id":       profile.Id,
		"username": profile.Username,
		"credits":  profile.Credits,
		"wins":     profile.Wins,
	}
	if profile.LastRewardClaim != nil {
		resp["next_reward_at"] = profile.LastRewardClaim.Add(24 * time.Hour)
	}
	ctx.JSON(http.StatusOK, resp)
}

func (h *ProfileHandler) ClaimRewardHandler(ctx *gin.Context) {
	id := ctx.GetString("id")
	err := h.store.ClaimDailyReward(ctx.Request.Context(), id, dailyRewardCredits, h.now())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRewardNotReady):
			ctx.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "reward-not-ready"})
		case errors.Is(err, domain.ErrProfileNotFound):
			ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "profile-not-found"})
		default:
			h.log.Error().Err(err).Str("profile", id).Msg("reward claim failed")
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unknown-error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"granted": dailyRewardCredits})
}

func (h *ProfileHandler) LeaderboardHandler(ctx *gin.Context) {
	profiles, err := h.store.Leaderboard(ctx.Request.Context(), leaderboardSize)
	if err != nil {
		h.log.Error().Err(err).Msg("leaderboard query failed")
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unknown-error"})
		return
	}

	entries := make([]gin.H, 0, len(profiles))
	for i, p := range profiles {
		entries = append(entries, gin.H{
			"rank":     i + 1,
			"username": p.Username,
			"wins":     p.Wins,
			"credits":  p.Credits,
		})
	}
	ctx.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
