package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/MrAsnssr/Fraud/domain"
)

var (
	ErrMissingTokenStr          = "missing-token"
	ErrExpiredTokenStr          = "expired-token"
	ErrServerTimeoutStr         = "server-timeout"
	ErrInvalidRequestFormatStr  = "bad-request-format"
	ErrInvalidCredentialsStr    = "invalid-credentials"
	ErrUnknownStr               = "unknown-error"
	ErrUsernameAlreadyExistsStr = "username-already-exists"
	ErrEmailAlreadyExistsStr    = "email-already-exists"
	ErrAccountCreatedButNoToken = "account-created-but-no-token"
)

type authHandler struct {
	authService  AuthService
	cookieMaxAge time.Duration
	log          zerolog.Logger
}

func NewAuthHandler(service AuthService, cookieMaxAge time.Duration, log zerolog.Logger) *authHandler {
	return &authHandler{authService: service, cookieMaxAge: cookieMaxAge, log: log}
}

func (ah *authHandler) Register(r gin.IRouter) {
	group := r.Group("/auth")
	group.POST("/signup", ah.SignupHandler)
	group.POST("/login", ah.LoginHandler)
	group.POST("/logout", ah.LogoutHandler)
	group.POST("/refresh", ah.RefreshSessionHandler)
}

// RequireAuthMiddleware rejects requests without a valid session. A
// token that fails signature or structural checks was forged or
// tampered with; the response is delayed by trollTime and kept opaque.
func (ah *authHandler) RequireAuthMiddleware(trollTime time.Duration) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie("token")
		if err != nil {
			ctx.String(http.StatusUnauthorized, ErrMissingTokenStr)
			ctx.Abort()
			return
		}

		id, err := ah.authService.VerifyToken(token)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidSigningAlg),
				errors.Is(err, domain.ErrInvalidTokenSignature),
				errors.Is(err, domain.ErrCorruptedToken):
				ah.log.Warn().Str("ip", ctx.ClientIP()).Msg("rejected forged token")
				time.Sleep(trollTime)
				ctx.Status(http.StatusInternalServerError)
				ctx.Abort()
			case errors.Is(err, domain.ErrExpiredToken):
				ctx.String(http.StatusUnauthorized, ErrExpiredTokenStr)
				ctx.Abort()
			default:
				ctx.String(http.StatusInternalServerError, ErrUnknownStr)
				ctx.Abort()
			}
			return
		}

		ctx.Set("id", id)
		ctx.Next()
	}
}

// OptionalAuthMiddleware sets "id" when a valid session cookie is
// present and stays silent otherwise, so guests pass through.
func (ah *authHandler) OptionalAuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie("token")
		if err == nil {
			if id, err := ah.authService.VerifyToken(token); err == nil {
				ctx.Set("id", id)
			}
		}
		ctx.Next()
	}
}

func (ah *authHandler) LoginHandler(ctx *gin.Context) {
	var loginCredentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := ctx.ShouldBindJSON(&loginCredentials); err != nil {
		ctx.String(http.StatusBadRequest, ErrInvalidRequestFormatStr)
		ctx.Abort()
		return
	}

	token, err := ah.authService.Login(ctx.Request.Context(), loginCredentials.Username, loginCredentials.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrIncorrectPassword), errors.Is(err, domain.ErrUserNotFound):
			ctx.String(http.StatusUnauthorized, ErrInvalidCredentialsStr)
			ctx.Abort()
		case errors.Is(err, context.DeadlineExceeded):
			ctx.String(http.StatusGatewayTimeout, ErrServerTimeoutStr)
			ctx.Abort()
		case errors.Is(err, context.Canceled):
			ctx.Status(499)
			ctx.Abort()
		default:
			ah.log.Error().Err(err).Msg("login failed unexpectedly")
			ctx.String(http.StatusInternalServerError, ErrUnknownStr)
			ctx.Abort()
		}
		return
	}

	ah.setSessionCookie(ctx, token)
	ctx.Status(http.StatusOK)
}

func (ah *authHandler) SignupHandler(ctx *gin.Context) {
	var signupCredentials struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := ctx.ShouldBindJSON(&signupCredentials); err != nil {
		ctx.String(http.StatusBadRequest, ErrInvalidRequestFormatStr)
		ctx.Abort()
		return
	}

	token, err := ah.authService.Signup(ctx.Request.Context(), signupCredentials.Username, signupCredentials.Email, signupCredentials.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateUsername):
			ctx.String(http.StatusConflict, ErrUsernameAlreadyExistsStr)

		case errors.Is(err, domain.ErrDuplicateEmail):
			ctx.String(http.StatusConflict, ErrEmailAlreadyExistsStr)

		case errors.Is(err, ErrWeakPassword),
			errors.Is(err, ErrPasswordTooLong),
			errors.Is(err, ErrInvalidUsernameFormat),
			errors.Is(err, ErrInvalidEmailFormat):
			ctx.String(http.StatusBadRequest, err.Error())

		case errors.Is(err, context.DeadlineExceeded):
			ctx.String(http.StatusGatewayTimeout, ErrServerTimeoutStr)

		case errors.Is(err, context.Canceled):
			ctx.Status(499) // http code for "Client Closed Request"

		case errors.Is(err, domain.UnexpectedTokenGenerationError):
			// The row exists but the session could not be minted; the
			// client should fall back to login.
			ah.log.Error().Err(err).Msg("signup minted no token")
			ctx.String(http.StatusInternalServerError, ErrAccountCreatedButNoToken)

		default:
			ah.log.Error().Err(err).Msg("signup failed unexpectedly")
			ctx.String(http.StatusInternalServerError, ErrUnknownStr)
		}
		ctx.Abort()
		return
	}

	ah.setSessionCookie(ctx, token)
	ctx.Status(http.StatusCreated)
}

func (ah *authHandler) RefreshSessionHandler(ctx *gin.Context) {
	token, err := ctx.Cookie("token")
	if err != nil {
		ctx.String(http.StatusUnauthorized, "unauthenticated")
		return
	}

	id, err := ah.authService.VerifyToken(token)
	if err != nil {
		ctx.String(http.StatusUnauthorized, "bad-token")
		return
	}

	newToken, err := ah.authService.RefreshToken(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			ctx.String(http.StatusUnauthorized, "bad-token")
			return
		}
		ctx.Status(http.StatusInternalServerError)
		return
	}

	ah.setSessionCookie(ctx, newToken)
	ctx.Status(http.StatusOK)
}

func (ah *authHandler) LogoutHandler(ctx *gin.Context) {
	ctx.SetCookie("token", "", -1, "/", "", true, true)
}

func (ah *authHandler) setSessionCookie(ctx *gin.Context, token string) {
	ctx.SetSameSite(http.SameSiteNoneMode)
	ctx.SetCookie("token", token, int(ah.cookieMaxAge.Seconds()), "/", "", true, true)
}
