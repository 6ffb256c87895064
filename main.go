package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/MrAsnssr/Fraud/auth"
	"github.com/MrAsnssr/Fraud/config"
	"github.com/MrAsnssr/Fraud/crypto"
	"github.com/MrAsnssr/Fraud/game"
	"github.com/MrAsnssr/Fraud/logger"
	"github.com/MrAsnssr/Fraud/migrations"
	"github.com/MrAsnssr/Fraud/monitor"
	"github.com/MrAsnssr/Fraud/payments"
	"github.com/MrAsnssr/Fraud/profile"
	"github.com/MrAsnssr/Fraud/storage"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.SetTrustedProxies([]string{"127.0.0.1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})
	r.GET("/health", func(ctx *gin.Context) { ctx.String(200, "healthy") })

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")

		// Requests without an Origin header (webhooks, curl, health
		// probes) pass; browsers always send one cross-site.
		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Authorization",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func main() {
	log := logger.New(os.Getenv("PRETTY_LOGS") == "true")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration invalid")
	}

	if err := migrations.Migrate(cfg.PostgresURL); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer stop()

	pgRepo, err := storage.NewPostgresRepo(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer pgRepo.Close()

	feed := storage.NewFeed(pgRepo)
	go feed.Run(ctx)

	tokenAge := time.Hour * 24 * 7 // 7 days
	passwordHasher := crypto.NewArgon2idHasher(3, 1024*64, 32, 16, 1)
	tokenManager := crypto.NewJWTManager(cfg.JWTKey, tokenAge)
	metrics := monitor.NewMetrics()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	authService := auth.NewService(pgRepo, passwordHasher, tokenManager)
	authHandler := auth.NewAuthHandler(authService, tokenAge, log)

	gameService := game.NewService(pgRepo, pgRepo, game.NewCodeGenerator(), feed, rng, log)
	gameHandler := game.NewGameHandler(gameService, pgRepo, feed, metrics)

	profileHandler := profile.NewProfileHandler(pgRepo, log)
	paymobHandler := payments.NewPaymobHandler(pgRepo, cfg.PaymobHMACSecret, metrics, log)

	r := CreateServer(cfg.AllowedOrigins)
	r.GET("/metrics", metrics.Handler())

	authHandler.Register(r)
	paymobHandler.Register(r)
	profileHandler.Register(r, authHandler.RequireAuthMiddleware(time.Second*2))

	// Rooms are open to guests; a session only links wins and credits.
	gameGroup := r.Group("/", authHandler.OptionalAuthMiddleware())
	gameHandler.Register(gameGroup)

	server := &http.Server{Addr: cfg.ListenAddr, Handler: r}
	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("server started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("shutting down now")
}
