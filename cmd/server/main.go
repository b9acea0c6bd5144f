package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/besimplit/task-tracker/internal/config"
	"github.com/besimplit/task-tracker/internal/constants"
	"github.com/besimplit/task-tracker/internal/database"
	"github.com/besimplit/task-tracker/internal/handlers"
	"github.com/besimplit/task-tracker/internal/logger"
	"github.com/besimplit/task-tracker/internal/metrics"
	"github.com/besimplit/task-tracker/internal/middleware"
	"github.com/besimplit/task-tracker/internal/notification"
	"github.com/besimplit/task-tracker/internal/repository"
	"github.com/besimplit/task-tracker/internal/services"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("failed to connect to database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	if _, created, err := database.EnsureGroups(db); err != nil {
		log.Fatal().Err(err).Msg("failed to create groups")
	} else if len(created) > 0 {
		log.Info().Strs("groups", created).Msg("groups created")
	}

	var rdb *redis.Client
	if cfg.UsesRedis() {
		rdb, err = database.ConnectRedis(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr()).Msg("failed to connect to redis")
		}
		defer func() { _ = rdb.Close() }()
	}

	mailer, err := notification.New(cfg.Mail, rdb, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize mailer")
	}

	store, err := newSessionStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create session store")
	}

	// Initialize services
	loc := cfg.Location()
	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	taskService := services.NewTaskService(taskRepo, userRepo,
		services.NewCompletionNotifier(mailer, loc),
		log.With().Str("component", "tasks").Logger(),
		services.WithNotifyTimeout(cfg.Mail.NotifyTimeout),
	)

	// Initialize Gin router
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(log.With().Str("component", "http").Logger()),
		metrics.Middleware(),
		sessions.Sessions(constants.SessionCookieName, store),
	)
	r.GET("/metrics", metrics.Handler())

	handlers.RegisterRoutes(r, handlers.Handlers{
		Auth:      handlers.NewAuthHandler(authService, log),
		Tasks:     handlers.NewTaskHandler(taskService, loc, log),
		Dashboard: handlers.NewDashboardHandler(taskService, loc, log),
		Export:    handlers.NewExportHandler(taskService, loc, log),
		Health:    handlers.NewHealthHandler(db, rdb),
	}, authService)

	serve(ctx, log, &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	})
}

// newSessionStore returns the Redis-backed store, or the signed cookie store
// when SESSION_STORE=cookie.
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	switch cfg.SessionStore {
	case config.SessionStoreCookie:
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	default:
		rs, err := redisStore.NewStore(
			cfg.Redis.PoolSize,
			"tcp",
			cfg.RedisAddr(),
			"",
			cfg.Redis.Password,
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, err
		}
		store = rs
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

func serve(ctx context.Context, log zerolog.Logger, server *http.Server) {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("server starting")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown requested")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped unexpectedly")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
