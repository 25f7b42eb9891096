package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"card-memory-server/api"
	"card-memory-server/assets"
	"card-memory-server/auth"
	"card-memory-server/config"
	"card-memory-server/loghandler"
	"card-memory-server/sessions"
	"card-memory-server/storage"
	"card-memory-server/view"
	"card-memory-server/ws"
)

const shutdownTimeout = 5 * time.Second

func main() {
	var level slog.LevelVar
	slog.SetDefault(slog.New(loghandler.NewCompactHandler(os.Stderr, &level)))

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found; using environment variables", "tag", "main")
	}

	cfg := config.Load()
	level.Set(loghandler.ParseLevel(cfg.LogLevel))
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "tag", "main", "err", err)
		os.Exit(1)
	}

	slog.Info("configuration", "tag", "main", "port", cfg.HTTPPort, "reveal_ms", cfg.RevealDurationMS,
		"points_per_pair", cfg.PointsPerPair, "log_level", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server exited", "tag", "main", "err", err)
		os.Exit(1)
	}
	slog.Info("server stopped", "tag", "main")
}

func run(ctx context.Context, cfg *config.Config) error {
	var results storage.ResultStore
	store, err := storage.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	if store != nil {
		defer store.Close()
		results = store
	} else {
		slog.Info("DATABASE_URL is not set; game history disabled", "tag", "main")
	}

	var board *storage.Leaderboard
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		board = storage.NewLeaderboard(rdb)
		slog.Info("connected to Redis", "tag", "main", "addr", cfg.RedisAddr)
	}

	validator, err := auth.NewValidator(ctx, cfg.NeonAuthBaseURL)
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	var tokens ws.TokenValidator
	if validator != nil {
		tokens = validator
		slog.Info("auth configured", "tag", "main", "base_url", cfg.NeonAuthBaseURL)
	} else {
		slog.Info("NEON_AUTH_BASE_URL is not set; players stay anonymous", "tag", "main")
	}

	renderer := view.NewRenderer(cfg.SuitImageURLs)
	manager := sessions.NewManager(cfg, renderer, storage.NewRecorder(results, board))
	hub := ws.NewHub(cfg, manager, tokens)
	handler := api.NewHandler(cfg, results, board, tokens, manager)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           api.NewRouter(handler, hub.ServeWS, assets.Static()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		slog.Info("memory game server listening", "tag", "main", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
