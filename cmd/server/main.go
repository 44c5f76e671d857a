package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/chronoplay/histquiz/internal/config"
	"github.com/chronoplay/histquiz/internal/database"
	"github.com/chronoplay/histquiz/internal/judge"
	"github.com/chronoplay/histquiz/internal/migrations"
	"github.com/chronoplay/histquiz/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	// --- Redis ---
	rdb, err := openRedis(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer rdb.Close()
	logger.Info("connected to redis")

	// --- Stores and seed ---
	store := server.NewSQLiteStore(db)

	adminHash := ""
	if cfg.AdminPassword != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hashing admin password: %w", err)
		}
		adminHash = string(h)
	}
	if err := server.SeedDemo(ctx, logger, db, store, cfg.AdminEmail, adminHash); err != nil {
		return fmt.Errorf("seeding: %w", err)
	}

	// --- Daily puzzles ---
	var j judge.Judge
	if cfg.JudgeEnabled {
		j = judge.NewOpenAI(cfg.OpenAIAPIKey, cfg.JudgeModel)
		logger.Info("quality judge enabled", "model", cfg.JudgeModel)
	}
	gen := server.NewGenerator(store, j, logger, cfg.SeedSalt, cfg.JudgeMaxAttempts)
	if _, err := gen.EnsureDaily(ctx, server.Today()); err != nil {
		// Generation problems must not take the API down; yesterday's
		// puzzles still serve and an admin can retrigger generation.
		logger.Error("daily generation incomplete", "error", err)
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Store:     store,
		DB:        db,
		Redis:     rdb,
		Stats:     server.NewStats(rdb, logger),
		Generator: gen,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}
