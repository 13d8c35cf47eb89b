package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/coinpulse/internal/api"
	"github.com/rickgao/coinpulse/internal/config"
	"github.com/rickgao/coinpulse/internal/connectivity"
	"github.com/rickgao/coinpulse/internal/database"
	"github.com/rickgao/coinpulse/internal/feed"
	"github.com/rickgao/coinpulse/internal/poller"
	"github.com/rickgao/coinpulse/internal/server"
	"github.com/rickgao/coinpulse/internal/store"
	"github.com/rickgao/coinpulse/internal/symbols"
	"github.com/rickgao/coinpulse/internal/tickers"
	"github.com/rickgao/coinpulse/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/coinpulse.yaml", "path to config file")
	envPath := flag.String("env", ".env", "optional dotenv file loaded before the config")
	flag.Parse()

	// A missing .env is fine; variables may come from the environment.
	envErr := godotenv.Load(*envPath)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting coinpulse",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)
	if envErr != nil && !os.IsNotExist(envErr) {
		logger.Warn("failed to load env file", "path", *envPath, "error", envErr)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"api_url", cfg.API.RestURL,
		"backend", cfg.Cache.Backend,
		"symbols", len(cfg.Symbols),
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	table, err := symbols.NewTable(cfg.Symbols)
	if err != nil {
		logger.Error("invalid symbol table", "error", err)
		os.Exit(1)
	}

	st, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "backend", cfg.Cache.Backend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	apiClient := api.NewClient(
		cfg.API.RestURL,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
	)

	repo := tickers.NewRepository(apiClient, st, table, tickers.Config{TTL: cfg.Cache.TTL}, logger)

	// The supervisor is created after the feed, so the hook reads it lazily.
	var supervisor *poller.Supervisor
	var feedOpts []feed.Option
	if cfg.Poller.RequireSubscribers {
		feedOpts = append(feedOpts, feed.WithSubscriberHook(func(count int) {
			supervisor.SetVisible(count > 0)
		}))
	}
	hub := feed.New(logger, feedOpts...)

	loop := poller.New(poller.Config{Interval: cfg.Poller.Interval}, repo, hub, logger)
	supervisor = poller.NewSupervisor(loop, logger)
	if !cfg.Poller.RequireSubscribers {
		supervisor.SetVisible(true)
	}

	prober := connectivity.NewProber(connectivity.Config{
		Interval:  cfg.Connectivity.Interval,
		Timeout:   cfg.Connectivity.Timeout,
		LostAfter: cfg.Connectivity.LostAfter,
	}, apiClient, logger)

	srv := server.New(server.Config{Port: cfg.Server.Port}, repo, supervisor, hub, st, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return supervisor.Run(gctx, prober.Observe(gctx))
	})
	g.Go(func() error {
		return srv.ListenAndServe()
	})
	g.Go(func() error {
		<-gctx.Done()

		logger.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
		if err := loop.Close(shutdownCtx); err != nil {
			logger.Error("poller shutdown error", "error", err)
		}
		return nil
	})

	logger.Info("coinpulse running",
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Server.Port),
	)

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		logger.Error("coinpulse exited", "error", err)
		closeStore()
		os.Exit(1)
	}

	stats := repo.Stats()
	logger.Info("coinpulse stopped",
		"refreshes", stats.Refreshes,
		"hits", stats.Hits,
		"failures", stats.Failures,
		"cycles", loop.Cycles(),
	)
}

// openStore opens the configured backend. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, func(), error) {
	switch cfg.Cache.Backend {
	case config.BackendPostgres:
		db := cfg.Database.Postgres
		logger.Info("connecting to database",
			"host", db.Host,
			"port", db.Port,
			"database", db.Name,
		)

		pool, err := database.Connect(ctx, db)
		if err != nil {
			return nil, nil, err
		}
		pg := store.NewPostgres(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		logger.Info("database connected")
		return pg, pg.Close, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rs := store.NewRedis(client, cfg.Redis.Key, logger)
		if err := rs.Ping(ctx); err != nil {
			rs.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		logger.Info("redis connected", "addr", cfg.Redis.Addr, "key", cfg.Redis.Key)
		return rs, func() { rs.Close() }, nil

	default:
		return store.NewMemory(), func() {}, nil
	}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
