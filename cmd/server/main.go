package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/CoderDill/chat-app-hedera/internal/api"
	"github.com/CoderDill/chat-app-hedera/internal/api/middleware"
	"github.com/CoderDill/chat-app-hedera/internal/chat"
	"github.com/CoderDill/chat-app-hedera/internal/config"
	"github.com/CoderDill/chat-app-hedera/internal/ledger"
	"github.com/CoderDill/chat-app-hedera/internal/reply"
	"github.com/CoderDill/chat-app-hedera/internal/store"
)

func main() {
	// Initialize logger before config so configuration errors are readable
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	}

	ctx := context.Background()

	// Run migrations
	if cfg.IndexDriver == store.DriverPostgres {
		logger.Info().Msg("running database migrations...")
		if err := store.RunMigrations(cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
		logger.Info().Msg("migrations completed")
	}

	index, err := store.Open(ctx, store.Options{
		Driver:      cfg.IndexDriver,
		SQLitePath:  cfg.SQLitePath,
		BlevePath:   cfg.BlevePath,
		DatabaseURL: cfg.DatabaseURL,
		RedisURL:    cfg.RedisURL,
	})
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.IndexDriver).Msg("index store unavailable")
	}
	defer index.Close()
	logger.Info().Str("driver", index.Driver()).Msg("index store ready")

	notifier, err := newNotifier(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.LedgerDriver).Msg("ledger client failed")
	}
	defer notifier.Close()
	logger.Info().
		Str("driver", notifier.Driver()).
		Str("topic", cfg.TopicID()).
		Msg("ledger notifier ready")

	// Redis backs the rate limiter when configured. The redis index driver
	// already holds a client, which is shared.
	rdb := store.RedisClient(index)
	if rdb == nil && cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		rdb = redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Msg("redis connection failed")
		}
		defer rdb.Close()
		logger.Info().Msg("connected to Redis")
	}

	svc := chat.NewService(chat.Options{
		Store:         index,
		Ledger:        notifier,
		Replies:       newReplies(cfg, logger),
		Topic:         cfg.TopicID(),
		LedgerTimeout: cfg.LedgerTimeout,
		Logger:        logger,
	})

	router := api.NewRouter(api.Options{
		Logger:      logger,
		Chat:        svc,
		Index:       index,
		Ledger:      notifier,
		Redis:       rdb,
		CORSOrigins: cfg.CORSOrigins,
		RateLimit: middleware.RateLimiterConfig{
			Whitelist:        cfg.RateLimitWhitelist,
			AutoBlockEnabled: cfg.AutoBlockEnabled,
		},
	})

	// The write timeout has to outlast a ledger round trip.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.LedgerTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Msg("starting chat server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown with 30 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}

func newNotifier(cfg *config.Config, logger zerolog.Logger) (ledger.Notifier, error) {
	if cfg.LedgerDriver == ledger.DriverLog {
		return ledger.Instrument(ledger.NewLogNotifier(logger)), nil
	}
	n, err := ledger.NewHederaNotifier(ledger.HederaConfig{
		Network:    cfg.HederaNetwork,
		AccountID:  cfg.HederaAccountID,
		PrivateKey: cfg.HederaPrivateKey,
	}, logger)
	if err != nil {
		return nil, err
	}
	return ledger.Instrument(n), nil
}

func newReplies(cfg *config.Config, logger zerolog.Logger) reply.Generator {
	if cfg.GroqAPIKey == "" {
		logger.Info().Msg("GROQ_API_KEY not set, using canned replies")
		return reply.NewCanned("")
	}
	return reply.NewOpenAIGenerator(reply.Config{
		APIKey:  cfg.GroqAPIKey,
		BaseURL: cfg.ReplyBaseURL,
		Model:   cfg.ReplyModel,
	})
}
