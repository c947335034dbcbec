package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"todoApp/internal/auth"
	"todoApp/internal/config"
	"todoApp/internal/db"
	grpcserver "todoApp/internal/grpc"
	"todoApp/internal/httpapi"
	"todoApp/internal/logging"
	"todoApp/repository"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API and the gRPC health endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	log, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	log.Info("configuration loaded", zap.Stringer("config", cfg))

	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.Warn("close db", zap.Error(err))
		}
	}()

	revoker, closeRevoker := newRevoker(cfg.Redis, log)
	defer closeRevoker()

	tm, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, auth.WithRevoker(revoker))
	if err != nil {
		return err
	}

	var books repository.BookStore
	if cfg.Books.Store == "memory" {
		books = repository.NewMemoryBookStore(repository.SampleBooks()...)
	}

	api := httpapi.New(d, httpapi.Options{
		Tokens:             tm,
		Books:              books,
		Logger:             log,
		BcryptCost:         cfg.Auth.BcryptCost,
		AllowAdminSignup:   cfg.Auth.AllowAdminSignup,
		LoginRatePerMinute: cfg.HTTP.LoginRatePerMinute,
	})

	var grpcShutdown func(context.Context) error
	if cfg.GRPC.Address != "" {
		_, grpcShutdown, err = grpcserver.Start(cfg.GRPC.Address, tm, log)
		if err != nil {
			return fmt.Errorf("start grpc: %w", err)
		}
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("address", cfg.HTTP.Address))
		errc <- api.Start(cfg.HTTP.Address)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case serveErr = <-errc:
		if serveErr != nil {
			log.Error("http server stopped", zap.Error(serveErr))
		}
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if grpcShutdown != nil {
		if err := grpcShutdown(sctx); err != nil {
			log.Warn("grpc shutdown", zap.Error(err))
		}
	}
	if err := api.Shutdown(sctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Warn("http shutdown", zap.Error(err))
	}
	return serveErr
}

// newRevoker shares revocations through Redis when configured, otherwise keeps
// them in this process.
func newRevoker(cfg config.RedisConfig, log *zap.Logger) (auth.Revoker, func()) {
	if cfg.Address == "" {
		return auth.NewMemoryRevoker(), func() {}
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Address, Password: cfg.Password, DB: cfg.DB})
	log.Info("token revocations in redis", zap.String("address", cfg.Address))
	return auth.NewRedisRevoker(rdb), func() {
		if err := rdb.Close(); err != nil {
			log.Warn("close redis", zap.Error(err))
		}
	}
}
