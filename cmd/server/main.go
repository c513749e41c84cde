package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/netbank/transfer-service/internal/api/handlers"
	"github.com/netbank/transfer-service/internal/auth"
	"github.com/netbank/transfer-service/internal/config"
	"github.com/netbank/transfer-service/internal/corebank"
	"github.com/netbank/transfer-service/internal/db"
	transferhandlers "github.com/netbank/transfer-service/internal/handlers"
	"github.com/netbank/transfer-service/internal/repository"
	"github.com/netbank/transfer-service/internal/transfer"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.LoadConfig()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err)
	}
	sugar.Infow("configuration loaded",
		"lockoutScope", cfg.PinLockoutScope,
		"pinMode", cfg.PinMode)

	bank := corebank.NewClient(cfg.CoreBankURL)

	// PIN verification collaborator: the upstream route by default, a
	// bcrypt provisioning file when the deployment has no PIN route
	var verifier transfer.PinVerifier = bank
	if cfg.PinMode == config.PinModeLocal {
		local, err := auth.NewLocalVerifier(cfg.PinHashFile)
		if err != nil {
			sugar.Fatalw("pin verifier initialization error", "error", err)
		}
		verifier = local
	}

	// Durable lockout scope keys attempts by instrument id in Postgres;
	// session scope keeps the original reset-on-reopen behavior
	var attemptStore transfer.AttemptStore
	if cfg.PinLockoutScope == config.LockoutScopeDurable {
		pool, err := db.NewPool(context.Background(), cfg.DBUrl, sugar)
		if err != nil {
			sugar.Fatalw("database initialization error", "error", err)
		}
		defer pool.Close()
		attemptStore = repository.NewLockoutRepository(pool)
	}

	svc := transfer.NewService(
		bank,
		verifier,
		bank,
		attemptStore,
		cfg.PinMaxAttempts,
		time.Duration(cfg.SessionTTLMin)*time.Minute,
		sugar,
	)

	router := gin.Default()
	handlers.NewHealthHandler().RegisterRoutes(router)
	transferhandlers.NewTransferHandler(svc, sugar).RegisterRoutes(router)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sugar.Infow("starting transfer gateway", "addr", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
