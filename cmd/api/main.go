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

	"github.com/MrJamesThe3rd/chama/internal/auth"
	authStore "github.com/MrJamesThe3rd/chama/internal/auth/store"
	"github.com/MrJamesThe3rd/chama/internal/config"
	"github.com/MrJamesThe3rd/chama/internal/database"
	"github.com/MrJamesThe3rd/chama/internal/events/kafka"
	"github.com/MrJamesThe3rd/chama/internal/export"
	chamaHttp "github.com/MrJamesThe3rd/chama/internal/http"
	authHandler "github.com/MrJamesThe3rd/chama/internal/http/auth"
	exportHandler "github.com/MrJamesThe3rd/chama/internal/http/export"
	ledgerHandler "github.com/MrJamesThe3rd/chama/internal/http/ledger"
	memberHandler "github.com/MrJamesThe3rd/chama/internal/http/member"
	notificationHandler "github.com/MrJamesThe3rd/chama/internal/http/notification"
	reportHandler "github.com/MrJamesThe3rd/chama/internal/http/report"
	"github.com/MrJamesThe3rd/chama/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/chama/internal/ledger/store"
	chamaLog "github.com/MrJamesThe3rd/chama/internal/log"
	"github.com/MrJamesThe3rd/chama/internal/member"
	memberStore "github.com/MrJamesThe3rd/chama/internal/member/store"
	"github.com/MrJamesThe3rd/chama/internal/metrics"
	"github.com/MrJamesThe3rd/chama/internal/notification"
	notificationStore "github.com/MrJamesThe3rd/chama/internal/notification/store"
	"github.com/MrJamesThe3rd/chama/internal/report"
	reportStore "github.com/MrJamesThe3rd/chama/internal/report/store"
	"github.com/MrJamesThe3rd/chama/internal/roster"
	rosterStore "github.com/MrJamesThe3rd/chama/internal/roster/store"
	"github.com/MrJamesThe3rd/chama/internal/stats"
	statsStore "github.com/MrJamesThe3rd/chama/internal/stats/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger := chamaLog.New(os.Stdout, chamaLog.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	slog.SetDefault(chamaLog.Component(logger, chamaLog.ComponentApp))

	if err := run(cfg, logger); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	policy, err := cfg.Policy()
	if err != nil {
		return err
	}

	if cfg.DB.Migrate {
		if err := migrate(cfg); err != nil {
			return err
		}
	}

	db, err := database.New(cfg.ConnectionString(), cfg.DB.MaxOpenConns)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	registry := metrics.NewRegistry()

	ledgerOpts := []ledger.Option{
		ledger.WithObserver(metrics.NewLedger(registry)),
		ledger.WithLogger(chamaLog.Component(logger, chamaLog.ComponentLedger)),
	}

	if len(cfg.Kafka.Brokers) > 0 {
		publisher := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer publisher.Close()

		ledgerOpts = append(ledgerOpts, ledger.WithPublisher(publisher))

		slog.Info("publishing ledger events", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}

	var (
		statsService        = stats.NewService(statsStore.New(db))
		authService         = auth.NewService(authStore.New(db), []byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
		ledgerService       = ledger.NewService(ledgerStore.New(db, cfg.DB.AcquireTimeout), policy, ledgerOpts...)
		memberService       = member.NewService(memberStore.New(db), statsService, policy, cfg.Ledger.TreasurerPhone)
		rosterService       = roster.NewService(rosterStore.New(db))
		notificationService = notification.NewService(notificationStore.New(db))
		reportService       = report.NewService(reportStore.New(db), statsService, policy)
		exportService       = export.NewService(reportService)
	)

	router := chamaHttp.New(
		chamaHttp.Options{
			CORSOrigins:  cfg.App.CORSOrigins,
			Authenticate: authHandler.Middleware(authService),
			Metrics:      metrics.Handler(registry),
			Health:       db.PingContext,
		},
		authHandler.NewHandler(authService),
		memberHandler.NewHandler(memberService, rosterService),
		ledgerHandler.NewHandler(ledgerService),
		notificationHandler.NewHandler(notificationService),
		reportHandler.NewHandler(reportService),
		exportHandler.NewHandler(exportService),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "name", cfg.App.Name, "port", cfg.App.Port)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	return nil
}

// migrate runs on its own connection because the migrate driver closes the
// database it is handed.
func migrate(cfg *config.Config) error {
	db, err := database.New(cfg.ConnectionString(), 1)
	if err != nil {
		return fmt.Errorf("connecting for migrations: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		return err
	}

	slog.Info("database migrations applied")

	return nil
}
