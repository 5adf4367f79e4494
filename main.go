package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/TWRT/savvystudy/internal/api"
	"github.com/TWRT/savvystudy/internal/client"
	"github.com/TWRT/savvystudy/internal/client/firebase"
	"github.com/TWRT/savvystudy/internal/config"
	"github.com/TWRT/savvystudy/internal/logging"
	"github.com/TWRT/savvystudy/internal/repository"
)

func main() {
	if err := run(); err != nil {
		log.Fatal("savvystudy stopped", "err", err)
	}
}

// run returns instead of exiting so deferred cleanup, such as closing the
// database, always happens.
func run() error {
	cfg, err := config.Load(config.DefaultConfigPath, ".env")
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	var (
		identity client.IdentityProvider
		store    client.RecordStore
	)
	switch cfg.Store.Backend {
	case config.BackendFirebase:
		authClient := firebase.NewAuthClient(cfg.Firebase.APIKey)
		if cfg.Firebase.AuthURL != "" {
			authClient = authClient.WithBaseURL(cfg.Firebase.AuthURL)
		}
		identity = authClient
		store = firebase.NewDatabaseClient(cfg.Firebase.DatabaseURL)
		logger.Info("Using Firebase backend", "database", cfg.Firebase.DatabaseURL)
	default:
		db, err := repository.InitDB(cfg.Store.SQLitePath)
		if err != nil {
			return fmt.Errorf("initialize DB: %w", err)
		}
		defer db.Close()
		identity = repository.NewUserRepository(db)
		store = repository.NewDocumentRepository(db)
		logger.Info("Using sqlite backend", "path", cfg.Store.SQLitePath)
	}

	handler, sweeper := api.SetupRouter(api.Dependencies{
		Config:   cfg,
		Identity: identity,
		Store:    store,
		Logger:   logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sweeper.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", "err", err)
		}
	}()

	logger.Info("Server running", "addr", cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
