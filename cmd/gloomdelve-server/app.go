package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gloomdelve/server/internal/catalog"
	"github.com/gloomdelve/server/internal/config"
	"github.com/gloomdelve/server/internal/constants"
	"github.com/gloomdelve/server/internal/logging"
	"github.com/gloomdelve/server/internal/service"
	"github.com/gloomdelve/server/internal/storage"
	"github.com/gloomdelve/server/internal/version"
)

type app struct {
	cfg *config.Config
	svc *service.Service

	provider *catalog.Provider
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	provider := catalog.NewProvider(cfg.GameDataPath)
	if err := provider.Load(); err != nil {
		return nil, err
	}

	db, err := storage.OpenAndMigrate(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	repo := storage.NewRepository(db)

	return &app{
		cfg:      cfg,
		svc:      service.New(repo, provider, cfg),
		provider: provider,
	}, nil
}

func (a *app) run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go a.svc.RunTimeoutScanner(ctx)

	srv := &http.Server{
		Addr:    a.cfg.ServerAddress,
		Handler: a.router(),
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("server listening", logging.Fields{
			constants.LogFieldAddr: a.cfg.ServerAddress,
			"version":              version.Version,
		})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logging.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
