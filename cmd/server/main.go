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

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/emel-04/FlatmateHarmony/internal/api"
	"github.com/emel-04/FlatmateHarmony/internal/auth"
	"github.com/emel-04/FlatmateHarmony/internal/chat"
	"github.com/emel-04/FlatmateHarmony/internal/config"
	"github.com/emel-04/FlatmateHarmony/internal/household"
	"github.com/emel-04/FlatmateHarmony/internal/ledger"
	"github.com/emel-04/FlatmateHarmony/internal/storage/sqlite"
	"github.com/emel-04/FlatmateHarmony/pkg/logging"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logging.SetupWith(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)

	store, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer store.Close()
	slog.Info("storage initialized", "database", cfg.DB.Path)

	broker := chat.NewBroker()
	defer broker.Close()

	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	chatSvc := chat.NewService(store, broker)

	handler := api.NewHandler(
		auth.NewPasswordAuthenticator(store),
		tokens,
		household.NewService(store),
		ledger.NewService(store),
		chatSvc,
		chat.NewHandler(chatSvc, store, cfg.Server.AllowedOrigins),
		store,
	)
	router := api.NewRouter(handler, tokens, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Server.Port),
		// h2c lets clients speak HTTP/2 without TLS behind the reverse
		// proxy that terminates it.
		Handler:           h2c.NewHandler(router, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
