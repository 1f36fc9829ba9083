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

	"github.com/spf13/pflag"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	fs := pflag.NewFlagSet("starfighter", pflag.ContinueOnError)
	RegisterFlags(fs)
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := LoadConfig(fs, ".")
	if err != nil {
		return err
	}

	log, err := newLogger(os.Stderr, cfg.LogLevel, cfg.LogPretty)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var db *DB
	if cfg.DBPath != "" {
		db, err = OpenDB(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		log.Info().Str("path", cfg.DBPath).Msg("run records enabled")
	}

	metrics, err := NewMetrics()
	if err != nil {
		return err
	}

	secret, err := loadOrCreateSecret(ctx, cfg.TokenSecret, db, log)
	if err != nil {
		return err
	}
	tokens := NewRunTokens(secret, cfg.TokenTTL)

	sessions := NewSessionManager(ctx, cfg, db, metrics, log)
	defer sessions.Close()

	hub := NewHub(sessions, db, tokens, log)
	go hub.Run(ctx)
	go sessions.RunReaper(ctx)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           SetupRoutes(hub, cfg.ClientDir),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.Addr).
			Str("client", cfg.ClientDir).
			Dur("tick", cfg.TickDuration()).
			Msg("server starting")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("shutdown")
		return server.Close()
	}
	return nil
}
