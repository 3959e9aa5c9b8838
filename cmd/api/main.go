package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rehearsehq/rehearse/internal/config"
	"github.com/rehearsehq/rehearse/internal/handler"
	tokenHandler "github.com/rehearsehq/rehearse/internal/handler/token"
	"github.com/rehearsehq/rehearse/internal/model/character"
	"github.com/rehearsehq/rehearse/internal/model/module"
	"github.com/rehearsehq/rehearse/internal/service/notes"
	"github.com/rehearsehq/rehearse/internal/service/realtime"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	characterStore := character.NewMemoryStore(character.Seed())
	moduleStore := module.NewMemoryStore(module.Seed())
	notesService := notes.NewService(moduleStore)

	var issuer tokenHandler.Issuer
	if cfg.Realtime.Enabled() {
		issuer = realtime.NewTokenIssuer(cfg.Realtime.SessionURL, cfg.Realtime.APIKey, cfg.Realtime.Model, nil)
		log.Println("Realtime token issuer initialized")
	} else {
		log.Println("Realtime credentials not configured, token endpoint disabled")
	}

	router := handler.NewRouter(characterStore, moduleStore, notesService, issuer, cfg.Realtime.Voice)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Rehearse backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
