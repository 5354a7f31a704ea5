package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/pairchat/pairchat/internal/adapters/http"
	"github.com/pairchat/pairchat/internal/app"
	"github.com/pairchat/pairchat/internal/config"
	"github.com/pairchat/pairchat/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	for _, dir := range []string{cfg.DataDir, cfg.UploadDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal().Err(err).Str("dir", dir).Msg("cannot create directory")
		}
	}

	db, err := badger.Open(badger.DefaultOptions(cfg.DataDir).WithLoggingLevel(badger.ERROR))
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("cannot open room store")
	}

	rooms := store.New(db)
	presence := app.NewPresenceTracker()
	coord := app.NewCoordinator(rooms, presence)

	r := router.SetupRouter(ctx, cfg, coord, rooms)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("pairchat server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := db.Close(); err != nil {
		log.Error().Err(err).Msg("room store close failed")
	}
	log.Info().Msg("Server exited gracefully")
}
