package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/veo1/go-product-catalog/app"
	"github.com/veo1/go-product-catalog/config"
	"github.com/veo1/go-product-catalog/database"
	"github.com/veo1/go-product-catalog/logger"
	"github.com/veo1/go-product-catalog/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New(config.EnvLocal)
		boot.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(cfg.Primary.Env)

	db, err := database.Open(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer database.Close(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to create tables")
	}

	var opts []models.Option
	if cfg.Repository.StrictReferences {
		opts = append(opts, models.WithReferenceCheck())
	}
	repo := models.NewCatalogRepository(db, opts...)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           app.NewRouter(repo, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
