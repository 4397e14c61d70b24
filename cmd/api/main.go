// Package main implements the storefront HTTP API server for The Tip Top.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Thetiptop007/The-Tip-Top/internal/cart"
	apihttp "github.com/Thetiptop007/The-Tip-Top/internal/http"
	"github.com/Thetiptop007/The-Tip-Top/internal/libs/config"
	"github.com/Thetiptop007/The-Tip-Top/internal/libs/obs"
	"github.com/Thetiptop007/The-Tip-Top/internal/scope/db"
	"github.com/rs/zerolog"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Init logger
	obs.InitLogger(cfg.LogLevel)
	logger := obs.Logger("api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, closeSource, err := initCatalog(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize catalog")
	}
	defer closeSource()

	handler := apihttp.NewHandler(catalog, cart.Checkout{
		WhatsAppNumber: cfg.WhatsAppNumber,
		Helpline:       cfg.HelplineNumber,
	}, logger)

	addr := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           apihttp.NewRouter(handler, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", addr).Int("item_count", catalog.Count()).Msg("starting API server")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server failed")
	}
	logger.Info().Msg("server stopped")
}

// initCatalog loads the menu from the configured source
func initCatalog(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*db.Catalog, func(), error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if cfg.CatalogSource != config.CatalogPostgres {
		logger.Info().Str("path", cfg.CatalogPath).Msg("loading menu from file")
		catalog, err := db.LoadCatalog(ctx, &db.FileSource{Path: cfg.CatalogPath})
		return catalog, func() {}, err
	}

	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, nil, err
	}

	logger.Info().Msg("loading menu from Postgres")
	catalog, err := db.LoadCatalog(ctx, database)
	if err != nil {
		database.Close()
		return nil, nil, err
	}
	return catalog, database.Close, nil
}
