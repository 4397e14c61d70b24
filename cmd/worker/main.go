// Package main implements the live admin worker: it listens on the backend
// socket, raises order notifications and keeps dashboard stats current.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Thetiptop007/The-Tip-Top/internal/adminapi"
	"github.com/Thetiptop007/The-Tip-Top/internal/libs/config"
	"github.com/Thetiptop007/The-Tip-Top/internal/libs/obs"
	"github.com/Thetiptop007/The-Tip-Top/internal/notify"
	"github.com/Thetiptop007/The-Tip-Top/internal/relay"
	"github.com/Thetiptop007/The-Tip-Top/internal/scope/listing"
	"github.com/Thetiptop007/The-Tip-Top/internal/streamlite"
)

const statsRefresh = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	obs.InitLogger(cfg.LogLevel)
	logger := obs.Logger("worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := adminapi.New(cfg.AdminAPIURL,
		adminapi.WithToken(cfg.AdminToken),
		adminapi.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		adminapi.WithLogger(obs.Logger("adminapi")),
	)

	bus := relay.NewBus(obs.Logger("relay"))
	notifier := notify.NewService(nil, obs.Logger("notify"))
	defer notifier.Attach(bus)()

	agg := listing.NewAggregator(obs.Logger("stats"), client.DashboardSources()...)
	defer bus.OnAdminStats(func(ctx context.Context, live map[string]float64) {
		stats := agg.Merge(live)
		logger.Info().Int("fields", len(stats)).Msg("live stats merged")
	})()
	defer bus.OnNotification(func(ctx context.Context, n relay.Notification) {
		logger.Info().Str("type", n.Type).Str("title", n.Title).Msg(n.Message)
	})()

	refreshStats := func() {
		stats, err := agg.Collect(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("some stats sources failed")
		}
		logger.Info().Interface("stats", stats).Msg("dashboard stats")
	}
	refreshStats()

	socket := streamlite.NewSocketConnector(cfg.SocketURL, bus, streamlite.SocketOptions{
		Token:  cfg.AdminToken,
		Logger: obs.Logger("socket"),
	})
	if err := socket.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect socket")
	}
	defer func() { _ = socket.Stop() }()

	if err := socket.RequestStats(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to request live stats")
	}

	logger.Info().Str("socket", cfg.SocketURL).Msg("worker started")

	ticker := time.NewTicker(statsRefresh)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("worker stopping")
			return
		case <-ticker.C:
			refreshStats()
			if socket.Connected() {
				continue
			}
			logger.Warn().Msg("socket down, reconnecting")
			_ = socket.Stop()
			if err := socket.Start(ctx); err != nil {
				logger.Warn().Err(err).Msg("socket reconnect failed")
			}
		}
	}
}
