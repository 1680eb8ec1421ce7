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

	"github.com/lysyi3m/rss-desk/app/api"
	"github.com/lysyi3m/rss-desk/app/cfg"
	"github.com/lysyi3m/rss-desk/app/database"
	"github.com/lysyi3m/rss-desk/app/feed"
	"github.com/lysyi3m/rss-desk/app/webhook"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	setupLogging(appCfg.Debug)

	slog.Info("Starting RSS Desk", "version", appCfg.Version, "timezone", appCfg.Timezone)

	fixtures, err := database.LoadFixtures(appCfg.FixturesDir)
	if err != nil {
		slog.Error("Failed to load fixtures", "dir", appCfg.FixturesDir, "error", err)
		os.Exit(1)
	}

	repos, closeStore, err := openStore(appCfg.DBPath, fixtures)
	if err != nil {
		slog.Error("Failed to open store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	httpClient := &http.Client{}

	fetcher := feed.NewFetcher(httpClient, feed.NewParser(), appCfg.UserAgent, appCfg.FetchTimeout)
	aggregator := feed.NewAggregator(fetcher, repos.Articles, repos.Sources, appCfg.FetchWorkers)
	inspector := feed.NewInspector(fetcher)
	pinger := webhook.NewPinger(httpClient, repos.Webhooks, appCfg.UserAgent, appCfg.FetchTimeout)

	handler := api.NewHandler(repos, aggregator, inspector, pinger, appCfg.Version)
	router := api.NewServer(handler, appCfg.APIAccessKey, appCfg.Debug)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: appCfg.FetchTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server started", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig)
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("RSS Desk shutdown complete")
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// openStore returns sqlite-backed repositories when dbPath is set and
// in-memory ones otherwise, seeded from fixtures either way
func openStore(dbPath string, fixtures *database.Fixtures) (api.Repositories, func(), error) {
	if dbPath == "" {
		slog.Info("Using in-memory stores",
			"sources", len(fixtures.Sources),
			"articles", len(fixtures.Articles))
		return api.Repositories{
			Articles: database.NewMemoryArticleRepository(fixtures.Articles),
			Sources:  database.NewMemorySourceRepository(fixtures.Sources),
			Filters:  database.NewMemoryFilterRepository(fixtures.Filters),
			Users:    database.NewMemoryUserRepository(fixtures.Users),
			Webhooks: database.NewMemoryWebhookRepository(fixtures.Webhooks),
		}, func() {}, nil
	}

	db, err := database.NewConnection(dbPath)
	if err != nil {
		return api.Repositories{}, nil, err
	}

	if err := database.Seed(db, fixtures); err != nil {
		db.Close()
		return api.Repositories{}, nil, err
	}

	slog.Info("Using SQLite store", "path", dbPath)

	closeDB := func() {
		if err := db.Close(); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}

	return api.Repositories{
		Articles: database.NewArticleRepository(db),
		Sources:  database.NewSourceRepository(db),
		Filters:  database.NewFilterRepository(db),
		Users:    database.NewUserRepository(db),
		Webhooks: database.NewWebhookRepository(db),
	}, closeDB, nil
}
