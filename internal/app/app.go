// Package app assembles the adapters and screens shared by every binary.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ericfisherdev/ibank/internal/adapter/driven/bankapi"
	"github.com/ericfisherdev/ibank/internal/adapter/driven/metrics"
	sqliteadapter "github.com/ericfisherdev/ibank/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/ibank/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/ibank/internal/adapter/driving/web"
	"github.com/ericfisherdev/ibank/internal/application"
	"github.com/ericfisherdev/ibank/internal/config"
)

// App is the wired object graph. Close releases what Build opened.
type App struct {
	Config    *config.Config
	Premium   bool
	Bank      *bankapi.Client
	Formatter *application.Formatter
	Metrics   *metrics.Recorder
	Screens   *application.Screens
	Logger    *slog.Logger

	db *sqliteadapter.DB
}

// Build wires the application from cfg. The viewer's premium status is
// resolved once here; the SQLite cache is only opened for premium viewers.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	bank, err := bankapi.NewClient(cfg.APIBaseURL, cfg.APIToken, cfg.APITimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("create bank api client: %w", err)
	}

	a := &App{
		Config:    cfg,
		Bank:      bank,
		Formatter: application.NewFormatter(cfg.Locale, cfg.Timezone),
		Metrics:   metrics.NewRecorder(),
		Logger:    logger,
	}

	a.Premium = application.ResolvePremium(ctx, bank, cfg.Premium, logger)

	deps := application.ScreenDeps{
		FriendsAPI:   bank,
		CardsAPI:     bank,
		TransfersAPI: bank,
		Formatter:    a.Formatter,
		Premium:      a.Premium,
		Recorder:     a.Metrics,
		Logger:       logger,
	}

	if a.Premium {
		db, err := openCache(ctx, cfg.DBPath)
		if err != nil {
			return nil, err
		}
		a.db = db
		cache := sqliteadapter.NewFriendsCache(db)
		deps.FriendsCache = cache

		if savedAt, err := cache.SavedAt(ctx); err == nil {
			logger.Info("friends cache opened", "path", cfg.DBPath, "saved_at", savedAt)
		} else {
			logger.Info("friends cache opened", "path", cfg.DBPath, "state", err)
		}
	}

	a.Screens = application.NewScreens(deps)
	return a, nil
}

func openCache(ctx context.Context, path string) (*sqliteadapter.DB, error) {
	db, err := sqliteadapter.NewDB(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open friends cache: %w", err)
	}
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return db, nil
}

// Handler serves the JSON API, the HTML GUI and /metrics behind the shared
// middleware chain.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()

	api := httphandler.NewHandler(a.Screens, a.Formatter, a.Metrics.Handler(), a.Logger)
	httphandler.RegisterAPIRoutes(mux, api)

	web := webhandler.NewHandler(a.Screens, a.Formatter, a.Logger)
	webhandler.RegisterRoutes(mux, web)

	return httphandler.ApplyMiddleware(mux, a.Logger, httphandler.MiddlewareOptions{
		RateLimit: a.Config.RateLimit,
		RateBurst: a.Config.RateBurst,
		Recorder:  a.Metrics,
	})
}

// Close releases the friends cache, if one was opened.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("close friends cache: %w", err)
	}
	return nil
}
