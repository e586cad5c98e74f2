// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cargovortex/notify-relay/internal/api"
	"github.com/cargovortex/notify-relay/internal/config"
	"github.com/cargovortex/notify-relay/internal/notify"
	"github.com/cargovortex/notify-relay/internal/notify/directchannel"
	"github.com/cargovortex/notify-relay/internal/notify/webhook"
	"github.com/cargovortex/notify-relay/internal/pkg/httputil"
	"github.com/cargovortex/notify-relay/internal/slack"
	"github.com/cargovortex/notify-relay/internal/version"
)

// App represents the application instance.
type App struct {
	config        *config.Config
	logger        *slog.Logger
	server        *http.Server
	metricsServer *http.Server
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	logger := initLogger(cfg.Log)
	slog.SetDefault(logger)

	app := &App{
		config: cfg,
		logger: logger,
	}

	router := app.setupRouter()

	app.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Metrics server on separate port
	metricsRouter := chi.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.Handler())

	app.metricsServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.MetricsPort),
		Handler:           metricsRouter,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return app, nil
}

// Run starts the HTTP servers.
func (a *App) Run() error {
	go func() {
		a.logger.Info("starting metrics server",
			"host", a.config.Server.Host,
			"port", a.config.Server.MetricsPort,
		)
		if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server error", "error", err)
		}
	}()

	a.logger.Info("starting server",
		"host", a.config.Server.Host,
		"port", a.config.Server.Port,
	)

	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down servers")

	var wg sync.WaitGroup
	var errs []error
	var mu sync.Mutex

	wg.Add(2)

	go func() {
		defer wg.Done()
		if err := a.server.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown server: %w", err))
			mu.Unlock()
		}
	}()

	go func() {
		defer wg.Done()
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown metrics server: %w", err))
			mu.Unlock()
		}
	}()

	wg.Wait()

	return errors.Join(errs...)
}

// Router returns the HTTP handler for testing.
func (a *App) Router() http.Handler {
	return a.server.Handler
}

func (a *App) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware must be first to measure full request time
	r.Use(httputil.MetricsMiddleware)

	r.Use(httputil.CORSMiddleware(a.config.CORS.AllowedOrigins))
	r.Use(middleware.RequestID)
	r.Use(httputil.RequestLoggerMiddleware(a.logger))
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", a.healthzHandler)
	r.Get("/version", a.versionHandler)

	dispatcher := BuildDispatcher(a.config)
	handler := api.NewHandler(dispatcher)

	r.Route("/api/v1", func(r chi.Router) {
		handler.RegisterRoutes(r)
	})

	return r
}

// BuildDispatcher assembles the notification dispatcher from config.
// Each transport exists exactly when its credential is configured;
// with neither present the dispatcher still works and reports every
// dispatch as a no-transport failure.
func BuildDispatcher(cfg *config.Config) *notify.Dispatcher {
	var direct, hook notify.Transport

	slog.Info("notification transports configured",
		"direct_channel", cfg.Slack.DirectChannelEnabled(),
		"webhook", cfg.Slack.WebhookEnabled(),
	)

	if cfg.Slack.DirectChannelEnabled() {
		client := slack.NewClient(slack.Config{
			BotToken: cfg.Slack.BotToken,
			BaseURL:  cfg.Slack.APIBaseURL,
			Timeout:  cfg.Slack.APITimeout,
		})
		verifyBotToken(client)

		direct = directchannel.NewSender(client, directchannel.Config{
			PrimaryChannel:   cfg.Notifications.PrimaryChannel,
			FallbackChannels: cfg.Notifications.FallbackChannels,
			PostRate:         cfg.Notifications.PostRate,
		})
	}

	if cfg.Slack.WebhookEnabled() {
		hook = webhook.NewSender(webhook.Config{
			URL:       cfg.Slack.WebhookURL,
			Username:  cfg.Notifications.BotUsername,
			IconEmoji: cfg.Notifications.IconEmoji,
		})
	}

	return notify.NewDispatcher(notify.NewFormatter(), direct, hook, notify.DispatcherConfig{
		DirectBudget:      cfg.Notifications.DirectBudget,
		WebhookBudget:     cfg.Notifications.WebhookBudget,
		RedundantDelivery: cfg.Notifications.RedundantDelivery,
	})
}

// verifyBotToken runs an auth.test preflight. A bad token is worth a
// loud warning at startup, but dispatches still degrade to the webhook
// at runtime, so failure is not fatal.
func verifyBotToken(client *slack.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	identity, err := client.AuthTest(ctx)
	if err != nil {
		slog.Warn("bot token verification failed; direct-channel delivery may not work", "error", err)
		return
	}

	slog.Info("bot token verified", "team", identity.Team, "user", identity.User)
}

func (a *App) healthzHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) versionHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{
		"version":    version.Version,
		"commit":     version.GitCommit,
		"build_date": version.BuildDate,
	})
}

func initLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
