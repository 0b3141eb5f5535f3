// Package main is the entry point for the Atlant CMS server: the
// content backend for the corporate site, serving a public read API
// and a token-protected admin API.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/prn-tf/atlant-cms/internal/app"
	"github.com/prn-tf/atlant-cms/internal/auth"
	"github.com/prn-tf/atlant-cms/internal/config"
	"github.com/prn-tf/atlant-cms/internal/domain"
	"github.com/prn-tf/atlant-cms/internal/handler"
	"github.com/prn-tf/atlant-cms/internal/mediator"
	"github.com/prn-tf/atlant-cms/internal/metrics"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := setupLogger(cfg.Logging)
	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Msg("starting atlant-cms server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *metrics.Metrics
	var opts []mediator.Option
	if cfg.Metrics.Enabled {
		m = metrics.New()
		opts = append(opts, mediator.WithObserver(m))
	}
	med := mediator.New(logger, opts...)

	backends, err := app.Bootstrap(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize backends")
	}
	defer backends.Close()

	if err := app.Register(med, backends.Services); err != nil {
		logger.Fatal().Err(err).Msg("failed to register handlers")
	}

	// Second handler on submission creates: every new form submission
	// is worth a log line editors can alert on.
	err = mediator.RegisterCommand(med, func(ctx context.Context, cmd app.CreateCommand[*domain.Submission]) (any, error) {
		logger.Info().
			Str("form_type", string(cmd.Entity.FormType)).
			Str("name", cmd.Entity.Name.String()).
			Msg("new form submission")
		return nil, nil
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to register submission notifier")
	}

	med.Freeze()

	tokens, err := auth.NewTokenManager([]byte(cfg.Auth.TokenSecret), cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize token manager")
	}

	routerCfg := handler.RouterConfig{
		Mediator:    med,
		Tokens:      tokens,
		Metrics:     m,
		MetricsPath: cfg.Metrics.Path,
		MaxBodySize: cfg.Server.MaxBodySize,
		Logger:      logger,
	}
	if cfg.Storage.Backend == "local" {
		routerCfg.MediaDir = cfg.Storage.DataDir
		routerCfg.MediaPrefix = cfg.Storage.BaseURL
	}
	if backends.Health != nil {
		routerCfg.Healthcheck = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return backends.Health(pingCtx)
		}
	}
	router := handler.NewRouter(routerCfg)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// setupLogger builds the process logger from the logging configuration.
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	zerolog.TimeFieldFormat = cfg.TimeFormat

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	out := os.Stdout
	if cfg.Output == "stderr" {
		out = os.Stderr
	}

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(out)
	}
	return logger.Level(level).With().Timestamp().Logger()
}
