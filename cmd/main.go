package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tunestatus"
	"tunestatus/internal/config"
	"tunestatus/internal/handlers"
	"tunestatus/internal/logger"
	"tunestatus/internal/player"
	"tunestatus/internal/repository"
	"tunestatus/internal/repository/db"
	"tunestatus/internal/server"
	"tunestatus/internal/service"
	"tunestatus/internal/slack"

	"github.com/spf13/pflag"
)

const (
	shutdownTimeout = 10 * time.Second
	logTrimInterval = time.Hour
)

// @title                      tunestatus API
// @version                    1.0
// @description                Admin API for the track-to-status daemon.
// @BasePath                   /
// @securityDefinitions.basic  BasicAuth
func main() {
	configPath := pflag.StringP("config", "c", "configs/config.yml", "path to config file")
	logLevel := pflag.String("log-level", "", "override log level (debug|info|warn|error)")
	pflag.Parse()

	log := logger.Get(logger.InfoLevel)

	store, err := config.Load(*configPath)
	if err != nil {
		log.Fatalw("error reading config", "err", err)
	}
	cfg := store.Config()

	level := cfg.Log.Level
	if *logLevel != "" {
		level = *logLevel
	}
	log = logger.Init(level, cfg.Log.File)

	sqlDB, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err, "path", cfg.DB.Path)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	repos := repository.NewRepository(sqlDB, cfg.Cache.Path)

	pl, err := player.New(cfg.Player)
	if err != nil {
		log.Fatalw("failed to init player backend", "err", err, "backend", cfg.Player.Backend)
	}

	hub := handlers.NewRunHub()
	services := service.NewService(service.Deps{
		Config:    store,
		Player:    pl,
		API:       newStatusAPI(store),
		Repos:     repos,
		Filter:    service.NewWordFilter(cfg.Censor.Words),
		Log:       log,
		Broadcast: hub.Broadcast,
	})
	apiHandler := handlers.NewHandler(services, log, hub, "web")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store.Watch(func(next config.Config) {
		log.Infow("config_reloaded", "interval_seconds", next.IntervalSeconds)
	})

	go services.Run(ctx, time.Duration(cfg.IntervalSeconds)*time.Second)
	go trimLogLoop(ctx, services, store, log)

	srv := &server.Server{}
	go func() {
		log.Infow("http_server_starting", "port", cfg.HTTP.Port)
		if serr := srv.Run(cfg.HTTP.Port, apiHandler.InitRoutes()); serr != nil && serr != http.ErrServerClosed {
			log.Fatalw("http server failed", "err", serr)
		}
	}()

	waitForShutdown(cancel, srv, log)
}

// statusAPI resolves the token from the live config on every call so a
// hot-applied token change takes effect without a restart.
type statusAPI struct {
	store  *config.Store
	client *http.Client
}

func newStatusAPI(store *config.Store) *statusAPI {
	return &statusAPI{store: store, client: &http.Client{Timeout: 15 * time.Second}}
}

func (a *statusAPI) GetStatus(ctx context.Context) (tunestatus.StatusSnapshot, error) {
	return slack.NewClient(a.store.Config().Slack.Token, slack.WithHTTPClient(a.client)).GetStatus(ctx)
}

func (a *statusAPI) SetStatus(ctx context.Context, text, emoji string, expiration int64) error {
	return slack.NewClient(a.store.Config().Slack.Token, slack.WithHTTPClient(a.client)).SetStatus(ctx, text, emoji, expiration)
}

// trimLogLoop periodically truncates the daemon log to its configured cap.
func trimLogLoop(ctx context.Context, services *service.Service, store *config.Store, log *logger.Logger) {
	ticker := time.NewTicker(logTrimInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := services.TrimToLast(store.Config().Log.MaxLines); err != nil {
				log.Warnw("log_trim_failed", "err", err)
			}
		}
	}
}

func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down")
	cancel()

	ctx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("shutdown error", "err", err)
	}
}
