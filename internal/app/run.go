package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"

	"weathermon-server/internal/config"
	"weathermon-server/internal/db"
	"weathermon-server/internal/httpapi"
	"weathermon-server/internal/modules/observations"
	obsrepo "weathermon-server/internal/modules/observations/repository"
	obsservice "weathermon-server/internal/modules/observations/service"
	"weathermon-server/internal/modules/session"
	sessrepo "weathermon-server/internal/modules/session/repository"
	sessservice "weathermon-server/internal/modules/session/service"
	"weathermon-server/internal/mqtt"
	"weathermon-server/internal/provider"
	"weathermon-server/internal/regions"
)

func Run(ctx context.Context, cfg config.Config) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"regionsPath", cfg.RegionsPath,
		"sqliteDriver", cfg.SQLiteDriver,
		"sqlitePath", cfg.SQLitePath,
		"mqttBroker", cfg.MQTTBroker,
		"mqttTopic", cfg.MQTTTopic,
		"pollSchedule", cfg.PollSchedule,
		"sessionTTL", cfg.SessionTTL,
	)

	dbConn, err := db.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(dbConn); closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()

	if err := db.Migrate(dbConn); err != nil {
		return err
	}
	slog.Info("database ready")

	registry, err := regions.Load(cfg.RegionsPath)
	if err != nil {
		return err
	}
	slog.Info("regions loaded", "count", registry.Len())

	observationService := obsservice.NewService(
		obsrepo.NewRepository(dbConn),
		registry,
		cfg.MaxQueryHours,
		cfg.MaxDataPoints,
	)
	sessionService := sessservice.NewService(
		sessrepo.NewRepository(dbConn, cfg.SessionTTL),
	)

	// Wire the batch handler before Connect so observations queued by the
	// broker are not dropped right after CONNACK.
	var subscriber *mqtt.Subscriber
	var batchSubscriber observations.BatchSubscriber
	if cfg.MQTTBroker != "" {
		subscriber = mqtt.NewSubscriber(cfg, slog.Default())
		batchSubscriber = subscriber
	}

	mux := httpapi.NewMux(dbConn)
	observations.RegisterFeature(mux, observationService, registry, batchSubscriber)
	session.RegisterFeature(mux, sessionService)

	if subscriber != nil {
		// Short timeout so startup is not blocked when the broker is down.
		connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
		err = subscriber.Connect(connectCtx)
		connectCancel()
		if err != nil {
			slog.Warn("mqtt connection failed (continuing without mqtt)", "error", err)
		}
	}

	scheduler, err := startScheduler(ctx, cfg, observationService, sessionService, registry)
	if err != nil {
		return err
	}

	srv := httpapi.NewServer(cfg, mux)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("scheduler stopping")
	<-scheduler.Stop().Done()

	if subscriber != nil {
		slog.Info("mqtt disconnecting")
		subscriber.Disconnect()
	}

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}

// startScheduler runs the background jobs: expired-session cleanup and,
// when a schedule is configured, the provider poll.
func startScheduler(
	ctx context.Context,
	cfg config.Config,
	observationService *obsservice.Service,
	sessionService *sessservice.Service,
	registry *regions.Registry,
) (*cron.Cron, error) {
	scheduler := cron.New()

	_, err := scheduler.AddFunc(cfg.CleanupSchedule, func() {
		removed, err := sessionService.Cleanup()
		if err != nil {
			slog.Error("session cleanup failed", "error", err)
			return
		}
		if removed > 0 {
			slog.Info("session cleanup", "removed", removed)
		}
	})
	if err != nil {
		return nil, errors.Join(errors.New("invalid CLEANUP_SCHEDULE"), err)
	}

	if cfg.PollSchedule != "" {
		client := provider.NewOpenMeteoClient(cfg.ProviderURL, nil)
		poller := provider.NewPoller(client, observationService, registry, cfg.PollHoursBack, slog.Default())

		if _, err := scheduler.AddFunc(cfg.PollSchedule, func() {
			poller.RunOnce(ctx)
		}); err != nil {
			return nil, errors.Join(errors.New("invalid POLL_SCHEDULE"), err)
		}

		// Prime the store so a fresh deployment serves data before the first
		// scheduled tick.
		go poller.RunOnce(ctx)
	}

	scheduler.Start()
	return scheduler, nil
}
