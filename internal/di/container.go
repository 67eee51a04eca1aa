package di

import (
	"context"
	"log/slog"

	"github.com/samber/do/v2"
	"github.com/samber/oops"

	"telewatch/internal/app"
	activityrepo "telewatch/internal/modules/activity/repository"
	activityservice "telewatch/internal/modules/activity/service"
	channelrepo "telewatch/internal/modules/channel/repository"
	channelservice "telewatch/internal/modules/channel/service"
	feedservice "telewatch/internal/modules/feed/service"
	monitorservice "telewatch/internal/modules/monitor/service"
	sessionservice "telewatch/internal/modules/session/service"
	"telewatch/internal/shared/config"
	"telewatch/internal/transport/control"
	httpserver "telewatch/internal/transport/http"
	"telewatch/internal/transport/telegram"
)

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register Channel Repository
	do.Provide(injector, func(i do.Injector) (channelrepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := channelrepo.NewFileStorage(cfg.StoragePath)
		if err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize channel repository").Wrap(err)
		}
		return repo, nil
	})

	// Register Channel Store
	do.Provide(injector, func(i do.Injector) (*channelservice.Service, error) {
		repo := do.MustInvoke[channelrepo.Repository](i)
		return channelservice.New(repo), nil
	})

	// Register Telegram Client (platform boundary)
	do.Provide(injector, func(i do.Injector) (sessionservice.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		client, err := telegram.New(cfg)
		if err != nil {
			return nil, oops.With("context", "failed to create telegram client").Wrap(err)
		}
		return client, nil
	})

	// Register Session Manager
	do.Provide(injector, func(i do.Injector) (*sessionservice.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		client := do.MustInvoke[sessionservice.Client](i)
		return sessionservice.New(client, sessionservice.Options{
			Phone:                cfg.PhoneNumber,
			MaxReconnectAttempts: cfg.ReconnectMaxAttempts,
		}), nil
	})

	// Register Activity Sink (ring buffer plus optional file log)
	do.Provide(injector, func(i do.Injector) (*activityservice.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		ring := activityrepo.NewRing(cfg.RingSize)

		var extra []activityrepo.Repository
		if cfg.ActivityLog {
			fileLog, err := activityrepo.NewFileStorage(cfg.StoragePath)
			if err != nil {
				return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize activity log").Wrap(err)
			}
			extra = append(extra, fileLog)
		}
		return activityservice.New(ring, extra...), nil
	})

	// Register Monitoring Task
	do.Provide(injector, func(i do.Injector) (*monitorservice.Service, error) {
		session := do.MustInvoke[*sessionservice.Service](i)
		store := do.MustInvoke[*channelservice.Service](i)
		sink := do.MustInvoke[*activityservice.Service](i)
		return monitorservice.New(session, store, sink), nil
	})

	// Register Feed Service
	do.Provide(injector, func(i do.Injector) (*feedservice.Service, error) {
		activity := do.MustInvoke[*activityservice.Service](i)
		return feedservice.New(activity), nil
	})

	// Register Quit Signal
	do.Provide(injector, func(i do.Injector) (*app.QuitSignal, error) {
		return app.NewQuitSignal(), nil
	})

	// Register Control Task
	do.Provide(injector, func(i do.Injector) (*control.Controller, error) {
		store := do.MustInvoke[*channelservice.Service](i)
		session := do.MustInvoke[*sessionservice.Service](i)
		monitor := do.MustInvoke[*monitorservice.Service](i)
		quit := do.MustInvoke[*app.QuitSignal](i)
		return control.New(store, session, monitor, quit.Trigger), nil
	})

	// Register REPL
	do.Provide(injector, func(i do.Injector) (*control.REPL, error) {
		controller := do.MustInvoke[*control.Controller](i)
		return control.NewREPL(controller, nil, nil), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpserver.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		feed := do.MustInvoke[*feedservice.Service](i)
		session := do.MustInvoke[*sessionservice.Service](i)
		store := do.MustInvoke[*channelservice.Service](i)
		monitor := do.MustInvoke[*monitorservice.Service](i)
		server := httpserver.New(cfg, feed, session, store, monitor)
		server.SetLogger(slog.Default())
		return server, nil
	})

	// Register App Controller
	do.Provide(injector, func(i do.Injector) (*app.App, error) {
		cfg := do.MustInvoke[*config.Config](i)
		store := do.MustInvoke[*channelservice.Service](i)
		session := do.MustInvoke[*sessionservice.Service](i)
		monitor := do.MustInvoke[*monitorservice.Service](i)
		repl := do.MustInvoke[*control.REPL](i)
		quit := do.MustInvoke[*app.QuitSignal](i)

		var server *httpserver.Server
		if cfg.HTTPEnabled {
			server = do.MustInvoke[*httpserver.Server](i)
		}
		return app.New(cfg, store, session, monitor, repl, server, quit), nil
	})

	return injector, nil
}

// Shutdown gracefully shuts down all services
func Shutdown(injector do.Injector) error {
	ctx := context.Background()

	// The app controller runs the shutdown protocol itself; disconnect is
	// idempotent so this is a safety net, not a second teardown.
	if session, err := do.Invoke[*sessionservice.Service](injector); err == nil && session != nil {
		if err := session.Disconnect(ctx); err != nil {
			return err
		}
	}
	return nil
}
