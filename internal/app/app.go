package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/samber/oops"

	channelservice "telewatch/internal/modules/channel/service"
	monitorservice "telewatch/internal/modules/monitor/service"
	sessionservice "telewatch/internal/modules/session/service"
	"telewatch/internal/shared/config"
	"telewatch/internal/transport/control"
	httpserver "telewatch/internal/transport/http"
)

// App is the process-wide orchestrator: it owns the startup order and the
// shutdown protocol that ties the session, the store and the two tasks
// together.
type App struct {
	cfg     *config.Config
	store   *channelservice.Service
	session *sessionservice.Service
	monitor *monitorservice.Service
	repl    *control.REPL
	http    *httpserver.Server
	quit    *QuitSignal
}

// New wires the orchestrator. http may be nil when the feed server is
// disabled.
func New(
	cfg *config.Config,
	store *channelservice.Service,
	session *sessionservice.Service,
	monitor *monitorservice.Service,
	repl *control.REPL,
	http *httpserver.Server,
	quit *QuitSignal,
) *App {
	return &App{
		cfg:     cfg,
		store:   store,
		session: session,
		monitor: monitor,
		repl:    repl,
		http:    http,
		quit:    quit,
	}
}

// Run blocks until a quit command, an interrupt (cancelled ctx) or a fatal
// session error, then executes the shutdown protocol. A fatal session error
// is returned so main can exit non-zero.
func (a *App) Run(ctx context.Context) error {
	if err := a.store.Load(); err != nil {
		return oops.With("context", "loading channel store").Wrap(err)
	}

	if err := a.session.Connect(ctx); err != nil {
		return err
	}
	a.store.SetLister(a.session)

	// Bootstrap login blocks until authenticated or fatally failed; the
	// REPL doubles as the secret source here, before its command loop
	// starts.
	if err := a.session.Authenticate(ctx, a.repl); err != nil {
		return err
	}

	if a.store.Info().Channels == 0 {
		if err := a.store.RefreshFromPlatform(ctx); err != nil {
			slog.Warn("Initial channel refresh failed, cache stays empty", "error", err)
		}
	}

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	go a.monitor.Run(monitorCtx)

	if a.http != nil {
		go func() {
			if err := a.http.Start(); err != nil {
				slog.Error("Activity feed server failed", "error", err)
			}
		}()
	}

	scheduler := a.startScheduler(ctx)

	go func() {
		if err := a.repl.Run(ctx); err != nil {
			slog.Error("Command loop failed", "error", err)
			a.quit.Trigger()
		}
	}()

	var fatal error
	select {
	case <-ctx.Done():
		slog.Info("Interrupt received")
	case <-a.quit.Done():
		slog.Info("Quit requested")
	case err := <-a.session.Fatal():
		slog.Error("Session lost beyond recovery", "error", err)
		fatal = err
	}

	a.shutdown(stopMonitor, scheduler)
	return fatal
}

// shutdown: stop the scheduler, signal the monitoring task and wait within
// the grace period, disconnect the session, flush the store, stop HTTP.
// A monitoring task that misses the deadline is abandoned rather than
// hanging the exit.
func (a *App) shutdown(stopMonitor context.CancelFunc, scheduler *cron.Cron) {
	slog.Info("Shutting down...")

	if scheduler != nil {
		scheduler.Stop()
	}

	grace := time.Duration(a.cfg.ShutdownGraceSeconds) * time.Second
	stopMonitor()
	select {
	case <-a.monitor.Done():
	case <-time.After(grace):
		slog.Warn("Monitoring task did not stop in time, proceeding")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	if err := a.session.Disconnect(shutdownCtx); err != nil {
		slog.Error("Session disconnect failed", "error", err)
	}
	if err := a.store.Save(); err != nil {
		slog.Error("Channel store flush failed", "error", err)
	}
	if a.http != nil {
		if err := a.http.Shutdown(shutdownCtx); err != nil {
			slog.Error("Feed server shutdown failed", "error", err)
		}
	}

	slog.Info("Shutdown complete")
}

// startScheduler arms the optional periodic cache refresh.
func (a *App) startScheduler(ctx context.Context) *cron.Cron {
	if a.cfg.RefreshSchedule == "" {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(a.cfg.RefreshSchedule, func() {
		if err := a.store.RefreshFromPlatform(ctx); err != nil {
			slog.Error("Scheduled channel refresh failed", "error", err)
		}
	})
	if err != nil {
		slog.Error("Invalid refresh schedule, periodic refresh disabled",
			"schedule", a.cfg.RefreshSchedule, "error", err)
		return nil
	}
	c.Start()
	slog.Info("Periodic channel refresh enabled", "schedule", a.cfg.RefreshSchedule)
	return c
}
