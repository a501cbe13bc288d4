package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mergington/internal/adapters/email"
	web "mergington/internal/adapters/http"
	"mergington/internal/adapters/http/perf"
	"mergington/internal/adapters/storage"
	activityStore "mergington/internal/adapters/storage/activity"
	teacherStore "mergington/internal/adapters/storage/teacher"
	"mergington/internal/application/orchestrators"
	"mergington/internal/config"
	"mergington/internal/logging"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Getenv, nil); err != nil {
		slog.Error("server_failed", "error", err.Error())
		os.Exit(1)
	}
}

// run starts the server and blocks until ctx is cancelled or serving fails.
// When ready is non-nil it receives the bound address once the listener is up.
func run(ctx context.Context, getenv func(string) string, ready chan<- string) error {
	cfg, err := config.Load(getenv)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logging.Setup(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}

	startedAt := time.Now()
	collector := perf.NewCollector(perf.DefaultRingSize)

	activities, closeStore, err := openActivityStore(cfg, collector)
	if err != nil {
		return err
	}
	defer closeStore()

	// Every start resets rosters to the seed data, whichever backend is used.
	if err := orchestrators.ExecuteSeedActivities(ctx, orchestrators.SeedActivitiesDeps{ActivityStore: activities}); err != nil {
		return fmt.Errorf("seed activities: %w", err)
	}

	teachers := teacherStore.LoadFileStore(cfg.TeachersFile)

	handler := web.NewMux(web.MuxConfig{
		StaticDir:     cfg.StaticDir,
		SecureCookies: cfg.IsProduction(),
		CSRFKey:       cfg.CSRFKey,
		SlowRequestMs: cfg.SlowRequestMs,
		Collector:     collector,
		Sender:        newSender(cfg),
	}, web.Stores{ActivityStore: activities, TeacherStore: teachers})

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("server_starting",
		"version", version,
		"addr", listener.Addr().String(),
		"env", cfg.Env,
		"store", cfg.Store,
		"teachers", teachers.Count(),
		"csrf", cfg.CSRFKey != nil,
	)
	if ready != nil {
		ready <- listener.Addr().String()
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		slog.Info("server_stopping")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}

	collector.LogSummary(startedAt, 5)
	return nil
}

// openActivityStore builds the configured registry backend.
// The returned close function is always safe to call.
func openActivityStore(cfg config.Config, collector *perf.Collector) (activityStore.Store, func(), error) {
	if cfg.Store != config.StoreSQLite {
		return activityStore.NewMemoryStore(), func() {}, nil
	}

	db, err := storage.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, func() {}, fmt.Errorf("open activity database: %w", err)
	}
	timed := storage.NewTimedDB(db, collector, cfg.SlowQueryMs)
	slog.Info("activity_store_opened", "backend", config.StoreSQLite, "path", cfg.DBPath)
	return activityStore.NewSQLiteStore(timed), func() { timed.Close() }, nil
}

// newSender picks Resend when a key is configured and a logging no-op otherwise.
func newSender(cfg config.Config) email.Sender {
	if cfg.ResendAPIKey != "" {
		slog.Info("email_sender_configured", "provider", "resend", "from", cfg.EmailFrom)
		return email.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom)
	}
	if cfg.IsProduction() {
		slog.Warn("email_sender_configured", "provider", "noop", "reason", "MERGINGTON_RESEND_KEY not set")
	} else {
		slog.Info("email_sender_configured", "provider", "noop")
	}
	return email.NewNoopSender()
}
