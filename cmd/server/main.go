package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/rezkam/cardfile/internal/application/material"
	"github.com/rezkam/cardfile/internal/application/notify"
	"github.com/rezkam/cardfile/internal/auth"
	"github.com/rezkam/cardfile/internal/config"
	cardfilehttp "github.com/rezkam/cardfile/internal/http"
	"github.com/rezkam/cardfile/internal/http/handler"
	"github.com/rezkam/cardfile/internal/http/middleware"
	"github.com/rezkam/cardfile/internal/mailer"
	sqlstorage "github.com/rezkam/cardfile/internal/storage/sql"
	"github.com/rezkam/cardfile/pkg/observability"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Root context for all normal operations, cancelled on SIGTERM/SIGINT.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Observability first so everything below logs through it. The OTLP
	// endpoint comes from the standard OTEL_* env vars.
	providers, err := observability.Setup(ctx, cfg.Observability.ServiceName, cfg.Observability.OTelEnabled)
	if err != nil {
		return fmt.Errorf("failed to init observability: %w", err)
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			slog.Error("failed to shutdown observability providers", "error", err)
		}
	}()
	slog.SetDefault(providers.Logger)

	slog.InfoContext(ctx, "starting cardfile service")

	store, err := sqlstorage.NewStore(ctx, sqlstorage.DBConfig{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		AutoMigrate:     cfg.Database.AutoMigrate,
	})
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	defer store.Close()

	slog.InfoContext(ctx, "storage initialized",
		"driver", cfg.Database.Driver,
		"dsn", maskPassword(cfg.Database.DSN))

	// Notifications: SMTP when configured, otherwise dropped silently.
	var sender notify.Sender = notify.NopSender{}
	if cfg.Mail.Enabled {
		sender, err = mailer.New(mailer.Config{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		})
		if err != nil {
			return fmt.Errorf("failed to create mailer: %w", err)
		}
		slog.InfoContext(ctx, "mail notifications enabled", "host", cfg.Mail.Host)
	}

	dispatcher := notify.NewDispatcher(sender,
		notify.WithQueueSize(cfg.Notify.QueueSize),
		notify.WithSendTimeout(cfg.Notify.SendTimeout))
	dispatcher.Start(ctx)

	materials := material.NewService(store, dispatcher, material.Config{
		DefaultPageSize: cfg.Pagination.DefaultPageSize,
		MaxPageSize:     cfg.Pagination.MaxPageSize,
	})

	verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	router := cardfilehttp.NewRouter(handler.NewServer(materials), middleware.NewAuth(verifier))

	server := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           otelhttp.NewHandler(router, "cardfile-http"),
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	errResult := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errResult <- fmt.Errorf("failed to serve HTTP: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.WarnContext(shutdownCtx, "HTTP server shutdown timed out, forcing close", "error", err)
			server.Close()
		} else {
			slog.InfoContext(shutdownCtx, "HTTP server shutdown complete")
		}

		// Drain queued notifications before dropping the store.
		if err := dispatcher.Shutdown(shutdownCtx); err != nil {
			slog.WarnContext(shutdownCtx, "notification dispatcher shutdown timeout", "error", err)
		} else {
			slog.InfoContext(shutdownCtx, "notification dispatcher shutdown complete")
		}

		return nil
	case err := <-errResult:
		return err
	}
}

// maskPassword masks the password in a connection string for logging.
func maskPassword(connStr string) string {
	u, err := url.Parse(connStr)
	if err != nil {
		// If parsing fails, fall back to full redaction to be safe
		return "[REDACTED]"
	}
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), "xxxxxx")
		}
	}
	return u.String()
}
