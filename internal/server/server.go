// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

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

	"github.com/ateliercraft/atelier/internal/config"
	"github.com/ateliercraft/atelier/internal/database"
	"github.com/ateliercraft/atelier/internal/i18n"
	"github.com/ateliercraft/atelier/internal/repository"
	"github.com/ateliercraft/atelier/internal/services/auth"
	"github.com/ateliercraft/atelier/internal/services/billing"
	"github.com/ateliercraft/atelier/internal/services/email"
	"github.com/ateliercraft/atelier/internal/services/newsletter"
	"github.com/ateliercraft/atelier/internal/services/session"
	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return err
	}

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"environment", cfg.Site.Environment,
	)

	// Database (opens, tunes, and migrates)
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	// i18n
	if initErr := i18n.Init(); initErr != nil {
		return fmt.Errorf("failed to init i18n: %w", initErr)
	}

	repo := repository.New(db)

	// Services
	authSvc := auth.NewService(repo)
	if err := authSvc.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		return fmt.Errorf("failed to ensure admin account: %w", err)
	}

	sessions, err := session.NewManager(&cfg.Session, cfg.Site.IsProduction())
	if err != nil {
		return fmt.Errorf("failed to create session manager: %w", err)
	}

	sender, err := newsletterSender(cfg)
	if err != nil {
		return err
	}
	newsSvc := newsletter.NewService(repo, sender, &cfg.Site)
	billingSvc := billing.NewService(repo)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	setupMiddleware(e, cfg, sessions, repo)
	setupRoutes(e, &routeDeps{
		cfg:        cfg,
		repo:       repo,
		sessions:   sessions,
		authSvc:    authSvc,
		newsSvc:    newsSvc,
		billingSvc: billingSvc,
	})

	return startWithGracefulShutdown(e, cfg)
}

// newsletterSender picks the SMTP service, or a log-only stand-in when no
// SMTP host is configured outside production.
func newsletterSender(cfg *config.Config) (newsletter.Sender, error) {
	if cfg.SMTP.Host != "" {
		return email.NewService(&cfg.SMTP)
	}
	if cfg.Site.IsProduction() {
		return nil, fmt.Errorf("SMTP configuration is required in production")
	}
	slog.Warn("no SMTP host configured, confirmation links are logged instead of mailed")
	return logSender{}, nil
}

// logSender logs confirmation links instead of mailing them.
type logSender struct{}

func (logSender) SendConfirmation(_ context.Context, to, confirmURL, sourcePath string) error {
	slog.Info("newsletter_confirmation_link", "to", to, "url", confirmURL, "source_path", sourcePath)
	return nil
}

func startWithGracefulShutdown(e *echo.Echo, cfg *config.Config) error {
	errChan := make(chan error, 1)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		slog.Info("server running", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
