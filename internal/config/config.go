// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config

import (
	"errors"
	"fmt"
	"strings"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

var configFile = altsrc.StringSourcer("config.toml")

// ErrNoBaseURL is returned when no confirmation link base URL can be
// resolved from the configured candidates.
var ErrNoBaseURL = errors.New("no base URL configured")

type Config struct { //nolint:govet // fieldalignment not critical for config structs
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Session  SessionConfig
	Auth     AuthConfig
	Site     SiteConfig
	Billing  BillingConfig
}

type ServerConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host        string
	Port        int
	MaxBodySize int // in MB
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

type DatabaseConfig struct {
	DSN string
}

type SMTPConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	TLS      bool
}

type SessionConfig struct { //nolint:govet // fieldalignment not critical
	CookieName string // Session cookie name
	MaxAge     int    // Session max age in seconds
	HashKey    string // 32-byte hex string for HMAC signing
	BlockKey   string // 32-byte hex string for AES encryption (optional)
}

type AuthConfig struct {
	AdminEmail    string // Bootstrap admin account email
	AdminPassword string // Bootstrap admin account password
}

// SiteConfig holds the public-facing URL candidates. Outbound links (for
// example newsletter confirmation links) resolve through an ordered chain:
// PublicSiteURL, SiteURL, DeployHost, then a localhost default outside
// production.
type SiteConfig struct { //nolint:govet // fieldalignment not critical for config structs
	PublicSiteURL string
	SiteURL       string
	DeployHost    string // Host injected by the deployment platform, no scheme
	Environment   string // production, development
}

type BillingConfig struct {
	WebhookSecret string // Shared secret expected on provider webhook calls
}

func NewFromCLI(cmd *cli.Command) *Config {
	return &Config{
		Server: ServerConfig{
			Host:        cmd.String("host"),
			Port:        int(cmd.Int("port")),
			MaxBodySize: int(cmd.Int("max-body-size")),
		},
		Log: LogConfig{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Database: DatabaseConfig{
			DSN: cmd.String("database-dsn"),
		},
		SMTP: SMTPConfig{
			Host:     cmd.String("smtp-host"),
			Port:     int(cmd.Int("smtp-port")),
			Username: cmd.String("smtp-username"),
			Password: cmd.String("smtp-password"),
			From:     cmd.String("smtp-from"),
			FromName: cmd.String("smtp-from-name"),
			TLS:      cmd.Bool("smtp-tls"),
		},
		Session: SessionConfig{
			CookieName: cmd.String("session-cookie-name"),
			MaxAge:     int(cmd.Int("session-max-age")),
			HashKey:    cmd.String("session-hash-key"),
			BlockKey:   cmd.String("session-block-key"),
		},
		Auth: AuthConfig{
			AdminEmail:    cmd.String("admin-email"),
			AdminPassword: cmd.String("admin-password"),
		},
		Site: SiteConfig{
			PublicSiteURL: cmd.String("public-site-url"),
			SiteURL:       cmd.String("site-url"),
			DeployHost:    cmd.String("deploy-host"),
			Environment:   cmd.String("environment"),
		},
		Billing: BillingConfig{
			WebhookSecret: cmd.String("billing-webhook-secret"),
		},
	}
}

// IsProduction reports whether the site runs in production mode.
func (s *SiteConfig) IsProduction() bool {
	return strings.EqualFold(s.Environment, "production")
}

// ResolveBaseURL walks the candidate chain and returns the base URL for
// outbound links without a trailing slash. The localhost fallback only
// applies outside production; with nothing resolvable it returns
// ErrNoBaseURL, a deployment precondition failure rather than a user error.
func (s *SiteConfig) ResolveBaseURL() (string, error) {
	if s.PublicSiteURL != "" {
		return strings.TrimSuffix(s.PublicSiteURL, "/"), nil
	}
	if s.SiteURL != "" {
		return strings.TrimSuffix(s.SiteURL, "/"), nil
	}
	if s.DeployHost != "" {
		return "https://" + strings.TrimSuffix(s.DeployHost, "/"), nil
	}
	if !s.IsProduction() {
		return "http://localhost:8080", nil
	}
	return "", ErrNoBaseURL
}

// Validate checks settings that have to be present before startup.
func (c *Config) Validate() error {
	if c.Session.HashKey == "" && c.Site.IsProduction() {
		return fmt.Errorf("session hash key is required in production")
	}
	return nil
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "Host to bind to",
			Sources: cli.NewValueSourceChain(cli.EnvVar("HOST"), toml.TOML("server.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "Port to listen on",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PORT"), toml.TOML("server.port", configFile)),
		},
		&cli.IntFlag{
			Name:    "max-body-size",
			Value:   1,
			Usage:   "Maximum request body size in MB",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAX_BODY_SIZE"), toml.TOML("server.max_body_size", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_LEVEL"), toml.TOML("log.level", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "Log format (text, json)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_FORMAT"), toml.TOML("log.format", configFile)),
		},
		&cli.StringFlag{
			Name:    "database-dsn",
			Value:   "./data/app.db",
			Usage:   "Database DSN",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DATABASE_DSN"), toml.TOML("database.dsn", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-host",
			Usage:   "SMTP server host",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_HOST"), toml.TOML("smtp.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "smtp-port",
			Value:   587,
			Usage:   "SMTP server port",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PORT"), toml.TOML("smtp.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-username",
			Usage:   "SMTP username",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_USERNAME"), toml.TOML("smtp.username", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-password",
			Usage:   "SMTP password",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PASSWORD"), toml.TOML("smtp.password", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from",
			Usage:   "Sender address for outbound mail",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM"), toml.TOML("smtp.from", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from-name",
			Usage:   "Sender display name for outbound mail",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM_NAME"), toml.TOML("smtp.from_name", configFile)),
		},
		&cli.BoolFlag{
			Name:    "smtp-tls",
			Value:   true,
			Usage:   "Require TLS for SMTP",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_TLS"), toml.TOML("smtp.tls", configFile)),
		},
		&cli.StringFlag{
			Name:    "session-cookie-name",
			Value:   "_session",
			Usage:   "Session cookie name",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_COOKIE_NAME"), toml.TOML("session.cookie_name", configFile)),
		},
		&cli.IntFlag{
			Name:    "session-max-age",
			Value:   604800, // 7 days in seconds
			Usage:   "Session max age in seconds",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_MAX_AGE"), toml.TOML("session.max_age", configFile)),
		},
		&cli.StringFlag{
			Name:    "session-hash-key",
			Usage:   "Session hash key (32-byte hex, auto-generated if empty in dev)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_HASH_KEY"), toml.TOML("session.hash_key", configFile)),
		},
		&cli.StringFlag{
			Name:    "session-block-key",
			Usage:   "Session block key for encryption (32-byte hex, optional)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_BLOCK_KEY"), toml.TOML("session.block_key", configFile)),
		},
		&cli.StringFlag{
			Name:    "admin-email",
			Usage:   "Bootstrap admin account email",
			Sources: cli.NewValueSourceChain(cli.EnvVar("ADMIN_EMAIL"), toml.TOML("auth.admin_email", configFile)),
		},
		&cli.StringFlag{
			Name:    "admin-password",
			Usage:   "Bootstrap admin account password",
			Sources: cli.NewValueSourceChain(cli.EnvVar("ADMIN_PASSWORD"), toml.TOML("auth.admin_password", configFile)),
		},
		&cli.StringFlag{
			Name:    "public-site-url",
			Usage:   "Explicit public site URL used for outbound links",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PUBLIC_SITE_URL"), toml.TOML("site.public_site_url", configFile)),
		},
		&cli.StringFlag{
			Name:    "site-url",
			Usage:   "Generic site URL, second candidate for outbound links",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SITE_URL"), toml.TOML("site.site_url", configFile)),
		},
		&cli.StringFlag{
			Name:    "deploy-host",
			Usage:   "Host provided by the deployment platform",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DEPLOY_HOST"), toml.TOML("site.deploy_host", configFile)),
		},
		&cli.StringFlag{
			Name:    "environment",
			Value:   "development",
			Usage:   "Runtime environment (production, development)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("ENVIRONMENT"), toml.TOML("site.environment", configFile)),
		},
		&cli.StringFlag{
			Name:    "billing-webhook-secret",
			Usage:   "Shared secret expected on billing webhook calls",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BILLING_WEBHOOK_SECRET"), toml.TOML("billing.webhook_secret", configFile)),
		},
	}
}
