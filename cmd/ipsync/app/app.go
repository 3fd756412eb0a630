// Package app provides configuration and dependency management for the
// ipsync CLI: config loading, logger construction, and signal handling.
package app

import (
	"github.com/rs/zerolog"

	"github.com/edgewatch/ipsync"
	"github.com/edgewatch/ipsync/pkg/logging"
)

// App holds the CLI's shared dependencies.
type App struct {
	version string
	commit  string
	date    string

	config *Config
	logger *zerolog.Logger
}

// New creates an App with configuration loaded from the environment,
// .env files, and the optional config file.
func New(version, commit, date string) (*App, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	logger := NewLogger(config)
	logging.SetDefault(logger)

	return &App{
		version: version,
		commit:  commit,
		date:    date,
		config:  config,
		logger:  &logger,
	}, nil
}

// Version returns the version string.
func (a *App) Version() string { return a.version }

// Commit returns the git commit hash.
func (a *App) Commit() string { return a.commit }

// Date returns the build date.
func (a *App) Date() string { return a.date }

// Config returns the application configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// ReconfigureLogger rebuilds the logger after command flags have been
// parsed, so flag-driven levels take effect.
func (a *App) ReconfigureLogger() {
	logger := NewLogger(a.config)
	a.logger = &logger
	logging.SetDefault(logger)
}

// Client builds an ipsync client from the loaded configuration.
func (a *App) Client() (*ipsync.Client, error) {
	c := a.config
	opts := []ipsync.Option{
		ipsync.WithRepoDir(c.RepoDir),
		ipsync.WithListDir(c.ListDir),
		ipsync.WithManifest(c.Manifest),
		ipsync.WithGeoDatabase(c.GeoDBPath),
		ipsync.WithForceGeoUpdate(c.ForceUpdate),
		ipsync.WithRemote(c.Remote, c.Branch),
		ipsync.WithMaxAttempts(c.MaxAttempts),
		ipsync.WithRetryDelay(c.RetryDelay),
		ipsync.WithTriggerHour(c.TriggerHour),
	}
	if c.BackupDir != "" {
		opts = append(opts, ipsync.WithBackupDir(c.BackupDir))
	}
	if c.WebhookURL != "" {
		opts = append(opts, ipsync.WithWebhook(c.WebhookURL))
	}
	return ipsync.New(opts...)
}
