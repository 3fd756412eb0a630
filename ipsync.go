// Package ipsync maintains categorized IP endpoint lists (address:port#CC
// records) in a shared git repository. It refreshes the lists from the
// configured sources, merges concurrent edits from other writers without
// losing records, and publishes the result with a bounded retry loop.
package ipsync

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/edgewatch/ipsync/internal/gitrepo"
	"github.com/edgewatch/ipsync/internal/notify"
	"github.com/edgewatch/ipsync/internal/sources"
	"github.com/edgewatch/ipsync/pkg/publish"
	"github.com/edgewatch/ipsync/pkg/reconcile"
)

// Default locations, relative to the repository root. The list directory
// name and database path mirror the layout the lists were first published
// with.
const (
	DefaultListDir      = "ip"
	DefaultManifestPath = "sources.yaml"
	DefaultGeoDBPath    = "data/GeoLite2-Country.mmdb"
	DefaultBackupDir    = ".ipsync-backup"
)

// Client ties the sources, merge engine, and publish loop together over
// one repository clone.
type Client struct {
	config *config
}

// config holds the assembled client configuration.
type config struct {
	repoDir      string
	listDir      string
	backupDir    string
	manifestPath string
	geoDBPath    string
	forceGeoDB   bool

	remote string
	branch string

	maxAttempts int
	retryDelay  time.Duration
	triggerHour int

	webhookURL string

	// Injection points for tests.
	upstream publish.Upstream
	locator  sources.Locator
	now      func() time.Time
}

// New creates a client with the given options applied over the defaults.
func New(opts ...Option) (*Client, error) {
	cfg := &config{
		repoDir:      ".",
		listDir:      DefaultListDir,
		manifestPath: DefaultManifestPath,
		geoDBPath:    DefaultGeoDBPath,
		maxAttempts:  publish.DefaultMaxAttempts,
		retryDelay:   publish.DefaultRetryDelay,
		triggerHour:  publish.DefaultTriggerHour,
		now:          time.Now,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}
	if cfg.backupDir == "" {
		cfg.backupDir = filepath.Join(cfg.repoDir, DefaultBackupDir)
	}
	return &Client{config: cfg}, nil
}

// ListDir returns the absolute category file directory.
func (c *Client) ListDir() string {
	return filepath.Join(c.config.repoDir, c.config.listDir)
}

// engine builds the merge engine over the working and backup directories.
func (c *Client) engine() *reconcile.Engine {
	return reconcile.New(c.ListDir(), c.config.backupDir)
}

// upstream builds the git collaborator, unless one was injected.
func (c *Client) upstream() publish.Upstream {
	if c.config.upstream != nil {
		return c.config.upstream
	}
	return gitrepo.New(c.config.repoDir, c.config.listDir, c.config.remote, c.config.branch)
}

// notifier builds the status sink.
func (c *Client) notifier() *notify.Notifier {
	return &notify.Notifier{WebhookURL: c.config.webhookURL}
}
