package ipsync

import (
	"time"

	"github.com/edgewatch/ipsync/internal/sources"
	"github.com/edgewatch/ipsync/pkg/errors"
	"github.com/edgewatch/ipsync/pkg/publish"
)

// Option is a function that configures a Client.
type Option func(*config) error

// WithRepoDir sets the repository root (default ".").
func WithRepoDir(dir string) Option {
	return func(c *config) error {
		if dir == "" {
			return errors.New("repository directory cannot be empty")
		}
		c.repoDir = dir
		return nil
	}
}

// WithListDir sets the category file directory, relative to the
// repository root.
func WithListDir(dir string) Option {
	return func(c *config) error {
		if dir == "" {
			return errors.New("list directory cannot be empty")
		}
		c.listDir = dir
		return nil
	}
}

// WithBackupDir sets where reconcile snapshots are kept.
func WithBackupDir(dir string) Option {
	return func(c *config) error {
		c.backupDir = dir
		return nil
	}
}

// WithManifest sets the sources manifest path.
func WithManifest(path string) Option {
	return func(c *config) error {
		c.manifestPath = path
		return nil
	}
}

// WithGeoDatabase sets the GeoLite2 database path.
func WithGeoDatabase(path string) Option {
	return func(c *config) error {
		c.geoDBPath = path
		return nil
	}
}

// WithForceGeoUpdate forces the database download even when fresh.
func WithForceGeoUpdate(force bool) Option {
	return func(c *config) error {
		c.forceGeoDB = force
		return nil
	}
}

// WithRemote sets the upstream remote and branch.
func WithRemote(remote, branch string) Option {
	return func(c *config) error {
		c.remote = remote
		c.branch = branch
		return nil
	}
}

// WithMaxAttempts bounds pushes per publish run.
func WithMaxAttempts(attempts int) Option {
	return func(c *config) error {
		if attempts <= 0 {
			return errors.New("max attempts must be positive")
		}
		c.maxAttempts = attempts
		return nil
	}
}

// WithRetryDelay sets the pause between push retries.
func WithRetryDelay(delay time.Duration) Option {
	return func(c *config) error {
		c.retryDelay = delay
		return nil
	}
}

// WithTriggerHour sets the hour selecting the extended commit message and
// the database refresh window.
func WithTriggerHour(hour int) Option {
	return func(c *config) error {
		if hour < 0 || hour > 23 {
			return errors.New("trigger hour must be between 0 and 23")
		}
		c.triggerHour = hour
		return nil
	}
}

// WithWebhook sets the status sink webhook URL.
func WithWebhook(url string) Option {
	return func(c *config) error {
		c.webhookURL = url
		return nil
	}
}

// WithUpstream injects an upstream store implementation.
func WithUpstream(upstream publish.Upstream) Option {
	return func(c *config) error {
		c.upstream = upstream
		return nil
	}
}

// WithLocator injects a country locator.
func WithLocator(locator sources.Locator) Option {
	return func(c *config) error {
		c.locator = locator
		return nil
	}
}

// WithClock injects the clock used for the trigger-hour predicate.
func WithClock(now func() time.Time) Option {
	return func(c *config) error {
		c.now = now
		return nil
	}
}
