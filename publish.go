package ipsync

import (
	"context"

	"github.com/edgewatch/ipsync/internal/notify"
	"github.com/edgewatch/ipsync/pkg/logging"
	"github.com/edgewatch/ipsync/pkg/publish"
	"github.com/edgewatch/ipsync/pkg/reconcile"
)

// Reconcile runs one merge pass over the category files without touching
// the upstream store.
func (c *Client) Reconcile(ctx context.Context) (*reconcile.Result, error) {
	return c.engine().Run(ctx)
}

// Publish runs the full publish cycle: detect changes, reconcile against
// the latest upstream state, commit, and push with bounded retries. The
// run summary goes to the status sink whether the run succeeded or not.
func (c *Client) Publish(ctx context.Context) (*notify.Summary, error) {
	upstream := c.upstream()

	loop := publish.NewLoop(upstream, c.engine())
	loop.MaxAttempts = c.config.maxAttempts
	loop.RetryDelay = c.config.retryDelay
	loop.TriggerHour = c.config.triggerHour
	loop.Now = c.config.now

	result, runErr := loop.Run(ctx)

	status, err := upstream.StatusText(ctx)
	if err != nil {
		logging.Debug().Err(err).Msg("Could not read upstream status for summary")
	}

	summary := notify.Build(result, status)
	if runErr != nil {
		summary.Success = false
	}
	if err := c.notifier().Send(ctx, summary); err != nil {
		logging.Warn().Err(err).Msg("Status notification failed")
	}

	return summary, runErr
}
