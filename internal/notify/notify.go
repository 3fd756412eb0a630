// Package notify hands the run summary to the external tracker: per
// category counts, the file listing, and the working tree status. Failure
// to notify is logged and never fails the run.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/edgewatch/ipsync/pkg/logging"
	"github.com/edgewatch/ipsync/pkg/reconcile"
)

const sendTimeout = 10 * time.Second

// Summary is the run report handed to the status sink.
type Summary struct {
	Success    bool           `json:"success"`
	Categories map[string]int `json:"categories"`
	Files      []string       `json:"files"`
	GitStatus  string         `json:"git_status,omitempty"`
	FinishedAt time.Time      `json:"finished_at"`
}

// Build assembles a summary from a reconcile result and the upstream
// status text.
func Build(result *reconcile.Result, gitStatus string) *Summary {
	s := &Summary{
		Success:    true,
		Categories: map[string]int{},
		GitStatus:  strings.TrimSpace(gitStatus),
		FinishedAt: time.Now().UTC(),
	}
	if result != nil {
		s.Success = result.Success()
		for file, count := range result.Categories {
			s.Categories[file] = count
			s.Files = append(s.Files, file)
		}
		sort.Strings(s.Files)
	}
	return s
}

// Text renders the summary for humans.
func (s *Summary) Text() string {
	var b strings.Builder
	if s.Success {
		b.WriteString("Run succeeded\n")
	} else {
		b.WriteString("Run failed\n")
	}
	for _, file := range s.Files {
		fmt.Fprintf(&b, "  %s: %d records\n", file, s.Categories[file])
	}
	if s.GitStatus != "" {
		b.WriteString("git status:\n  " + strings.ReplaceAll(s.GitStatus, "\n", "\n  ") + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Notifier posts summaries to a webhook. An empty URL logs the summary
// and sends nothing.
type Notifier struct {
	WebhookURL string
	Client     *http.Client
}

// Send delivers the summary. Errors are returned for logging but must
// never abort the enclosing run.
func (n *Notifier) Send(ctx context.Context, summary *Summary) error {
	logging.Info().
		Bool("success", summary.Success).
		Int("categories", len(summary.Categories)).
		Msg(summary.Text())

	if n == nil || n.WebhookURL == "" {
		return nil
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	client := n.Client
	if client == nil {
		client = &http.Client{Timeout: sendTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}
