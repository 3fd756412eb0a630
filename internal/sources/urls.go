package sources

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/edgewatch/ipsync/pkg/logging"
)

const urlFetchTimeout = 10 * time.Second

// URLSource fetches published whitespace-separated IP lists and emits one
// record per (address, port) pair.
type URLSource struct {
	URLs    []string
	Ports   []string
	Locator Locator
	Client  *http.Client
}

// Name identifies the source in logs and errors.
func (s *URLSource) Name() string { return "urls" }

// Records fetches every configured URL. A URL that fails is logged and
// skipped; tokens that are not valid IPv4 addresses are dropped.
func (s *URLSource) Records(ctx context.Context) ([]string, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: urlFetchTimeout}
	}

	var results []string
	for _, url := range s.URLs {
		body, err := fetch(ctx, client, url)
		if err != nil {
			logging.Warn().Err(err).Str("url", url).Msg("IP list fetch failed")
			continue
		}

		count := 0
		for _, token := range strings.Fields(body) {
			if !ValidIPv4(token) {
				logging.Debug().Str("token", token).Msg("Skipping invalid address")
				continue
			}
			country := s.Locator.Country(token)
			for _, port := range s.Ports {
				results = append(results, FormatRecord(token, port, country))
			}
			count++
		}

		logging.Info().Str("url", url).Int("addresses", count).Msg("IP list fetched")
	}

	return results, nil
}

// fetch GETs one URL and returns its body.
func fetch(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &httpStatusError{status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

type httpStatusError struct{ status string }

func (e *httpStatusError) Error() string { return "unexpected status " + e.status }

// ValidIPv4 reports whether a token is a dotted-quad IPv4 address, after
// stripping any IPv6-style brackets.
func ValidIPv4(ip string) bool {
	ip = strings.Trim(ip, "[]")
	parts := strings.Split(ip, ".")
	if len(parts) != 4 {
		return false
	}
	for _, part := range parts {
		if part == "" || len(part) > 3 {
			return false
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 255 {
			return false
		}
	}
	return true
}
