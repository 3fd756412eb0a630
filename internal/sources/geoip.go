package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oschwald/geoip2-golang"

	"github.com/edgewatch/ipsync/pkg/errors"
	"github.com/edgewatch/ipsync/pkg/logging"
)

const (
	// UnknownCountry tags addresses no lookup could place.
	UnknownCountry = "XX"

	// DatabaseURL is where the GeoLite2 country database is published.
	DatabaseURL = "https://raw.githubusercontent.com/Loyalsoldier/geoip/release/GeoLite2-Country.mmdb"

	// fallbackURL is the online lookup used when the database misses.
	fallbackURL = "http://ip-api.com/json/"

	fallbackTimeout = 3 * time.Second
)

// Locator maps an IP address to a country code, UnknownCountry when no
// lookup succeeds.
type Locator interface {
	Country(ip string) string
}

// GeoLocator answers from the local GeoLite2 database first and falls
// back to the ip-api.com online lookup.
type GeoLocator struct {
	db       *geoip2.Reader
	client   *http.Client
	fallback string
}

// OpenLocator opens the GeoLite2 database at path. The database is
// optional: with no readable database every lookup goes online.
func OpenLocator(path string) (*GeoLocator, error) {
	locator := &GeoLocator{
		client:   &http.Client{Timeout: fallbackTimeout},
		fallback: fallbackURL,
	}
	db, err := geoip2.Open(path)
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("GeoLite2 database unavailable, using online lookup only")
		return locator, nil
	}
	locator.db = db
	return locator, nil
}

// Close releases the database reader.
func (l *GeoLocator) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Country resolves the country code for one address.
func (l *GeoLocator) Country(ip string) string {
	ip = strings.Trim(ip, "[]")

	if l.db != nil {
		if parsed := net.ParseIP(ip); parsed != nil {
			if record, err := l.db.Country(parsed); err == nil && record.Country.IsoCode != "" {
				return record.Country.IsoCode
			}
		}
	}

	return l.lookupOnline(ip)
}

// lookupOnline queries ip-api.com. Any failure degrades to UnknownCountry.
func (l *GeoLocator) lookupOnline(ip string) string {
	resp, err := l.client.Get(l.fallback + ip)
	if err != nil {
		logging.Debug().Err(err).Str("ip", ip).Msg("Online country lookup failed")
		return UnknownCountry
	}
	defer func() { _ = resp.Body.Close() }()

	var payload struct {
		Status      string `json:"status"`
		CountryCode string `json:"countryCode"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logging.Debug().Err(err).Str("ip", ip).Msg("Online country lookup returned bad JSON")
		return UnknownCountry
	}
	if payload.Status != "success" || payload.CountryCode == "" {
		return UnknownCountry
	}
	return payload.CountryCode
}

// EnsureDatabase downloads the GeoLite2 database when it is missing,
// empty, or force is set. An existing database is only refreshed at the
// trigger hour, matching the scheduled upstream release cadence.
func EnsureDatabase(ctx context.Context, path string, force bool, triggerHour int, now func() time.Time) error {
	if now == nil {
		now = time.Now
	}

	info, err := os.Stat(path)
	exists := err == nil && info.Size() > 0

	if exists && !force && now().Hour() != triggerHour {
		logging.Debug().Str("path", path).Msg("GeoLite2 database fresh enough, skipping download")
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}

	logging.Info().Str("url", DatabaseURL).Msg("Downloading GeoLite2 database")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, DatabaseURL, nil)
	if err != nil {
		return errors.WrapSource("geoip", DatabaseURL, err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return errors.WrapSource("geoip", DatabaseURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return errors.WrapSource("geoip", DatabaseURL,
			fmt.Errorf("unexpected status %s", resp.Status))
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapSource("geoip", DatabaseURL, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return errors.WrapIO("write", path, err)
	}

	logging.Info().Str("path", path).Int("bytes", len(content)).Msg("GeoLite2 database updated")
	return nil
}
