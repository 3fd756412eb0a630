package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func onlineOnlyLocator(fallback string) *GeoLocator {
	return &GeoLocator{
		client:   &http.Client{Timeout: fallbackTimeout},
		fallback: fallback,
	}
}

func TestCountryOnlineLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/1.1.1.1", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"success","countryCode":"AU"}`))
	}))
	defer server.Close()

	locator := onlineOnlyLocator(server.URL + "/")
	assert.Equal(t, "AU", locator.Country("1.1.1.1"))
}

func TestCountryStripsBrackets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2001:db8::1", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"success","countryCode":"JP"}`))
	}))
	defer server.Close()

	locator := onlineOnlyLocator(server.URL + "/")
	assert.Equal(t, "JP", locator.Country("[2001:db8::1]"))
}

func TestCountryDegradesToUnknown(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"lookup reports failure", `{"status":"fail","countryCode":""}`},
		{"missing country code", `{"status":"success"}`},
		{"malformed JSON", `{{{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			locator := onlineOnlyLocator(server.URL + "/")
			assert.Equal(t, UnknownCountry, locator.Country("10.0.0.1"))
		})
	}
}

func TestCountryUnreachableServiceIsUnknown(t *testing.T) {
	locator := onlineOnlyLocator("http://127.0.0.1:1/")
	assert.Equal(t, UnknownCountry, locator.Country("10.0.0.1"))
}

func TestOpenLocatorMissingDatabaseGoesOnline(t *testing.T) {
	locator, err := OpenLocator(filepath.Join(t.TempDir(), "absent.mmdb"))
	require.NoError(t, err)
	defer func() { _ = locator.Close() }()

	assert.Nil(t, locator.db)
	assert.Equal(t, fallbackURL, locator.fallback)
}

func TestEnsureDatabaseSkipsFreshDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "GeoLite2-Country.mmdb")
	require.NoError(t, os.WriteFile(path, []byte("existing database"), 0o644))

	// Hour 9 is off the refresh schedule, so no download is attempted.
	now := func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }
	require.NoError(t, EnsureDatabase(context.Background(), path, false, 10, now))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "existing database", string(content))
}
