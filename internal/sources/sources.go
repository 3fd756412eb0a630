// Package sources produces raw record lines (address:port#CC) from the
// configured data sources: DNS resolution of target domains and published
// IP list URLs, with GeoIP country tagging.
package sources

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/edgewatch/ipsync/pkg/errors"
)

// DefaultPort is used when no ports are configured.
const DefaultPort = "443"

// Source produces raw record lines. Individual lookup failures inside a
// source are logged and absorbed; a source only errors when it can make
// no progress at all.
type Source interface {
	Name() string
	Records(ctx context.Context) ([]string, error)
}

// Manifest configures the record sources. It is loaded from sources.yaml
// and can be overridden by the TARGET_DOMAIN, TARGET_URLS, and
// TARGET_PORTS environment variables (comma-separated).
type Manifest struct {
	Domains []string `yaml:"domains"`
	URLs    []string `yaml:"urls"`
	Ports   []string `yaml:"ports"`
}

// LoadManifest reads a sources manifest. A missing file yields an empty
// manifest, since the environment alone can configure a run.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &m, nil
		}
		return nil, errors.WrapIO("read", path, err)
	}
	if err := yaml.Unmarshal(content, &m); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return &m, nil
}

// ApplyEnv overrides manifest fields from the environment.
func (m *Manifest) ApplyEnv() {
	if v := os.Getenv("TARGET_DOMAIN"); v != "" {
		m.Domains = splitList(v)
	}
	if v := os.Getenv("TARGET_URLS"); v != "" {
		m.URLs = splitList(v)
	}
	if v := os.Getenv("TARGET_PORTS"); v != "" {
		m.Ports = splitList(v)
	}
}

// PortList returns the configured ports, keeping only numeric entries and
// falling back to the default port when none remain.
func (m *Manifest) PortList() []string {
	var ports []string
	for _, port := range m.Ports {
		port = strings.TrimSpace(port)
		if isDigits(port) {
			ports = append(ports, port)
		}
	}
	if len(ports) == 0 {
		return []string{DefaultPort}
	}
	return ports
}

// Sources builds the configured sources. Sources with nothing configured
// are omitted.
func (m *Manifest) Sources(locator Locator, client *http.Client) []Source {
	ports := m.PortList()
	var srcs []Source
	if len(m.Domains) > 0 {
		srcs = append(srcs, &DomainSource{Domains: m.Domains, Ports: ports, Locator: locator})
	}
	if len(m.URLs) > 0 {
		srcs = append(srcs, &URLSource{URLs: m.URLs, Ports: ports, Locator: locator, Client: client})
	}
	return srcs
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
