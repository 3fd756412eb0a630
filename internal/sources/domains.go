package sources

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strings"

	"github.com/edgewatch/ipsync/pkg/logging"
	"github.com/edgewatch/ipsync/pkg/records"
)

// DomainSource resolves target domains and emits one record per
// (address, port) pair, tagged with the address's country.
type DomainSource struct {
	Domains []string
	Ports   []string
	Locator Locator

	// Resolver overrides the default resolver in tests.
	Resolver *net.Resolver
}

// Name identifies the source in logs and errors.
func (s *DomainSource) Name() string { return "domains" }

// Records resolves every configured domain. A domain that fails to
// resolve is logged and skipped; the remaining domains still contribute.
func (s *DomainSource) Records(ctx context.Context) ([]string, error) {
	resolver := s.Resolver
	if resolver == nil {
		resolver = net.DefaultResolver
	}

	var results []string
	for _, domain := range s.Domains {
		addrs, err := resolver.LookupIPAddr(ctx, domain)
		if err != nil {
			logging.Warn().Err(err).Str("domain", domain).Msg("DNS resolution failed")
			continue
		}

		hosts := records.NewSet()
		for _, addr := range addrs {
			hosts.Add(FormatHost(addr.IP.String()))
		}

		for _, host := range hosts.Sorted() {
			country := s.Locator.Country(host)
			for _, port := range s.Ports {
				results = append(results, FormatRecord(host, port, country))
			}
		}

		logging.Info().Str("domain", domain).Int("addresses", hosts.Len()).Msg("Domain resolved")
	}

	sort.Strings(results)
	return results, nil
}

// FormatHost brackets IPv6 addresses so the port colon stays unambiguous.
func FormatHost(ip string) string {
	if strings.Contains(ip, ":") && !strings.HasPrefix(ip, "[") {
		return "[" + ip + "]"
	}
	return ip
}

// FormatRecord renders one record line.
func FormatRecord(host, port, country string) string {
	return fmt.Sprintf("%s%s%s%s%s",
		host, records.IdentityDelimiter, port, records.CategorySeparator, country)
}
