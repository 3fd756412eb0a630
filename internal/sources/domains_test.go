package sources

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatHost(t *testing.T) {
	tests := []struct {
		ip   string
		want string
	}{
		{"1.1.1.1", "1.1.1.1"},
		{"2001:db8::1", "[2001:db8::1]"},
		{"[2001:db8::1]", "[2001:db8::1]"},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatHost(tt.ip))
		})
	}
}

func TestFormatRecord(t *testing.T) {
	assert.Equal(t, "1.1.1.1:443#US", FormatRecord("1.1.1.1", "443", "US"))
	assert.Equal(t, "[2001:db8::1]:8443#JP", FormatRecord("[2001:db8::1]", "8443", "JP"))
}

func TestDomainSourceSkipsUnresolvableDomains(t *testing.T) {
	broken := &net.Resolver{
		PreferGo: true,
		Dial: func(context.Context, string, string) (net.Conn, error) {
			return nil, net.ErrClosed
		},
	}

	src := &DomainSource{
		Domains:  []string{"unresolvable.invalid"},
		Ports:    []string{"443"},
		Locator:  stubLocator{"US"},
		Resolver: broken,
	}

	got, err := src.Records(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}
