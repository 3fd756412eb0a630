package records_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgewatch/ipsync/pkg/records"
)

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"ipv4 record", "1.1.1.1:443#US", true},
		{"ipv6 record", "[2606:4700::1111]:443#US", true},
		{"surrounding whitespace", "  1.1.1.1:443#US  ", true},
		{"empty line", "", false},
		{"whitespace only", "   ", false},
		{"missing category separator", "badline-no-hash", false},
		{"missing identity delimiter", "1.1.1.1#US", false},
		{"empty category", "1.1.1.1:443#", false},
		{"empty identity", "#US", false},
		{"two category separators", "1.1.1.1:443#US#JP", false},
		{"conflict marker remnant", "<<<<<<< HEAD", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, records.Valid(tt.line))
		})
	}
}

func TestValidateDropsMalformedSilently(t *testing.T) {
	set := records.Validate([]string{
		"1.1.1.1:443#US",
		"badline-no-hash",
		"",
		"8.8.8.8:53#US",
		">>>>>>> theirs",
	})

	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Has("1.1.1.1:443#US"))
	assert.True(t, set.Has("8.8.8.8:53#US"))
	assert.False(t, set.Has("badline-no-hash"))
}

func TestValidateTextTrimsLines(t *testing.T) {
	set := records.ValidateText("  1.1.1.1:443#US  \n\n9.9.9.9:443#JP\n")
	assert.True(t, set.Has("1.1.1.1:443#US"))
	assert.True(t, set.Has("9.9.9.9:443#JP"))
	assert.Equal(t, 2, set.Len())
}

func TestCategory(t *testing.T) {
	assert.Equal(t, "US", records.Category("1.1.1.1:443#US"))
	assert.Equal(t, "jp", records.Category("9.9.9.9:443#jp"))
	assert.Equal(t, "", records.Category("no-separator"))
}

func TestPartitionIsCompletePartition(t *testing.T) {
	set := records.NewSet(
		"1.1.1.1:443#US",
		"8.8.8.8:443#US",
		"9.9.9.9:443#JP",
		"2.2.2.2:443#us",
	)

	groups := records.Partition(set)

	require.Len(t, groups, 3) // original-case keys: US, us, JP

	total := 0
	for _, group := range groups {
		total += group.Len()
	}
	assert.Equal(t, set.Len(), total, "every record appears in exactly one group")

	assert.True(t, groups["US"].Has("1.1.1.1:443#US"))
	assert.True(t, groups["US"].Has("8.8.8.8:443#US"))
	assert.True(t, groups["JP"].Has("9.9.9.9:443#JP"))
	assert.True(t, groups["us"].Has("2.2.2.2:443#us"))
}
