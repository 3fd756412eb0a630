package records_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edgewatch/ipsync/pkg/records"
)

func TestSetAddDeduplicates(t *testing.T) {
	set := records.NewSet()
	set.Add("1.1.1.1:443#US")
	set.Add("1.1.1.1:443#US")

	assert.Equal(t, 1, set.Len())
}

func TestUnionIsCommutativeAndIdempotent(t *testing.T) {
	a := records.NewSet("1.1.1.1:443#US", "9.9.9.9:443#JP")
	b := records.NewSet("8.8.8.8:443#US")

	assert.True(t, a.Union(b).Equal(b.Union(a)), "union(A,B) == union(B,A)")
	assert.True(t, a.Union(a).Equal(a), "union(A,A) == A")
}

func TestUnionDoesNotMutateInputs(t *testing.T) {
	a := records.NewSet("1.1.1.1:443#US")
	b := records.NewSet("8.8.8.8:443#US")

	merged := a.Union(b)

	assert.Equal(t, 2, merged.Len())
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 1, b.Len())
}

func TestSortedIsAscending(t *testing.T) {
	set := records.NewSet("9.9.9.9:443#JP", "1.1.1.1:443#US", "8.8.8.8:443#US")

	assert.Equal(t, []string{
		"1.1.1.1:443#US",
		"8.8.8.8:443#US",
		"9.9.9.9:443#JP",
	}, set.Sorted())
}

func TestEqual(t *testing.T) {
	a := records.NewSet("1.1.1.1:443#US")
	b := records.NewSet("1.1.1.1:443#US")
	c := records.NewSet("8.8.8.8:443#US")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(records.NewSet()))
}
