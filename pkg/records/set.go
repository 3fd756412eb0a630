package records

import "sort"

// Set is an unordered collection of unique records. Iteration order is
// undefined; callers that serialize a Set must sort first.
type Set map[string]struct{}

// NewSet creates a Set containing the given records.
func NewSet(items ...string) Set {
	set := make(Set, len(items))
	for _, item := range items {
		set.Add(item)
	}
	return set
}

// Add inserts a record. Adding an existing record is a no-op.
func (s Set) Add(record string) {
	s[record] = struct{}{}
}

// Has reports whether the record is in the set.
func (s Set) Has(record string) bool {
	_, ok := s[record]
	return ok
}

// Len returns the number of records in the set.
func (s Set) Len() int {
	return len(s)
}

// Union returns a new set containing every record from s and each of the
// others. Union is commutative and idempotent.
func (s Set) Union(others ...Set) Set {
	merged := make(Set, len(s))
	for record := range s {
		merged.Add(record)
	}
	for _, other := range others {
		for record := range other {
			merged.Add(record)
		}
	}
	return merged
}

// Sorted returns the records in ascending lexicographic order.
func (s Set) Sorted() []string {
	items := make([]string, 0, len(s))
	for record := range s {
		items = append(items, record)
	}
	sort.Strings(items)
	return items
}

// Equal reports whether two sets contain exactly the same records.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for record := range s {
		if !other.Has(record) {
			return false
		}
	}
	return true
}
