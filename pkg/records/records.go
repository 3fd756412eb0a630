// Package records defines the record line format used by ipsync and the
// set semantics the merge engine is built on.
//
// A record is one line of text shaped as <identity>#<category>, where the
// identity is an address:port pair (so it always contains a colon) and the
// category is a country tag. Two textually identical lines are the same
// record; there is no other identity.
package records

import "strings"

const (
	// CategorySeparator splits a record into identity and category.
	CategorySeparator = "#"

	// IdentityDelimiter must appear in the identity part of every record.
	// Records are address:port pairs, so the delimiter is the port colon.
	IdentityDelimiter = ":"
)

// Valid reports whether a single line is a well-formed record after
// trimming surrounding whitespace.
func Valid(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	parts := strings.Split(line, CategorySeparator)
	if len(parts) != 2 {
		return false
	}
	identity, category := parts[0], parts[1]
	if identity == "" || category == "" {
		return false
	}
	return strings.Contains(identity, IdentityDelimiter)
}

// Validate filters lines down to the set of well-formed records.
// Malformed lines are dropped silently; validation never fails.
func Validate(lines []string) Set {
	set := NewSet()
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if Valid(line) {
			set.Add(line)
		}
	}
	return set
}

// ValidateText splits raw text into lines and validates them.
func ValidateText(content string) Set {
	return Validate(strings.Split(content, "\n"))
}

// Category returns the category tag of a record: the text after the last
// category separator. The caller is expected to pass a valid record.
func Category(record string) string {
	idx := strings.LastIndex(record, CategorySeparator)
	if idx < 0 {
		return ""
	}
	return record[idx+len(CategorySeparator):]
}

// Partition groups records by category. Every record lands in exactly one
// group, keyed by its original-case category tag.
func Partition(set Set) map[string]Set {
	groups := make(map[string]Set)
	for record := range set {
		category := Category(record)
		group, ok := groups[category]
		if !ok {
			group = NewSet()
			groups[category] = group
		}
		group.Add(record)
	}
	return groups
}
