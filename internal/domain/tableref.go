package domain

import "strings"

// TableReference is a possibly partially qualified table identifier with one
// to three dot-separated segments (table, schema.table, or
// database.schema.table). Segments retain the casing of their first
// occurrence; equality is case-insensitive.
type TableReference struct {
	Segments []string
}

// NewTableReference builds a reference from its segments. Empty segments are
// dropped; at most the last three are kept.
func NewTableReference(segments ...string) TableReference {
	kept := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" {
			kept = append(kept, s)
		}
	}
	if len(kept) > 3 {
		kept = kept[len(kept)-3:]
	}
	return TableReference{Segments: kept}
}

// String renders the reference in its original casing, segments joined by dots.
func (r TableReference) String() string {
	return strings.Join(r.Segments, ".")
}

// Normalized returns the case-folded form used for equality and deduplication.
func (r TableReference) Normalized() string {
	return strings.ToLower(r.String())
}

// Database returns the database segment, or "" when unqualified.
func (r TableReference) Database() string {
	if len(r.Segments) == 3 {
		return r.Segments[0]
	}
	return ""
}

// Schema returns the schema segment, or "" when unqualified.
func (r TableReference) Schema() string {
	switch len(r.Segments) {
	case 3:
		return r.Segments[1]
	case 2:
		return r.Segments[0]
	}
	return ""
}

// Table returns the table segment.
func (r TableReference) Table() string {
	if len(r.Segments) == 0 {
		return ""
	}
	return r.Segments[len(r.Segments)-1]
}

// Qualify fills missing database/schema segments from the session context and
// returns a fully qualified three-segment reference. Already-qualified
// references pass through unchanged.
func (r TableReference) Qualify(database, schema string) TableReference {
	switch len(r.Segments) {
	case 3:
		return r
	case 2:
		return NewTableReference(database, r.Segments[0], r.Segments[1])
	case 1:
		return NewTableReference(database, schema, r.Segments[0])
	}
	return r
}
