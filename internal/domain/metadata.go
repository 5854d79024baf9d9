package domain

import "time"

// Metadata availability status constants.
const (
	MetadataFound       = "FOUND"
	MetadataUnavailable = "UNAVAILABLE"
)

// ColumnMetadata describes a single table column in ordinal order.
type ColumnMetadata struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Nullable bool    `json:"nullable"`
	Default  *string `json:"default,omitempty"`
	Comment  *string `json:"comment,omitempty"`
}

// TableStatistics holds table-level statistics from the catalog.
type TableStatistics struct {
	RowCount      *int64     `json:"row_count,omitempty"`
	ByteSize      *int64     `json:"byte_size,omitempty"`
	RetentionDays *int64     `json:"retention_days,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	LastAlteredAt *time.Time `json:"last_altered_at,omitempty"`
}

// TableConstraint describes one declared constraint on a table.
type TableConstraint struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// TableMetadata aggregates catalog metadata for one referenced table. The
// entry always exists keyed by the requested reference, even when the table
// could not be resolved; Status distinguishes a found table from an
// unavailable one, and Reason says why it is unavailable.
type TableMetadata struct {
	Ref           TableReference    `json:"-"`
	QualifiedName string            `json:"qualified_name"`
	Status        string            `json:"status"`
	Reason        string            `json:"reason,omitempty"`
	Columns       []ColumnMetadata  `json:"columns"`
	Statistics    TableStatistics   `json:"statistics"`
	Constraints   []TableConstraint `json:"constraints"`
}

// Available reports whether any catalog data was found for the table.
func (m TableMetadata) Available() bool {
	return m.Status == MetadataFound
}

// UnavailableMetadata builds the degraded entry for a table whose metadata
// could not be fetched.
func UnavailableMetadata(ref TableReference, qualified, reason string) TableMetadata {
	return TableMetadata{
		Ref:           ref,
		QualifiedName: qualified,
		Status:        MetadataUnavailable,
		Reason:        reason,
	}
}
