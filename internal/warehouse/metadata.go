package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"snowlens/internal/domain"
)

// identifierPattern whitelists database names interpolated into the
// INFORMATION_SCHEMA qualifier. Everything else is bound as a parameter.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)

// Metadata performs the three independent catalog lookups for a table.
type Metadata struct {
	client *Client
}

// NewMetadata creates the catalog-metadata adapter.
func NewMetadata(client *Client) *Metadata {
	return &Metadata{client: client}
}

// informationSchema returns the INFORMATION_SCHEMA view qualifier for the
// reference. A database segment selects that database's catalog; otherwise
// the session database's catalog is used.
func informationSchema(ref domain.TableReference, view string) (string, error) {
	db := ref.Database()
	if db == "" {
		return "INFORMATION_SCHEMA." + view, nil
	}
	if !identifierPattern.MatchString(db) {
		return "", domain.ErrTableNotFound("invalid database identifier %q", db)
	}
	return fmt.Sprintf("%s.INFORMATION_SCHEMA.%s", db, view), nil
}

// Columns returns the table's columns in ordinal order. Identifier matching
// is case-insensitive, mirroring how unquoted identifiers are stored
// upper-cased in the catalog.
func (m *Metadata) Columns(ctx context.Context, ref domain.TableReference) ([]domain.ColumnMetadata, error) {
	from, err := informationSchema(ref, "COLUMNS")
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`
SELECT column_name, data_type, is_nullable, column_default, comment
FROM %s
WHERE UPPER(table_schema) = UPPER(?) AND UPPER(table_name) = UPPER(?)
ORDER BY ordinal_position`, from)

	rows, err := m.client.queryContext(ctx, q, ref.Schema(), ref.Table())
	if err != nil {
		return nil, domain.ErrDataUnavailable("columns for %s: %v", ref.String(), err)
	}
	defer rows.Close() //nolint:errcheck

	var cols []domain.ColumnMetadata
	for rows.Next() {
		var c domain.ColumnMetadata
		var nullable string
		var def, comment sql.NullString
		if err := rows.Scan(&c.Name, &c.Type, &nullable, &def, &comment); err != nil {
			return nil, domain.ErrDataUnavailable("scan columns for %s: %v", ref.String(), err)
		}
		c.Nullable = nullable == "YES"
		if def.Valid {
			c.Default = &def.String
		}
		if comment.Valid && comment.String != "" {
			c.Comment = &comment.String
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

// Statistics returns table-level statistics. A missing row yields empty
// statistics, not an error.
func (m *Metadata) Statistics(ctx context.Context, ref domain.TableReference) (domain.TableStatistics, error) {
	from, err := informationSchema(ref, "TABLES")
	if err != nil {
		return domain.TableStatistics{}, err
	}
	q := fmt.Sprintf(`
SELECT row_count, bytes, retention_time, created, last_altered
FROM %s
WHERE UPPER(table_schema) = UPPER(?) AND UPPER(table_name) = UPPER(?)`, from)

	rows, err := m.client.queryContext(ctx, q, ref.Schema(), ref.Table())
	if err != nil {
		return domain.TableStatistics{}, domain.ErrDataUnavailable("statistics for %s: %v", ref.String(), err)
	}
	defer rows.Close() //nolint:errcheck

	var stats domain.TableStatistics
	if rows.Next() {
		var rowCount, bytes, retention sql.NullInt64
		var created, altered sql.NullTime
		if err := rows.Scan(&rowCount, &bytes, &retention, &created, &altered); err != nil {
			return domain.TableStatistics{}, domain.ErrDataUnavailable("scan statistics for %s: %v", ref.String(), err)
		}
		if rowCount.Valid {
			stats.RowCount = &rowCount.Int64
		}
		if bytes.Valid {
			stats.ByteSize = &bytes.Int64
		}
		if retention.Valid {
			stats.RetentionDays = &retention.Int64
		}
		if created.Valid {
			stats.CreatedAt = &created.Time
		}
		if altered.Valid {
			stats.LastAlteredAt = &altered.Time
		}
	}
	return stats, rows.Err()
}

// Constraints returns the table's declared constraints.
func (m *Metadata) Constraints(ctx context.Context, ref domain.TableReference) ([]domain.TableConstraint, error) {
	from, err := informationSchema(ref, "TABLE_CONSTRAINTS")
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`
SELECT constraint_name, constraint_type
FROM %s
WHERE UPPER(table_schema) = UPPER(?) AND UPPER(table_name) = UPPER(?)`, from)

	rows, err := m.client.queryContext(ctx, q, ref.Schema(), ref.Table())
	if err != nil {
		return nil, domain.ErrDataUnavailable("constraints for %s: %v", ref.String(), err)
	}
	defer rows.Close() //nolint:errcheck

	var cons []domain.TableConstraint
	for rows.Next() {
		var c domain.TableConstraint
		if err := rows.Scan(&c.Name, &c.Kind); err != nil {
			return nil, domain.ErrDataUnavailable("scan constraints for %s: %v", ref.String(), err)
		}
		cons = append(cons, c)
	}
	return cons, rows.Err()
}
