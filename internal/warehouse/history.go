package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"snowlens/internal/domain"
)

// groupedHistorySQL aggregates successful executions per
// (warehouse, size, user) over the trailing window. Ranking, top-K, and the
// cost-factor derivation happen in the service layer so the ordering rules
// stay testable.
const groupedHistorySQL = `
SELECT
    warehouse_name,
    warehouse_size,
    user_name,
    COUNT(*) AS execution_count,
    MAX(query_id) AS sample_query_id,
    MAX(query_text) AS sample_query_text,
    MIN(start_time) AS first_seen,
    MAX(end_time) AS last_seen,
    SUM(total_elapsed_time) / 1000 AS elapsed_seconds
FROM SNOWFLAKE.ACCOUNT_USAGE.QUERY_HISTORY
WHERE
    warehouse_name IS NOT NULL
    AND execution_status = 'SUCCESS'
    AND start_time > DATEADD(DAY, -?, CURRENT_TIMESTAMP())
GROUP BY warehouse_name, warehouse_size, user_name`

const queryDetailSQL = `
SELECT
    query_id,
    query_text,
    query_type,
    warehouse_name,
    COALESCE(warehouse_size, ''),
    user_name,
    COALESCE(role_name, ''),
    COALESCE(database_name, ''),
    COALESCE(schema_name, ''),
    total_elapsed_time / 1000,
    COALESCE(bytes_scanned, 0),
    COALESCE(bytes_spilled_to_local_storage, 0),
    COALESCE(bytes_spilled_to_remote_storage, 0),
    COALESCE(partitions_scanned, 0),
    COALESCE(partitions_total, 0),
    COALESCE(rows_produced, 0),
    COALESCE(rows_inserted, 0),
    COALESCE(rows_updated, 0),
    COALESCE(rows_deleted, 0),
    compilation_time / 1000,
    execution_time / 1000,
    queued_overload_time / 1000,
    transaction_blocked_time / 1000,
    start_time,
    end_time,
    execution_status
FROM SNOWFLAKE.ACCOUNT_USAGE.QUERY_HISTORY
WHERE query_id = ?`

// History reads execution history from ACCOUNT_USAGE.
type History struct {
	client *Client
	logger *slog.Logger
}

// NewHistory creates the execution-history adapter.
func NewHistory(client *Client, logger *slog.Logger) *History {
	return &History{client: client, logger: logger}
}

// QueryGroups returns one row per (resource, size, principal) group over the
// trailing windowDays. Source failures surface as DataUnavailableError; the
// result is never silently truncated.
func (h *History) QueryGroups(ctx context.Context, windowDays int) ([]domain.QueryGroup, error) {
	rows, err := h.client.queryContext(ctx, groupedHistorySQL, windowDays)
	if err != nil {
		return nil, domain.ErrDataUnavailable("query history: %v", err)
	}
	defer rows.Close() //nolint:errcheck

	var groups []domain.QueryGroup
	for rows.Next() {
		var g domain.QueryGroup
		var size, sampleID, sampleText sql.NullString
		if err := rows.Scan(
			&g.ResourceName,
			&size,
			&g.Principal,
			&g.ExecutionCount,
			&sampleID,
			&sampleText,
			&g.FirstSeen,
			&g.LastSeen,
			&g.ElapsedSeconds,
		); err != nil {
			return nil, domain.ErrDataUnavailable("scan query history: %v", err)
		}
		g.ResourceSize = size.String
		g.SampleQueryID = sampleID.String
		g.SampleQueryText = sampleText.String
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDataUnavailable("read query history: %v", err)
	}

	h.logger.Debug("fetched query groups", "window_days", windowDays, "groups", len(groups))
	return groups, nil
}

// QueryDetail returns the execution metrics of a single query, or (nil, nil)
// when the query id is unknown.
func (h *History) QueryDetail(ctx context.Context, queryID string) (*domain.ExecutionDetail, error) {
	row, err := h.client.queryRowContext(ctx, queryDetailSQL, queryID)
	if err != nil {
		return nil, domain.ErrDataUnavailable("query detail: %v", err)
	}

	var d domain.ExecutionDetail
	err = row.Scan(
		&d.QueryID,
		&d.QueryText,
		&d.QueryType,
		&d.ResourceName,
		&d.ResourceSize,
		&d.Principal,
		&d.Role,
		&d.Database,
		&d.Schema,
		&d.DurationSeconds,
		&d.BytesScanned,
		&d.BytesSpilledLocal,
		&d.BytesSpilledRemote,
		&d.PartitionsScanned,
		&d.PartitionsTotal,
		&d.RowsProduced,
		&d.RowsInserted,
		&d.RowsUpdated,
		&d.RowsDeleted,
		&d.CompilationSeconds,
		&d.ExecutionSeconds,
		&d.QueuedSeconds,
		&d.BlockedSeconds,
		&d.StartTime,
		&d.EndTime,
		&d.Status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.ErrDataUnavailable("scan query detail: %v", err)
	}
	return &d, nil
}
