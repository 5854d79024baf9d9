package domain

import (
	"fmt"
	"time"
)

// ExecutionDetail holds the per-query metrics for a single execution,
// looked up by query ID.
type ExecutionDetail struct {
	QueryID            string    `json:"query_id"`
	QueryText          string    `json:"query_text"`
	QueryType          string    `json:"query_type"`
	ResourceName       string    `json:"resource_name"`
	ResourceSize       string    `json:"resource_size"`
	Principal          string    `json:"principal"`
	Role               string    `json:"role"`
	Database           string    `json:"database"`
	Schema             string    `json:"schema"`
	DurationSeconds    float64   `json:"duration_seconds"`
	BytesScanned       int64     `json:"bytes_scanned"`
	BytesSpilledLocal  int64     `json:"bytes_spilled_local"`
	BytesSpilledRemote int64     `json:"bytes_spilled_remote"`
	PartitionsScanned  int64     `json:"partitions_scanned"`
	PartitionsTotal    int64     `json:"partitions_total"`
	RowsProduced       int64     `json:"rows_produced"`
	RowsInserted       int64     `json:"rows_inserted"`
	RowsUpdated        int64     `json:"rows_updated"`
	RowsDeleted        int64     `json:"rows_deleted"`
	CompilationSeconds float64   `json:"compilation_seconds"`
	ExecutionSeconds   float64   `json:"execution_seconds"`
	QueuedSeconds      float64   `json:"queued_seconds"`
	BlockedSeconds     float64   `json:"blocked_seconds"`
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
	Status             string    `json:"status"`
}

// MetricLines renders the detail as labeled lines in a fixed order.
func (d ExecutionDetail) MetricLines() []MetricLine {
	return []MetricLine{
		{Label: "Query ID", Value: d.QueryID},
		{Label: "Query type", Value: d.QueryType},
		{Label: "Warehouse", Value: d.ResourceName},
		{Label: "Warehouse size", Value: d.ResourceSize},
		{Label: "User", Value: d.Principal},
		{Label: "Duration (s)", Value: formatFloat(d.DurationSeconds)},
		{Label: "Compilation time (s)", Value: formatFloat(d.CompilationSeconds)},
		{Label: "Execution time (s)", Value: formatFloat(d.ExecutionSeconds)},
		{Label: "Queued time (s)", Value: formatFloat(d.QueuedSeconds)},
		{Label: "Blocked time (s)", Value: formatFloat(d.BlockedSeconds)},
		{Label: "Bytes scanned", Value: fmt.Sprintf("%d", d.BytesScanned)},
		{Label: "Bytes spilled (local)", Value: fmt.Sprintf("%d", d.BytesSpilledLocal)},
		{Label: "Bytes spilled (remote)", Value: fmt.Sprintf("%d", d.BytesSpilledRemote)},
		{Label: "Partitions scanned", Value: fmt.Sprintf("%d of %d", d.PartitionsScanned, d.PartitionsTotal)},
		{Label: "Rows produced", Value: fmt.Sprintf("%d", d.RowsProduced)},
		{Label: "Rows written", Value: fmt.Sprintf("%d inserted, %d updated, %d deleted", d.RowsInserted, d.RowsUpdated, d.RowsDeleted)},
		{Label: "Status", Value: d.Status},
	}
}

// MetricLines renders the record's summary metrics as labeled lines in a
// fixed order. Used when no per-query detail is available.
func (r QueryCostRecord) MetricLines() []MetricLine {
	return []MetricLine{
		{Label: "Warehouse", Value: r.ResourceName},
		{Label: "Warehouse size", Value: r.ResourceSize},
		{Label: "User", Value: r.Principal},
		{Label: "Executions in window", Value: fmt.Sprintf("%d", r.ExecutionCount)},
		{Label: "Total duration (s)", Value: formatFloat(r.DurationSeconds)},
		{Label: "Total duration (h)", Value: formatFloat(r.DurationHours)},
		{Label: "Cost factor", Value: formatFloat(r.CostFactor)},
		{Label: "First seen", Value: r.FirstSeen.UTC().Format(time.RFC3339)},
		{Label: "Last seen", Value: r.LastSeen.UTC().Format(time.RFC3339)},
	}
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
