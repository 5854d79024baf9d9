package domain

import "context"

// ExecutionHistory supplies grouped execution history and per-query detail
// from the warehouse. Implementations signal DataUnavailableError when the
// source is unreachable or the session lacks read access.
type ExecutionHistory interface {
	// QueryGroups returns one row per (resource, size, principal) group over
	// the trailing windowDays.
	QueryGroups(ctx context.Context, windowDays int) ([]QueryGroup, error)
	// QueryDetail returns the execution metrics of a single query.
	QueryDetail(ctx context.Context, queryID string) (*ExecutionDetail, error)
}

// MetadataSource performs the three independent catalog lookups for a fully
// qualified table. Each may fail or come back empty on its own.
type MetadataSource interface {
	Columns(ctx context.Context, ref TableReference) ([]ColumnMetadata, error)
	Statistics(ctx context.Context, ref TableReference) (TableStatistics, error)
	Constraints(ctx context.Context, ref TableReference) ([]TableConstraint, error)
}

// TableExtractor produces the distinct table references in a SQL text.
// Implementations are pure; the lexical matcher is the default and a real
// parser can be swapped in behind this interface without touching callers.
type TableExtractor interface {
	Extract(sqlText string) []TableReference
}

// CompletionClient is the external text-completion boundary.
type CompletionClient interface {
	Complete(ctx context.Context, prompt OptimizationPrompt, model string) (string, error)
}

// SessionContext carries the active database/schema used to qualify
// partially qualified table references. Caller-owned; no ambient globals.
type SessionContext struct {
	Database string
	Schema   string
}
