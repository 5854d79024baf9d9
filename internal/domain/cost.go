package domain

import (
	"strings"
	"time"
)

// Default ranking parameters.
const (
	DefaultWindowDays      = 30
	DefaultTopNPerResource = 20
	SecondsPerHour         = 3600
	DefaultCompletionModel = "claude-3-5-sonnet"
	UnknownSizeMultiplier  = 1.0
)

// QueryGroup is one grouped row from the execution history: all executions
// sharing (resource, size, principal) inside the ranking window.
type QueryGroup struct {
	ResourceName    string
	ResourceSize    string
	Principal       string
	ExecutionCount  int64
	SampleQueryID   string
	SampleQueryText string
	FirstSeen       time.Time
	LastSeen        time.Time
	ElapsedSeconds  float64
}

// QueryCostRecord is a ranked query group with its derived cost score.
// Immutable once computed; regenerated on every ranking request.
type QueryCostRecord struct {
	ResourceName    string    `json:"resource_name"`
	ResourceSize    string    `json:"resource_size"`
	Principal       string    `json:"principal"`
	ExecutionCount  int64     `json:"execution_count"`
	SampleQueryID   string    `json:"sample_query_id"`
	SampleQueryText string    `json:"sample_query_text"`
	FirstSeen       time.Time `json:"first_seen"`
	LastSeen        time.Time `json:"last_seen"`
	DurationSeconds float64   `json:"duration_seconds"`
	DurationHours   float64   `json:"duration_hours"`
	CostFactor      float64   `json:"cost_factor"`
}

// sizeMultipliers maps the ordinal warehouse size scale to its cost
// multiplier. Keys are lower-cased.
var sizeMultipliers = map[string]float64{
	"x-small":  1,
	"small":    2,
	"medium":   4,
	"large":    8,
	"x-large":  16,
	"2x-large": 32,
}

// SizeMultiplier returns the cost multiplier for a resource size tier.
// Unrecognized tiers (including empty) fall back to 1 rather than failing.
func SizeMultiplier(size string) float64 {
	if m, ok := sizeMultipliers[strings.ToLower(strings.TrimSpace(size))]; ok {
		return m
	}
	return UnknownSizeMultiplier
}

// CostRecordFromGroup derives the ranked record for a query group.
// duration_hours and cost_factor both derive from the same summed elapsed
// seconds; hours is seconds/3600.
func CostRecordFromGroup(g QueryGroup) QueryCostRecord {
	hours := g.ElapsedSeconds / SecondsPerHour
	return QueryCostRecord{
		ResourceName:    g.ResourceName,
		ResourceSize:    g.ResourceSize,
		Principal:       g.Principal,
		ExecutionCount:  g.ExecutionCount,
		SampleQueryID:   g.SampleQueryID,
		SampleQueryText: g.SampleQueryText,
		FirstSeen:       g.FirstSeen,
		LastSeen:        g.LastSeen,
		DurationSeconds: g.ElapsedSeconds,
		DurationHours:   hours,
		CostFactor:      hours * SizeMultiplier(g.ResourceSize),
	}
}
