package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// Pipeline stage constants for an optimization run.
const (
	StageSelected    = "SELECTED"
	StageExtracting  = "EXTRACTING"
	StageAggregating = "AGGREGATING"
	StagePrompting   = "PROMPTING"
	StageCompleting  = "COMPLETING"
	StageDone        = "DONE"
	StageFailed      = "FAILED"
)

// Failure reason constants surfaced in OptimizationResult.
const (
	FailureCompletionUnavailable = "completion_unavailable"
)

// MetricLine is one labeled key/value line of execution metrics, rendered
// into the prompt in slice order.
type MetricLine struct {
	Label string
	Value string
}

// OptimizationPrompt is the assembled prompt text. Immutable after
// construction; safe to log or cache by content hash.
type OptimizationPrompt string

// Hash returns the hex SHA-256 of the prompt content.
func (p OptimizationPrompt) Hash() string {
	sum := sha256.Sum256([]byte(p))
	return hex.EncodeToString(sum[:])
}

// OptimizationResult is the outcome of one orchestration run. On success
// Advice holds the completion output; on failure FailureReason is set and
// Prompt is still populated when one was built.
type OptimizationResult struct {
	Prompt        OptimizationPrompt `json:"prompt"`
	Advice        string             `json:"advice,omitempty"`
	FailureReason string             `json:"failure_reason,omitempty"`
	Stage         string             `json:"stage"`
	Tables        []TableMetadata    `json:"tables,omitempty"`
}

// Failed reports whether the run ended in the FAILED state.
func (r *OptimizationResult) Failed() bool {
	return r.Stage == StageFailed
}
