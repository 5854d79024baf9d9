package service

import (
	"context"
	"log/slog"

	"snowlens/internal/domain"
)

// Optimizer orchestrates the extraction → aggregation → prompting →
// completion pipeline for a selected query. It performs no retries; retry
// policy belongs to the caller.
type Optimizer struct {
	extractor  domain.TableExtractor
	aggregator *MetadataAggregator
	builder    *PromptBuilder
	completion domain.CompletionClient
	history    domain.ExecutionHistory
	logger     *slog.Logger
}

// NewOptimizer wires the pipeline components together. history is optional:
// when present, per-query execution detail enriches the prompt metrics.
func NewOptimizer(
	extractor domain.TableExtractor,
	aggregator *MetadataAggregator,
	builder *PromptBuilder,
	completion domain.CompletionClient,
	history domain.ExecutionHistory,
	logger *slog.Logger,
) *Optimizer {
	return &Optimizer{
		extractor:  extractor,
		aggregator: aggregator,
		builder:    builder,
		completion: completion,
		history:    history,
		logger:     logger,
	}
}

// Optimize runs the full pipeline for a ranked query record. Stages advance
// SELECTED → EXTRACTING → AGGREGATING → PROMPTING → COMPLETING → DONE|FAILED.
// An empty extraction result and per-table metadata failures degrade rather
// than abort; a prompt construction failure is fatal; a completion failure
// returns a FAILED result that still carries the built prompt.
func (o *Optimizer) Optimize(ctx context.Context, rec domain.QueryCostRecord, model string) (*domain.OptimizationResult, error) {
	if model == "" {
		model = domain.DefaultCompletionModel
	}
	result := &domain.OptimizationResult{Stage: domain.StageSelected}

	result.Stage = domain.StageExtracting
	refs := o.extractor.Extract(rec.SampleQueryText)

	result.Stage = domain.StageAggregating
	tables := o.aggregator.FetchAll(ctx, refs)
	result.Tables = tables

	result.Stage = domain.StagePrompting
	prompt, err := o.builder.Build(rec.SampleQueryText, o.metricLines(ctx, rec), tables)
	if err != nil {
		result.Stage = domain.StageFailed
		return result, err
	}
	result.Prompt = prompt

	result.Stage = domain.StageCompleting
	advice, err := o.completion.Complete(ctx, prompt, model)
	if err != nil {
		o.logger.Warn("completion failed", "model", model, "prompt_hash", prompt.Hash(), "error", err)
		result.Stage = domain.StageFailed
		result.FailureReason = domain.FailureCompletionUnavailable
		return result, domain.ErrCompletionUnavailable(prompt, "completion service: %v", err)
	}

	result.Stage = domain.StageDone
	result.Advice = advice
	o.logger.Info("optimization complete", "query_id", rec.SampleQueryID, "model", model, "prompt_hash", prompt.Hash())
	return result, nil
}

// metricLines prefers the full execution detail for the record's sample
// query; a missing or failed detail lookup degrades to the record's own
// summary metrics.
func (o *Optimizer) metricLines(ctx context.Context, rec domain.QueryCostRecord) []domain.MetricLine {
	if o.history == nil || rec.SampleQueryID == "" {
		return rec.MetricLines()
	}
	detail, err := o.history.QueryDetail(ctx, rec.SampleQueryID)
	if err != nil || detail == nil {
		if err != nil {
			o.logger.Warn("query detail lookup failed", "query_id", rec.SampleQueryID, "error", err)
		}
		return rec.MetricLines()
	}
	return detail.MetricLines()
}
