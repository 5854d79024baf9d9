package service

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"snowlens/internal/domain"
)

var errTest = errors.New("boom")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockHistory struct {
	queryGroupsFn func(ctx context.Context, windowDays int) ([]domain.QueryGroup, error)
	queryDetailFn func(ctx context.Context, queryID string) (*domain.ExecutionDetail, error)
}

func (m *mockHistory) QueryGroups(ctx context.Context, windowDays int) ([]domain.QueryGroup, error) {
	if m.queryGroupsFn == nil {
		return nil, nil
	}
	return m.queryGroupsFn(ctx, windowDays)
}

func (m *mockHistory) QueryDetail(ctx context.Context, queryID string) (*domain.ExecutionDetail, error) {
	if m.queryDetailFn == nil {
		return nil, nil
	}
	return m.queryDetailFn(ctx, queryID)
}

type mockMetadataSource struct {
	columnsFn     func(ctx context.Context, ref domain.TableReference) ([]domain.ColumnMetadata, error)
	statisticsFn  func(ctx context.Context, ref domain.TableReference) (domain.TableStatistics, error)
	constraintsFn func(ctx context.Context, ref domain.TableReference) ([]domain.TableConstraint, error)
}

func (m *mockMetadataSource) Columns(ctx context.Context, ref domain.TableReference) ([]domain.ColumnMetadata, error) {
	if m.columnsFn == nil {
		return nil, nil
	}
	return m.columnsFn(ctx, ref)
}

func (m *mockMetadataSource) Statistics(ctx context.Context, ref domain.TableReference) (domain.TableStatistics, error) {
	if m.statisticsFn == nil {
		return domain.TableStatistics{}, nil
	}
	return m.statisticsFn(ctx, ref)
}

func (m *mockMetadataSource) Constraints(ctx context.Context, ref domain.TableReference) ([]domain.TableConstraint, error) {
	if m.constraintsFn == nil {
		return nil, nil
	}
	return m.constraintsFn(ctx, ref)
}

type mockCompletion struct {
	completeFn func(ctx context.Context, prompt domain.OptimizationPrompt, model string) (string, error)
	calls      int
}

func (m *mockCompletion) Complete(ctx context.Context, prompt domain.OptimizationPrompt, model string) (string, error) {
	m.calls++
	if m.completeFn == nil {
		return "ok", nil
	}
	return m.completeFn(ctx, prompt, model)
}
