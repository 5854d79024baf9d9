package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snowlens/internal/domain"
)

type mockRanker struct {
	rankFn func(ctx context.Context, windowDays, topN int) ([]domain.QueryCostRecord, error)
}

func (m *mockRanker) Rank(ctx context.Context, windowDays, topN int) ([]domain.QueryCostRecord, error) {
	return m.rankFn(ctx, windowDays, topN)
}

type mockOptimizer struct {
	optimizeFn func(ctx context.Context, rec domain.QueryCostRecord, model string) (*domain.OptimizationResult, error)
}

func (m *mockOptimizer) Optimize(ctx context.Context, rec domain.QueryCostRecord, model string) (*domain.OptimizationResult, error) {
	return m.optimizeFn(ctx, rec, model)
}

type mockHistory struct {
	queryDetailFn func(ctx context.Context, queryID string) (*domain.ExecutionDetail, error)
}

func (m *mockHistory) QueryGroups(_ context.Context, _ int) ([]domain.QueryGroup, error) {
	return nil, nil
}

func (m *mockHistory) QueryDetail(ctx context.Context, queryID string) (*domain.ExecutionDetail, error) {
	if m.queryDetailFn == nil {
		return nil, nil
	}
	return m.queryDetailFn(ctx, queryID)
}

func newTestServer(ranker Ranker, optimizer QueryOptimizer, history domain.ExecutionHistory) http.Handler {
	return newTestServerWithDefaults(ranker, optimizer, history, Defaults{})
}

func newTestServerWithDefaults(ranker Ranker, optimizer QueryOptimizer, history domain.ExecutionHistory, defaults Defaults) http.Handler {
	h := NewHandler(ranker, optimizer, history, defaults, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Routes(r)
	return r
}

func TestGetRankings(t *testing.T) {
	t.Run("passes_params_and_returns_records", func(t *testing.T) {
		ranker := &mockRanker{rankFn: func(_ context.Context, windowDays, topN int) ([]domain.QueryCostRecord, error) {
			assert.Equal(t, 7, windowDays)
			assert.Equal(t, 5, topN)
			return []domain.QueryCostRecord{{ResourceName: "ETL_WH", Principal: "loader"}}, nil
		}}
		srv := newTestServer(ranker, nil, &mockHistory{})

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rankings?window_days=7&top=5", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Records []domain.QueryCostRecord `json:"records"`
			Count   int                      `json:"count"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, 1, body.Count)
		assert.Equal(t, "ETL_WH", body.Records[0].ResourceName)
	})

	t.Run("configured_defaults_fill_missing_params", func(t *testing.T) {
		ranker := &mockRanker{rankFn: func(_ context.Context, windowDays, topN int) ([]domain.QueryCostRecord, error) {
			assert.Equal(t, 14, windowDays)
			assert.Equal(t, 10, topN)
			return nil, nil
		}}
		srv := newTestServerWithDefaults(ranker, nil, &mockHistory{}, Defaults{WindowDays: 14, TopNPerResource: 10})

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rankings", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("invalid_window_days_is_400", func(t *testing.T) {
		srv := newTestServer(&mockRanker{}, nil, &mockHistory{})

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rankings?window_days=yesterday", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("source_unavailable_is_503", func(t *testing.T) {
		ranker := &mockRanker{rankFn: func(_ context.Context, _, _ int) ([]domain.QueryCostRecord, error) {
			return nil, domain.ErrDataUnavailable("history offline")
		}}
		srv := newTestServer(ranker, nil, &mockHistory{})

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rankings", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestGetQueryDetail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		history := &mockHistory{queryDetailFn: func(_ context.Context, queryID string) (*domain.ExecutionDetail, error) {
			return &domain.ExecutionDetail{QueryID: queryID, ResourceName: "BI_WH"}, nil
		}}
		srv := newTestServer(&mockRanker{}, nil, history)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/queries/01ab", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var detail domain.ExecutionDetail
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&detail))
		assert.Equal(t, "01ab", detail.QueryID)
	})

	t.Run("unknown_id_is_404", func(t *testing.T) {
		srv := newTestServer(&mockRanker{}, nil, &mockHistory{})

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/queries/nope", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestOptimize(t *testing.T) {
	t.Run("by_query_text", func(t *testing.T) {
		optimizer := &mockOptimizer{optimizeFn: func(_ context.Context, rec domain.QueryCostRecord, model string) (*domain.OptimizationResult, error) {
			assert.Equal(t, "SELECT * FROM t", rec.SampleQueryText)
			assert.Equal(t, "mistral-large", model)
			return &domain.OptimizationResult{Stage: domain.StageDone, Advice: "looks fine"}, nil
		}}
		srv := newTestServer(&mockRanker{}, optimizer, &mockHistory{})

		body, _ := json.Marshal(optimizeRequest{QueryText: "SELECT * FROM t", Model: "mistral-large"})
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/optimize", bytes.NewReader(body)))

		require.Equal(t, http.StatusOK, rec.Code)
		var result domain.OptimizationResult
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
		assert.Equal(t, "looks fine", result.Advice)
	})

	t.Run("by_query_id_resolves_detail", func(t *testing.T) {
		history := &mockHistory{queryDetailFn: func(_ context.Context, queryID string) (*domain.ExecutionDetail, error) {
			return &domain.ExecutionDetail{QueryID: queryID, QueryText: "SELECT 1 FROM dual", ResourceName: "WH"}, nil
		}}
		optimizer := &mockOptimizer{optimizeFn: func(_ context.Context, rec domain.QueryCostRecord, _ string) (*domain.OptimizationResult, error) {
			assert.Equal(t, "SELECT 1 FROM dual", rec.SampleQueryText)
			return &domain.OptimizationResult{Stage: domain.StageDone, Advice: "ok"}, nil
		}}
		srv := newTestServer(&mockRanker{}, optimizer, history)

		body, _ := json.Marshal(optimizeRequest{QueryID: "01ab"})
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/optimize", bytes.NewReader(body)))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing_selector_is_400", func(t *testing.T) {
		srv := newTestServer(&mockRanker{}, &mockOptimizer{}, &mockHistory{})

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/optimize", bytes.NewReader([]byte("{}"))))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("completion_failure_returns_prompt_with_502", func(t *testing.T) {
		optimizer := &mockOptimizer{optimizeFn: func(_ context.Context, _ domain.QueryCostRecord, _ string) (*domain.OptimizationResult, error) {
			prompt := domain.OptimizationPrompt("the built prompt")
			return &domain.OptimizationResult{Stage: domain.StageFailed, Prompt: prompt, FailureReason: domain.FailureCompletionUnavailable},
				domain.ErrCompletionUnavailable(prompt, "cortex down")
		}}
		srv := newTestServer(&mockRanker{}, optimizer, &mockHistory{})

		body, _ := json.Marshal(optimizeRequest{QueryText: "SELECT 1"})
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/optimize", bytes.NewReader(body)))

		require.Equal(t, http.StatusBadGateway, rec.Code)
		var resp map[string]interface{}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "the built prompt", resp["prompt"])
	})
}
