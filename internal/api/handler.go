// Package api exposes the analyzer pipeline over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"snowlens/internal/domain"
	"snowlens/internal/middleware"
)

// Ranker is the ranking capability consumed by the handler.
type Ranker interface {
	Rank(ctx context.Context, windowDays, topNPerResource int) ([]domain.QueryCostRecord, error)
}

// QueryOptimizer is the orchestration capability consumed by the handler.
type QueryOptimizer interface {
	Optimize(ctx context.Context, rec domain.QueryCostRecord, model string) (*domain.OptimizationResult, error)
}

// Defaults are applied when a request omits the corresponding field. Zero
// values defer to the pipeline's own fallbacks.
type Defaults struct {
	WindowDays      int
	TopNPerResource int
	Model           string
}

// Handler serves the analyzer API.
type Handler struct {
	ranker    Ranker
	optimizer QueryOptimizer
	history   domain.ExecutionHistory
	defaults  Defaults
	logger    *slog.Logger
}

// NewHandler creates the API handler.
func NewHandler(ranker Ranker, optimizer QueryOptimizer, history domain.ExecutionHistory, defaults Defaults, logger *slog.Logger) *Handler {
	return &Handler{ranker: ranker, optimizer: optimizer, history: history, defaults: defaults, logger: logger}
}

// Routes mounts the handler on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/api/v1/rankings", h.GetRankings)
	r.Get("/api/v1/queries/{queryID}", h.GetQueryDetail)
	r.Post("/api/v1/optimize", h.Optimize)
}

// GetRankings returns the ranked expensive query groups.
func (h *Handler) GetRankings(w http.ResponseWriter, r *http.Request) {
	windowDays, err := intQueryParam(r, "window_days")
	if err != nil {
		writeError(w, domain.ErrValidation("invalid window_days"))
		return
	}
	topN, err := intQueryParam(r, "top")
	if err != nil {
		writeError(w, domain.ErrValidation("invalid top"))
		return
	}
	if windowDays == 0 {
		windowDays = h.defaults.WindowDays
	}
	if topN == 0 {
		topN = h.defaults.TopNPerResource
	}

	records, err := h.ranker.Rank(r.Context(), windowDays, topN)
	if err != nil {
		h.logError(r.Context(), "ranking failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
		"count":   len(records),
	})
}

// GetQueryDetail returns the execution metrics of one query.
func (h *Handler) GetQueryDetail(w http.ResponseWriter, r *http.Request) {
	queryID := chi.URLParam(r, "queryID")
	detail, err := h.history.QueryDetail(r.Context(), queryID)
	if err != nil {
		h.logError(r.Context(), "query detail failed", err)
		writeError(w, err)
		return
	}
	if detail == nil {
		writeJSON(w, http.StatusNotFound, errorBody(http.StatusNotFound, "query "+queryID+" not found"))
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

type optimizeRequest struct {
	QueryID   string `json:"query_id,omitempty"`
	QueryText string `json:"query_text,omitempty"`
	Model     string `json:"model,omitempty"`
}

// Optimize runs the full pipeline for a query selected by id or given as
// raw text. On completion failure the built prompt is returned with the
// error so the caller keeps its context.
func (h *Handler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if req.QueryID == "" && req.QueryText == "" {
		writeError(w, domain.ErrValidation("one of query_id or query_text is required"))
		return
	}
	if req.Model == "" {
		req.Model = h.defaults.Model
	}

	rec := domain.QueryCostRecord{SampleQueryID: req.QueryID, SampleQueryText: req.QueryText}
	if req.QueryText == "" {
		detail, err := h.history.QueryDetail(r.Context(), req.QueryID)
		if err != nil {
			h.logError(r.Context(), "query detail failed", err)
			writeError(w, err)
			return
		}
		if detail == nil {
			writeJSON(w, http.StatusNotFound, errorBody(http.StatusNotFound, "query "+req.QueryID+" not found"))
			return
		}
		rec = domain.QueryCostRecord{
			ResourceName:    detail.ResourceName,
			ResourceSize:    detail.ResourceSize,
			Principal:       detail.Principal,
			SampleQueryID:   detail.QueryID,
			SampleQueryText: detail.QueryText,
			DurationSeconds: detail.DurationSeconds,
			DurationHours:   detail.DurationSeconds / domain.SecondsPerHour,
		}
	}

	result, err := h.optimizer.Optimize(r.Context(), rec, req.Model)
	if err != nil {
		h.logError(r.Context(), "optimization failed", err)
		var completionErr *domain.CompletionUnavailableError
		if errors.As(err, &completionErr) {
			// Preserve the prompt so the caller can retry or display it.
			writeJSON(w, http.StatusBadGateway, map[string]interface{}{
				"code":    http.StatusBadGateway,
				"message": completionErr.Message,
				"prompt":  string(completionErr.Prompt),
			})
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	h.logger.Error(msg, "request_id", middleware.RequestIDFromContext(ctx), "error", err)
}

func intQueryParam(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func errorBody(code int, message string) map[string]interface{} {
	return map[string]interface{}{"code": code, "message": message}
}

func writeError(w http.ResponseWriter, err error) {
	status := httpStatusFromDomainError(err)
	writeJSON(w, status, errorBody(status, err.Error()))
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
