package service

import (
	"context"
	"log/slog"
	"sort"

	"snowlens/internal/domain"
)

// CostRanker ranks the most expensive query groups per compute resource over
// a trailing time window.
type CostRanker struct {
	history domain.ExecutionHistory
	logger  *slog.Logger
}

// NewCostRanker creates a CostRanker over the given execution history.
func NewCostRanker(history domain.ExecutionHistory, logger *slog.Logger) *CostRanker {
	return &CostRanker{history: history, logger: logger}
}

// Rank returns the merged per-resource top-K query groups, ordered by
// descending duration_seconds. windowDays and topNPerResource fall back to
// the defaults when non-positive. The ranking is regenerated on every call;
// either the full ranked set is returned or an error is raised, never a
// silently truncated result.
func (r *CostRanker) Rank(ctx context.Context, windowDays, topNPerResource int) ([]domain.QueryCostRecord, error) {
	if windowDays <= 0 {
		windowDays = domain.DefaultWindowDays
	}
	if topNPerResource <= 0 {
		topNPerResource = domain.DefaultTopNPerResource
	}

	groups, err := r.history.QueryGroups(ctx, windowDays)
	if err != nil {
		return nil, err
	}

	byResource := make(map[string][]domain.QueryGroup)
	for _, g := range groups {
		byResource[g.ResourceName] = append(byResource[g.ResourceName], g)
	}

	var merged []domain.QueryCostRecord
	for _, partition := range byResource {
		sortGroups(partition)
		if len(partition) > topNPerResource {
			partition = partition[:topNPerResource]
		}
		for _, g := range partition {
			merged = append(merged, domain.CostRecordFromGroup(g))
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return recordLess(merged[i], merged[j])
	})

	r.logger.Debug("ranked expensive queries",
		"window_days", windowDays,
		"top_n_per_resource", topNPerResource,
		"resources", len(byResource),
		"records", len(merged))

	return merged, nil
}

// sortGroups orders a partition by descending summed elapsed time. Ties
// break by first-seen ascending, then principal ascending, so the ranking is
// deterministic.
func sortGroups(groups []domain.QueryGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if a.ElapsedSeconds != b.ElapsedSeconds {
			return a.ElapsedSeconds > b.ElapsedSeconds
		}
		if !a.FirstSeen.Equal(b.FirstSeen) {
			return a.FirstSeen.Before(b.FirstSeen)
		}
		return a.Principal < b.Principal
	})
}

func recordLess(a, b domain.QueryCostRecord) bool {
	if a.DurationSeconds != b.DurationSeconds {
		return a.DurationSeconds > b.DurationSeconds
	}
	if !a.FirstSeen.Equal(b.FirstSeen) {
		return a.FirstSeen.Before(b.FirstSeen)
	}
	return a.Principal < b.Principal
}
