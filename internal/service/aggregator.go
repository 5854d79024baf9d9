package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"snowlens/internal/domain"
)

// metadataFetchConcurrency bounds the per-table fan-out so a query touching
// many tables does not flood the warehouse session.
const metadataFetchConcurrency = 4

// MetadataAggregator gathers catalog metadata for referenced tables,
// tolerating partial availability.
type MetadataAggregator struct {
	source  domain.MetadataSource
	session domain.SessionContext
	logger  *slog.Logger
}

// NewMetadataAggregator creates an aggregator resolving unqualified
// references against the given session context.
func NewMetadataAggregator(source domain.MetadataSource, session domain.SessionContext, logger *slog.Logger) *MetadataAggregator {
	return &MetadataAggregator{source: source, session: session, logger: logger}
}

// Fetch returns the metadata entry for one table. The three lookups
// (columns, statistics, constraints) are independent: any of them may fail
// or come back empty without blocking the others. A table that cannot be
// resolved at all yields an entry with Status UNAVAILABLE rather than an
// error, so prompt construction can still proceed.
func (a *MetadataAggregator) Fetch(ctx context.Context, ref domain.TableReference) domain.TableMetadata {
	qualified := ref.Qualify(a.session.Database, a.session.Schema)

	meta := domain.TableMetadata{
		Ref:           ref,
		QualifiedName: qualified.String(),
		Status:        domain.MetadataFound,
	}

	var failures int
	var lastErr error

	cols, err := a.source.Columns(ctx, qualified)
	if err != nil {
		failures++
		lastErr = err
		a.logger.Warn("column lookup failed", "table", qualified.String(), "error", err)
	} else {
		meta.Columns = cols
	}

	stats, err := a.source.Statistics(ctx, qualified)
	if err != nil {
		failures++
		lastErr = err
		a.logger.Warn("statistics lookup failed", "table", qualified.String(), "error", err)
	} else {
		meta.Statistics = stats
	}

	cons, err := a.source.Constraints(ctx, qualified)
	if err != nil {
		failures++
		lastErr = err
		a.logger.Warn("constraint lookup failed", "table", qualified.String(), "error", err)
	} else {
		meta.Constraints = cons
	}

	// All three lookups failed, or the table produced no catalog rows at
	// all: mark the entry unavailable but keep it keyed by the request.
	if failures == 3 {
		return domain.UnavailableMetadata(ref, qualified.String(), lastErr.Error())
	}
	if len(meta.Columns) == 0 && meta.Statistics == (domain.TableStatistics{}) && len(meta.Constraints) == 0 {
		return domain.UnavailableMetadata(ref, qualified.String(), "table not found or not accessible")
	}

	return meta
}

// FetchAll fetches metadata for every reference. Fetches fan out
// concurrently (each is read-only and independent); failures are isolated
// per table, and the result order matches the input order.
func (a *MetadataAggregator) FetchAll(ctx context.Context, refs []domain.TableReference) []domain.TableMetadata {
	results := make([]domain.TableMetadata, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(metadataFetchConcurrency)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			results[i] = a.Fetch(gctx, ref)
			return nil
		})
	}
	// Fetch never returns an error; per-table failures are already degraded
	// to UNAVAILABLE entries.
	_ = g.Wait()

	return results
}
