package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snowlens/internal/domain"
)

var testSession = domain.SessionContext{Database: "ANALYTICS", Schema: "PUBLIC"}

func TestMetadataAggregator_Fetch(t *testing.T) {
	t.Run("all_three_lookups_merge", func(t *testing.T) {
		rows := int64(42)
		source := &mockMetadataSource{
			columnsFn: func(_ context.Context, _ domain.TableReference) ([]domain.ColumnMetadata, error) {
				return []domain.ColumnMetadata{{Name: "id", Type: "NUMBER"}}, nil
			},
			statisticsFn: func(_ context.Context, _ domain.TableReference) (domain.TableStatistics, error) {
				return domain.TableStatistics{RowCount: &rows}, nil
			},
			constraintsFn: func(_ context.Context, _ domain.TableReference) ([]domain.TableConstraint, error) {
				return []domain.TableConstraint{{Name: "pk_orders", Kind: "PRIMARY KEY"}}, nil
			},
		}
		agg := NewMetadataAggregator(source, testSession, testLogger())

		meta := agg.Fetch(context.Background(), domain.NewTableReference("orders"))

		assert.True(t, meta.Available())
		assert.Equal(t, "ANALYTICS.PUBLIC.orders", meta.QualifiedName)
		assert.Len(t, meta.Columns, 1)
		assert.Equal(t, &rows, meta.Statistics.RowCount)
		assert.Len(t, meta.Constraints, 1)
	})

	t.Run("statistics_failure_does_not_block_columns", func(t *testing.T) {
		source := &mockMetadataSource{
			columnsFn: func(_ context.Context, _ domain.TableReference) ([]domain.ColumnMetadata, error) {
				return []domain.ColumnMetadata{{Name: "id", Type: "NUMBER"}}, nil
			},
			statisticsFn: func(_ context.Context, _ domain.TableReference) (domain.TableStatistics, error) {
				return domain.TableStatistics{}, errTest
			},
		}
		agg := NewMetadataAggregator(source, testSession, testLogger())

		meta := agg.Fetch(context.Background(), domain.NewTableReference("orders"))

		assert.True(t, meta.Available())
		assert.Len(t, meta.Columns, 1)
		assert.Equal(t, domain.TableStatistics{}, meta.Statistics)
	})

	t.Run("nonexistent_table_degrades_not_errors", func(t *testing.T) {
		agg := NewMetadataAggregator(&mockMetadataSource{}, testSession, testLogger())

		meta := agg.Fetch(context.Background(), domain.NewTableReference("ghost"))

		assert.False(t, meta.Available())
		assert.Equal(t, domain.MetadataUnavailable, meta.Status)
		assert.NotEmpty(t, meta.Reason)
		assert.Empty(t, meta.Columns)
		assert.Empty(t, meta.Constraints)
		assert.Equal(t, "ANALYTICS.PUBLIC.ghost", meta.QualifiedName)
	})

	t.Run("all_lookups_failing_reports_reason", func(t *testing.T) {
		source := &mockMetadataSource{
			columnsFn: func(_ context.Context, _ domain.TableReference) ([]domain.ColumnMetadata, error) {
				return nil, errTest
			},
			statisticsFn: func(_ context.Context, _ domain.TableReference) (domain.TableStatistics, error) {
				return domain.TableStatistics{}, errTest
			},
			constraintsFn: func(_ context.Context, _ domain.TableReference) ([]domain.TableConstraint, error) {
				return nil, errTest
			},
		}
		agg := NewMetadataAggregator(source, testSession, testLogger())

		meta := agg.Fetch(context.Background(), domain.NewTableReference("orders"))

		assert.False(t, meta.Available())
		assert.Equal(t, errTest.Error(), meta.Reason)
	})

	t.Run("qualified_ref_passes_through", func(t *testing.T) {
		var seen string
		source := &mockMetadataSource{
			columnsFn: func(_ context.Context, ref domain.TableReference) ([]domain.ColumnMetadata, error) {
				seen = ref.String()
				return []domain.ColumnMetadata{{Name: "id", Type: "NUMBER"}}, nil
			},
		}
		agg := NewMetadataAggregator(source, testSession, testLogger())

		agg.Fetch(context.Background(), domain.NewTableReference("raw", "events", "clicks"))

		assert.Equal(t, "raw.events.clicks", seen)
	})
}

func TestMetadataAggregator_FetchAll(t *testing.T) {
	t.Run("one_failing_table_does_not_abort_the_rest", func(t *testing.T) {
		source := &mockMetadataSource{
			columnsFn: func(_ context.Context, ref domain.TableReference) ([]domain.ColumnMetadata, error) {
				if strings.EqualFold(ref.Table(), "broken") {
					return nil, errTest
				}
				return []domain.ColumnMetadata{{Name: "id", Type: "NUMBER"}}, nil
			},
			statisticsFn: func(_ context.Context, ref domain.TableReference) (domain.TableStatistics, error) {
				if strings.EqualFold(ref.Table(), "broken") {
					return domain.TableStatistics{}, errTest
				}
				return domain.TableStatistics{}, nil
			},
			constraintsFn: func(_ context.Context, ref domain.TableReference) ([]domain.TableConstraint, error) {
				if strings.EqualFold(ref.Table(), "broken") {
					return nil, errTest
				}
				return nil, nil
			},
		}
		agg := NewMetadataAggregator(source, testSession, testLogger())

		refs := []domain.TableReference{
			domain.NewTableReference("good_a"),
			domain.NewTableReference("broken"),
			domain.NewTableReference("good_b"),
		}
		results := agg.FetchAll(context.Background(), refs)

		require.Len(t, results, 3)
		assert.True(t, results[0].Available())
		assert.False(t, results[1].Available())
		assert.True(t, results[2].Available())
	})

	t.Run("result_order_matches_input_order", func(t *testing.T) {
		source := &mockMetadataSource{
			columnsFn: func(_ context.Context, _ domain.TableReference) ([]domain.ColumnMetadata, error) {
				return []domain.ColumnMetadata{{Name: "id", Type: "NUMBER"}}, nil
			},
		}
		agg := NewMetadataAggregator(source, testSession, testLogger())

		refs := []domain.TableReference{
			domain.NewTableReference("t3"),
			domain.NewTableReference("t1"),
			domain.NewTableReference("t2"),
		}
		results := agg.FetchAll(context.Background(), refs)

		require.Len(t, results, 3)
		for i, ref := range refs {
			assert.Equal(t, ref.Qualify("ANALYTICS", "PUBLIC").String(), results[i].QualifiedName)
		}
	})

	t.Run("empty_input_yields_empty_output", func(t *testing.T) {
		agg := NewMetadataAggregator(&mockMetadataSource{}, testSession, testLogger())
		assert.Empty(t, agg.FetchAll(context.Background(), nil))
	})
}
