package warehouse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snowlens/internal/domain"
)

func TestInformationSchema(t *testing.T) {
	t.Run("session_catalog_when_unqualified", func(t *testing.T) {
		ref := domain.NewTableReference("public", "orders")
		from, err := informationSchema(ref, "COLUMNS")
		require.NoError(t, err)
		assert.Equal(t, "INFORMATION_SCHEMA.COLUMNS", from)
	})

	t.Run("database_qualified", func(t *testing.T) {
		ref := domain.NewTableReference("analytics", "public", "orders")
		from, err := informationSchema(ref, "TABLES")
		require.NoError(t, err)
		assert.Equal(t, "analytics.INFORMATION_SCHEMA.TABLES", from)
	})

	t.Run("hostile_database_segment_rejected", func(t *testing.T) {
		ref := domain.NewTableReference("x; DROP TABLE y", "public", "orders")
		_, err := informationSchema(ref, "COLUMNS")
		var notFound *domain.TableNotFoundError
		require.ErrorAs(t, err, &notFound)
	})
}

func TestConnectionParamsValidate(t *testing.T) {
	assert.Error(t, ConnectionParams{}.Validate())
	assert.Error(t, ConnectionParams{Account: "acme-xy12345"}.Validate())
	assert.NoError(t, ConnectionParams{Account: "acme-xy12345", User: "svc_analyzer"}.Validate())
}
