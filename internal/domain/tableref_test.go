package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableReference(t *testing.T) {
	t.Run("segments", func(t *testing.T) {
		ref := NewTableReference("db", "sch", "t1")
		assert.Equal(t, "db", ref.Database())
		assert.Equal(t, "sch", ref.Schema())
		assert.Equal(t, "t1", ref.Table())
		assert.Equal(t, "db.sch.t1", ref.String())
	})

	t.Run("normalized_is_case_folded", func(t *testing.T) {
		a := NewTableReference("DB", "Sch", "Orders")
		b := NewTableReference("db", "sch", "orders")
		assert.Equal(t, b.Normalized(), a.Normalized())
		assert.Equal(t, "DB.Sch.Orders", a.String(), "original casing retained")
	})

	t.Run("qualify", func(t *testing.T) {
		assert.Equal(t, "analytics.public.t", NewTableReference("t").Qualify("analytics", "public").String())
		assert.Equal(t, "analytics.sales.t", NewTableReference("sales", "t").Qualify("analytics", "public").String())
		assert.Equal(t, "x.y.z", NewTableReference("x", "y", "z").Qualify("analytics", "public").String())
	})

	t.Run("empty_segments_dropped", func(t *testing.T) {
		ref := NewTableReference("", "sch", "t")
		assert.Equal(t, "sch.t", ref.String())
		assert.Equal(t, "sch", ref.Schema())
	})
}
