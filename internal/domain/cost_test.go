package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSizeMultiplier(t *testing.T) {
	t.Run("known_tiers", func(t *testing.T) {
		tiers := map[string]float64{
			"X-Small":  1,
			"Small":    2,
			"Medium":   4,
			"Large":    8,
			"X-Large":  16,
			"2X-Large": 32,
		}
		for size, want := range tiers {
			assert.Equal(t, want, SizeMultiplier(size), size)
		}
	})

	t.Run("case_insensitive", func(t *testing.T) {
		assert.Equal(t, 16.0, SizeMultiplier("x-large"))
		assert.Equal(t, 2.0, SizeMultiplier("SMALL"))
	})

	t.Run("unrecognized_falls_back_to_one", func(t *testing.T) {
		assert.Equal(t, 1.0, SizeMultiplier(""))
		assert.Equal(t, 1.0, SizeMultiplier("6X-Large"))
		assert.Equal(t, 1.0, SizeMultiplier("gigantic"))
	})
}

func TestCostRecordFromGroup(t *testing.T) {
	first := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	g := QueryGroup{
		ResourceName:   "ETL_WH",
		ResourceSize:   "Medium",
		Principal:      "loader",
		ExecutionCount: 12,
		FirstSeen:      first,
		ElapsedSeconds: 7200,
	}

	rec := CostRecordFromGroup(g)

	assert.Equal(t, 7200.0, rec.DurationSeconds)
	// hours = seconds / 3600, never /60/24
	assert.Equal(t, 2.0, rec.DurationHours)
	assert.Equal(t, 8.0, rec.CostFactor, "2h x Medium(4)")
	assert.Equal(t, first, rec.FirstSeen)
}
