package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
)

func TestMetrics(t *testing.T) {
	t.Run("Counts placements by result", func(t *testing.T) {
		// Given: fresh metrics
		m := New()

		// When: two accepted and one rejected tap are recorded
		m.PlacementAccepted()
		m.PlacementAccepted()
		m.PlacementRejected()

		// Then: the counters reflect them
		assert.InDelta(t, 2, testutil.ToFloat64(m.placements.WithLabelValues(ResultAccepted)), 0)
		assert.InDelta(t, 1, testutil.ToFloat64(m.placements.WithLabelValues(ResultRejected)), 0)
	})

	t.Run("Counts finished games by outcome", func(t *testing.T) {
		// Given: fresh metrics
		m := New()

		// When: games end in every possible way
		m.GameFinished(entity.Won(entity.MarkA, entity.Line{0, 1, 2}))
		m.GameFinished(entity.Won(entity.MarkB, entity.Line{0, 4, 8}))
		m.GameFinished(entity.Draw())
		m.GameFinished(entity.Draw())

		// Then: each outcome has its own series
		assert.InDelta(t, 1, testutil.ToFloat64(m.gamesFinished.WithLabelValues("won_x")), 0)
		assert.InDelta(t, 1, testutil.ToFloat64(m.gamesFinished.WithLabelValues("won_o")), 0)
		assert.InDelta(t, 2, testutil.ToFloat64(m.gamesFinished.WithLabelValues(OutcomeDraw)), 0)
	})

	t.Run("Counts resets", func(t *testing.T) {
		m := New()

		m.Reset()

		assert.InDelta(t, 1, testutil.ToFloat64(m.resets), 0)
	})

	t.Run("Registry exposes all collectors", func(t *testing.T) {
		// Given: metrics with one sample each
		m := New()
		m.PlacementAccepted()
		m.GameFinished(entity.Draw())
		m.Reset()

		// When: gathering the registry
		count, err := testutil.GatherAndCount(m.Registry)

		// Then: one series per collector is gathered
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})
}
