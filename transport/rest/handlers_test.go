package rest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
	"github.com/rocketscienceinc/tictactoe-board/internal/metrics"
)

func TestNewRouter(t *testing.T) {
	m := metrics.New()
	m.GameFinished(entity.Won(entity.MarkB, entity.Line{2, 4, 6}))

	server := httptest.NewServer(NewRouter(m.Registry))
	t.Cleanup(server.Close)

	t.Run("Ping", func(t *testing.T) {
		// When: calling /ping
		resp, err := http.Get(server.URL + "/ping")
		require.NoError(t, err)
		defer resp.Body.Close()

		// Then: pong is returned
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "pong", string(body))
	})

	t.Run("Metrics", func(t *testing.T) {
		// When: calling /metrics
		resp, err := http.Get(server.URL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()

		// Then: the game counters are exposed
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), `tictactoe_games_finished_total{outcome="won_o"} 1`)
	})
}
