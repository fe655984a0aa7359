package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
)

const namespace = "tictactoe"

const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"

	OutcomeDraw = "draw"
)

// Metrics groups the game counters on their own registry.
type Metrics struct {
	Registry *prometheus.Registry

	placements    *prometheus.CounterVec
	gamesFinished *prometheus.CounterVec
	resets        prometheus.Counter
}

func New() *Metrics {
	placements := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "placements_total",
			Help:      "Total number of taps on the board by result",
		},
		[]string{"result"},
	)
	gamesFinished := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Total number of finished games by outcome",
		},
		[]string{"outcome"},
	)
	resets := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resets_total",
		Help:      "Total number of board resets",
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(placements, gamesFinished, resets)

	return &Metrics{
		Registry:      registry,
		placements:    placements,
		gamesFinished: gamesFinished,
		resets:        resets,
	}
}

func (that *Metrics) PlacementAccepted() {
	that.placements.WithLabelValues(ResultAccepted).Inc()
}

func (that *Metrics) PlacementRejected() {
	that.placements.WithLabelValues(ResultRejected).Inc()
}

// GameFinished counts a terminal status; "won_x", "won_o" or "draw".
func (that *Metrics) GameFinished(status entity.Status) {
	that.gamesFinished.WithLabelValues(Outcome(status)).Inc()
}

func (that *Metrics) Reset() {
	that.resets.Inc()
}

func Outcome(status entity.Status) string {
	if status.State == entity.StateWon {
		return "won_" + strings.ToLower(status.Mark.String())
	}

	return OutcomeDraw
}
