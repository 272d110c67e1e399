package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const namespace = "tictactoe"

type Metrics struct {
	gamesCreated  *prometheus.CounterVec
	gamesFinished *prometheus.CounterVec
	movesApplied  *prometheus.CounterVec
	turnsRejected *prometheus.CounterVec
}

// New registers the game counters on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		gamesCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_created_total",
			Help:      "Games created, by game type.",
		}, []string{"type"}),
		gamesFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Games that reached a terminal state, by game type and result.",
		}, []string{"type", "result"}),
		movesApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_applied_total",
			Help:      "Moves recorded, by game type and actor kind.",
		}, []string{"type", "actor"}),
		turnsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_rejected_total",
			Help:      "Turn requests rejected, by reason.",
		}, []string{"reason"}),
	}
}

func (that *Metrics) GameCreated(gameType string) {
	that.gamesCreated.WithLabelValues(gameType).Inc()
}

func (that *Metrics) GameFinished(gameType, result string) {
	that.gamesFinished.WithLabelValues(gameType, result).Inc()
}

func (that *Metrics) MoveApplied(gameType, actor string) {
	that.movesApplied.WithLabelValues(gameType, actor).Inc()
}

func (that *Metrics) TurnRejected(err error) {
	that.turnsRejected.WithLabelValues(Reason(err)).Inc()
}

// Reason maps an engine error to a bounded label value.
func Reason(err error) string {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		return "game_not_found"
	case errors.Is(err, apperror.ErrPlayerNotFound):
		return "player_not_found"
	case errors.Is(err, apperror.ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, apperror.ErrCellOccupied):
		return "cell_occupied"
	case errors.Is(err, apperror.ErrInvalidCell):
		return "invalid_cell"
	case errors.Is(err, apperror.ErrGameFinished):
		return "game_finished"
	case errors.Is(err, apperror.ErrInvalidBotConfiguration):
		return "invalid_bot_configuration"
	case errors.Is(err, apperror.ErrTxConflict):
		return "conflict"
	default:
		return "internal"
	}
}
