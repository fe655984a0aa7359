package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-board/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
	"github.com/rocketscienceinc/tictactoe-board/internal/tictactoe"
)

type snapshotRepo interface {
	Save(ctx context.Context, id string, snapshot entity.Snapshot) error
	GetByID(ctx context.Context, id string) (entity.Snapshot, error)
}

type gameMetrics interface {
	PlacementAccepted()
	PlacementRejected()
	GameFinished(status entity.Status)
	Reset()
}

// Listener receives the status and board after every change.
type Listener func(status entity.Status, board entity.Board)

// GameController owns the board engine. The presentation layer drives it with taps and
// resets and subscribes to changes instead of reading the engine directly.
type GameController struct {
	logger *slog.Logger

	engine       *tictactoe.Engine
	snapshotRepo snapshotRepo
	metrics      gameMetrics
	sessionID    string

	score     entity.Score
	listeners []Listener
}

func NewGameController(
	logger *slog.Logger,
	engine *tictactoe.Engine,
	snapshotRepo snapshotRepo,
	metrics gameMetrics,
	sessionID string,
) *GameController {
	return &GameController{
		logger:       logger.With("component", "game_controller", "session", sessionID),
		engine:       engine,
		snapshotRepo: snapshotRepo,
		metrics:      metrics,
		sessionID:    sessionID,
	}
}

// Subscribe registers fn for every accepted tap, reset and restore.
func (that *GameController) Subscribe(fn Listener) {
	that.listeners = append(that.listeners, fn)
}

// Tap places the active mark on cell. The second result is false when the tap was a no-op.
func (that *GameController) Tap(cell int) (entity.Status, bool) {
	log := that.logger.With("method", "Tap", "cell", cell)

	moves := that.engine.MovesCount()
	status := that.engine.PlaceMark(cell)

	if that.engine.MovesCount() == moves {
		log.Debug("tap rejected", "status", status.String())
		that.metrics.PlacementRejected()

		return status, false
	}

	that.metrics.PlacementAccepted()

	if status.IsTerminal() {
		that.score.Record(status)
		that.metrics.GameFinished(status)
		log.Info("game finished", "status", status.String(), "moves", that.engine.MovesCount())
	}

	that.notify(status)

	return status, true
}

// Reset starts a new board with startingMark to move.
func (that *GameController) Reset(startingMark entity.Mark) entity.Status {
	status := that.engine.Reset(startingMark)
	that.metrics.Reset()

	that.logger.Info("board reset", "starting_mark", status.Mark.String())
	that.notify(status)

	return status
}

func (that *GameController) Status() entity.Status {
	return that.engine.Status()
}

func (that *GameController) Board() entity.Board {
	return that.engine.Board()
}

func (that *GameController) Score() entity.Score {
	return that.score
}

// Save stores the current engine snapshot under the session id.
func (that *GameController) Save(ctx context.Context) error {
	snapshot := that.engine.Snapshot()

	if err := that.snapshotRepo.Save(ctx, that.sessionID, snapshot); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	that.logger.Debug("snapshot saved", "moves", snapshot.MovesCount)

	return nil
}

// Restore loads the saved snapshot into the engine. A missing snapshot keeps the current
// board and reports false.
func (that *GameController) Restore(ctx context.Context) (bool, error) {
	log := that.logger.With("method", "Restore")

	snapshot, err := that.snapshotRepo.GetByID(ctx, that.sessionID)
	if errors.Is(err, apperror.ErrSnapshotNotFound) {
		log.Debug("no snapshot to restore")
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("failed to get snapshot: %w", err)
	}

	if err = that.engine.Restore(snapshot); err != nil {
		return false, fmt.Errorf("failed to restore snapshot: %w", err)
	}

	log.Info("snapshot restored", "moves", snapshot.MovesCount, "status", that.engine.Status().String())
	that.notify(that.engine.Status())

	return true, nil
}

func (that *GameController) notify(status entity.Status) {
	board := that.engine.Board()
	for _, fn := range that.listeners {
		fn(status, board)
	}
}
