package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-board/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
)

// Engine holds one 3x3 board and the turn indicator.
// It is not safe for concurrent use; callers drive it from a single event loop.
type Engine struct {
	board  entity.Board
	turn   entity.Mark
	moves  int
	status entity.Status
}

// NewEngine returns an empty board with startingMark to move.
func NewEngine(startingMark entity.Mark) *Engine {
	engine := &Engine{}
	engine.Reset(startingMark)

	return engine
}

// PlaceMark puts the active mark on cell and returns the resulting status.
// Out-of-range cells, occupied cells and finished games leave the engine untouched.
func (that *Engine) PlaceMark(cell int) entity.Status {
	if !that.canPlace(cell) {
		return that.status
	}

	that.board[cell] = that.turn
	that.moves++
	that.updateStatus()

	return that.status
}

// canPlace - checks if the move is valid.
func (that *Engine) canPlace(cell int) bool {
	if that.status.IsTerminal() {
		return false
	}

	if cell < 0 || cell >= entity.BoardSize {
		return false
	}

	return that.board[cell] == entity.Empty
}

// updateStatus - derives the status from the board after a move.
func (that *Engine) updateStatus() {
	if winner, line, ok := that.CheckWinner(); ok {
		that.status = entity.Won(winner, line)
		return
	}

	if that.board.IsFull() {
		that.status = entity.Draw()
		return
	}

	that.turn = that.turn.Opponent()
	that.status = entity.InProgress(that.turn)
}

// CheckWinner returns the first completed line in scan order.
func (that *Engine) CheckWinner() (entity.Mark, entity.Line, bool) {
	return checkWinner(&that.board)
}

// IsDraw reports a full board without a completed line.
func (that *Engine) IsDraw() bool {
	if _, _, ok := that.CheckWinner(); ok {
		return false
	}

	return that.board.IsFull()
}

// Reset clears the board. Anything but a player mark starts with MarkA.
func (that *Engine) Reset(startingMark entity.Mark) entity.Status {
	if !startingMark.IsPlayer() {
		startingMark = entity.MarkA
	}

	that.board = entity.Board{}
	that.turn = startingMark
	that.moves = 0
	that.status = entity.InProgress(startingMark)

	return that.status
}

func (that *Engine) Status() entity.Status {
	return that.status
}

// Board returns a copy of the cells.
func (that *Engine) Board() entity.Board {
	return that.board
}

func (that *Engine) ActiveMark() entity.Mark {
	return that.turn
}

func (that *Engine) MovesCount() int {
	return that.moves
}

func (that *Engine) IsFinished() bool {
	return that.status.IsTerminal()
}

// Snapshot captures the engine for a later Restore.
func (that *Engine) Snapshot() entity.Snapshot {
	return entity.Snapshot{
		Board:      that.board,
		ActiveMark: that.turn,
		Finished:   that.status.IsTerminal(),
		MovesCount: that.moves,
	}
}

// Restore replaces the engine state with snapshot. Inconsistent snapshots are rejected
// and the engine is left as it was.
func (that *Engine) Restore(snapshot entity.Snapshot) error {
	status, err := validateSnapshot(snapshot)
	if err != nil {
		return err
	}

	that.board = snapshot.Board
	that.turn = snapshot.ActiveMark
	that.moves = snapshot.MovesCount
	that.status = status

	return nil
}

// validateSnapshot accepts only boards alternating play can reach, and derives their status.
func validateSnapshot(snapshot entity.Snapshot) (entity.Status, error) {
	board := &snapshot.Board

	if !snapshot.ActiveMark.IsPlayer() {
		return entity.Status{}, fmt.Errorf("%w: active mark %d", apperror.ErrInvalidSnapshot, snapshot.ActiveMark)
	}

	for i, cell := range board {
		if cell != entity.Empty && !cell.IsPlayer() {
			return entity.Status{}, fmt.Errorf("%w: cell %d holds %d", apperror.ErrInvalidSnapshot, i, cell)
		}
	}

	if marks := board.CountMarks(); marks != snapshot.MovesCount {
		return entity.Status{}, fmt.Errorf("%w: %d marks for %d moves", apperror.ErrInvalidSnapshot, marks, snapshot.MovesCount)
	}

	// the first mover is ahead by one after its own move and level after the opponent's
	countA, countB := countMark(board, entity.MarkA), countMark(board, entity.MarkB)
	var leader entity.Mark
	switch countA - countB {
	case 1:
		leader = entity.MarkA
	case -1:
		leader = entity.MarkB
	case 0:
		leader = entity.Empty
	default:
		return entity.Status{}, fmt.Errorf("%w: %d X against %d O", apperror.ErrInvalidSnapshot, countA, countB)
	}

	if hasLine(board, entity.MarkA) && hasLine(board, entity.MarkB) {
		return entity.Status{}, fmt.Errorf("%w: both marks have a completed line", apperror.ErrInvalidSnapshot)
	}

	status := entity.InProgress(snapshot.ActiveMark)
	if winner, line, ok := checkWinner(board); ok {
		status = entity.Won(winner, line)
	} else if board.IsFull() {
		status = entity.Draw()
	}

	if status.IsTerminal() != snapshot.Finished {
		return entity.Status{}, fmt.Errorf("%w: finished flag is %t for a %s board",
			apperror.ErrInvalidSnapshot, snapshot.Finished, status.State)
	}

	if err := validateTurn(status, leader, snapshot.ActiveMark); err != nil {
		return entity.Status{}, err
	}

	return status, nil
}

// validateTurn checks the active mark against who moved last. leader is Empty when the counts are level.
func validateTurn(status entity.Status, leader, active entity.Mark) error {
	switch status.State {
	case entity.StateWon:
		// the turn freezes on the winner, who made the last move
		if active != status.Mark || (leader != entity.Empty && leader != status.Mark) {
			return fmt.Errorf("%w: %s won with %q to move", apperror.ErrInvalidSnapshot, status.Mark, active)
		}
	case entity.StateDraw:
		if active != leader {
			return fmt.Errorf("%w: draw with %q to move after %q played last", apperror.ErrInvalidSnapshot, active, leader)
		}
	default:
		if leader != entity.Empty && active != leader.Opponent() {
			return fmt.Errorf("%w: %q to move after %q played", apperror.ErrInvalidSnapshot, active, leader)
		}
	}

	return nil
}

func countMark(board *entity.Board, mark entity.Mark) int {
	count := 0
	for _, cell := range board {
		if cell == mark {
			count++
		}
	}

	return count
}

func hasLine(board *entity.Board, mark entity.Mark) bool {
	for _, line := range entity.WinLines {
		if board[line[0]] == mark && board[line[1]] == mark && board[line[2]] == mark {
			return true
		}
	}

	return false
}

func checkWinner(board *entity.Board) (entity.Mark, entity.Line, bool) {
	for _, line := range entity.WinLines {
		a, b, c := board[line[0]], board[line[1]], board[line[2]]
		if a != entity.Empty && a == b && b == c {
			return a, line, true
		}
	}

	return entity.Empty, entity.Line{}, false
}
