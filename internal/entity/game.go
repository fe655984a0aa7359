package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-board/internal/apperror"
)

// BoardSize is the number of cells on the 3x3 board.
const BoardSize = 9

// Mark is the content of a single cell.
type Mark uint8

const (
	Empty Mark = iota
	MarkA
	MarkB
)

const (
	symbolEmpty = ""
	symbolA     = "X"
	symbolB     = "O"
)

// Line is a triple of board indexes.
type Line [3]int

// WinLines are scanned in this order: rows, then columns, then diagonals.
var WinLines = [8]Line{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board is the grid in row-major order.
type Board [BoardSize]Mark

// ParseMark accepts "X"/"O" and "A"/"B" in any case.
func ParseMark(s string) (Mark, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case symbolA, "A":
		return MarkA, nil
	case symbolB, "B":
		return MarkB, nil
	default:
		return Empty, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, s)
	}
}

func (that Mark) String() string {
	switch that {
	case MarkA:
		return symbolA
	case MarkB:
		return symbolB
	default:
		return symbolEmpty
	}
}

// IsPlayer reports whether the mark belongs to one of the two players.
func (that Mark) IsPlayer() bool {
	return that == MarkA || that == MarkB
}

// Opponent returns the other player's mark. Empty stays Empty.
func (that Mark) Opponent() Mark {
	switch that {
	case MarkA:
		return MarkB
	case MarkB:
		return MarkA
	default:
		return Empty
	}
}

func (that Mark) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Mark) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*that = Empty
		return nil
	}

	mark, err := ParseMark(string(text))
	if err != nil {
		return err
	}

	*that = mark
	return nil
}

// CountMarks returns the number of non-empty cells.
func (that *Board) CountMarks() int {
	count := 0
	for _, cell := range that {
		if cell != Empty {
			count++
		}
	}

	return count
}

// IsFull reports whether no empty cell remains.
func (that *Board) IsFull() bool {
	return that.CountMarks() == BoardSize
}
