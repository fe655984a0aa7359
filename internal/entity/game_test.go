package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-board/internal/apperror"
)

func TestParseMark(t *testing.T) {
	t.Run("Accepts symbols and letters", func(t *testing.T) {
		for input, expected := range map[string]Mark{
			"X": MarkA, "x": MarkA, "A": MarkA, " a ": MarkA,
			"O": MarkB, "o": MarkB, "B": MarkB,
		} {
			// When: parsing the input
			mark, err := ParseMark(input)

			// Then: the matching mark is returned
			require.NoError(t, err, input)
			assert.Equal(t, expected, mark, input)
		}
	})

	t.Run("Rejects anything else", func(t *testing.T) {
		// When: parsing an unknown symbol
		_, err := ParseMark("Z")

		// Then: ErrInvalidMark is returned
		assert.ErrorIs(t, err, apperror.ErrInvalidMark)
	})
}

func TestMark_Opponent(t *testing.T) {
	assert.Equal(t, MarkB, MarkA.Opponent())
	assert.Equal(t, MarkA, MarkB.Opponent())
	assert.Equal(t, Empty, Empty.Opponent())
}

func TestBoard_CountMarks(t *testing.T) {
	t.Run("Counts non-empty cells", func(t *testing.T) {
		// Given: a board with three marks
		board := Board{MarkA, Empty, MarkB, Empty, MarkA, Empty, Empty, Empty, Empty}

		// Then: three marks are counted and the board is not full
		assert.Equal(t, 3, board.CountMarks())
		assert.False(t, board.IsFull())
	})

	t.Run("Full board", func(t *testing.T) {
		board := Board{MarkA, MarkB, MarkA, MarkB, MarkA, MarkB, MarkB, MarkA, MarkB}

		assert.True(t, board.IsFull())
	})
}

func TestSnapshot_JSON(t *testing.T) {
	// Given: a snapshot of a game in progress
	snapshot := Snapshot{
		Board:      Board{MarkA, Empty, Empty, Empty, MarkB, Empty, Empty, Empty, Empty},
		ActiveMark: MarkA,
		MovesCount: 2,
	}

	// When: encoding it
	data, err := json.Marshal(snapshot)
	require.NoError(t, err)

	// Then: marks are written as symbols
	assert.JSONEq(t,
		`{"board":["X","","","","O","","","",""],"active_mark":"X","finished":false,"moves_count":2}`,
		string(data))

	// And: decoding gives back the same snapshot
	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, snapshot, decoded)
}

func TestStatus(t *testing.T) {
	t.Run("Terminal states", func(t *testing.T) {
		assert.False(t, InProgress(MarkA).IsTerminal())
		assert.True(t, Won(MarkB, Line{2, 4, 6}).IsTerminal())
		assert.True(t, Draw().IsTerminal())
	})

	t.Run("Won status encodes the line", func(t *testing.T) {
		// When: encoding a won status
		data, err := json.Marshal(Won(MarkA, Line{0, 1, 2}))
		require.NoError(t, err)

		// Then: state, winner and line are present
		assert.JSONEq(t, `{"state":"won","mark":"X","line":[0,1,2]}`, string(data))
	})

	t.Run("Unknown state is rejected", func(t *testing.T) {
		var status Status

		err := json.Unmarshal([]byte(`{"state":"paused"}`), &status)

		assert.ErrorIs(t, err, ErrUnknownState)
	})
}

func TestScore_Record(t *testing.T) {
	// Given: an empty score
	var score Score

	// When: recording a mix of statuses
	score.Record(Won(MarkA, Line{0, 1, 2}))
	score.Record(Won(MarkB, Line{0, 4, 8}))
	score.Record(Won(MarkA, Line{2, 5, 8}))
	score.Record(Draw())
	score.Record(InProgress(MarkA))

	// Then: only finished games are counted
	assert.Equal(t, Score{WinsA: 2, WinsB: 1, Draws: 1}, score)
}
