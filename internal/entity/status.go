package entity

import (
	"errors"
	"fmt"
)

// State is the phase of a game.
type State uint8

const (
	StateInProgress State = iota
	StateWon
	StateDraw
)

const (
	stateInProgress = "in_progress"
	stateWon        = "won"
	stateDraw       = "draw"
)

var ErrUnknownState = errors.New("unknown game state")

func (that State) String() string {
	switch that {
	case StateWon:
		return stateWon
	case StateDraw:
		return stateDraw
	default:
		return stateInProgress
	}
}

func (that State) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case stateInProgress:
		*that = StateInProgress
	case stateWon:
		*that = StateWon
	case stateDraw:
		*that = StateDraw
	default:
		return fmt.Errorf("%w: %q", ErrUnknownState, string(text))
	}

	return nil
}

// Status is what the front end displays after every action.
// Mark is the active mark while in progress and the winner once won; Line is set only when won.
type Status struct {
	State State `json:"state"`
	Mark  Mark  `json:"mark,omitempty"`
	Line  *Line `json:"line,omitempty"`
}

func InProgress(active Mark) Status {
	return Status{State: StateInProgress, Mark: active}
}

func Won(winner Mark, line Line) Status {
	return Status{State: StateWon, Mark: winner, Line: &line}
}

func Draw() Status {
	return Status{State: StateDraw}
}

// IsTerminal reports whether no further placements are accepted.
func (that Status) IsTerminal() bool {
	return that.State == StateWon || that.State == StateDraw
}

func (that Status) String() string {
	switch that.State {
	case StateWon:
		if that.Line == nil {
			return fmt.Sprintf("%s wins", that.Mark)
		}
		return fmt.Sprintf("%s wins on %v", that.Mark, *that.Line)
	case StateDraw:
		return "draw"
	default:
		return fmt.Sprintf("%s to move", that.Mark)
	}
}

// Snapshot is the flat record kept across a front end restart.
type Snapshot struct {
	Board      Board `json:"board"`
	ActiveMark Mark  `json:"active_mark"`
	Finished   bool  `json:"finished"`
	MovesCount int   `json:"moves_count"`
}

// Score tallies finished games per session.
type Score struct {
	WinsA int `json:"wins_x"`
	WinsB int `json:"wins_o"`
	Draws int `json:"draws"`
}

// Record adds a finished game to the tally. Non-terminal statuses are ignored.
func (that *Score) Record(status Status) {
	switch {
	case status.State == StateDraw:
		that.Draws++
	case status.State == StateWon && status.Mark == MarkA:
		that.WinsA++
	case status.State == StateWon && status.Mark == MarkB:
		that.WinsB++
	}
}
