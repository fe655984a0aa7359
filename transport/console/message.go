package console

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
)

const (
	actionTap    = "game:tap"
	actionReset  = "game:reset"
	actionStatus = "game:status"
	actionScore  = "game:score"
	actionSave   = "game:save"
	actionUpdate = "game:update"
	actionError  = "error"
)

// Message is one line of the console protocol.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	Cell     *int           `json:"cell,omitempty"`
	Mark     *entity.Mark   `json:"mark,omitempty"`
	Status   *entity.Status `json:"status,omitempty"`
	Board    *entity.Board  `json:"board,omitempty"`
	Score    *entity.Score  `json:"score,omitempty"`
	Rejected bool           `json:"rejected,omitempty"`
	Saved    bool           `json:"saved,omitempty"`
	Error    string         `json:"error,omitempty"`
}

func writeMessage(out io.Writer, action string, payload Payload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	response, err := json.Marshal(Message{Action: action, Payload: payloadJSON})
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	if _, err = out.Write(append(response, '\n')); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}

	return nil
}
