package console

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-board/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
	"github.com/rocketscienceinc/tictactoe-board/internal/usecase"
)

type gameController interface {
	Subscribe(fn usecase.Listener)
	Tap(cell int) (entity.Status, bool)
	Reset(startingMark entity.Mark) entity.Status
	Status() entity.Status
	Board() entity.Board
	Score() entity.Score
	Save(ctx context.Context) error
}

type handler func(ctx context.Context, payload *Payload) error

// Server reads one JSON message per line and answers on out.
// Every board change is pushed as a "game:update" message.
type Server struct {
	logger     *slog.Logger
	controller gameController

	startingMark entity.Mark
	out          io.Writer

	handlers map[string]handler
}

func New(logger *slog.Logger, controller gameController, startingMark entity.Mark) *Server {
	server := &Server{
		logger:       logger.With("component", "console"),
		controller:   controller,
		startingMark: startingMark,
	}

	server.handlers = map[string]handler{
		actionTap:    server.handleTap,
		actionReset:  server.handleReset,
		actionStatus: server.handleStatus,
		actionScore:  server.handleScore,
		actionSave:   server.handleSave,
	}

	controller.Subscribe(server.publishUpdate)

	return server
}

// Start processes in until EOF or ctx is done. Only write failures stop the loop.
// The controller is touched only from the calling goroutine; a reader goroutine
// blocked on in is left behind on cancel and never reaches the controller.
func (that *Server) Start(ctx context.Context, in io.Reader, out io.Writer) error {
	log := that.logger.With("method", "Start")

	that.out = out
	defer func() {
		that.out = nil
	}()

	if err := that.sendUpdate(that.controller.Status(), that.controller.Board()); err != nil {
		return err
	}

	lines, readErr := readLines(ctx, in)

	for {
		select {
		case <-ctx.Done():
			log.Info("context canceled, console stopped")
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}

				log.Info("input closed")
				return nil
			}

			if len(line) == 0 {
				continue
			}

			if err := that.handleLine(ctx, line); err != nil {
				return err
			}
		}
	}
}

// readLines scans in on its own goroutine. readErr receives exactly one value before lines is closed.
func readLines(ctx context.Context, in io.Reader) (<-chan []byte, <-chan error) {
	lines := make(chan []byte)
	readErr := make(chan error, 1)

	go func() {
		var err error
		defer func() {
			readErr <- err
			close(lines)
		}()

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)

			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}

		err = scanner.Err()
	}()

	return lines, readErr
}

func (that *Server) handleLine(ctx context.Context, line []byte) error {
	log := that.logger.With("method", "handleLine")

	var message Message
	if err := json.Unmarshal(line, &message); err != nil {
		log.Warn("failed to unmarshal message", "error", err)
		return that.sendError(actionError, "malformed message")
	}

	handle, ok := that.handlers[message.Action]
	if !ok {
		log.Warn("unknown action", "action", message.Action)
		return that.sendError(message.Action, fmt.Errorf("%w: %q", apperror.ErrUnknownAction, message.Action).Error())
	}

	var payload Payload
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, &payload); err != nil {
			log.Warn("failed to unmarshal payload", "action", message.Action, "error", err)
			return that.sendError(message.Action, "malformed payload")
		}
	}

	return handle(ctx, &payload)
}

func (that *Server) handleTap(_ context.Context, payload *Payload) error {
	if payload.Cell == nil {
		return that.sendError(actionTap, "cell is required")
	}

	// accepted taps are answered by the game:update subscription
	status, accepted := that.controller.Tap(*payload.Cell)
	if accepted {
		return nil
	}

	return writeMessage(that.out, actionTap, Payload{
		Cell:     payload.Cell,
		Status:   &status,
		Rejected: true,
	})
}

func (that *Server) handleReset(_ context.Context, payload *Payload) error {
	mark := that.startingMark
	if payload.Mark != nil && payload.Mark.IsPlayer() {
		mark = *payload.Mark
	}

	that.controller.Reset(mark)

	return nil
}

func (that *Server) handleStatus(_ context.Context, _ *Payload) error {
	status := that.controller.Status()
	board := that.controller.Board()

	return writeMessage(that.out, actionStatus, Payload{Status: &status, Board: &board})
}

func (that *Server) handleScore(_ context.Context, _ *Payload) error {
	score := that.controller.Score()

	return writeMessage(that.out, actionScore, Payload{Score: &score})
}

func (that *Server) handleSave(ctx context.Context, _ *Payload) error {
	if err := that.controller.Save(ctx); err != nil {
		that.logger.Error("failed to save snapshot", "error", err)
		return that.sendError(actionSave, "failed to save the game")
	}

	return writeMessage(that.out, actionSave, Payload{Saved: true})
}

// publishUpdate is a no-op while no Start call is running.
func (that *Server) publishUpdate(status entity.Status, board entity.Board) {
	if that.out == nil {
		return
	}

	if err := that.sendUpdate(status, board); err != nil {
		that.logger.Error("failed to send game update", "error", err)
	}
}

func (that *Server) sendUpdate(status entity.Status, board entity.Board) error {
	return writeMessage(that.out, actionUpdate, Payload{Status: &status, Board: &board})
}

func (that *Server) sendError(action, message string) error {
	return writeMessage(that.out, action, Payload{Error: message})
}
