package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-board/internal/config"
	"github.com/rocketscienceinc/tictactoe-board/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-board/internal/repository"
	"github.com/rocketscienceinc/tictactoe-board/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-board/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-board/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-board/transport/console"
	"github.com/rocketscienceinc/tictactoe-board/transport/rest"
)

// RunApp - runs the application until in is closed, parent is done or a signal arrives.
// The snapshot is saved once the console loop has stopped.
func RunApp(parent context.Context, logger *slog.Logger, conf *config.Config, in io.Reader, out io.Writer) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	startingMark, err := conf.GetStartingMark()
	if err != nil {
		return fmt.Errorf("invalid starting mark: %w", err)
	}

	snapshotRepo, closeStorage, err := newSnapshotRepository(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := closeStorage(); closeErr != nil {
			log.Error("could not close snapshot storage", "error", closeErr)
		}
	}()

	gameMetrics := metrics.New()
	engine := tictactoe.NewEngine(startingMark)
	controller := usecase.NewGameController(logger, engine, snapshotRepo, gameMetrics, conf.SessionID)

	if _, err = controller.Restore(ctx); err != nil {
		log.Warn("could not restore snapshot, starting a new board", "error", err)
	}

	// runs after the console loop returned, so nothing else touches the engine
	defer func() {
		// the signal may already have cancelled ctx
		if saveErr := controller.Save(context.WithoutCancel(ctx)); saveErr != nil {
			log.Error("could not save snapshot", "error", saveErr)
		}
	}()

	// run HTTP server
	httpErrCh := make(chan error, 1)
	if conf.HTTPPort != "" {
		go func() {
			log.Info("Starting HTTP server", "port", conf.HTTPPort)
			if httpErr := rest.Start(ctx, conf.HTTPPort, rest.NewRouter(gameMetrics.Registry)); httpErr != nil {
				log.Error("HTTP server error", "error", httpErr)
				httpErrCh <- httpErr
			}
		}()
	}

	// run console
	consoleDone := make(chan error, 1)
	go func() {
		consoleDone <- console.New(logger, controller, startingMark).Start(ctx, in, out)
	}()

	select {
	case err = <-httpErrCh:
		cancel()
		<-consoleDone

		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-consoleDone:
		if err != nil {
			return fmt.Errorf("console error: %w", err)
		}

		log.Info("Console closed, shutting down")
		return nil
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")

		if err = <-consoleDone; err != nil {
			log.Error("console stopped with error", "error", err)
		}

		return nil
	}
}

// newSnapshotRepository picks Redis when enabled and the in-memory store otherwise.
func newSnapshotRepository(ctx context.Context, conf *config.Config) (repository.SnapshotRepository, func() error, error) {
	if !conf.Redis.Enabled {
		return repository.NewMemorySnapshotRepository(), func() error { return nil }, nil
	}

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return repository.NewSnapshotRepository(redisStorage, conf.Redis.SnapshotTTL), redisStorage.Close, nil
}
