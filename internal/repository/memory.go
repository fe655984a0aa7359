package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/tictactoe-board/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
)

type memorySnapshot struct {
	mu        sync.RWMutex
	snapshots map[string]entity.Snapshot
}

// NewMemorySnapshotRepository keeps snapshots for the lifetime of the process.
func NewMemorySnapshotRepository() SnapshotRepository {
	return &memorySnapshot{
		snapshots: make(map[string]entity.Snapshot),
	}
}

func (that *memorySnapshot) Save(_ context.Context, id string, snapshot entity.Snapshot) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.snapshots[id] = snapshot

	return nil
}

func (that *memorySnapshot) GetByID(_ context.Context, id string) (entity.Snapshot, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	snapshot, ok := that.snapshots[id]
	if !ok {
		return entity.Snapshot{}, apperror.ErrSnapshotNotFound
	}

	return snapshot, nil
}
