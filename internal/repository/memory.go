package repository

import (
	"context"
	"sync"
	"time"

	"darkveil/internal/models"
)

type memoryEntry struct {
	state     *models.FlowState
	expiresAt time.Time
}

// MemoryStateRepository keeps flow snapshots in process memory. It is
// the default backend and the failover target when Redis is down.
type MemoryStateRepository struct {
	states sync.Map
	ttl    time.Duration
}

func NewMemoryStateRepository(ttl time.Duration) *MemoryStateRepository {
	return &MemoryStateRepository{
		ttl: ttl,
	}
}

func (r *MemoryStateRepository) GetState(ctx context.Context, sessionID string) (*models.FlowState, error) {
	val, ok := r.states.Load(sessionID)
	if !ok {
		return nil, nil
	}
	entry := val.(*memoryEntry)
	if r.ttl > 0 && time.Now().After(entry.expiresAt) {
		r.states.Delete(sessionID)
		return nil, nil
	}
	return entry.state, nil
}

func (r *MemoryStateRepository) SetState(ctx context.Context, state *models.FlowState) error {
	r.states.Store(state.SessionID, &memoryEntry{
		state:     state,
		expiresAt: time.Now().Add(r.ttl),
	})
	return nil
}

func (r *MemoryStateRepository) ClearState(ctx context.Context, sessionID string) error {
	r.states.Delete(sessionID)
	return nil
}
