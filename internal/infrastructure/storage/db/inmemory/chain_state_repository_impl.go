package inmemory

import (
	"context"
	"sync"

	"github.com/numi-network/numi-wallet/internal/core/domain"
)

type chainStateRepositoryImpl struct {
	locker *sync.RWMutex
	// latest chain state by account id
	states map[string]domain.ChainState
}

// NewChainStateRepositoryImpl returns a new empty ChainStateRepository
func NewChainStateRepositoryImpl() domain.ChainStateRepository {
	return &chainStateRepositoryImpl{
		locker: &sync.RWMutex{},
		states: make(map[string]domain.ChainState),
	}
}

func (r *chainStateRepositoryImpl) GetLatestChainState(
	ctx context.Context, accountID string,
) (*domain.ChainState, error) {
	r.locker.RLock()
	defer r.locker.RUnlock()

	state, ok := r.states[accountID]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

func (r *chainStateRepositoryImpl) AddChainState(
	ctx context.Context, accountID string, state domain.ChainState,
) error {
	r.locker.Lock()
	defer r.locker.Unlock()

	if latest, ok := r.states[accountID]; ok && state.Height < latest.Height {
		return domain.ErrChainStateRegression
	}
	r.states[accountID] = state
	return nil
}
