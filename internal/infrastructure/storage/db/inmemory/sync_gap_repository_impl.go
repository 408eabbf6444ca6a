package inmemory

import (
	"context"
	"sync"

	"github.com/numi-network/numi-wallet/internal/core/domain"
)

type syncGapRepositoryImpl struct {
	locker *sync.RWMutex
	// sorted gaps by account id
	gaps map[string][]domain.SyncGap
}

// NewSyncGapRepositoryImpl returns a new empty SyncGapRepository
func NewSyncGapRepositoryImpl() domain.SyncGapRepository {
	return &syncGapRepositoryImpl{
		locker: &sync.RWMutex{},
		gaps:   make(map[string][]domain.SyncGap),
	}
}

func (r *syncGapRepositoryImpl) AddSyncGap(
	ctx context.Context, gap domain.SyncGap,
) error {
	if err := gap.Validate(); err != nil {
		return err
	}

	r.locker.Lock()
	defer r.locker.Unlock()

	gaps := domain.SubtractRange(r.gaps[gap.AccountID], gap.From, gap.To)
	gaps = append(gaps, gap)
	domain.SortSyncGaps(gaps)
	r.gaps[gap.AccountID] = gaps
	return nil
}

func (r *syncGapRepositoryImpl) GetSyncGaps(
	ctx context.Context, accountID string,
) ([]domain.SyncGap, error) {
	r.locker.RLock()
	defer r.locker.RUnlock()

	gaps := make([]domain.SyncGap, len(r.gaps[accountID]))
	copy(gaps, r.gaps[accountID])
	return gaps, nil
}

func (r *syncGapRepositoryImpl) ResolveSyncGaps(
	ctx context.Context, accountID string, from, to uint64,
) error {
	r.locker.Lock()
	defer r.locker.Unlock()

	gaps, ok := r.gaps[accountID]
	if !ok {
		return nil
	}
	left := domain.SubtractRange(gaps, from, to)
	if len(left) <= 0 {
		delete(r.gaps, accountID)
		return nil
	}
	r.gaps[accountID] = left
	return nil
}
