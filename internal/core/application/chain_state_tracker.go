package application

import (
	"context"
	"fmt"
	"time"

	"github.com/numi-network/numi-wallet/internal/core/domain"
)

// ChainStateTracker supplies the continuation point of an account scan and
// keeps track of the ranges that still have to be applied.
type ChainStateTracker interface {
	ContinuationPoint(ctx context.Context, accountID string) (domain.ChainState, error)
	FailedRanges(ctx context.Context, accountID string) ([]domain.SyncGap, error)
	MarkFailed(ctx context.Context, accountID string, r FailedRange) error
	MarkApplied(ctx context.Context, accountID string, from, to uint64) error
}

type chainStateTracker struct {
	repository    domain.ChainStateRepository
	gapRepository domain.SyncGapRepository
}

func NewChainStateTracker(
	repository domain.ChainStateRepository,
	gapRepository domain.SyncGapRepository,
) ChainStateTracker {
	return &chainStateTracker{repository, gapRepository}
}

// ContinuationPoint returns the latest persisted chain state of the account,
// or the genesis state if it never scanned.
func (t *chainStateTracker) ContinuationPoint(
	ctx context.Context, accountID string,
) (domain.ChainState, error) {
	state, err := t.repository.GetLatestChainState(ctx, accountID)
	if err != nil {
		return domain.ChainState{}, fmt.Errorf(
			"failed to read chain state of account %s: %w", accountID, err,
		)
	}
	if state == nil {
		return domain.GenesisChainState(), nil
	}
	return *state, nil
}

// FailedRanges returns the persisted gaps of the account sorted by height.
func (t *chainStateTracker) FailedRanges(
	ctx context.Context, accountID string,
) ([]domain.SyncGap, error) {
	gaps, err := t.gapRepository.GetSyncGaps(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to read sync gaps of account %s: %w", accountID, err,
		)
	}
	return gaps, nil
}

func (t *chainStateTracker) MarkFailed(
	ctx context.Context, accountID string, r FailedRange,
) error {
	return t.gapRepository.AddSyncGap(ctx, domain.SyncGap{
		AccountID: accountID,
		From:      r.From,
		To:        r.To,
		Reason:    r.Reason,
		CreatedAt: time.Now().Unix(),
	})
}

func (t *chainStateTracker) MarkApplied(
	ctx context.Context, accountID string, from, to uint64,
) error {
	return t.gapRepository.ResolveSyncGaps(ctx, accountID, from, to)
}
