package dbbadger

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/numi-network/numi-wallet/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type syncGapRepositoryImpl struct {
	store *badgerhold.Store
}

// NewSyncGapRepositoryImpl returns a SyncGapRepository backed by the given
// store. Gaps are keyed by account and first height.
func NewSyncGapRepositoryImpl(store *badgerhold.Store) domain.SyncGapRepository {
	return &syncGapRepositoryImpl{store}
}

func (r *syncGapRepositoryImpl) AddSyncGap(
	ctx context.Context, gap domain.SyncGap,
) error {
	if err := gap.Validate(); err != nil {
		return err
	}

	return r.store.Badger().Update(func(txn *badger.Txn) error {
		if err := r.subtract(txn, gap.AccountID, gap.From, gap.To); err != nil {
			return err
		}
		if err := r.store.TxUpsert(
			txn, syncGapKey(gap.AccountID, gap.From), gap,
		); err != nil {
			return storageError(err)
		}
		return nil
	})
}

func (r *syncGapRepositoryImpl) GetSyncGaps(
	ctx context.Context, accountID string,
) ([]domain.SyncGap, error) {
	var gaps []domain.SyncGap
	query := badgerhold.Where("AccountID").Eq(accountID).SortBy("From")
	if err := r.store.Find(&gaps, query); err != nil {
		return nil, storageError(err)
	}
	if gaps == nil {
		gaps = make([]domain.SyncGap, 0)
	}
	return gaps, nil
}

func (r *syncGapRepositoryImpl) ResolveSyncGaps(
	ctx context.Context, accountID string, from, to uint64,
) error {
	return r.store.Badger().Update(func(txn *badger.Txn) error {
		return r.subtract(txn, accountID, from, to)
	})
}

// subtract removes [from, to] from the stored gaps of the account, rewriting
// the ones it splits or shortens.
func (r *syncGapRepositoryImpl) subtract(
	txn *badger.Txn, accountID string, from, to uint64,
) error {
	var overlapping []domain.SyncGap
	query := badgerhold.Where("AccountID").Eq(accountID).
		And("From").Le(to).And("To").Ge(from)
	if err := r.store.TxFind(txn, &overlapping, query); err != nil {
		return storageError(err)
	}

	for _, gap := range overlapping {
		if err := r.store.TxDelete(
			txn, syncGapKey(accountID, gap.From), domain.SyncGap{},
		); err != nil {
			return storageError(err)
		}
		for _, left := range gap.Subtract(from, to) {
			if err := r.store.TxUpsert(
				txn, syncGapKey(accountID, left.From), left,
			); err != nil {
				return storageError(err)
			}
		}
	}
	return nil
}

func syncGapKey(accountID string, from uint64) string {
	return fmt.Sprintf("%s/%020d", accountID, from)
}
