package dbbadger

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/numi-network/numi-wallet/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type chainStateRecord struct {
	AccountID string
	Height    uint64
	Hash      string
}

type chainStateRepositoryImpl struct {
	store *badgerhold.Store
}

// NewChainStateRepositoryImpl returns a ChainStateRepository backed by the
// given store. Every persisted state is kept, keyed by account and height.
func NewChainStateRepositoryImpl(store *badgerhold.Store) domain.ChainStateRepository {
	return &chainStateRepositoryImpl{store}
}

func (r *chainStateRepositoryImpl) GetLatestChainState(
	ctx context.Context, accountID string,
) (*domain.ChainState, error) {
	var latest *domain.ChainState
	err := r.store.Badger().View(func(txn *badger.Txn) error {
		var err error
		latest, err = r.getLatest(txn, accountID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return latest, nil
}

func (r *chainStateRepositoryImpl) AddChainState(
	ctx context.Context, accountID string, state domain.ChainState,
) error {
	return r.store.Badger().Update(func(txn *badger.Txn) error {
		latest, err := r.getLatest(txn, accountID)
		if err != nil {
			return err
		}
		if latest != nil && state.Height < latest.Height {
			return domain.ErrChainStateRegression
		}

		record := chainStateRecord{
			AccountID: accountID,
			Height:    state.Height,
			Hash:      state.Hash,
		}
		if err := r.store.TxUpsert(
			txn, chainStateKey(accountID, state.Height), record,
		); err != nil {
			return storageError(err)
		}
		return nil
	})
}

func (r *chainStateRepositoryImpl) getLatest(
	txn *badger.Txn, accountID string,
) (*domain.ChainState, error) {
	var records []chainStateRecord
	query := badgerhold.Where("AccountID").Eq(accountID).
		SortBy("Height").Reverse().Limit(1)
	if err := r.store.TxFind(txn, &records, query); err != nil {
		return nil, storageError(err)
	}
	if len(records) <= 0 {
		return nil, nil
	}
	return &domain.ChainState{
		Height: records[0].Height,
		Hash:   records[0].Hash,
	}, nil
}

func chainStateKey(accountID string, height uint64) string {
	return fmt.Sprintf("%s/%020d", accountID, height)
}
