package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/numi-network/numi-wallet/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type noteRepositoryImpl struct {
	store *badgerhold.Store
}

// NewNoteRepositoryImpl returns a NoteRepository backed by the given store.
func NewNoteRepositoryImpl(store *badgerhold.Store) domain.NoteRepository {
	return &noteRepositoryImpl{store}
}

func (r *noteRepositoryImpl) AddNotes(
	ctx context.Context, notes []domain.Note,
) (int, error) {
	count := 0
	err := r.store.Badger().Update(func(txn *badger.Txn) error {
		for _, n := range notes {
			if err := r.store.TxInsert(txn, n.AccountID+":"+n.Key(), n); err != nil {
				if err == badgerhold.ErrKeyExists {
					continue
				}
				return storageError(err)
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *noteRepositoryImpl) GetUnspentNotes(
	ctx context.Context, accountID string,
) ([]domain.Note, error) {
	var notes []domain.Note
	query := badgerhold.Where("AccountID").Eq(accountID).And("Spent").Eq(false)
	if err := r.store.Find(&notes, query); err != nil {
		return nil, storageError(err)
	}
	return notes, nil
}
