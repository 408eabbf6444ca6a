package dbbadger

import (
	"context"
	"errors"
	"sort"

	"github.com/dgraph-io/badger/v3"
	"github.com/numi-network/numi-wallet/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type accountRepositoryImpl struct {
	store *badgerhold.Store
}

// NewAccountRepositoryImpl returns an AccountRepository backed by the given
// store. Accounts are keyed by viewing key fingerprint.
func NewAccountRepositoryImpl(store *badgerhold.Store) domain.AccountRepository {
	return &accountRepositoryImpl{store}
}

func (r *accountRepositoryImpl) GetOrCreateAccount(
	ctx context.Context, vk domain.ViewingKey, birthday domain.ChainState,
) (*domain.Account, error) {
	account, err := r.getOrCreateAccount(vk, birthday)
	if errors.Is(err, badger.ErrConflict) {
		// A concurrent writer created the account first.
		return r.GetAccountByViewingKey(ctx, vk)
	}
	return account, err
}

func (r *accountRepositoryImpl) GetAccount(
	ctx context.Context, id string,
) (*domain.Account, error) {
	var accounts []domain.Account
	if err := r.store.Find(
		&accounts, badgerhold.Where("ID").Eq(id).Limit(1),
	); err != nil {
		return nil, storageError(err)
	}
	if len(accounts) <= 0 {
		return nil, domain.ErrAccountNotFound
	}
	return &accounts[0], nil
}

func (r *accountRepositoryImpl) GetAccountByViewingKey(
	ctx context.Context, vk domain.ViewingKey,
) (*domain.Account, error) {
	var account domain.Account
	if err := r.store.Get(vk.Fingerprint(), &account); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrAccountNotFound
		}
		return nil, storageError(err)
	}
	return &account, nil
}

func (r *accountRepositoryImpl) ListAccounts(
	ctx context.Context,
) ([]domain.Account, error) {
	var accounts []domain.Account
	if err := r.store.Find(&accounts, nil); err != nil {
		return nil, storageError(err)
	}
	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt < accounts[j].CreatedAt
	})
	return accounts, nil
}

func (r *accountRepositoryImpl) getOrCreateAccount(
	vk domain.ViewingKey, birthday domain.ChainState,
) (*domain.Account, error) {
	var account *domain.Account
	fingerprint := vk.Fingerprint()

	err := r.store.Badger().Update(func(txn *badger.Txn) error {
		var existing domain.Account
		err := r.store.TxGet(txn, fingerprint, &existing)
		if err == nil {
			account = &existing
			return nil
		}
		if err != badgerhold.ErrNotFound {
			return storageError(err)
		}

		newAccount, err := domain.NewAccount(vk, birthday)
		if err != nil {
			return err
		}
		if err := r.store.TxInsert(txn, fingerprint, newAccount); err != nil {
			return storageError(err)
		}
		account = newAccount
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}
