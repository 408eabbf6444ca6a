package dbbadger

import (
	"context"

	"github.com/numi-network/numi-wallet/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

const walletKey = "wallet"

type walletRepositoryImpl struct {
	store *badgerhold.Store
}

// NewWalletRepositoryImpl returns a WalletRepository backed by the given
// store. The store holds at most one wallet.
func NewWalletRepositoryImpl(store *badgerhold.Store) domain.WalletRepository {
	return &walletRepositoryImpl{store}
}

func (r *walletRepositoryImpl) CreateWallet(
	ctx context.Context, wallet domain.Wallet,
) error {
	if err := r.store.Insert(walletKey, wallet); err != nil {
		if err == badgerhold.ErrKeyExists {
			return domain.ErrWalletAlreadyExists
		}
		return storageError(err)
	}
	return nil
}

func (r *walletRepositoryImpl) GetWallet(
	ctx context.Context,
) (*domain.Wallet, error) {
	var wallet domain.Wallet
	if err := r.store.Get(walletKey, &wallet); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrWalletNotFound
		}
		return nil, storageError(err)
	}
	return &wallet, nil
}
