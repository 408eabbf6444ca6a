package inmemory

import (
	"context"
	"sync"

	"github.com/numi-network/numi-wallet/internal/core/domain"
)

type walletRepositoryImpl struct {
	locker *sync.RWMutex
	wallet *domain.Wallet
}

// NewWalletRepositoryImpl returns a new empty WalletRepository
func NewWalletRepositoryImpl() domain.WalletRepository {
	return &walletRepositoryImpl{
		locker: &sync.RWMutex{},
	}
}

func (r *walletRepositoryImpl) CreateWallet(
	ctx context.Context, wallet domain.Wallet,
) error {
	r.locker.Lock()
	defer r.locker.Unlock()

	if r.wallet != nil {
		return domain.ErrWalletAlreadyExists
	}
	r.wallet = &wallet
	return nil
}

func (r *walletRepositoryImpl) GetWallet(
	ctx context.Context,
) (*domain.Wallet, error) {
	r.locker.RLock()
	defer r.locker.RUnlock()

	if r.wallet == nil {
		return nil, domain.ErrWalletNotFound
	}
	w := *r.wallet
	return &w, nil
}
