package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/numi-network/numi-wallet/internal/core/domain"
)

type accountRepositoryImpl struct {
	locker         *sync.RWMutex
	accounts       map[string]domain.Account
	idByViewingKey map[string]string
}

// NewAccountRepositoryImpl returns a new empty AccountRepository
func NewAccountRepositoryImpl() domain.AccountRepository {
	return &accountRepositoryImpl{
		locker:         &sync.RWMutex{},
		accounts:       make(map[string]domain.Account),
		idByViewingKey: make(map[string]string),
	}
}

func (r *accountRepositoryImpl) GetOrCreateAccount(
	ctx context.Context, vk domain.ViewingKey, birthday domain.ChainState,
) (*domain.Account, error) {
	r.locker.Lock()
	defer r.locker.Unlock()

	if id, ok := r.idByViewingKey[vk.Fingerprint()]; ok {
		account := r.accounts[id]
		return &account, nil
	}

	account, err := domain.NewAccount(vk, birthday)
	if err != nil {
		return nil, err
	}
	r.accounts[account.ID] = *account
	r.idByViewingKey[account.Fingerprint] = account.ID
	return account, nil
}

func (r *accountRepositoryImpl) GetAccount(
	ctx context.Context, id string,
) (*domain.Account, error) {
	r.locker.RLock()
	defer r.locker.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &account, nil
}

func (r *accountRepositoryImpl) GetAccountByViewingKey(
	ctx context.Context, vk domain.ViewingKey,
) (*domain.Account, error) {
	r.locker.RLock()
	defer r.locker.RUnlock()

	id, ok := r.idByViewingKey[vk.Fingerprint()]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	account := r.accounts[id]
	return &account, nil
}

func (r *accountRepositoryImpl) ListAccounts(
	ctx context.Context,
) ([]domain.Account, error) {
	r.locker.RLock()
	defer r.locker.RUnlock()

	accounts := make([]domain.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		accounts = append(accounts, account)
	}
	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt < accounts[j].CreatedAt
	})
	return accounts, nil
}
